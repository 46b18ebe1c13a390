package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/quickdesk/internal/domain"
	"github.com/spec-kit/quickdesk/internal/policy"
	"github.com/spec-kit/quickdesk/internal/repository"
	"github.com/spec-kit/quickdesk/internal/sanitize"
	apperrors "github.com/spec-kit/quickdesk/pkg/util/errorutil"
)

// ReplyService appends to and reads ticket threads.
type ReplyService struct {
	tickets   repository.TicketRepository
	replies   repository.ReplyRepository
	users     repository.UserRepository
	policy    *policy.AccessPolicy
	sanitizer *sanitize.Sanitizer
	logger    *zap.Logger
}

// ReplyDependencies bundles collaborators for the reply service.
type ReplyDependencies struct {
	TicketRepo repository.TicketRepository
	ReplyRepo  repository.ReplyRepository
	UserRepo   repository.UserRepository
	Policy     *policy.AccessPolicy
	Sanitizer  *sanitize.Sanitizer
	Logger     *zap.Logger
}

// ReplyView is a reply with its author's display name.
type ReplyView struct {
	domain.Reply
	AuthorName string
}

// NewReplyService constructs the service.
func NewReplyService(deps ReplyDependencies) *ReplyService {
	return &ReplyService{
		tickets:   deps.TicketRepo,
		replies:   deps.ReplyRepo,
		users:     deps.UserRepo,
		policy:    deps.Policy,
		sanitizer: deps.Sanitizer,
		logger:    deps.Logger,
	}
}

// AddReply posts message to the ticket thread and bumps its reply count.
func (s *ReplyService) AddReply(ctx context.Context, identity *domain.Identity, ticketID, message string) (*domain.Reply, error) {
	if err := policy.RequireIdentity(identity); err != nil {
		return nil, err
	}
	ticket, err := loadTicket(ctx, s.tickets, ticketID)
	if err != nil {
		return nil, err
	}
	allowed, err := s.policy.CanReplyToTicket(ctx, ticket, identity.UserID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperrors.NewForbidden("access denied")
	}

	clean := s.sanitizer.Clean(message)
	if clean == "" {
		return nil, apperrors.NewValidationError("message must not be empty", nil)
	}

	reply := &domain.Reply{TicketID: ticket.ID, AuthorID: identity.UserID, Message: clean}
	if err := s.replies.Append(ctx, reply); err != nil {
		return nil, mapTicketWriteError(err, ticket.ID)
	}
	s.logger.Info("reply added", zap.String("ticket_id", ticket.ID), zap.String("reply_id", reply.ID))
	return reply, nil
}

// ListReplies returns the whole thread, oldest first.
func (s *ReplyService) ListReplies(ctx context.Context, identity *domain.Identity, ticketID string) ([]ReplyView, error) {
	if err := policy.RequireIdentity(identity); err != nil {
		return nil, err
	}
	ticket, err := loadTicket(ctx, s.tickets, ticketID)
	if err != nil {
		return nil, err
	}
	allowed, err := s.policy.CanAccessTicket(ctx, ticket, identity.UserID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperrors.NewForbidden("access denied")
	}

	replies, err := s.replies.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	authorIDs := make([]string, 0, len(replies))
	for _, r := range replies {
		authorIDs = append(authorIDs, r.AuthorID)
	}
	names, err := s.users.NamesByID(ctx, authorIDs)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	views := make([]ReplyView, 0, len(replies))
	for _, r := range replies {
		views = append(views, ReplyView{Reply: r, AuthorName: names[r.AuthorID]})
	}
	return views, nil
}
