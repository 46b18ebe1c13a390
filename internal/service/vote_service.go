package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/quickdesk/internal/domain"
	"github.com/spec-kit/quickdesk/internal/policy"
	"github.com/spec-kit/quickdesk/internal/repository"
	apperrors "github.com/spec-kit/quickdesk/pkg/util/errorutil"
)

// VoteService maintains the per-user vote ledger and the ticket tallies
// derived from it.
type VoteService struct {
	tickets repository.TicketRepository
	votes   repository.VoteRepository
	logger  *zap.Logger
}

// VoteDependencies bundles repositories for the vote service.
type VoteDependencies struct {
	TicketRepo repository.TicketRepository
	VoteRepo   repository.VoteRepository
	Logger     *zap.Logger
}

// NewVoteService constructs the service.
func NewVoteService(deps VoteDependencies) *VoteService {
	return &VoteService{
		tickets: deps.TicketRepo,
		votes:   deps.VoteRepo,
		logger:  deps.Logger,
	}
}

// CastVote applies voteType for the caller: a first vote is recorded, a
// repeat of the same type withdraws it, and the opposite type replaces it.
// Tallies are recounted from the ledger afterwards.
func (s *VoteService) CastVote(ctx context.Context, identity *domain.Identity, ticketID string, voteType domain.VoteType) (*domain.VoteTally, error) {
	if err := policy.RequireIdentity(identity); err != nil {
		return nil, err
	}
	if !voteType.Valid() {
		return nil, apperrors.NewValidationError("invalid vote type", map[string]any{"voteType": voteType})
	}
	if _, err := loadTicket(ctx, s.tickets, ticketID); err != nil {
		return nil, err
	}

	current, err := s.apply(ctx, ticketID, identity.UserID, voteType)
	if errors.Is(err, repository.ErrDuplicate) {
		// A concurrent first vote from the same user won the insert; the
		// ledger now has a row to toggle or overwrite.
		current, err = s.apply(ctx, ticketID, identity.UserID, voteType)
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	tally, err := s.recount(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	tally.Current = current
	return tally, nil
}

func (s *VoteService) apply(ctx context.Context, ticketID, voterID string, voteType domain.VoteType) (*domain.VoteType, error) {
	existing, err := s.votes.GetByTicketAndVoter(ctx, ticketID, voterID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		vote := &domain.Vote{TicketID: ticketID, VoterID: voterID, Type: voteType}
		if err := s.votes.Create(ctx, vote); err != nil {
			return nil, err
		}
		return &vote.Type, nil
	case err != nil:
		return nil, err
	case existing.Type == voteType:
		if err := s.votes.Delete(ctx, existing.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, nil
	default:
		if err := s.votes.UpdateType(ctx, existing.ID, voteType); err != nil {
			return nil, err
		}
		return &voteType, nil
	}
}

func (s *VoteService) recount(ctx context.Context, ticketID string) (*domain.VoteTally, error) {
	up, err := s.votes.CountByType(ctx, ticketID, domain.VoteUp)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	down, err := s.votes.CountByType(ctx, ticketID, domain.VoteDown)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.tickets.SetVoteCounts(ctx, ticketID, up, down); err != nil {
		return nil, mapTicketWriteError(err, ticketID)
	}
	s.logger.Debug("ticket votes recounted", zap.String("ticket_id", ticketID), zap.Int("upvotes", up), zap.Int("downvotes", down))
	return &domain.VoteTally{Upvotes: up, Downvotes: down}, nil
}
