package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/quickdesk/internal/domain"
	"github.com/spec-kit/quickdesk/internal/events"
	"github.com/spec-kit/quickdesk/internal/policy"
	"github.com/spec-kit/quickdesk/internal/repository"
	"github.com/spec-kit/quickdesk/internal/sanitize"
	apperrors "github.com/spec-kit/quickdesk/pkg/util/errorutil"
)

// TicketService coordinates ticket creation, reads and listings.
type TicketService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	policy     *policy.AccessPolicy
	sanitizer  *sanitize.Sanitizer
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	Policy     *policy.AccessPolicy
	Sanitizer  *sanitize.Sanitizer
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Subject       string
	Description   string
	Category      domain.TicketCategory
	AttachmentURL *string
}

// TicketQuery carries listing parameters as the client sent them.
type TicketQuery struct {
	Status        *domain.TicketStatus
	Category      *domain.TicketCategory
	Search        *string
	SortBy        string
	SortDirection string
	Page          int
	Size          int
}

// TicketView is a ticket enriched with participant display names.
type TicketView struct {
	domain.Ticket
	CreatorName  string
	AssigneeName *string
}

// TicketPage is one page of a listing.
type TicketPage struct {
	Content       []TicketView
	Page          int
	Size          int
	TotalElements int64
	TotalPages    int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		policy:     deps.Policy,
		sanitizer:  deps.Sanitizer,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// CreateTicket opens a ticket owned by the caller.
func (s *TicketService) CreateTicket(ctx context.Context, identity *domain.Identity, input TicketCreateInput) (*TicketView, error) {
	if err := policy.RequireIdentity(identity); err != nil {
		return nil, err
	}
	if !input.Category.Valid() {
		return nil, apperrors.NewValidationError("invalid category", map[string]any{"category": input.Category})
	}

	ticket := &domain.Ticket{
		Subject:       s.sanitizer.Clean(input.Subject),
		Description:   s.sanitizer.Clean(input.Description),
		Category:      input.Category,
		Status:        domain.TicketStatusOpen,
		AttachmentURL: s.sanitizer.CleanOptional(input.AttachmentURL),
		CreatorID:     identity.UserID,
	}
	if ticket.Subject == "" || ticket.Description == "" {
		return nil, apperrors.NewValidationError("subject and description are required", nil)
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("ticket created", zap.String("ticket_id", ticket.ID), zap.String("creator_id", ticket.CreatorID))

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  identity.UserID,
		Payload:  events.TicketCreatedPayload{Ticket: *ticket},
	})
	return s.view(ctx, ticket)
}

// GetTicket returns a ticket the caller is allowed to read.
func (s *TicketService) GetTicket(ctx context.Context, identity *domain.Identity, ticketID string) (*TicketView, error) {
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
	return s.view(ctx, ticket)
}

// ListMyTickets pages through the caller's own tickets.
func (s *TicketService) ListMyTickets(ctx context.Context, identity *domain.Identity, query TicketQuery) (*TicketPage, error) {
	if err := policy.RequireIdentity(identity); err != nil {
		return nil, err
	}
	filter, err := buildFilter(query)
	if err != nil {
		return nil, err
	}
	filter.CreatorID = &identity.UserID
	return s.list(ctx, filter)
}

// ListAllTickets pages through every ticket. Staff only.
func (s *TicketService) ListAllTickets(ctx context.Context, identity *domain.Identity, query TicketQuery) (*TicketPage, error) {
	if err := policy.RequireIdentity(identity); err != nil {
		return nil, err
	}
	if _, err := s.policy.RequireStaff(ctx, identity.UserID); err != nil {
		return nil, err
	}
	filter, err := buildFilter(query)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, filter)
}

func (s *TicketService) list(ctx context.Context, filter repository.TicketFilter) (*TicketPage, error) {
	tickets, total, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	views, err := s.views(ctx, tickets)
	if err != nil {
		return nil, err
	}

	limit, offset := filter.Page()
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &TicketPage{
		Content:       views,
		Page:          offset / limit,
		Size:          limit,
		TotalElements: total,
		TotalPages:    totalPages,
	}, nil
}

func buildFilter(query TicketQuery) (repository.TicketFilter, error) {
	if query.Page < 0 {
		return repository.TicketFilter{}, apperrors.NewValidationError("page must not be negative", map[string]any{"page": query.Page})
	}
	if query.Status != nil && !query.Status.Valid() {
		return repository.TicketFilter{}, apperrors.NewValidationError("invalid status", map[string]any{"status": *query.Status})
	}
	if query.Category != nil && !query.Category.Valid() {
		return repository.TicketFilter{}, apperrors.NewValidationError("invalid category", map[string]any{"category": *query.Category})
	}

	size := query.Size
	if size <= 0 {
		size = repository.DefaultPageSize
	}
	if size > repository.MaxPageSize {
		size = repository.MaxPageSize
	}
	sortBy, desc := repository.ParseSort(query.SortBy, query.SortDirection)
	return repository.TicketFilter{
		Status:     query.Status,
		Category:   query.Category,
		SearchTerm: query.Search,
		SortBy:     sortBy,
		SortDesc:   desc,
		Limit:      size,
		Offset:     query.Page * size,
	}, nil
}

func (s *TicketService) view(ctx context.Context, ticket *domain.Ticket) (*TicketView, error) {
	views, err := s.views(ctx, []domain.Ticket{*ticket})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *TicketService) views(ctx context.Context, tickets []domain.Ticket) ([]TicketView, error) {
	return enrichTickets(ctx, s.users, tickets)
}

func enrichTickets(ctx context.Context, users repository.UserRepository, tickets []domain.Ticket) ([]TicketView, error) {
	ids := make([]string, 0, len(tickets)*2)
	seen := make(map[string]struct{}, len(tickets)*2)
	add := func(id string) {
		if _, ok := seen[id]; ok || id == "" {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, t := range tickets {
		add(t.CreatorID)
		if t.AssigneeID != nil {
			add(*t.AssigneeID)
		}
	}

	names, err := users.NamesByID(ctx, ids)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	views := make([]TicketView, 0, len(tickets))
	for _, t := range tickets {
		v := TicketView{Ticket: t, CreatorName: names[t.CreatorID]}
		if t.AssigneeID != nil {
			if name, ok := names[*t.AssigneeID]; ok {
				v.AssigneeName = &name
			}
		}
		views = append(views, v)
	}
	return views, nil
}
