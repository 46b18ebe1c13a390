package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/quickdesk/internal/domain"
	"github.com/spec-kit/quickdesk/internal/events"
	"github.com/spec-kit/quickdesk/internal/policy"
	"github.com/spec-kit/quickdesk/internal/repository"
	apperrors "github.com/spec-kit/quickdesk/pkg/util/errorutil"
)

// AssignmentService handles triage: status changes and assignment.
type AssignmentService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	policy     *policy.AccessPolicy
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AssignmentDependencies bundles repositories.
type AssignmentDependencies struct {
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	Policy     *policy.AccessPolicy
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		policy:     deps.Policy,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// UpdateStatus moves a ticket to newStatus. An unassigned ticket is
// assigned to the acting agent on the way.
func (s *AssignmentService) UpdateStatus(ctx context.Context, identity *domain.Identity, ticketID string, newStatus domain.TicketStatus) (*TicketView, error) {
	if err := policy.RequireIdentity(identity); err != nil {
		return nil, err
	}
	if !newStatus.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": newStatus})
	}
	agent, err := s.policy.RequireStaff(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	ticket, err := loadTicket(ctx, s.tickets, ticketID)
	if err != nil {
		return nil, err
	}

	oldStatus := ticket.Status
	autoAssigned := false
	if !ticket.IsAssigned() {
		ticket.AssigneeID = &agent.ID
		autoAssigned = true
	}
	ticket.Status = newStatus

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, mapTicketWriteError(err, ticket.ID)
	}
	s.logger.Info("ticket status updated",
		zap.String("ticket_id", ticket.ID),
		zap.String("from", string(oldStatus)),
		zap.String("to", string(newStatus)),
		zap.String("agent_id", agent.ID))

	if oldStatus != newStatus {
		publishEvent(ctx, s.dispatcher, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: ticket.ID,
			ActorID:  agent.ID,
			Payload:  events.TicketStatusChangedPayload{Ticket: *ticket, OldStatus: oldStatus, NewStatus: newStatus},
		})
	}
	if autoAssigned {
		s.publishAssigned(ctx, ticket, agent.ID, agent.ID)
	}
	return s.view(ctx, ticket)
}

// AssignTicket hands the ticket to agentID. The first assignment of an
// OPEN ticket moves it to IN_PROGRESS; reassignment leaves status alone.
func (s *AssignmentService) AssignTicket(ctx context.Context, identity *domain.Identity, ticketID, agentID string) (*TicketView, error) {
	if err := policy.RequireIdentity(identity); err != nil {
		return nil, err
	}
	if agentID == "" {
		return nil, apperrors.NewValidationError("agentId is required", nil)
	}
	assigner, err := s.policy.RequireStaff(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	ticket, err := loadTicket(ctx, s.tickets, ticketID)
	if err != nil {
		return nil, err
	}
	agent, err := s.users.GetByID(ctx, agentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("agent", map[string]any{"agent_id": agentID})
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !agent.Role.IsStaff() {
		return nil, apperrors.NewValidationError("assignee must be a support agent", map[string]any{"agent_id": agentID})
	}

	firstAssignment := !ticket.IsAssigned()
	ticket.AssigneeID = &agent.ID
	if firstAssignment && ticket.Status == domain.TicketStatusOpen {
		ticket.Status = domain.TicketStatusInProgress
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, mapTicketWriteError(err, ticket.ID)
	}
	s.logger.Info("ticket assigned",
		zap.String("ticket_id", ticket.ID),
		zap.String("agent_id", agent.ID),
		zap.String("assigner_id", assigner.ID))

	s.publishAssigned(ctx, ticket, agent.ID, assigner.ID)
	return s.view(ctx, ticket)
}

func (s *AssignmentService) publishAssigned(ctx context.Context, ticket *domain.Ticket, agentID, actorID string) {
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		ActorID:  actorID,
		Payload:  events.TicketAssignedPayload{Ticket: *ticket, AssigneeID: agentID},
	})
}

func (s *AssignmentService) view(ctx context.Context, ticket *domain.Ticket) (*TicketView, error) {
	views, err := enrichTickets(ctx, s.users, []domain.Ticket{*ticket})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}
