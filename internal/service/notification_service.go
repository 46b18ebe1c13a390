package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/quickdesk/internal/events"
	"github.com/spec-kit/quickdesk/internal/notify"
	"github.com/spec-kit/quickdesk/internal/repository"
)

// NotificationService turns ticket events into emails. Delivery problems
// are logged and never surface to the request that raised the event.
type NotificationService struct {
	dispatcher events.Dispatcher
	users      repository.UserRepository
	mailer     notify.Mailer
	logger     *zap.Logger
}

// NotificationDependencies bundles collaborators.
type NotificationDependencies struct {
	Dispatcher events.Dispatcher
	UserRepo   repository.UserRepository
	Mailer     notify.Mailer
	Logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	return &NotificationService{
		dispatcher: deps.Dispatcher,
		users:      deps.UserRepo,
		mailer:     deps.Mailer,
		logger:     deps.Logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handleTicketAssigned)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	creator, err := n.recipient(ctx, payload.Ticket.CreatorID)
	if err != nil {
		return err
	}
	n.send(ctx, event, notify.TicketCreated(payload.Ticket, *creator))
	return nil
}

func (n *NotificationService) handleTicketStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	creator, err := n.recipient(ctx, payload.Ticket.CreatorID)
	if err != nil {
		return err
	}
	var assignee *notify.Recipient
	if payload.Ticket.IsAssigned() {
		if assignee, err = n.recipient(ctx, *payload.Ticket.AssigneeID); err != nil {
			n.logger.Warn("assignee lookup failed", zap.String("ticket_id", event.TicketID), zap.Error(err))
			assignee = nil
		}
	}
	n.send(ctx, event, notify.TicketStatusChanged(payload.Ticket, payload.OldStatus, payload.NewStatus, *creator, assignee))
	return nil
}

func (n *NotificationService) handleTicketAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketAssignedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	creator, err := n.recipient(ctx, payload.Ticket.CreatorID)
	if err != nil {
		return err
	}
	agent, err := n.recipient(ctx, payload.AssigneeID)
	if err != nil {
		return err
	}
	n.send(ctx, event, notify.TicketAssignedToCreator(payload.Ticket, *creator, *agent))
	n.send(ctx, event, notify.TicketAssignedToAgent(payload.Ticket, *creator, *agent))
	return nil
}

func (n *NotificationService) recipient(ctx context.Context, userID string) (*notify.Recipient, error) {
	user, err := n.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load recipient %s: %w", userID, err)
	}
	return &notify.Recipient{Name: user.Name, Email: user.Email}, nil
}

func (n *NotificationService) send(ctx context.Context, event events.Event, msg notify.Message) {
	if err := n.mailer.Send(ctx, msg); err != nil {
		n.logger.Error("notification email failed",
			zap.String("event_type", string(event.Type)),
			zap.String("ticket_id", event.TicketID),
			zap.String("to", msg.To),
			zap.Error(err))
	}
}
