package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/quickdesk/internal/domain"
	"github.com/spec-kit/quickdesk/internal/events"
	"github.com/spec-kit/quickdesk/internal/repository"
	apperrors "github.com/spec-kit/quickdesk/pkg/util/errorutil"
)

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	dispatcher.Publish(ctx, event)
}

func loadTicket(ctx context.Context, tickets repository.TicketRepository, ticketID string) (*domain.Ticket, error) {
	ticket, err := tickets.GetByID(ctx, ticketID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func mapTicketWriteError(err error, ticketID string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}
	return apperrors.MapError(err)
}
