package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/quickdesk/internal/domain"
	"github.com/spec-kit/quickdesk/internal/events"
	"github.com/spec-kit/quickdesk/internal/notify"
)

func TestNotificationsFollowTicketLifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.seedUser("alice", domain.RoleUser)
	agent := f.seedUser("agent", domain.RoleAgent)

	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	var sent []notify.Message
	notifications := NewNotificationService(NotificationDependencies{
		Dispatcher: dispatcher,
		UserRepo:   memUsers{f.store},
		Mailer: mailerFunc(func(_ context.Context, msg notify.Message) error {
			sent = append(sent, msg)
			return nil
		}),
		Logger: zap.NewNop(),
	})
	notifications.RegisterHandlers()
	f.tickets.dispatcher = dispatcher
	f.assignments.dispatcher = dispatcher

	ticket := f.seedTicket(alice)
	require.Len(t, sent, 1)
	assert.Equal(t, "alice@example.com", sent[0].To)

	_, err := f.assignments.AssignTicket(ctx, agent, ticket.ID, agent.UserID)
	require.NoError(t, err)
	require.Len(t, sent, 3)
	assert.Equal(t, "alice@example.com", sent[1].To)
	assert.Equal(t, "agent@example.com", sent[2].To)

	_, err = f.assignments.UpdateStatus(ctx, agent, ticket.ID, domain.TicketStatusResolved)
	require.NoError(t, err)
	require.Len(t, sent, 4)
	assert.Contains(t, sent[3].Markdown, "IN_PROGRESS → RESOLVED")
	assert.Contains(t, sent[3].Markdown, "Assigned Agent: Agent")
}

func TestNotificationFailuresDoNotFailCaller(t *testing.T) {
	f := newFixture()
	alice := f.seedUser("alice", domain.RoleUser)

	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	NewNotificationService(NotificationDependencies{
		Dispatcher: dispatcher,
		UserRepo:   memUsers{f.store},
		Mailer: mailerFunc(func(context.Context, notify.Message) error {
			return errors.New("smtp unavailable")
		}),
		Logger: zap.NewNop(),
	}).RegisterHandlers()
	f.tickets.dispatcher = dispatcher

	view, err := f.tickets.CreateTicket(context.Background(), alice, TicketCreateInput{
		Subject:     "S",
		Description: "D",
		Category:    domain.CategoryGeneral,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, view.ID)
}
