package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/quickdesk/internal/domain"
	"github.com/spec-kit/quickdesk/internal/events"
	apperrors "github.com/spec-kit/quickdesk/pkg/util/errorutil"
)

func TestAssignPromotesOpenTicketOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.seedUser("alice", domain.RoleUser)
	admin := f.seedUser("admin", domain.RoleAdmin)
	agent := f.seedUser("agent", domain.RoleAgent)
	other := f.seedUser("other", domain.RoleAgent)
	ticket := f.seedTicket(alice)

	view, err := f.assignments.AssignTicket(ctx, admin, ticket.ID, agent.UserID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, view.Status)
	require.NotNil(t, view.AssigneeID)
	assert.Equal(t, agent.UserID, *view.AssigneeID)
	require.NotNil(t, view.AssigneeName)
	assert.Equal(t, "Agent", *view.AssigneeName)

	_, err = f.assignments.UpdateStatus(ctx, agent, ticket.ID, domain.TicketStatusResolved)
	require.NoError(t, err)

	view, err = f.assignments.AssignTicket(ctx, admin, ticket.ID, other.UserID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, view.Status)
	assert.Equal(t, other.UserID, *view.AssigneeID)
}

func TestAssignRequiresStaffOnBothSides(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.seedUser("alice", domain.RoleUser)
	bob := f.seedUser("bob", domain.RoleUser)
	agent := f.seedUser("agent", domain.RoleAgent)
	ticket := f.seedTicket(alice)

	_, err := f.assignments.AssignTicket(ctx, alice, ticket.ID, agent.UserID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	_, err = f.assignments.AssignTicket(ctx, agent, ticket.ID, bob.UserID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = f.assignments.AssignTicket(ctx, agent, ticket.ID, "missing")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	_, err = f.assignments.AssignTicket(ctx, agent, "missing", agent.UserID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	_, err = f.assignments.AssignTicket(ctx, nil, ticket.ID, agent.UserID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}

func TestUpdateStatusAutoAssignsActingAgent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.seedUser("alice", domain.RoleUser)
	agent := f.seedUser("agent", domain.RoleAgent)
	ticket := f.seedTicket(alice)

	view, err := f.assignments.UpdateStatus(ctx, agent, ticket.ID, domain.TicketStatusResolved)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, view.Status)
	require.NotNil(t, view.AssigneeID)
	assert.Equal(t, agent.UserID, *view.AssigneeID)
	assert.Equal(t, []events.EventType{
		events.EventTicketCreated,
		events.EventTicketStatusChanged,
		events.EventTicketAssigned,
	}, f.events.types())

	// Same status again: no change event, no reassignment.
	_, err = f.assignments.UpdateStatus(ctx, agent, ticket.ID, domain.TicketStatusResolved)
	require.NoError(t, err)
	assert.Len(t, f.events.types(), 3)
}

func TestUpdateStatusRejections(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.seedUser("alice", domain.RoleUser)
	agent := f.seedUser("agent", domain.RoleAgent)
	ticket := f.seedTicket(alice)

	_, err := f.assignments.UpdateStatus(ctx, alice, ticket.ID, domain.TicketStatusClosed)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	_, err = f.assignments.UpdateStatus(ctx, agent, ticket.ID, "DONE")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = f.assignments.UpdateStatus(ctx, agent, "missing", domain.TicketStatusClosed)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestReassignKeepsReopenedStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.seedUser("alice", domain.RoleUser)
	admin := f.seedUser("admin", domain.RoleAdmin)
	agent := f.seedUser("agent", domain.RoleAgent)
	other := f.seedUser("other", domain.RoleAgent)
	ticket := f.seedTicket(alice)

	_, err := f.assignments.AssignTicket(ctx, admin, ticket.ID, agent.UserID)
	require.NoError(t, err)
	view, err := f.assignments.UpdateStatus(ctx, agent, ticket.ID, domain.TicketStatusOpen)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, view.Status)

	view, err = f.assignments.AssignTicket(ctx, admin, ticket.ID, other.UserID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, view.Status)
	assert.Equal(t, other.UserID, *view.AssigneeID)
}
