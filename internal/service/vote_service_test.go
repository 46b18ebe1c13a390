package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/quickdesk/internal/domain"
	"github.com/spec-kit/quickdesk/internal/repository"
	apperrors "github.com/spec-kit/quickdesk/pkg/util/errorutil"
)

func (f *fixture) ticketCounters(t *testing.T, id string) (int, int) {
	t.Helper()
	ticket, err := memTickets{f.store}.GetByID(context.Background(), id)
	require.NoError(t, err)
	return ticket.Upvotes, ticket.Downvotes
}

func TestVoteToggleOff(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.seedUser("alice", domain.RoleUser)
	ticket := f.seedTicket(alice)

	tally, err := f.votes.CastVote(ctx, alice, ticket.ID, domain.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, 1, tally.Upvotes)
	require.NotNil(t, tally.Current)
	assert.Equal(t, domain.VoteUp, *tally.Current)

	tally, err = f.votes.CastVote(ctx, alice, ticket.ID, domain.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, 0, tally.Upvotes)
	assert.Equal(t, 0, tally.Downvotes)
	assert.Nil(t, tally.Current)
	assert.Empty(t, f.store.votes)

	up, down := f.ticketCounters(t, ticket.ID)
	assert.Equal(t, 0, up)
	assert.Equal(t, 0, down)
}

func TestVoteOverwrite(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.seedUser("alice", domain.RoleUser)
	bob := f.seedUser("bob", domain.RoleUser)
	ticket := f.seedTicket(alice)

	_, err := f.votes.CastVote(ctx, alice, ticket.ID, domain.VoteUp)
	require.NoError(t, err)
	_, err = f.votes.CastVote(ctx, bob, ticket.ID, domain.VoteUp)
	require.NoError(t, err)

	tally, err := f.votes.CastVote(ctx, alice, ticket.ID, domain.VoteDown)
	require.NoError(t, err)
	assert.Equal(t, 1, tally.Upvotes)
	assert.Equal(t, 1, tally.Downvotes)
	assert.Equal(t, domain.VoteDown, *tally.Current)
	assert.Len(t, f.store.votes, 2)

	up, down := f.ticketCounters(t, ticket.ID)
	assert.Equal(t, 1, up)
	assert.Equal(t, 1, down)
}

type racingVotes struct {
	memVotes
	raced bool
}

// Create simulates a concurrent insert by the same voter landing first.
func (r *racingVotes) Create(ctx context.Context, vote *domain.Vote) error {
	if !r.raced {
		r.raced = true
		winner := &domain.Vote{TicketID: vote.TicketID, VoterID: vote.VoterID, Type: domain.VoteDown}
		if err := r.memVotes.Create(ctx, winner); err != nil {
			return err
		}
		return repository.ErrDuplicate
	}
	return r.memVotes.Create(ctx, vote)
}

func TestVoteRetriesOnceAfterDuplicateInsert(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.seedUser("alice", domain.RoleUser)
	ticket := f.seedTicket(alice)

	f.votes.votes = &racingVotes{memVotes: memVotes{f.store}}

	tally, err := f.votes.CastVote(ctx, alice, ticket.ID, domain.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, 1, tally.Upvotes)
	assert.Equal(t, 0, tally.Downvotes)
	assert.Len(t, f.store.votes, 1)
}

func TestVoteRejections(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.seedUser("alice", domain.RoleUser)
	ticket := f.seedTicket(alice)

	_, err := f.votes.CastVote(ctx, alice, ticket.ID, "MEH")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = f.votes.CastVote(ctx, alice, "missing", domain.VoteUp)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	_, err = f.votes.CastVote(ctx, nil, ticket.ID, domain.VoteUp)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}
