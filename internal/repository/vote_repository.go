package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/quickdesk/internal/domain"
)

type voteRepository struct {
	pool *pgxpool.Pool
}

// NewVoteRepository builds the Postgres vote ledger.
func NewVoteRepository(pool *pgxpool.Pool) VoteRepository {
	return &voteRepository{pool: pool}
}

func (r *voteRepository) GetByTicketAndVoter(ctx context.Context, ticketID, voterID string) (*domain.Vote, error) {
	const query = `
        SELECT id, ticket_id, voter_id, vote_type, created_at
        FROM ticket_votes WHERE ticket_id=$1 AND voter_id=$2`
	var vote domain.Vote
	if err := r.pool.QueryRow(ctx, query, ticketID, voterID).Scan(
		&vote.ID,
		&vote.TicketID,
		&vote.VoterID,
		&vote.Type,
		&vote.CreatedAt,
	); err != nil {
		return nil, translatePgError(err)
	}
	return &vote, nil
}

func (r *voteRepository) Create(ctx context.Context, vote *domain.Vote) error {
	const query = `
        INSERT INTO ticket_votes (id, ticket_id, voter_id, vote_type)
        VALUES ($1,$2,$3,$4)
        RETURNING created_at`
	if vote.ID == "" {
		vote.ID = uuid.NewString()
	}
	err := r.pool.QueryRow(ctx, query, vote.ID, vote.TicketID, vote.VoterID, vote.Type).Scan(&vote.CreatedAt)
	return translatePgError(err)
}

func (r *voteRepository) UpdateType(ctx context.Context, id string, voteType domain.VoteType) error {
	return r.exec(ctx, `UPDATE ticket_votes SET vote_type=$1 WHERE id=$2`, voteType, id)
}

func (r *voteRepository) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, `DELETE FROM ticket_votes WHERE id=$1`, id)
}

func (r *voteRepository) CountByType(ctx context.Context, ticketID string, voteType domain.VoteType) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM ticket_votes WHERE ticket_id=$1 AND vote_type=$2`,
		ticketID, voteType,
	).Scan(&count)
	return count, translatePgError(err)
}

func (r *voteRepository) exec(ctx context.Context, query string, args ...any) error {
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return translatePgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
