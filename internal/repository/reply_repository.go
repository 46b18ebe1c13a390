package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/quickdesk/internal/domain"
)

type replyRepository struct {
	pool *pgxpool.Pool
}

// NewReplyRepository builds the Postgres reply log.
func NewReplyRepository(pool *pgxpool.Pool) ReplyRepository {
	return &replyRepository{pool: pool}
}

const (
	bumpReplyCountQuery = `
        UPDATE tickets SET reply_count=reply_count+1, updated_at=NOW() WHERE id=$1`
	insertReplyQuery = `
        INSERT INTO ticket_replies (id, ticket_id, author_id, message)
        VALUES ($1,$2,$3,$4)
        RETURNING created_at`
)

func (r *replyRepository) Append(ctx context.Context, reply *domain.Reply) error {
	if reply.ID == "" {
		reply.ID = uuid.NewString()
	}
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, bumpReplyCountQuery, reply.TicketID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return ErrNotFound
		}
		return tx.QueryRow(ctx, insertReplyQuery,
			reply.ID,
			reply.TicketID,
			reply.AuthorID,
			reply.Message,
		).Scan(&reply.CreatedAt)
	})
	return translatePgError(err)
}

func (r *replyRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Reply, error) {
	const query = `
        SELECT id, ticket_id, author_id, message, created_at
        FROM ticket_replies WHERE ticket_id=$1 ORDER BY created_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, translatePgError(err)
	}
	defer rows.Close()

	result := []domain.Reply{}
	for rows.Next() {
		var reply domain.Reply
		if err := rows.Scan(
			&reply.ID,
			&reply.TicketID,
			&reply.AuthorID,
			&reply.Message,
			&reply.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, reply)
	}
	return result, rows.Err()
}
