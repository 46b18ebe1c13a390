package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/quickdesk/internal/domain"
)

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, subject, description, category, status, attachment_url,
               upvotes, downvotes, reply_count, creator_id, assignee_id, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (id, subject, description, category, status, attachment_url, creator_id, assignee_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING upvotes, downvotes, reply_count, created_at, updated_at`
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	err := r.pool.QueryRow(ctx, query,
		ticket.ID,
		ticket.Subject,
		ticket.Description,
		ticket.Category,
		ticket.Status,
		ticket.AttachmentURL,
		ticket.CreatorID,
		ticket.AssigneeID,
	).Scan(&ticket.Upvotes, &ticket.Downvotes, &ticket.ReplyCount, &ticket.CreatedAt, &ticket.UpdatedAt)
	return translatePgError(err)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET status=$1, assignee_id=$2, updated_at=NOW()
        WHERE id=$3
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query, ticket.Status, ticket.AssigneeID, ticket.ID).Scan(&ticket.UpdatedAt)
	return translatePgError(err)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1`, id)
	ticket, err := scanTicket(row)
	if err != nil {
		return nil, translatePgError(err)
	}
	return ticket, nil
}

func (r *ticketRepository) SetVoteCounts(ctx context.Context, id string, upvotes, downvotes int) error {
	return r.exec(ctx, `UPDATE tickets SET upvotes=$1, downvotes=$2, updated_at=NOW() WHERE id=$3`, upvotes, downvotes, id)
}

func (r *ticketRepository) exec(ctx context.Context, query string, args ...any) error {
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return translatePgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, int64, error) {
	where, args := ticketWhere(filter)

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tickets WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, translatePgError(err)
	}

	limit, offset := filter.Page()
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY %s LIMIT %d OFFSET %d`,
		ticketColumns, where, filter.OrderClause(), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, translatePgError(err)
	}
	defer rows.Close()

	tickets := make([]domain.Ticket, 0, limit)
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, 0, err
		}
		tickets = append(tickets, *ticket)
	}
	return tickets, total, rows.Err()
}

// ticketWhere renders the filter as a WHERE body with positional
// placeholders numbered in the order of the returned args.
func ticketWhere(filter TicketFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CreatorID != nil {
		args = append(args, *filter.CreatorID)
		clauses = append(clauses, fmt.Sprintf("creator_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if search := filter.SearchPattern(); search != "" {
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(subject) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}
	return strings.Join(clauses, " AND "), args

}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.Subject,
		&ticket.Description,
		&ticket.Category,
		&ticket.Status,
		&ticket.AttachmentURL,
		&ticket.Upvotes,
		&ticket.Downvotes,
		&ticket.ReplyCount,
		&ticket.CreatorID,
		&ticket.AssigneeID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}
