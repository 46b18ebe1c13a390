package repository

import (
	"context"
	"errors"

	"github.com/spec-kit/quickdesk/internal/domain"
)

var (
	// ErrNotFound is returned when no row matches the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
)

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) error
	// NamesByID returns display names for the given ids; unknown ids are omitted.
	NamesByID(ctx context.Context, ids []string) (map[string]string, error)
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	// Update persists status and assignee and refreshes UpdatedAt.
	Update(ctx context.Context, ticket *domain.Ticket) error
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, int64, error)
	SetVoteCounts(ctx context.Context, id string, upvotes, downvotes int) error
}

// ReplyRepository manages ticket thread messages.
type ReplyRepository interface {
	// Append stores reply and bumps its ticket's reply_count in one
	// transaction. A missing ticket yields ErrNotFound and stores nothing.
	Append(ctx context.Context, reply *domain.Reply) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Reply, error)
}

// VoteRepository is the ledger of per-user votes.
type VoteRepository interface {
	GetByTicketAndVoter(ctx context.Context, ticketID, voterID string) (*domain.Vote, error)
	Create(ctx context.Context, vote *domain.Vote) error
	UpdateType(ctx context.Context, id string, voteType domain.VoteType) error
	Delete(ctx context.Context, id string) error
	CountByType(ctx context.Context, ticketID string, voteType domain.VoteType) (int, error)
}
