package gormstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/spec-kit/quickdesk/internal/domain"
	"github.com/spec-kit/quickdesk/internal/repository"
)

type TicketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

var _ repository.TicketRepository = (*TicketRepository)(nil)

func (r *TicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	ticket.CreatedAt, ticket.UpdatedAt = now, now
	m := toTicketModel(ticket)
	return translateError(r.db.WithContext(ctx).Create(&m).Error)
}

func (r *TicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	var m TicketModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return m.toDomain(), nil
}

func (r *TicketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	now := time.Now().UTC()
	err := requireAffected(r.db.WithContext(ctx).Model(&TicketModel{}).Where("id = ?", ticket.ID).
		Updates(map[string]any{
			"status":      string(ticket.Status),
			"assignee_id": ticket.AssigneeID,
			"updated_at":  now,
		}))
	if err == nil {
		ticket.UpdatedAt = now
	}
	return err
}

func (r *TicketRepository) SetVoteCounts(ctx context.Context, id string, upvotes, downvotes int) error {
	return requireAffected(r.db.WithContext(ctx).Model(&TicketModel{}).Where("id = ?", id).
		Updates(map[string]any{
			"upvotes":    upvotes,
			"downvotes":  downvotes,
			"updated_at": time.Now().UTC(),
		}))
}

func (r *TicketRepository) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, int64, error) {
	where := func(q *gorm.DB) *gorm.DB {
		if filter.CreatorID != nil {
			q = q.Where("creator_id = ?", *filter.CreatorID)
		}
		if filter.Status != nil {
			q = q.Where("status = ?", string(*filter.Status))
		}
		if filter.Category != nil {
			q = q.Where("category = ?", string(*filter.Category))
		}
		if search := filter.SearchPattern(); search != "" {
			q = q.Where("(LOWER(subject) LIKE ? OR LOWER(description) LIKE ?)", search, search)
		}
		return q
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&TicketModel{}).Scopes(where).Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	limit, offset := filter.Page()
	var rows []TicketModel
	if err := r.db.WithContext(ctx).Scopes(where).
		Order(filter.OrderClause()).
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, translateError(err)
	}

	tickets := make([]domain.Ticket, 0, len(rows))
	for _, row := range rows {
		tickets = append(tickets, *row.toDomain())
	}
	return tickets, total, nil
}
