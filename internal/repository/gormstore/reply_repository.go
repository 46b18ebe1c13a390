package gormstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/spec-kit/quickdesk/internal/domain"
	"github.com/spec-kit/quickdesk/internal/repository"
)

type ReplyRepository struct {
	db *gorm.DB
}

func NewReplyRepository(db *gorm.DB) *ReplyRepository {
	return &ReplyRepository{db: db}
}

var _ repository.ReplyRepository = (*ReplyRepository)(nil)

func (r *ReplyRepository) Append(ctx context.Context, reply *domain.Reply) error {
	if reply.ID == "" {
		reply.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	m := ReplyModel{
		ID:        reply.ID,
		TicketID:  reply.TicketID,
		AuthorID:  reply.AuthorID,
		Message:   reply.Message,
		CreatedAt: now,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bump := tx.Model(&TicketModel{}).Where("id = ?", reply.TicketID).
			UpdateColumns(map[string]any{
				"reply_count": gorm.Expr("reply_count + 1"),
				"updated_at":  now,
			})
		if err := requireAffected(bump); err != nil {
			return err
		}
		return translateError(tx.Create(&m).Error)
	})
	if err != nil {
		return err
	}
	reply.CreatedAt = now
	return nil
}

func (r *ReplyRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Reply, error) {
	var rows []ReplyModel
	if err := r.db.WithContext(ctx).Where("ticket_id = ?", ticketID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	replies := make([]domain.Reply, 0, len(rows))
	for _, row := range rows {
		replies = append(replies, row.toDomain())
	}
	return replies, nil
}
