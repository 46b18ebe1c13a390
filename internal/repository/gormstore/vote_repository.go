package gormstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/spec-kit/quickdesk/internal/domain"
	"github.com/spec-kit/quickdesk/internal/repository"
)

type VoteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

var _ repository.VoteRepository = (*VoteRepository)(nil)

func (r *VoteRepository) GetByTicketAndVoter(ctx context.Context, ticketID, voterID string) (*domain.Vote, error) {
	var m VoteModel
	if err := r.db.WithContext(ctx).
		Where("ticket_id = ? AND voter_id = ?", ticketID, voterID).
		First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return m.toDomain(), nil
}

func (r *VoteRepository) Create(ctx context.Context, vote *domain.Vote) error {
	if vote.ID == "" {
		vote.ID = uuid.NewString()
	}
	vote.CreatedAt = time.Now().UTC()
	m := VoteModel{
		ID:        vote.ID,
		TicketID:  vote.TicketID,
		VoterID:   vote.VoterID,
		VoteType:  string(vote.Type),
		CreatedAt: vote.CreatedAt,
	}
	return translateError(r.db.WithContext(ctx).Create(&m).Error)
}

func (r *VoteRepository) UpdateType(ctx context.Context, id string, voteType domain.VoteType) error {
	return requireAffected(r.db.WithContext(ctx).Model(&VoteModel{}).Where("id = ?", id).
		Update("vote_type", string(voteType)))
}

func (r *VoteRepository) Delete(ctx context.Context, id string) error {
	return requireAffected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&VoteModel{}))
}

func (r *VoteRepository) CountByType(ctx context.Context, ticketID string, voteType domain.VoteType) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&VoteModel{}).
		Where("ticket_id = ? AND vote_type = ?", ticketID, string(voteType)).
		Count(&count).Error
	return int(count), translateError(err)
}
