package gormstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/spec-kit/quickdesk/internal/domain"
	"github.com/spec-kit/quickdesk/internal/repository"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ repository.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	m := toUserModel(user)
	return translateError(r.db.WithContext(ctx).Create(&m).Error)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = ?", username)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "LOWER(email) = LOWER(?)", email)
}

func (r *UserRepository) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	return requireAffected(r.db.WithContext(ctx).Model(&UserModel{}).Where("id = ?", id).
		Updates(map[string]any{"role": string(role), "updated_at": time.Now().UTC()}))
}

func (r *UserRepository) NamesByID(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	var rows []UserModel
	if err := r.db.WithContext(ctx).Select("id", "name").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}

func (r *UserRepository) first(ctx context.Context, cond string, arg any) (*domain.User, error) {
	var m UserModel
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return m.toDomain(), nil
}

func (r *UserRepository) exists(ctx context.Context, cond string, arg any) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&UserModel{}).Where(cond, arg).Count(&count).Error; err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}
