package gormstore

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/spec-kit/quickdesk/internal/repository"
)

// translateError maps gorm and driver errors onto repository sentinels.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return repository.ErrDuplicate
	default:
		return err
	}
}

func requireAffected(tx *gorm.DB) error {
	if tx.Error != nil {
		return translateError(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
