package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/spec-kit/quickdesk/internal/config"
)

// Store holds whichever relational backend STORAGE_DRIVER selected.
type Store struct {
	Driver   string
	Postgres *Postgres
	Gorm     *gorm.DB
}

// Open connects the configured backend.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return &Store{Driver: config.DriverPostgres, Postgres: pg}, nil
	case config.DriverSQLite:
		db, err := OpenSQLite(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		logger.Info("opened sqlite database", zap.String("path", cfg.SQLite.Path))
		return &Store{Driver: config.DriverSQLite, Gorm: db}, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

// SQLDB exposes a database/sql handle for migrations.
func (s *Store) SQLDB() (*sql.DB, error) {
	if s.Driver == config.DriverPostgres {
		return openPostgresSQL(s.Postgres)
	}
	if s.Gorm == nil {
		return nil, fmt.Errorf("sqlite handle not configured")
	}
	return s.Gorm.DB()
}

// Ping checks backend reachability.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("store not configured")
	}
	if s.Driver == config.DriverPostgres {
		return s.Postgres.Ping(ctx)
	}
	db, err := s.Gorm.DB()
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}

// Close releases backend resources.
func (s *Store) Close() {
	if s == nil {
		return
	}
	s.Postgres.Close()
	if s.Gorm != nil {
		if db, err := s.Gorm.DB(); err == nil {
			_ = db.Close()
		}
	}
}
