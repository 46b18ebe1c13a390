package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/quickdesk/internal/config"
	"github.com/spec-kit/quickdesk/internal/observability"
	"github.com/spec-kit/quickdesk/internal/persistence"
	"github.com/spec-kit/quickdesk/internal/repository"
	"github.com/spec-kit/quickdesk/internal/repository/gormstore"
)

// repositories is the set of stores every command shares.
type repositories struct {
	users   repository.UserRepository
	tickets repository.TicketRepository
	replies repository.ReplyRepository
	votes   repository.VoteRepository
}

func newRepositories(store *persistence.Store) repositories {
	if store.Driver == config.DriverPostgres {
		pool := store.Postgres.Pool
		return repositories{
			users:   repository.NewUserRepository(pool),
			tickets: repository.NewTicketRepository(pool),
			replies: repository.NewReplyRepository(pool),
			votes:   repository.NewVoteRepository(pool),
		}
	}
	return repositories{
		users:   gormstore.NewUserRepository(store.Gorm),
		tickets: gormstore.NewTicketRepository(store.Gorm),
		replies: gormstore.NewReplyRepository(store.Gorm),
		votes:   gormstore.NewVoteRepository(store.Gorm),
	}
}

// bootstrap loads config, builds the logger and opens storage.
func bootstrap(ctx context.Context) (*config.Config, *zap.Logger, *persistence.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to init logger: %w", err)
	}

	store, err := persistence.Open(ctx, cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, nil, err
	}
	return cfg, logger, store, nil
}
