package persistence

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/quickdesk/internal/config"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

type dialect struct {
	name string
	dir  string
}

var dialects = map[string]dialect{
	config.DriverPostgres: {name: "postgres", dir: "migrations/postgres"},
	config.DriverSQLite:   {name: "sqlite3", dir: "migrations/sqlite"},
}

// Migrator applies the embedded schema migrations through goose.
type Migrator struct {
	db      *sql.DB
	dialect dialect
	logger  *zap.Logger
}

// NewMigrator builds a migrator for the selected storage driver.
func NewMigrator(store *Store, logger *zap.Logger) (*Migrator, error) {
	d, ok := dialects[store.Driver]
	if !ok {
		return nil, fmt.Errorf("no migrations for driver %q", store.Driver)
	}
	db, err := store.SQLDB()
	if err != nil {
		return nil, err
	}
	return &Migrator{db: db, dialect: d, logger: logger}, nil
}

func (m *Migrator) prepare() error {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(zapGooseLogger{m.logger.Sugar()})
	return goose.SetDialect(m.dialect.name)
}

// Up applies all pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	if err := m.prepare(); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, m.db, m.dialect.dir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	version, err := goose.GetDBVersionContext(ctx, m.db)
	if err != nil {
		return err
	}
	m.logger.Info("migrations applied", zap.Int64("version", version))
	return nil
}

// Status logs the applied state of every migration.
func (m *Migrator) Status(ctx context.Context) error {
	if err := m.prepare(); err != nil {
		return err
	}
	return goose.StatusContext(ctx, m.db, m.dialect.dir)
}

type zapGooseLogger struct {
	s *zap.SugaredLogger
}

func (l zapGooseLogger) Fatalf(format string, v ...any) { l.s.Fatalf(format, v...) }
func (l zapGooseLogger) Printf(format string, v ...any) { l.s.Infof(format, v...) }

func openPostgresSQL(p *Postgres) (*sql.DB, error) {
	if p == nil || p.Pool == nil {
		return nil, fmt.Errorf("postgres pool not configured")
	}
	return stdlib.OpenDBFromPool(p.Pool), nil
}
