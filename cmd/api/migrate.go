package main

import (
	"github.com/spf13/cobra"

	"github.com/spec-kit/quickdesk/internal/persistence"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Run all pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd, func(m *persistence.Migrator) error { return m.Up(cmd.Context()) })
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show migration status",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd, func(m *persistence.Migrator) error { return m.Status(cmd.Context()) })
			},
		},
	)
	return cmd
}

func withMigrator(cmd *cobra.Command, fn func(*persistence.Migrator) error) error {
	_, logger, store, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	defer store.Close()

	migrator, err := persistence.NewMigrator(store, logger)
	if err != nil {
		return err
	}
	return fn(migrator)
}
