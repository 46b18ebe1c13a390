package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "quickdesk",
		Short:        "Quickdesk helpdesk backend",
		Long:         `Quickdesk serves the helpdesk HTTP API and ships the migration and account tools it needs.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newUserCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
