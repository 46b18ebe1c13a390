package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spec-kit/quickdesk/internal/auth"
	"github.com/spec-kit/quickdesk/internal/domain"
	"github.com/spec-kit/quickdesk/internal/sanitize"
	"github.com/spec-kit/quickdesk/internal/service"
)

func newUserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Account administration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "promote <username> <USER|AGENT|ADMIN>",
		Short: "Change the role of an account",
		Args:  cobra.ExactArgs(2),
		RunE:  runPromote,
	})
	return cmd
}

func runPromote(cmd *cobra.Command, args []string) error {
	cfg, logger, store, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	defer store.Close()

	repos := newRepositories(store)
	users := service.NewUserService(service.UserDependencies{
		UserRepo:  repos.users,
		Hasher:    auth.NewHasher(cfg.Auth.BcryptCost),
		Sanitizer: sanitize.New(),
		Logger:    logger,
	})

	user, err := users.Promote(cmd.Context(), args[0], domain.Role(strings.ToUpper(args[1])))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", user.Username, user.Role)
	return nil
}
