package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/quickdesk/internal/api/http"
	"github.com/spec-kit/quickdesk/internal/api/http/handlers"
	"github.com/spec-kit/quickdesk/internal/auth"
	"github.com/spec-kit/quickdesk/internal/events"
	"github.com/spec-kit/quickdesk/internal/notify"
	"github.com/spec-kit/quickdesk/internal/observability"
	"github.com/spec-kit/quickdesk/internal/persistence"
	"github.com/spec-kit/quickdesk/internal/policy"
	"github.com/spec-kit/quickdesk/internal/sanitize"
	"github.com/spec-kit/quickdesk/internal/service"
	"github.com/spec-kit/quickdesk/internal/session"
	"github.com/spec-kit/quickdesk/internal/worker"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, logger, store, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	defer store.Close()

	if cfg.Storage.RunMigrations {
		migrator, err := persistence.NewMigrator(store, logger)
		if err != nil {
			return err
		}
		if err := migrator.Up(ctx); err != nil {
			logger.Error("failed to run migrations", zap.Error(err))
			return err
		}
	}

	redis, err := persistence.NewRedis(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Error("failed to connect redis", zap.Error(err))
		return err
	}
	defer redis.Close()

	repos := newRepositories(store)
	sanitizer := sanitize.New()
	access := policy.NewAccessPolicy(repos.users)
	dispatcher := events.NewInMemoryDispatcher(logger)
	metrics := observability.NewMetrics()

	sessions := session.NewRedisStore(redis.Client, cfg.Session.TTL(), cfg.Session.MaxPerUser, logger)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.App.Name)
	authMiddleware := auth.NewAuthMiddleware(tokens, sessions, cfg.Session.CookieName)

	mailWorker := worker.NewMailWorker(notify.NewMailer(cfg.Mail, logger), cfg.Mail.QueueSize, cfg.Mail.Workers, logger)
	mailWorker.Start(ctx)
	defer mailWorker.Stop()

	service.NewNotificationService(service.NotificationDependencies{
		Dispatcher: dispatcher,
		UserRepo:   repos.users,
		Mailer:     mailWorker,
		Logger:     logger,
	}).RegisterHandlers()

	userService := service.NewUserService(service.UserDependencies{
		UserRepo:  repos.users,
		Hasher:    auth.NewHasher(cfg.Auth.BcryptCost),
		Sanitizer: sanitizer,
		Logger:    logger,
	})
	authService := service.NewAuthService(service.AuthDependencies{
		Users:    userService,
		Sessions: sessions,
		Tokens:   tokens,
		Logger:   logger,
	})

	ticketsHandler := handlers.NewTicketsHandler(handlers.TicketHandlerDependencies{
		Tickets: service.NewTicketService(service.TicketDependencies{
			TicketRepo: repos.tickets,
			UserRepo:   repos.users,
			Policy:     access,
			Sanitizer:  sanitizer,
			Dispatcher: dispatcher,
			Logger:     logger,
		}),
		Assignments: service.NewAssignmentService(service.AssignmentDependencies{
			TicketRepo: repos.tickets,
			UserRepo:   repos.users,
			Policy:     access,
			Dispatcher: dispatcher,
			Logger:     logger,
		}),
		Replies: service.NewReplyService(service.ReplyDependencies{
			TicketRepo: repos.tickets,
			ReplyRepo:  repos.replies,
			UserRepo:   repos.users,
			Policy:     access,
			Sanitizer:  sanitizer,
			Logger:     logger,
		}),
		Votes: service.NewVoteService(service.VoteDependencies{
			TicketRepo: repos.tickets,
			VoteRepo:   repos.votes,
			Logger:     logger,
		}),
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler(logger, metrics),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, store, redis, metrics),
		Auth:           handlers.NewAuthHandler(userService, authService, authMiddleware, cfg.Session.CookieSecure),
		Tickets:        ticketsHandler,
		AuthMiddleware: authMiddleware,
		Policy:         access,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		errCh <- app.Listen(cfg.App.Addr())
	}()

	select {
	case err := <-errCh:
		logger.Error("fiber listen", zap.Error(err))
		return err
	case sig := <-shutdownSignal():
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}
	return app.Shutdown()
}

func shutdownSignal() <-chan os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	return sigCh
}
