package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/quickdesk/internal/api/http/handlers"
	"github.com/spec-kit/quickdesk/internal/auth"
	"github.com/spec-kit/quickdesk/internal/policy"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	AuthMiddleware *auth.AuthMiddleware
	Policy         *policy.AccessPolicy
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Health != nil {
		app.Get("/health/live", cfg.Health.Live)
		app.Get("/health/ready", cfg.Health.Ready)
		app.Get("/health/metrics", cfg.Health.Metrics)
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/current-user", cfg.AuthMiddleware.Handle, cfg.Auth.CurrentUser)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Post("/save", cfg.Tickets.CreateTicket)
	tickets.Get("/my", cfg.Tickets.ListMyTickets)
	tickets.Get("/all", auth.RequireStaff(cfg.Policy), cfg.Tickets.ListAllTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Put("/:id/status", cfg.Tickets.UpdateStatus)
	tickets.Put("/:id/assign", cfg.Tickets.AssignTicket)
	tickets.Post("/:id/replies", cfg.Tickets.AddReply)
	tickets.Get("/:id/replies", cfg.Tickets.ListReplies)
	tickets.Post("/:id/vote", cfg.Tickets.Vote)
}
