package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/pratik-mahalle/processimo/internal/api/handlers"
	"github.com/pratik-mahalle/processimo/internal/api/middleware"
	"github.com/pratik-mahalle/processimo/internal/config"
	"github.com/pratik-mahalle/processimo/internal/pkg/logger"
	"github.com/pratik-mahalle/processimo/internal/pkg/metrics"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Health            *handlers.HealthHandler
	Auth              *handlers.AuthHandler
	Agent             *handlers.AgentHandler
	Team              *handlers.TeamHandler
	AgentSubscription *handlers.SubscriptionHandler
	TeamSubscription  *handlers.SubscriptionHandler
	Workflow          *handlers.WorkflowHandler
	Stats             *handlers.StatsHandler
	Admin             *handlers.AdminHandler
}

func New(cfg *config.Config, log *logger.Logger, limiter *middleware.RateLimiter, h *Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.StripSlashes)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	r.Use(middleware.DefaultCORS(cfg.Server.FrontendURL))
	r.Use(metrics.Middleware)
	if limiter != nil {
		r.Use(middleware.RateLimit(limiter))
	}

	// Public routes
	r.Group(func(r chi.Router) {
		r.Get("/swagger/*", httpSwagger.WrapHandler)
		r.Handle("/metrics", metrics.Handler())

		// Health checks
		r.Get("/health", h.Health.Healthz)
		r.Get("/healthz", h.Health.Healthz)
		r.Get("/readyz", h.Health.Readyz)

		// Auth
		r.Post("/api/register", h.Auth.Register)
		r.Post("/api/login", h.Auth.Login)
		r.Post("/api/logout", h.Auth.Logout)
		r.Post("/api/refresh", h.Auth.Refresh)

		// Catalog
		r.Get("/api/agents", h.Agent.List)
		r.Get("/api/agents/featured", h.Agent.Featured)
		r.Get("/api/agents/{id}", h.Agent.Get)
		r.Get("/api/agent-teams", h.Team.List)
		r.Get("/api/agent-teams/featured", h.Team.Featured)
		r.Get("/api/agent-teams/{id}", h.Team.Get)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(cfg.Auth.JWTSecret))

		r.Route("/api/user", func(r chi.Router) {
			r.Get("/", h.Auth.Me)
			r.Get("/agents", h.Agent.ListMine)
			r.Get("/agent-teams", h.Team.ListMine)
			r.Get("/subscriptions", h.AgentSubscription.ListMine)
			r.Get("/team-subscriptions", h.TeamSubscription.ListMine)
			r.Get("/workflow-requests", h.Workflow.ListMine)
			r.Get("/stats", h.Stats.Get)
		})

		// Checkout
		r.Post("/api/agents/{id}/payment-intents", h.AgentSubscription.Initiate)
		r.Post("/api/agents/{id}/create-payment-intent", h.AgentSubscription.Initiate)
		r.Post("/api/agent-teams/{id}/payment-intents", h.TeamSubscription.Initiate)

		// Subscription lifecycle
		r.Post("/api/subscriptions/{id}/complete", h.AgentSubscription.Complete)
		r.Post("/api/subscriptions/{id}/cancel", h.AgentSubscription.Cancel)
		r.Post("/api/team-subscriptions/{id}/complete", h.TeamSubscription.Complete)
		r.Post("/api/team-subscriptions/{id}/cancel", h.TeamSubscription.Cancel)

		r.Post("/api/workflow-requests", h.Workflow.Submit)

		// Admin
		r.Route("/api/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Post("/agents", h.Agent.Create)
			r.Patch("/agents/{id}", h.Agent.Update)
			r.Delete("/agents/{id}", h.Agent.Delete)

			r.Post("/agent-teams", h.Team.Create)
			r.Patch("/agent-teams/{id}", h.Team.Update)
			r.Delete("/agent-teams/{id}", h.Team.Delete)

			r.Get("/workflow-requests", h.Workflow.List)
			r.Patch("/workflow-requests/{id}", h.Workflow.SetStatus)

			r.Get("/subscriptions/canceling", h.Admin.Canceling)
			r.Post("/subscriptions/reconcile", h.Admin.Reconcile)
		})
	})

	return r
}
