// Package app assembles the marketplace from configuration: storage backend,
// lock provider, payment gateway, services, HTTP router and background worker.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/pratik-mahalle/processimo/internal/api/handlers"
	"github.com/pratik-mahalle/processimo/internal/api/middleware"
	"github.com/pratik-mahalle/processimo/internal/api/router"
	"github.com/pratik-mahalle/processimo/internal/config"
	"github.com/pratik-mahalle/processimo/internal/domain/subscription"
	"github.com/pratik-mahalle/processimo/internal/lock"
	"github.com/pratik-mahalle/processimo/internal/notify"
	"github.com/pratik-mahalle/processimo/internal/payment"
	"github.com/pratik-mahalle/processimo/internal/pkg/logger"
	"github.com/pratik-mahalle/processimo/internal/pkg/validator"
	"github.com/pratik-mahalle/processimo/internal/repository"
	"github.com/pratik-mahalle/processimo/internal/repository/memory"
	"github.com/pratik-mahalle/processimo/internal/repository/postgres"
	"github.com/pratik-mahalle/processimo/internal/seed"
	"github.com/pratik-mahalle/processimo/internal/services"
	"github.com/pratik-mahalle/processimo/internal/worker"
)

// Options overrides pieces normally derived from config
type Options struct {
	// Gateway replaces the Stripe or sandbox gateway
	Gateway payment.Gateway
	// Catalog replaces the embedded seed catalog
	Catalog *seed.Catalog
	// Notifier replaces the configured operator alert dispatcher
	Notifier notify.Notifier
}

// App is a wired marketplace
type App struct {
	Handler    http.Handler
	Reconciler *worker.Reconciler
	Limiter    *middleware.RateLimiter
	Dispatcher *notify.Dispatcher
	Gateway    payment.Gateway
	Repos      *repository.Repositories

	closers []func() error
	logger  *logger.Logger
}

// Build wires every component and seeds the store when enabled
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger, opts Options) (*App, error) {
	a := &App{logger: log}

	db, repos, err := openStore(cfg.Database, log)
	if err != nil {
		return nil, err
	}
	a.Repos = repos
	if db != nil {
		a.closers = append(a.closers, db.Close)
	}

	locker, lockCheck, err := a.newLocker(ctx, cfg.Redis, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Gateway = opts.Gateway
	if a.Gateway == nil {
		a.Gateway = newGateway(cfg.Stripe, log)
	}

	notifier := opts.Notifier
	if notifier == nil && cfg.Notify.Enabled() {
		a.Dispatcher = newDispatcher(cfg.Notify, log)
		notifier = a.Dispatcher
	}

	val := validator.New()

	userService := services.NewUserService(repos.Users, cfg.Auth.BCryptCost, log)
	agentService := services.NewAgentService(repos.Agents, repos.Teams, repos.AgentSubscriptions, log)
	teamService := services.NewTeamService(repos.Teams, repos.Agents, repos.TeamSubscriptions, log)

	agentSubs := services.NewSubscriptionService(subscription.KindAgent, services.SubscriptionDeps{
		Repo:     repos.AgentSubscriptions,
		Products: agentService,
		Users:    userService,
		Gateway:  a.Gateway,
		Locker:   locker,
		Currency: cfg.Stripe.Currency,
		Notifier: notifier,
	}, log)
	teamSubs := services.NewSubscriptionService(subscription.KindTeam, services.SubscriptionDeps{
		Repo:     repos.TeamSubscriptions,
		Products: teamService,
		Users:    userService,
		Gateway:  a.Gateway,
		Locker:   locker,
		Currency: cfg.Stripe.Currency,
		Notifier: notifier,
	}, log)

	workflowService := services.NewWorkflowService(repos.WorkflowRequests, repos.Teams, val, notifier, log)
	statsService := services.NewStatsService(agentSubs, teamSubs, agentService, teamService, workflowService)

	if cfg.Seed.Enabled {
		catalog := opts.Catalog
		if catalog == nil {
			catalog = seed.Default()
		}
		seeder := &seed.Seeder{Users: userService, Agents: agentService, Teams: teamService, Logger: log}
		if err := seeder.Run(ctx, catalog, cfg.Seed.AdminPassword); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to seed catalog: %w", err)
		}
	}

	a.Reconciler = worker.NewReconciler(cfg.Worker.ReconcileSchedule, log, agentSubs, teamSubs).WithNotifier(notifier)
	if cfg.Server.RateLimitRPS > 0 {
		a.Limiter = middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)
	}

	var pinger handlers.Pinger
	if db != nil {
		pinger = db
	}
	health := handlers.NewHealthHandler(pinger, cfg.Database.Driver, log).WithPayments(paymentsMode(cfg.Stripe, opts.Gateway))
	if lockCheck != nil {
		health.WithCheck("redis", lockCheck)
	}

	a.Handler = router.New(cfg, log, a.Limiter, &router.Handlers{
		Health:            health,
		Auth:              handlers.NewAuthHandler(userService, cfg, log, val),
		Agent:             handlers.NewAgentHandler(agentService, log, val),
		Team:              handlers.NewTeamHandler(teamService, log, val),
		AgentSubscription: handlers.NewSubscriptionHandler(agentSubs, log, val),
		TeamSubscription:  handlers.NewSubscriptionHandler(teamSubs, log, val),
		Workflow:          handlers.NewWorkflowHandler(workflowService, log, val),
		Stats:             handlers.NewStatsHandler(statsService, log),
		Admin:             handlers.NewAdminHandler(agentSubs, teamSubs, a.Reconciler, log),
	})

	return a, nil
}

// Close releases the store and lock connections
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.ErrorWithErr(err, "Failed to close resource")
		}
	}
	a.closers = nil
}

func openStore(cfg config.DatabaseConfig, log *logger.Logger) (*sqlx.DB, *repository.Repositories, error) {
	if cfg.Driver == "memory" || cfg.Driver == "" {
		log.Info("Using in-memory store")
		return nil, memory.NewStore().Repositories(), nil
	}

	db, err := postgres.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s store: %w", cfg.Driver, err)
	}
	if err := postgres.RunMigrations(db, log); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to migrate %s store: %w", cfg.Driver, err)
	}
	log.With("driver", cfg.Driver).Info("Using SQL store")
	return db, postgres.NewRepositories(db), nil
}

// newLocker also returns a readiness probe when the locks live in Redis.
func (a *App) newLocker(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (lock.Locker, handlers.Check, error) {
	if !cfg.Enabled {
		return lock.NewKeyedMutex(), nil, nil
	}
	client, err := lock.NewRedisClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	a.closers = append(a.closers, client.Close)
	log.With("addr", cfg.Addr()).Info("Using Redis locks")
	ping := func(ctx context.Context) error { return client.Ping(ctx).Err() }
	return lock.NewRedisLocker(client, cfg.LockTTL, log), ping, nil
}

func paymentsMode(cfg config.StripeConfig, override payment.Gateway) string {
	switch {
	case override != nil:
		return "custom"
	case cfg.Enabled:
		return "stripe"
	}
	return "sandbox"
}

func newGateway(cfg config.StripeConfig, log *logger.Logger) payment.Gateway {
	if !cfg.Enabled {
		log.Warn("Stripe disabled, using sandbox payment gateway")
		return payment.NewSandbox()
	}
	return payment.NewStripeGateway(cfg, log)
}

func newDispatcher(cfg config.NotifyConfig, log *logger.Logger) *notify.Dispatcher {
	var sinks []notify.Sink
	if cfg.SlackWebhookURL != "" {
		sinks = append(sinks, notify.NewSlackSink(cfg.SlackWebhookURL, cfg.Timeout))
	}
	if cfg.WebhookURL != "" {
		sinks = append(sinks, notify.NewWebhookSink(cfg.WebhookURL, cfg.WebhookSecret, cfg.Timeout))
	}
	log.With("sinks", len(sinks)).Info("Operator notifications enabled")
	return notify.NewDispatcher(sinks, notify.Options{
		QueueSize:  cfg.QueueSize,
		MaxRetries: cfg.MaxRetries,
	}, log)
}
