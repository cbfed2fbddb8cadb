package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/pratik-mahalle/processimo/internal/pkg/errors"
	"github.com/pratik-mahalle/processimo/internal/pkg/logger"
	"github.com/pratik-mahalle/processimo/internal/pkg/utils"
)

// Pinger is satisfied by *sqlx.DB and *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Check probes one dependency the marketplace cannot serve checkouts without.
type Check func(ctx context.Context) error

type namedCheck struct {
	name  string
	check Check
}

type HealthHandler struct {
	backend  string
	payments string
	checks   []namedCheck
	logger   *logger.Logger
}

// NewHealthHandler reports backend as the storage in use. A nil db means the
// in-memory store, which has nothing to probe.
func NewHealthHandler(db Pinger, backend string, log *logger.Logger) *HealthHandler {
	h := &HealthHandler{backend: backend, logger: log}
	if db != nil {
		h.WithCheck("database", db.PingContext)
	}
	return h
}

// WithCheck adds a readiness probe reported under name.
func (h *HealthHandler) WithCheck(name string, c Check) *HealthHandler {
	h.checks = append(h.checks, namedCheck{name: name, check: c})
	return h
}

// WithPayments records which payment gateway is live ("stripe" or "sandbox").
func (h *HealthHandler) WithPayments(mode string) *HealthHandler {
	h.payments = mode
	return h
}

// Healthz handles liveness probe
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Application is alive"
// @Router /health [get]
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz probes every registered dependency
// @Summary Readiness probe
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{} "Application is ready"
// @Failure 503 {object} utils.ErrorResponse "A dependency is down"
// @Router /readyz [get]
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	components := make(map[string]string, len(h.checks))
	down := false
	for _, c := range h.checks {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		err := c.check(ctx)
		cancel()
		if err != nil {
			h.logger.WithError(err).With("component", c.name).Warn("Readiness check failed")
			components[c.name] = "down"
			down = true
			continue
		}
		components[c.name] = "up"
	}

	if down {
		utils.WriteError(w, errors.ServiceUnavailable("Marketplace dependencies unavailable").WithDetails(components))
		return
	}
	utils.WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"status":     "ready",
		"storage":    h.backend,
		"payments":   h.payments,
		"components": components,
	})
}
