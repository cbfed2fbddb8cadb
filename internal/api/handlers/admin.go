package handlers

import (
	"context"
	"net/http"

	"github.com/pratik-mahalle/processimo/internal/api/dto"
	"github.com/pratik-mahalle/processimo/internal/domain/subscription"
	"github.com/pratik-mahalle/processimo/internal/pkg/logger"
	"github.com/pratik-mahalle/processimo/internal/pkg/utils"
)

// Reconciler retries remote cancellation for canceling subscriptions
type Reconciler interface {
	RunOnce(ctx context.Context) []*subscription.ReconcileReport
}

// AdminHandler serves subscription maintenance endpoints
type AdminHandler struct {
	agentSubs  subscription.Service
	teamSubs   subscription.Service
	reconciler Reconciler
	logger     *logger.Logger
}

func NewAdminHandler(agentSubs, teamSubs subscription.Service, reconciler Reconciler, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		agentSubs:  agentSubs,
		teamSubs:   teamSubs,
		reconciler: reconciler,
		logger:     log,
	}
}

// Canceling lists subscriptions whose remote cancellation has not gone through
// @Summary List canceling subscriptions
// @Tags Admin
// @Produce json
// @Success 200 {object} dto.CancelingResponse
// @Security BearerAuth
// @Router /admin/subscriptions/canceling [get]
func (h *AdminHandler) Canceling(w http.ResponseWriter, r *http.Request) {
	agentSubs, err := h.agentSubs.ListByStatus(r.Context(), subscription.StatusCanceling)
	if err != nil {
		respondErr(w, h.logger, err, "Failed to list canceling subscriptions")
		return
	}
	teamSubs, err := h.teamSubs.ListByStatus(r.Context(), subscription.StatusCanceling)
	if err != nil {
		respondErr(w, h.logger, err, "Failed to list canceling subscriptions")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.CancelingResponse{Agent: agentSubs, Team: teamSubs})
}

// Reconcile runs one reconciliation pass now
// @Summary Reconcile canceling subscriptions
// @Tags Admin
// @Produce json
// @Success 200 {object} dto.ReconcileResponse
// @Security BearerAuth
// @Router /admin/subscriptions/reconcile [post]
func (h *AdminHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	reports := h.reconciler.RunOnce(r.Context())
	h.logger.With("passes", len(reports)).Info("Manual reconciliation finished")
	utils.WriteSuccess(w, http.StatusOK, dto.ReconcileResponse{Reports: reports})
}
