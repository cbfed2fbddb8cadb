package handlers

import (
	"net/http"

	"github.com/pratik-mahalle/processimo/internal/domain/dashboard"
	"github.com/pratik-mahalle/processimo/internal/pkg/logger"
	"github.com/pratik-mahalle/processimo/internal/pkg/utils"
)

type StatsHandler struct {
	service dashboard.Service
	logger  *logger.Logger
}

func NewStatsHandler(service dashboard.Service, log *logger.Logger) *StatsHandler {
	return &StatsHandler{service: service, logger: log}
}

// Get returns the caller's dashboard summary
// @Summary Dashboard stats
// @Tags Dashboard
// @Produce json
// @Success 200 {object} dashboard.Stats
// @Security BearerAuth
// @Router /user/stats [get]
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	stats, err := h.service.Stats(r.Context(), userID)
	if err != nil {
		respondErr(w, h.logger, err, "Failed to compute stats")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, stats)
}
