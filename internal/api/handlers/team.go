package handlers

import (
	"net/http"

	"github.com/pratik-mahalle/processimo/internal/api/dto"
	"github.com/pratik-mahalle/processimo/internal/domain/team"
	"github.com/pratik-mahalle/processimo/internal/pkg/logger"
	"github.com/pratik-mahalle/processimo/internal/pkg/utils"
	"github.com/pratik-mahalle/processimo/internal/pkg/validator"
)

// TeamHandler serves the agent team catalog
type TeamHandler struct {
	service   team.Service
	logger    *logger.Logger
	validator *validator.Validator
}

func NewTeamHandler(service team.Service, log *logger.Logger, val *validator.Validator) *TeamHandler {
	return &TeamHandler{
		service:   service,
		logger:    log,
		validator: val,
	}
}

// List returns every team
// @Summary List agent teams
// @Tags Teams
// @Produce json
// @Success 200 {array} team.Team
// @Router /agent-teams [get]
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	teams, err := h.service.List(r.Context())
	if err != nil {
		respondErr(w, h.logger, err, "Failed to list teams")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, teams)
}

// Featured returns popular or featured teams
// @Summary List featured agent teams
// @Tags Teams
// @Produce json
// @Success 200 {array} team.Team
// @Router /agent-teams/featured [get]
func (h *TeamHandler) Featured(w http.ResponseWriter, r *http.Request) {
	teams, err := h.service.ListFeatured(r.Context())
	if err != nil {
		respondErr(w, h.logger, err, "Failed to list featured teams")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, teams)
}

// Get returns a team together with its member agents
// @Summary Get agent team by ID
// @Tags Teams
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} team.Detail
// @Failure 404 {object} utils.ErrorResponse "Agent team not found"
// @Router /agent-teams/{id} [get]
func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	detail, err := h.service.GetDetail(r.Context(), id)
	if err != nil {
		respondErr(w, h.logger, err, "Failed to get team")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, detail)
}

// ListMine returns the teams the caller actively subscribes to
// @Summary List my agent teams
// @Tags Teams
// @Produce json
// @Success 200 {array} team.Team
// @Security BearerAuth
// @Router /user/agent-teams [get]
func (h *TeamHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	teams, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		respondErr(w, h.logger, err, "Failed to list user teams")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, teams)
}

// Create adds a team to the catalog
// @Summary Create agent team
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.CreateTeamRequest true "Team"
// @Success 201 {object} team.Team
// @Security BearerAuth
// @Router /admin/agent-teams [post]
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req dto.CreateTeamRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	t := req.ToTeam(userID)
	if err := h.service.Create(r.Context(), t); err != nil {
		respondErr(w, h.logger, err, "Failed to create team")
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, t)
}

// Update applies a partial update; a workflow in the body replaces the plan
// @Summary Update agent team
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Team ID"
// @Param request body team.Patch true "Fields to change"
// @Success 200 {object} team.Team
// @Security BearerAuth
// @Router /admin/agent-teams/{id} [patch]
func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch team.Patch
	if !decodeAndValidate(w, r, h.validator, &patch) {
		return
	}

	updated, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		respondErr(w, h.logger, err, "Failed to update team")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, updated)
}

// Delete removes a team and detaches its agents
// @Summary Delete agent team
// @Tags Admin
// @Param id path int true "Team ID"
// @Success 204
// @Failure 409 {object} utils.ErrorResponse "Team has live subscriptions"
// @Security BearerAuth
// @Router /admin/agent-teams/{id} [delete]
func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		respondErr(w, h.logger, err, "Failed to delete team")
		return
	}
	h.logger.With("team_id", id).Info("Agent team deleted")
	w.WriteHeader(http.StatusNoContent)
}
