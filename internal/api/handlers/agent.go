package handlers

import (
	"net/http"

	"github.com/pratik-mahalle/processimo/internal/api/dto"
	"github.com/pratik-mahalle/processimo/internal/domain/agent"
	"github.com/pratik-mahalle/processimo/internal/pkg/logger"
	"github.com/pratik-mahalle/processimo/internal/pkg/utils"
	"github.com/pratik-mahalle/processimo/internal/pkg/validator"
)

// AgentHandler serves the agent catalog
type AgentHandler struct {
	service   agent.Service
	logger    *logger.Logger
	validator *validator.Validator
}

func NewAgentHandler(service agent.Service, log *logger.Logger, val *validator.Validator) *AgentHandler {
	return &AgentHandler{
		service:   service,
		logger:    log,
		validator: val,
	}
}

// List returns every agent
// @Summary List agents
// @Tags Agents
// @Produce json
// @Success 200 {array} agent.Agent
// @Router /agents [get]
func (h *AgentHandler) List(w http.ResponseWriter, r *http.Request) {
	agents, err := h.service.List(r.Context())
	if err != nil {
		respondErr(w, h.logger, err, "Failed to list agents")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, agents)
}

// Featured returns agents with a popular, new or enterprise badge
// @Summary List featured agents
// @Tags Agents
// @Produce json
// @Success 200 {array} agent.Agent
// @Router /agents/featured [get]
func (h *AgentHandler) Featured(w http.ResponseWriter, r *http.Request) {
	agents, err := h.service.ListFeatured(r.Context())
	if err != nil {
		respondErr(w, h.logger, err, "Failed to list featured agents")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, agents)
}

// Get returns a single agent
// @Summary Get agent by ID
// @Tags Agents
// @Produce json
// @Param id path int true "Agent ID"
// @Success 200 {object} agent.Agent
// @Failure 404 {object} utils.ErrorResponse "Agent not found"
// @Router /agents/{id} [get]
func (h *AgentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondErr(w, h.logger, err, "Failed to get agent")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, a)
}

// ListMine returns the agents the caller actively subscribes to
// @Summary List my agents
// @Tags Agents
// @Produce json
// @Success 200 {array} agent.Agent
// @Security BearerAuth
// @Router /user/agents [get]
func (h *AgentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	agents, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		respondErr(w, h.logger, err, "Failed to list user agents")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, agents)
}

// Create adds an agent to the catalog
// @Summary Create agent
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.CreateAgentRequest true "Agent"
// @Success 201 {object} agent.Agent
// @Security BearerAuth
// @Router /admin/agents [post]
func (h *AgentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req dto.CreateAgentRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	a := req.ToAgent(userID)
	if err := h.service.Create(r.Context(), a); err != nil {
		respondErr(w, h.logger, err, "Failed to create agent")
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, a)
}

// Update applies a partial update
// @Summary Update agent
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Agent ID"
// @Param request body agent.Patch true "Fields to change"
// @Success 200 {object} agent.Agent
// @Security BearerAuth
// @Router /admin/agents/{id} [patch]
func (h *AgentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch agent.Patch
	if !decodeAndValidate(w, r, h.validator, &patch) {
		return
	}

	updated, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		respondErr(w, h.logger, err, "Failed to update agent")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, updated)
}

// Delete removes an agent that no live subscription references
// @Summary Delete agent
// @Tags Admin
// @Param id path int true "Agent ID"
// @Success 204
// @Failure 409 {object} utils.ErrorResponse "Agent has live subscriptions"
// @Security BearerAuth
// @Router /admin/agents/{id} [delete]
func (h *AgentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		respondErr(w, h.logger, err, "Failed to delete agent")
		return
	}
	h.logger.With("agent_id", id).Info("Agent deleted")
	w.WriteHeader(http.StatusNoContent)
}
