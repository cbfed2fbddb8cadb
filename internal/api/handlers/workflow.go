package handlers

import (
	"net/http"

	"github.com/pratik-mahalle/processimo/internal/api/dto"
	"github.com/pratik-mahalle/processimo/internal/domain/workflow"
	"github.com/pratik-mahalle/processimo/internal/pkg/errors"
	"github.com/pratik-mahalle/processimo/internal/pkg/logger"
	"github.com/pratik-mahalle/processimo/internal/pkg/utils"
	"github.com/pratik-mahalle/processimo/internal/pkg/validator"
)

// WorkflowHandler serves custom workflow requests
type WorkflowHandler struct {
	service   workflow.Service
	logger    *logger.Logger
	validator *validator.Validator
}

func NewWorkflowHandler(service workflow.Service, log *logger.Logger, val *validator.Validator) *WorkflowHandler {
	return &WorkflowHandler{
		service:   service,
		logger:    log,
		validator: val,
	}
}

// Submit opens a pending request for the caller
// @Summary Submit workflow request
// @Tags Workflow Requests
// @Accept json
// @Produce json
// @Param request body workflow.SubmitInput true "Request"
// @Success 201 {object} workflow.Request
// @Failure 400 {object} utils.ErrorResponse "Validation error"
// @Security BearerAuth
// @Router /workflow-requests [post]
func (h *WorkflowHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var input workflow.SubmitInput
	if !decodeAndValidate(w, r, h.validator, &input) {
		return
	}

	req, err := h.service.Submit(r.Context(), userID, input)
	if err != nil {
		respondErr(w, h.logger, err, "Failed to submit workflow request")
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, req)
}

// ListMine returns the caller's requests
// @Summary List my workflow requests
// @Tags Workflow Requests
// @Produce json
// @Success 200 {array} workflow.Request
// @Security BearerAuth
// @Router /user/workflow-requests [get]
func (h *WorkflowHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	reqs, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		respondErr(w, h.logger, err, "Failed to list workflow requests")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, reqs)
}

// List returns a page of all requests
// @Summary List all workflow requests
// @Tags Admin
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param page_size query int false "Page size (default: 20, max: 100)"
// @Success 200 {object} utils.Page[workflow.Request]
// @Security BearerAuth
// @Router /admin/workflow-requests [get]
func (h *WorkflowHandler) List(w http.ResponseWriter, r *http.Request) {
	page := utils.ParsePageRequest(r)

	reqs, total, err := h.service.List(r.Context(), page.PageSize, page.Offset())
	if err != nil {
		respondErr(w, h.logger, err, "Failed to list workflow requests")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, utils.NewPage(reqs, page, total))
}

// SetStatus overrides the status of a request
// @Summary Update workflow request status
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Request ID"
// @Param request body dto.UpdateWorkflowStatusRequest true "Status"
// @Success 200 {object} workflow.Request
// @Failure 400 {object} utils.ErrorResponse "Unknown status"
// @Security BearerAuth
// @Router /admin/workflow-requests/{id} [patch]
func (h *WorkflowHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dto.UpdateWorkflowStatusRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	status := workflow.Status(req.Status)
	if !status.Valid() {
		utils.WriteError(w, errors.InvalidArgument("invalid status %q", req.Status))
		return
	}

	updated, err := h.service.SetStatus(r.Context(), id, status)
	if err != nil {
		respondErr(w, h.logger, err, "Failed to update workflow request")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, updated)
}
