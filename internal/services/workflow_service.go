package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/pratik-mahalle/processimo/internal/domain/team"
	"github.com/pratik-mahalle/processimo/internal/domain/workflow"
	"github.com/pratik-mahalle/processimo/internal/notify"
	"github.com/pratik-mahalle/processimo/internal/pkg/errors"
	"github.com/pratik-mahalle/processimo/internal/pkg/logger"
	"github.com/pratik-mahalle/processimo/internal/pkg/metrics"
	"github.com/pratik-mahalle/processimo/internal/pkg/validator"
)

// WorkflowService implements workflow.Service
type WorkflowService struct {
	repo      workflow.Repository
	teams     team.Repository
	validator *validator.Validator
	notifier  notify.Notifier
	logger    *logger.Logger
}

// NewWorkflowService creates a new workflow request service. notifier may be nil.
func NewWorkflowService(repo workflow.Repository, teams team.Repository, val *validator.Validator, notifier notify.Notifier, log *logger.Logger) workflow.Service {
	return &WorkflowService{
		repo:      repo,
		teams:     teams,
		validator: val,
		notifier:  notify.OrNop(notifier),
		logger:    log,
	}
}

// Submit validates input and records a pending request
func (s *WorkflowService) Submit(ctx context.Context, userID int64, input workflow.SubmitInput) (*workflow.Request, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	if errs := s.validator.Validate(input); len(errs) > 0 {
		return nil, errors.ValidationError("Invalid workflow request", errs)
	}

	if input.TeamID != nil {
		if _, err := s.teams.GetByID(ctx, *input.TeamID); err != nil {
			if errors.Is(err, errors.ErrCodeNotFound) {
				return nil, errors.InvalidArgument("team %d does not exist", *input.TeamID)
			}
			return nil, err
		}
	}

	var integrations *string
	if input.Integrations != nil && strings.TrimSpace(*input.Integrations) != "" {
		v := strings.TrimSpace(*input.Integrations)
		integrations = &v
	}

	req := &workflow.Request{
		UserID:       userID,
		Name:         input.Name,
		Description:  input.Description,
		Complexity:   input.Complexity,
		Integrations: integrations,
		TeamID:       input.TeamID,
		Priority:     input.PriorityString(),
		Status:       workflow.StatusPending,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create workflow request")
		return nil, err
	}

	metrics.RecordWorkflowRequest(string(req.Status))
	s.logger.WithFields(map[string]interface{}{
		"workflow_request_id": req.ID,
		"user_id":             userID,
		"complexity":          req.Complexity,
		"priority":            req.Priority,
	}).Info("Workflow request submitted")

	s.notifier.Notify(ctx, notify.Event{
		Type:     notify.EventWorkflowSubmitted,
		Priority: notify.PriorityMedium,
		Title:    "New workflow request: " + req.Name,
		Message:  fmt.Sprintf("%s complexity, priority %s", req.Complexity, req.Priority),
		Data: map[string]interface{}{
			"workflowRequestId": req.ID,
			"userId":            userID,
		},
	})

	return req, nil
}

// ListByUser returns the user's requests
func (s *WorkflowService) ListByUser(ctx context.Context, userID int64) ([]*workflow.Request, error) {
	return s.repo.ListByUser(ctx, userID)
}

// List returns one page of all requests
func (s *WorkflowService) List(ctx context.Context, limit, offset int) ([]*workflow.Request, int, error) {
	if offset < 0 {
		return nil, 0, errors.InvalidArgument("offset must not be negative, got %d", offset)
	}
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, 0, err
	}
	total := len(all)
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && limit < total-offset {
		end = offset + limit
	}
	return all[offset:end], total, nil
}

// SetStatus applies an admin status override
func (s *WorkflowService) SetStatus(ctx context.Context, id int64, status workflow.Status) (*workflow.Request, error) {
	if !status.Valid() {
		return nil, errors.InvalidArgument("invalid status %q: must be one of pending, approved, rejected, completed", status)
	}

	req, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	metrics.RecordWorkflowRequest(string(status))
	s.logger.WithFields(map[string]interface{}{
		"workflow_request_id": id,
		"status":              status,
	}).Info("Workflow request status updated")

	s.notifier.Notify(ctx, notify.Event{
		Type:     notify.EventWorkflowStatusChanged,
		Priority: notify.PriorityLow,
		Title:    fmt.Sprintf("Workflow request %d is %s", id, status),
		Message:  req.Name,
		Data: map[string]interface{}{
			"workflowRequestId": id,
			"userId":            req.UserID,
			"status":            status,
		},
	})

	return req, nil
}
