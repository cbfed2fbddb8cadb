package memory

import (
	"context"

	"github.com/pratik-mahalle/processimo/internal/domain/workflow"
	"github.com/pratik-mahalle/processimo/internal/pkg/errors"
)

// WorkflowRepository implements workflow.Repository
type WorkflowRepository struct {
	requests *collection[workflow.Request]
}

// NewWorkflowRepository creates an empty workflow request repository
func NewWorkflowRepository() *WorkflowRepository {
	return &WorkflowRepository{requests: newCollection((*workflow.Request).Clone)}
}

// Create stores req with pending status and default priority when unset
func (r *WorkflowRepository) Create(ctx context.Context, req *workflow.Request) error {
	if req.Status == "" {
		req.Status = workflow.StatusPending
	}
	if req.Priority == "" {
		req.Priority = "5"
	}
	r.requests.insert(req, func(v *workflow.Request, id int64) {
		v.ID = id
		v.CreatedAt = now()
	})
	return nil
}

// GetByID retrieves a request by ID
func (r *WorkflowRepository) GetByID(ctx context.Context, id int64) (*workflow.Request, error) {
	req, ok := r.requests.get(id)
	if !ok {
		return nil, errors.NotFound("Workflow request")
	}
	return req, nil
}

// ListByUser returns the user's requests
func (r *WorkflowRepository) ListByUser(ctx context.Context, userID int64) ([]*workflow.Request, error) {
	return r.requests.filter(func(v *workflow.Request) bool {
		return v.UserID == userID
	}), nil
}

// List returns all requests
func (r *WorkflowRepository) List(ctx context.Context) ([]*workflow.Request, error) {
	return r.requests.filter(nil), nil
}

// UpdateStatus sets the request status
func (r *WorkflowRepository) UpdateStatus(ctx context.Context, id int64, status workflow.Status) (*workflow.Request, error) {
	req, ok, _ := r.requests.update(id, func(v *workflow.Request) error {
		v.Status = status
		return nil
	})
	if !ok {
		return nil, errors.NotFound("Workflow request")
	}
	return req, nil
}
