package workflow

import "context"

// Repository defines the interface for workflow request data access.
// Requests are never deleted.
type Repository interface {
	Create(ctx context.Context, req *Request) error
	GetByID(ctx context.Context, id int64) (*Request, error)

	// ListByUser returns the user's requests in insertion order
	ListByUser(ctx context.Context, userID int64) ([]*Request, error)

	// List returns every request in insertion order
	List(ctx context.Context) ([]*Request, error)

	UpdateStatus(ctx context.Context, id int64, status Status) (*Request, error)
}
