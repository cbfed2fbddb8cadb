package team

import "context"

// Repository defines the interface for agent team data access.
// List results are in insertion order.
type Repository interface {
	Create(ctx context.Context, team *Team) error
	GetByID(ctx context.Context, id int64) (*Team, error)
	List(ctx context.Context) ([]*Team, error)

	// ListFeatured returns teams marked popular or featured
	ListFeatured(ctx context.Context) ([]*Team, error)

	Update(ctx context.Context, id int64, patch Patch) (*Team, error)
	Delete(ctx context.Context, id int64) error
}
