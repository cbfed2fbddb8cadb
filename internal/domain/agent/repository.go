package agent

import "context"

// Repository defines the interface for agent data access.
// List results are in insertion order.
type Repository interface {
	Create(ctx context.Context, agent *Agent) error
	GetByID(ctx context.Context, id int64) (*Agent, error)
	List(ctx context.Context) ([]*Agent, error)

	// ListFeatured returns agents with any badge flag set
	ListFeatured(ctx context.Context) ([]*Agent, error)

	// ListByTeam returns the members of a team
	ListByTeam(ctx context.Context, teamID int64) ([]*Agent, error)

	// Update merges patch over the stored agent and returns the result
	Update(ctx context.Context, id int64, patch Patch) (*Agent, error)

	Delete(ctx context.Context, id int64) error

	// ClearTeam detaches every agent of teamID
	ClearTeam(ctx context.Context, teamID int64) error
}
