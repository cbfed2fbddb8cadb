package agent

import "context"

// Service defines the catalog operations on agents
type Service interface {
	List(ctx context.Context) ([]*Agent, error)
	ListFeatured(ctx context.Context) ([]*Agent, error)
	Get(ctx context.Context, id int64) (*Agent, error)
	ListByTeam(ctx context.Context, teamID int64) ([]*Agent, error)

	// ListForUser returns the agents the user holds an active subscription to
	ListForUser(ctx context.Context, userID int64) ([]*Agent, error)

	Create(ctx context.Context, agent *Agent) error
	Update(ctx context.Context, id int64, patch Patch) (*Agent, error)

	// Delete fails with a conflict while live subscriptions reference the agent
	Delete(ctx context.Context, id int64) error
}
