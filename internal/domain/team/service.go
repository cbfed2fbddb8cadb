package team

import "context"

// Service defines the catalog operations on agent teams
type Service interface {
	List(ctx context.Context) ([]*Team, error)
	ListFeatured(ctx context.Context) ([]*Team, error)
	Get(ctx context.Context, id int64) (*Team, error)

	// GetDetail returns the team with its member agents
	GetDetail(ctx context.Context, id int64) (*Detail, error)

	// ListForUser returns the teams the user holds an active subscription to
	ListForUser(ctx context.Context, userID int64) ([]*Team, error)

	Create(ctx context.Context, team *Team) error
	Update(ctx context.Context, id int64, patch Patch) (*Team, error)

	// Delete fails with a conflict while live subscriptions reference the team
	// and detaches member agents otherwise
	Delete(ctx context.Context, id int64) error

	// LinkWorkflow resolves step agent names to member agent ids
	LinkWorkflow(ctx context.Context, id int64) (*Team, error)
}
