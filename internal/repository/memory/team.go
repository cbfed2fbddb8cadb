package memory

import (
	"context"

	"github.com/pratik-mahalle/processimo/internal/domain/team"
	"github.com/pratik-mahalle/processimo/internal/pkg/errors"
)

// TeamRepository implements team.Repository
type TeamRepository struct {
	teams *collection[team.Team]
}

// NewTeamRepository creates an empty team repository
func NewTeamRepository() *TeamRepository {
	return &TeamRepository{teams: newCollection((*team.Team).Clone)}
}

// Create stores t
func (r *TeamRepository) Create(ctx context.Context, t *team.Team) error {
	if t.Workflow == nil {
		t.Workflow = []team.WorkflowStep{}
	}
	r.teams.insert(t, func(v *team.Team, id int64) {
		v.ID = id
		v.CreatedAt = now()
	})
	return nil
}

// GetByID retrieves a team by ID
func (r *TeamRepository) GetByID(ctx context.Context, id int64) (*team.Team, error) {
	t, ok := r.teams.get(id)
	if !ok {
		return nil, errors.NotFound("Agent team")
	}
	return t, nil
}

// List returns all teams
func (r *TeamRepository) List(ctx context.Context) ([]*team.Team, error) {
	return r.teams.filter(nil), nil
}

// ListFeatured returns teams marked popular or featured
func (r *TeamRepository) ListFeatured(ctx context.Context) ([]*team.Team, error) {
	return r.teams.filter((*team.Team).Featured), nil
}

// Update merges patch over the stored team
func (r *TeamRepository) Update(ctx context.Context, id int64, patch team.Patch) (*team.Team, error) {
	t, ok, _ := r.teams.update(id, func(v *team.Team) error {
		patch.Apply(v)
		return nil
	})
	if !ok {
		return nil, errors.NotFound("Agent team")
	}
	return t, nil
}

// Delete removes a team
func (r *TeamRepository) Delete(ctx context.Context, id int64) error {
	if !r.teams.remove(id) {
		return errors.NotFound("Agent team")
	}
	return nil
}
