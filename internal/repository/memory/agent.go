package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/pratik-mahalle/processimo/internal/domain/agent"
	"github.com/pratik-mahalle/processimo/internal/pkg/errors"
)

// AgentRepository implements agent.Repository with a team -> agent ids index.
type AgentRepository struct {
	// mu serialises writes so the index never disagrees with the collection
	mu     sync.RWMutex
	agents *collection[agent.Agent]
	byTeam map[int64][]int64
}

// NewAgentRepository creates an empty agent repository
func NewAgentRepository() *AgentRepository {
	return &AgentRepository{
		agents: newCollection((*agent.Agent).Clone),
		byTeam: make(map[int64][]int64),
	}
}

// Create stores a
func (r *AgentRepository) Create(ctx context.Context, a *agent.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.agents.insert(a, func(v *agent.Agent, id int64) {
		v.ID = id
		v.CreatedAt = now()
	})
	if a.TeamID != nil {
		r.indexAdd(*a.TeamID, a.ID)
	}
	return nil
}

// GetByID retrieves an agent by ID
func (r *AgentRepository) GetByID(ctx context.Context, id int64) (*agent.Agent, error) {
	a, ok := r.agents.get(id)
	if !ok {
		return nil, errors.NotFound("Agent")
	}
	return a, nil
}

// List returns all agents
func (r *AgentRepository) List(ctx context.Context) ([]*agent.Agent, error) {
	return r.agents.filter(nil), nil
}

// ListFeatured returns agents with any badge flag set
func (r *AgentRepository) ListFeatured(ctx context.Context) ([]*agent.Agent, error) {
	return r.agents.filter((*agent.Agent).IsFeatured), nil
}

// ListByTeam returns the members of a team in insertion order
func (r *AgentRepository) ListByTeam(ctx context.Context, teamID int64) ([]*agent.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byTeam[teamID]
	out := make([]*agent.Agent, 0, len(ids))
	for _, id := range ids {
		if a, ok := r.agents.get(id); ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// Update merges patch over the stored agent
func (r *AgentRepository) Update(ctx context.Context, id int64, patch agent.Patch) (*agent.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var oldTeam *int64
	a, ok, _ := r.agents.update(id, func(v *agent.Agent) error {
		oldTeam = v.TeamID
		patch.Apply(v)
		return nil
	})
	if !ok {
		return nil, errors.NotFound("Agent")
	}
	if oldTeam != nil {
		r.indexRemove(*oldTeam, id)
	}
	if a.TeamID != nil {
		r.indexAdd(*a.TeamID, id)
	}
	return a, nil
}

// Delete removes an agent
func (r *AgentRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.agents.get(id)
	if !ok || !r.agents.remove(id) {
		return errors.NotFound("Agent")
	}
	if a.TeamID != nil {
		r.indexRemove(*a.TeamID, id)
	}
	return nil
}

// ClearTeam detaches every agent of teamID
func (r *AgentRepository) ClearTeam(ctx context.Context, teamID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.agents.updateWhere(func(v *agent.Agent) bool {
		return v.TeamID != nil && *v.TeamID == teamID
	}, func(v *agent.Agent) {
		v.TeamID = nil
		v.TeamRole = nil
	})
	delete(r.byTeam, teamID)
	return nil
}

// indexAdd keeps each team's ids sorted, which is insertion order
func (r *AgentRepository) indexAdd(teamID, id int64) {
	ids := r.byTeam[teamID]
	i := sort.Search(len(ids), func(i int) bool { return ids[i] >= id })
	if i < len(ids) && ids[i] == id {
		return
	}
	ids = append(ids, 0)
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	r.byTeam[teamID] = ids
}

func (r *AgentRepository) indexRemove(teamID, id int64) {
	ids := r.byTeam[teamID]
	for i, v := range ids {
		if v == id {
			r.byTeam[teamID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(r.byTeam[teamID]) == 0 {
		delete(r.byTeam, teamID)
	}
}
