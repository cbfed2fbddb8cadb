package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/pratik-mahalle/processimo/internal/domain/agent"
	"github.com/pratik-mahalle/processimo/internal/domain/subscription"
	"github.com/pratik-mahalle/processimo/internal/domain/team"
	"github.com/pratik-mahalle/processimo/internal/pkg/errors"
	"github.com/pratik-mahalle/processimo/internal/pkg/logger"
)

// AgentService implements agent.Service
type AgentService struct {
	agents agent.Repository
	teams  team.Repository
	subs   subscription.Repository
	logger *logger.Logger
}

// NewAgentService creates a new agent catalog service. subs holds agent subscriptions.
func NewAgentService(agents agent.Repository, teams team.Repository, subs subscription.Repository, log *logger.Logger) *AgentService {
	return &AgentService{
		agents: agents,
		teams:  teams,
		subs:   subs,
		logger: log,
	}
}

// List returns all agents
func (s *AgentService) List(ctx context.Context) ([]*agent.Agent, error) {
	return s.agents.List(ctx)
}

// ListFeatured returns agents with any badge set
func (s *AgentService) ListFeatured(ctx context.Context) ([]*agent.Agent, error) {
	return s.agents.ListFeatured(ctx)
}

// Get retrieves one agent
func (s *AgentService) Get(ctx context.Context, id int64) (*agent.Agent, error) {
	return s.agents.GetByID(ctx, id)
}

// ListByTeam returns the members of a team
func (s *AgentService) ListByTeam(ctx context.Context, teamID int64) ([]*agent.Agent, error) {
	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		return nil, err
	}
	return s.agents.ListByTeam(ctx, teamID)
}

// ListForUser returns agents the user actively subscribes to. Agents deleted
// after their subscription ended are skipped.
func (s *AgentService) ListForUser(ctx context.Context, userID int64) ([]*agent.Agent, error) {
	subs, err := s.subs.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool)
	out := make([]*agent.Agent, 0, len(subs))
	for _, sub := range subs {
		if sub.Status != subscription.StatusActive || seen[sub.ProductID()] {
			continue
		}
		a, err := s.agents.GetByID(ctx, sub.ProductID())
		if errors.Is(err, errors.ErrCodeNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		seen[a.ID] = true
		out = append(out, a)
	}
	return out, nil
}

// Create adds an agent to the catalog
func (s *AgentService) Create(ctx context.Context, a *agent.Agent) error {
	if a.Price < 0 {
		return errors.InvalidArgument("price must not be negative")
	}
	if err := s.checkTeam(ctx, a.TeamID); err != nil {
		return err
	}
	if err := s.agents.Create(ctx, a); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create agent")
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"agent_id": a.ID,
		"name":     a.Name,
		"team_id":  a.TeamID,
	}).Info("Agent created")
	return nil
}

// Update applies a partial update
func (s *AgentService) Update(ctx context.Context, id int64, patch agent.Patch) (*agent.Agent, error) {
	if patch.Price != nil && *patch.Price < 0 {
		return nil, errors.InvalidArgument("price must not be negative")
	}
	if !patch.ClearTeam {
		if err := s.checkTeam(ctx, patch.TeamID); err != nil {
			return nil, err
		}
	}
	a, err := s.agents.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.logger.With("agent_id", id).Info("Agent updated")
	return a, nil
}

// Delete removes an agent unless a live subscription still references it
func (s *AgentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.agents.GetByID(ctx, id); err != nil {
		return err
	}
	live, err := s.subs.ListByProduct(ctx, id,
		subscription.StatusPending, subscription.StatusActive, subscription.StatusCanceling)
	if err != nil {
		return err
	}
	if len(live) > 0 {
		return errors.Conflict(fmt.Sprintf("Agent has %d live subscription(s)", len(live))).
			WithDetails(map[string]int{"liveSubscriptions": len(live)})
	}
	if err := s.agents.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.With("agent_id", id).Info("Agent deleted")
	return nil
}

func (s *AgentService) checkTeam(ctx context.Context, teamID *int64) error {
	if teamID == nil {
		return nil
	}
	if _, err := s.teams.GetByID(ctx, *teamID); err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			return errors.InvalidArgument("team %d does not exist", *teamID)
		}
		return err
	}
	return nil
}

// Product resolves an agent for the subscription lifecycle
func (s *AgentService) Product(ctx context.Context, id int64) (*subscription.Product, error) {
	a, err := s.agents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &subscription.Product{ID: a.ID, Name: a.Name, Price: a.Price}, nil
}

// TeamService implements team.Service
type TeamService struct {
	teams  team.Repository
	agents agent.Repository
	subs   subscription.Repository
	logger *logger.Logger
}

// NewTeamService creates a new team catalog service. subs holds team subscriptions.
func NewTeamService(teams team.Repository, agents agent.Repository, subs subscription.Repository, log *logger.Logger) *TeamService {
	return &TeamService{
		teams:  teams,
		agents: agents,
		subs:   subs,
		logger: log,
	}
}

// List returns all teams
func (s *TeamService) List(ctx context.Context) ([]*team.Team, error) {
	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.renderAll(ctx, teams)
}

// ListFeatured returns popular or featured teams
func (s *TeamService) ListFeatured(ctx context.Context) ([]*team.Team, error) {
	teams, err := s.teams.ListFeatured(ctx)
	if err != nil {
		return nil, err
	}
	return s.renderAll(ctx, teams)
}

// Get retrieves one team
func (s *TeamService) Get(ctx context.Context, id int64) (*team.Team, error) {
	t, err := s.teams.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	members, err := s.agents.ListByTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	s.render(ctx, t, members)
	return t, nil
}

// GetDetail returns a team with its agents
func (s *TeamService) GetDetail(ctx context.Context, id int64) (*team.Detail, error) {
	t, err := s.teams.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	members, err := s.agents.ListByTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	s.render(ctx, t, members)
	return &team.Detail{Team: t, Agents: members}, nil
}

// ListForUser returns the teams the user actively subscribes to
func (s *TeamService) ListForUser(ctx context.Context, userID int64) ([]*team.Team, error) {
	subs, err := s.subs.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool)
	out := make([]*team.Team, 0, len(subs))
	for _, sub := range subs {
		if sub.Status != subscription.StatusActive || seen[sub.ProductID()] {
			continue
		}
		t, err := s.Get(ctx, sub.ProductID())
		if errors.Is(err, errors.ErrCodeNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out, nil
}

// Create adds a team to the catalog
func (s *TeamService) Create(ctx context.Context, t *team.Team) error {
	if t.Price < 0 {
		return errors.InvalidArgument("price must not be negative")
	}
	if err := s.checkSteps(ctx, t.Workflow); err != nil {
		return err
	}
	if err := s.teams.Create(ctx, t); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create agent team")
		return err
	}
	s.logger.WithFields(map[string]interface{}{
		"team_id": t.ID,
		"name":    t.Name,
		"steps":   len(t.Workflow),
	}).Info("Agent team created")
	return nil
}

// Update applies a partial update
func (s *TeamService) Update(ctx context.Context, id int64, patch team.Patch) (*team.Team, error) {
	if patch.Price != nil && *patch.Price < 0 {
		return nil, errors.InvalidArgument("price must not be negative")
	}
	if patch.Workflow != nil {
		if err := s.checkSteps(ctx, *patch.Workflow); err != nil {
			return nil, err
		}
	}
	if _, err := s.teams.Update(ctx, id, patch); err != nil {
		return nil, err
	}
	s.logger.With("team_id", id).Info("Agent team updated")
	return s.Get(ctx, id)
}

// Delete removes a team unless a live subscription references it. Member agents are detached.
func (s *TeamService) Delete(ctx context.Context, id int64) error {
	if _, err := s.teams.GetByID(ctx, id); err != nil {
		return err
	}
	live, err := s.subs.ListByProduct(ctx, id,
		subscription.StatusPending, subscription.StatusActive, subscription.StatusCanceling)
	if err != nil {
		return err
	}
	if len(live) > 0 {
		return errors.Conflict(fmt.Sprintf("Agent team has %d live subscription(s)", len(live))).
			WithDetails(map[string]int{"liveSubscriptions": len(live)})
	}
	if err := s.teams.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.agents.ClearTeam(ctx, id); err != nil {
		return err
	}
	s.logger.With("team_id", id).Info("Agent team deleted")
	return nil
}

// LinkWorkflow sets each step's agent id from the member whose name matches
func (s *TeamService) LinkWorkflow(ctx context.Context, id int64) (*team.Team, error) {
	t, err := s.teams.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	members, err := s.agents.ListByTeam(ctx, id)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]int64, len(members))
	for _, a := range members {
		byName[strings.ToLower(a.Name)] = a.ID
	}

	steps := team.CloneWorkflow(t.Workflow)
	linked := 0
	for i := range steps {
		if aid, ok := byName[strings.ToLower(steps[i].AgentName)]; ok {
			v := aid
			steps[i].AgentID = &v
			linked++
		}
	}
	if _, err := s.teams.Update(ctx, id, team.Patch{Workflow: &steps}); err != nil {
		return nil, err
	}

	if linked < len(steps) {
		s.logger.WithFields(map[string]interface{}{
			"team_id": id,
			"linked":  linked,
			"steps":   len(steps),
		}).Warn("Some workflow steps do not match a team agent")
	}
	return s.Get(ctx, id)
}

// Product resolves a team for the subscription lifecycle
func (s *TeamService) Product(ctx context.Context, id int64) (*subscription.Product, error) {
	t, err := s.teams.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &subscription.Product{ID: t.ID, Name: t.Name, Price: t.Price}, nil
}

func (s *TeamService) checkSteps(ctx context.Context, steps []team.WorkflowStep) error {
	for _, st := range steps {
		if st.AgentID == nil {
			continue
		}
		if _, err := s.agents.GetByID(ctx, *st.AgentID); err != nil {
			if errors.Is(err, errors.ErrCodeNotFound) {
				return errors.InvalidArgument("workflow step %d references unknown agent %d", st.Step, *st.AgentID)
			}
			return err
		}
	}
	return nil
}

func (s *TeamService) renderAll(ctx context.Context, teams []*team.Team) ([]*team.Team, error) {
	for _, t := range teams {
		members, err := s.agents.ListByTeam(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		s.render(ctx, t, members)
	}
	return teams, nil
}

// render copies current agent names onto linked steps so renames show up
func (s *TeamService) render(ctx context.Context, t *team.Team, members []*agent.Agent) {
	names := make(map[int64]string, len(members))
	for _, a := range members {
		names[a.ID] = a.Name
	}
	for i := range t.Workflow {
		st := &t.Workflow[i]
		if st.AgentID == nil {
			continue
		}
		if name, ok := names[*st.AgentID]; ok {
			st.AgentName = name
			continue
		}
		// linked agent left the team; look it up directly
		if a, err := s.agents.GetByID(ctx, *st.AgentID); err == nil {
			st.AgentName = a.Name
		}
	}
}
