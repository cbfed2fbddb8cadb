package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratik-mahalle/processimo/internal/domain/dashboard"
	"github.com/pratik-mahalle/processimo/internal/domain/workflow"
	"github.com/pratik-mahalle/processimo/internal/pkg/validator"
)

func TestStatsService_Stats(t *testing.T) {
	h := newSubscriptionHarness(t)
	ctx := context.Background()
	log := h.agents.logger

	agentCatalog := NewAgentService(h.fx.Store.Agents, h.fx.Store.Teams, h.fx.Store.AgentSubscriptions, log)
	teamCatalog := NewTeamService(h.fx.Store.Teams, h.fx.Store.Agents, h.fx.Store.TeamSubscriptions, log)
	requests := NewWorkflowService(h.fx.Store.WorkflowRequests, h.fx.Store.Teams, validator.New(), nil, log)
	stats := NewStatsService(h.agents, h.teams, agentCatalog, teamCatalog, requests)

	empty, err := stats.Stats(ctx, h.fx.User.ID)
	require.NoError(t, err)
	assert.Equal(t, dashboard.PlanFree, empty.Subscription)
	assert.Equal(t, 0, empty.WorkflowRequests["pending"])

	c, err := h.agents.Initiate(ctx, h.fx.User.ID, h.fx.Agent.ID)
	require.NoError(t, err)
	_, err = h.agents.Complete(ctx, h.fx.User.ID, c.SubscriptionID, h.gateway.LastIntentID())
	require.NoError(t, err)
	_, err = h.teams.Initiate(ctx, h.fx.User.ID, h.fx.Team.ID)
	require.NoError(t, err)

	_, err = requests.Submit(ctx, h.fx.User.ID, workflow.SubmitInput{
		Name:        "Churn alerts",
		Description: "Alert account managers about churn risk",
		Complexity:  workflow.ComplexityBasic,
	})
	require.NoError(t, err)

	got, err := stats.Stats(ctx, h.fx.User.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ActiveAgents)
	assert.Equal(t, 0, got.ActiveTeams)
	assert.Equal(t, 1, got.PendingPayments)
	assert.Equal(t, int64(999), got.MonthlySpend)
	assert.Equal(t, dashboard.PlanPayAsYouGo, got.Subscription)
	assert.Equal(t, 1, got.WorkflowRequests["pending"])

	// another user sees nothing of this
	other, err := stats.Stats(ctx, h.fx.Other.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, other.PendingPayments)
}
