package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratik-mahalle/processimo/internal/repository/memory"
	"github.com/pratik-mahalle/processimo/internal/services"
	"github.com/pratik-mahalle/processimo/internal/testutil"
)

func newSeeder(store *memory.Store) *Seeder {
	log := testutil.NewTestLogger()
	return &Seeder{
		Users:  services.NewUserService(store.Users, 4, log),
		Agents: services.NewAgentService(store.Agents, store.Teams, store.AgentSubscriptions, log),
		Teams:  services.NewTeamService(store.Teams, store.Agents, store.TeamSubscriptions, log),
		Logger: log,
	}
}

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	assert.Equal(t, "admin", c.Admin.Username)
	assert.Len(t, c.Agents, 8)
	require.Len(t, c.Teams, 5)
	for _, tm := range c.Teams {
		assert.NotEmpty(t, tm.Workflow, tm.Name)
		assert.Len(t, tm.Agents, 4, tm.Name)
	}
}

func TestSeeder_Run(t *testing.T) {
	store := memory.NewStore()
	s := newSeeder(store)
	ctx := context.Background()

	require.NoError(t, s.Run(ctx, Default(), "admin123"))

	admin, err := s.Users.Authenticate(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())

	agents, err := store.Agents.List(ctx)
	require.NoError(t, err)
	assert.Len(t, agents, 8+5*4)

	lexi, err := s.Teams.GetDetail(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "LexiSuite", lexi.Name)
	require.Len(t, lexi.Agents, 4)
	for _, step := range lexi.Workflow {
		require.NotNil(t, step.AgentID, "step %d", step.Step)
	}

	// a second run leaves the catalog alone
	require.NoError(t, s.Run(ctx, Default(), "admin123"))
	again, err := store.Agents.List(ctx)
	require.NoError(t, err)
	assert.Len(t, again, len(agents))
}
