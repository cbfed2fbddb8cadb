package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratik-mahalle/processimo/internal/domain/agent"
	"github.com/pratik-mahalle/processimo/internal/domain/subscription"
	"github.com/pratik-mahalle/processimo/internal/domain/team"
	"github.com/pratik-mahalle/processimo/internal/domain/user"
	"github.com/pratik-mahalle/processimo/internal/domain/workflow"
	"github.com/pratik-mahalle/processimo/internal/pkg/errors"
	"github.com/pratik-mahalle/processimo/internal/repository/postgres"
	"github.com/pratik-mahalle/processimo/internal/testutil"
)

func TestUserRepository(t *testing.T) {
	repo := postgres.NewUserRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	first := "Ada"
	u := &user.User{Username: "Ada", Email: "ada@example.com", PasswordHash: "hash", FirstName: &first}
	require.NoError(t, repo.Create(ctx, u))
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, user.RoleUser, u.Role)

	got, err := repo.GetByUsername(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	require.NotNil(t, got.FirstName)
	assert.Equal(t, "Ada", *got.FirstName)
	assert.Nil(t, got.LastName)

	_, err = repo.GetByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)

	updated, err := repo.UpdateStripeInfo(ctx, u.ID, user.StripeInfo{CustomerID: "cus_1"})
	require.NoError(t, err)
	assert.Equal(t, "cus_1", *updated.StripeCustomerID)

	// empty values keep what is stored
	updated, err = repo.UpdateStripeInfo(ctx, u.ID, user.StripeInfo{SubscriptionID: "sub_1"})
	require.NoError(t, err)
	assert.Equal(t, "cus_1", *updated.StripeCustomerID)
	assert.Equal(t, "sub_1", *updated.StripeSubscriptionID)

	_, err = repo.GetByID(ctx, 99)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAgentAndTeamRepositories(t *testing.T) {
	db := testutil.NewTestDB(t)
	agents := postgres.NewAgentRepository(db)
	teams := postgres.NewTeamRepository(db)
	ctx := context.Background()

	tm := &team.Team{
		Name:       "LexiSuite",
		Price:      9999,
		IsFeatured: true,
		Workflow: []team.WorkflowStep{
			{Step: 1, Description: "Draft", AgentName: "ContractBot"},
			{Step: 2, Description: "Review", AgentName: "ComplianceGuard"},
		},
	}
	require.NoError(t, teams.Create(ctx, tm))
	require.NoError(t, teams.Create(ctx, &team.Team{Name: "Plain", Price: 1}))

	role := "Drafting"
	member := &agent.Agent{Name: "ContractBot", Price: 2999, TeamID: &tm.ID, TeamRole: &role}
	solo := &agent.Agent{Name: "Email Assistant", Price: 999, IsNew: true}
	require.NoError(t, agents.Create(ctx, member))
	require.NoError(t, agents.Create(ctx, solo))

	got, err := teams.GetByID(ctx, tm.ID)
	require.NoError(t, err)
	require.Len(t, got.Workflow, 2)
	assert.Equal(t, "ComplianceGuard", got.Workflow[1].AgentName)

	featured, err := teams.ListFeatured(ctx)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, tm.ID, featured[0].ID)

	members, err := agents.ListByTeam(ctx, tm.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "Drafting", *members[0].TeamRole)

	badged, err := agents.ListFeatured(ctx)
	require.NoError(t, err)
	require.Len(t, badged, 1)
	assert.Equal(t, solo.ID, badged[0].ID)

	price := int64(1299)
	updated, err := agents.Update(ctx, solo.ID, agent.Patch{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, int64(1299), updated.Price)
	assert.Equal(t, "Email Assistant", updated.Name)

	steps := team.CloneWorkflow(got.Workflow)
	steps[0].AgentID = &member.ID
	_, err = teams.Update(ctx, tm.ID, team.Patch{Workflow: &steps})
	require.NoError(t, err)
	got, err = teams.GetByID(ctx, tm.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Workflow[0].AgentID)
	assert.Equal(t, member.ID, *got.Workflow[0].AgentID)

	require.NoError(t, agents.ClearTeam(ctx, tm.ID))
	members, err = agents.ListByTeam(ctx, tm.ID)
	require.NoError(t, err)
	assert.Empty(t, members)

	require.NoError(t, teams.Delete(ctx, tm.ID))
	assert.True(t, errors.Is(teams.Delete(ctx, tm.ID), errors.ErrCodeNotFound))

	// ids are never reused
	again := &team.Team{Name: "Later", Price: 5}
	require.NoError(t, teams.Create(ctx, again))
	assert.Equal(t, int64(3), again.ID)
}

func TestSubscriptionRepository(t *testing.T) {
	db := testutil.NewTestDB(t)
	agentSubs := postgres.NewSubscriptionRepository(db, subscription.KindAgent)
	teamSubs := postgres.NewSubscriptionRepository(db, subscription.KindTeam)
	ctx := context.Background()

	a := subscription.New(subscription.KindAgent, 1, 10)
	require.NoError(t, agentSubs.Create(ctx, a))
	tm := subscription.New(subscription.KindTeam, 1, 20)
	require.NoError(t, teamSubs.Create(ctx, tm))

	// separate sequences
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(1), tm.ID)

	got, err := teamSubs.GetByID(ctx, tm.ID)
	require.NoError(t, err)
	assert.Equal(t, subscription.KindTeam, got.Kind)
	assert.Equal(t, int64(20), got.ProductID())
	assert.Nil(t, got.AgentID)
	assert.Equal(t, subscription.StatusPending, got.Status)

	active := subscription.StatusActive
	_, err = agentSubs.Update(ctx, a.ID, subscription.Patch{
		Status: &active,
		Stripe: &subscription.StripeInfo{PaymentIntentID: "pi_1"},
	})
	require.NoError(t, err)

	pair, err := agentSubs.ListByPair(ctx, 1, 10, subscription.StatusActive, subscription.StatusCanceling)
	require.NoError(t, err)
	require.Len(t, pair, 1)
	assert.Equal(t, "pi_1", *pair[0].StripePaymentIntentID)

	pair, err = agentSubs.ListByPair(ctx, 1, 10, subscription.StatusCanceled)
	require.NoError(t, err)
	assert.Empty(t, pair)

	forProduct, err := agentSubs.ListByProduct(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, forProduct, 1)

	canceled := subscription.StatusCanceled
	end := time.Now()
	done, err := agentSubs.Update(ctx, a.ID, subscription.Patch{Status: &canceled, EndDate: &end})
	require.NoError(t, err)
	require.NotNil(t, done.EndDate)
	assert.Equal(t, "pi_1", *done.StripePaymentIntentID)

	byStatus, err := agentSubs.ListByStatus(ctx, subscription.StatusCanceled)
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.True(t, done.EndDate.Equal(*byStatus[0].EndDate))

	_, err = agentSubs.Update(ctx, 42, subscription.Patch{Status: &canceled})
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestWorkflowRepository(t *testing.T) {
	repo := postgres.NewWorkflowRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	req := &workflow.Request{UserID: 3, Name: "Invoice triage", Description: "Route invoices", Complexity: "basic"}
	require.NoError(t, repo.Create(ctx, req))
	assert.Equal(t, "5", req.Priority)
	assert.Equal(t, workflow.StatusPending, req.Status)

	require.NoError(t, repo.Create(ctx, &workflow.Request{UserID: 4, Name: "Other", Description: "Other request", Complexity: "basic"}))

	mine, err := repo.ListByUser(ctx, 3)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	updated, err := repo.UpdateStatus(ctx, req.ID, workflow.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusApproved, updated.Status)

	_, err = repo.UpdateStatus(ctx, 77, workflow.StatusApproved)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestMigrations_Idempotent(t *testing.T) {
	db := testutil.NewTestDB(t)

	states, err := postgres.MigrationStatus(db)
	require.NoError(t, err)
	require.NotEmpty(t, states)
	for _, st := range states {
		assert.True(t, st.Applied, "migration %s not applied", st.Version)
	}

	// a second run finds nothing to do
	require.NoError(t, postgres.RunMigrations(db, testutil.NewTestLogger()))
	again, err := postgres.MigrationStatus(db)
	require.NoError(t, err)
	assert.Equal(t, states, again)
}
