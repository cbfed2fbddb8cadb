package memory

import (
	"context"
	"sync"
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
)

func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string  { return &v }

func TestUserRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	u := &user.User{Username: "Alice", Email: "Alice@Example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, u))

	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, user.RoleUser, u.Role)
	assert.False(t, u.CreatedAt.IsZero())
	assert.Nil(t, u.FirstName)
	assert.Nil(t, u.StripeCustomerID)

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, got)

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	byEmail, err := repo.GetByEmail(ctx, "ALICE@example.COM")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
}

func TestUserRepository_UpdateStripeInfoKeepsExisting(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	u := &user.User{Username: "bob", Email: "bob@example.com"}
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.UpdateStripeInfo(ctx, u.ID, user.StripeInfo{CustomerID: "cus_1"})
	require.NoError(t, err)
	require.NotNil(t, got.StripeCustomerID)
	assert.Equal(t, "cus_1", *got.StripeCustomerID)

	got, err = repo.UpdateStripeInfo(ctx, u.ID, user.StripeInfo{SubscriptionID: "sub_1"})
	require.NoError(t, err)
	assert.Equal(t, "cus_1", *got.StripeCustomerID)
	assert.Equal(t, "sub_1", *got.StripeSubscriptionID)
}

func TestUnissuedIDsReportNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.Users.GetByID(ctx, 42)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
	_, err = s.Users.UpdateStripeInfo(ctx, 42, user.StripeInfo{CustomerID: "x"})
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))

	_, err = s.Agents.GetByID(ctx, 42)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
	_, err = s.Agents.Update(ctx, 42, agent.Patch{Name: strPtr("x")})
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
	assert.True(t, errors.Is(s.Agents.Delete(ctx, 42), errors.ErrCodeNotFound))

	_, err = s.Teams.GetByID(ctx, 42)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
	_, err = s.Teams.Update(ctx, 42, team.Patch{Name: strPtr("x")})
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
	assert.True(t, errors.Is(s.Teams.Delete(ctx, 42), errors.ErrCodeNotFound))

	_, err = s.AgentSubscriptions.GetByID(ctx, 42)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
	_, err = s.AgentSubscriptions.Update(ctx, 42, subscription.Patch{})
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))

	_, err = s.WorkflowRequests.GetByID(ctx, 42)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
	_, err = s.WorkflowRequests.UpdateStatus(ctx, 42, workflow.StatusApproved)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestAgentRepository_IDsNeverReused(t *testing.T) {
	ctx := context.Background()
	repo := NewAgentRepository()

	a1 := &agent.Agent{Name: "one"}
	a2 := &agent.Agent{Name: "two"}
	require.NoError(t, repo.Create(ctx, a1))
	require.NoError(t, repo.Create(ctx, a2))
	require.NoError(t, repo.Delete(ctx, a2.ID))

	a3 := &agent.Agent{Name: "three"}
	require.NoError(t, repo.Create(ctx, a3))
	assert.Equal(t, int64(3), a3.ID)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "one", all[0].Name)
	assert.Equal(t, "three", all[1].Name)
}

func TestAgentRepository_FeaturedAndShallowMerge(t *testing.T) {
	ctx := context.Background()
	repo := NewAgentRepository()

	plain := &agent.Agent{Name: "plain", Price: 100}
	popular := &agent.Agent{Name: "popular", IsPopular: true}
	both := &agent.Agent{Name: "both", IsNew: true, IsEnterprise: true}
	for _, a := range []*agent.Agent{plain, popular, both} {
		require.NoError(t, repo.Create(ctx, a))
	}

	featured, err := repo.ListFeatured(ctx)
	require.NoError(t, err)
	require.Len(t, featured, 2)
	assert.Equal(t, popular.ID, featured[0].ID)
	assert.Equal(t, both.ID, featured[1].ID)

	updated, err := repo.Update(ctx, plain.ID, agent.Patch{Description: strPtr("now described")})
	require.NoError(t, err)
	assert.Equal(t, "plain", updated.Name)
	assert.Equal(t, int64(100), updated.Price)
	assert.Equal(t, "now described", updated.Description)
}

func TestAgentRepository_TeamIndex(t *testing.T) {
	ctx := context.Background()
	repo := NewAgentRepository()

	a := &agent.Agent{Name: "a", TeamID: int64Ptr(1)}
	b := &agent.Agent{Name: "b"}
	c := &agent.Agent{Name: "c", TeamID: int64Ptr(1)}
	for _, v := range []*agent.Agent{a, b, c} {
		require.NoError(t, repo.Create(ctx, v))
	}

	// moving b into the team keeps insertion order
	_, err := repo.Update(ctx, b.ID, agent.Patch{TeamID: int64Ptr(1)})
	require.NoError(t, err)

	members, err := repo.ListByTeam(ctx, 1)
	require.NoError(t, err)
	require.Len(t, members, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{members[0].Name, members[1].Name, members[2].Name})

	_, err = repo.Update(ctx, a.ID, agent.Patch{TeamID: int64Ptr(2)})
	require.NoError(t, err)
	members, _ = repo.ListByTeam(ctx, 1)
	assert.Len(t, members, 2)

	require.NoError(t, repo.ClearTeam(ctx, 1))
	members, _ = repo.ListByTeam(ctx, 1)
	assert.Empty(t, members)
	got, _ := repo.GetByID(ctx, c.ID)
	assert.Nil(t, got.TeamID)
}

func TestAgentRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewAgentRepository()
	a := &agent.Agent{Name: "orig", TeamRole: strPtr("role")}
	require.NoError(t, repo.Create(ctx, a))

	got, _ := repo.GetByID(ctx, a.ID)
	got.Name = "mutated"
	*got.TeamRole = "mutated"

	again, _ := repo.GetByID(ctx, a.ID)
	assert.Equal(t, "orig", again.Name)
	assert.Equal(t, "role", *again.TeamRole)
}

func TestTeamRepository_WorkflowOrderRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewTeamRepository()

	steps := []team.WorkflowStep{
		{Step: 1, Description: "draft", AgentName: "ContractBot"},
		{Step: 2, Description: "review", AgentName: "ReviewBot"},
		{Step: 3, Description: "research", AgentName: "CaseLawBot"},
		{Step: 4, Description: "diligence", AgentName: "DueDiligenceBot"},
	}
	tm := &team.Team{Name: "LexiSuite", Workflow: steps, IsFeatured: true}
	require.NoError(t, repo.Create(ctx, tm))

	got, err := repo.GetByID(ctx, tm.ID)
	require.NoError(t, err)
	assert.Equal(t, steps, got.Workflow)

	featured, _ := repo.ListFeatured(ctx)
	assert.Len(t, featured, 1)
}

func TestSubscriptionRepository_Filters(t *testing.T) {
	ctx := context.Background()
	repo := NewSubscriptionRepository()

	s1 := subscription.New(subscription.KindAgent, 7, 3)
	s2 := subscription.New(subscription.KindAgent, 7, 4)
	s3 := subscription.New(subscription.KindAgent, 8, 3)
	for _, s := range []*subscription.Subscription{s1, s2, s3} {
		require.NoError(t, repo.Create(ctx, s))
	}
	assert.Equal(t, subscription.StatusPending, s1.Status)
	assert.False(t, s1.StartDate.IsZero())
	assert.Nil(t, s1.EndDate)

	active := subscription.StatusActive
	_, err := repo.Update(ctx, s1.ID, subscription.Patch{Status: &active})
	require.NoError(t, err)

	mine, _ := repo.ListByUser(ctx, 7)
	assert.Len(t, mine, 2)

	pair, _ := repo.ListByPair(ctx, 7, 3, subscription.StatusActive)
	require.Len(t, pair, 1)
	assert.Equal(t, s1.ID, pair[0].ID)

	pending, _ := repo.ListByProduct(ctx, 3, subscription.StatusPending)
	require.Len(t, pending, 1)
	assert.Equal(t, s3.ID, pending[0].ID)

	byStatus, _ := repo.ListByStatus(ctx, subscription.StatusPending)
	assert.Len(t, byStatus, 2)
}

func TestSubscriptionRepository_StripeInfoMerge(t *testing.T) {
	ctx := context.Background()
	repo := NewSubscriptionRepository()
	s := subscription.New(subscription.KindTeam, 1, 2)
	require.NoError(t, repo.Create(ctx, s))
	assert.Equal(t, int64(2), s.ProductID())

	got, err := repo.Update(ctx, s.ID, subscription.Patch{Stripe: &subscription.StripeInfo{PaymentIntentID: "pi_1"}})
	require.NoError(t, err)
	assert.Equal(t, "pi_1", *got.StripePaymentIntentID)

	end := time.Now()
	canceled := subscription.StatusCanceled
	got, err = repo.Update(ctx, s.ID, subscription.Patch{Status: &canceled, EndDate: &end, Stripe: &subscription.StripeInfo{}})
	require.NoError(t, err)
	assert.Equal(t, "pi_1", *got.StripePaymentIntentID)
	assert.Equal(t, subscription.StatusCanceled, got.Status)
	require.NotNil(t, got.EndDate)
}

func TestWorkflowRepository_Defaults(t *testing.T) {
	ctx := context.Background()
	repo := NewWorkflowRepository()

	req := &workflow.Request{UserID: 1, Name: "Onboarding", Description: "Automate my onboarding flow", Complexity: "basic"}
	require.NoError(t, repo.Create(ctx, req))
	assert.Equal(t, workflow.StatusPending, req.Status)
	assert.Equal(t, "5", req.Priority)
	assert.Nil(t, req.Integrations)
	assert.Nil(t, req.TeamID)

	got, err := repo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, req, got)
}

func TestConcurrentCreatesAssignDistinctIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewWorkflowRepository()

	const n = 50
	var wg sync.WaitGroup
	ids := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := &workflow.Request{UserID: 1, Name: "req", Description: "0123456789", Complexity: "basic"}
			_ = repo.Create(ctx, req)
			ids <- req.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}
