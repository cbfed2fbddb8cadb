package services

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratik-mahalle/processimo/internal/domain/subscription"
	"github.com/pratik-mahalle/processimo/internal/lock"
	"github.com/pratik-mahalle/processimo/internal/notify"
	"github.com/pratik-mahalle/processimo/internal/payment"
	"github.com/pratik-mahalle/processimo/internal/pkg/errors"
	"github.com/pratik-mahalle/processimo/internal/testutil"
)

type subscriptionHarness struct {
	fx      *testutil.Fixture
	gateway *testutil.MockGateway
	alerts  *testutil.RecordingNotifier
	agents  *SubscriptionService
	teams   *SubscriptionService
}

func newSubscriptionHarness(t *testing.T) *subscriptionHarness {
	t.Helper()
	fx := testutil.NewFixture(t)
	log := testutil.NewTestLogger()
	gw := testutil.NewMockGateway()
	locker := lock.NewKeyedMutex()
	users := NewUserService(fx.Store.Users, 4, log)
	alerts := &testutil.RecordingNotifier{}

	agentCatalog := NewAgentService(fx.Store.Agents, fx.Store.Teams, fx.Store.AgentSubscriptions, log)
	teamCatalog := NewTeamService(fx.Store.Teams, fx.Store.Agents, fx.Store.TeamSubscriptions, log)

	return &subscriptionHarness{
		fx:      fx,
		gateway: gw,
		alerts:  alerts,
		agents: NewSubscriptionService(subscription.KindAgent, SubscriptionDeps{
			Repo:     fx.Store.AgentSubscriptions,
			Products: agentCatalog,
			Users:    users,
			Gateway:  gw,
			Locker:   locker,
			Notifier: alerts,
		}, log),
		teams: NewSubscriptionService(subscription.KindTeam, SubscriptionDeps{
			Repo:     fx.Store.TeamSubscriptions,
			Products: teamCatalog,
			Users:    users,
			Gateway:  gw,
			Locker:   locker,
		}, log),
	}
}

func TestSubscriptionService_InitiateCreatesPendingAtProductPrice(t *testing.T) {
	h := newSubscriptionHarness(t)
	ctx := context.Background()

	checkout, err := h.agents.Initiate(ctx, h.fx.User.ID, h.fx.Agent.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, checkout.ClientSecret)

	assert.Equal(t, int64(999), h.gateway.LastIntentParams.Amount)
	assert.Equal(t, "usd", h.gateway.LastIntentParams.Currency)
	assert.Equal(t, "Email Assistant", h.gateway.LastIntentParams.Metadata["productName"])
	assert.Equal(t, "agent", h.gateway.LastIntentParams.Metadata["subscriptionOf"])
	assert.NotEmpty(t, h.gateway.LastIntentParams.IdempotencyKey)

	sub, err := h.fx.Store.AgentSubscriptions.GetByID(ctx, checkout.SubscriptionID)
	require.NoError(t, err)
	assert.Equal(t, subscription.StatusPending, sub.Status)
	assert.Equal(t, h.fx.Agent.ID, sub.ProductID())
	require.NotNil(t, sub.StripePaymentIntentID)
}

func TestSubscriptionService_InitiateUnknownProduct(t *testing.T) {
	h := newSubscriptionHarness(t)

	_, err := h.agents.Initiate(context.Background(), h.fx.User.ID, 4242)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound), "got %v", err)
	assert.Equal(t, 0, h.gateway.CreateIntentCalls)
}

func TestSubscriptionService_InitiateProviderFailure(t *testing.T) {
	h := newSubscriptionHarness(t)
	h.gateway.CreateIntentError = stderrors.New("card network down")
	ctx := context.Background()

	_, err := h.agents.Initiate(ctx, h.fx.User.ID, h.fx.Agent.ID)
	assert.True(t, errors.Is(err, errors.ErrCodeProviderAPI), "got %v", err)

	subs, err := h.agents.ListByUser(ctx, h.fx.User.ID)
	require.NoError(t, err)
	assert.Empty(t, subs, "no record is stored when the intent fails")
}

func TestSubscriptionService_CompleteActivates(t *testing.T) {
	h := newSubscriptionHarness(t)
	ctx := context.Background()

	checkout, err := h.agents.Initiate(ctx, h.fx.User.ID, h.fx.Agent.ID)
	require.NoError(t, err)
	intentID := h.gateway.LastIntentID()

	sub, err := h.agents.Complete(ctx, h.fx.User.ID, checkout.SubscriptionID, intentID)
	require.NoError(t, err)
	assert.Equal(t, subscription.StatusActive, sub.Status)
	assert.Equal(t, intentID, *sub.StripePaymentIntentID)

	u, err := h.fx.Store.Users.GetByID(ctx, h.fx.User.ID)
	require.NoError(t, err)
	require.NotNil(t, u.StripeCustomerID)
	assert.Equal(t, 1, h.gateway.CreateCustomerCalls)
	assert.Len(t, h.alerts.Events(notify.EventSubscriptionActivated), 1)

	// completing again is a no-op
	again, err := h.agents.Complete(ctx, h.fx.User.ID, checkout.SubscriptionID, intentID)
	require.NoError(t, err)
	assert.Equal(t, subscription.StatusActive, again.Status)
	assert.Equal(t, 1, h.gateway.CreateCustomerCalls)
}

func TestSubscriptionService_CompleteUnpaidIntentStaysPending(t *testing.T) {
	h := newSubscriptionHarness(t)
	h.gateway.IntentStatus = payment.IntentRequiresPaymentMethod
	ctx := context.Background()

	checkout, err := h.agents.Initiate(ctx, h.fx.User.ID, h.fx.Agent.ID)
	require.NoError(t, err)

	_, err = h.agents.Complete(ctx, h.fx.User.ID, checkout.SubscriptionID, h.gateway.LastIntentID())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodePaymentNotCompleted), "got %v", err)

	sub, err := h.fx.Store.AgentSubscriptions.GetByID(ctx, checkout.SubscriptionID)
	require.NoError(t, err)
	assert.Equal(t, subscription.StatusPending, sub.Status)
	assert.Nil(t, sub.EndDate)
}

func TestSubscriptionService_CompleteValidation(t *testing.T) {
	h := newSubscriptionHarness(t)
	ctx := context.Background()

	checkout, err := h.agents.Initiate(ctx, h.fx.User.ID, h.fx.Agent.ID)
	require.NoError(t, err)
	intentID := h.gateway.LastIntentID()

	tests := []struct {
		name     string
		userID   int64
		id       int64
		intentID string
		code     string
	}{
		{"missing intent", h.fx.User.ID, checkout.SubscriptionID, "", errors.ErrCodeBadRequest},
		{"someone else's subscription", h.fx.Other.ID, checkout.SubscriptionID, intentID, errors.ErrCodeNotFound},
		{"unknown subscription", h.fx.User.ID, 999, intentID, errors.ErrCodeNotFound},
		{"intent of another checkout", h.fx.User.ID, checkout.SubscriptionID, "pi_other", errors.ErrCodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.agents.Complete(ctx, tt.userID, tt.id, tt.intentID)
			if !errors.Is(err, tt.code) {
				t.Errorf("Complete() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestSubscriptionService_InitiateWhileActiveConflicts(t *testing.T) {
	h := newSubscriptionHarness(t)
	ctx := context.Background()

	checkout, err := h.agents.Initiate(ctx, h.fx.User.ID, h.fx.Agent.ID)
	require.NoError(t, err)
	_, err = h.agents.Complete(ctx, h.fx.User.ID, checkout.SubscriptionID, h.gateway.LastIntentID())
	require.NoError(t, err)

	_, err = h.agents.Initiate(ctx, h.fx.User.ID, h.fx.Agent.ID)
	assert.True(t, errors.Is(err, errors.ErrCodeConflict), "got %v", err)

	// another user is unaffected
	_, err = h.agents.Initiate(ctx, h.fx.Other.ID, h.fx.Agent.ID)
	assert.NoError(t, err)
}

func TestSubscriptionService_ConcurrentCheckoutsActivateOnce(t *testing.T) {
	h := newSubscriptionHarness(t)
	ctx := context.Background()

	const n = 8
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := h.agents.Initiate(ctx, h.fx.User.ID, h.fx.Agent.ID)
			if err == nil {
				ids <- c.SubscriptionID
			}
		}()
	}
	wg.Wait()
	close(ids)

	var pending []*subscription.Subscription
	for id := range ids {
		sub, err := h.fx.Store.AgentSubscriptions.GetByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, sub.StripePaymentIntentID)
		pending = append(pending, sub)
	}
	require.Len(t, pending, n, "every checkout started before activation should succeed")

	for _, sub := range pending {
		wg.Add(1)
		go func(sub *subscription.Subscription) {
			defer wg.Done()
			_, _ = h.agents.Complete(ctx, h.fx.User.ID, sub.ID, *sub.StripePaymentIntentID)
		}(sub)
	}
	wg.Wait()

	active, err := h.fx.Store.AgentSubscriptions.ListByPair(ctx, h.fx.User.ID, h.fx.Agent.ID, subscription.StatusActive)
	require.NoError(t, err)
	assert.Len(t, active, 1)
	assert.Len(t, h.alerts.Events(notify.EventSubscriptionActivated), 1)
	assert.Len(t, h.alerts.Events(notify.EventPaidNotActivated), n-1)
}

func TestSubscriptionService_SecondPaidCheckoutAlertsOperators(t *testing.T) {
	h := newSubscriptionHarness(t)
	ctx := context.Background()

	first, err := h.agents.Initiate(ctx, h.fx.User.ID, h.fx.Agent.ID)
	require.NoError(t, err)
	firstIntent := h.gateway.LastIntentID()
	second, err := h.agents.Initiate(ctx, h.fx.User.ID, h.fx.Agent.ID)
	require.NoError(t, err)
	secondIntent := h.gateway.LastIntentID()

	_, err = h.agents.Complete(ctx, h.fx.User.ID, first.SubscriptionID, firstIntent)
	require.NoError(t, err)

	_, err = h.agents.Complete(ctx, h.fx.User.ID, second.SubscriptionID, secondIntent)
	assert.True(t, errors.Is(err, errors.ErrCodeConflict), "got %v", err)

	stuck, err := h.fx.Store.AgentSubscriptions.GetByID(ctx, second.SubscriptionID)
	require.NoError(t, err)
	assert.Equal(t, subscription.StatusPending, stuck.Status)

	events := h.alerts.Events(notify.EventPaidNotActivated)
	require.Len(t, events, 1)
	assert.Equal(t, notify.PriorityHigh, events[0].Priority)
	assert.Equal(t, second.SubscriptionID, events[0].Data["subscriptionId"])
	assert.Equal(t, first.SubscriptionID, events[0].Data["activeSubscriptionId"])
	assert.Equal(t, secondIntent, events[0].Data["paymentIntentId"])
}

func TestSubscriptionService_CancelWithoutProviderSubscription(t *testing.T) {
	h := newSubscriptionHarness(t)
	ctx := context.Background()

	checkout, err := h.teams.Initiate(ctx, h.fx.User.ID, h.fx.Team.ID)
	require.NoError(t, err)
	_, err = h.teams.Complete(ctx, h.fx.User.ID, checkout.SubscriptionID, h.gateway.LastIntentID())
	require.NoError(t, err)

	canceled, err := h.teams.Cancel(ctx, h.fx.User.ID, checkout.SubscriptionID)
	require.NoError(t, err)
	assert.Equal(t, subscription.StatusCanceled, canceled.Status)
	require.NotNil(t, canceled.EndDate)
	assert.Empty(t, h.gateway.CancelCalls)

	// cancel is idempotent and keeps the first end date
	again, err := h.teams.Cancel(ctx, h.fx.User.ID, checkout.SubscriptionID)
	require.NoError(t, err)
	assert.Equal(t, subscription.StatusCanceled, again.Status)
	assert.True(t, canceled.EndDate.Equal(*again.EndDate))

	// a canceled subscription cannot be completed
	_, err = h.teams.Complete(ctx, h.fx.User.ID, checkout.SubscriptionID, h.gateway.LastIntentID())
	assert.True(t, errors.Is(err, errors.ErrCodeConflict), "got %v", err)
}

func TestSubscriptionService_CancelOtherUser(t *testing.T) {
	h := newSubscriptionHarness(t)
	ctx := context.Background()

	checkout, err := h.agents.Initiate(ctx, h.fx.User.ID, h.fx.Agent.ID)
	require.NoError(t, err)

	_, err = h.agents.Cancel(ctx, h.fx.Other.ID, checkout.SubscriptionID)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound), "got %v", err)
}

func TestSubscriptionService_RemoteCancelFailureLeavesCanceling(t *testing.T) {
	h := newSubscriptionHarness(t)
	ctx := context.Background()

	checkout, err := h.agents.Initiate(ctx, h.fx.User.ID, h.fx.Agent.ID)
	require.NoError(t, err)
	_, err = h.agents.Complete(ctx, h.fx.User.ID, checkout.SubscriptionID, h.gateway.LastIntentID())
	require.NoError(t, err)
	_, err = h.fx.Store.AgentSubscriptions.Update(ctx, checkout.SubscriptionID, subscription.Patch{
		Stripe: &subscription.StripeInfo{SubscriptionID: "sub_remote_1"},
	})
	require.NoError(t, err)

	h.gateway.SetCancelError(stderrors.New("provider timeout"))
	_, err = h.agents.Cancel(ctx, h.fx.User.ID, checkout.SubscriptionID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeProviderAPI), "got %v", err)

	sub, err := h.fx.Store.AgentSubscriptions.GetByID(ctx, checkout.SubscriptionID)
	require.NoError(t, err)
	assert.Equal(t, subscription.StatusCanceling, sub.Status)
	assert.Nil(t, sub.EndDate)

	alerts := h.alerts.Events(notify.EventCancelFailed)
	require.Len(t, alerts, 1)
	assert.Equal(t, notify.PriorityHigh, alerts[0].Priority)
	assert.Equal(t, checkout.SubscriptionID, alerts[0].Data["subscriptionId"])

	// still holds the product
	_, err = h.agents.Initiate(ctx, h.fx.User.ID, h.fx.Agent.ID)
	assert.True(t, errors.Is(err, errors.ErrCodeConflict), "got %v", err)

	report, err := h.agents.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Checked)
	assert.Equal(t, []int64{checkout.SubscriptionID}, report.Failed)

	h.gateway.SetCancelError(nil)
	report, err = h.agents.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{checkout.SubscriptionID}, report.Canceled)
	assert.Empty(t, report.Failed)

	sub, err = h.fx.Store.AgentSubscriptions.GetByID(ctx, checkout.SubscriptionID)
	require.NoError(t, err)
	assert.Equal(t, subscription.StatusCanceled, sub.Status)
	assert.NotNil(t, sub.EndDate)
	assert.Equal(t, []string{"sub_remote_1", "sub_remote_1", "sub_remote_1"}, h.gateway.CancelCalls)
}

func TestSubscriptionService_KindsAreSeparate(t *testing.T) {
	h := newSubscriptionHarness(t)
	ctx := context.Background()

	a, err := h.agents.Initiate(ctx, h.fx.User.ID, h.fx.Agent.ID)
	require.NoError(t, err)
	tm, err := h.teams.Initiate(ctx, h.fx.User.ID, h.fx.Team.ID)
	require.NoError(t, err)

	// both sequences start at 1
	assert.Equal(t, int64(1), a.SubscriptionID)
	assert.Equal(t, int64(1), tm.SubscriptionID)
	assert.Equal(t, int64(9999), h.gateway.LastIntentParams.Amount)
	assert.Equal(t, "team", h.gateway.LastIntentParams.Metadata["subscriptionOf"])

	agentSubs, err := h.agents.ListByUser(ctx, h.fx.User.ID)
	require.NoError(t, err)
	require.Len(t, agentSubs, 1)
	assert.Equal(t, subscription.KindAgent, agentSubs[0].Kind)
}

func TestSubscriptionService_CustomerFailureDoesNotBlockActivation(t *testing.T) {
	h := newSubscriptionHarness(t)
	h.gateway.CreateCustomerError = stderrors.New("customer api down")
	ctx := context.Background()

	checkout, err := h.agents.Initiate(ctx, h.fx.User.ID, h.fx.Agent.ID)
	require.NoError(t, err)

	sub, err := h.agents.Complete(ctx, h.fx.User.ID, checkout.SubscriptionID, h.gateway.LastIntentID())
	require.NoError(t, err)
	assert.Equal(t, subscription.StatusActive, sub.Status)

	u, err := h.fx.Store.Users.GetByID(ctx, h.fx.User.ID)
	require.NoError(t, err)
	assert.Nil(t, u.StripeCustomerID)
}
