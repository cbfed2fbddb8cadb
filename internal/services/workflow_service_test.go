package services

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratik-mahalle/processimo/internal/domain/workflow"
	"github.com/pratik-mahalle/processimo/internal/notify"
	"github.com/pratik-mahalle/processimo/internal/pkg/errors"
	"github.com/pratik-mahalle/processimo/internal/pkg/validator"
	"github.com/pratik-mahalle/processimo/internal/testutil"
)

func newWorkflowService(t *testing.T) (*testutil.Fixture, workflow.Service) {
	t.Helper()
	fx := testutil.NewFixture(t)
	return fx, NewWorkflowService(fx.Store.WorkflowRequests, fx.Store.Teams, validator.New(), nil, testutil.NewTestLogger())
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }

func TestWorkflowService_Submit(t *testing.T) {
	fx, svc := newWorkflowService(t)
	ctx := context.Background()

	valid := workflow.SubmitInput{
		Name:        "Invoice triage",
		Description: "Route incoming invoices to the right approver",
		Complexity:  workflow.ComplexityAdvanced,
	}

	tests := []struct {
		name     string
		mutate   func(in *workflow.SubmitInput)
		wantCode string
		priority string
	}{
		{name: "defaults priority", mutate: func(in *workflow.SubmitInput) {}, priority: "5"},
		{name: "explicit priority", mutate: func(in *workflow.SubmitInput) { in.Priority = intPtr(1) }, priority: "1"},
		{name: "with team", mutate: func(in *workflow.SubmitInput) { in.TeamID = int64Ptr(fx.Team.ID) }, priority: "5"},
		{name: "blank name", mutate: func(in *workflow.SubmitInput) { in.Name = "   " }, wantCode: errors.ErrCodeValidation},
		{name: "short description", mutate: func(in *workflow.SubmitInput) { in.Description = "too short" }, wantCode: errors.ErrCodeValidation},
		{name: "unknown complexity", mutate: func(in *workflow.SubmitInput) { in.Complexity = "galactic" }, wantCode: errors.ErrCodeValidation},
		{name: "priority out of range", mutate: func(in *workflow.SubmitInput) { in.Priority = intPtr(11) }, wantCode: errors.ErrCodeValidation},
		{name: "unknown team", mutate: func(in *workflow.SubmitInput) { in.TeamID = int64Ptr(88) }, wantCode: errors.ErrCodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			req, err := svc.Submit(ctx, fx.User.ID, in)
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Errorf("Submit() error = %v, want code %s", err, tt.wantCode)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, workflow.StatusPending, req.Status)
			assert.Equal(t, tt.priority, req.Priority)
			assert.Equal(t, fx.User.ID, req.UserID)
		})
	}
}

func TestWorkflowService_SubmitTrimsIntegrations(t *testing.T) {
	fx, svc := newWorkflowService(t)

	req, err := svc.Submit(context.Background(), fx.User.ID, workflow.SubmitInput{
		Name:         "  CRM sync  ",
		Description:  "Keep the CRM in sync with support tickets",
		Complexity:   workflow.ComplexityBasic,
		Integrations: strPtr("   "),
	})
	require.NoError(t, err)
	assert.Equal(t, "CRM sync", req.Name)
	assert.Nil(t, req.Integrations)
}

func TestWorkflowService_SetStatus(t *testing.T) {
	fx, svc := newWorkflowService(t)
	ctx := context.Background()

	req, err := svc.Submit(ctx, fx.User.ID, workflow.SubmitInput{
		Name:        "Lead scoring",
		Description: "Score inbound leads from the website form",
		Complexity:  workflow.ComplexityEnterprise,
	})
	require.NoError(t, err)

	updated, err := svc.SetStatus(ctx, req.ID, workflow.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusApproved, updated.Status)

	// same status again is accepted
	again, err := svc.SetStatus(ctx, req.ID, workflow.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusApproved, again.Status)

	// any transition is allowed for admins
	back, err := svc.SetStatus(ctx, req.ID, workflow.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusPending, back.Status)

	_, err = svc.SetStatus(ctx, req.ID, workflow.Status("archived"))
	assert.True(t, errors.Is(err, errors.ErrCodeBadRequest), "got %v", err)

	_, err = svc.SetStatus(ctx, 999, workflow.StatusRejected)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound), "got %v", err)
}

func TestWorkflowService_ListPaginates(t *testing.T) {
	fx, svc := newWorkflowService(t)
	ctx := context.Background()

	for _, uid := range []int64{fx.User.ID, fx.Other.ID, fx.User.ID} {
		_, err := svc.Submit(ctx, uid, workflow.SubmitInput{
			Name:        "Report builder",
			Description: "Build the weekly report from sales data",
			Complexity:  workflow.ComplexityBasic,
		})
		require.NoError(t, err)
	}

	page, total, err := svc.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, page, 2)

	page, _, err = svc.List(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page, 1)

	page, _, err = svc.List(ctx, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, page)

	page, _, err = svc.List(ctx, math.MaxInt, 1)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	_, _, err = svc.List(ctx, 20, math.MinInt+20)
	assert.True(t, errors.Is(err, errors.ErrCodeBadRequest), "negative offset: %v", err)

	mine, err := svc.ListByUser(ctx, fx.User.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestWorkflowService_NotifiesOperators(t *testing.T) {
	fx := testutil.NewFixture(t)
	alerts := &testutil.RecordingNotifier{}
	svc := NewWorkflowService(fx.Store.WorkflowRequests, fx.Store.Teams, validator.New(), alerts, testutil.NewTestLogger())
	ctx := context.Background()

	req, err := svc.Submit(ctx, fx.User.ID, workflow.SubmitInput{
		Name:        "Lead scoring",
		Description: "Score inbound leads from the CRM nightly",
		Complexity:  workflow.ComplexityBasic,
	})
	require.NoError(t, err)

	submitted := alerts.Events(notify.EventWorkflowSubmitted)
	require.Len(t, submitted, 1)
	assert.Equal(t, "New workflow request: Lead scoring", submitted[0].Title)
	assert.Equal(t, req.ID, submitted[0].Data["workflowRequestId"])

	_, err = svc.SetStatus(ctx, req.ID, workflow.StatusApproved)
	require.NoError(t, err)
	assert.Len(t, alerts.Events(notify.EventWorkflowStatusChanged), 1)

	// invalid transitions do not alert
	_, err = svc.SetStatus(ctx, req.ID, workflow.Status("archived"))
	require.Error(t, err)
	assert.Len(t, alerts.Events(""), 2)
}
