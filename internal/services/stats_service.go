package services

import (
	"context"

	"github.com/pratik-mahalle/processimo/internal/domain/dashboard"
	"github.com/pratik-mahalle/processimo/internal/domain/subscription"
	"github.com/pratik-mahalle/processimo/internal/domain/workflow"
	"github.com/pratik-mahalle/processimo/internal/pkg/errors"
)

// StatsService implements dashboard.Service
type StatsService struct {
	agentSubs     subscription.Service
	teamSubs      subscription.Service
	agentProducts subscription.ProductCatalog
	teamProducts  subscription.ProductCatalog
	requests      workflow.Service
}

// NewStatsService creates a dashboard stats service
func NewStatsService(
	agentSubs, teamSubs subscription.Service,
	agentProducts, teamProducts subscription.ProductCatalog,
	requests workflow.Service,
) dashboard.Service {
	return &StatsService{
		agentSubs:     agentSubs,
		teamSubs:      teamSubs,
		agentProducts: agentProducts,
		teamProducts:  teamProducts,
		requests:      requests,
	}
}

// Stats summarises the user's subscriptions and requests
func (s *StatsService) Stats(ctx context.Context, userID int64) (*dashboard.Stats, error) {
	stats := &dashboard.Stats{
		WorkflowRequests: map[string]int{
			string(workflow.StatusPending):   0,
			string(workflow.StatusApproved):  0,
			string(workflow.StatusRejected):  0,
			string(workflow.StatusCompleted): 0,
		},
		Subscription: dashboard.PlanFree,
	}

	agentActive, agentPending, agentSpend, err := s.tally(ctx, s.agentSubs, s.agentProducts, userID)
	if err != nil {
		return nil, err
	}
	teamActive, teamPending, teamSpend, err := s.tally(ctx, s.teamSubs, s.teamProducts, userID)
	if err != nil {
		return nil, err
	}
	stats.ActiveAgents = agentActive
	stats.ActiveTeams = teamActive
	stats.PendingPayments = agentPending + teamPending
	stats.MonthlySpend = agentSpend + teamSpend
	if agentActive+teamActive > 0 {
		stats.Subscription = dashboard.PlanPayAsYouGo
	}

	reqs, err := s.requests.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, r := range reqs {
		stats.WorkflowRequests[string(r.Status)]++
	}

	return stats, nil
}

func (s *StatsService) tally(ctx context.Context, subs subscription.Service, products subscription.ProductCatalog, userID int64) (active, pending int, spend int64, err error) {
	list, err := subs.ListByUser(ctx, userID)
	if err != nil {
		return 0, 0, 0, err
	}
	for _, sub := range list {
		switch sub.Status {
		case subscription.StatusPending:
			pending++
		case subscription.StatusActive:
			active++
			p, perr := products.Product(ctx, sub.ProductID())
			if perr != nil {
				if errors.Is(perr, errors.ErrCodeNotFound) {
					continue
				}
				return 0, 0, 0, perr
			}
			spend += p.Price
		}
	}
	return active, pending, spend, nil
}
