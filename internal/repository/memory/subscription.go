package memory

import (
	"context"

	"github.com/pratik-mahalle/processimo/internal/domain/subscription"
	"github.com/pratik-mahalle/processimo/internal/pkg/errors"
)

// SubscriptionRepository implements subscription.Repository for one kind
type SubscriptionRepository struct {
	subs *collection[subscription.Subscription]
}

// NewSubscriptionRepository creates an empty subscription repository
func NewSubscriptionRepository() *SubscriptionRepository {
	return &SubscriptionRepository{subs: newCollection((*subscription.Subscription).Clone)}
}

// Create stores s, defaulting status to pending and start date to now
func (r *SubscriptionRepository) Create(ctx context.Context, s *subscription.Subscription) error {
	if s.Status == "" {
		s.Status = subscription.StatusPending
	}
	r.subs.insert(s, func(v *subscription.Subscription, id int64) {
		ts := now()
		v.ID = id
		v.CreatedAt = ts
		if v.StartDate.IsZero() {
			v.StartDate = ts
		}
	})
	return nil
}

// GetByID retrieves a subscription by ID
func (r *SubscriptionRepository) GetByID(ctx context.Context, id int64) (*subscription.Subscription, error) {
	s, ok := r.subs.get(id)
	if !ok {
		return nil, errors.NotFound("Subscription")
	}
	return s, nil
}

// ListByUser returns the user's subscriptions
func (r *SubscriptionRepository) ListByUser(ctx context.Context, userID int64) ([]*subscription.Subscription, error) {
	return r.subs.filter(func(s *subscription.Subscription) bool {
		return s.UserID == userID
	}), nil
}

// ListByPair returns the user's subscriptions to productID with one of statuses
func (r *SubscriptionRepository) ListByPair(ctx context.Context, userID, productID int64, statuses ...subscription.Status) ([]*subscription.Subscription, error) {
	return r.subs.filter(func(s *subscription.Subscription) bool {
		return s.UserID == userID && s.ProductID() == productID && statusIn(s.Status, statuses)
	}), nil
}

// ListByProduct returns subscriptions to productID with one of statuses
func (r *SubscriptionRepository) ListByProduct(ctx context.Context, productID int64, statuses ...subscription.Status) ([]*subscription.Subscription, error) {
	return r.subs.filter(func(s *subscription.Subscription) bool {
		return s.ProductID() == productID && statusIn(s.Status, statuses)
	}), nil
}

// ListByStatus returns subscriptions in status
func (r *SubscriptionRepository) ListByStatus(ctx context.Context, status subscription.Status) ([]*subscription.Subscription, error) {
	return r.subs.filter(func(s *subscription.Subscription) bool {
		return s.Status == status
	}), nil
}

// Update merges patch over the stored subscription
func (r *SubscriptionRepository) Update(ctx context.Context, id int64, patch subscription.Patch) (*subscription.Subscription, error) {
	s, ok, _ := r.subs.update(id, func(v *subscription.Subscription) error {
		patch.Apply(v)
		return nil
	})
	if !ok {
		return nil, errors.NotFound("Subscription")
	}
	return s, nil
}

func statusIn(s subscription.Status, statuses []subscription.Status) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, st := range statuses {
		if s == st {
			return true
		}
	}
	return false
}
