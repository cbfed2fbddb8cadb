package subscription

import "context"

// Repository stores subscriptions of a single Kind. Agent and team
// subscriptions live in separate repositories with separate id sequences.
type Repository interface {
	Create(ctx context.Context, sub *Subscription) error
	GetByID(ctx context.Context, id int64) (*Subscription, error)

	// ListByUser returns the user's subscriptions in insertion order
	ListByUser(ctx context.Context, userID int64) ([]*Subscription, error)

	// ListByPair returns the user's subscriptions to productID whose status is in statuses.
	// No statuses means any status.
	ListByPair(ctx context.Context, userID, productID int64, statuses ...Status) ([]*Subscription, error)

	// ListByProduct returns subscriptions to productID whose status is in statuses
	ListByProduct(ctx context.Context, productID int64, statuses ...Status) ([]*Subscription, error)

	ListByStatus(ctx context.Context, status Status) ([]*Subscription, error)

	Update(ctx context.Context, id int64, patch Patch) (*Subscription, error)
}
