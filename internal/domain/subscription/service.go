package subscription

import "context"

// Service drives the pending -> active -> canceled lifecycle for one Kind
type Service interface {
	Kind() Kind

	// Initiate creates a payment intent and a pending subscription
	Initiate(ctx context.Context, userID, productID int64) (*Checkout, error)

	// Complete activates a pending subscription once the provider confirms payment
	Complete(ctx context.Context, userID, id int64, paymentIntentID string) (*Subscription, error)

	// Cancel ends a subscription, cancelling it remotely when a provider subscription exists
	Cancel(ctx context.Context, userID, id int64) (*Subscription, error)

	ListByUser(ctx context.Context, userID int64) ([]*Subscription, error)
	ListByStatus(ctx context.Context, status Status) ([]*Subscription, error)

	// Reconcile retries remote cancellation for subscriptions left in canceling
	Reconcile(ctx context.Context) (*ReconcileReport, error)
}

// ProductCatalog resolves the product a subscription is bought for
type ProductCatalog interface {
	Product(ctx context.Context, id int64) (*Product, error)
}
