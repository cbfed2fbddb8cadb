// Package payment is the boundary to the external payment provider.
package payment

import "context"

// Intent statuses the lifecycle cares about
const (
	IntentSucceeded             = "succeeded"
	IntentRequiresPaymentMethod = "requires_payment_method"
)

// Intent is a payment intent as seen by the marketplace
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       int64
	Currency     string
	Metadata     map[string]string
}

// Succeeded reports whether the provider settled the intent
func (i *Intent) Succeeded() bool {
	return i.Status == IntentSucceeded
}

// IntentParams describes a payment intent to create
type IntentParams struct {
	Amount         int64
	Currency       string
	Metadata       map[string]string
	IdempotencyKey string
}

// CustomerParams describes a customer to create
type CustomerParams struct {
	Name     string
	Email    string
	Metadata map[string]string
}

// Customer is a provider customer record
type Customer struct {
	ID string
}

// Gateway is the capability surface the subscription lifecycle consumes
type Gateway interface {
	CreatePaymentIntent(ctx context.Context, params IntentParams) (*Intent, error)
	RetrievePaymentIntent(ctx context.Context, id string) (*Intent, error)
	CreateCustomer(ctx context.Context, params CustomerParams) (*Customer, error)
	CancelSubscription(ctx context.Context, subscriptionID string) error
}
