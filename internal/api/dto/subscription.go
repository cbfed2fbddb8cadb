package dto

import "github.com/pratik-mahalle/processimo/internal/domain/subscription"

// CompleteSubscriptionRequest carries the payment intent the client confirmed
type CompleteSubscriptionRequest struct {
	PaymentIntentID string `json:"paymentIntentId" validate:"required"`
}

// ReconcileResponse is returned by the admin reconcile endpoint
type ReconcileResponse struct {
	Reports []*subscription.ReconcileReport `json:"reports"`
}

// CancelingResponse lists subscriptions waiting on remote cancellation
type CancelingResponse struct {
	Agent []*subscription.Subscription `json:"agentSubscriptions"`
	Team  []*subscription.Subscription `json:"teamSubscriptions"`
}
