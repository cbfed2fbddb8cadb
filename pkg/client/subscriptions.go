package client

import (
	"context"
	"fmt"
)

// Subscription kinds
const (
	KindAgent = "agent"
	KindTeam  = "team"
)

// SubscriptionService drives checkout, completion and cancellation
type SubscriptionService struct {
	client *Client
}

func lifecyclePrefix(kind string) (string, error) {
	switch kind {
	case KindAgent:
		return "/api/subscriptions", nil
	case KindTeam:
		return "/api/team-subscriptions", nil
	}
	return "", fmt.Errorf("unknown subscription kind %q", kind)
}

// Checkout creates a payment intent and a pending subscription for an agent or team
func (s *SubscriptionService) Checkout(ctx context.Context, kind string, productID int64) (*Checkout, error) {
	var path string
	switch kind {
	case KindAgent:
		path = fmt.Sprintf("/api/agents/%d/payment-intents", productID)
	case KindTeam:
		path = fmt.Sprintf("/api/agent-teams/%d/payment-intents", productID)
	default:
		return nil, fmt.Errorf("unknown subscription kind %q", kind)
	}

	var checkout Checkout
	if err := s.client.doRequest(ctx, "POST", path, nil, &checkout); err != nil {
		return nil, err
	}
	return &checkout, nil
}

// Complete activates a pending subscription once its payment intent succeeded
func (s *SubscriptionService) Complete(ctx context.Context, kind string, id int64, paymentIntentID string) (*Subscription, error) {
	prefix, err := lifecyclePrefix(kind)
	if err != nil {
		return nil, err
	}
	body := map[string]string{"paymentIntentId": paymentIntentID}

	var sub Subscription
	if err := s.client.doRequest(ctx, "POST", fmt.Sprintf("%s/%d/complete", prefix, id), body, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Cancel ends a subscription
func (s *SubscriptionService) Cancel(ctx context.Context, kind string, id int64) (*Subscription, error) {
	prefix, err := lifecyclePrefix(kind)
	if err != nil {
		return nil, err
	}

	var sub Subscription
	if err := s.client.doRequest(ctx, "POST", fmt.Sprintf("%s/%d/cancel", prefix, id), nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// List retrieves the current user's subscriptions of kind
func (s *SubscriptionService) List(ctx context.Context, kind string) ([]Subscription, error) {
	var path string
	switch kind {
	case KindAgent:
		path = "/api/user/subscriptions"
	case KindTeam:
		path = "/api/user/team-subscriptions"
	default:
		return nil, fmt.Errorf("unknown subscription kind %q", kind)
	}

	var subs []Subscription
	if err := s.client.doRequest(ctx, "GET", path, nil, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}
