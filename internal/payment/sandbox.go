package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Sandbox is an in-process Gateway for local development with payments
// disabled. Intents settle immediately unless MarkIntent says otherwise.
type Sandbox struct {
	mu      sync.Mutex
	intents map[string]*Intent
}

// NewSandbox creates an empty sandbox gateway
func NewSandbox() *Sandbox {
	return &Sandbox{intents: make(map[string]*Intent)}
}

// CreatePaymentIntent records a succeeded intent
func (s *Sandbox) CreatePaymentIntent(ctx context.Context, p IntentParams) (*Intent, error) {
	id := "pi_sandbox_" + uuid.NewString()
	in := &Intent{
		ID:           id,
		ClientSecret: id + "_secret_" + uuid.NewString()[:8],
		Status:       IntentSucceeded,
		Amount:       p.Amount,
		Currency:     p.Currency,
		Metadata:     p.Metadata,
	}

	s.mu.Lock()
	s.intents[id] = in
	s.mu.Unlock()

	c := *in
	return &c, nil
}

// RetrievePaymentIntent returns a recorded intent
func (s *Sandbox) RetrievePaymentIntent(ctx context.Context, id string) (*Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in, ok := s.intents[id]
	if !ok {
		return nil, fmt.Errorf("no such payment intent: %s", id)
	}
	c := *in
	return &c, nil
}

// MarkIntent overrides the status of a recorded intent
func (s *Sandbox) MarkIntent(id, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if in, ok := s.intents[id]; ok {
		in.Status = status
	}
}

// CreateCustomer returns a fresh customer id
func (s *Sandbox) CreateCustomer(ctx context.Context, p CustomerParams) (*Customer, error) {
	return &Customer{ID: "cus_sandbox_" + uuid.NewString()}, nil
}

// CancelSubscription always succeeds
func (s *Sandbox) CancelSubscription(ctx context.Context, subscriptionID string) error {
	return nil
}
