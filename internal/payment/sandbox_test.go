package payment

import (
	"context"
	"testing"
)

func TestSandbox_IntentLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewSandbox()

	in, err := s.CreatePaymentIntent(ctx, IntentParams{Amount: 999, Currency: "usd", Metadata: map[string]string{"agentId": "3"}})
	if err != nil {
		t.Fatalf("CreatePaymentIntent() error = %v", err)
	}
	if in.ClientSecret == "" {
		t.Error("expected client secret")
	}

	got, err := s.RetrievePaymentIntent(ctx, in.ID)
	if err != nil {
		t.Fatalf("RetrievePaymentIntent() error = %v", err)
	}
	if !got.Succeeded() {
		t.Errorf("status = %q, want succeeded", got.Status)
	}

	s.MarkIntent(in.ID, IntentRequiresPaymentMethod)
	got, _ = s.RetrievePaymentIntent(ctx, in.ID)
	if got.Succeeded() {
		t.Error("expected intent to no longer be succeeded")
	}

	if _, err := s.RetrievePaymentIntent(ctx, "pi_missing"); err == nil {
		t.Error("expected error for unknown intent")
	}
}
