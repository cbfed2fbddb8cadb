package payment

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"github.com/pratik-mahalle/processimo/internal/config"
	"github.com/pratik-mahalle/processimo/internal/pkg/logger"
	"github.com/pratik-mahalle/processimo/internal/pkg/metrics"
)

// StripeGateway implements Gateway on the Stripe API
type StripeGateway struct {
	api     *client.API
	timeout time.Duration
	logger  *logger.Logger
}

// NewStripeGateway builds a Stripe client whose HTTP calls are bounded by cfg.Timeout
func NewStripeGateway(cfg config.StripeConfig, log *logger.Logger) *StripeGateway {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	retries := int64(1)
	backend := func(t stripe.SupportedBackend) stripe.Backend {
		return stripe.GetBackendWithConfig(t, &stripe.BackendConfig{
			HTTPClient:        httpClient,
			MaxNetworkRetries: &retries,
		})
	}

	api := client.New(cfg.SecretKey, &stripe.Backends{
		API:     backend(stripe.APIBackend),
		Connect: backend(stripe.ConnectBackend),
		Uploads: backend(stripe.UploadsBackend),
	})

	return &StripeGateway{
		api:     api,
		timeout: cfg.Timeout,
		logger:  log.With("component", "stripe"),
	}
}

func (g *StripeGateway) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, g.timeout)
}

// CreatePaymentIntent creates a card payment intent
func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, p IntentParams) (*Intent, error) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(p.Amount),
		Currency: stripe.String(p.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}
	if p.IdempotencyKey != "" {
		params.SetIdempotencyKey(p.IdempotencyKey)
	}

	start := time.Now()
	pi, err := g.api.PaymentIntents.New(params)
	metrics.RecordPaymentCall("create_payment_intent", err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	g.logger.WithFields(map[string]interface{}{
		"payment_intent_id": pi.ID,
		"amount":            p.Amount,
	}).Info("Payment intent created")

	return toIntent(pi), nil
}

// RetrievePaymentIntent fetches the current state of an intent
func (g *StripeGateway) RetrievePaymentIntent(ctx context.Context, id string) (*Intent, error) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	start := time.Now()
	pi, err := g.api.PaymentIntents.Get(id, params)
	metrics.RecordPaymentCall("retrieve_payment_intent", err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("retrieve payment intent %s: %w", id, err)
	}
	return toIntent(pi), nil
}

// CreateCustomer creates a Stripe customer
func (g *StripeGateway) CreateCustomer(ctx context.Context, p CustomerParams) (*Customer, error) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	params := &stripe.CustomerParams{
		Name:  stripe.String(p.Name),
		Email: stripe.String(p.Email),
	}
	params.Context = ctx
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	start := time.Now()
	c, err := g.api.Customers.New(params)
	metrics.RecordPaymentCall("create_customer", err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return &Customer{ID: c.ID}, nil
}

// CancelSubscription cancels a Stripe subscription immediately
func (g *StripeGateway) CancelSubscription(ctx context.Context, subscriptionID string) error {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	params := &stripe.SubscriptionCancelParams{}
	params.Context = ctx

	start := time.Now()
	_, err := g.api.Subscriptions.Cancel(subscriptionID, params)
	metrics.RecordPaymentCall("cancel_subscription", err, time.Since(start))
	if err != nil {
		return fmt.Errorf("cancel subscription %s: %w", subscriptionID, err)
	}
	return nil
}

func toIntent(pi *stripe.PaymentIntent) *Intent {
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Metadata:     pi.Metadata,
	}
}
