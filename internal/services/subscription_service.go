package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/pratik-mahalle/processimo/internal/domain/subscription"
	"github.com/pratik-mahalle/processimo/internal/domain/user"
	"github.com/pratik-mahalle/processimo/internal/lock"
	"github.com/pratik-mahalle/processimo/internal/notify"
	"github.com/pratik-mahalle/processimo/internal/payment"
	"github.com/pratik-mahalle/processimo/internal/pkg/errors"
	"github.com/pratik-mahalle/processimo/internal/pkg/logger"
	"github.com/pratik-mahalle/processimo/internal/pkg/metrics"
)

const providerName = "Stripe"

// SubscriptionService implements subscription.Service for one kind.
// Initiate and the activating step of Complete run inside a critical
// section keyed by (kind, user, product) so a pair never has two active
// subscriptions.
type SubscriptionService struct {
	kind     subscription.Kind
	repo     subscription.Repository
	products subscription.ProductCatalog
	users    user.Service
	gateway  payment.Gateway
	locker   lock.Locker
	currency string
	notifier notify.Notifier
	logger   *logger.Logger
}

// SubscriptionDeps are the collaborators of a SubscriptionService
type SubscriptionDeps struct {
	Repo     subscription.Repository
	Products subscription.ProductCatalog
	Users    user.Service
	Gateway  payment.Gateway
	Locker   lock.Locker
	Currency string
	// Notifier receives operator alerts; nil disables them
	Notifier notify.Notifier
}

// NewSubscriptionService creates a lifecycle manager for kind
func NewSubscriptionService(kind subscription.Kind, deps SubscriptionDeps, log *logger.Logger) *SubscriptionService {
	currency := deps.Currency
	if currency == "" {
		currency = "usd"
	}
	return &SubscriptionService{
		kind:     kind,
		repo:     deps.Repo,
		products: deps.Products,
		users:    deps.Users,
		gateway:  deps.Gateway,
		locker:   deps.Locker,
		currency: currency,
		notifier: notify.OrNop(deps.Notifier),
		logger:   log.With("subscription_kind", string(kind)),
	}
}

// Kind returns which product family this service manages
func (s *SubscriptionService) Kind() subscription.Kind {
	return s.kind
}

func (s *SubscriptionService) pairKey(userID, productID int64) string {
	return fmt.Sprintf("sub:%s:%d:%d", s.kind, userID, productID)
}

func (s *SubscriptionService) productKey() string {
	if s.kind == subscription.KindTeam {
		return "teamId"
	}
	return "agentId"
}

func (s *SubscriptionService) acquire(ctx context.Context, userID, productID int64) (func(), error) {
	release, err := s.locker.Acquire(ctx, s.pairKey(userID, productID))
	if err != nil {
		return nil, errors.ServiceUnavailable("Subscription is busy, try again").WithDetails(err.Error())
	}
	return release, nil
}

// Initiate creates a payment intent for the product price and stores a pending subscription
func (s *SubscriptionService) Initiate(ctx context.Context, userID, productID int64) (*subscription.Checkout, error) {
	product, err := s.products.Product(ctx, productID)
	if err != nil {
		return nil, err
	}

	release, err := s.acquire(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	defer release()

	held, err := s.repo.ListByPair(ctx, userID, productID, subscription.StatusActive, subscription.StatusCanceling)
	if err != nil {
		return nil, err
	}
	if len(held) > 0 {
		return nil, errors.Conflict("You already have an active subscription to this product").
			WithDetails(map[string]int64{"subscriptionId": held[0].ID})
	}

	intent, err := s.gateway.CreatePaymentIntent(ctx, payment.IntentParams{
		Amount:   product.Price,
		Currency: s.currency,
		Metadata: map[string]string{
			"userId":         strconv.FormatInt(userID, 10),
			s.productKey():   strconv.FormatInt(productID, 10),
			"productName":    product.Name,
			"subscriptionOf": string(s.kind),
		},
		IdempotencyKey: uuid.NewString(),
	})
	if err != nil {
		s.logger.WithError(err).With("user_id", userID).Error("Failed to create payment intent")
		return nil, errors.ProviderAPIError(providerName, err)
	}

	sub := subscription.New(s.kind, userID, productID)
	sub.StartDate = time.Now().UTC()
	pi := intent.ID
	sub.StripePaymentIntentID = &pi
	if err := s.repo.Create(ctx, sub); err != nil {
		s.logger.ErrorWithErr(err, "Failed to store pending subscription")
		return nil, err
	}

	metrics.RecordSubscriptionTransition(string(s.kind), string(subscription.StatusPending))
	s.logger.WithFields(map[string]interface{}{
		"subscription_id":   sub.ID,
		"user_id":           userID,
		"product_id":        productID,
		"payment_intent_id": intent.ID,
		"status":            sub.Status,
	}).Info("Subscription initiated")

	return &subscription.Checkout{ClientSecret: intent.ClientSecret, SubscriptionID: sub.ID}, nil
}

// owned loads a subscription and hides other users' records behind not found
func (s *SubscriptionService) owned(ctx context.Context, userID, id int64) (*subscription.Subscription, error) {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.UserID != userID {
		return nil, errors.NotFound("Subscription")
	}
	return sub, nil
}

// Complete activates a pending subscription after the provider confirms the payment intent.
// The provider check happens before any local change.
func (s *SubscriptionService) Complete(ctx context.Context, userID, id int64, paymentIntentID string) (*subscription.Subscription, error) {
	if paymentIntentID == "" {
		return nil, errors.InvalidArgument("paymentIntentId is required")
	}

	sub, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if sub.StripePaymentIntentID != nil && *sub.StripePaymentIntentID != paymentIntentID {
		return nil, errors.InvalidArgument("payment intent does not belong to this subscription")
	}

	switch sub.Status {
	case subscription.StatusActive:
		return sub, nil
	case subscription.StatusCanceling, subscription.StatusCanceled:
		return nil, errors.Conflict(fmt.Sprintf("Subscription is %s", sub.Status))
	}

	intent, err := s.gateway.RetrievePaymentIntent(ctx, paymentIntentID)
	if err != nil {
		s.logger.WithError(err).With("subscription_id", id).Error("Failed to retrieve payment intent")
		return nil, errors.ProviderAPIError(providerName, err)
	}
	if !intent.Succeeded() {
		s.logger.WithFields(map[string]interface{}{
			"subscription_id":   id,
			"payment_intent_id": paymentIntentID,
			"intent_status":     intent.Status,
		}).Warn("Payment not completed")
		return nil, errors.PaymentNotCompleted(intent.Status)
	}

	activated, err := s.activate(ctx, sub, paymentIntentID)
	if err != nil {
		return nil, err
	}

	s.ensureCustomer(ctx, userID)
	return activated, nil
}

func (s *SubscriptionService) activate(ctx context.Context, sub *subscription.Subscription, paymentIntentID string) (*subscription.Subscription, error) {
	release, err := s.acquire(ctx, sub.UserID, sub.ProductID())
	if err != nil {
		return nil, err
	}
	defer release()

	// re-read under the lock; a concurrent Complete or Cancel may have won
	cur, err := s.repo.GetByID(ctx, sub.ID)
	if err != nil {
		return nil, err
	}
	switch cur.Status {
	case subscription.StatusActive:
		return cur, nil
	case subscription.StatusCanceling, subscription.StatusCanceled:
		return nil, errors.Conflict(fmt.Sprintf("Subscription is %s", cur.Status))
	}

	active, err := s.repo.ListByPair(ctx, cur.UserID, cur.ProductID(), subscription.StatusActive)
	if err != nil {
		return nil, err
	}
	if len(active) > 0 {
		// the intent has already settled, so this customer paid twice
		s.logger.WithFields(map[string]interface{}{
			"subscription_id":        cur.ID,
			"active_subscription_id": active[0].ID,
			"user_id":                cur.UserID,
			"product_id":             cur.ProductID(),
			"payment_intent_id":      paymentIntentID,
			"reconcile_required":     true,
		}).Error("Payment succeeded but subscription cannot be activated")
		s.notifier.Notify(ctx, notify.Event{
			Type:     notify.EventPaidNotActivated,
			Priority: notify.PriorityHigh,
			Title:    fmt.Sprintf("Paid %s subscription %d left pending", s.kind, cur.ID),
			Message:  fmt.Sprintf("Payment %s settled while subscription %d is already active; refund or merge required", paymentIntentID, active[0].ID),
			Data: map[string]interface{}{
				"subscriptionId":       cur.ID,
				"activeSubscriptionId": active[0].ID,
				"userId":               cur.UserID,
				"paymentIntentId":      paymentIntentID,
			},
		})
		return nil, errors.Conflict("You already have an active subscription to this product").
			WithDetails(map[string]int64{"subscriptionId": active[0].ID})
	}

	if _, err := s.repo.Update(ctx, cur.ID, subscription.Patch{
		Stripe: &subscription.StripeInfo{PaymentIntentID: paymentIntentID},
	}); err != nil {
		return nil, err
	}
	status := subscription.StatusActive
	updated, err := s.repo.Update(ctx, cur.ID, subscription.Patch{Status: &status})
	if err != nil {
		return nil, err
	}

	metrics.RecordSubscriptionTransition(string(s.kind), string(status))
	s.logger.WithFields(map[string]interface{}{
		"subscription_id": updated.ID,
		"user_id":         updated.UserID,
		"product_id":      updated.ProductID(),
		"status":          updated.Status,
	}).Info("Subscription activated")

	s.notifier.Notify(ctx, notify.Event{
		Type:     notify.EventSubscriptionActivated,
		Priority: notify.PriorityLow,
		Title:    fmt.Sprintf("New %s subscription", s.kind),
		Message:  fmt.Sprintf("User %d subscribed to %s %d", updated.UserID, s.kind, updated.ProductID()),
		Data: map[string]interface{}{
			"subscriptionId": updated.ID,
			"userId":         updated.UserID,
			"productId":      updated.ProductID(),
		},
	})

	return updated, nil
}

// ensureCustomer creates a provider customer for the user when missing.
// Activation stands even when this fails.
func (s *SubscriptionService) ensureCustomer(ctx context.Context, userID int64) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.logger.WithError(err).With("user_id", userID).Warn("Could not load user for customer creation")
		return
	}
	if u.StripeCustomerID != nil && *u.StripeCustomerID != "" {
		return
	}

	customer, err := s.gateway.CreateCustomer(ctx, payment.CustomerParams{
		Name:     u.DisplayName(),
		Email:    u.Email,
		Metadata: map[string]string{"userId": strconv.FormatInt(u.ID, 10)},
	})
	if err != nil {
		s.logger.WithError(err).With("user_id", userID).Warn("Failed to create payment customer")
		return
	}
	if _, err := s.users.AttachStripeCustomer(ctx, userID, customer.ID); err != nil {
		s.logger.WithError(err).With("user_id", userID).Warn("Failed to store payment customer")
	}
}

// Cancel ends a subscription. With a provider subscription attached it is
// marked canceling first and only finalised once the remote cancel succeeds.
func (s *SubscriptionService) Cancel(ctx context.Context, userID, id int64) (*subscription.Subscription, error) {
	sub, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	release, err := s.acquire(ctx, sub.UserID, sub.ProductID())
	if err != nil {
		return nil, err
	}
	defer release()

	sub, err = s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.Status == subscription.StatusCanceled {
		return sub, nil
	}

	if sub.StripeSubscriptionID == nil || *sub.StripeSubscriptionID == "" {
		return s.finalize(ctx, sub.ID)
	}

	if sub.Status != subscription.StatusCanceling {
		canceling := subscription.StatusCanceling
		if _, err := s.repo.Update(ctx, sub.ID, subscription.Patch{Status: &canceling}); err != nil {
			return nil, err
		}
		metrics.RecordSubscriptionTransition(string(s.kind), string(canceling))
	}

	if err := s.gateway.CancelSubscription(ctx, *sub.StripeSubscriptionID); err != nil {
		s.logger.WithError(err).WithFields(map[string]interface{}{
			"subscription_id":        sub.ID,
			"user_id":                sub.UserID,
			"stripe_subscription_id": *sub.StripeSubscriptionID,
			"status":                 subscription.StatusCanceling,
			"reconcile_required":     true,
		}).Error("Remote cancellation failed; subscription left canceling")
		s.notifier.Notify(ctx, notify.Event{
			Type:     notify.EventCancelFailed,
			Priority: notify.PriorityHigh,
			Title:    fmt.Sprintf("Cancellation of %s subscription %d failed", s.kind, sub.ID),
			Message:  err.Error(),
			Data: map[string]interface{}{
				"subscriptionId":       sub.ID,
				"userId":               sub.UserID,
				"stripeSubscriptionId": *sub.StripeSubscriptionID,
			},
		})
		return nil, errors.ProviderAPIError(providerName, err).
			WithDetails(map[string]interface{}{"subscriptionId": sub.ID, "status": subscription.StatusCanceling})
	}

	return s.finalize(ctx, sub.ID)
}

func (s *SubscriptionService) finalize(ctx context.Context, id int64) (*subscription.Subscription, error) {
	status := subscription.StatusCanceled
	end := time.Now().UTC()
	sub, err := s.repo.Update(ctx, id, subscription.Patch{Status: &status, EndDate: &end})
	if err != nil {
		return nil, err
	}

	metrics.RecordSubscriptionTransition(string(s.kind), string(status))
	s.logger.WithFields(map[string]interface{}{
		"subscription_id": sub.ID,
		"user_id":         sub.UserID,
		"product_id":      sub.ProductID(),
		"status":          sub.Status,
	}).Info("Subscription canceled")
	return sub, nil
}

// ListByUser returns the user's subscriptions
func (s *SubscriptionService) ListByUser(ctx context.Context, userID int64) ([]*subscription.Subscription, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListByStatus returns subscriptions in status
func (s *SubscriptionService) ListByStatus(ctx context.Context, status subscription.Status) ([]*subscription.Subscription, error) {
	return s.repo.ListByStatus(ctx, status)
}

// Reconcile retries remote cancellation of every canceling subscription
func (s *SubscriptionService) Reconcile(ctx context.Context) (*subscription.ReconcileReport, error) {
	pending, err := s.repo.ListByStatus(ctx, subscription.StatusCanceling)
	if err != nil {
		return nil, err
	}

	report := &subscription.ReconcileReport{
		Kind:     s.kind,
		Checked:  len(pending),
		Canceled: []int64{},
		Failed:   []int64{},
	}
	for _, sub := range pending {
		if ctx.Err() != nil {
			break
		}
		if _, err := s.Cancel(ctx, sub.UserID, sub.ID); err != nil {
			report.Failed = append(report.Failed, sub.ID)
			continue
		}
		report.Canceled = append(report.Canceled, sub.ID)
	}

	metrics.SetCanceling(string(s.kind), float64(len(report.Failed)))
	if len(report.Failed) > 0 {
		s.logger.WithFields(map[string]interface{}{
			"checked": report.Checked,
			"failed":  len(report.Failed),
		}).Warn("Reconciliation left subscriptions canceling")
	}
	return report, nil
}
