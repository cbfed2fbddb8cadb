package subscription

import "time"

// Kind distinguishes single-agent subscriptions from team subscriptions
type Kind string

const (
	KindAgent Kind = "agent"
	KindTeam  Kind = "team"
)

// Status is the lifecycle state of a subscription
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCanceling Status = "canceling"
	StatusCanceled  Status = "canceled"
)

// Live reports whether the status still holds the product for the user
func (s Status) Live() bool {
	return s == StatusPending || s == StatusActive || s == StatusCanceling
}

// Subscription ties a user to an agent or a team. Exactly one of AgentID
// and TeamID is set, matching Kind.
type Subscription struct {
	ID                    int64      `json:"id"`
	Kind                  Kind       `json:"kind"`
	UserID                int64      `json:"userId"`
	AgentID               *int64     `json:"agentId,omitempty"`
	TeamID                *int64     `json:"teamId,omitempty"`
	Status                Status     `json:"status"`
	StartDate             time.Time  `json:"startDate"`
	EndDate               *time.Time `json:"endDate"`
	StripeSubscriptionID  *string    `json:"stripeSubscriptionId"`
	StripePaymentIntentID *string    `json:"stripePaymentIntentId"`
	StripePriceID         *string    `json:"stripePriceId"`
	CreatedAt             time.Time  `json:"createdAt"`
}

// New builds a pending subscription of kind for (userID, productID)
func New(kind Kind, userID, productID int64) *Subscription {
	s := &Subscription{Kind: kind, UserID: userID, Status: StatusPending}
	if kind == KindTeam {
		s.TeamID = &productID
	} else {
		s.AgentID = &productID
	}
	return s
}

// ProductID returns the agent or team id depending on Kind
func (s *Subscription) ProductID() int64 {
	if s.Kind == KindTeam {
		if s.TeamID != nil {
			return *s.TeamID
		}
		return 0
	}
	if s.AgentID != nil {
		return *s.AgentID
	}
	return 0
}

// Clone returns a copy that shares no pointers with s
func (s *Subscription) Clone() *Subscription {
	c := *s
	c.AgentID = cloneInt(s.AgentID)
	c.TeamID = cloneInt(s.TeamID)
	c.StripeSubscriptionID = cloneString(s.StripeSubscriptionID)
	c.StripePaymentIntentID = cloneString(s.StripePaymentIntentID)
	c.StripePriceID = cloneString(s.StripePriceID)
	if s.EndDate != nil {
		t := *s.EndDate
		c.EndDate = &t
	}
	return &c
}

func cloneInt(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// StripeInfo holds provider references. Empty strings keep the stored value.
type StripeInfo struct {
	SubscriptionID  string
	PaymentIntentID string
	PriceID         string
}

// Patch is a partial update of the mutable subscription fields
type Patch struct {
	Status  *Status
	EndDate *time.Time
	Stripe  *StripeInfo
}

// Apply merges p over s
func (p Patch) Apply(s *Subscription) {
	if p.Status != nil {
		s.Status = *p.Status
	}
	if p.EndDate != nil {
		t := *p.EndDate
		s.EndDate = &t
	}
	if p.Stripe != nil {
		if p.Stripe.SubscriptionID != "" {
			v := p.Stripe.SubscriptionID
			s.StripeSubscriptionID = &v
		}
		if p.Stripe.PaymentIntentID != "" {
			v := p.Stripe.PaymentIntentID
			s.StripePaymentIntentID = &v
		}
		if p.Stripe.PriceID != "" {
			v := p.Stripe.PriceID
			s.StripePriceID = &v
		}
	}
}

// Checkout is returned when a subscription is initiated
type Checkout struct {
	ClientSecret   string `json:"clientSecret"`
	SubscriptionID int64  `json:"subscriptionId"`
}

// Product is the priced thing a subscription is bought for
type Product struct {
	ID    int64
	Name  string
	Price int64
}

// ReconcileReport summarises a pass over canceling subscriptions
type ReconcileReport struct {
	Kind     Kind    `json:"kind"`
	Checked  int     `json:"checked"`
	Canceled []int64 `json:"canceled"`
	Failed   []int64 `json:"failed"`
}
