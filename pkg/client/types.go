package client

import (
	"strings"
	"time"
)

// User represents a marketplace account
type User struct {
	ID               int64     `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	FirstName        *string   `json:"firstName,omitempty"`
	LastName         *string   `json:"lastName,omitempty"`
	Role             string    `json:"role"`
	StripeCustomerID *string   `json:"stripeCustomerId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Agent is a purchasable AI agent
type Agent struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         int64     `json:"price"` // minor currency units
	Category      string    `json:"category"`
	Features      string    `json:"features"`
	IconClass     string    `json:"iconClass"`
	IconBgClass   string    `json:"iconBgClass"`
	GradientClass string    `json:"gradientClass"`
	IsPopular     bool      `json:"isPopular"`
	IsNew         bool      `json:"isNew"`
	IsEnterprise  bool      `json:"isEnterprise"`
	TeamID        *int64    `json:"teamId,omitempty"`
	TeamRole      *string   `json:"teamRole,omitempty"`
	CreatedBy     *int64    `json:"createdBy,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// WorkflowStep is one stage of a team's plan
type WorkflowStep struct {
	Step        int    `json:"step"`
	Description string `json:"description"`
	AgentName   string `json:"agentName"`
	AgentID     *int64 `json:"agentId,omitempty"`
}

// Team is a bundle of agents sold as one product
type Team struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Category      string         `json:"category"`
	Price         int64          `json:"price"`
	Target        string         `json:"target"`
	Impact        string         `json:"impact"`
	Workflow      []WorkflowStep `json:"workflow"`
	IconClass     string         `json:"iconClass"`
	GradientClass string         `json:"gradientClass"`
	IsPopular     bool           `json:"isPopular"`
	IsFeatured    bool           `json:"isFeatured"`
	CreatedBy     *int64         `json:"createdBy,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// TeamDetail is a team with its member agents
type TeamDetail struct {
	Team
	Agents []Agent `json:"agents"`
}

// Subscription statuses
const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusCanceling = "canceling"
	StatusCanceled  = "canceled"
)

// Subscription ties the user to an agent or a team
type Subscription struct {
	ID                    int64      `json:"id"`
	Kind                  string     `json:"kind"`
	UserID                int64      `json:"userId"`
	AgentID               *int64     `json:"agentId,omitempty"`
	TeamID                *int64     `json:"teamId,omitempty"`
	Status                string     `json:"status"`
	StartDate             time.Time  `json:"startDate"`
	EndDate               *time.Time `json:"endDate,omitempty"`
	StripeSubscriptionID  *string    `json:"stripeSubscriptionId,omitempty"`
	StripePaymentIntentID *string    `json:"stripePaymentIntentId,omitempty"`
	CreatedAt             time.Time  `json:"createdAt"`
}

// Checkout is returned when a subscription is initiated
type Checkout struct {
	ClientSecret   string `json:"clientSecret"`
	SubscriptionID int64  `json:"subscriptionId"`
}

// PaymentIntentID derives the intent id from the client secret, which has
// the form "<intent id>_secret_<suffix>"
func (c *Checkout) PaymentIntentID() string {
	if i := strings.Index(c.ClientSecret, "_secret_"); i > 0 {
		return c.ClientSecret[:i]
	}
	return ""
}

// WorkflowRequest is a custom automation request
type WorkflowRequest struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"userId"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Complexity   string    `json:"complexity"`
	Integrations *string   `json:"integrations,omitempty"`
	TeamID       *int64    `json:"teamId,omitempty"`
	Priority     string    `json:"priority"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Stats is the dashboard summary of the current user
type Stats struct {
	ActiveAgents     int            `json:"activeAgents"`
	ActiveTeams      int            `json:"activeTeams"`
	PendingPayments  int            `json:"pendingPayments"`
	WorkflowRequests map[string]int `json:"workflowRequests"`
	MonthlySpend     int64          `json:"monthlySpend"`
	Subscription     string         `json:"subscription"`
}

// ListOptions contains pagination options for list operations
type ListOptions struct {
	Page     int `json:"page,omitempty"`      // Page number (1-based)
	PageSize int `json:"page_size,omitempty"` // Items per page
}

// Page is one page of a paginated list
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// ReconcileReport summarises one reconciliation pass
type ReconcileReport struct {
	Kind     string  `json:"kind"`
	Checked  int     `json:"checked"`
	Canceled []int64 `json:"canceled"`
	Failed   []int64 `json:"failed"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string            `json:"status"`
	Storage    string            `json:"storage,omitempty"`
	Payments   string            `json:"payments,omitempty"`
	Components map[string]string `json:"components,omitempty"`
}
