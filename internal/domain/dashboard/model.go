package dashboard

import "context"

// Plan labels
const (
	PlanFree       = "Free"
	PlanPayAsYouGo = "Pay as you go"
)

// Stats is the per-user dashboard summary
type Stats struct {
	ActiveAgents     int            `json:"activeAgents"`
	ActiveTeams      int            `json:"activeTeams"`
	PendingPayments  int            `json:"pendingPayments"`
	WorkflowRequests map[string]int `json:"workflowRequests"`
	MonthlySpend     int64          `json:"monthlySpend"` // minor currency units
	Subscription     string         `json:"subscription"`
}

// Service computes dashboard stats
type Service interface {
	Stats(ctx context.Context, userID int64) (*Stats, error)
}
