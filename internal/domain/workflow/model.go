package workflow

import (
	"strconv"
	"time"
)

// Status of a custom workflow request
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is one of the four known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCompleted:
		return true
	}
	return false
}

// Complexity levels
const (
	ComplexityBasic      = "basic"
	ComplexityAdvanced   = "advanced"
	ComplexityEnterprise = "enterprise"
)

// DefaultPriority is used when a request omits priority
const DefaultPriority = 5

// Request is a customer-submitted custom automation request
type Request struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"userId"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Complexity   string    `json:"complexity"`
	Integrations *string   `json:"integrations"`
	TeamID       *int64    `json:"teamId"`
	Priority     string    `json:"priority"` // "1" (highest) to "10"
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Clone returns a copy that shares no pointers with r
func (r *Request) Clone() *Request {
	c := *r
	if r.Integrations != nil {
		v := *r.Integrations
		c.Integrations = &v
	}
	if r.TeamID != nil {
		v := *r.TeamID
		c.TeamID = &v
	}
	return &c
}

// SubmitInput is what a user sends to open a request
type SubmitInput struct {
	Name         string  `json:"name" validate:"required,notblank,min=3,max=200"`
	Description  string  `json:"description" validate:"required,min=10,max=5000"`
	Complexity   string  `json:"complexity" validate:"required,oneof=basic advanced enterprise"`
	Priority     *int    `json:"priority,omitempty" validate:"omitempty,min=1,max=10"`
	Integrations *string `json:"integrations,omitempty" validate:"omitempty,max=500"`
	TeamID       *int64  `json:"teamId,omitempty" validate:"omitempty,gt=0"`
}

// PriorityString renders the stored priority, applying the default
func (in SubmitInput) PriorityString() string {
	if in.Priority == nil {
		return strconv.Itoa(DefaultPriority)
	}
	return strconv.Itoa(*in.Priority)
}
