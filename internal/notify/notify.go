// Package notify delivers operator alerts about marketplace events to
// Slack and to signed HTTP webhooks.
package notify

import (
	"context"
	"time"
)

// EventType names what happened
type EventType string

const (
	EventWorkflowSubmitted     EventType = "workflow_request.submitted"
	EventWorkflowStatusChanged EventType = "workflow_request.status_changed"
	EventSubscriptionActivated EventType = "subscription.activated"
	EventCancelFailed          EventType = "subscription.cancel_failed"
	EventPaidNotActivated      EventType = "subscription.paid_not_activated"
	EventReconcileFailed       EventType = "reconcile.failed"
)

// Priority controls how loudly an event is rendered
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Event is one alert
type Event struct {
	Type     EventType              `json:"event"`
	Priority Priority               `json:"priority"`
	Title    string                 `json:"title"`
	Message  string                 `json:"message"`
	Data     map[string]interface{} `json:"data,omitempty"`
	At       time.Time              `json:"timestamp"`
}

// Notifier accepts events for delivery. Implementations must not block
// the caller on network I/O.
type Notifier interface {
	Notify(ctx context.Context, e Event)
}

// Sink delivers a single event to one destination
type Sink interface {
	Name() string
	Send(ctx context.Context, e Event) error
}

// Nop discards every event
type Nop struct{}

func (Nop) Notify(context.Context, Event) {}

// OrNop returns n, or Nop when n is nil
func OrNop(n Notifier) Notifier {
	if n == nil {
		return Nop{}
	}
	return n
}
