package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/pratik-mahalle/processimo/internal/notify"
	"github.com/pratik-mahalle/processimo/internal/payment"
)

// MockGateway is a hand-written payment.Gateway. Intents are created with
// IntentStatus and can be changed with SetIntentStatus; every *Error field
// makes the matching call fail.
type MockGateway struct {
	mu sync.Mutex

	IntentStatus string
	intents      map[string]*payment.Intent
	nextID       int

	CreateIntentError   error
	RetrieveIntentError error
	CreateCustomerError error
	CancelError         error

	CreateIntentCalls   int
	RetrieveIntentCalls int
	CreateCustomerCalls int
	CancelCalls         []string
	LastIntentParams    payment.IntentParams
	LastCustomerParams  payment.CustomerParams
}

// NewMockGateway returns a gateway whose intents start out succeeded
func NewMockGateway() *MockGateway {
	return &MockGateway{
		IntentStatus: payment.IntentSucceeded,
		intents:      make(map[string]*payment.Intent),
	}
}

func (m *MockGateway) CreatePaymentIntent(ctx context.Context, p payment.IntentParams) (*payment.Intent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateIntentCalls++
	m.LastIntentParams = p
	if m.CreateIntentError != nil {
		return nil, m.CreateIntentError
	}
	m.nextID++
	id := fmt.Sprintf("pi_test_%d", m.nextID)
	in := &payment.Intent{
		ID:           id,
		ClientSecret: id + "_secret_test",
		Status:       m.IntentStatus,
		Amount:       p.Amount,
		Currency:     p.Currency,
		Metadata:     p.Metadata,
	}
	m.intents[id] = in
	c := *in
	return &c, nil
}

func (m *MockGateway) RetrievePaymentIntent(ctx context.Context, id string) (*payment.Intent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RetrieveIntentCalls++
	if m.RetrieveIntentError != nil {
		return nil, m.RetrieveIntentError
	}
	in, ok := m.intents[id]
	if !ok {
		return nil, fmt.Errorf("no such payment intent: %s", id)
	}
	c := *in
	return &c, nil
}

// SetIntentStatus changes the provider-side status of an intent
func (m *MockGateway) SetIntentStatus(id, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if in, ok := m.intents[id]; ok {
		in.Status = status
	}
}

func (m *MockGateway) CreateCustomer(ctx context.Context, p payment.CustomerParams) (*payment.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCustomerCalls++
	m.LastCustomerParams = p
	if m.CreateCustomerError != nil {
		return nil, m.CreateCustomerError
	}
	return &payment.Customer{ID: fmt.Sprintf("cus_test_%d", m.CreateCustomerCalls)}, nil
}

func (m *MockGateway) CancelSubscription(ctx context.Context, subscriptionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CancelCalls = append(m.CancelCalls, subscriptionID)
	return m.CancelError
}

// SetCancelError swaps the cancel failure under the gateway lock
func (m *MockGateway) SetCancelError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CancelError = err
}

// LastIntentID returns the id of the most recently created intent
func (m *MockGateway) LastIntentID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fmt.Sprintf("pi_test_%d", m.nextID)
}

// RecordingNotifier keeps every event it is given
type RecordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (n *RecordingNotifier) Notify(ctx context.Context, e notify.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

// Events returns the recorded events of type t, or all events when t is empty
func (n *RecordingNotifier) Events(t notify.EventType) []notify.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []notify.Event
	for _, e := range n.events {
		if t == "" || e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
