// Package memory is the process-lifetime entity store. Every collection
// keeps insertion order and its own id sequence; state is lost on restart.
package memory

import (
	"time"

	"github.com/pratik-mahalle/processimo/internal/repository"
)

// Store groups the in-memory repositories. It is built once at start-up
// and handed to the services that need it.
type Store struct {
	Users              *UserRepository
	Agents             *AgentRepository
	Teams              *TeamRepository
	AgentSubscriptions *SubscriptionRepository
	TeamSubscriptions  *SubscriptionRepository
	WorkflowRequests   *WorkflowRepository
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		Users:              NewUserRepository(),
		Agents:             NewAgentRepository(),
		Teams:              NewTeamRepository(),
		AgentSubscriptions: NewSubscriptionRepository(),
		TeamSubscriptions:  NewSubscriptionRepository(),
		WorkflowRequests:   NewWorkflowRepository(),
	}
}

func now() time.Time {
	return time.Now().UTC()
}

// Repositories exposes the store through the storage contracts
func (s *Store) Repositories() *repository.Repositories {
	return &repository.Repositories{
		Users:              s.Users,
		Agents:             s.Agents,
		Teams:              s.Teams,
		AgentSubscriptions: s.AgentSubscriptions,
		TeamSubscriptions:  s.TeamSubscriptions,
		WorkflowRequests:   s.WorkflowRequests,
	}
}
