package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/pratik-mahalle/processimo/internal/domain/subscription"
	"github.com/pratik-mahalle/processimo/internal/repository"
)

// NewRepositories builds every SQL repository over db
func NewRepositories(db *sqlx.DB) *repository.Repositories {
	return &repository.Repositories{
		Users:              NewUserRepository(db),
		Agents:             NewAgentRepository(db),
		Teams:              NewTeamRepository(db),
		AgentSubscriptions: NewSubscriptionRepository(db, subscription.KindAgent),
		TeamSubscriptions:  NewSubscriptionRepository(db, subscription.KindTeam),
		WorkflowRequests:   NewWorkflowRepository(db),
	}
}
