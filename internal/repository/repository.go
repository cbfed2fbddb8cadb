// Package repository groups the storage contracts the services depend on.
package repository

import (
	"github.com/pratik-mahalle/processimo/internal/domain/agent"
	"github.com/pratik-mahalle/processimo/internal/domain/subscription"
	"github.com/pratik-mahalle/processimo/internal/domain/team"
	"github.com/pratik-mahalle/processimo/internal/domain/user"
	"github.com/pratik-mahalle/processimo/internal/domain/workflow"
)

// Repositories is one complete entity store
type Repositories struct {
	Users              user.Repository
	Agents             agent.Repository
	Teams              team.Repository
	AgentSubscriptions subscription.Repository
	TeamSubscriptions  subscription.Repository
	WorkflowRequests   workflow.Repository
}
