package testutil

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/pratik-mahalle/processimo/internal/config"
	"github.com/pratik-mahalle/processimo/internal/domain/agent"
	"github.com/pratik-mahalle/processimo/internal/domain/team"
	"github.com/pratik-mahalle/processimo/internal/domain/user"
	"github.com/pratik-mahalle/processimo/internal/pkg/logger"
	"github.com/pratik-mahalle/processimo/internal/repository/memory"
	"github.com/pratik-mahalle/processimo/internal/repository/postgres"
)

// NewTestLogger returns a logger that drops everything
func NewTestLogger() *logger.Logger {
	return logger.Nop()
}

// NewTestDB opens an in-memory SQLite database with all migrations applied
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := postgres.New(config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := postgres.RunMigrations(db, NewTestLogger()); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// Fixture is a small catalog loaded into a memory store
type Fixture struct {
	Store  *memory.Store
	User   *user.User
	Other  *user.User
	Admin  *user.User
	Agent  *agent.Agent // price 999
	Team   *team.Team
	Member *agent.Agent // member of Team
}

// NewFixture creates a memory store with two users, an admin, one standalone agent and one team
func NewFixture(t *testing.T) *Fixture {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	f := &Fixture{Store: s}

	f.User = &user.User{Username: "customer", Email: "customer@example.com", PasswordHash: "x"}
	f.Other = &user.User{Username: "other", Email: "other@example.com", PasswordHash: "x"}
	f.Admin = &user.User{Username: "admin", Email: "admin@processimo.com", PasswordHash: "x", Role: user.RoleAdmin}
	for _, u := range []*user.User{f.User, f.Other, f.Admin} {
		if err := s.Users.Create(ctx, u); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}

	f.Agent = &agent.Agent{Name: "Email Assistant", Description: "Automate email", Price: 999, Category: "Communication", IsPopular: true}
	if err := s.Agents.Create(ctx, f.Agent); err != nil {
		t.Fatalf("create agent: %v", err)
	}

	f.Team = &team.Team{
		Name:       "LexiSuite",
		Price:      9999,
		Category:   "Legal",
		IsPopular:  true,
		IsFeatured: true,
		Workflow: []team.WorkflowStep{
			{Step: 1, Description: "Draft the contract", AgentName: "ContractBot"},
		},
	}
	if err := s.Teams.Create(ctx, f.Team); err != nil {
		t.Fatalf("create team: %v", err)
	}

	teamID := f.Team.ID
	role := "Document Generation"
	f.Member = &agent.Agent{Name: "ContractBot", Price: 2999, Category: "Legal", TeamID: &teamID, TeamRole: &role}
	if err := s.Agents.Create(ctx, f.Member); err != nil {
		t.Fatalf("create member: %v", err)
	}

	return f
}
