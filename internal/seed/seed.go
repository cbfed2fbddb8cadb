// Package seed loads the starter catalog and the admin account.
package seed

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/pratik-mahalle/processimo/internal/domain/agent"
	"github.com/pratik-mahalle/processimo/internal/domain/team"
	"github.com/pratik-mahalle/processimo/internal/domain/user"
	"github.com/pratik-mahalle/processimo/internal/pkg/errors"
	"github.com/pratik-mahalle/processimo/internal/pkg/logger"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog is the document format of catalog.yaml
type Catalog struct {
	Admin  AdminEntry   `yaml:"admin"`
	Agents []AgentEntry `yaml:"agents"`
	Teams  []TeamEntry  `yaml:"teams"`
}

// AdminEntry describes the admin account. The password comes from configuration.
type AdminEntry struct {
	Username  string `yaml:"username"`
	Email     string `yaml:"email"`
	FirstName string `yaml:"firstName"`
	LastName  string `yaml:"lastName"`
}

// AgentEntry describes one agent
type AgentEntry struct {
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	Price         int64  `yaml:"price"`
	Category      string `yaml:"category"`
	Features      string `yaml:"features"`
	IconClass     string `yaml:"iconClass"`
	IconBgClass   string `yaml:"iconBgClass"`
	GradientClass string `yaml:"gradientClass"`
	IsPopular     bool   `yaml:"isPopular"`
	IsNew         bool   `yaml:"isNew"`
	IsEnterprise  bool   `yaml:"isEnterprise"`
	TeamRole      string `yaml:"teamRole"`
}

// TeamEntry describes one team with its member agents
type TeamEntry struct {
	Name          string              `yaml:"name"`
	Description   string              `yaml:"description"`
	Category      string              `yaml:"category"`
	Price         int64               `yaml:"price"`
	Target        string              `yaml:"target"`
	Impact        string              `yaml:"impact"`
	IconClass     string              `yaml:"iconClass"`
	GradientClass string              `yaml:"gradientClass"`
	IsPopular     bool                `yaml:"isPopular"`
	IsFeatured    bool                `yaml:"isFeatured"`
	Workflow      []team.WorkflowStep `yaml:"workflow"`
	Agents        []AgentEntry        `yaml:"agents"`
}

// Parse decodes a catalog document
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return &c, nil
}

// Default returns the built-in catalog
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(err)
	}
	return c
}

// Seeder writes a catalog through the services so the usual checks apply
type Seeder struct {
	Users  user.Service
	Agents agent.Service
	Teams  team.Service
	Logger *logger.Logger
}

// Run creates the admin account if missing and loads the catalog into an empty store
func (s *Seeder) Run(ctx context.Context, c *Catalog, adminPassword string) error {
	if err := s.ensureAdmin(ctx, c.Admin, adminPassword); err != nil {
		return err
	}

	existing, err := s.Agents.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		s.Logger.With("agents", len(existing)).Debug("Catalog already present, skipping seed")
		return nil
	}

	for _, e := range c.Agents {
		a := e.toAgent(nil)
		if err := s.Agents.Create(ctx, a); err != nil {
			return fmt.Errorf("seed agent %q: %w", e.Name, err)
		}
	}

	for _, te := range c.Teams {
		t := &team.Team{
			Name:          te.Name,
			Description:   te.Description,
			Category:      te.Category,
			Price:         te.Price,
			Target:        te.Target,
			Impact:        te.Impact,
			Workflow:      te.Workflow,
			IconClass:     te.IconClass,
			GradientClass: te.GradientClass,
			IsPopular:     te.IsPopular,
			IsFeatured:    te.IsFeatured,
		}
		if err := s.Teams.Create(ctx, t); err != nil {
			return fmt.Errorf("seed team %q: %w", te.Name, err)
		}
		for _, e := range te.Agents {
			teamID := t.ID
			if err := s.Agents.Create(ctx, e.toAgent(&teamID)); err != nil {
				return fmt.Errorf("seed agent %q of team %q: %w", e.Name, te.Name, err)
			}
		}
		if _, err := s.Teams.LinkWorkflow(ctx, t.ID); err != nil {
			return fmt.Errorf("link workflow of team %q: %w", te.Name, err)
		}
	}

	s.Logger.WithFields(map[string]interface{}{
		"agents": len(c.Agents),
		"teams":  len(c.Teams),
	}).Info("Catalog seeded")
	return nil
}

func (s *Seeder) ensureAdmin(ctx context.Context, a AdminEntry, password string) error {
	if a.Username == "" {
		return nil
	}
	in := user.RegisterInput{
		Username: a.Username,
		Email:    a.Email,
		Password: password,
	}
	if a.FirstName != "" {
		in.FirstName = &a.FirstName
	}
	if a.LastName != "" {
		in.LastName = &a.LastName
	}

	_, err := s.Users.CreateWithRole(ctx, in, user.RoleAdmin)
	if errors.Is(err, errors.ErrCodeConflict) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	s.Logger.With("username", a.Username).Info("Admin account created")
	return nil
}

func (e AgentEntry) toAgent(teamID *int64) *agent.Agent {
	a := &agent.Agent{
		Name:          e.Name,
		Description:   e.Description,
		Price:         e.Price,
		Category:      e.Category,
		Features:      e.Features,
		IconClass:     e.IconClass,
		IconBgClass:   e.IconBgClass,
		GradientClass: e.GradientClass,
		IsPopular:     e.IsPopular,
		IsNew:         e.IsNew,
		IsEnterprise:  e.IsEnterprise,
		TeamID:        teamID,
	}
	if teamID != nil && e.TeamRole != "" {
		role := e.TeamRole
		a.TeamRole = &role
	}
	return a
}
