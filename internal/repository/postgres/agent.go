package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/jmoiron/sqlx"

	"github.com/pratik-mahalle/processimo/internal/domain/agent"
	"github.com/pratik-mahalle/processimo/internal/pkg/errors"
)

// AgentRepository implements agent.Repository
type AgentRepository struct {
	db *sqlx.DB
}

// NewAgentRepository creates a new agent repository
func NewAgentRepository(db *sqlx.DB) *AgentRepository {
	return &AgentRepository{db: db}
}

const agentColumns = `id, name, description, price, category, features, icon_class, icon_bg_class,
	gradient_class, is_popular, is_new, is_enterprise, team_id, team_role, created_by, created_at`

type agentRow struct {
	ID            int64   `db:"id"`
	Name          string  `db:"name"`
	Description   string  `db:"description"`
	Price         int64   `db:"price"`
	Category      string  `db:"category"`
	Features      string  `db:"features"`
	IconClass     string  `db:"icon_class"`
	IconBgClass   string  `db:"icon_bg_class"`
	GradientClass string  `db:"gradient_class"`
	IsPopular     bool    `db:"is_popular"`
	IsNew         bool    `db:"is_new"`
	IsEnterprise  bool    `db:"is_enterprise"`
	TeamID        *int64  `db:"team_id"`
	TeamRole      *string `db:"team_role"`
	CreatedBy     *int64  `db:"created_by"`
	CreatedAt     int64   `db:"created_at"`
}

func (r agentRow) toDomain() *agent.Agent {
	return &agent.Agent{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		Category:      r.Category,
		Features:      r.Features,
		IconClass:     r.IconClass,
		IconBgClass:   r.IconBgClass,
		GradientClass: r.GradientClass,
		IsPopular:     r.IsPopular,
		IsNew:         r.IsNew,
		IsEnterprise:  r.IsEnterprise,
		TeamID:        r.TeamID,
		TeamRole:      r.TeamRole,
		CreatedBy:     r.CreatedBy,
		CreatedAt:     fromUnix(r.CreatedAt),
	}
}

func agentsFromRows(rows []agentRow) []*agent.Agent {
	out := make([]*agent.Agent, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}

// Create stores a
func (r *AgentRepository) Create(ctx context.Context, a *agent.Agent) error {
	a.CreatedAt = nowUTC()

	query := r.db.Rebind(`
		INSERT INTO agents (name, description, price, category, features, icon_class, icon_bg_class,
			gradient_class, is_popular, is_new, is_enterprise, team_id, team_role, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`)
	err := r.db.QueryRowxContext(ctx, query,
		a.Name, a.Description, a.Price, a.Category, a.Features, a.IconClass, a.IconBgClass,
		a.GradientClass, a.IsPopular, a.IsNew, a.IsEnterprise, a.TeamID, a.TeamRole, a.CreatedBy,
		unix(a.CreatedAt),
	).Scan(&a.ID)
	if err != nil {
		return errors.DatabaseError("Failed to create agent", err)
	}
	return nil
}

// GetByID retrieves an agent by ID
func (r *AgentRepository) GetByID(ctx context.Context, id int64) (*agent.Agent, error) {
	var row agentRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT `+agentColumns+` FROM agents WHERE id = ?`), id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("Agent")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get agent", err)
	}
	return row.toDomain(), nil
}

func (r *AgentRepository) list(ctx context.Context, where string, args ...interface{}) ([]*agent.Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents`
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY id`

	var rows []agentRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, errors.DatabaseError("Failed to list agents", err)
	}
	return agentsFromRows(rows), nil
}

// List returns all agents
func (r *AgentRepository) List(ctx context.Context) ([]*agent.Agent, error) {
	return r.list(ctx, "")
}

// ListFeatured returns agents with any badge flag set
func (r *AgentRepository) ListFeatured(ctx context.Context) ([]*agent.Agent, error) {
	return r.list(ctx, "is_popular = ? OR is_new = ? OR is_enterprise = ?", true, true, true)
}

// ListByTeam returns the members of a team
func (r *AgentRepository) ListByTeam(ctx context.Context, teamID int64) ([]*agent.Agent, error) {
	return r.list(ctx, "team_id = ?", teamID)
}

// Update merges patch over the stored agent inside a transaction
func (r *AgentRepository) Update(ctx context.Context, id int64, patch agent.Patch) (*agent.Agent, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.DatabaseError("Failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	var row agentRow
	err = tx.GetContext(ctx, &row, tx.Rebind(`SELECT `+agentColumns+` FROM agents WHERE id = ?`+lockClause(r.db)), id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("Agent")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get agent", err)
	}

	a := row.toDomain()
	patch.Apply(a)

	_, err = tx.ExecContext(ctx, tx.Rebind(`
		UPDATE agents
		SET name = ?, description = ?, price = ?, category = ?, features = ?, icon_class = ?,
			icon_bg_class = ?, gradient_class = ?, is_popular = ?, is_new = ?, is_enterprise = ?,
			team_id = ?, team_role = ?
		WHERE id = ?
	`),
		a.Name, a.Description, a.Price, a.Category, a.Features, a.IconClass,
		a.IconBgClass, a.GradientClass, a.IsPopular, a.IsNew, a.IsEnterprise,
		a.TeamID, a.TeamRole, id,
	)
	if err != nil {
		return nil, errors.DatabaseError("Failed to update agent", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.DatabaseError("Failed to commit agent update", err)
	}
	return a, nil
}

// Delete removes an agent
func (r *AgentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM agents WHERE id = ?`), id)
	if err != nil {
		return errors.DatabaseError("Failed to delete agent", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NotFound("Agent")
	}
	return nil
}

// ClearTeam detaches every agent of teamID
func (r *AgentRepository) ClearTeam(ctx context.Context, teamID int64) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE agents SET team_id = NULL, team_role = NULL WHERE team_id = ?`), teamID)
	if err != nil {
		return errors.DatabaseError("Failed to detach team agents", err)
	}
	return nil
}
