package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"

	"github.com/jmoiron/sqlx"

	"github.com/pratik-mahalle/processimo/internal/domain/team"
	"github.com/pratik-mahalle/processimo/internal/pkg/errors"
)

// TeamRepository implements team.Repository. The workflow is stored as a JSON array.
type TeamRepository struct {
	db *sqlx.DB
}

// NewTeamRepository creates a new agent team repository
func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

const teamColumns = `id, name, description, category, price, target, impact, workflow,
	icon_class, gradient_class, is_popular, is_featured, created_by, created_at`

type teamRow struct {
	ID            int64  `db:"id"`
	Name          string `db:"name"`
	Description   string `db:"description"`
	Category      string `db:"category"`
	Price         int64  `db:"price"`
	Target        string `db:"target"`
	Impact        string `db:"impact"`
	Workflow      string `db:"workflow"`
	IconClass     string `db:"icon_class"`
	GradientClass string `db:"gradient_class"`
	IsPopular     bool   `db:"is_popular"`
	IsFeatured    bool   `db:"is_featured"`
	CreatedBy     *int64 `db:"created_by"`
	CreatedAt     int64  `db:"created_at"`
}

func (r teamRow) toDomain() (*team.Team, error) {
	steps := []team.WorkflowStep{}
	if r.Workflow != "" {
		if err := json.Unmarshal([]byte(r.Workflow), &steps); err != nil {
			return nil, errors.DatabaseError("Failed to decode team workflow", err)
		}
	}
	return &team.Team{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		Category:      r.Category,
		Price:         r.Price,
		Target:        r.Target,
		Impact:        r.Impact,
		Workflow:      steps,
		IconClass:     r.IconClass,
		GradientClass: r.GradientClass,
		IsPopular:     r.IsPopular,
		IsFeatured:    r.IsFeatured,
		CreatedBy:     r.CreatedBy,
		CreatedAt:     fromUnix(r.CreatedAt),
	}, nil
}

func encodeWorkflow(steps []team.WorkflowStep) (string, error) {
	if steps == nil {
		steps = []team.WorkflowStep{}
	}
	b, err := json.Marshal(steps)
	if err != nil {
		return "", errors.Internal("Failed to encode team workflow", err)
	}
	return string(b), nil
}

// Create stores t
func (r *TeamRepository) Create(ctx context.Context, t *team.Team) error {
	if t.Workflow == nil {
		t.Workflow = []team.WorkflowStep{}
	}
	workflow, err := encodeWorkflow(t.Workflow)
	if err != nil {
		return err
	}
	t.CreatedAt = nowUTC()

	query := r.db.Rebind(`
		INSERT INTO agent_teams (name, description, category, price, target, impact, workflow,
			icon_class, gradient_class, is_popular, is_featured, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`)
	err = r.db.QueryRowxContext(ctx, query,
		t.Name, t.Description, t.Category, t.Price, t.Target, t.Impact, workflow,
		t.IconClass, t.GradientClass, t.IsPopular, t.IsFeatured, t.CreatedBy, unix(t.CreatedAt),
	).Scan(&t.ID)
	if err != nil {
		return errors.DatabaseError("Failed to create agent team", err)
	}
	return nil
}

// GetByID retrieves a team by ID
func (r *TeamRepository) GetByID(ctx context.Context, id int64) (*team.Team, error) {
	var row teamRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT `+teamColumns+` FROM agent_teams WHERE id = ?`), id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("Agent team")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get agent team", err)
	}
	return row.toDomain()
}

func (r *TeamRepository) list(ctx context.Context, where string, args ...interface{}) ([]*team.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM agent_teams`
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY id`

	var rows []teamRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, errors.DatabaseError("Failed to list agent teams", err)
	}
	out := make([]*team.Team, 0, len(rows))
	for _, row := range rows {
		t, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// List returns all teams
func (r *TeamRepository) List(ctx context.Context) ([]*team.Team, error) {
	return r.list(ctx, "")
}

// ListFeatured returns teams marked popular or featured
func (r *TeamRepository) ListFeatured(ctx context.Context) ([]*team.Team, error) {
	return r.list(ctx, "is_popular = ? OR is_featured = ?", true, true)
}

// Update merges patch over the stored team inside a transaction
func (r *TeamRepository) Update(ctx context.Context, id int64, patch team.Patch) (*team.Team, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.DatabaseError("Failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	var row teamRow
	err = tx.GetContext(ctx, &row, tx.Rebind(`SELECT `+teamColumns+` FROM agent_teams WHERE id = ?`+lockClause(r.db)), id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("Agent team")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get agent team", err)
	}

	t, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	patch.Apply(t)
	workflow, err := encodeWorkflow(t.Workflow)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, tx.Rebind(`
		UPDATE agent_teams
		SET name = ?, description = ?, category = ?, price = ?, target = ?, impact = ?, workflow = ?,
			icon_class = ?, gradient_class = ?, is_popular = ?, is_featured = ?
		WHERE id = ?
	`),
		t.Name, t.Description, t.Category, t.Price, t.Target, t.Impact, workflow,
		t.IconClass, t.GradientClass, t.IsPopular, t.IsFeatured, id,
	)
	if err != nil {
		return nil, errors.DatabaseError("Failed to update agent team", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.DatabaseError("Failed to commit agent team update", err)
	}
	return t, nil
}

// Delete removes a team
func (r *TeamRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM agent_teams WHERE id = ?`), id)
	if err != nil {
		return errors.DatabaseError("Failed to delete agent team", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NotFound("Agent team")
	}
	return nil
}
