package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/jmoiron/sqlx"

	"github.com/pratik-mahalle/processimo/internal/domain/workflow"
	"github.com/pratik-mahalle/processimo/internal/pkg/errors"
)

// WorkflowRepository implements workflow.Repository
type WorkflowRepository struct {
	db *sqlx.DB
}

// NewWorkflowRepository creates a new workflow request repository
func NewWorkflowRepository(db *sqlx.DB) *WorkflowRepository {
	return &WorkflowRepository{db: db}
}

const workflowColumns = `id, user_id, name, description, complexity, integrations, team_id, priority, status, created_at`

type workflowRow struct {
	ID           int64   `db:"id"`
	UserID       int64   `db:"user_id"`
	Name         string  `db:"name"`
	Description  string  `db:"description"`
	Complexity   string  `db:"complexity"`
	Integrations *string `db:"integrations"`
	TeamID       *int64  `db:"team_id"`
	Priority     string  `db:"priority"`
	Status       string  `db:"status"`
	CreatedAt    int64   `db:"created_at"`
}

func (r workflowRow) toDomain() *workflow.Request {
	return &workflow.Request{
		ID:           r.ID,
		UserID:       r.UserID,
		Name:         r.Name,
		Description:  r.Description,
		Complexity:   r.Complexity,
		Integrations: r.Integrations,
		TeamID:       r.TeamID,
		Priority:     r.Priority,
		Status:       workflow.Status(r.Status),
		CreatedAt:    fromUnix(r.CreatedAt),
	}
}

// Create stores req, defaulting status to pending and priority to 5
func (r *WorkflowRepository) Create(ctx context.Context, req *workflow.Request) error {
	if req.Status == "" {
		req.Status = workflow.StatusPending
	}
	if req.Priority == "" {
		req.Priority = "5"
	}
	req.CreatedAt = nowUTC()

	query := r.db.Rebind(`
		INSERT INTO workflow_requests (user_id, name, description, complexity, integrations, team_id,
			priority, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`)
	err := r.db.QueryRowxContext(ctx, query,
		req.UserID, req.Name, req.Description, req.Complexity, req.Integrations, req.TeamID,
		req.Priority, string(req.Status), unix(req.CreatedAt),
	).Scan(&req.ID)
	if err != nil {
		return errors.DatabaseError("Failed to create workflow request", err)
	}
	return nil
}

// GetByID retrieves a request by ID
func (r *WorkflowRepository) GetByID(ctx context.Context, id int64) (*workflow.Request, error) {
	var row workflowRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT `+workflowColumns+` FROM workflow_requests WHERE id = ?`), id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("Workflow request")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get workflow request", err)
	}
	return row.toDomain(), nil
}

func (r *WorkflowRepository) list(ctx context.Context, where string, args ...interface{}) ([]*workflow.Request, error) {
	query := `SELECT ` + workflowColumns + ` FROM workflow_requests`
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY id`

	var rows []workflowRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, errors.DatabaseError("Failed to list workflow requests", err)
	}
	out := make([]*workflow.Request, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// ListByUser returns the user's requests
func (r *WorkflowRepository) ListByUser(ctx context.Context, userID int64) ([]*workflow.Request, error) {
	return r.list(ctx, "user_id = ?", userID)
}

// List returns every request
func (r *WorkflowRepository) List(ctx context.Context) ([]*workflow.Request, error) {
	return r.list(ctx, "")
}

// UpdateStatus sets the request status
func (r *WorkflowRepository) UpdateStatus(ctx context.Context, id int64, status workflow.Status) (*workflow.Request, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE workflow_requests SET status = ? WHERE id = ?`), string(status), id)
	if err != nil {
		return nil, errors.DatabaseError("Failed to update workflow request", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, errors.NotFound("Workflow request")
	}
	return r.GetByID(ctx, id)
}
