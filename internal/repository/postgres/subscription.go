package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pratik-mahalle/processimo/internal/domain/subscription"
	"github.com/pratik-mahalle/processimo/internal/pkg/errors"
)

// SubscriptionRepository implements subscription.Repository for one kind.
// Agent and team subscriptions live in separate tables.
type SubscriptionRepository struct {
	db      *sqlx.DB
	kind    subscription.Kind
	table   string
	product string
	columns string
}

// NewSubscriptionRepository creates a repository over the table for kind
func NewSubscriptionRepository(db *sqlx.DB, kind subscription.Kind) *SubscriptionRepository {
	r := &SubscriptionRepository{db: db, kind: kind, table: "agent_subscriptions", product: "agent_id"}
	if kind == subscription.KindTeam {
		r.table = "team_subscriptions"
		r.product = "team_id"
	}
	r.columns = `id, user_id, ` + r.product + ` AS product_id, status, start_date, end_date,
		stripe_subscription_id, stripe_payment_intent_id, stripe_price_id, created_at`
	return r
}

type subscriptionRow struct {
	ID                    int64   `db:"id"`
	UserID                int64   `db:"user_id"`
	ProductID             int64   `db:"product_id"`
	Status                string  `db:"status"`
	StartDate             int64   `db:"start_date"`
	EndDate               *int64  `db:"end_date"`
	StripeSubscriptionID  *string `db:"stripe_subscription_id"`
	StripePaymentIntentID *string `db:"stripe_payment_intent_id"`
	StripePriceID         *string `db:"stripe_price_id"`
	CreatedAt             int64   `db:"created_at"`
}

func (r *SubscriptionRepository) toDomain(row subscriptionRow) *subscription.Subscription {
	s := subscription.New(r.kind, row.UserID, row.ProductID)
	s.ID = row.ID
	s.Status = subscription.Status(row.Status)
	s.StartDate = fromUnix(row.StartDate)
	if row.EndDate != nil {
		t := fromUnix(*row.EndDate)
		s.EndDate = &t
	}
	s.StripeSubscriptionID = row.StripeSubscriptionID
	s.StripePaymentIntentID = row.StripePaymentIntentID
	s.StripePriceID = row.StripePriceID
	s.CreatedAt = fromUnix(row.CreatedAt)
	return s
}

// Create stores s, defaulting status to pending and start date to now
func (r *SubscriptionRepository) Create(ctx context.Context, s *subscription.Subscription) error {
	if s.Status == "" {
		s.Status = subscription.StatusPending
	}
	s.Kind = r.kind
	s.CreatedAt = nowUTC()
	if s.StartDate.IsZero() {
		s.StartDate = s.CreatedAt
	}

	var endDate *int64
	if s.EndDate != nil {
		v := unix(*s.EndDate)
		endDate = &v
	}

	query := r.db.Rebind(`
		INSERT INTO ` + r.table + ` (user_id, ` + r.product + `, status, start_date, end_date,
			stripe_subscription_id, stripe_payment_intent_id, stripe_price_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`)
	err := r.db.QueryRowxContext(ctx, query,
		s.UserID, s.ProductID(), string(s.Status), unix(s.StartDate), endDate,
		s.StripeSubscriptionID, s.StripePaymentIntentID, s.StripePriceID, unix(s.CreatedAt),
	).Scan(&s.ID)
	if err != nil {
		return errors.DatabaseError("Failed to create subscription", err)
	}
	return nil
}

// GetByID retrieves a subscription by ID
func (r *SubscriptionRepository) GetByID(ctx context.Context, id int64) (*subscription.Subscription, error) {
	var row subscriptionRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT `+r.columns+` FROM `+r.table+` WHERE id = ?`), id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("Subscription")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get subscription", err)
	}
	return r.toDomain(row), nil
}

func (r *SubscriptionRepository) list(ctx context.Context, where string, args []interface{}, statuses []subscription.Status) ([]*subscription.Subscription, error) {
	query := `SELECT ` + r.columns + ` FROM ` + r.table + ` WHERE ` + where
	if len(statuses) > 0 {
		query += ` AND status IN (?)`
		names := make([]string, len(statuses))
		for i, s := range statuses {
			names[i] = string(s)
		}
		args = append(args, names)
	}
	query += ` ORDER BY id`

	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, errors.DatabaseError("Failed to build subscription query", err)
	}

	var rows []subscriptionRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, errors.DatabaseError("Failed to list subscriptions", err)
	}
	out := make([]*subscription.Subscription, 0, len(rows))
	for _, row := range rows {
		out = append(out, r.toDomain(row))
	}
	return out, nil
}

// ListByUser returns the user's subscriptions
func (r *SubscriptionRepository) ListByUser(ctx context.Context, userID int64) ([]*subscription.Subscription, error) {
	return r.list(ctx, "user_id = ?", []interface{}{userID}, nil)
}

// ListByPair returns the user's subscriptions to productID with one of statuses
func (r *SubscriptionRepository) ListByPair(ctx context.Context, userID, productID int64, statuses ...subscription.Status) ([]*subscription.Subscription, error) {
	return r.list(ctx, "user_id = ? AND "+r.product+" = ?", []interface{}{userID, productID}, statuses)
}

// ListByProduct returns subscriptions to productID with one of statuses
func (r *SubscriptionRepository) ListByProduct(ctx context.Context, productID int64, statuses ...subscription.Status) ([]*subscription.Subscription, error) {
	return r.list(ctx, r.product+" = ?", []interface{}{productID}, statuses)
}

// ListByStatus returns subscriptions in status
func (r *SubscriptionRepository) ListByStatus(ctx context.Context, status subscription.Status) ([]*subscription.Subscription, error) {
	return r.list(ctx, "status = ?", []interface{}{string(status)}, nil)
}

// Update merges patch over the stored subscription inside a transaction
func (r *SubscriptionRepository) Update(ctx context.Context, id int64, patch subscription.Patch) (*subscription.Subscription, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.DatabaseError("Failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	var row subscriptionRow
	err = tx.GetContext(ctx, &row, tx.Rebind(`SELECT `+r.columns+` FROM `+r.table+` WHERE id = ?`+lockClause(r.db)), id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("Subscription")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get subscription", err)
	}

	s := r.toDomain(row)
	if patch.EndDate != nil {
		t := patch.EndDate.UTC().Truncate(time.Second)
		patch.EndDate = &t
	}
	patch.Apply(s)

	var endDate *int64
	if s.EndDate != nil {
		v := unix(*s.EndDate)
		endDate = &v
	}

	_, err = tx.ExecContext(ctx, tx.Rebind(`
		UPDATE `+r.table+`
		SET status = ?, end_date = ?, stripe_subscription_id = ?, stripe_payment_intent_id = ?, stripe_price_id = ?
		WHERE id = ?
	`),
		string(s.Status), endDate, s.StripeSubscriptionID, s.StripePaymentIntentID, s.StripePriceID, id,
	)
	if err != nil {
		return nil, errors.DatabaseError("Failed to update subscription", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.DatabaseError("Failed to commit subscription update", err)
	}
	return s, nil
}
