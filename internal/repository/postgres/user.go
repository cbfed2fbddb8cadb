package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/jmoiron/sqlx"

	"github.com/pratik-mahalle/processimo/internal/domain/user"
	"github.com/pratik-mahalle/processimo/internal/pkg/errors"
)

// UserRepository implements user.Repository
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, email, password_hash, first_name, last_name, role,
	stripe_customer_id, stripe_subscription_id, created_at`

type userRow struct {
	ID                   int64   `db:"id"`
	Username             string  `db:"username"`
	Email                string  `db:"email"`
	PasswordHash         string  `db:"password_hash"`
	FirstName            *string `db:"first_name"`
	LastName             *string `db:"last_name"`
	Role                 string  `db:"role"`
	StripeCustomerID     *string `db:"stripe_customer_id"`
	StripeSubscriptionID *string `db:"stripe_subscription_id"`
	CreatedAt            int64   `db:"created_at"`
}

func (r userRow) toDomain() *user.User {
	return &user.User{
		ID:                   r.ID,
		Username:             r.Username,
		Email:                r.Email,
		PasswordHash:         r.PasswordHash,
		FirstName:            r.FirstName,
		LastName:             r.LastName,
		Role:                 r.Role,
		StripeCustomerID:     r.StripeCustomerID,
		StripeSubscriptionID: r.StripeSubscriptionID,
		CreatedAt:            fromUnix(r.CreatedAt),
	}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	if u.Role == "" {
		u.Role = user.RoleUser
	}
	u.CreatedAt = nowUTC()

	query := r.db.Rebind(`
		INSERT INTO users (username, email, password_hash, first_name, last_name, role,
			stripe_customer_id, stripe_subscription_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`)
	err := r.db.QueryRowxContext(ctx, query,
		u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Role,
		u.StripeCustomerID, u.StripeSubscriptionID, unix(u.CreatedAt),
	).Scan(&u.ID)
	if err != nil {
		return errors.DatabaseError("Failed to create user", err)
	}
	return nil
}

func (r *UserRepository) getBy(ctx context.Context, where string, arg interface{}) (*user.User, error) {
	var row userRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT `+userColumns+` FROM users WHERE `+where), arg)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("User")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get user", err)
	}
	return row.toDomain(), nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return r.getBy(ctx, "id = ?", id)
}

// GetByUsername retrieves a user by username, ignoring case
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.getBy(ctx, "LOWER(username) = LOWER(?)", username)
}

// GetByEmail retrieves a user by email, ignoring case
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getBy(ctx, "LOWER(email) = LOWER(?)", email)
}

// UpdateStripeInfo merges non-empty provider references onto the user
func (r *UserRepository) UpdateStripeInfo(ctx context.Context, id int64, info user.StripeInfo) (*user.User, error) {
	query := r.db.Rebind(`
		UPDATE users
		SET stripe_customer_id = COALESCE(NULLIF(?, ''), stripe_customer_id),
			stripe_subscription_id = COALESCE(NULLIF(?, ''), stripe_subscription_id)
		WHERE id = ?
	`)
	res, err := r.db.ExecContext(ctx, query, info.CustomerID, info.SubscriptionID, id)
	if err != nil {
		return nil, errors.DatabaseError("Failed to update user", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, errors.NotFound("User")
	}
	return r.GetByID(ctx, id)
}

// Count returns the number of users
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM users"); err != nil {
		return 0, errors.DatabaseError("Failed to count users", err)
	}
	return n, nil
}
