package user

import "context"

// Repository defines the interface for user data access
type Repository interface {
	// Create assigns the next id and stores the user
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int64) (*User, error)

	// GetByUsername retrieves a user by username, ignoring case
	GetByUsername(ctx context.Context, username string) (*User, error)

	// GetByEmail retrieves a user by email, ignoring case
	GetByEmail(ctx context.Context, email string) (*User, error)

	// UpdateStripeInfo merges non-empty provider references onto the user
	UpdateStripeInfo(ctx context.Context, id int64, info StripeInfo) (*User, error)

	// Count returns the number of users
	Count(ctx context.Context) (int, error)
}
