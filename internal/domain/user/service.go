package user

import "context"

// Service defines the interface for user business logic
type Service interface {
	// Register creates an account with a hashed password
	Register(ctx context.Context, input RegisterInput) (*User, error)

	// CreateWithRole creates an account with an explicit role (used by seeding)
	CreateWithRole(ctx context.Context, input RegisterInput, role string) (*User, error)

	// Authenticate checks credentials and returns the user
	Authenticate(ctx context.Context, username, password string) (*User, error)

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int64) (*User, error)

	// AttachStripeCustomer stores the payment customer reference on the user
	AttachStripeCustomer(ctx context.Context, id int64, customerID string) (*User, error)
}
