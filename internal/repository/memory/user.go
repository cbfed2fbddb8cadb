package memory

import (
	"context"
	"strings"

	"github.com/pratik-mahalle/processimo/internal/domain/user"
	"github.com/pratik-mahalle/processimo/internal/pkg/errors"
)

// UserRepository implements user.Repository
type UserRepository struct {
	users *collection[user.User]
}

// NewUserRepository creates an empty user repository
func NewUserRepository() *UserRepository {
	return &UserRepository{users: newCollection(cloneUser)}
}

func cloneUser(u *user.User) *user.User {
	c := *u
	c.FirstName = cloneStr(u.FirstName)
	c.LastName = cloneStr(u.LastName)
	c.StripeCustomerID = cloneStr(u.StripeCustomerID)
	c.StripeSubscriptionID = cloneStr(u.StripeSubscriptionID)
	return &c
}

func cloneStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// Create stores u, defaulting the role to user
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	if u.Role == "" {
		u.Role = user.RoleUser
	}
	r.users.insert(u, func(v *user.User, id int64) {
		v.ID = id
		v.CreatedAt = now()
	})
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	u, ok := r.users.get(id)
	if !ok {
		return nil, errors.NotFound("User")
	}
	return u, nil
}

// GetByUsername retrieves a user by username, ignoring case
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	u, ok := r.users.find(func(v *user.User) bool {
		return strings.EqualFold(v.Username, username)
	})
	if !ok {
		return nil, errors.NotFound("User")
	}
	return u, nil
}

// GetByEmail retrieves a user by email, ignoring case
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	u, ok := r.users.find(func(v *user.User) bool {
		return strings.EqualFold(v.Email, email)
	})
	if !ok {
		return nil, errors.NotFound("User")
	}
	return u, nil
}

// UpdateStripeInfo merges non-empty provider references onto the user
func (r *UserRepository) UpdateStripeInfo(ctx context.Context, id int64, info user.StripeInfo) (*user.User, error) {
	u, ok, _ := r.users.update(id, func(v *user.User) error {
		if info.CustomerID != "" {
			c := info.CustomerID
			v.StripeCustomerID = &c
		}
		if info.SubscriptionID != "" {
			s := info.SubscriptionID
			v.StripeSubscriptionID = &s
		}
		return nil
	})
	if !ok {
		return nil, errors.NotFound("User")
	}
	return u, nil
}

// Count returns the number of users
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	return r.users.len(), nil
}
