package services

import (
	"context"
	"strings"

	"github.com/pratik-mahalle/processimo/internal/auth"
	"github.com/pratik-mahalle/processimo/internal/domain/user"
	"github.com/pratik-mahalle/processimo/internal/pkg/errors"
	"github.com/pratik-mahalle/processimo/internal/pkg/logger"
)

// UserService implements user.Service
type UserService struct {
	repo       user.Repository
	bcryptCost int
	logger     *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(repo user.Repository, bcryptCost int, log *logger.Logger) user.Service {
	return &UserService{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     log,
	}
}

// Register creates a regular account
func (s *UserService) Register(ctx context.Context, input user.RegisterInput) (*user.User, error) {
	return s.CreateWithRole(ctx, input, user.RoleUser)
}

// CreateWithRole creates an account with role after checking username and email are free
func (s *UserService) CreateWithRole(ctx context.Context, input user.RegisterInput, role string) (*user.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil, errors.Conflict("Username already exists")
	} else if !errors.Is(err, errors.ErrCodeNotFound) {
		return nil, err
	}
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, errors.Conflict("Email already exists")
	} else if !errors.Is(err, errors.ErrCodeNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, errors.Internal("Failed to hash password", err)
	}

	u := &user.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         role,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create user")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": u.ID,
		"role":    u.Role,
	}).Info("User registered")

	return u, nil
}

// Authenticate checks a username/password pair
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*user.User, error) {
	u, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			return nil, errors.Unauthorized("Invalid username or password")
		}
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, errors.Unauthorized("Invalid username or password")
	}
	return u, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return s.repo.GetByID(ctx, id)
}

// AttachStripeCustomer stores the payment customer reference on the user
func (s *UserService) AttachStripeCustomer(ctx context.Context, id int64, customerID string) (*user.User, error) {
	if customerID == "" {
		return nil, errors.InvalidArgument("customer id is required")
	}
	u, err := s.repo.UpdateStripeInfo(ctx, id, user.StripeInfo{CustomerID: customerID})
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(map[string]interface{}{
		"user_id":     id,
		"customer_id": customerID,
	}).Info("Stripe customer attached")
	return u, nil
}
