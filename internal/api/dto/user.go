package dto

import (
	"time"

	"github.com/pratik-mahalle/processimo/internal/domain/user"
)

// UserDTO is the public view of a user
type UserDTO struct {
	ID               int64     `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	FirstName        *string   `json:"firstName"`
	LastName         *string   `json:"lastName"`
	Role             string    `json:"role"`
	StripeCustomerID *string   `json:"stripeCustomerId"`
	CreatedAt        time.Time `json:"createdAt"`
}

// NewUserDTO converts a user, dropping the password hash
func NewUserDTO(u *user.User) *UserDTO {
	return &UserDTO{
		ID:               u.ID,
		Username:         u.Username,
		Email:            u.Email,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Role:             u.Role,
		StripeCustomerID: u.StripeCustomerID,
		CreatedAt:        u.CreatedAt,
	}
}
