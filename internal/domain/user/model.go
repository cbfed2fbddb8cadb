package user

import "time"

// User is a marketplace account
type User struct {
	ID                   int64     `json:"id"`
	Username             string    `json:"username"`
	Email                string    `json:"email"`
	PasswordHash         string    `json:"-"`
	FirstName            *string   `json:"firstName"`
	LastName             *string   `json:"lastName"`
	Role                 string    `json:"role"`
	StripeCustomerID     *string   `json:"stripeCustomerId"`
	StripeSubscriptionID *string   `json:"stripeSubscriptionId"`
	CreatedAt            time.Time `json:"createdAt"`
}

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// IsAdmin reports whether the user may use admin endpoints
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// DisplayName is used as the payment customer name
func (u *User) DisplayName() string {
	if u.FirstName != nil && u.LastName != nil {
		return *u.FirstName + " " + *u.LastName
	}
	return u.Username
}

// StripeInfo carries provider references to attach to a user. Empty values keep the stored ones.
type StripeInfo struct {
	CustomerID     string
	SubscriptionID string
}

// RegisterInput is the data needed to create an account
type RegisterInput struct {
	Username  string  `json:"username" validate:"required,min=3,max=64,handle"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8"`
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName,omitempty" validate:"omitempty,max=100"`
}
