package domain

import (
	"strings"
	"time"

	"github.com/example/storefront/internal/apperr"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	minUsernameLength = 3
	minPasswordLength = 6
)

// User is a registered account. PasswordHash is a bcrypt digest and never
// leaves the service layer.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin reports whether the user has the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Registration carries the fields collected at sign-up.
type Registration struct {
	Username string
	Email    string
	Password string
	FullName string
	Phone    string
	Address  string
}

// Validate checks the registration fields.
func (r Registration) Validate() error {
	if len(strings.TrimSpace(r.Username)) < minUsernameLength {
		return apperr.Validation("username must be at least %d characters", minUsernameLength)
	}
	if !strings.Contains(r.Email, "@") {
		return apperr.Validation("email address is not valid")
	}
	if len(r.Password) < minPasswordLength {
		return apperr.Validation("password must be at least %d characters", minPasswordLength)
	}
	if strings.TrimSpace(r.FullName) == "" {
		return apperr.Validation("full name must not be empty")
	}
	return nil
}
