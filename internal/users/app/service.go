package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/example/storefront/internal/apperr"
	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/users/domain"
	"github.com/example/storefront/internal/users/ports"
)

// Service handles registration, login and profile management.
type Service struct {
	users  ports.UserRepository
	tokens *auth.TokenService
	logger *slog.Logger
}

func NewService(users ports.UserRepository, tokens *auth.TokenService, logger *slog.Logger) *Service {
	return &Service{users: users, tokens: tokens, logger: logger}
}

// Register creates a new account with the user role. Username and email
// must be unused.
func (s *Service) Register(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(reg.Username)
	email := strings.ToLower(strings.TrimSpace(reg.Email))

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, apperr.Conflict("username %s is already taken", username)
	} else if !errors.Is(err, ports.ErrNotFound) {
		return nil, apperr.Infrastructure(err, "checking username")
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperr.Conflict("email %s is already registered", email)
	} else if !errors.Is(err, ports.ErrNotFound) {
		return nil, apperr.Infrastructure(err, "checking email")
	}

	hash, err := auth.HashPassword(reg.Password)
	if err != nil {
		return nil, apperr.Infrastructure(err, "hashing password")
	}

	user := domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(reg.FullName),
		Phone:        strings.TrimSpace(reg.Phone),
		Address:      strings.TrimSpace(reg.Address),
		Role:         domain.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}

	id, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, apperr.Infrastructure(err, "creating user")
	}
	user.ID = id

	s.logger.Info("user registered",
		slog.Int64("user_id", id),
		slog.String("username", username))
	return &user, nil
}

// Token is an issued access token with its expiry.
type Token struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Authenticate verifies credentials and issues a JWT. Unknown usernames and
// wrong passwords return the same error.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*domain.User, *Token, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, nil, apperr.Validation("invalid username or password")
		}
		return nil, nil, apperr.Infrastructure(err, "looking up user")
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, nil, apperr.Validation("invalid username or password")
	}

	accessToken, expiresAt, err := s.tokens.IssueToken(user.ID, user.Role)
	if err != nil {
		return nil, nil, apperr.Infrastructure(err, "issuing token")
	}
	return user, &Token{AccessToken: accessToken, ExpiresAt: expiresAt}, nil
}

// GetProfile returns the account for the authenticated user.
func (s *Service) GetProfile(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, apperr.NotFound("user %d not found", userID)
		}
		return nil, apperr.Infrastructure(err, "loading user")
	}
	return user, nil
}

// ProfileUpdate carries the mutable profile fields. Nil means unchanged.
type ProfileUpdate struct {
	FullName *string
	Phone    *string
	Address  *string
}

// UpdateProfile applies the given changes to the user's profile.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (*domain.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.FullName != nil {
		if strings.TrimSpace(*update.FullName) == "" {
			return nil, apperr.Validation("full name must not be empty")
		}
		user.FullName = strings.TrimSpace(*update.FullName)
	}
	if update.Phone != nil {
		user.Phone = strings.TrimSpace(*update.Phone)
	}
	if update.Address != nil {
		user.Address = strings.TrimSpace(*update.Address)
	}

	if err := s.users.Update(ctx, *user); err != nil {
		return nil, apperr.Infrastructure(err, "updating user")
	}
	return user, nil
}
