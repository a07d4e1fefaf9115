package service

import (
	"context"
	"errors"
	"strings"

	"github.com/linkstash/linkstash/internal/apperr"
	"github.com/linkstash/linkstash/internal/auth"
	"github.com/linkstash/linkstash/internal/cache"
	"github.com/linkstash/linkstash/internal/model"
	"github.com/linkstash/linkstash/internal/repository"
)

const maxIdentifierLength = 256

// UserStore is the record-store capability consumed by UserService.
type UserStore interface {
	CreateUser(ctx context.Context, username, email, hashedPassword string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// UserService handles registration and credential checks.
type UserService struct {
	store       UserStore
	invalidator *cache.Invalidator
}

// NewUserService creates a new UserService.
func NewUserService(store UserStore, invalidator *cache.Invalidator) *UserService {
	return &UserService{store: store, invalidator: invalidator}
}

// Register creates a new user with a hashed credential.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || len(username) > maxIdentifierLength {
		return nil, apperr.Validation("Username is required and cannot exceed 256 characters")
	}
	if email == "" || !strings.Contains(email, "@") || len(email) > maxIdentifierLength {
		return nil, apperr.Validation("A valid email is required")
	}
	if len(password) < 8 {
		return nil, apperr.Validation("Password must be at least 8 characters")
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.store.CreateUser(ctx, username, email, hashed)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameTaken):
			return nil, apperr.Conflict("This username is already in use")
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, apperr.Conflict("This email is already in use")
		}
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and returns the user. Unknown email and
// wrong password report identically to avoid account enumeration.
func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.Unauthorized("Incorrect email or password")
		}
		return nil, err
	}

	match, err := auth.VerifyPassword(password, user.HashedPassword)
	if err != nil || !match {
		return nil, apperr.Unauthorized("Incorrect email or password")
	}

	return user, nil
}

// Get returns the account behind an authenticated principal id.
func (s *UserService) Get(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, err
	}
	return user, nil
}

// Delete removes an account. Categories and links go with it via the
// store cascade; cached listings are invalidated best-effort.
func (s *UserService) Delete(ctx context.Context, userID int64) error {
	if err := s.store.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperr.NotFound("User not found")
		}
		return err
	}

	s.invalidator.OnUserDeleted(ctx, userID)

	return nil
}
