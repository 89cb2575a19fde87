package auth

import (
	"context" // Context for store operations
	"errors"  // Sentinel errors

	"moneybook/internal/domain" // Importing domain models
	"moneybook/internal/store"  // Identity repository
	"moneybook/internal/utils"  // JWT utility functions

	"github.com/google/uuid"     // Opaque unique IDs
	"golang.org/x/crypto/bcrypt" // Password hashing
)

// ErrInvalidCredentials is returned for both an unknown email and a wrong
// password, so a caller cannot probe which emails are registered.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Service registers users, authenticates logins, and issues bearer tokens
type Service struct {
	users  store.IdentityStore // Registered users
	secret string              // JWT signing secret, injected from config
}

// NewService builds an auth service over an identity store
func NewService(users store.IdentityStore, jwtSecret string) *Service {
	return &Service{users: users, secret: jwtSecret}
}

// Register stores a new user with a hashed password and a fresh ID.
// Fails with store.ErrEmailTaken when the email is already registered.
func (s *Service) Register(ctx context.Context, name, email, password string) (domain.User, error) {
	// Hash the password; the plaintext is never stored
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}
	u := domain.User{
		UserID:       uuid.NewString(), // Freshly generated unique ID
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return domain.User{}, err // ErrEmailTaken or storage failure
	}
	return u, nil
}

// Login verifies the credentials and issues a signed, time-limited token
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidCredentials // Unknown email, same failure as wrong password
		}
		return "", err
	}
	// Compare provided password with stored hash
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return utils.GenerateJWT(u.UserID, s.secret) // Token bound to user_id, valid for utils.TokenTTL
}

// UserByID resolves an authenticated user ID back to its profile
func (s *Service) UserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.users.UserByID(ctx, userID)
}
