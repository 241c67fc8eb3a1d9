// Package identity talks to the identity provider that owns credentials.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmailTaken         = errors.New("email_already_registered")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrWeakPassword       = errors.New("weak_password")
	ErrNotFound           = errors.New("identity_not_found")
)

// MinPasswordLength is the shortest password any provider accepts.
const MinPasswordLength = 6

// Session is a verified sign-in.
type Session struct {
	UserID string
	Email  string
}

// Provider creates, verifies and removes identities.
type Provider interface {
	SignUp(ctx context.Context, email, password string) (string, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	DeleteIdentity(ctx context.Context, id string) error
	// UpdatePassword re-verifies current before storing next.
	UpdatePassword(ctx context.Context, email, current, next string) error
}

// ProviderError is an unexpected answer from a remote provider.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("identity provider: %d %s", e.Status, e.Message)
}

// NormalizeEmail lowercases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
