package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/sig-servicios/cotizador/auth"
	"github.com/sig-servicios/cotizador/internal/datastore"
	"github.com/sig-servicios/cotizador/internal/identity"
	"github.com/sig-servicios/cotizador/internal/logging"
	"github.com/sig-servicios/cotizador/internal/models"
	"github.com/sig-servicios/cotizador/validation"
)

// MinNewPasswordLength applies to password changes.
const MinNewPasswordLength = 8

// AccountService registers identities and opens sessions.
type AccountService struct {
	store    *datastore.Store
	provider identity.Provider
	issuer   *auth.Issuer
	domain   string
	log      logrus.FieldLogger
}

func NewAccountService(store *datastore.Store, provider identity.Provider, issuer *auth.Issuer, emailDomain string, log logrus.FieldLogger) *AccountService {
	return &AccountService{store: store, provider: provider, issuer: issuer, domain: strings.ToLower(emailDomain), log: log}
}

type RegisterInput struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

// Session is returned by Login.
type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// Register creates the identity and then its profile. When the profile
// cannot be written the identity is deleted again.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	v := validation.Violations{}
	email := identity.NormalizeEmail(in.Email)
	if s.domain != "" && !strings.HasSuffix(email, s.domain) {
		v["email"] = "corporate_domain_required"
	}
	if err := check(in, v); err != nil {
		return nil, err
	}

	id, err := s.provider.SignUp(ctx, email, in.Password)
	switch {
	case errors.Is(err, identity.ErrEmailTaken):
		return nil, invalid("email_already_registered", nil)
	case errors.Is(err, identity.ErrWeakPassword):
		return nil, invalid("weak_password", validation.Violations{"password": "too_weak"})
	case err != nil:
		return nil, err
	}

	user := models.User{
		ID:         id,
		Name:       strings.TrimSpace(in.Name),
		Email:      email,
		Role:       strings.TrimSpace(in.Role),
		Department: strings.TrimSpace(in.Department),
		Active:     true,
	}
	if err := s.store.Admin(ctx).Create(&user).Error; err != nil {
		if derr := s.provider.DeleteIdentity(ctx, id); derr != nil {
			logging.Error(s.log, "account.go", "Register", "rollback identity", id, derr)
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return &user, nil
}

// Login verifies credentials and issues a token carrying the profile's name and role.
func (s *AccountService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if err := check(in, validation.Violations{}); err != nil {
		return nil, err
	}
	sess, err := s.provider.SignIn(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}
	user := models.User{ID: sess.UserID, Email: sess.Email, Active: true}
	err = s.store.Admin(ctx).First(&user, "id = ?", sess.UserID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	token, exp, err := s.issuer.Issue(user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: exp, User: &user}, nil
}

// ChangePassword re-verifies the current password with the provider.
func (s *AccountService) ChangePassword(ctx context.Context, in ChangePasswordInput) error {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return auth.ErrUnauthorized
	}
	v := validation.Violations{}
	if len(in.NewPassword) < MinNewPasswordLength {
		v["new_password"] = "min_length_8"
	}
	if err := check(in, v); err != nil {
		return err
	}
	err := s.provider.UpdatePassword(ctx, claims.Email, in.CurrentPassword, in.NewPassword)
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		return invalid("current_password_incorrect", validation.Violations{"current_password": "incorrect"})
	case errors.Is(err, identity.ErrWeakPassword):
		return invalid("weak_password", validation.Violations{"new_password": "too_weak"})
	}
	return err
}
