package services

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sig-servicios/cotizador/auth"
	"github.com/sig-servicios/cotizador/internal/identity"
	"github.com/sig-servicios/cotizador/internal/models"
)

type fakeProvider struct {
	signUps   int
	deleted   []string
	nextID    string
	signInErr error
	updated   string
}

func (f *fakeProvider) SignUp(_ context.Context, email, _ string) (string, error) {
	f.signUps++
	if email == "taken@sig.com.mx" {
		return "", identity.ErrEmailTaken
	}
	return f.nextID, nil
}

func (f *fakeProvider) SignIn(_ context.Context, email, _ string) (*identity.Session, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return &identity.Session{UserID: f.nextID, Email: email}, nil
}

func (f *fakeProvider) DeleteIdentity(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeProvider) UpdatePassword(_ context.Context, email, current, _ string) error {
	if current != "old-pass" {
		return identity.ErrInvalidCredentials
	}
	f.updated = email
	return nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newAccounts(t *testing.T, p *fakeProvider) (*AccountService, *auth.Issuer) {
	store, _ := newStore(t)
	issuer := auth.NewIssuer("test-secret", time.Hour)
	return NewAccountService(store, p, issuer, "@sig.com.mx", quietLogger()), issuer
}

func TestRegisterRejectsForeignDomainBeforeProvider(t *testing.T) {
	p := &fakeProvider{nextID: "u-1"}
	svc, _ := newAccounts(t, p)
	var ve *ValidationError
	for _, email := range []string{"ana@gmail.com", "ana@evilsig.com.mx"} {
		_, err := svc.Register(context.Background(), RegisterInput{Name: "Ana", Email: email, Password: "secret123"})
		if !errors.As(err, &ve) || ve.Violations["email"] != "corporate_domain_required" {
			t.Fatalf("%s: expected corporate domain violation, got %v", email, err)
		}
	}
	if p.signUps != 0 {
		t.Fatalf("provider contacted %d times", p.signUps)
	}
}

func TestRegisterCreatesProfile(t *testing.T) {
	p := &fakeProvider{nextID: "u-1"}
	svc, _ := newAccounts(t, p)
	u, err := svc.Register(context.Background(), RegisterInput{Name: " Ana ", Email: "Ana@SIG.com.mx", Password: "secret123", Role: "seller", Department: "Ventas"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.ID != "u-1" || u.Email != "ana@sig.com.mx" || u.Name != "Ana" || u.Role != models.RoleSeller {
		t.Fatalf("profile %+v", u)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAccounts(t, &fakeProvider{nextID: "u-1"})
	_, err := svc.Register(context.Background(), RegisterInput{Name: "X", Email: "taken@sig.com.mx", Password: "secret123"})
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Message != "email_already_registered" {
		t.Fatalf("expected email_already_registered, got %v", err)
	}
}

func TestRegisterRollsBackIdentityWhenProfileFails(t *testing.T) {
	p := &fakeProvider{nextID: "u-2"}
	svc, _ := newAccounts(t, p)
	store := svc.store
	// A profile already holding the email makes the insert fail on the unique index.
	if err := store.Admin(context.Background()).Create(&models.User{ID: "u-1", Name: "Old", Email: "dup@sig.com.mx", Active: true}).Error; err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Register(context.Background(), RegisterInput{Name: "New", Email: "dup@sig.com.mx", Password: "secret123"}); err == nil {
		t.Fatal("expected profile insert to fail")
	}
	if len(p.deleted) != 1 || p.deleted[0] != "u-2" {
		t.Fatalf("expected identity u-2 deleted, got %v", p.deleted)
	}
}

func TestLoginCarriesProfileIntoToken(t *testing.T) {
	p := &fakeProvider{nextID: "u-1"}
	svc, issuer := newAccounts(t, p)
	if _, err := svc.Register(context.Background(), RegisterInput{Name: "Ana", Email: "ana@sig.com.mx", Password: "secret123", Role: "seller"}); err != nil {
		t.Fatal(err)
	}
	sess, err := svc.Login(context.Background(), LoginInput{Email: "ana@sig.com.mx", Password: "secret123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := issuer.Parse(sess.Token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Subject != "u-1" || claims.Name != "Ana" || claims.UserRole != "seller" || claims.Role != auth.RoleAuthenticated {
		t.Fatalf("claims %+v", claims)
	}
	if sess.User == nil || sess.User.Name != "Ana" {
		t.Fatalf("user %+v", sess.User)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	svc, _ := newAccounts(t, &fakeProvider{signInErr: identity.ErrInvalidCredentials})
	_, err := svc.Login(context.Background(), LoginInput{Email: "a@sig.com.mx", Password: "x"})
	if !errors.Is(err, identity.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	p := &fakeProvider{}
	svc, _ := newAccounts(t, p)
	ctx := userCtx("u-1")

	err := svc.ChangePassword(ctx, ChangePasswordInput{CurrentPassword: "old-pass", NewPassword: "short"})
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Violations["new_password"] != "min_length_8" {
		t.Fatalf("expected min length violation, got %v", err)
	}
	err = svc.ChangePassword(ctx, ChangePasswordInput{CurrentPassword: "wrong", NewPassword: "long-enough"})
	if !errors.As(err, &ve) || ve.Message != "current_password_incorrect" {
		t.Fatalf("expected current_password_incorrect, got %v", err)
	}
	if err := svc.ChangePassword(ctx, ChangePasswordInput{CurrentPassword: "old-pass", NewPassword: "long-enough"}); err != nil {
		t.Fatalf("change: %v", err)
	}
	if p.updated != "u-1@sig.com.mx" {
		t.Fatalf("updated %q", p.updated)
	}
	if err := svc.ChangePassword(context.Background(), ChangePasswordInput{}); !errors.Is(err, auth.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
