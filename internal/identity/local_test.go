package identity

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sig-servicios/cotizador/internal/datastore"
)

func openIdentities(t *testing.T, name string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&Identity{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newLocal(t *testing.T) *LocalProvider {
	t.Helper()
	p := NewLocalProvider(datastore.New(nil, openIdentities(t, t.Name()), nil))
	p.cost = bcrypt.MinCost
	return p
}

func TestLocalSignUpSignIn(t *testing.T) {
	p := newLocal(t)
	ctx := context.Background()
	id, err := p.SignUp(ctx, " Ana@SIG.com.mx ", "secret123")
	if err != nil || id == "" {
		t.Fatalf("signup: id=%q err=%v", id, err)
	}
	if _, err := p.SignUp(ctx, "ana@sig.com.mx", "other123"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	s, err := p.SignIn(ctx, "ana@sig.com.mx", "secret123")
	if err != nil {
		t.Fatalf("signin: %v", err)
	}
	if s.UserID != id || s.Email != "ana@sig.com.mx" {
		t.Fatalf("unexpected session %#v", s)
	}
	if _, err := p.SignIn(ctx, "ana@sig.com.mx", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := p.SignIn(ctx, "nobody@sig.com.mx", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: %v", err)
	}
}

func TestLocalWeakPassword(t *testing.T) {
	p := newLocal(t)
	if _, err := p.SignUp(context.Background(), "a@sig.com.mx", "123"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestLocalUpdatePasswordAndDelete(t *testing.T) {
	p := newLocal(t)
	ctx := context.Background()
	id, err := p.SignUp(ctx, "b@sig.com.mx", "first-pass")
	if err != nil {
		t.Fatal(err)
	}
	if err := p.UpdatePassword(ctx, "b@sig.com.mx", "bad-current", "second-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected current password check, got %v", err)
	}
	if err := p.UpdatePassword(ctx, "b@sig.com.mx", "first-pass", "second-pass"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := p.SignIn(ctx, "b@sig.com.mx", "second-pass"); err != nil {
		t.Fatalf("signin with new password: %v", err)
	}
	if err := p.DeleteIdentity(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := p.DeleteIdentity(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}

func TestLocalLookupsUseAnonymousTier(t *testing.T) {
	anon := openIdentities(t, t.Name()+"-anon")
	admin := openIdentities(t, t.Name()+"-admin")
	p := NewLocalProvider(datastore.New(anon, admin, nil))
	p.cost = bcrypt.MinCost
	ctx := context.Background()

	id, err := p.SignUp(ctx, "c@sig.com.mx", "secret123")
	if err != nil {
		t.Fatal(err)
	}
	var inAnon, inAdmin int64
	anon.Model(&Identity{}).Count(&inAnon)
	admin.Model(&Identity{}).Count(&inAdmin)
	if inAnon != 1 || inAdmin != 0 {
		t.Fatalf("identity written to anon=%d admin=%d", inAnon, inAdmin)
	}
	if s, err := p.SignIn(ctx, "c@sig.com.mx", "secret123"); err != nil || s.UserID != id {
		t.Fatalf("signin through anonymous tier: %v", err)
	}
	if err := p.UpdatePassword(ctx, "c@sig.com.mx", "secret123", "secret456"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := p.DeleteIdentity(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("rollback must use the admin tier, got %v", err)
	}
}
