package datastore

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sig-servicios/cotizador/auth"
)

type recordingScoper struct {
	calls []string
}

func (r *recordingScoper) Scope(_ *gorm.DB, c *auth.Claims) error {
	r.calls = append(r.calls, c.UserID())
	return nil
}

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return db
}

func TestAsUserWithoutClaimsNeverTouchesStore(t *testing.T) {
	sc := &recordingScoper{}
	s := New(nil, openDB(t), sc)
	called := false
	err := s.AsUser(context.Background(), nil, func(*gorm.DB) error {
		called = true
		return nil
	})
	if !errors.Is(err, auth.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if called || len(sc.calls) != 0 {
		t.Fatal("store accessed without identity")
	}
	if err := s.FromContext(context.Background(), func(*gorm.DB) error { return nil }); !errors.Is(err, auth.ErrUnauthorized) {
		t.Fatalf("FromContext without claims: %v", err)
	}
}

func TestAsUserScopesAndRollsBack(t *testing.T) {
	db := openDB(t)
	type row struct {
		ID   uint
		Name string
	}
	if err := db.AutoMigrate(&row{}); err != nil {
		t.Fatal(err)
	}
	sc := &recordingScoper{}
	s := New(nil, db, sc)
	claims := &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u-1"}}

	boom := errors.New("boom")
	err := s.AsUser(context.Background(), claims, func(tx *gorm.DB) error {
		if err := tx.Create(&row{Name: "x"}).Error; err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}
	var n int64
	db.Model(&row{}).Count(&n)
	if n != 0 {
		t.Fatalf("expected rollback, found %d rows", n)
	}
	if len(sc.calls) != 1 || sc.calls[0] != "u-1" {
		t.Fatalf("scoper calls = %v", sc.calls)
	}
}
