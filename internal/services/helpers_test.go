package services

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sig-servicios/cotizador/auth"
	"github.com/sig-servicios/cotizador/internal/datastore"
	"github.com/sig-servicios/cotizador/internal/db"
)

func newStore(t *testing.T) (*datastore.Store, *gorm.DB) {
	t.Helper()
	d, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(d); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return datastore.New(nil, d, nil), d
}

func userCtx(id string) context.Context {
	c := &auth.Claims{Email: id + "@sig.com.mx", Role: auth.RoleAuthenticated, RegisteredClaims: jwt.RegisteredClaims{Subject: id}}
	return auth.WithClaims(context.Background(), c, "tok")
}

func ptr[T any](v T) *T { return &v }
