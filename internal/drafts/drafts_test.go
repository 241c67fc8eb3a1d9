package drafts

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sig-servicios/cotizador/auth"
	"github.com/sig-servicios/cotizador/internal/datastore"
	"github.com/sig-servicios/cotizador/internal/models"
)

func TestGormStoreLastWriteWins(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.AutoMigrate(&models.InspectionDraft{}); err != nil {
		t.Fatal(err)
	}
	s := NewGormStore(datastore.New(nil, db, nil))
	ctx := auth.WithClaims(context.Background(), &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u-1"}}, "tok")

	if _, err := s.Load(ctx, "u-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Save(ctx, "u-1", []byte(`{"general":{"plant":"A"}}`)); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, "u-1", []byte(`{"general":{"plant":"B"}}`)); err != nil {
		t.Fatal(err)
	}
	got, err := s.Load(ctx, "u-1")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"general":{"plant":"B"}}` {
		t.Fatalf("payload = %s", got)
	}
	var n int64
	db.Model(&models.InspectionDraft{}).Count(&n)
	if n != 1 {
		t.Fatalf("expected one draft row, got %d", n)
	}
	if err := s.Delete(ctx, "u-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(ctx, "u-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("after delete: %v", err)
	}
}

func TestGormStoreRequiresIdentity(t *testing.T) {
	db, _ := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	s := NewGormStore(datastore.New(nil, db, nil))
	if err := s.Save(context.Background(), "u-1", []byte(`{}`)); !errors.Is(err, auth.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
