// Package datastore gives handlers their three ways into the database:
// anonymous, admin and scoped to the caller's identity.
package datastore

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/sig-servicios/cotizador/auth"
)

// Scoper applies a caller's identity to an open transaction.
type Scoper interface {
	Scope(tx *gorm.DB, claims *auth.Claims) error
}

// PostgresScoper switches the transaction to the authenticated role and
// publishes the claims where row-level-security policies read them.
type PostgresScoper struct{}

func (PostgresScoper) Scope(tx *gorm.DB, claims *auth.Claims) error {
	raw, err := json.Marshal(claims)
	if err != nil {
		return fmt.Errorf("encode claims: %w", err)
	}
	if err := tx.Exec("SET LOCAL ROLE " + auth.RoleAuthenticated).Error; err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	if err := tx.Exec("SELECT set_config('request.jwt.claims', ?, true), set_config('request.jwt.claim.sub', ?, true)",
		string(raw), claims.UserID()).Error; err != nil {
		return fmt.Errorf("set claims: %w", err)
	}
	return nil
}

// NopScoper leaves the transaction untouched. Used with stores lacking RLS (sqlite).
type NopScoper struct{}

func (NopScoper) Scope(*gorm.DB, *auth.Claims) error { return nil }

// Store hands out database handles by credential tier.
type Store struct {
	anon   *gorm.DB
	admin  *gorm.DB
	scoper Scoper
}

// New builds a Store. anon may equal admin when the deployment has a single
// connection; the scoper then carries all row filtering.
func New(anon, admin *gorm.DB, scoper Scoper) *Store {
	if scoper == nil {
		scoper = NopScoper{}
	}
	if anon == nil {
		anon = admin
	}
	return &Store{anon: anon, admin: admin, scoper: scoper}
}

// Anon is for registration and login lookups only.
func (s *Store) Anon(ctx context.Context) *gorm.DB { return s.anon.WithContext(ctx) }

// Admin bypasses row-level security. Reserved for profile bootstrap,
// login profile fetch and registration rollback.
func (s *Store) Admin(ctx context.Context) *gorm.DB { return s.admin.WithContext(ctx) }

// AsUser runs fn inside a transaction scoped to claims. Nil claims fail
// with auth.ErrUnauthorized before any statement is issued.
func (s *Store) AsUser(ctx context.Context, claims *auth.Claims, fn func(tx *gorm.DB) error) error {
	if claims == nil || claims.UserID() == "" {
		return auth.ErrUnauthorized
	}
	return s.admin.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.scoper.Scope(tx, claims); err != nil {
			return err
		}
		return fn(tx)
	})
}

// FromContext is AsUser with the claims attached to ctx by auth middleware.
func (s *Store) FromContext(ctx context.Context, fn func(tx *gorm.DB) error) error {
	claims, _ := auth.ClaimsFromContext(ctx)
	return s.AsUser(ctx, claims, fn)
}

// Ping checks the admin connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.admin.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
