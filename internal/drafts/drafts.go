// Package drafts keeps the in-progress inspection wizard state per user.
// Drafts are unvalidated and the last write wins.
package drafts

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sig-servicios/cotizador/internal/datastore"
	"github.com/sig-servicios/cotizador/internal/models"
)

var ErrNotFound = errors.New("draft_not_found")

type Store interface {
	Save(ctx context.Context, userID string, payload []byte) error
	Load(ctx context.Context, userID string) ([]byte, error)
	Delete(ctx context.Context, userID string) error
}

// GormStore writes drafts to the inspection_drafts table through the
// caller-scoped tier.
type GormStore struct {
	store *datastore.Store
}

func NewGormStore(store *datastore.Store) *GormStore {
	return &GormStore{store: store}
}

func (s *GormStore) Save(ctx context.Context, userID string, payload []byte) error {
	d := models.InspectionDraft{UserID: userID, Payload: datatypes.JSON(payload), UpdatedAt: time.Now()}
	return s.store.FromContext(ctx, func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).Create(&d).Error
	})
}

func (s *GormStore) Load(ctx context.Context, userID string) ([]byte, error) {
	var d models.InspectionDraft
	err := s.store.FromContext(ctx, func(tx *gorm.DB) error {
		return tx.First(&d, "user_id = ?", userID).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(d.Payload), nil
}

func (s *GormStore) Delete(ctx context.Context, userID string) error {
	return s.store.FromContext(ctx, func(tx *gorm.DB) error {
		return tx.Delete(&models.InspectionDraft{}, "user_id = ?", userID).Error
	})
}

const redisKeyPrefix = "cotizador:inspection-draft:"

// RedisStore keeps drafts in Redis with an expiry refreshed on each save.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, userID string, payload []byte) error {
	return s.rdb.Set(ctx, redisKeyPrefix+userID, payload, s.ttl).Err()
}

func (s *RedisStore) Load(ctx context.Context, userID string) ([]byte, error) {
	b, err := s.rdb.Get(ctx, redisKeyPrefix+userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return b, err
}

func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, redisKeyPrefix+userID).Err()
}
