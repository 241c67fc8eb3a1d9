package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sig-servicios/cotizador/internal/datastore"
)

// Identity is a locally stored credential.
type Identity struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Identity) TableName() string { return "auth_identities" }

// LocalProvider keeps bcrypt hashed credentials in the service's own database.
// Sign-up, sign-in and password checks use the anonymous tier; only the
// registration rollback needs the admin tier.
type LocalProvider struct {
	store *datastore.Store
	cost  int
}

func NewLocalProvider(store *datastore.Store) *LocalProvider {
	return &LocalProvider{store: store, cost: bcrypt.DefaultCost}
}

func (p *LocalProvider) SignUp(ctx context.Context, email, password string) (string, error) {
	email = NormalizeEmail(email)
	if len(password) < MinPasswordLength {
		return "", ErrWeakPassword
	}
	var count int64
	if err := p.store.Anon(ctx).Model(&Identity{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return "", ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	id := Identity{ID: uuid.NewString(), Email: email, PasswordHash: string(hash)}
	if err := p.store.Anon(ctx).Create(&id).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique") {
			return "", ErrEmailTaken
		}
		return "", err
	}
	return id.ID, nil
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	id, err := p.verify(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return &Session{UserID: id.ID, Email: id.Email}, nil
}

func (p *LocalProvider) DeleteIdentity(ctx context.Context, id string) error {
	res := p.store.Admin(ctx).Delete(&Identity{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *LocalProvider) UpdatePassword(ctx context.Context, email, current, next string) error {
	if len(next) < MinPasswordLength {
		return ErrWeakPassword
	}
	id, err := p.verify(ctx, email, current)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), p.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return p.store.Anon(ctx).Model(id).Update("password_hash", string(hash)).Error
}

func (p *LocalProvider) verify(ctx context.Context, email, password string) (*Identity, error) {
	var id Identity
	err := p.store.Anon(ctx).Where("email = ?", NormalizeEmail(email)).First(&id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(id.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &id, nil
}
