package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/sig-servicios/cotizador/auth"
	"github.com/sig-servicios/cotizador/internal/datastore"
	"github.com/sig-servicios/cotizador/internal/models"
	"github.com/sig-servicios/cotizador/validation"
)

// UserService reads and edits profiles. Role is shown, never enforced.
type UserService struct {
	store *datastore.Store
}

func NewUserService(store *datastore.Store) *UserService {
	return &UserService{store: store}
}

type UpdateProfileInput struct {
	Name       *string `json:"name"`
	Department *string `json:"department"`
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.store.FromContext(ctx, func(tx *gorm.DB) error {
		return tx.Order("name asc").Find(&users).Error
	})
	return users, err
}

func (s *UserService) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	err := s.store.FromContext(ctx, func(tx *gorm.DB) error {
		return first(tx, &user, "id = ?", currentUserID(ctx))
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) UpdateMe(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	changes := map[string]any{}
	v := validation.Violations{}
	if in.Name != nil {
		validation.Required("name", *in.Name, v)
		changes["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Department != nil {
		changes["department"] = strings.TrimSpace(*in.Department)
	}
	if !v.Empty() {
		return nil, invalid("validation_failed", v)
	}
	var user models.User
	err := s.store.FromContext(ctx, func(tx *gorm.DB) error {
		if err := first(tx, &user, "id = ?", currentUserID(ctx)); err != nil {
			return err
		}
		if len(changes) == 0 {
			return nil
		}
		if err := tx.Model(&user).Updates(changes).Error; err != nil {
			return err
		}
		return tx.First(&user, "id = ?", user.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func currentUserID(ctx context.Context) string {
	c, _ := auth.ClaimsFromContext(ctx)
	return c.UserID()
}

// first loads one row and maps a missing row to ErrNotFound.
func first(tx *gorm.DB, dst any, conds ...any) error {
	err := tx.First(dst, conds...).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
