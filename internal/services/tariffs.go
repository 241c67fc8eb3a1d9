package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/sig-servicios/cotizador/internal/datastore"
	"github.com/sig-servicios/cotizador/internal/models"
	"github.com/sig-servicios/cotizador/validation"
)

// TariffService manages the service catalog.
type TariffService struct {
	store *datastore.Store
}

func NewTariffService(store *datastore.Store) *TariffService {
	return &TariffService{store: store}
}

type TariffInput struct {
	Concept              string  `json:"concept" validate:"required"`
	Description          string  `json:"description"`
	Unit                 string  `json:"unit" validate:"required,oneof=hour day"`
	PriceWithContract    float64 `json:"price_with_contract" validate:"gte=0"`
	PriceWithoutContract float64 `json:"price_without_contract" validate:"gte=0"`
	Currency             string  `json:"currency" validate:"omitempty,len=3"`
	Active               *bool   `json:"active"`
}

func (in TariffInput) apply(s *models.Service) {
	s.Concept = strings.TrimSpace(in.Concept)
	s.Description = strings.TrimSpace(in.Description)
	s.Unit = in.Unit
	s.PriceWithContract = roundMoney(in.PriceWithContract)
	s.PriceWithoutContract = roundMoney(in.PriceWithoutContract)
	s.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if s.Currency == "" {
		s.Currency = models.DefaultCurrency
	}
}

// List returns active services, or every service when all is set.
func (s *TariffService) List(ctx context.Context, all bool) ([]models.Service, error) {
	var out []models.Service
	err := s.store.FromContext(ctx, func(tx *gorm.DB) error {
		q := tx.Order("concept asc")
		if !all {
			q = q.Where("active = ?", true)
		}
		return q.Find(&out).Error
	})
	return out, err
}

func (s *TariffService) Create(ctx context.Context, in TariffInput) (*models.Service, error) {
	if err := check(in, validation.Violations{}); err != nil {
		return nil, err
	}
	svc := models.Service{Active: true}
	in.apply(&svc)
	err := s.store.FromContext(ctx, func(tx *gorm.DB) error {
		return tx.Create(&svc).Error
	})
	if err != nil {
		return nil, err
	}
	return &svc, nil
}

func (s *TariffService) Update(ctx context.Context, id uint, in TariffInput) (*models.Service, error) {
	if err := check(in, validation.Violations{}); err != nil {
		return nil, err
	}
	var svc models.Service
	err := s.store.FromContext(ctx, func(tx *gorm.DB) error {
		if err := first(tx, &svc, id); err != nil {
			return err
		}
		in.apply(&svc)
		if in.Active != nil {
			svc.Active = *in.Active
		}
		return tx.Save(&svc).Error
	})
	if err != nil {
		return nil, err
	}
	return &svc, nil
}

// Deactivate hides a service from active listings. Quotation items are untouched.
func (s *TariffService) Deactivate(ctx context.Context, id uint) (*models.Service, error) {
	var svc models.Service
	err := s.store.FromContext(ctx, func(tx *gorm.DB) error {
		if err := first(tx, &svc, id); err != nil {
			return err
		}
		return tx.Model(&svc).Update("active", false).Error
	})
	if err != nil {
		return nil, err
	}
	return &svc, nil
}
