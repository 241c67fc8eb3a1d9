package services

import (
	"context"
	"errors"
	"strings"

	"github.com/ttacon/libphonenumber"
	"gorm.io/gorm"

	"github.com/sig-servicios/cotizador/internal/datastore"
	"github.com/sig-servicios/cotizador/internal/models"
	"github.com/sig-servicios/cotizador/validation"
)

// ClientService manages billing clients.
type ClientService struct {
	store  *datastore.Store
	region string
}

func NewClientService(store *datastore.Store, phoneRegion string) *ClientService {
	if phoneRegion == "" {
		phoneRegion = "MX"
	}
	return &ClientService{store: store, region: strings.ToUpper(phoneRegion)}
}

type ClientInput struct {
	LegalName   string `json:"legal_name" validate:"required"`
	TradeName   string `json:"trade_name"`
	ContactName string `json:"contact_name"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postal_code"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone"`
}

func (in ClientInput) apply(c *models.Client, region string) {
	c.LegalName = strings.TrimSpace(in.LegalName)
	c.TradeName = strings.TrimSpace(in.TradeName)
	c.ContactName = strings.TrimSpace(in.ContactName)
	c.Address = strings.TrimSpace(in.Address)
	c.City = strings.TrimSpace(in.City)
	c.State = strings.TrimSpace(in.State)
	c.PostalCode = strings.TrimSpace(in.PostalCode)
	c.Email = strings.ToLower(strings.TrimSpace(in.Email))
	c.Phone = NormalizePhone(in.Phone, region)
}

// List returns clients whose legal or trade name contains q.
func (s *ClientService) List(ctx context.Context, q string) ([]models.Client, error) {
	var clients []models.Client
	err := s.store.FromContext(ctx, func(tx *gorm.DB) error {
		dbq := tx.Order("legal_name asc")
		if q = strings.TrimSpace(q); q != "" {
			like := "%" + strings.ToLower(q) + "%"
			dbq = dbq.Where("LOWER(legal_name) LIKE ? OR LOWER(trade_name) LIKE ?", like, like)
		}
		return dbq.Find(&clients).Error
	})
	return clients, err
}

func (s *ClientService) Get(ctx context.Context, id uint) (*models.Client, error) {
	var c models.Client
	err := s.store.FromContext(ctx, func(tx *gorm.DB) error {
		return first(tx, &c, id)
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ClientService) Create(ctx context.Context, in ClientInput) (*models.Client, error) {
	if err := check(in, validation.Violations{}); err != nil {
		return nil, err
	}
	c := models.Client{CreatedBy: currentUserID(ctx)}
	in.apply(&c, s.region)
	err := s.store.FromContext(ctx, func(tx *gorm.DB) error {
		return tx.Create(&c).Error
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ClientService) Update(ctx context.Context, id uint, in ClientInput) (*models.Client, error) {
	if err := check(in, validation.Violations{}); err != nil {
		return nil, err
	}
	var c models.Client
	err := s.store.FromContext(ctx, func(tx *gorm.DB) error {
		if err := first(tx, &c, id); err != nil {
			return err
		}
		in.apply(&c, s.region)
		return tx.Save(&c).Error
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Delete refuses to remove clients that quotations still reference.
func (s *ClientService) Delete(ctx context.Context, id uint) error {
	return s.store.FromContext(ctx, func(tx *gorm.DB) error {
		var c models.Client
		if err := first(tx, &c, id); err != nil {
			return err
		}
		var refs int64
		if err := tx.Model(&models.Quotation{}).Where("client_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return invalid("client_has_quotations", nil)
		}
		return tx.Delete(&c).Error
	})
}

// BillingParty is the free-text billing block of a quotation request.
type BillingParty struct {
	Name       string `json:"name"`
	TaxID      string `json:"tax_id"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

// Contact is a person block of a quotation request.
type Contact struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone"`
}

// ResolveClient picks the client a quotation belongs to. A supplied id wins.
// Otherwise the billing name is matched case-insensitively as a substring of
// existing legal names (lowest id first) and, failing that, a client is created
// from the billing block and the secondary contact. No id and no name yields nil.
func ResolveClient(tx *gorm.DB, id *uint, billing BillingParty, contact Contact, createdBy, region string) (*uint, error) {
	if id != nil {
		return id, nil
	}
	name := strings.TrimSpace(billing.Name)
	if name == "" {
		return nil, nil
	}
	var existing models.Client
	err := tx.Where("LOWER(legal_name) LIKE ?", "%"+strings.ToLower(name)+"%").Order("id asc").First(&existing).Error
	if err == nil {
		return &existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	c := models.Client{
		LegalName:   name,
		ContactName: strings.TrimSpace(contact.Name),
		Address:     strings.TrimSpace(billing.Address),
		City:        strings.TrimSpace(billing.City),
		State:       strings.TrimSpace(billing.State),
		PostalCode:  strings.TrimSpace(billing.PostalCode),
		Email:       strings.ToLower(strings.TrimSpace(contact.Email)),
		Phone:       NormalizePhone(contact.Phone, region),
		CreatedBy:   createdBy,
	}
	if err := tx.Create(&c).Error; err != nil {
		return nil, err
	}
	return &c.ID, nil
}

// NormalizePhone formats valid numbers as E.164. Anything unparsable is kept as typed.
func NormalizePhone(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	num, err := libphonenumber.Parse(raw, region)
	if err != nil || !libphonenumber.IsValidNumber(num) {
		return raw
	}
	return libphonenumber.Format(num, libphonenumber.E164)
}
