package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sig-servicios/cotizador/internal/datastore"
	"github.com/sig-servicios/cotizador/internal/export"
	"github.com/sig-servicios/cotizador/internal/models"
	"github.com/sig-servicios/cotizador/internal/pdf"
	"github.com/sig-servicios/cotizador/internal/reports"
	"github.com/sig-servicios/cotizador/validation"
)

// DefaultConcept names items sent without a concept.
const DefaultConcept = "Servicio"

// QuotationService creates quotations and moves them through their statuses.
type QuotationService struct {
	store  *datastore.Store
	region string
}

func NewQuotationService(store *datastore.Store, phoneRegion string) *QuotationService {
	if phoneRegion == "" {
		phoneRegion = "MX"
	}
	return &QuotationService{store: store, region: phoneRegion}
}

// Provider is the issuing party printed in the notes. Empty fields fall back
// to the stored company.
type Provider struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

type Terms struct {
	Pricing      string `json:"pricing"`
	Currency     string `json:"currency"`
	Machine      string `json:"machine"`
	Observations string `json:"observations"`
}

type ItemInput struct {
	Concept   string   `json:"concept"`
	Quantity  *float64 `json:"quantity"`
	UnitPrice *float64 `json:"unit_price"`
	Total     *float64 `json:"total"`
}

type CreateQuotationInput struct {
	ClientID         models.FlexibleID `json:"client_id"`
	Provider         Provider          `json:"provider"`
	Billing          BillingParty      `json:"billing"`
	PrimaryContact   Contact           `json:"primary_contact"`
	SecondaryContact Contact           `json:"secondary_contact"`
	Terms            Terms             `json:"terms"`
	Items            []ItemInput       `json:"items"`
	Status           string            `json:"status"`
	ServiceType      string            `json:"service_type"`
}

type StatusInput struct {
	Status        string  `json:"status"`
	PurchaseOrder *string `json:"purchase_order"`
	POStatus      *string `json:"po_status"`
}

type QuotationFilter struct {
	Status   string
	ClientID uint
}

// Lookups feeds the quotation form dropdowns.
type Lookups struct {
	Clients  []ClientOption   `json:"clients"`
	Services []models.Service `json:"services"`
}

type ClientOption struct {
	ID        uint   `json:"id"`
	LegalName string `json:"legal_name"`
}

// Create stores the header and its items in one transaction and returns the
// header with items and folio.
func (s *QuotationService) Create(ctx context.Context, in CreateQuotationInput) (*models.Quotation, error) {
	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = models.StatusDraft
	}
	v := validation.Violations{}
	if !models.ValidStatus(status) {
		v["status"] = "invalid_value"
	}
	items, total := buildItems(in.Items, v)
	if err := check(in, v); err != nil {
		return nil, err
	}

	uid := currentUserID(ctx)
	q := models.Quotation{
		CreatedBy:   uid,
		Total:       total,
		Status:      status,
		ServiceType: strings.TrimSpace(in.ServiceType),
		POStatus:    models.POPending,
	}
	err := s.store.FromContext(ctx, func(tx *gorm.DB) error {
		clientID, err := ResolveClient(tx, in.ClientID.Ptr(), in.Billing, in.SecondaryContact, uid, s.region)
		if err != nil {
			return fmt.Errorf("resolve client: %w", err)
		}
		q.ClientID = clientID

		var company models.Company
		if err := tx.Order("id asc").Limit(1).Find(&company).Error; err != nil {
			return err
		}
		q.Notes = ComposeNotes(in, &company)

		if err := tx.Omit("Items", "Client").Create(&q).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].QuotationID = q.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		q.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// buildItems applies item defaults and computes the header total.
func buildItems(in []ItemInput, v validation.Violations) ([]models.QuotationItem, float64) {
	items := make([]models.QuotationItem, 0, len(in))
	total := decimal.Zero
	for i, it := range in {
		concept := strings.TrimSpace(it.Concept)
		if concept == "" {
			concept = DefaultConcept
		}
		qty := 1.0
		if it.Quantity != nil && *it.Quantity != 0 {
			qty = *it.Quantity
		}
		price := 0.0
		if it.UnitPrice != nil {
			price = *it.UnitPrice
		}
		if qty < 0 {
			v[fmt.Sprintf("items[%d].quantity", i)] = "must_not_be_negative"
		}
		if price < 0 {
			v[fmt.Sprintf("items[%d].unit_price", i)] = "must_not_be_negative"
		}
		sub := lineSubtotal(qty, price, it.Total)
		total = total.Add(sub)
		subF, _ := sub.Float64()
		items = append(items, models.QuotationItem{
			Concept:   concept,
			Quantity:  qty,
			UnitPrice: roundMoney(price),
			Subtotal:  subF,
		})
	}
	t, _ := total.Round(2).Float64()
	return items, t
}

// ComposeNotes flattens the provider, billing, contact and terms blocks into
// the free-text notes stored on the header.
func ComposeNotes(in CreateQuotationInput, company *models.Company) string {
	var b strings.Builder
	section := func(title string, parts ...string) {
		var kept []string
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				kept = append(kept, p)
			}
		}
		if len(kept) == 0 {
			return
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(title + ": " + strings.Join(kept, " | "))
	}
	labeled := func(label, val string) string {
		if strings.TrimSpace(val) == "" {
			return ""
		}
		return label + " " + strings.TrimSpace(val)
	}

	p := in.Provider
	if company != nil {
		if p.Name == "" {
			p.Name = company.Name
		}
		if p.Email == "" {
			p.Email = company.Email
		}
		if p.Phone == "" {
			p.Phone = company.Phone
		}
	}
	section("PROVEEDOR", p.Name, p.Contact, p.Email, p.Phone)

	bp := in.Billing
	section("FACTURAR A", bp.Name, labeled("RFC:", bp.TaxID), bp.Address, bp.City, bp.State, labeled("C.P.", bp.PostalCode))

	contact := func(c Contact) string {
		var parts []string
		for _, s := range []string{c.Name, c.Position, c.Email, c.Phone} {
			if s = strings.TrimSpace(s); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	}
	section("CONTACTO", contact(in.PrimaryContact), contact(in.SecondaryContact))

	t := in.Terms
	section("CONDICIONES", labeled("Precios:", t.Pricing), labeled("Moneda:", t.Currency), labeled("Máquina:", t.Machine), labeled("Observaciones:", t.Observations))
	return b.String()
}

func (s *QuotationService) List(ctx context.Context, f QuotationFilter) ([]models.Quotation, error) {
	var out []models.Quotation
	err := s.store.FromContext(ctx, func(tx *gorm.DB) error {
		q := tx.Preload("Client").Order("created_at desc, id desc")
		if f.Status != "" {
			q = q.Where("status = ?", f.Status)
		}
		if f.ClientID != 0 {
			q = q.Where("client_id = ?", f.ClientID)
		}
		return q.Find(&out).Error
	})
	return out, err
}

func (s *QuotationService) Get(ctx context.Context, id uint) (*models.Quotation, error) {
	var q models.Quotation
	err := s.store.FromContext(ctx, func(tx *gorm.DB) error {
		return first(tx.Preload("Client").Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id asc")
		}), &q, id)
	})
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// UpdateStatus applies models.StatusChanges and returns the updated quotation.
func (s *QuotationService) UpdateStatus(ctx context.Context, id uint, in StatusInput) (*models.Quotation, error) {
	changes, err := models.StatusChanges(strings.TrimSpace(in.Status), in.PurchaseOrder, in.POStatus)
	switch {
	case errors.Is(err, models.ErrInvalidStatus):
		return nil, invalid("invalid_status", validation.Violations{"status": "invalid_value"})
	case errors.Is(err, models.ErrInvalidPOStatus):
		return nil, invalid("invalid_po_status", validation.Violations{"po_status": "invalid_value"})
	}
	var q models.Quotation
	err = s.store.FromContext(ctx, func(tx *gorm.DB) error {
		res := tx.Model(&models.Quotation{}).Where("id = ?", id).Updates(changes)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return first(tx.Preload("Client"), &q, id)
	})
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// Delete removes the items and then the header.
func (s *QuotationService) Delete(ctx context.Context, id uint) error {
	return s.store.FromContext(ctx, func(tx *gorm.DB) error {
		var q models.Quotation
		if err := first(tx, &q, id); err != nil {
			return err
		}
		if err := tx.Where("quotation_id = ?", id).Delete(&models.QuotationItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&q).Error
	})
}

func (s *QuotationService) Lookups(ctx context.Context) (*Lookups, error) {
	out := &Lookups{Clients: []ClientOption{}, Services: []models.Service{}}
	err := s.store.FromContext(ctx, func(tx *gorm.DB) error {
		if err := tx.Model(&models.Client{}).Select("id", "legal_name").Order("legal_name asc").Find(&out.Clients).Error; err != nil {
			return err
		}
		return tx.Where("active = ?", true).Order("concept asc").Find(&out.Services).Error
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Company returns the issuing company, or an empty one when none is stored.
func (s *QuotationService) Company(ctx context.Context) (*models.Company, error) {
	var c models.Company
	err := s.store.FromContext(ctx, func(tx *gorm.DB) error {
		return tx.Order("id asc").Limit(1).Find(&c).Error
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Document loads a quotation and maps it for rendering.
func (s *QuotationService) Document(ctx context.Context, id uint) (*pdf.QuotationData, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	company, err := s.Company(ctx)
	if err != nil {
		return nil, err
	}
	doc := &pdf.QuotationData{
		Folio:       q.Folio,
		Date:        ReportDate(q.CreatedAt),
		Status:      q.Status,
		ServiceType: q.ServiceType,
		Currency:    models.DefaultCurrency,
		Company:     companyData(company),
		Total:       q.Total,
		Notes:       q.Notes,
	}
	if c := q.Client; c != nil {
		doc.Client = pdf.ClientData{
			Name:    c.DisplayName(),
			Contact: c.ContactName,
			Address: c.FullAddress(),
			Email:   c.Email,
			Phone:   c.Phone,
		}
	}
	for _, it := range q.Items {
		doc.Items = append(doc.Items, pdf.QuotationItem{
			Concept:   it.Concept,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		})
	}
	return doc, nil
}

// ExportRows lists the visible quotations as spreadsheet rows.
func (s *QuotationService) ExportRows(ctx context.Context, f QuotationFilter) ([]export.QuotationRow, error) {
	list, err := s.List(ctx, f)
	if err != nil {
		return nil, err
	}
	rows := make([]export.QuotationRow, 0, len(list))
	for _, q := range list {
		client := q.Client.DisplayName()
		if client == "" {
			client = reports.NoClientLabel
		}
		rows = append(rows, export.QuotationRow{
			Folio:         q.Folio,
			Client:        client,
			Status:        q.Status,
			PurchaseOrder: q.PurchaseOrder,
			POStatus:      q.POStatus,
			Total:         q.Total,
			Currency:      models.DefaultCurrency,
			CreatedAt:     q.CreatedAt,
		})
	}
	return rows, nil
}
