package models

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Quotation statuses. Any status may move to any other.
const (
	StatusDraft    = "draft"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// Purchase-order statuses.
const (
	POPending   = "pending"
	POCompleted = "completed"
)

// FolioPrefix precedes the numeric id in the display folio.
const FolioPrefix = "SIG-"

var (
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrInvalidPOStatus = errors.New("invalid_po_status")
)

// Quotation is a quotation header. Folio is derived from the id and never stored.
type Quotation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ClientID  *uint   `gorm:"index" json:"client_id"`
	Client    *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	CreatedBy string  `gorm:"size:36;index;not null" json:"created_by"`

	Total       float64 `gorm:"type:decimal(14,2);not null;default:0" json:"total"`
	Status      string  `gorm:"size:20;not null;default:'draft';index" json:"status"`
	Notes       string  `gorm:"type:text" json:"notes,omitempty"`
	ServiceType string  `gorm:"size:100" json:"service_type,omitempty"`

	PurchaseOrder string `gorm:"size:100" json:"purchase_order,omitempty"`
	POStatus      string `gorm:"column:po_status;size:20;not null;default:'pending'" json:"po_status"`

	Items []QuotationItem `gorm:"foreignKey:QuotationID" json:"items,omitempty"`

	Folio string `gorm:"-" json:"folio"`
}

// QuotationItem is a quotation line. Concept and price are copies, not references.
type QuotationItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	QuotationID uint      `gorm:"index;not null" json:"quotation_id"`
	Concept     string    `gorm:"size:500;not null" json:"concept"`
	Quantity    float64   `gorm:"type:decimal(12,3);not null;default:1" json:"quantity"`
	UnitPrice   float64   `gorm:"type:decimal(12,2);not null;default:0" json:"unit_price"`
	Subtotal    float64   `gorm:"type:decimal(14,2);not null;default:0" json:"subtotal"`
}

// FolioFor returns the display folio for a stored quotation id.
func FolioFor(id uint) string {
	return FolioPrefix + strconv.FormatUint(uint64(id), 10)
}

func (q *Quotation) AfterFind(tx *gorm.DB) error {
	q.Folio = FolioFor(q.ID)
	return nil
}

func (q *Quotation) AfterCreate(tx *gorm.DB) error {
	q.Folio = FolioFor(q.ID)
	return nil
}

// StatusChanges returns the column updates for moving a quotation to target.
// Purchase-order fields are written only for accepted quotations and only
// when supplied; draft and rejected always reset the PO status to pending.
func StatusChanges(target string, poNumber, poStatus *string) (map[string]any, error) {
	switch target {
	case StatusAccepted:
		changes := map[string]any{"status": target}
		if poNumber != nil {
			if n := strings.TrimSpace(*poNumber); n != "" {
				changes["purchase_order"] = n
			}
		}
		if poStatus != nil && strings.TrimSpace(*poStatus) != "" {
			s := strings.ToLower(strings.TrimSpace(*poStatus))
			if s != POPending && s != POCompleted {
				return nil, ErrInvalidPOStatus
			}
			changes["po_status"] = s
		}
		return changes, nil
	case StatusDraft, StatusRejected:
		return map[string]any{"status": target, "po_status": POPending}, nil
	default:
		return nil, ErrInvalidStatus
	}
}

// ValidStatus reports whether s is a known quotation status.
func ValidStatus(s string) bool {
	return s == StatusDraft || s == StatusAccepted || s == StatusRejected
}
