package models

import "time"

// Units of measure a tariff is priced in.
const (
	UnitHour = "hour"
	UnitDay  = "day"
)

const DefaultCurrency = "MXN"

// Service is a tariff catalog entry. Entries are deactivated, never removed,
// so quotation items keep their copied concept and price.
type Service struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Concept     string `gorm:"size:255;not null" json:"concept"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Unit        string `gorm:"size:10;not null;default:'hour'" json:"unit"`

	PriceWithContract    float64 `gorm:"type:decimal(12,2);not null;default:0" json:"price_with_contract"`
	PriceWithoutContract float64 `gorm:"type:decimal(12,2);not null;default:0" json:"price_without_contract"`
	Currency             string  `gorm:"size:3;not null;default:'MXN'" json:"currency"`

	Active bool `gorm:"not null;default:true;index" json:"active"`
}
