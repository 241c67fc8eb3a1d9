package models

import (
	"strings"
	"time"
)

// Client is a billing entity quotations are addressed to.
type Client struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	LegalName   string `gorm:"size:255;not null;index" json:"legal_name"`
	TradeName   string `gorm:"size:255" json:"trade_name,omitempty"`
	ContactName string `gorm:"size:255" json:"contact_name,omitempty"`

	Address    string `gorm:"size:500" json:"address,omitempty"`
	City       string `gorm:"size:100" json:"city,omitempty"`
	State      string `gorm:"size:100" json:"state,omitempty"`
	PostalCode string `gorm:"size:20" json:"postal_code,omitempty"`

	Email string `gorm:"size:255" json:"email,omitempty"`
	Phone string `gorm:"size:50" json:"phone,omitempty"`

	CreatedBy string `gorm:"size:36;index" json:"created_by,omitempty"`
}

// DisplayName prefers the trade name when one is set.
func (c *Client) DisplayName() string {
	if c == nil {
		return ""
	}
	if t := strings.TrimSpace(c.TradeName); t != "" {
		return t
	}
	return c.LegalName
}

// FullAddress returns the address on separate lines, skipping empty parts.
func (c *Client) FullAddress() string {
	var lines []string
	if c.Address != "" {
		lines = append(lines, c.Address)
	}
	cityLine := strings.TrimSpace(strings.Join(nonEmpty(c.City, c.State), ", ") + " " + c.PostalCode)
	if cityLine != "" {
		lines = append(lines, cityLine)
	}
	return strings.Join(lines, "\n")
}

func nonEmpty(vals ...string) []string {
	out := vals[:0]
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
