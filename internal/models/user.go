package models

import "time"

// User is the profile row attached to an identity. The id is the identity
// provider's id so row-level policies can compare it with the token subject.
type User struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	Email      string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Role       string    `gorm:"size:50" json:"role,omitempty"` // "seller" or empty, display only
	Department string    `gorm:"size:100" json:"department,omitempty"`
	Active     bool      `gorm:"not null;default:true" json:"active"`
}

func (User) TableName() string { return "profiles" }

const RoleSeller = "seller"
