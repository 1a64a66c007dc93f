package models

import (
	"time"

	"gorm.io/gorm"
)

// AllowedAccount restricts Google logins to an allowlist. An entry
// matches either an exact email or every address on a domain.
type AllowedAccount struct {
	ID        UUID      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Email is empty for domain entries, so it cannot be unique at the
	// schema level; seeding dedupes instead.
	Email  string `gorm:"size:255;index" json:"email,omitempty"`
	Domain string `gorm:"size:255;index" json:"domain,omitempty"`
	Active bool   `gorm:"default:true" json:"active"`
}

func (a *AllowedAccount) BeforeCreate(tx *gorm.DB) error {
	if a.ID.IsZero() {
		a.ID = NewUUID()
	}
	return nil
}
