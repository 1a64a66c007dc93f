package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered user authenticated via Google OAuth2.
// Guests are not users; their trips hang off a session ID instead.
type User struct {
	ID        UUID      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Google OAuth2 identity
	GoogleID   string `gorm:"uniqueIndex;not null" json:"google_id"`
	Email      string `gorm:"uniqueIndex;not null" json:"email"`
	Name       string `gorm:"not null" json:"name"`
	GivenName  string `json:"given_name,omitempty"`
	FamilyName string `json:"family_name,omitempty"`
	Picture    string `gorm:"type:text" json:"picture,omitempty"`

	// User preferences
	PreferredLanguage string `gorm:"default:'en'" json:"preferred_language"`
	PreferredCurrency string `gorm:"default:'USD'" json:"preferred_currency"`

	IsActive  bool       `gorm:"default:true" json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`

	// Relationships
	Trips []Trip `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"trips,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID.IsZero() {
		u.ID = NewUUID()
	}
	return nil
}
