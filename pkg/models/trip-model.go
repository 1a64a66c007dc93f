package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TripStatus enum
type TripStatus string

const (
	TripPlanning   TripStatus = "planning"
	TripConfirmed  TripStatus = "confirmed"
	TripInProgress TripStatus = "in_progress"
	TripCompleted  TripStatus = "completed"
	TripCancelled  TripStatus = "cancelled"
)

// IsValid reports whether the status is one of the known values.
func (s TripStatus) IsValid() bool {
	switch s {
	case TripPlanning, TripConfirmed, TripInProgress, TripCompleted, TripCancelled:
		return true
	}
	return false
}

// Trip represents a planned journey. It is owned either by a registered
// user (UserID set) or by an anonymous guest session (GuestSessionID set).
type Trip struct {
	ID        UUID      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name        string     `gorm:"size:200;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	Status      TripStatus `gorm:"default:'planning';index" json:"status"`

	UserID         *UUID  `gorm:"index" json:"user_id,omitempty"`
	User           *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	GuestSessionID string `gorm:"size:255;index" json:"guest_session_id,omitempty"`

	StartDate time.Time  `gorm:"not null" json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	// Timezone used to bucket this trip's flights into calendar days.
	Timezone string `gorm:"size:64" json:"timezone,omitempty"`

	PrimaryDestination string         `gorm:"size:200" json:"primary_destination,omitempty"`
	Destinations       datatypes.JSON `json:"destinations,omitempty"`

	Budget   *float64 `json:"budget,omitempty"`
	Currency string   `gorm:"size:3;default:'USD'" json:"currency"`

	TravelerCount int    `gorm:"default:1" json:"traveler_count"`
	Notes         string `gorm:"type:text" json:"notes,omitempty"`

	// Relationships
	Bookings []Booking    `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE" json:"bookings,omitempty"`
	Todos    []Todo       `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE" json:"todos,omitempty"`
	Shares   []SharedTrip `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE" json:"shares,omitempty"`
}

func (t *Trip) BeforeCreate(tx *gorm.DB) error {
	if t.ID.IsZero() {
		t.ID = NewUUID()
	}
	return nil
}
