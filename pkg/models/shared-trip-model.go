package models

import (
	"time"

	"gorm.io/gorm"
)

// SharedTrip grants read access to a trip for a user identified by
// email. Sharing is by email so trips can be shared with people who
// have not logged in yet.
type SharedTrip struct {
	ID        UUID      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	TripID UUID `gorm:"not null;index" json:"trip_id"`
	Trip   Trip `gorm:"foreignKey:TripID" json:"trip,omitempty"`

	Email     string `gorm:"size:255;not null;index" json:"email"`
	InvitedBy string `gorm:"size:255" json:"invited_by,omitempty"`
}

func (s *SharedTrip) BeforeCreate(tx *gorm.DB) error {
	if s.ID.IsZero() {
		s.ID = NewUUID()
	}
	return nil
}
