package models

import (
	"time"

	"gorm.io/gorm"
)

// TodoCategory enum
type TodoCategory string

const (
	TodoFlight        TodoCategory = "flight"
	TodoAccommodation TodoCategory = "accommodation"
	TodoTransport     TodoCategory = "transport"
	TodoActivity      TodoCategory = "activity"
	TodoDocuments     TodoCategory = "documents"
	TodoPacking       TodoCategory = "packing"
	TodoOther         TodoCategory = "other"
)

func (c TodoCategory) IsValid() bool {
	switch c {
	case TodoFlight, TodoAccommodation, TodoTransport, TodoActivity,
		TodoDocuments, TodoPacking, TodoOther:
		return true
	}
	return false
}

// Todo priorities: 1 = high, 2 = medium, 3 = low.
const (
	PriorityHigh   = 1
	PriorityMedium = 2
	PriorityLow    = 3
)

// Todo represents a task attached to a trip.
type Todo struct {
	ID        UUID      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TripID UUID `gorm:"not null;index" json:"trip_id"`
	Trip   Trip `gorm:"foreignKey:TripID" json:"trip,omitempty"`

	Title       string       `gorm:"size:200;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description,omitempty"`
	Category    TodoCategory `gorm:"default:'other'" json:"category"`

	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Priority int        `gorm:"default:2" json:"priority"`
	DueDate  *time.Time `json:"due_date,omitempty"`
}

func (t *Todo) BeforeCreate(tx *gorm.DB) error {
	if t.ID.IsZero() {
		t.ID = NewUUID()
	}
	if t.Priority == 0 {
		t.Priority = PriorityMedium
	}
	return nil
}
