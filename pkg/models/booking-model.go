package models

import (
	"time"

	"gorm.io/gorm"
)

// BookingType enum
type BookingType string

const (
	BookingFlight        BookingType = "flight"
	BookingAccommodation BookingType = "accommodation"
	BookingCarRental     BookingType = "car_rental"
	BookingActivity      BookingType = "activity"
	BookingRestaurant    BookingType = "restaurant"
	BookingOther         BookingType = "other"
)

func (t BookingType) IsValid() bool {
	switch t {
	case BookingFlight, BookingAccommodation, BookingCarRental,
		BookingActivity, BookingRestaurant, BookingOther:
		return true
	}
	return false
}

// BookingStatus enum
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled:
		return true
	}
	return false
}

// Booking represents a single reservation belonging to a trip. Deleting
// the trip cascades to its bookings.
type Booking struct {
	ID        UUID      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TripID UUID `gorm:"not null;index" json:"trip_id"`
	Trip   Trip `gorm:"foreignKey:TripID" json:"trip,omitempty"`

	Title       string        `gorm:"size:200;not null" json:"title"`
	BookingType BookingType   `gorm:"not null;index" json:"booking_type"`
	Status      BookingStatus `gorm:"default:'pending';index" json:"status"`

	BookingDate time.Time  `json:"booking_date"`
	StartDate   time.Time  `gorm:"not null" json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`

	// Location info
	DepartureLocation string `gorm:"size:200" json:"departure_location,omitempty"`
	ArrivalLocation   string `gorm:"size:200" json:"arrival_location,omitempty"`
	Address           string `gorm:"size:500" json:"address,omitempty"`

	// Financial info
	Price    *float64 `json:"price,omitempty"`
	Currency string   `gorm:"size:3;default:'USD'" json:"currency"`

	ConfirmationNumber string `gorm:"size:100" json:"confirmation_number,omitempty"`
	Provider           string `gorm:"size:200" json:"provider,omitempty"`

	Description string `gorm:"type:text" json:"description,omitempty"`
	Notes       string `gorm:"type:text" json:"notes,omitempty"`

	ContactEmail string `gorm:"size:200" json:"contact_email,omitempty"`
	ContactPhone string `gorm:"size:50" json:"contact_phone,omitempty"`

	// Flight specific
	FlightNumber      string `gorm:"size:20" json:"flight_number,omitempty"`
	Airline           string `gorm:"size:100" json:"airline,omitempty"`
	DepartureTerminal string `gorm:"size:10" json:"departure_terminal,omitempty"`
	ArrivalTerminal   string `gorm:"size:10" json:"arrival_terminal,omitempty"`
	SeatNumber        string `gorm:"size:10" json:"seat_number,omitempty"`

	// Accommodation specific
	RoomType     string `gorm:"size:100" json:"room_type,omitempty"`
	GuestsCount  *int   `json:"guests_count,omitempty"`
	CheckInTime  string `gorm:"size:10" json:"check_in_time,omitempty"`
	CheckOutTime string `gorm:"size:10" json:"check_out_time,omitempty"`

	// Car rental specific
	CarModel       string `gorm:"size:100" json:"car_model,omitempty"`
	PickupLocation string `gorm:"size:200" json:"pickup_location,omitempty"`
	ReturnLocation string `gorm:"size:200" json:"return_location,omitempty"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID.IsZero() {
		b.ID = NewUUID()
	}
	if b.BookingDate.IsZero() {
		b.BookingDate = time.Now().UTC()
	}
	return nil
}
