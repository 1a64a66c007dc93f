package models

import (
	"gorm.io/gorm"
)

// Database migration function
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Trip{},
		&Booking{},
		&Todo{},
		&SharedTrip{},
		&AllowedAccount{},
	)
}

func CreateIndexes(db *gorm.DB) error {
	// Composite indexes for common queries
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_trips_owner ON trips(user_id, guest_session_id)").Error; err != nil {
		return err
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_bookings_trip_type ON bookings(trip_id, booking_type)").Error; err != nil {
		return err
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_todos_trip_priority ON todos(trip_id, priority, created_at)").Error; err != nil {
		return err
	}

	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_shared_trips_trip_email ON shared_trips(trip_id, email)").Error; err != nil {
		return err
	}

	return nil
}
