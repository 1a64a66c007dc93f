package db

import (
	"strings"
	"time"

	"github.com/gbergara/trip-planner/pkg/models"
	"gorm.io/gorm"
)

// Owner identifies who a request acts as: a registered user or an
// anonymous guest session. Exactly one of the two fields is set.
type Owner struct {
	UserID         *models.UUID
	GuestSessionID string
}

// UserOwner builds an Owner for a registered user.
func UserOwner(id models.UUID) Owner {
	return Owner{UserID: &id}
}

// GuestOwner builds an Owner for a guest session.
func GuestOwner(sessionID string) Owner {
	return Owner{GuestSessionID: sessionID}
}

func (o Owner) scopeTrips(q *gorm.DB) *gorm.DB {
	if o.UserID != nil {
		return q.Where("trips.user_id = ?", *o.UserID)
	}
	return q.Where("trips.guest_session_id = ?", o.GuestSessionID)
}

// Repository provides database operations for specific models
type Repository struct {
	db *DB
}

// NewRepository creates a new repository instance
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) DB() *DB {
	return r.db
}

// User repository methods
func (r *Repository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *Repository) GetUserByID(id models.UUID) (*models.User, error) {
	var user models.User
	err := r.db.Where("id = ?", id).First(&user).Error
	return &user, err
}

func (r *Repository) GetUserByGoogleID(googleID string) (*models.User, error) {
	var user models.User
	err := r.db.Where("google_id = ?", googleID).First(&user).Error
	return &user, err
}

func (r *Repository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *Repository) UpdateUser(user *models.User) error {
	return r.db.Save(user).Error
}

// IsAccountAllowed checks the login allowlist: first for the exact
// email, then for the email's domain.
func (r *Repository) IsAccountAllowed(email string) (bool, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	var count int64
	err := r.db.Model(&models.AllowedAccount{}).
		Where("email = ? AND active = ?", email, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false, nil
	}
	domain := email[at+1:]

	err = r.db.Model(&models.AllowedAccount{}).
		Where("domain = ? AND active = ?", domain, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasAllowedAccounts reports whether any active allowlist entries exist.
// With none, login is open to every verified Google account.
func (r *Repository) HasAllowedAccounts() (bool, error) {
	var count int64
	err := r.db.Model(&models.AllowedAccount{}).
		Where("active = ?", true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Trip repository methods
func (r *Repository) CreateTrip(trip *models.Trip) error {
	return r.db.Create(trip).Error
}

func (r *Repository) GetTripsByOwner(owner Owner, limit, offset int) ([]models.Trip, error) {
	var trips []models.Trip
	err := owner.scopeTrips(r.db.Model(&models.Trip{})).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&trips).Error
	return trips, err
}

func (r *Repository) GetTripByID(id models.UUID) (*models.Trip, error) {
	var trip models.Trip
	err := r.db.Where("id = ?", id).First(&trip).Error
	return &trip, err
}

// GetOwnedTrip fetches a trip only if it belongs to the given owner.
func (r *Repository) GetOwnedTrip(id models.UUID, owner Owner) (*models.Trip, error) {
	var trip models.Trip
	err := owner.scopeTrips(r.db.Where("trips.id = ?", id)).First(&trip).Error
	return &trip, err
}

func (r *Repository) UpdateTrip(trip *models.Trip) error {
	return r.db.Save(trip).Error
}

// DeleteTrip removes a trip together with its bookings, todos and
// shares. The explicit cascade keeps behavior identical on SQLite and
// Postgres regardless of foreign key enforcement.
func (r *Repository) DeleteTrip(id models.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("trip_id = ?", id).Delete(&models.Booking{}).Error; err != nil {
			return err
		}
		if err := tx.Where("trip_id = ?", id).Delete(&models.Todo{}).Error; err != nil {
			return err
		}
		if err := tx.Where("trip_id = ?", id).Delete(&models.SharedTrip{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Trip{}).Error
	})
}

// Shared trip repository methods
func (r *Repository) ShareTrip(share *models.SharedTrip) error {
	return r.db.Create(share).Error
}

func (r *Repository) GetSharedTrip(tripID models.UUID, email string) (*models.SharedTrip, error) {
	var share models.SharedTrip
	err := r.db.Where("trip_id = ? AND LOWER(email) = ?", tripID, strings.ToLower(email)).
		First(&share).Error
	return &share, err
}

func (r *Repository) DeleteSharedTrip(tripID models.UUID, email string) error {
	return r.db.Where("trip_id = ? AND LOWER(email) = ?", tripID, strings.ToLower(email)).
		Delete(&models.SharedTrip{}).Error
}

func (r *Repository) GetSharedEmails(tripID models.UUID) ([]string, error) {
	var emails []string
	err := r.db.Model(&models.SharedTrip{}).
		Where("trip_id = ?", tripID).
		Order("created_at").
		Pluck("email", &emails).Error
	return emails, err
}

func (r *Repository) GetTripsSharedWith(email string) ([]models.Trip, error) {
	var trips []models.Trip
	err := r.db.Model(&models.Trip{}).
		Joins("JOIN shared_trips ON shared_trips.trip_id = trips.id").
		Where("LOWER(shared_trips.email) = ?", strings.ToLower(email)).
		Order("trips.created_at DESC").
		Find(&trips).Error
	return trips, err
}

// Booking repository methods
func (r *Repository) CreateBooking(booking *models.Booking) error {
	return r.db.Create(booking).Error
}

func (r *Repository) GetBookingsByTrip(tripID models.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.Where("trip_id = ?", tripID).
		Order("start_date").
		Find(&bookings).Error
	return bookings, err
}

func (r *Repository) GetBookingsByOwner(owner Owner, limit, offset int) ([]models.Booking, error) {
	var bookings []models.Booking
	err := owner.scopeTrips(r.bookingsJoinTrips()).
		Order("bookings.start_date").
		Limit(limit).
		Offset(offset).
		Find(&bookings).Error
	return bookings, err
}

// GetOwnedBooking fetches a booking only if its trip belongs to the owner.
func (r *Repository) GetOwnedBooking(id models.UUID, owner Owner) (*models.Booking, error) {
	var booking models.Booking
	err := owner.scopeTrips(r.bookingsJoinTrips().Where("bookings.id = ?", id)).
		First(&booking).Error
	return &booking, err
}

func (r *Repository) GetBookingsByType(owner Owner, bookingType models.BookingType) ([]models.Booking, error) {
	var bookings []models.Booking
	err := owner.scopeTrips(r.bookingsJoinTrips().Where("bookings.booking_type = ?", bookingType)).
		Order("bookings.start_date").
		Find(&bookings).Error
	return bookings, err
}

func (r *Repository) GetBookingsByStatus(owner Owner, status models.BookingStatus) ([]models.Booking, error) {
	var bookings []models.Booking
	err := owner.scopeTrips(r.bookingsJoinTrips().Where("bookings.status = ?", status)).
		Order("bookings.start_date").
		Find(&bookings).Error
	return bookings, err
}

func (r *Repository) UpdateBooking(booking *models.Booking) error {
	return r.db.Save(booking).Error
}

func (r *Repository) DeleteBooking(id models.UUID) error {
	return r.db.Where("id = ?", id).Delete(&models.Booking{}).Error
}

func (r *Repository) bookingsJoinTrips() *gorm.DB {
	return r.db.Model(&models.Booking{}).
		Joins("JOIN trips ON trips.id = bookings.trip_id")
}

// Todo repository methods
func (r *Repository) CreateTodo(todo *models.Todo) error {
	return r.db.Create(todo).Error
}

func (r *Repository) GetTodosByTrip(tripID models.UUID) ([]models.Todo, error) {
	var todos []models.Todo
	err := r.db.Where("trip_id = ?", tripID).
		Order("priority, created_at").
		Find(&todos).Error
	return todos, err
}

func (r *Repository) GetTodoByID(id models.UUID) (*models.Todo, error) {
	var todo models.Todo
	err := r.db.Where("id = ?", id).First(&todo).Error
	return &todo, err
}

// SetTodoCompleted flips completion and keeps the completion timestamp
// consistent: set on completion, cleared on reopening.
func (r *Repository) SetTodoCompleted(todo *models.Todo, completed bool) {
	todo.Completed = completed
	if completed {
		if todo.CompletedAt == nil {
			now := time.Now().UTC()
			todo.CompletedAt = &now
		}
	} else {
		todo.CompletedAt = nil
	}
}

func (r *Repository) UpdateTodo(todo *models.Todo) error {
	return r.db.Save(todo).Error
}

func (r *Repository) DeleteTodo(id models.UUID) error {
	return r.db.Where("id = ?", id).Delete(&models.Todo{}).Error
}
