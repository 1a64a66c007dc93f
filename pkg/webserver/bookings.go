package webserver

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gbergara/trip-planner/pkg/models"
	"github.com/gbergara/trip-planner/pkg/utils"
)

// BookingRequest is the payload for creating or replacing a booking.
type BookingRequest struct {
	TripID      string     `json:"trip_id" binding:"required"`
	Title       string     `json:"title"`
	BookingType string     `json:"booking_type" binding:"required"`
	Status      string     `json:"status"`
	StartDate   time.Time  `json:"start_date" binding:"required"`
	EndDate     *time.Time `json:"end_date"`

	DepartureLocation string `json:"departure_location"`
	ArrivalLocation   string `json:"arrival_location"`
	Address           string `json:"address"`

	Price    *float64 `json:"price"`
	Currency string   `json:"currency"`

	ConfirmationNumber string `json:"confirmation_number"`
	Provider           string `json:"provider"`
	Description        string `json:"description"`
	Notes              string `json:"notes"`
	ContactEmail       string `json:"contact_email"`
	ContactPhone       string `json:"contact_phone"`

	FlightNumber      string `json:"flight_number"`
	Airline           string `json:"airline"`
	DepartureTerminal string `json:"departure_terminal"`
	ArrivalTerminal   string `json:"arrival_terminal"`
	SeatNumber        string `json:"seat_number"`

	RoomType     string `json:"room_type"`
	GuestsCount  *int   `json:"guests_count"`
	CheckInTime  string `json:"check_in_time"`
	CheckOutTime string `json:"check_out_time"`

	CarModel       string `json:"car_model"`
	PickupLocation string `json:"pickup_location"`
	ReturnLocation string `json:"return_location"`
}

func (r *BookingRequest) apply(booking *models.Booking, v *utils.Validator) error {
	bookingType := models.BookingType(r.BookingType)
	if !bookingType.IsValid() {
		return fmt.Errorf("invalid booking type: %s", r.BookingType)
	}
	if r.Status != "" && !models.BookingStatus(r.Status).IsValid() {
		return fmt.Errorf("invalid booking status: %s", r.Status)
	}
	if r.Currency != "" && !v.ValidateCurrency(r.Currency) {
		return fmt.Errorf("invalid currency code: %s", r.Currency)
	}
	if r.EndDate != nil && r.EndDate.Before(r.StartDate) {
		return fmt.Errorf("end date cannot be before start date")
	}
	if r.ContactEmail != "" && !v.ValidateEmail(r.ContactEmail) {
		return fmt.Errorf("invalid contact email")
	}

	booking.BookingType = bookingType
	if r.Status != "" {
		booking.Status = models.BookingStatus(r.Status)
	}
	booking.StartDate = r.StartDate
	booking.EndDate = r.EndDate

	booking.DepartureLocation = v.SanitizeInput(r.DepartureLocation)
	booking.ArrivalLocation = v.SanitizeInput(r.ArrivalLocation)
	booking.Address = v.SanitizeInput(r.Address)

	booking.Price = r.Price
	if r.Currency != "" {
		booking.Currency = strings.ToUpper(r.Currency)
	}

	booking.ConfirmationNumber = v.SanitizeInput(r.ConfirmationNumber)
	booking.Provider = v.SanitizeInput(r.Provider)
	booking.Description = v.SanitizeInput(r.Description)
	booking.Notes = v.SanitizeInput(r.Notes)
	booking.ContactEmail = strings.TrimSpace(r.ContactEmail)
	booking.ContactPhone = v.SanitizeInput(r.ContactPhone)

	booking.FlightNumber = strings.ToUpper(v.SanitizeInput(r.FlightNumber))
	booking.Airline = v.SanitizeInput(r.Airline)
	booking.DepartureTerminal = v.SanitizeInput(r.DepartureTerminal)
	booking.ArrivalTerminal = v.SanitizeInput(r.ArrivalTerminal)
	booking.SeatNumber = v.SanitizeInput(r.SeatNumber)

	booking.RoomType = v.SanitizeInput(r.RoomType)
	booking.GuestsCount = r.GuestsCount
	booking.CheckInTime = r.CheckInTime
	booking.CheckOutTime = r.CheckOutTime

	booking.CarModel = v.SanitizeInput(r.CarModel)
	booking.PickupLocation = v.SanitizeInput(r.PickupLocation)
	booking.ReturnLocation = v.SanitizeInput(r.ReturnLocation)

	// Flight bookings with both endpoints get the canonical route
	// title; an explicit title wins otherwise.
	title := v.SanitizeInput(r.Title)
	if bookingType == models.BookingFlight && booking.DepartureLocation != "" && booking.ArrivalLocation != "" {
		booking.Title = utils.FlightTitle(booking.DepartureLocation, booking.ArrivalLocation)
	} else if title != "" {
		booking.Title = title
	}
	if booking.Title == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}

func (s *Server) getBookings(c *gin.Context) {
	owner := s.currentOwner(c)

	// Optional filters
	if t := c.Query("booking_type"); t != "" {
		bookingType := models.BookingType(t)
		if !bookingType.IsValid() {
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse(fmt.Sprintf("invalid booking type: %s", t)))
			return
		}
		bookings, err := s.repo.GetBookingsByType(owner, bookingType)
		if err != nil {
			s.logger.WithError(err).Error("Failed to list bookings")
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to list bookings"))
			return
		}
		c.JSON(http.StatusOK, utils.NewSuccessResponse(bookings, ""))
		return
	}

	if st := c.Query("status"); st != "" {
		status := models.BookingStatus(st)
		if !status.IsValid() {
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse(fmt.Sprintf("invalid booking status: %s", st)))
			return
		}
		bookings, err := s.repo.GetBookingsByStatus(owner, status)
		if err != nil {
			s.logger.WithError(err).Error("Failed to list bookings")
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to list bookings"))
			return
		}
		c.JSON(http.StatusOK, utils.NewSuccessResponse(bookings, ""))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	pagination := utils.NewPagination(page, limit, 0)

	bookings, err := s.repo.GetBookingsByOwner(owner, pagination.Limit, pagination.GetOffset())
	if err != nil {
		s.logger.WithError(err).Error("Failed to list bookings")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to list bookings"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(bookings, ""))
}

func (s *Server) createBooking(c *gin.Context) {
	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(err.Error()))
		return
	}

	tripID, err := models.ParseUUID(req.TripID)
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid trip ID"))
		return
	}

	// The booking lands in a trip the caller owns, nowhere else.
	trip, err := s.repo.GetOwnedTrip(tripID, s.currentOwner(c))
	if err != nil {
		c.JSON(http.StatusNotFound, utils.NewErrorResponse("Trip not found"))
		return
	}

	booking := &models.Booking{TripID: trip.ID, Status: models.BookingPending, Currency: trip.Currency}
	if err := req.apply(booking, s.validator); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(err.Error()))
		return
	}

	if err := s.repo.CreateBooking(booking); err != nil {
		s.logger.WithError(err).Error("Failed to create booking")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to create booking"))
		return
	}

	s.logger.LogBooking(booking.ID.String(), trip.ID.String(), string(booking.BookingType), "create", true)
	c.JSON(http.StatusCreated, utils.NewSuccessResponse(booking, "Booking created"))
}

func (s *Server) getBooking(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	booking, err := s.repo.GetOwnedBooking(id, s.currentOwner(c))
	if err != nil {
		c.JSON(http.StatusNotFound, utils.NewErrorResponse("Booking not found"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(booking, ""))
}

func (s *Server) updateBooking(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	booking, err := s.repo.GetOwnedBooking(id, s.currentOwner(c))
	if err != nil {
		c.JSON(http.StatusNotFound, utils.NewErrorResponse("Booking not found"))
		return
	}

	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(err.Error()))
		return
	}

	// Bookings cannot move between trips on update.
	if req.TripID != "" && req.TripID != booking.TripID.String() {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Booking cannot change trip"))
		return
	}

	if err := req.apply(booking, s.validator); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(err.Error()))
		return
	}

	if err := s.repo.UpdateBooking(booking); err != nil {
		s.logger.WithError(err).Error("Failed to update booking")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to update booking"))
		return
	}

	s.logger.LogBooking(booking.ID.String(), booking.TripID.String(), string(booking.BookingType), "update", true)
	c.JSON(http.StatusOK, utils.NewSuccessResponse(booking, "Booking updated"))
}

func (s *Server) deleteBooking(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	booking, err := s.repo.GetOwnedBooking(id, s.currentOwner(c))
	if err != nil {
		c.JSON(http.StatusNotFound, utils.NewErrorResponse("Booking not found"))
		return
	}

	if err := s.repo.DeleteBooking(booking.ID); err != nil {
		s.logger.WithError(err).Error("Failed to delete booking")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to delete booking"))
		return
	}

	s.logger.LogBooking(booking.ID.String(), booking.TripID.String(), string(booking.BookingType), "delete", true)
	c.JSON(http.StatusOK, utils.NewSuccessResponse(nil, "Booking deleted"))
}
