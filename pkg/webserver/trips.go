package webserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/gbergara/trip-planner/pkg/db"
	"github.com/gbergara/trip-planner/pkg/flights"
	"github.com/gbergara/trip-planner/pkg/models"
	"github.com/gbergara/trip-planner/pkg/utils"
)

// TripRequest is the payload for creating or replacing a trip.
type TripRequest struct {
	Name               string     `json:"name" binding:"required,max=200"`
	Description        string     `json:"description"`
	Status             string     `json:"status"`
	StartDate          time.Time  `json:"start_date" binding:"required"`
	EndDate            *time.Time `json:"end_date"`
	Timezone           string     `json:"timezone"`
	PrimaryDestination string     `json:"primary_destination"`
	Destinations       []string   `json:"destinations"`
	Budget             *float64   `json:"budget"`
	Currency           string     `json:"currency"`
	TravelerCount      int        `json:"traveler_count"`
	Notes              string     `json:"notes"`
}

func (r *TripRequest) apply(trip *models.Trip, v *utils.Validator) error {
	if r.Status != "" && !models.TripStatus(r.Status).IsValid() {
		return fmt.Errorf("invalid trip status: %s", r.Status)
	}
	if r.Currency != "" && !v.ValidateCurrency(r.Currency) {
		return fmt.Errorf("invalid currency code: %s", r.Currency)
	}
	if r.EndDate != nil && r.EndDate.Before(r.StartDate) {
		return fmt.Errorf("end date cannot be before start date")
	}
	if r.Timezone != "" {
		if _, err := time.LoadLocation(r.Timezone); err != nil {
			return fmt.Errorf("unknown timezone: %s", r.Timezone)
		}
	}

	trip.Name = v.SanitizeInput(r.Name)
	trip.Description = v.SanitizeInput(r.Description)
	if r.Status != "" {
		trip.Status = models.TripStatus(r.Status)
	}
	trip.StartDate = r.StartDate
	trip.EndDate = r.EndDate
	trip.Timezone = r.Timezone
	trip.PrimaryDestination = v.SanitizeInput(r.PrimaryDestination)
	if r.Destinations != nil {
		raw, err := json.Marshal(r.Destinations)
		if err != nil {
			return err
		}
		trip.Destinations = datatypes.JSON(raw)
	}
	trip.Budget = r.Budget
	if r.Currency != "" {
		trip.Currency = strings.ToUpper(r.Currency)
	}
	if r.TravelerCount > 0 {
		trip.TravelerCount = r.TravelerCount
	}
	trip.Notes = v.SanitizeInput(r.Notes)
	return nil
}

func parseIDParam(c *gin.Context) (models.UUID, bool) {
	id, err := models.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid ID"))
		return "", false
	}
	return id, true
}

// ownsTrip reports whether the acting identity owns the trip.
func ownsTrip(trip *models.Trip, owner db.Owner) bool {
	if owner.UserID != nil {
		return trip.UserID != nil && *trip.UserID == *owner.UserID
	}
	return trip.GuestSessionID != "" && trip.GuestSessionID == owner.GuestSessionID
}

// accessibleTrip loads a trip the caller may read: their own, or one
// shared with their email. Returns the trip and whether they own it.
func (s *Server) accessibleTrip(c *gin.Context, id models.UUID) (*models.Trip, bool, bool) {
	trip, err := s.repo.GetTripByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, utils.NewErrorResponse("Trip not found"))
		return nil, false, false
	}

	owner := s.currentOwner(c)
	if ownsTrip(trip, owner) {
		return trip, true, true
	}

	if user, ok := s.getCurrentUser(c); ok {
		if _, err := s.repo.GetSharedTrip(id, user.Email); err == nil {
			return trip, false, true
		}
	}

	c.JSON(http.StatusNotFound, utils.NewErrorResponse("Trip not found"))
	return nil, false, false
}

// ownedTrip loads a trip only if the caller owns it.
func (s *Server) ownedTrip(c *gin.Context, id models.UUID) (*models.Trip, bool) {
	trip, err := s.repo.GetOwnedTrip(id, s.currentOwner(c))
	if err != nil {
		c.JSON(http.StatusNotFound, utils.NewErrorResponse("Trip not found"))
		return nil, false
	}
	return trip, true
}

func (s *Server) getTrips(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	pagination := utils.NewPagination(page, limit, 0)

	trips, err := s.repo.GetTripsByOwner(s.currentOwner(c), pagination.Limit, pagination.GetOffset())
	if err != nil {
		s.logger.WithError(err).Error("Failed to list trips")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to list trips"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(trips, ""))
}

func (s *Server) createTrip(c *gin.Context) {
	var req TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(err.Error()))
		return
	}

	trip := &models.Trip{Status: models.TripPlanning, Currency: "USD", TravelerCount: 1}
	if err := req.apply(trip, s.validator); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(err.Error()))
		return
	}

	owner := s.currentOwner(c)
	if owner.UserID != nil {
		trip.UserID = owner.UserID
	} else {
		trip.GuestSessionID = owner.GuestSessionID
	}

	if err := s.repo.CreateTrip(trip); err != nil {
		s.logger.WithError(err).Error("Failed to create trip")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to create trip"))
		return
	}

	s.logger.LogTrip(trip.ID.String(), ownerLabel(owner), "create", true)
	c.JSON(http.StatusCreated, utils.NewSuccessResponse(trip, "Trip created"))
}

func (s *Server) getTrip(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	trip, _, ok := s.accessibleTrip(c, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse(trip, ""))
}

func (s *Server) updateTrip(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	trip, ok := s.ownedTrip(c, id)
	if !ok {
		return
	}

	var req TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(err.Error()))
		return
	}
	if err := req.apply(trip, s.validator); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(err.Error()))
		return
	}

	if err := s.repo.UpdateTrip(trip); err != nil {
		s.logger.WithError(err).Error("Failed to update trip")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to update trip"))
		return
	}

	s.logger.LogTrip(trip.ID.String(), ownerLabel(s.currentOwner(c)), "update", true)
	c.JSON(http.StatusOK, utils.NewSuccessResponse(trip, "Trip updated"))
}

func (s *Server) deleteTrip(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	trip, ok := s.ownedTrip(c, id)
	if !ok {
		return
	}

	if err := s.repo.DeleteTrip(trip.ID); err != nil {
		s.logger.WithError(err).Error("Failed to delete trip")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to delete trip"))
		return
	}

	s.logger.LogTrip(trip.ID.String(), ownerLabel(s.currentOwner(c)), "delete", true)
	c.JSON(http.StatusOK, utils.NewSuccessResponse(nil, "Trip deleted"))
}

func (s *Server) updateTripStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	trip, ok := s.ownedTrip(c, id)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(err.Error()))
		return
	}
	if !models.TripStatus(req.Status).IsValid() {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(fmt.Sprintf("invalid trip status: %s", req.Status)))
		return
	}

	trip.Status = models.TripStatus(req.Status)
	if err := s.repo.UpdateTrip(trip); err != nil {
		s.logger.WithError(err).Error("Failed to update trip status")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to update trip"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(trip, "Status updated"))
}

// Sharing. Only registered owners can share; shares are addressed to
// email addresses, so a guest has nothing to share with.
func (s *Server) shareTrip(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	user, authed := s.getCurrentUser(c)
	if !authed {
		c.JSON(http.StatusForbidden, utils.NewErrorResponse("Sign in to share trips"))
		return
	}
	trip, ok := s.ownedTrip(c, id)
	if !ok {
		return
	}

	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(err.Error()))
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !s.validator.ValidateEmail(email) {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid email address"))
		return
	}
	if email == strings.ToLower(user.Email) {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Cannot share a trip with yourself"))
		return
	}

	if _, err := s.repo.GetSharedTrip(trip.ID, email); err == nil {
		c.JSON(http.StatusConflict, utils.NewErrorResponse("Trip is already shared with this email"))
		return
	}

	share := &models.SharedTrip{TripID: trip.ID, Email: email, InvitedBy: user.ID.String()}
	if err := s.repo.ShareTrip(share); err != nil {
		s.logger.WithError(err).Error("Failed to share trip")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to share trip"))
		return
	}

	s.logger.LogTrip(trip.ID.String(), user.ID.String(), "share", true)
	c.JSON(http.StatusCreated, utils.NewSuccessResponse(share, "Trip shared"))
}

func (s *Server) unshareTrip(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	trip, ok := s.ownedTrip(c, id)
	if !ok {
		return
	}

	email := strings.ToLower(strings.TrimSpace(c.Param("email")))
	if err := s.repo.DeleteSharedTrip(trip.ID, email); err != nil {
		c.JSON(http.StatusNotFound, utils.NewErrorResponse("Share not found"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(nil, "Share removed"))
}

func (s *Server) getSharedUsers(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	trip, ok := s.ownedTrip(c, id)
	if !ok {
		return
	}

	emails, err := s.repo.GetSharedEmails(trip.ID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list shares")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to list shares"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(emails, ""))
}

func (s *Server) getTripsSharedWithMe(c *gin.Context) {
	user, authed := s.getCurrentUser(c)
	if !authed {
		c.JSON(http.StatusOK, utils.NewSuccessResponse([]models.Trip{}, ""))
		return
	}

	trips, err := s.repo.GetTripsSharedWith(user.Email)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list shared trips")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to list shared trips"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(trips, ""))
}

func (s *Server) getTripBookings(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	trip, _, ok := s.accessibleTrip(c, id)
	if !ok {
		return
	}

	bookings, err := s.repo.GetBookingsByTrip(trip.ID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list bookings")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to list bookings"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(bookings, ""))
}

func (s *Server) getTripTodos(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	trip, _, ok := s.accessibleTrip(c, id)
	if !ok {
		return
	}

	todos, err := s.repo.GetTodosByTrip(trip.ID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list todos")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to list todos"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(todos, ""))
}

// getTripConnections analyzes the trip's flights: groups them into
// calendar days in the trip's timezone and flags risky connections.
func (s *Server) getTripConnections(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	trip, _, ok := s.accessibleTrip(c, id)
	if !ok {
		return
	}

	analyzer, err := flights.NewAnalyzer(trip.Timezone)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, utils.NewErrorResponse(err.Error()))
		return
	}

	bookings, err := s.repo.GetBookingsByTrip(trip.ID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list bookings")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to analyze connections"))
		return
	}

	report := analyzer.Analyze(flightsFromBookings(bookings))
	c.JSON(http.StatusOK, utils.NewSuccessResponse(report, ""))
}

// flightsFromBookings projects flight bookings into the analyzer's
// model. Cancelled bookings are not connections anyone will make.
func flightsFromBookings(bookings []models.Booking) []flights.Flight {
	var out []flights.Flight
	for _, b := range bookings {
		if b.BookingType != models.BookingFlight || b.Status == models.BookingCancelled {
			continue
		}
		start := b.StartDate
		f := flights.Flight{
			ID:           b.ID.String(),
			FlightNumber: b.FlightNumber,
			Airline:      b.Airline,
			Departure:    b.DepartureLocation,
			Arrival:      b.ArrivalLocation,
			End:          b.EndDate,
		}
		if !start.IsZero() {
			f.Start = &start
		}
		out = append(out, f)
	}
	return out
}

// exportTripPDF streams a localized PDF report of the trip.
func (s *Server) exportTripPDF(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	trip, _, ok := s.accessibleTrip(c, id)
	if !ok {
		return
	}

	bookings, err := s.repo.GetBookingsByTrip(trip.ID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list bookings")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to export trip"))
		return
	}

	lang := s.currentLanguage(c)
	data, err := s.pdfGen.TripReport(trip, bookings, lang)
	if err != nil {
		s.logger.WithError(err).Error("Failed to render PDF")
		s.logger.LogExport(trip.ID.String(), len(bookings), lang, false)
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to export trip"))
		return
	}

	s.logger.LogExport(trip.ID.String(), len(bookings), lang, true)

	filename := fmt.Sprintf("trip-%s.pdf", sanitizeFilename(trip.Name))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

func sanitizeFilename(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '-'
		}
		return -1
	}, name)
	if name == "" {
		return "report"
	}
	return strings.ToLower(name)
}

func ownerLabel(owner db.Owner) string {
	if owner.UserID != nil {
		return owner.UserID.String()
	}
	return "guest:" + owner.GuestSessionID
}
