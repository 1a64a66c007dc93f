package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	// Health check endpoint (no auth required)
	s.router.GET("/health", s.healthCheck)

	// API v1 routes
	v1 := s.router.Group("/api/v1")
	{
		// Authentication. Everything else is reachable by guests too,
		// scoped to their session.
		auth := v1.Group("/auth")
		{
			auth.GET("/login", s.handleGoogleLogin)
			auth.GET("/callback", s.handleGoogleCallback)
			auth.POST("/logout", s.handleLogout)
			auth.GET("/me", s.handleMe)
		}

		// Trip management
		trips := v1.Group("/trips")
		{
			trips.GET("", s.getTrips)
			trips.POST("", s.createTrip)
			trips.GET("/shared-with-me", s.getTripsSharedWithMe)
			trips.GET("/:id", s.getTrip)
			trips.PUT("/:id", s.updateTrip)
			trips.DELETE("/:id", s.deleteTrip)
			trips.PATCH("/:id/status", s.updateTripStatus)

			trips.POST("/:id/share", s.shareTrip)
			trips.DELETE("/:id/share/:email", s.unshareTrip)
			trips.GET("/:id/shared-users", s.getSharedUsers)

			trips.GET("/:id/bookings", s.getTripBookings)
			trips.GET("/:id/todos", s.getTripTodos)
			trips.GET("/:id/connections", s.getTripConnections)
			trips.GET("/:id/export/pdf", s.exportTripPDF)
		}

		// Booking management
		bookings := v1.Group("/bookings")
		{
			bookings.GET("", s.getBookings)
			bookings.POST("", s.createBooking)
			bookings.GET("/:id", s.getBooking)
			bookings.PUT("/:id", s.updateBooking)
			bookings.DELETE("/:id", s.deleteBooking)
		}

		// Todo management
		todos := v1.Group("/todos")
		{
			todos.POST("", s.createTodo)
			todos.GET("/:id", s.getTodo)
			todos.PUT("/:id", s.updateTodo)
			todos.DELETE("/:id", s.deleteTodo)
			todos.PATCH("/:id/complete", s.completeTodo)
		}

		// Airport lookup
		v1.GET("/airports/search", s.searchAirports)

		// Language selection
		v1.GET("/languages", s.getLanguages)
		v1.POST("/set-language", s.setLanguage)
	}

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})
}
