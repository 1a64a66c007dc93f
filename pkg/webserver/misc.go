package webserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gbergara/trip-planner/pkg/utils"
)

// searchAirports serves substring lookups over the airport dataset.
func (s *Server) searchAirports(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Query parameter 'q' is required"))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	results := s.airports.Search(query, limit)

	c.JSON(http.StatusOK, utils.NewSuccessResponse(results, ""))
}

// getLanguages lists the supported languages and the caller's current one.
func (s *Server) getLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, utils.NewSuccessResponse(map[string]interface{}{
		"current":   s.currentLanguage(c),
		"languages": s.translator.LanguageNames(),
	}, ""))
}

// setLanguage stores the language choice in a cookie and, for signed-in
// users, in their profile.
func (s *Server) setLanguage(c *gin.Context) {
	var req struct {
		Language string `json:"language" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(err.Error()))
		return
	}

	if !s.translator.IsSupported(req.Language) {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Unsupported language"))
		return
	}

	maxAge := 86400 * 30
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.config.I18n.LanguageCookieName, req.Language, maxAge, "/", "",
		s.config.Security.SessionCookieSecure, false)

	if user, ok := s.getCurrentUser(c); ok {
		user.PreferredLanguage = req.Language
		if err := s.repo.UpdateUser(user); err != nil {
			s.logger.WithError(err).Error("Failed to store language preference")
		}
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(map[string]string{
		"language": req.Language,
	}, "Language updated"))
}
