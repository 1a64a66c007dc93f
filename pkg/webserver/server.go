package webserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/gbergara/trip-planner/pkg/airports"
	"github.com/gbergara/trip-planner/pkg/config"
	"github.com/gbergara/trip-planner/pkg/db"
	"github.com/gbergara/trip-planner/pkg/i18n"
	"github.com/gbergara/trip-planner/pkg/log"
	"github.com/gbergara/trip-planner/pkg/models"
	"github.com/gbergara/trip-planner/pkg/pdf"
	"github.com/gbergara/trip-planner/pkg/utils"
)

const guestSessionKey = "guest_session_id"

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	db         *db.DB
	repo       *db.Repository
	logger     *log.Logger
	router     *gin.Engine
	httpServer *http.Server
	jwtManager *utils.JWTManager
	validator  *utils.Validator
	tokens     *utils.TokenGenerator
	translator *i18n.Translator
	pdfGen     *pdf.Generator
	airports   *airports.Service
}

// New creates a new HTTP server instance
func New(cfg *config.Config, database *db.DB, logger *log.Logger, airportSvc *airports.Service) (*Server, error) {
	translator, err := i18n.New(&cfg.I18n)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize translator: %w", err)
	}

	// Set Gin mode
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	server := &Server{
		config:     cfg,
		db:         database,
		repo:       db.NewRepository(database),
		logger:     logger,
		router:     router,
		jwtManager: utils.NewJWTManager(cfg.Security.SessionSecret, cfg.Security.JWTExpirationHours),
		validator:  utils.NewValidator(),
		tokens:     utils.NewTokenGenerator(),
		translator: translator,
		pdfGen:     pdf.NewGenerator(translator),
		airports:   airportSvc,
	}

	server.setupMiddleware()
	server.setupRoutes()

	server.httpServer = &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	return server, nil
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		s.logger.WithField("panic", recovered).Error("Panic recovered")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Internal server error"))
		c.Abort()
	}))

	// Logging middleware
	s.router.Use(s.loggingMiddleware())

	// CORS middleware
	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173", "http://localhost:8080"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Accept-Language", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Session middleware
	store := cookie.NewStore([]byte(s.config.Security.SessionSecret))
	store.Options(sessions.Options{
		MaxAge:   86400 * s.config.Security.SessionMaxAgeDays,
		HttpOnly: true,
		Secure:   s.config.Security.SessionCookieSecure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})
	s.router.Use(sessions.Sessions(s.config.Security.SessionCookieName, store))

	// Rate limiting middleware
	if s.config.Security.RateLimitEnabled {
		s.router.Use(s.rateLimitMiddleware())
	}

	// Security headers middleware
	s.router.Use(s.securityHeadersMiddleware())

	// Identity resolution: authenticated user via JWT cookie when
	// present, guest session otherwise. Never rejects a request.
	s.router.Use(s.identityMiddleware())
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		clientIP := c.ClientIP()

		s.logger.LogRequest(
			c.Request.Method,
			path,
			c.Request.UserAgent(),
			clientIP,
			c.Writer.Status(),
			latency.Milliseconds(),
		)

		// Log slow requests
		if latency > 1*time.Second {
			s.logger.LogPerformance("http_request", latency.Milliseconds(), map[string]interface{}{
				"method": c.Request.Method,
				"path":   path,
				"query":  raw,
				"status": c.Writer.Status(),
			})
		}
	}
}

// rateLimitMiddleware implements rate limiting
func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	limiter := rate.NewLimiter(
		rate.Limit(s.config.Security.RateLimitPerMinute)/60, // per second
		s.config.Security.RateLimitBurstSize,
	)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			s.logger.LogSecurity("rate_limit_exceeded", "", c.ClientIP(), map[string]interface{}{
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			})
			c.JSON(http.StatusTooManyRequests, utils.NewErrorResponse("Rate limit exceeded"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// securityHeadersMiddleware adds security headers
func (s *Server) securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// identityMiddleware resolves who the request acts as. A valid JWT
// cookie wins; anything else falls back to an anonymous guest session
// that is created on first use.
func (s *Server) identityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(s.config.Security.AuthCookieName)
		if err == nil && tokenString != "" {
			claims, err := s.jwtManager.ValidateToken(tokenString)
			if err != nil {
				s.logger.LogSecurity("invalid_token", "", c.ClientIP(), map[string]interface{}{
					"error": err.Error(),
				})
			} else if user, err := s.repo.GetUserByID(models.UUID(claims.UserID)); err == nil && user.IsActive {
				c.Set("user", user)
			}
		}
		c.Next()
	}
}

// getCurrentUser gets the current user from context, if authenticated.
func (s *Server) getCurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

// currentOwner resolves the acting identity for data access. Guests get
// a session ID minted on their first data-touching request.
func (s *Server) currentOwner(c *gin.Context) db.Owner {
	if user, ok := s.getCurrentUser(c); ok {
		return db.UserOwner(user.ID)
	}

	session := sessions.Default(c)
	if id, ok := session.Get(guestSessionKey).(string); ok && id != "" {
		return db.GuestOwner(id)
	}

	id := s.tokens.GenerateGuestSessionID()
	session.Set(guestSessionKey, id)
	if err := session.Save(); err != nil {
		s.logger.WithError(err).Error("Failed to persist guest session")
	}
	return db.GuestOwner(id)
}

// currentLanguage picks the response language: explicit cookie first,
// then the user's stored preference, then Accept-Language.
func (s *Server) currentLanguage(c *gin.Context) string {
	if lang, err := c.Cookie(s.config.I18n.LanguageCookieName); err == nil && s.translator.IsSupported(lang) {
		return lang
	}
	if user, ok := s.getCurrentUser(c); ok && s.translator.IsSupported(user.PreferredLanguage) {
		return user.PreferredLanguage
	}
	return s.translator.DetectFromHeader(c.GetHeader("Accept-Language"))
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info(fmt.Sprintf("Starting server on %s", s.config.Server.GetServerAddr()))

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	s.logger.Info("Server stopped")
	return nil
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Health check endpoint
func (s *Server) healthCheck(c *gin.Context) {
	if err := s.db.HealthCheck(); err != nil {
		c.JSON(http.StatusServiceUnavailable, utils.NewErrorResponse("Database unavailable"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   "1.0.0",
	}, "Service is healthy"))
}
