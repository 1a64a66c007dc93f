package config

import (
	"fmt"

	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Load loads configuration from environment variables with fallback to defaults
func Load() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		fmt.Printf("Warning: Error loading .env file: %v", err)
		fmt.Println("Continuing with environment variables...")
	}

	config := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "localhost"),
			Port:         getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 30),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 30),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 120),
			GracefulStop: getEnvInt("SERVER_GRACEFUL_STOP", 30),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "sqlite"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			Database:        getEnv("DB_NAME", "trip_planner.db"),
			Username:        getEnv("DB_USERNAME", ""),
			Password:        getEnv("DB_PASSWORD", ""),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvInt("DB_CONN_MAX_LIFETIME", 300),
		},
		OAuth: OAuthConfig{
			Google: GoogleOAuthConfig{
				ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
				ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
				RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
				Scopes:       getEnvSlice("GOOGLE_SCOPES", []string{"openid", "email", "profile"}),
			},
		},
		Security: SecurityConfig{
			SessionSecret:       getEnv("SESSION_SECRET", ""),
			JWTExpirationHours:  getEnvInt("JWT_EXPIRATION_HOURS", 24*7),
			SessionCookieName:   getEnv("SESSION_COOKIE_NAME", "trip_session"),
			AuthCookieName:      getEnv("AUTH_COOKIE_NAME", "access_token"),
			SessionCookieSecure: getEnvBool("SESSION_COOKIE_SECURE", false),
			SessionMaxAgeDays:   getEnvInt("SESSION_MAX_AGE_DAYS", 30),
			RateLimitEnabled:    getEnvBool("RATE_LIMIT_ENABLED", true),
			RateLimitPerMinute:  getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
			RateLimitBurstSize:  getEnvInt("RATE_LIMIT_BURST_SIZE", 20),
			AllowedAccounts:     getEnvSlice("ALLOWED_ACCOUNTS", nil),
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			Output:     getEnv("LOG_OUTPUT", "stdout"),
			FilePath:   getEnv("LOG_FILE_PATH", "logs/trip-planner.log"),
			MaxSize:    getEnvInt("LOG_MAX_SIZE", 100),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
			MaxAge:     getEnvInt("LOG_MAX_AGE", 28),
			Compress:   getEnvBool("LOG_COMPRESS", true),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", true),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			CacheTTL: getEnvInt("REDIS_CACHE_TTL", 86400),
		},
		I18n: I18nConfig{
			DefaultLanguage:    getEnv("DEFAULT_LANGUAGE", "en"),
			SupportedLanguages: getEnvSlice("SUPPORTED_LANGUAGES", []string{"en", "es"}),
			LanguageCookieName: getEnv("LANGUAGE_COOKIE_NAME", "lang"),
		},
	}

	// Validate required fields
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// validateConfig validates required configuration fields
func validateConfig(config *Config) error {
	if config.Security.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}

	switch config.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", config.Database.Driver)
	}

	// Google OAuth is optional (guest-only mode), but partial credentials
	// are always a misconfiguration.
	g := config.OAuth.Google
	if (g.ClientID == "") != (g.ClientSecret == "") {
		return fmt.Errorf("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set together")
	}

	if config.I18n.DefaultLanguage == "" {
		return fmt.Errorf("DEFAULT_LANGUAGE must not be empty")
	}

	return nil
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	switch c.Driver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.Username, c.Password, c.Database, c.SSLMode)
	case "sqlite":
		return c.Database
	default:
		return ""
	}
}

// GetServerAddr returns the server address string
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GetRedisAddr returns the redis address string
func (c *RedisConfig) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}
