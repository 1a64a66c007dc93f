package config

type Config struct {
	// Server settings
	Server ServerConfig `json:"server"`

	// Database settings
	Database DatabaseConfig `json:"database"`

	// Google OAuth2 settings
	OAuth OAuthConfig `json:"oauth"`

	// Security settings
	Security SecurityConfig `json:"security"`

	// Logging settings
	Logging LoggingConfig `json:"logging"`

	// Redis settings (airport dataset cache)
	Redis RedisConfig `json:"redis"`

	// Internationalization settings
	I18n I18nConfig `json:"i18n"`
}

type ServerConfig struct {
	Host         string `json:"host" default:"localhost"`
	Port         int    `json:"port" default:"8080"`
	ReadTimeout  int    `json:"read_timeout" default:"30"`  // seconds
	WriteTimeout int    `json:"write_timeout" default:"30"` // seconds
	IdleTimeout  int    `json:"idle_timeout" default:"120"` // seconds
	GracefulStop int    `json:"graceful_stop" default:"30"` // seconds
}

type DatabaseConfig struct {
	Driver   string `json:"driver" default:"sqlite"` // sqlite, postgres
	Host     string `json:"host" default:"localhost"`
	Port     int    `json:"port" default:"5432"`
	Database string `json:"database" default:"trip_planner.db"`
	Username string `json:"username"`
	Password string `json:"password"`
	SSLMode  string `json:"ssl_mode" default:"disable"`

	// Connection pool settings
	MaxOpenConns    int `json:"max_open_conns" default:"25"`
	MaxIdleConns    int `json:"max_idle_conns" default:"5"`
	ConnMaxLifetime int `json:"conn_max_lifetime" default:"300"` // seconds
}

type OAuthConfig struct {
	Google GoogleOAuthConfig `json:"google"`
}

type GoogleOAuthConfig struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	RedirectURL  string   `json:"redirect_url"`
	Scopes       []string `json:"scopes" default:"[\"openid\",\"email\",\"profile\"]"`
}

// Enabled reports whether Google login is configured. The app runs in
// guest-only mode without it.
func (c *GoogleOAuthConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type SecurityConfig struct {
	SessionSecret       string `json:"session_secret"`
	JWTExpirationHours  int    `json:"jwt_expiration_hours" default:"168"`
	SessionCookieName   string `json:"session_cookie_name" default:"trip_session"`
	AuthCookieName      string `json:"auth_cookie_name" default:"access_token"`
	SessionCookieSecure bool   `json:"session_cookie_secure" default:"false"`
	SessionMaxAgeDays   int    `json:"session_max_age_days" default:"30"`

	// Rate limiting
	RateLimitEnabled   bool `json:"rate_limit_enabled" default:"true"`
	RateLimitPerMinute int  `json:"rate_limit_per_minute" default:"120"`
	RateLimitBurstSize int  `json:"rate_limit_burst_size" default:"20"`

	// Seed entries for the login allowlist, each either an email address
	// or a bare domain, e.g. "alice@example.com" or "example.org".
	AllowedAccounts []string `json:"allowed_accounts"`
}

type LoggingConfig struct {
	Level      string `json:"level" default:"info"`    // debug, info, warn, error
	Format     string `json:"format" default:"json"`   // json, text
	Output     string `json:"output" default:"stdout"` // stdout, file
	FilePath   string `json:"file_path" default:"logs/trip-planner.log"`
	MaxSize    int    `json:"max_size" default:"100"` // MB
	MaxBackups int    `json:"max_backups" default:"3"`
	MaxAge     int    `json:"max_age" default:"28"` // days
	Compress   bool   `json:"compress" default:"true"`
}

type RedisConfig struct {
	Enabled  bool   `json:"enabled" default:"true"`
	Host     string `json:"host" default:"localhost"`
	Port     int    `json:"port" default:"6379"`
	Password string `json:"password"`
	DB       int    `json:"db" default:"0"`
	CacheTTL int    `json:"cache_ttl" default:"86400"` // seconds
}

type I18nConfig struct {
	DefaultLanguage    string   `json:"default_language" default:"en"`
	SupportedLanguages []string `json:"supported_languages" default:"[\"en\",\"es\"]"`
	LanguageCookieName string   `json:"language_cookie_name" default:"lang"`
}
