package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gbergara/trip-planner/pkg/config"
	"github.com/gbergara/trip-planner/pkg/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB wraps the gorm.DB instance with additional functionality
type DB struct {
	*gorm.DB
	config *config.DatabaseConfig
}

// New creates a new database connection
func New(cfg *config.DatabaseConfig) (*DB, error) {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.GetDSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.GetDSN())
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	// Configure GORM
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	// Open database connection
	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite does not enforce foreign keys unless asked
	if cfg.Driver == "sqlite" {
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	// Get underlying sql.DB for connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{
		DB:     db,
		config: cfg,
	}, nil
}

// Migrate runs database migrations
func (db *DB) Migrate() error {
	if err := models.AutoMigrate(db.DB); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := models.CreateIndexes(db.DB); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// SeedAllowedAccounts seeds the login allowlist. Each entry is either an
// email address or a bare domain. Existing entries are left untouched.
func (db *DB) SeedAllowedAccounts(entries []string) error {
	for _, entry := range entries {
		entry = strings.TrimSpace(strings.ToLower(entry))
		if entry == "" {
			continue
		}

		account := models.AllowedAccount{Active: true}
		var existing models.AllowedAccount
		var result *gorm.DB
		if strings.Contains(entry, "@") {
			account.Email = entry
			result = db.Where("email = ?", entry).First(&existing)
		} else {
			account.Domain = entry
			result = db.Where("domain = ?", entry).First(&existing)
		}

		if result.Error == gorm.ErrRecordNotFound {
			if err := db.Create(&account).Error; err != nil {
				return fmt.Errorf("failed to seed allowed account %s: %w", entry, err)
			}
		}
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// HealthCheck performs a health check on the database
func (db *DB) HealthCheck() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return sqlDB.PingContext(ctx)
}

// Transaction executes a function within a database transaction
func (db *DB) Transaction(fn func(*gorm.DB) error) error {
	return db.DB.Transaction(fn)
}
