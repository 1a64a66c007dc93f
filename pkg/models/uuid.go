package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// UUID is the primary key type for all models. Postgres stores it as a
// native uuid column, SQLite as 36-character text, so the same models
// run against both drivers.
type UUID string

// NewUUID returns a random v4 UUID.
func NewUUID() UUID {
	return UUID(uuid.NewString())
}

// ParseUUID validates a string as a UUID.
func ParseUUID(s string) (UUID, error) {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return UUID(parsed.String()), nil
}

func (u UUID) String() string {
	return string(u)
}

// IsZero reports whether the UUID is unset.
func (u UUID) IsZero() bool {
	return u == ""
}

// GormDBDataType picks the column type per dialect.
func (UUID) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "uuid"
	default:
		return "varchar(36)"
	}
}
