package category

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a category code or id does not resolve.
var ErrNotFound = errors.New("category not found")

// Category is a themed bucket of game content that scores are submitted
// against. Categories are provisioned from the static catalog and are
// immutable afterwards.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Seed is one record of the provisioning catalog.
type Seed struct {
	Name        string
	Code        string
	Description string
}

// store handles all database operations for categories.
type store struct {
	db *sql.DB
}
