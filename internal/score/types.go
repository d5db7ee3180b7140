package score

import (
	"database/sql"
	"errors"
	"time"

	"github.com/mauv0809/memorix-backend/internal/scheduler"
)

// ErrNotFound is returned when a score does not exist for the requesting
// owner. Acting on another profile's score yields the same error so the
// response never confirms the row exists.
var ErrNotFound = errors.New("score not found")

// Score is one completed play session's outcome for one profile in one
// category. Scores are immutable once created.
type Score struct {
	ID           int64     `json:"id"`
	ProfileID    string    `json:"profile"`
	Username     string    `json:"username"`
	CategoryID   int64     `json:"category_id"`
	CategoryCode string    `json:"category_code"`
	CategoryName string    `json:"category_name"`
	Moves        int       `json:"moves"`
	TimeSeconds  int       `json:"time_seconds"`
	Stars        int       `json:"stars"`
	CompletedAt  time.Time `json:"completed_at"`
	// CompletedAgo is the humanized form of CompletedAt ("just now", "5m"),
	// filled in at serialization time.
	CompletedAgo string `json:"completed_ago,omitempty"`
}

// OwnerID satisfies the ownable.Resource capability.
func (s *Score) OwnerID() string {
	return s.ProfileID
}

// Submission is the wire shape of a score submission.
type Submission struct {
	CategoryCode string `json:"category"`
	Moves        int    `json:"moves"`
	TimeSeconds  int    `json:"time_seconds"`
	Stars        int    `json:"stars"`
}

// FieldErrors collects validation failures per field. All rules are checked
// independently; nothing short-circuits.
type FieldErrors map[string][]string

// Add appends a message for a field.
func (fe FieldErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}

// HasErrors reports whether any field failed validation.
func (fe FieldErrors) HasErrors() bool {
	return len(fe) > 0
}

// store handles all database operations for scores. It also owns the trigger
// point for leaderboard updates: every committed create or delete schedules a
// recompute for the touched categories.
type store struct {
	db        *sql.DB
	scheduler scheduler.Scheduler
	delay     time.Duration
}
