package profile

import (
	"database/sql"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no profile matches the lookup.
	ErrNotFound = errors.New("profile not found")
	// ErrForbidden is returned when a caller tries to mutate a profile
	// they do not own.
	ErrForbidden = errors.New("you can only modify your own profile")
)

// Profile is the player identity that owns scores and leaderboard standing.
type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Picture   string    `json:"picture"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnerID satisfies the ownable.Resource capability; a profile owns itself.
func (p *Profile) OwnerID() string {
	return p.ID
}

type store struct {
	db *sql.DB
}
