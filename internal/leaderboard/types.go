package leaderboard

import (
	"database/sql"
	"time"
)

const (
	// DefaultTopCount is how many ranked entries each category retains.
	DefaultTopCount = 5
	// MaxRank is the hard ceiling on rank values.
	MaxRank = 1000

	// Limit handling for the read endpoints: invalid input falls back to
	// DefaultLimit; the caps differ per query.
	DefaultLimit       = 10
	MaxTopPlayersLimit = 100
	MaxCategoryLimit   = 50
)

// Entry is one ranked row of a category leaderboard: the link between a
// score and its position within the category's top-N.
type Entry struct {
	Rank         int       `json:"rank"`
	ScoreID      int64     `json:"score_id"`
	CategoryID   int64     `json:"category_id"`
	CategoryCode string    `json:"category_code"`
	CategoryName string    `json:"category_name"`
	ProfileID    string    `json:"profile"`
	Username     string    `json:"username"`
	Moves        int       `json:"moves"`
	TimeSeconds  int       `json:"time_seconds"`
	Stars        int       `json:"stars"`
	CompletedAt  time.Time `json:"completed_at"`
}

// CategoryLeaderboard is the response shape of a single category's board.
type CategoryLeaderboard struct {
	Category     string  `json:"category"`
	CategoryCode string  `json:"category_code"`
	Leaderboard  []Entry `json:"leaderboard"`
}

// Ranking is one category where a profile currently holds a leaderboard
// entry.
type Ranking struct {
	Category     string `json:"category"`
	CategoryCode string `json:"category_code"`
	Rank         int    `json:"rank"`
	ScoreID      int64  `json:"score_id"`
}

// UserRankings wraps a profile's rankings across all categories.
type UserRankings struct {
	Username string    `json:"username"`
	Rankings []Ranking `json:"rankings"`
}

// store handles read access to leaderboard rows.
type store struct {
	db *sql.DB
}
