package leaderboard

import "context"

// LeaderboardStore is the read-only query surface over the derived
// leaderboard rows. All writes go through the Engine.
type LeaderboardStore interface {
	// TopPlayers returns up to limit entries across the whole system,
	// ordered by category then rank. A "global" ranking is per-category
	// concatenation, not a cross-category score comparison.
	TopPlayers(ctx context.Context, limit int) ([]Entry, error)

	// CategoryTop returns one category's board ordered by rank. Returns
	// category.ErrNotFound when the code does not resolve. Never pads:
	// a category with 3 ranked scores yields exactly 3 entries.
	CategoryTop(ctx context.Context, code string, limit int) (*CategoryLeaderboard, error)

	// UserRank returns one Ranking per category where the profile currently
	// holds a leaderboard entry; categories without one are omitted.
	UserRank(ctx context.Context, profileID string) ([]Ranking, error)
}
