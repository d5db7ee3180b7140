package score

import "context"

// ScoreStore defines persistence for game results. Submit and the delete
// variants schedule a leaderboard update for every category they touch; that
// scheduling is part of this contract, not a hidden storage hook.
type ScoreStore interface {
	// Submit upserts on the (profile, category, moves, time_seconds, stars)
	// tuple. An identical existing row is returned unchanged with
	// created=false; resubmission never creates a duplicate.
	Submit(ctx context.Context, profileID string, categoryID int64, moves, timeSeconds, stars int) (*Score, bool, error)

	// Get returns the score only if it belongs to profileID, ErrNotFound
	// otherwise.
	Get(ctx context.Context, id int64, profileID string) (*Score, error)

	// Delete removes the score only if it belongs to profileID, ErrNotFound
	// otherwise.
	Delete(ctx context.Context, id int64, profileID string) error

	// DeleteByCategory removes all of the profile's scores in one category,
	// returning the count. ErrNotFound when there was nothing to delete.
	DeleteByCategory(ctx context.Context, profileID string, categoryID int64) (int, error)

	// DeleteAll removes all of the profile's scores across categories,
	// returning the count. ErrNotFound when there was nothing to delete.
	DeleteAll(ctx context.Context, profileID string) (int, error)

	// List returns the profile's own scores, newest first, optionally
	// restricted to one category, paginated.
	List(ctx context.Context, profileID string, categoryID *int64, limit, offset int) ([]Score, error)

	// Best returns the single best score per category the profile has
	// played: highest stars, then fewest moves, then fastest time.
	Best(ctx context.Context, profileID string) ([]Score, error)

	// Recent returns the profile's last scores across all categories.
	Recent(ctx context.Context, profileID string) ([]Score, error)
}
