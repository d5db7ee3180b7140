package score

// Validation bounds for a submitted game result.
const (
	MinMoves       = 1
	MaxMoves       = 10000
	MinTimeSeconds = 1
	MaxTimeSeconds = 86400
	MinStars       = 1
	MaxStars       = 5

	// A move cannot average under 100ms.
	MinSecondsPerMove = 0.1

	// A rating of HighStarThreshold stars or more is implausible past this
	// many moves.
	HighStarThreshold    = 4
	MaxMovesForHighStars = 100
)

// Listing defaults for the owner-facing score queries.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
	RecentLimit      = 10
)
