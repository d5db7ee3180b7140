package scheduler

// RecomputeLeaderboard is the job payload for one leaderboard update. The
// payload only identifies the category; the engine derives everything else
// from current store state, so stale or duplicate deliveries converge.
type RecomputeLeaderboard struct {
	CategoryID int64 `msgpack:"category_id" json:"category_id"`
	EnqueuedAt int64 `msgpack:"enqueued_at" json:"enqueued_at"`
}
