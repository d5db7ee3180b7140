package scheduler

import (
	"context"
	"time"
)

// Scheduler decouples leaderboard recomputation from the request that
// triggered it. Delivery is at-least-once: a job may run more than once for
// the same trigger, which is safe because recomputation is idempotent and
// reads current store state rather than the event payload.
type Scheduler interface {
	Schedule(ctx context.Context, categoryID int64, delay time.Duration) error
}

// Recomputer is the engine-side contract the scheduler drives. Keeping the
// engine behind this interface keeps it queue-agnostic and unit-testable
// without any scheduler running.
type Recomputer interface {
	Recompute(ctx context.Context, categoryID int64, topCount int) error
}
