package scheduler

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sethvargo/go-retry"
)

const (
	defaultQueueSize   = 1024
	defaultMaxRetries  = 3
	defaultBackoffBase = 200 * time.Millisecond
)

// Local is an in-process Scheduler for single-instance deployments and tests.
// Jobs flow through a bounded channel into a worker goroutine that invokes
// the engine with a retry policy. A job dropped on a full queue or exhausted
// retries only leaves the leaderboard temporarily stale; the next mutation in
// the same category schedules a fresh recompute.
type Local struct {
	jobs     chan RecomputeLeaderboard
	engine   Recomputer
	topCount int
	done     chan struct{}
}

// NewLocal creates a Local scheduler. Run must be started for jobs to be
// processed.
func NewLocal(engine Recomputer, topCount int) *Local {
	return &Local{
		jobs:     make(chan RecomputeLeaderboard, defaultQueueSize),
		engine:   engine,
		topCount: topCount,
		done:     make(chan struct{}),
	}
}

// Schedule enqueues a recompute job, optionally after a delay. Enqueueing
// never blocks the caller.
func (l *Local) Schedule(ctx context.Context, categoryID int64, delay time.Duration) error {
	job := RecomputeLeaderboard{
		CategoryID: categoryID,
		EnqueuedAt: time.Now().Unix(),
	}
	if delay <= 0 {
		l.enqueue(job)
		return nil
	}
	time.AfterFunc(delay, func() { l.enqueue(job) })
	return nil
}

func (l *Local) enqueue(job RecomputeLeaderboard) {
	select {
	case l.jobs <- job:
	default:
		log.Warn("Leaderboard job queue full, dropping job", "categoryID", job.CategoryID)
	}
}

// Run processes jobs until ctx is canceled.
func (l *Local) Run(ctx context.Context) {
	defer close(l.done)
	log.Info("Local leaderboard scheduler started", "queueSize", cap(l.jobs))
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-l.jobs:
			l.process(ctx, job)
		}
	}
}

// Wait blocks until the Run loop has exited.
func (l *Local) Wait() {
	<-l.done
}

func (l *Local) process(ctx context.Context, job RecomputeLeaderboard) {
	backoff := retry.WithMaxRetries(defaultMaxRetries, retry.NewExponential(defaultBackoffBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := l.engine.Recompute(ctx, job.CategoryID, l.topCount); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		// Recovered entirely inside the worker; no client is waiting.
		log.Error("Leaderboard recompute failed after retries", "error", err, "categoryID", job.CategoryID)
	}
}
