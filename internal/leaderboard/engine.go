package leaderboard

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/memorix-backend/internal/metrics"
)

// Engine rebuilds a category's leaderboard rows from its current score set.
// It is the only writer of leaderboard rows. Recompute is idempotent and
// convergent: it derives everything from stored scores, so duplicate or
// reordered invocations always settle on the same result.
type Engine struct {
	db      *sql.DB
	metrics metrics.Metrics
	locks   sync.Map // categoryID -> *sync.Mutex
}

// NewEngine creates a new Engine.
func NewEngine(db *sql.DB, m metrics.Metrics) *Engine {
	return &Engine{db: db, metrics: m}
}

// Recompute replaces the category's leaderboard with the current top
// topCount scores, ranked by stars descending, then time ascending, then
// moves ascending. Rows that fell out of the top set are pruned, surviving
// rows keep their identity with an updated rank, and the whole swap happens
// in one transaction so readers never observe a half-rewritten board.
// A category that no longer exists is a logged no-op: the triggering event
// simply predates the deletion.
func (e *Engine) Recompute(ctx context.Context, categoryID int64, topCount int) error {
	if topCount <= 0 {
		topCount = DefaultTopCount
	}
	if topCount > MaxRank {
		topCount = MaxRank
	}

	// Two recomputes for the same category must not interleave their
	// read-diff-write phases.
	mu := e.categoryLock(categoryID)
	mu.Lock()
	defer mu.Unlock()

	start := time.Now()
	err := e.recompute(ctx, categoryID, topCount)
	e.metrics.ObserveRecomputeDuration(time.Since(start).Seconds())
	if err != nil {
		e.metrics.IncRecomputeFailures()
		return fmt.Errorf("leaderboard recompute for category %d: %w", categoryID, err)
	}
	e.metrics.IncRecomputeRuns()
	return nil
}

func (e *Engine) recompute(ctx context.Context, categoryID int64, topCount int) error {
	var exists int
	err := e.db.QueryRowContext(ctx, `SELECT 1 FROM categories WHERE id = ?`, categoryID).Scan(&exists)
	if err == sql.ErrNoRows {
		log.Warn("Skipping leaderboard update, category no longer exists", "categoryID", categoryID)
		return nil
	}
	if err != nil {
		return err
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	topIDs, err := e.selectTopScores(ctx, tx, categoryID, topCount)
	if err != nil {
		return err
	}

	if err := e.pruneStaleEntries(ctx, tx, categoryID, topIDs); err != nil {
		return err
	}

	// Park current ranks on the negative side so the unique
	// (category_id, rank) index cannot trip while positions shift.
	if _, err := tx.ExecContext(ctx, `
		UPDATE leaderboard_entries SET rank = -rank WHERE category_id = ?
	`, categoryID); err != nil {
		return err
	}

	for i, scoreID := range topIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO leaderboard_entries (score_id, category_id, rank)
			VALUES (?, ?, ?)
			ON CONFLICT(score_id) DO UPDATE SET
				rank = excluded.rank,
				category_id = excluded.category_id
		`, scoreID, categoryID, i+1); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	log.Debug("Leaderboard recomputed", "categoryID", categoryID, "entries", len(topIDs))
	return nil
}

// selectTopScores returns the ids of the category's best scores in rank
// order. The id tiebreak keeps ties beyond the three ranking fields in a
// stable insertion order.
func (e *Engine) selectTopScores(ctx context.Context, tx *sql.Tx, categoryID int64, topCount int) ([]int64, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id FROM scores
		WHERE category_id = ?
		ORDER BY stars DESC, time_seconds ASC, moves ASC, id ASC
		LIMIT ?
	`, categoryID, topCount)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (e *Engine) pruneStaleEntries(ctx context.Context, tx *sql.Tx, categoryID int64, topIDs []int64) error {
	if len(topIDs) == 0 {
		_, err := tx.ExecContext(ctx, `DELETE FROM leaderboard_entries WHERE category_id = ?`, categoryID)
		return err
	}

	placeholders := strings.Repeat("?,", len(topIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, 0, len(topIDs)+1)
	args = append(args, categoryID)
	for _, id := range topIDs {
		args = append(args, id)
	}
	_, err := tx.ExecContext(ctx, `
		DELETE FROM leaderboard_entries
		WHERE category_id = ? AND score_id NOT IN (`+placeholders+`)
	`, args...)
	return err
}

func (e *Engine) categoryLock(categoryID int64) *sync.Mutex {
	lock, _ := e.locks.LoadOrStore(categoryID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}
