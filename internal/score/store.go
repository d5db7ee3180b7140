package score

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/memorix-backend/internal/ownable"
	"github.com/mauv0809/memorix-backend/internal/scheduler"
)

// New creates a new ScoreStore. Leaderboard updates for touched categories
// are handed to sched after each committed mutation, deferred by delay.
func New(db *sql.DB, sched scheduler.Scheduler, delay time.Duration) ScoreStore {
	return &store{db: db, scheduler: sched, delay: delay}
}

const scoreColumns = `
	s.id, s.profile_id, p.username, s.category_id, c.code, c.name,
	s.moves, s.time_seconds, s.stars, s.completed_at
`

const scoreJoins = `
	FROM scores s
	JOIN profiles p ON p.id = s.profile_id
	JOIN categories c ON c.id = s.category_id
`

func (s *store) Submit(ctx context.Context, profileID string, categoryID int64, moves, timeSeconds, stars int) (*Score, bool, error) {
	// Upsert keyed on the unique 5-tuple: an identical resubmission is a
	// no-op that returns the existing row with its original timestamp.
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO scores (profile_id, category_id, moves, time_seconds, stars, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(profile_id, category_id, moves, time_seconds, stars) DO NOTHING
	`, profileID, categoryID, moves, timeSeconds, stars, time.Now().Unix())
	if err != nil {
		return nil, false, fmt.Errorf("failed to submit score: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, false, err
	}
	created := affected > 0

	row := s.db.QueryRowContext(ctx, `
		SELECT `+scoreColumns+scoreJoins+`
		WHERE s.profile_id = ? AND s.category_id = ? AND s.moves = ? AND s.time_seconds = ? AND s.stars = ?
	`, profileID, categoryID, moves, timeSeconds, stars)
	sc, err := scanScoreRow(row)
	if err != nil {
		return nil, false, err
	}

	s.scheduleUpdate(ctx, categoryID)
	return sc, created, nil
}

func (s *store) Get(ctx context.Context, id int64, profileID string) (*Score, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+scoreColumns+scoreJoins+`
		WHERE s.id = ?
	`, id)
	sc, err := scanScoreRow(row)
	if err != nil {
		return nil, err
	}
	if !ownable.OwnedBy(sc, profileID) {
		return nil, ErrNotFound
	}
	return sc, nil
}

func (s *store) Delete(ctx context.Context, id int64, profileID string) error {
	sc, err := s.Get(ctx, id, profileID)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM scores WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete score %d: %w", id, err)
	}
	s.scheduleUpdate(ctx, sc.CategoryID)
	return nil
}

func (s *store) DeleteByCategory(ctx context.Context, profileID string, categoryID int64) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM scores WHERE profile_id = ? AND category_id = ?
	`, profileID, categoryID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear category scores: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if deleted == 0 {
		return 0, ErrNotFound
	}
	s.scheduleUpdate(ctx, categoryID)
	return int(deleted), nil
}

func (s *store) DeleteAll(ctx context.Context, profileID string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT DISTINCT category_id FROM scores WHERE profile_id = ?
	`, profileID)
	if err != nil {
		return 0, err
	}
	var categories []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		categories = append(categories, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if len(categories) == 0 {
		return 0, ErrNotFound
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM scores WHERE profile_id = ?`, profileID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear scores: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}

	for _, categoryID := range categories {
		s.scheduleUpdate(ctx, categoryID)
	}
	return int(deleted), nil
}

func (s *store) List(ctx context.Context, profileID string, categoryID *int64, limit, offset int) ([]Score, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + scoreColumns + scoreJoins + ` WHERE s.profile_id = ?`
	args := []any{profileID}
	if categoryID != nil {
		query += ` AND s.category_id = ?`
		args = append(args, *categoryID)
	}
	query += ` ORDER BY s.completed_at DESC, s.id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	return s.queryScores(ctx, query, args...)
}

func (s *store) Best(ctx context.Context, profileID string) ([]Score, error) {
	// One row per category: max stars first, ties broken by fewest moves,
	// then fastest time. Independent of leaderboard membership.
	return s.queryScores(ctx, `
		SELECT `+scoreColumns+`
		FROM (
			SELECT *, ROW_NUMBER() OVER (
				PARTITION BY category_id
				ORDER BY stars DESC, moves ASC, time_seconds ASC, id ASC
			) AS rn
			FROM scores
			WHERE profile_id = ?
		) s
		JOIN profiles p ON p.id = s.profile_id
		JOIN categories c ON c.id = s.category_id
		WHERE s.rn = 1
		ORDER BY c.name
	`, profileID)
}

func (s *store) Recent(ctx context.Context, profileID string) ([]Score, error) {
	return s.queryScores(ctx, `
		SELECT `+scoreColumns+scoreJoins+`
		WHERE s.profile_id = ?
		ORDER BY s.completed_at DESC, s.id DESC
		LIMIT ?
	`, profileID, RecentLimit)
}

// scheduleUpdate hands the category to the async scheduler. A scheduling
// failure never fails the caller's request; the leaderboard merely stays
// stale until the next mutation in that category.
func (s *store) scheduleUpdate(ctx context.Context, categoryID int64) {
	if err := s.scheduler.Schedule(ctx, categoryID, s.delay); err != nil {
		log.Error("Failed to schedule leaderboard update", "error", err, "categoryID", categoryID)
	}
}

func (s *store) queryScores(ctx context.Context, query string, args ...any) ([]Score, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []Score
	for rows.Next() {
		sc, err := scanScore(rows)
		if err != nil {
			return nil, err
		}
		scores = append(scores, *sc)
	}
	return scores, rows.Err()
}

func scanScore(scanner interface{ Scan(...any) error }) (*Score, error) {
	var sc Score
	var completedAt int64
	err := scanner.Scan(
		&sc.ID, &sc.ProfileID, &sc.Username, &sc.CategoryID, &sc.CategoryCode,
		&sc.CategoryName, &sc.Moves, &sc.TimeSeconds, &sc.Stars, &completedAt,
	)
	if err != nil {
		return nil, err
	}
	sc.CompletedAt = time.Unix(completedAt, 0).UTC()
	return &sc, nil
}

func scanScoreRow(row *sql.Row) (*Score, error) {
	sc, err := scanScore(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sc, nil
}
