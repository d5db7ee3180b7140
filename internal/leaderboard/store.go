package leaderboard

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/mauv0809/memorix-backend/internal/category"
)

// New creates a new LeaderboardStore.
func New(db *sql.DB) LeaderboardStore {
	return &store{db: db}
}

const entryColumns = `
	l.rank, l.score_id, l.category_id, c.code, c.name,
	s.profile_id, p.username, s.moves, s.time_seconds, s.stars, s.completed_at
`

const entryJoins = `
	FROM leaderboard_entries l
	JOIN scores s ON s.id = l.score_id
	JOIN profiles p ON p.id = s.profile_id
	JOIN categories c ON c.id = l.category_id
`

func (s *store) TopPlayers(ctx context.Context, limit int) ([]Entry, error) {
	limit = clampLimit(limit, MaxTopPlayersLimit)
	return s.queryEntries(ctx, `
		SELECT `+entryColumns+entryJoins+`
		ORDER BY l.category_id, l.rank
		LIMIT ?
	`, limit)
}

func (s *store) CategoryTop(ctx context.Context, code string, limit int) (*CategoryLeaderboard, error) {
	limit = clampLimit(limit, MaxCategoryLimit)

	var categoryID int64
	var name, resolvedCode string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, code FROM categories WHERE code = ?
	`, strings.ToUpper(strings.TrimSpace(code))).Scan(&categoryID, &name, &resolvedCode)
	if err == sql.ErrNoRows {
		return nil, category.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	entries, err := s.queryEntries(ctx, `
		SELECT `+entryColumns+entryJoins+`
		WHERE l.category_id = ?
		ORDER BY l.rank
		LIMIT ?
	`, categoryID, limit)
	if err != nil {
		return nil, err
	}

	return &CategoryLeaderboard{
		Category:     name,
		CategoryCode: resolvedCode,
		Leaderboard:  entries,
	}, nil
}

func (s *store) UserRank(ctx context.Context, profileID string) ([]Ranking, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.name, c.code, l.rank, l.score_id
		FROM leaderboard_entries l
		JOIN scores s ON s.id = l.score_id
		JOIN categories c ON c.id = l.category_id
		WHERE s.profile_id = ?
		ORDER BY c.name, l.rank
	`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rankings []Ranking
	for rows.Next() {
		var r Ranking
		if err := rows.Scan(&r.Category, &r.CategoryCode, &r.Rank, &r.ScoreID); err != nil {
			return nil, err
		}
		rankings = append(rankings, r)
	}
	return rankings, rows.Err()
}

func (s *store) queryEntries(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var completedAt int64
		err := rows.Scan(
			&e.Rank, &e.ScoreID, &e.CategoryID, &e.CategoryCode, &e.CategoryName,
			&e.ProfileID, &e.Username, &e.Moves, &e.TimeSeconds, &e.Stars, &completedAt,
		)
		if err != nil {
			return nil, err
		}
		e.CompletedAt = time.Unix(completedAt, 0).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// clampLimit applies the default-on-invalid and cap rules shared by the
// leaderboard read endpoints.
func clampLimit(limit, maxLimit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
