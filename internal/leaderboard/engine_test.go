package leaderboard_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/mauv0809/memorix-backend/internal/category"
	"github.com/mauv0809/memorix-backend/internal/database"
	"github.com/mauv0809/memorix-backend/internal/leaderboard"
	"github.com/mauv0809/memorix-backend/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database with the catalog
// provisioned and a handful of profiles inserted.
func setupTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	_, err = category.New(db).Provision(context.Background(), category.Catalog())
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO profiles (id, username, picture, api_token, created_at, updated_at) VALUES
		('p1', 'alice', 'nobody_nrbk5n', 'token-1', 1000, 1000),
		('p2', 'bob', 'nobody_nrbk5n', 'token-2', 1000, 1000),
		('p3', 'carol', 'nobody_nrbk5n', 'token-3', 1000, 1000)`)
	require.NoError(t, err)

	teardown := func() {
		dbTeardown()
		db.Close()
	}
	return db, teardown
}

func categoryID(t *testing.T, db *sql.DB, code string) int64 {
	t.Helper()
	cat, err := category.New(db).GetByCode(context.Background(), code)
	require.NoError(t, err)
	return cat.ID
}

func insertScore(t *testing.T, db *sql.DB, profileID string, categoryID int64, moves, timeSeconds, stars int) int64 {
	t.Helper()
	res, err := db.Exec(`
		INSERT INTO scores (profile_id, category_id, moves, time_seconds, stars, completed_at)
		VALUES (?, ?, ?, ?, ?, 1000)
	`, profileID, categoryID, moves, timeSeconds, stars)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// rankedScoreIDs returns the score ids for a category ordered by rank.
func rankedScoreIDs(t *testing.T, db *sql.DB, categoryID int64) []int64 {
	t.Helper()
	rows, err := db.Query(`
		SELECT score_id FROM leaderboard_entries WHERE category_id = ? ORDER BY rank
	`, categoryID)
	require.NoError(t, err)
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		require.NoError(t, rows.Scan(&id))
		ids = append(ids, id)
	}
	require.NoError(t, rows.Err())
	return ids
}

func TestRecomputeRanksByStarsTimeMoves(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()

	ctx := context.Background()
	animals := categoryID(t, db, "ANIMALS")
	engine := leaderboard.NewEngine(db, metrics.NewMock())

	// Stars first, then faster time, then fewer moves.
	third := insertScore(t, db, "p1", animals, 20, 100, 4)
	first := insertScore(t, db, "p2", animals, 40, 200, 5)
	second := insertScore(t, db, "p3", animals, 10, 50, 4)

	require.NoError(t, engine.Recompute(ctx, animals, 5))

	assert.Equal(t, []int64{first, second, third}, rankedScoreIDs(t, db, animals))
}

func TestRecomputeTimeBeatsMovesOnEqualStars(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()

	ctx := context.Background()
	animals := categoryID(t, db, "ANIMALS")
	engine := leaderboard.NewEngine(db, metrics.NewMock())

	// Same stars: the faster game ranks above the one with fewer moves.
	slowFewMoves := insertScore(t, db, "p1", animals, 10, 120, 4)
	fastManyMoves := insertScore(t, db, "p2", animals, 50, 60, 4)

	require.NoError(t, engine.Recompute(ctx, animals, 5))

	assert.Equal(t, []int64{fastManyMoves, slowFewMoves}, rankedScoreIDs(t, db, animals))
}

func TestRecomputeKeepsTopCountEntries(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()

	ctx := context.Background()
	animals := categoryID(t, db, "ANIMALS")
	engine := leaderboard.NewEngine(db, metrics.NewMock())

	for i := 0; i < 8; i++ {
		insertScore(t, db, "p1", animals, 20+i, 60+i, 3)
	}

	require.NoError(t, engine.Recompute(ctx, animals, 5))
	assert.Len(t, rankedScoreIDs(t, db, animals), 5)
}

func TestRecomputeIsIdempotent(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()

	ctx := context.Background()
	animals := categoryID(t, db, "ANIMALS")
	engine := leaderboard.NewEngine(db, metrics.NewMock())

	insertScore(t, db, "p1", animals, 20, 100, 4)
	insertScore(t, db, "p2", animals, 40, 200, 5)

	require.NoError(t, engine.Recompute(ctx, animals, 5))
	want := rankedScoreIDs(t, db, animals)

	require.NoError(t, engine.Recompute(ctx, animals, 5))
	require.NoError(t, engine.Recompute(ctx, animals, 5))
	assert.Equal(t, want, rankedScoreIDs(t, db, animals))
}

func TestRecomputePromotesAfterDelete(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()

	ctx := context.Background()
	animals := categoryID(t, db, "ANIMALS")
	engine := leaderboard.NewEngine(db, metrics.NewMock())

	top := insertScore(t, db, "p1", animals, 40, 200, 5)
	next := insertScore(t, db, "p2", animals, 20, 100, 4)
	last := insertScore(t, db, "p3", animals, 10, 50, 3)

	require.NoError(t, engine.Recompute(ctx, animals, 5))
	require.Equal(t, []int64{top, next, last}, rankedScoreIDs(t, db, animals))

	// Deleting the leader cascades its entry; the recompute closes the gap
	// so ranks stay contiguous from 1.
	_, err := db.Exec(`DELETE FROM scores WHERE id = ?`, top)
	require.NoError(t, err)
	require.NoError(t, engine.Recompute(ctx, animals, 5))

	assert.Equal(t, []int64{next, last}, rankedScoreIDs(t, db, animals))

	var ranks []int
	rows, err := db.Query(`SELECT rank FROM leaderboard_entries WHERE category_id = ? ORDER BY rank`, animals)
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var r int
		require.NoError(t, rows.Scan(&r))
		ranks = append(ranks, r)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []int{1, 2}, ranks)
}

func TestRecomputeEmptyCategoryClearsEntries(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()

	ctx := context.Background()
	animals := categoryID(t, db, "ANIMALS")
	engine := leaderboard.NewEngine(db, metrics.NewMock())

	insertScore(t, db, "p1", animals, 20, 100, 4)
	require.NoError(t, engine.Recompute(ctx, animals, 5))
	require.Len(t, rankedScoreIDs(t, db, animals), 1)

	_, err := db.Exec(`DELETE FROM scores WHERE category_id = ?`, animals)
	require.NoError(t, err)
	require.NoError(t, engine.Recompute(ctx, animals, 5))

	assert.Empty(t, rankedScoreIDs(t, db, animals))
}

func TestRecomputeUnknownCategoryIsNoOp(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()

	engine := leaderboard.NewEngine(db, metrics.NewMock())
	assert.NoError(t, engine.Recompute(context.Background(), 9999, 5))
}

func TestRecomputeClampsTopCount(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()

	ctx := context.Background()
	animals := categoryID(t, db, "ANIMALS")
	engine := leaderboard.NewEngine(db, metrics.NewMock())

	for i := 0; i < 3; i++ {
		insertScore(t, db, "p1", animals, 20+i, 60+i, 3)
	}

	// A non-positive topCount falls back to the default.
	require.NoError(t, engine.Recompute(ctx, animals, 0))
	assert.Len(t, rankedScoreIDs(t, db, animals), 3)
}

func TestRecomputeRecordsMetrics(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()

	ctx := context.Background()
	animals := categoryID(t, db, "ANIMALS")
	m := metrics.NewMock()
	engine := leaderboard.NewEngine(db, m)

	insertScore(t, db, "p1", animals, 20, 100, 4)
	require.NoError(t, engine.Recompute(ctx, animals, 5))

	assert.Equal(t, 1, m.RecomputeRuns)
	assert.Equal(t, 0, m.RecomputeFailures)
}
