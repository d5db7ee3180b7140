package http_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mauv0809/memorix-backend/internal/category"
	"github.com/mauv0809/memorix-backend/internal/config"
	"github.com/mauv0809/memorix-backend/internal/database"
	server "github.com/mauv0809/memorix-backend/internal/http"
	"github.com/mauv0809/memorix-backend/internal/leaderboard"
	"github.com/mauv0809/memorix-backend/internal/metrics"
	"github.com/mauv0809/memorix-backend/internal/profile"
	"github.com/mauv0809/memorix-backend/internal/pubsub"
	"github.com/mauv0809/memorix-backend/internal/scheduler"
	"github.com/mauv0809/memorix-backend/internal/score"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	aliceToken = "token-alice"
	bobToken   = "token-bob"
)

type testServer struct {
	*server.Server
	db      *sql.DB
	engine  *leaderboard.Engine
	sched   *scheduler.MockScheduler
	metrics *metrics.Mock
}

// newTestServer wires a full server against an in-memory database. The mock
// scheduler runs recomputes synchronously so leaderboard reads observe score
// mutations immediately.
func newTestServer(t *testing.T) (*testServer, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	ctx := context.Background()
	categories := category.New(db)
	_, err = categories.Provision(ctx, category.Catalog())
	require.NoError(t, err)

	profiles := profile.New(db)
	require.NoError(t, profiles.Create(ctx, profile.Profile{ID: "alice-id", Username: "alice"}, aliceToken))
	require.NoError(t, profiles.Create(ctx, profile.Profile{ID: "bob-id", Username: "bob"}, bobToken))

	m := metrics.NewMock()
	engine := leaderboard.NewEngine(db, m)

	cfg := config.Config{
		Leaderboard: config.LeaderboardConfig{TopCount: 5, Topic: "update-leaderboard"},
		Throttle:    config.ThrottleConfig{SubmitPerMinute: 600, SubmitBurst: 100},
	}

	sched := scheduler.NewMock()
	sched.ScheduleFunc = func(ctx context.Context, categoryID int64, delay time.Duration) error {
		return engine.Recompute(ctx, categoryID, cfg.Leaderboard.TopCount)
	}

	scores := score.New(db, sched, 0)

	s := server.NewServer(
		scores,
		profiles,
		categories,
		leaderboard.New(db),
		score.NewValidator(categories),
		engine,
		m,
		metrics.NewMetricsHandler(prometheus.NewRegistry()),
		cfg,
		pubsub.NewMock(""),
	)

	teardown := func() {
		dbTeardown()
		db.Close()
	}
	return &testServer{Server: s, db: db, engine: engine, sched: sched, metrics: m}, teardown
}

func (ts *testServer) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func submission(categoryCode string, moves, timeSeconds, stars int) map[string]any {
	return map[string]any{
		"category":     categoryCode,
		"moves":        moves,
		"time_seconds": timeSeconds,
		"stars":        stars,
	}
}

func TestHealthCheck(t *testing.T) {
	ts, teardown := newTestServer(t)
	defer teardown()

	rec := ts.request(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK!", rec.Body.String())
}

func TestListCategories(t *testing.T) {
	ts, teardown := newTestServer(t)
	defer teardown()

	rec := ts.request(t, http.MethodGet, "/categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	categories := decodeJSON[[]category.Category](t, rec)
	require.Len(t, categories, 4)
	codes := make([]string, 0, len(categories))
	for _, c := range categories {
		codes = append(codes, c.Code)
	}
	assert.ElementsMatch(t, []string{"ANIMALS", "ASTRONOMY", "PATTERN", "FOOD"}, codes)
}

func TestSubmitScore(t *testing.T) {
	ts, teardown := newTestServer(t)
	defer teardown()

	rec := ts.request(t, http.MethodPost, "/scores", aliceToken, submission("ANIMALS", 24, 95, 4))
	require.Equal(t, http.StatusCreated, rec.Code)

	sc := decodeJSON[score.Score](t, rec)
	assert.Equal(t, "alice", sc.Username)
	assert.Equal(t, "ANIMALS", sc.CategoryCode)
	assert.Equal(t, "just now", sc.CompletedAgo)
	assert.Equal(t, 1, ts.metrics.ScoresSubmitted)

	// Identical resubmission returns the existing score with a 200.
	rec = ts.request(t, http.MethodPost, "/scores", aliceToken, submission("ANIMALS", 24, 95, 4))
	require.Equal(t, http.StatusOK, rec.Code)
	again := decodeJSON[score.Score](t, rec)
	assert.Equal(t, sc.ID, again.ID)
}

func TestSubmitScoreRequiresAuth(t *testing.T) {
	ts, teardown := newTestServer(t)
	defer teardown()

	rec := ts.request(t, http.MethodPost, "/scores", "", submission("ANIMALS", 24, 95, 4))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	detail := decodeJSON[map[string]string](t, rec)
	assert.Equal(t, "Authentication required.", detail["detail"])
}

func TestSubmitScoreValidationErrors(t *testing.T) {
	ts, teardown := newTestServer(t)
	defer teardown()

	rec := ts.request(t, http.MethodPost, "/scores", aliceToken, submission("ANIMALS", 0, 0, 9))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	fieldErrs := decodeJSON[map[string][]string](t, rec)
	assert.Contains(t, fieldErrs, "moves")
	assert.Contains(t, fieldErrs, "time_seconds")
	assert.Contains(t, fieldErrs, "stars")
	assert.Equal(t, 1, ts.metrics.ScoresRejected)
}

func TestSubmitScoreUnknownCategory(t *testing.T) {
	ts, teardown := newTestServer(t)
	defer teardown()

	rec := ts.request(t, http.MethodPost, "/scores", aliceToken, submission("SPORTS", 24, 95, 4))
	require.Equal(t, http.StatusNotFound, rec.Code)

	detail := decodeJSON[map[string]string](t, rec)
	assert.Equal(t, "Category 'SPORTS' not found", detail["detail"])
}

func TestGetScoreOwnership(t *testing.T) {
	ts, teardown := newTestServer(t)
	defer teardown()

	rec := ts.request(t, http.MethodPost, "/scores", aliceToken, submission("ANIMALS", 24, 95, 4))
	require.Equal(t, http.StatusCreated, rec.Code)
	sc := decodeJSON[score.Score](t, rec)

	rec = ts.request(t, http.MethodGet, fmt.Sprintf("/scores/%d", sc.ID), aliceToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Another profile sees a 404, never a 403.
	rec = ts.request(t, http.MethodGet, fmt.Sprintf("/scores/%d", sc.ID), bobToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	detail := decodeJSON[map[string]string](t, rec)
	assert.Equal(t, "Score not found.", detail["detail"])
}

func TestDeleteScoreOwnership(t *testing.T) {
	ts, teardown := newTestServer(t)
	defer teardown()

	rec := ts.request(t, http.MethodPost, "/scores", aliceToken, submission("ANIMALS", 24, 95, 4))
	require.Equal(t, http.StatusCreated, rec.Code)
	sc := decodeJSON[score.Score](t, rec)

	rec = ts.request(t, http.MethodDelete, fmt.Sprintf("/scores/%d", sc.ID), bobToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var count int
	require.NoError(t, ts.db.QueryRow(`SELECT COUNT(*) FROM scores`).Scan(&count))
	assert.Equal(t, 1, count)

	rec = ts.request(t, http.MethodDelete, fmt.Sprintf("/scores/%d", sc.ID), aliceToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	require.NoError(t, ts.db.QueryRow(`SELECT COUNT(*) FROM scores`).Scan(&count))
	assert.Equal(t, 0, count)
	assert.Equal(t, 1, ts.metrics.ScoresDeleted)
}

func TestClearCategoryScores(t *testing.T) {
	ts, teardown := newTestServer(t)
	defer teardown()

	ts.request(t, http.MethodPost, "/scores", aliceToken, submission("ANIMALS", 24, 95, 4))
	ts.request(t, http.MethodPost, "/scores", aliceToken, submission("ANIMALS", 30, 120, 3))
	ts.request(t, http.MethodPost, "/scores", aliceToken, submission("FOOD", 30, 120, 3))

	rec := ts.request(t, http.MethodDelete, "/scores/category/animals", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decodeJSON[map[string]string](t, rec)
	assert.Equal(t, "Successfully deleted 2 scores for Animals.", detail["detail"])

	rec = ts.request(t, http.MethodDelete, "/scores/category/animals", aliceToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	detail = decodeJSON[map[string]string](t, rec)
	assert.Equal(t, "No scores found for this category.", detail["detail"])

	rec = ts.request(t, http.MethodDelete, "/scores/category/sports", aliceToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	detail = decodeJSON[map[string]string](t, rec)
	assert.Equal(t, "Category not found.", detail["detail"])
}

func TestClearAllScores(t *testing.T) {
	ts, teardown := newTestServer(t)
	defer teardown()

	ts.request(t, http.MethodPost, "/scores", aliceToken, submission("ANIMALS", 24, 95, 4))
	ts.request(t, http.MethodPost, "/scores", aliceToken, submission("FOOD", 30, 120, 3))
	ts.request(t, http.MethodPost, "/scores", bobToken, submission("ANIMALS", 26, 99, 4))

	rec := ts.request(t, http.MethodDelete, "/scores", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decodeJSON[map[string]string](t, rec)
	assert.Equal(t, "Successfully deleted all 2 scores.", detail["detail"])

	// Bob's score survives.
	var count int
	require.NoError(t, ts.db.QueryRow(`SELECT COUNT(*) FROM scores`).Scan(&count))
	assert.Equal(t, 1, count)

	rec = ts.request(t, http.MethodDelete, "/scores", aliceToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	detail = decodeJSON[map[string]string](t, rec)
	assert.Equal(t, "No scores found to delete.", detail["detail"])
}

func TestListScoresFilter(t *testing.T) {
	ts, teardown := newTestServer(t)
	defer teardown()

	ts.request(t, http.MethodPost, "/scores", aliceToken, submission("ANIMALS", 24, 95, 4))
	ts.request(t, http.MethodPost, "/scores", aliceToken, submission("FOOD", 30, 120, 3))

	rec := ts.request(t, http.MethodGet, "/scores", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeJSON[[]score.Score](t, rec), 2)

	rec = ts.request(t, http.MethodGet, "/scores?category=food", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	scores := decodeJSON[[]score.Score](t, rec)
	require.Len(t, scores, 1)
	assert.Equal(t, "FOOD", scores[0].CategoryCode)

	rec = ts.request(t, http.MethodGet, "/scores?category=sports", aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBestAndRecentScores(t *testing.T) {
	ts, teardown := newTestServer(t)
	defer teardown()

	ts.request(t, http.MethodPost, "/scores", aliceToken, submission("ANIMALS", 40, 200, 3))
	ts.request(t, http.MethodPost, "/scores", aliceToken, submission("ANIMALS", 24, 95, 4))
	ts.request(t, http.MethodPost, "/scores", aliceToken, submission("FOOD", 30, 120, 5))

	rec := ts.request(t, http.MethodGet, "/scores/best", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	best := decodeJSON[[]score.Score](t, rec)
	require.Len(t, best, 2)
	for _, sc := range best {
		if sc.CategoryCode == "ANIMALS" {
			assert.Equal(t, 4, sc.Stars)
		}
	}

	rec = ts.request(t, http.MethodGet, "/scores/recent", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeJSON[[]score.Score](t, rec), 3)
}

func TestLeaderboardEndpoints(t *testing.T) {
	ts, teardown := newTestServer(t)
	defer teardown()

	ts.request(t, http.MethodPost, "/scores", aliceToken, submission("ANIMALS", 24, 95, 5))
	ts.request(t, http.MethodPost, "/scores", bobToken, submission("ANIMALS", 30, 120, 4))

	rec := ts.request(t, http.MethodGet, "/leaderboard/top", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decodeJSON[[]leaderboard.Entry](t, rec)
	require.Len(t, entries, 2)
	assert.Equal(t, "alice", entries[0].Username)
	assert.Equal(t, 1, entries[0].Rank)

	rec = ts.request(t, http.MethodGet, "/leaderboard/category/animals", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	board := decodeJSON[leaderboard.CategoryLeaderboard](t, rec)
	assert.Equal(t, "Animals", board.Category)
	assert.Equal(t, "ANIMALS", board.CategoryCode)
	require.Len(t, board.Leaderboard, 2)

	rec = ts.request(t, http.MethodGet, "/leaderboard/category/sports", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Empty category board is a 200 with an empty list.
	rec = ts.request(t, http.MethodGet, "/leaderboard/category/food", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	board = decodeJSON[leaderboard.CategoryLeaderboard](t, rec)
	assert.NotNil(t, board.Leaderboard)
	assert.Empty(t, board.Leaderboard)
}

func TestUserRankEndpoint(t *testing.T) {
	ts, teardown := newTestServer(t)
	defer teardown()

	ts.request(t, http.MethodPost, "/scores", aliceToken, submission("ANIMALS", 24, 95, 5))

	rec := ts.request(t, http.MethodGet, "/leaderboard/me", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rankings := decodeJSON[leaderboard.UserRankings](t, rec)
	assert.Equal(t, "alice", rankings.Username)
	require.Len(t, rankings.Rankings, 1)
	assert.Equal(t, 1, rankings.Rankings[0].Rank)

	// A profile with no entries gets an empty list, not null.
	rec = ts.request(t, http.MethodGet, "/leaderboard/me", bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rankings = decodeJSON[leaderboard.UserRankings](t, rec)
	assert.Equal(t, "bob", rankings.Username)
	assert.NotNil(t, rankings.Rankings)
	assert.Empty(t, rankings.Rankings)
}

func TestProfileEndpoints(t *testing.T) {
	ts, teardown := newTestServer(t)
	defer teardown()

	rec := ts.request(t, http.MethodGet, "/profile/me", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	p := decodeJSON[profile.Profile](t, rec)
	assert.Equal(t, "alice", p.Username)

	rec = ts.request(t, http.MethodPatch, "/profile/alice-id", aliceToken, map[string]string{"picture": "cool_cat"})
	require.Equal(t, http.StatusOK, rec.Code)
	p = decodeJSON[profile.Profile](t, rec)
	assert.Equal(t, "cool_cat", p.Picture)

	// Mutating someone else's profile is forbidden, not hidden.
	rec = ts.request(t, http.MethodPatch, "/profile/alice-id", bobToken, map[string]string{"picture": "sneaky"})
	require.Equal(t, http.StatusForbidden, rec.Code)
	detail := decodeJSON[map[string]string](t, rec)
	assert.Equal(t, "You can only modify your own profile.", detail["detail"])
}

func TestUpdateLeaderboardTask(t *testing.T) {
	ts, teardown := newTestServer(t)
	defer teardown()

	// Bypass the scheduler so the push endpoint is the only recompute path.
	ts.sched.ScheduleFunc = func(ctx context.Context, categoryID int64, delay time.Duration) error {
		return nil
	}

	rec := ts.request(t, http.MethodPost, "/scores", aliceToken, submission("ANIMALS", 24, 95, 5))
	require.Equal(t, http.StatusCreated, rec.Code)
	sc := decodeJSON[score.Score](t, rec)

	rec = ts.request(t, http.MethodGet, "/leaderboard/category/animals", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	board := decodeJSON[leaderboard.CategoryLeaderboard](t, rec)
	require.Empty(t, board.Leaderboard)

	payload, err := msgpack.Marshal(scheduler.RecomputeLeaderboard{CategoryID: sc.CategoryID})
	require.NoError(t, err)
	push := map[string]any{
		"subscription": "projects/test/subscriptions/update-leaderboard",
		"message": map[string]string{
			"data": base64.StdEncoding.EncodeToString(payload),
		},
	}

	rec = ts.request(t, http.MethodPost, "/tasks/update-leaderboard", "", push)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.request(t, http.MethodGet, "/leaderboard/category/animals", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	board = decodeJSON[leaderboard.CategoryLeaderboard](t, rec)
	require.Len(t, board.Leaderboard, 1)
	assert.Equal(t, sc.ID, board.Leaderboard[0].ScoreID)
}

func TestUpdateLeaderboardTaskRejectsGarbage(t *testing.T) {
	ts, teardown := newTestServer(t)
	defer teardown()

	req := httptest.NewRequest(http.MethodPost, "/tasks/update-leaderboard", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
