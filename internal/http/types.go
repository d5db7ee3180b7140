package http

import (
	"net/http"

	"github.com/mauv0809/memorix-backend/internal/category"
	"github.com/mauv0809/memorix-backend/internal/config"
	"github.com/mauv0809/memorix-backend/internal/leaderboard"
	"github.com/mauv0809/memorix-backend/internal/metrics"
	"github.com/mauv0809/memorix-backend/internal/profile"
	"github.com/mauv0809/memorix-backend/internal/pubsub"
	"github.com/mauv0809/memorix-backend/internal/scheduler"
	"github.com/mauv0809/memorix-backend/internal/score"
)

type Server struct {
	Scores         score.ScoreStore
	Profiles       profile.ProfileStore
	Categories     category.CategoryStore
	Leaderboard    leaderboard.LeaderboardStore
	Validator      *score.Validator
	Engine         scheduler.Recomputer
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux

	pubsub   pubsub.PubSubClient
	throttle *throttle
}
