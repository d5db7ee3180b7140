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

func NewServer(
	scores score.ScoreStore,
	profiles profile.ProfileStore,
	categories category.CategoryStore,
	board leaderboard.LeaderboardStore,
	validator *score.Validator,
	engine scheduler.Recomputer,
	metricsSvc metrics.Metrics,
	metricsHandler http.Handler,
	cfg config.Config,
	pubsubClient pubsub.PubSubClient,
) *Server {
	server := &Server{
		Scores:         scores,
		Profiles:       profiles,
		Categories:     categories,
		Leaderboard:    board,
		Validator:      validator,
		Engine:         engine,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
		pubsub:         pubsubClient,
		throttle:       newThrottle(cfg.Throttle.SubmitPerMinute, cfg.Throttle.SubmitBurst),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// Handlers are wrapped with middleware using the Chain helper. Auth
	// resolves the bearer token into a profile; requireAuth turns a missing
	// profile into a 401. The submit endpoint additionally sits behind its
	// own throttle bucket, tighter than anything on the read side.
	auth := s.authMiddleware()

	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), requestLogger))
	s.Router.Handle("GET /categories", Chain(s.ListCategoriesHandler(), requestLogger))

	s.Router.Handle("POST /scores", Chain(s.SubmitScoreHandler(), requestLogger, auth, requireAuth, s.throttle.middleware))
	s.Router.Handle("GET /scores", Chain(s.ListScoresHandler(), requestLogger, auth, requireAuth))
	s.Router.Handle("DELETE /scores", Chain(s.ClearAllScoresHandler(), requestLogger, auth, requireAuth))
	s.Router.Handle("GET /scores/best", Chain(s.BestScoresHandler(), requestLogger, auth, requireAuth))
	s.Router.Handle("GET /scores/recent", Chain(s.RecentScoresHandler(), requestLogger, auth, requireAuth))
	s.Router.Handle("GET /scores/{id}", Chain(s.GetScoreHandler(), requestLogger, auth, requireAuth))
	s.Router.Handle("DELETE /scores/{id}", Chain(s.DeleteScoreHandler(), requestLogger, auth, requireAuth))
	s.Router.Handle("DELETE /scores/category/{code}", Chain(s.ClearCategoryScoresHandler(), requestLogger, auth, requireAuth))

	s.Router.Handle("GET /leaderboard/top", Chain(s.TopPlayersHandler(), requestLogger))
	s.Router.Handle("GET /leaderboard/category/{code}", Chain(s.CategoryTopHandler(), requestLogger))
	s.Router.Handle("GET /leaderboard/me", Chain(s.UserRankHandler(), requestLogger, auth, requireAuth))

	s.Router.Handle("GET /profile/me", Chain(s.GetProfileHandler(), requestLogger, auth, requireAuth))
	s.Router.Handle("PATCH /profile/{id}", Chain(s.UpdateProfileHandler(), requestLogger, auth, requireAuth))

	// Pub/Sub push subscriptions deliver leaderboard jobs here.
	s.Router.Handle("POST /tasks/update-leaderboard", Chain(s.UpdateLeaderboardTaskHandler(), requestLogger))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
