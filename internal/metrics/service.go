package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// Service is the Prometheus-backed Metrics implementation.
type Service struct {
	ScoresSubmitted   prometheus.Counter
	ScoresRejected    prometheus.Counter
	ScoresDeleted     prometheus.Counter
	RecomputeRuns     prometheus.Counter
	RecomputeFailures prometheus.Counter
	RecomputeDuration prometheus.Histogram
	StartupSeconds    prometheus.Gauge
}

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		ScoresSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "memorix_scores_submitted_total",
			Help: "The total number of game results accepted and persisted.",
		}),
		ScoresRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "memorix_scores_rejected_total",
			Help: "The total number of game result submissions rejected by validation.",
		}),
		ScoresDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "memorix_scores_deleted_total",
			Help: "The total number of game results deleted by their owners.",
		}),
		RecomputeRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "memorix_leaderboard_recomputes_total",
			Help: "The total number of leaderboard recomputation runs.",
		}),
		RecomputeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "memorix_leaderboard_recompute_failures_total",
			Help: "The total number of leaderboard recomputation runs that failed.",
		}),
		RecomputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "memorix_leaderboard_recompute_duration_seconds",
			Help:    "The duration of individual leaderboard recomputations.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		StartupSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "memorix_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.ScoresSubmitted,
		s.ScoresRejected,
		s.ScoresDeleted,
		s.RecomputeRuns,
		s.RecomputeFailures,
		s.RecomputeDuration,
		s.StartupSeconds,
	)

	return s
}

func (s *Service) IncScoresSubmitted() {
	s.ScoresSubmitted.Inc()
}

func (s *Service) IncScoresRejected() {
	s.ScoresRejected.Inc()
}

func (s *Service) AddScoresDeleted(count int) {
	s.ScoresDeleted.Add(float64(count))
}

func (s *Service) IncRecomputeRuns() {
	s.RecomputeRuns.Inc()
}

func (s *Service) IncRecomputeFailures() {
	s.RecomputeFailures.Inc()
}

func (s *Service) ObserveRecomputeDuration(seconds float64) {
	s.RecomputeDuration.Observe(seconds)
}

func (s *Service) SetStartupTime(seconds float64) {
	s.StartupSeconds.Set(seconds)
}
