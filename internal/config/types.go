package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	Turso         TursoConfig
	ProjectID     string
	Leaderboard   LeaderboardConfig
	Throttle      ThrottleConfig
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// LeaderboardConfig controls the leaderboard maintenance subsystem.
type LeaderboardConfig struct {
	// TopCount is how many ranked entries each category retains.
	TopCount int
	// Topic is the pub/sub topic leaderboard update jobs are published to.
	Topic string
	// ScheduleDelay is how long a recompute job is deferred after a score
	// mutation, so bursts of submissions coalesce into fewer runs.
	ScheduleDelay time.Duration
}

// ThrottleConfig is the quota bucket for score submissions. It is deliberately
// tighter than anything applied to read endpoints.
type ThrottleConfig struct {
	SubmitPerMinute int
	SubmitBurst     int
}
