package config

import (
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	getEnvOr := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			return value
		}
		return fallback
	}

	getEnvInt := func(key string, fallback int) int {
		value, ok := os.LookupEnv(key)
		if !ok || value == "" {
			return fallback
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			log.Fatalf("Error: Environment variable %s must be an integer, got %q.", key, value)
		}
		return n
	}

	getEnvDuration := func(key string, fallback time.Duration) time.Duration {
		value, ok := os.LookupEnv(key)
		if !ok || value == "" {
			return fallback
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			log.Fatalf("Error: Environment variable %s must be a duration, got %q.", key, value)
		}
		return d
	}

	cfg := Config{
		DBName:        getEnv("DB_NAME"),
		MigrationsDir: "./migrations",
		Port:          getEnv("PORT"),
		Turso: TursoConfig{
			PrimaryURL: getEnvOr("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnvOr("TURSO_AUTH_TOKEN", ""),
		},
		// Optional: when unset the in-process scheduler is used instead of Pub/Sub.
		ProjectID: getEnvOr("GCP_PROJECT", ""),
		Leaderboard: LeaderboardConfig{
			TopCount:      getEnvInt("LEADERBOARD_TOP_COUNT", 5),
			Topic:         getEnvOr("LEADERBOARD_TOPIC", "update-leaderboard"),
			ScheduleDelay: getEnvDuration("LEADERBOARD_SCHEDULE_DELAY", 5*time.Second),
		},
		Throttle: ThrottleConfig{
			SubmitPerMinute: getEnvInt("SUBMIT_RATE_PER_MINUTE", 12),
			SubmitBurst:     getEnvInt("SUBMIT_RATE_BURST", 5),
		},
	}
	return cfg
}
