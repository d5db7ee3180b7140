package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mauv0809/memorix-backend/internal/category"
	"github.com/mauv0809/memorix-backend/internal/database"
	"github.com/mauv0809/memorix-backend/internal/leaderboard"
	"github.com/mauv0809/memorix-backend/internal/metrics"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"DB_NAME"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	config["TURSO_PRIMARY_URL"] = os.Getenv("TURSO_PRIMARY_URL")
	config["TURSO_AUTH_TOKEN"] = os.Getenv("TURSO_AUTH_TOKEN")
	config["MIGRATIONS_DIR"] = os.Getenv("MIGRATIONS_DIR")
	if config["MIGRATIONS_DIR"] == "" {
		config["MIGRATIONS_DIR"] = "./migrations"
	}
	return config
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()
	ctx := context.Background()

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"], cfg["MIGRATIONS_DIR"])
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	categoryStore := category.New(db)
	created, err := categoryStore.Provision(ctx, category.Catalog())
	if err != nil {
		log.Fatalf("Failed to provision categories: %s", err)
	}
	log.Info("Ensured categories exist.", "created", created)

	categories, err := categoryStore.All(ctx)
	if err != nil {
		log.Fatalf("Failed to list categories: %s", err)
	}

	// Create a handful of demo profiles to rank against each other
	demoProfiles := []struct {
		ID       string
		Username string
	}{
		{uuid.NewString(), "seed-player-a"},
		{uuid.NewString(), "seed-player-b"},
		{uuid.NewString(), "seed-player-c"},
		{uuid.NewString(), "seed-player-d"},
	}

	now := time.Now().Unix()
	for _, p := range demoProfiles {
		token := uuid.NewString()
		_, err := db.Exec(
			"INSERT OR IGNORE INTO profiles (id, username, picture, api_token, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
			p.ID, p.Username, "nobody_nrbk5n", token, now, now,
		)
		if err != nil {
			log.Fatalf("Failed to insert demo profile %s: %s", p.Username, err)
		}
		log.Info("Ensured demo profile exists.", "username", p.Username, "api_token", token)
	}

	const scoresPerProfile = 25

	log.Info("Preparing to insert demo scores...", "profiles", len(demoProfiles), "per_profile", scoresPerProfile)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	valueStrings := make([]string, 0, scoresPerProfile)
	valueArgs := make([]interface{}, 0, scoresPerProfile*6)

	for _, p := range demoProfiles {
		for i := 0; i < scoresPerProfile; i++ {
			cat := categories[rand.Intn(len(categories))]
			moves := 10 + rand.Intn(90)
			timeSeconds := moves + rand.Intn(240)
			stars := 1 + rand.Intn(5)
			completedAt := time.Now().Add(-time.Duration(rand.Intn(30*24)) * time.Hour).Unix()

			valueStrings = append(valueStrings, "(?, ?, ?, ?, ?, ?)")
			valueArgs = append(valueArgs, p.ID, cat.ID, moves, timeSeconds, stars, completedAt)
		}

		stmt := fmt.Sprintf(`
			INSERT OR IGNORE INTO scores (profile_id, category_id, moves, time_seconds, stars, completed_at)
			VALUES %s;`, strings.Join(valueStrings, ","))

		if _, err := tx.Exec(stmt, valueArgs...); err != nil {
			tx.Rollback()
			log.Fatalf("Failed to execute batch insert: %s", err)
		}

		// Reset for the next profile
		valueStrings = make([]string, 0, scoresPerProfile)
		valueArgs = make([]interface{}, 0, scoresPerProfile*6)
		log.Info("Inserted scores", "username", p.Username)
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}

	engine := leaderboard.NewEngine(db, metrics.NewMock())
	for _, cat := range categories {
		if err := engine.Recompute(ctx, cat.ID, leaderboard.DefaultTopCount); err != nil {
			log.Fatalf("Failed to recompute leaderboard for %s: %s", cat.Code, err)
		}
	}

	duration := time.Since(startTime)
	log.Info("Successfully seeded demo data.", "duration", duration)
}
