package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
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
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	categoryStore := category.New(db)
	profileStore := profile.New(db)
	engine := leaderboard.NewEngine(db, metricsSvc)
	leaderboardStore := leaderboard.New(db)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	// A Pub/Sub project means recompute jobs round-trip through a push
	// subscription; without one a local worker drains them in-process.
	var sched scheduler.Scheduler
	var pubsubClient pubsub.PubSubClient
	var localSched *scheduler.Local
	if cfg.ProjectID != "" {
		pubsubClient = pubsub.New(cfg.ProjectID)
		sched = scheduler.NewPubSub(pubsubClient, pubsub.EventType(cfg.Leaderboard.Topic))
	} else {
		localSched = scheduler.NewLocal(engine, cfg.Leaderboard.TopCount)
		go localSched.Run(workerCtx)
		sched = localSched
		pubsubClient = pubsub.NewMock("")
	}

	scoreStore := score.New(db, sched, cfg.Leaderboard.ScheduleDelay)
	validator := score.NewValidator(categoryStore)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()
	created, err := categoryStore.Provision(startupCtx, category.Catalog())
	if err != nil {
		log.Fatalf("Failed to provision categories: %s", err)
	}
	if created > 0 {
		log.Info("Provisioned categories", "created", created)
	}
	// Scores may have changed while the process was down; rebuild every
	// leaderboard before taking traffic.
	categories, err := categoryStore.All(startupCtx)
	if err != nil {
		log.Fatalf("Failed to list categories: %s", err)
	}
	for _, cat := range categories {
		if err := engine.Recompute(startupCtx, cat.ID, cfg.Leaderboard.TopCount); err != nil {
			log.Error("Failed to recompute leaderboard at startup", "error", err, "category", cat.Code)
		}
	}

	s := server.NewServer(
		scoreStore,
		profileStore,
		categoryStore,
		leaderboardStore,
		validator,
		engine,
		metricsSvc,
		metricsHandler,
		cfg,
		pubsubClient,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}

		// Let the local worker drain before the process exits.
		if localSched != nil {
			stopWorker()
			localSched.Wait()
		}
	}

	log.Info("Server process shutting down")
}
