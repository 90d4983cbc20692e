package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gorm.io/gorm"

	"github.com/reelmetrics/reelmetrics/internal/analytics"
	catalogrepo "github.com/reelmetrics/reelmetrics/internal/catalog/repository"
	"github.com/reelmetrics/reelmetrics/internal/config"
	"github.com/reelmetrics/reelmetrics/internal/infrastructure/tmdb"
	"github.com/reelmetrics/reelmetrics/internal/recommend"
	"github.com/reelmetrics/reelmetrics/internal/server"
	userdomain "github.com/reelmetrics/reelmetrics/internal/user/domain"
	userrepo "github.com/reelmetrics/reelmetrics/internal/user/repository"
	userservice "github.com/reelmetrics/reelmetrics/internal/user/service"
	"github.com/reelmetrics/reelmetrics/pkg/database"
	"github.com/reelmetrics/reelmetrics/pkg/events"
	"github.com/reelmetrics/reelmetrics/pkg/interfaces"
	"github.com/reelmetrics/reelmetrics/pkg/logger"
	"github.com/reelmetrics/reelmetrics/pkg/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New()

	log.Info("Analytics service starting",
		interfaces.String("environment", cfg.Server.Environment))

	// Connect to database
	log.Info("Connecting to database...")
	db, err := database.NewGormDB(cfg.Database.ToPostgresConfig())
	if err != nil {
		log.Fatal("Failed to connect to database", interfaces.Error(err))
	}

	// Run migrations
	log.Info("Running database migrations...")
	if err := database.RunMigrations(db,
		&catalogrepo.Movie{},
		&catalogrepo.Genre{},
		&catalogrepo.Director{},
		&catalogrepo.Actor{},
		&userdomain.User{},
		&userrepo.UserFavourite{},
		&userrepo.UserRecommendation{},
	); err != nil {
		log.Fatal("Failed to run migrations", interfaces.Error(err))
	}

	// Initialize cache
	cacheClient := utils.NewInMemoryCache()

	// Initialize event bus
	eventBus := events.NewInMemoryEventBus(log)

	// Initialize repositories
	catalogRepo := catalogrepo.NewGormRepository(db)
	userRepo := userrepo.NewGormRepository(db)

	// Initialize external catalog client
	trendSource := tmdb.NewClient(cfg.TMDB.BaseURL, cfg.TMDB.Token, cfg.TMDB.Timeout, log)

	// Initialize services
	reportService := analytics.NewReportService(
		catalogRepo, trendSource, cacheClient, log, cfg.Analytics.ToPipelineConfig())
	userService := userservice.NewUserService(userRepo, eventBus, log)
	exclusions := recommend.NewCacheExclusionStore(cacheClient, cfg.Session.ExclusionTTL)
	recommendService := recommend.NewService(userRepo, catalogRepo, exclusions, eventBus, log)

	// Build the API server
	mux := http.NewServeMux()
	registerHealthRoutes(mux, db)
	server.New(reportService, userService, recommendService, catalogRepo, log).Register(mux)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: mux,
	}

	go func() {
		log.Info("HTTP server starting", interfaces.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", interfaces.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down analytics service...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTime)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", interfaces.Error(err))
	}

	eventBus.Stop()

	// Close database connection
	sqlDB, _ := db.DB()
	if sqlDB != nil {
		sqlDB.Close()
	}

	log.Info("Analytics service stopped")
}

func registerHealthRoutes(mux *http.ServeMux, db *gorm.DB) {
	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})

	// Readiness check endpoint
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		// Check database connection
		sqlDB, err := db.DB()
		if err != nil || sqlDB.Ping() != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"not ready"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	})
}
