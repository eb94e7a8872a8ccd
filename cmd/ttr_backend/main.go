package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	_ "github.com/tmtrack/time_tracker_app/cmd/docs"
	portstorage "github.com/tmtrack/time_tracker_app/internal/core/ports/storage"
	"github.com/tmtrack/time_tracker_app/internal/core/services"
	"github.com/tmtrack/time_tracker_app/internal/handlers"
	"github.com/tmtrack/time_tracker_app/internal/middleware"
	"github.com/tmtrack/time_tracker_app/internal/platform/config"
	"github.com/tmtrack/time_tracker_app/internal/platform/kv"
	"github.com/tmtrack/time_tracker_app/internal/platform/storage"
	"github.com/tmtrack/time_tracker_app/internal/repositories/kvstore"
	"github.com/tmtrack/time_tracker_app/internal/utils"
	"github.com/tmtrack/time_tracker_app/pkg/database"
)

// @title Time Tracker Backend API
// @version 1.0
// @description REST backend for multi-tenant time tracking.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Wire repositories over the KV store
	store := kv.NewPgxStore(dbPool)
	repos := kvstore.NewRepositoryProvider(store)

	// Photo storage is optional; the API runs without it
	var photoStore portstorage.PhotoStore = storage.NewDisabledPhotoStore()
	if cfg.PhotoBucket != "" {
		gcsStore, err := storage.NewGCSPhotoStore(context.Background(), cfg)
		if err != nil {
			logger.Error("Failed to initialize photo storage", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() {
			if cerr := gcsStore.Close(); cerr != nil {
				logger.Error("Error closing photo storage client", slog.String("error", cerr.Error()))
			}
		}()
		photoStore = gcsStore
	} else {
		logger.Warn("PHOTO_BUCKET not configured, photo uploads are disabled")
	}

	serviceContainer := services.NewServiceContainer(cfg, repos, photoStore)

	// Product analytics (no-op when the API key is missing)
	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, analytics)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg)))
	r.Use(middleware.PosthogMiddleware(posthogClient))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations using a temporary
// database/sql connection over the pgx stdlib driver.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := migrationDB.Ping(); err != nil {
		_ = migrationDB.Close()
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		_ = migrationDB.Close()
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		_ = migrationDB.Close()
		return err
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		_, _ = m.Close()
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// corsConfig builds the CORS policy. Credentials must be allowed for the
// refresh token cookie, so the frontend origin is listed explicitly when
// configured.
func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization")
	if cfg.FrontendBaseURL != "" {
		c.AllowOrigins = []string{cfg.FrontendBaseURL}
		c.AllowCredentials = true
	} else {
		c.AllowAllOrigins = true
	}
	return c
}
