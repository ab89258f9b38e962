package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/robfig/cron/v3"

	appAuth "github.com/benhmida/formatech/internal/app/auth"
	appControllers "github.com/benhmida/formatech/internal/app/controllers"
	appMigrations "github.com/benhmida/formatech/internal/app/migrations"
	appRepos "github.com/benhmida/formatech/internal/app/repositories"
	appRoutes "github.com/benhmida/formatech/internal/app/routes"
	appServices "github.com/benhmida/formatech/internal/app/services"
	"github.com/benhmida/formatech/internal/config"
	"github.com/benhmida/formatech/internal/db"
	appMiddleware "github.com/benhmida/formatech/internal/middleware"
	pkgAuth "github.com/benhmida/formatech/internal/pkg/auth"
	"github.com/benhmida/formatech/internal/pkg/clictopay"
	"github.com/benhmida/formatech/internal/pkg/filestorage"
	"github.com/benhmida/formatech/internal/pkg/helpers"
	"github.com/benhmida/formatech/internal/pkg/logger"
	"github.com/benhmida/formatech/internal/pkg/metrics"
	"github.com/benhmida/formatech/internal/seed"
)

// Dependencies holds everything the server needs to run.
type Dependencies struct {
	Repos          *appRepos.Repositories
	Services       *appServices.Services
	Controllers    *appControllers.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	JWTService     *pkgAuth.JWTService
	Guard          *appAuth.MutationGuard
	FileStorage    *filestorage.LocalStorage
	Metrics        *metrics.Metrics
	Cron           *cron.Cron
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Pool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		database.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(context.Background(), migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	// Seed failures are logged but never block startup.
	if err := seed.CreateDefaultData(context.Background(), database.Pool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes repositories, services, controllers and
// the background scheduler.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	// Base URL must match the static file serving endpoint.
	var err error
	fileStorageBaseURL := "http://localhost:" + cfg.Server.Port + "/uploads"
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, fileStorageBaseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	gateway := clictopay.NewClient(clictopay.Config{
		BaseURL:    cfg.ClicToPay.BaseURL,
		MerchantID: cfg.ClicToPay.MerchantID,
		APIKey:     cfg.ClicToPay.APIKey,
		ReturnURL:  cfg.ClicToPay.ReturnURL,
		Timeout:    helpers.ParseDuration(cfg.ClicToPay.Timeout, 15*time.Second),
	})

	deps.Metrics = metrics.New()
	deps.Guard = appAuth.NewMutationGuard(appAuth.NewOwnershipRegistry(), deps.Metrics)

	deps.Services = appServices.NewServices(
		deps.Repos,
		database,
		deps.JWTService,
		gateway,
		deps.FileStorage,
		deps.Guard,
		deps.Metrics,
	)

	deps.Controllers = appControllers.NewControllers(deps.Services)

	linkResolver := appRepos.NewLinkResolver(deps.Repos.InstructorRepository, deps.Repos.CompanyRepository)
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, linkResolver)

	deps.Cron = buildScheduler(deps, lgr)

	return deps, nil
}

// buildScheduler wires the nightly maintenance jobs: expiring overdue
// certifications and purging stale refresh tokens.
func buildScheduler(deps *Dependencies, lgr zerolog.Logger) *cron.Cron {
	c := cron.New()

	_, err := c.AddFunc("0 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		count, err := deps.Services.CertificationService.ExpireOverdue(ctx)
		if err != nil {
			lgr.Error().Err(err).Msg("Certification expiry sweep failed")
			return
		}
		lgr.Info().Int64("expired", count).Msg("Certification expiry sweep completed")
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to schedule certification expiry sweep")
	}

	_, err = c.AddFunc("30 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		count, err := deps.Repos.TokenRepository.CleanupExpiredTokens(ctx)
		if err != nil {
			lgr.Error().Err(err).Msg("Refresh token cleanup failed")
			return
		}
		lgr.Info().Int64("removed", count).Msg("Refresh token cleanup completed")
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to schedule refresh token cleanup")
	}

	return c
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()
	router.Use(deps.Metrics.GinMiddleware())

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	router.GET("/metrics", deps.Metrics.Handler())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
