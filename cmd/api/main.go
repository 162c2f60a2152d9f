package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"synthdata-wizard-api/internal/cache"
	"synthdata-wizard-api/internal/client"
	"synthdata-wizard-api/internal/config"
	"synthdata-wizard-api/internal/database"
	"synthdata-wizard-api/internal/handler"
	"synthdata-wizard-api/internal/job"
	"synthdata-wizard-api/internal/metrics"
	"synthdata-wizard-api/internal/repository"
	"synthdata-wizard-api/internal/router"
	"synthdata-wizard-api/internal/service"
	"synthdata-wizard-api/internal/wizard"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Starting SynthData Wizard API",
		zap.String("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("base_path", cfg.Server.BasePath),
		zap.String("generator_api_url", cfg.GeneratorAPI.BaseURL),
		zap.String("profile_store", cfg.ProfileStore.Mode),
	)

	m := metrics.New()
	logger.Info("Metrics initialized")

	// Redis is optional; without it profile data is not cached
	var redisClient *redis.Client
	var profileCache cache.ProfileCache = cache.NoopProfileCache{}
	if cfg.Redis.Enabled() {
		redisClient, err = database.NewRedis(cfg.Redis, logger)
		if err != nil {
			logger.Warn("Failed to connect to redis, profile cache disabled", zap.Error(err))
			redisClient = nil
		} else {
			profileCache = cache.NewRedisProfileCache(redisClient, cfg.Redis.TTL, logger)
			logger.Info("Redis connected, profile cache enabled")
		}
	}

	// Profile store: local database or the remote profile API
	var db *gorm.DB
	var profileStore service.ProfileStore
	var statsDone chan struct{}
	if cfg.ProfileStore.Mode == config.ProfileStoreRemote {
		profileStore = client.NewProfileClient(cfg.ProfileStore.BaseURL, cfg.ProfileStore.Timeout, logger, m)
		logger.Info("Using remote profile store", zap.String("base_url", cfg.ProfileStore.BaseURL))
	} else {
		db, err = database.New(database.Config{
			Driver:          cfg.Database.Driver,
			DSN:             cfg.Database.GetDSN(),
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		logger.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

		if err := database.SafeAutoMigrateWithRetry(db, logger, 3); err != nil {
			logger.Fatal("Failed to run database migrations", zap.Error(err))
		}

		database.RegisterMetricsCallbacks(db, m)
		statsDone = database.StartDBStatsCollector(db, m, 15*time.Second)

		profileStore = service.NewProfileService(repository.NewProfileRepository(db), profileCache, m, logger)
		logger.Info("Using local profile store")
	}

	exportClient := client.NewExportClient(cfg.GeneratorAPI.BaseURL, cfg.GeneratorAPI.Timeout, logger, m)
	detectionClient := client.NewDetectionClient(cfg.GeneratorAPI.BaseURL, cfg.GeneratorAPI.Timeout, logger, m)

	// Export archive is optional
	var archive client.ExportArchive
	if cfg.S3.Bucket != "" && cfg.S3.Region != "" {
		s3Client, err := client.NewS3Client(&cfg.S3)
		if err != nil {
			logger.Warn("Failed to initialize S3 client, exports will not be archived", zap.Error(err))
		} else {
			archive = s3Client
			logger.Info("S3 export archive initialized",
				zap.String("bucket", cfg.S3.Bucket),
				zap.String("region", cfg.S3.Region),
			)
		}
	}

	clock := clockwork.NewRealClock()
	hub := handler.NewEventHub(logger)
	wizardService := service.NewWizardService(
		wizard.NewManager(clock),
		profileStore,
		exportClient,
		detectionClient,
		archive,
		hub,
		clock,
		service.SessionOptions{
			AutosaveDebounce: cfg.Session.AutosaveDebounce,
			SaveTimeout:      cfg.Session.SaveTimeout,
		},
		m,
		logger,
	)

	collector := metrics.NewBusinessMetricsCollector(db, wizardService.ActiveSessions, m, logger)
	collector.Start()

	scheduler, err := job.NewScheduler(
		cfg.Session.CleanupSchedule,
		job.NewSessionCleanupJob(wizardService, cfg.Session.IdleTTL, logger),
		logger,
	)
	if err != nil {
		logger.Fatal("Invalid session cleanup schedule", zap.String("schedule", cfg.Session.CleanupSchedule), zap.Error(err))
	}
	scheduler.Start()

	r := router.Setup(router.Config{
		DB:             db,
		Redis:          redisClient,
		Logger:         logger,
		Metrics:        m,
		BasePath:       cfg.Server.BasePath,
		JWTSecret:      cfg.JWT.Secret,
		CORSOrigins:    cfg.CORS.Origins(),
		WizardService:  wizardService,
		ProfileStore:   profileStore,
		Hub:            hub,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("SynthData Wizard API started successfully", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	<-scheduler.Stop().Done()
	collector.Stop()

	// Flush pending autosaves before the stores go away
	if closed := wizardService.CloseAll(ctx); closed > 0 {
		logger.Info("Closed remaining sessions", zap.Int("count", closed))
	}

	if statsDone != nil {
		close(statsDone)
	}
	if redisClient != nil {
		redisClient.Close()
	}
	if db != nil {
		if err := database.Close(db); err != nil {
			logger.Warn("Failed to close database", zap.Error(err))
		}
	}

	logger.Info("Server exited gracefully")
}

// initLogger initializes the zap logger with the specified level
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}
