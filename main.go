package main

import (
	"context"
	"log"
	"os"

	"github.com/dropx/dropx-api/config"
	"github.com/dropx/dropx-api/jobs"
	"github.com/dropx/dropx-api/routes"
	"github.com/dropx/dropx-api/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.ApplyFlags(os.Args[1:]); err != nil {
		log.Fatalf("Invalid flags: %v", err)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Starting DROPX API server", zap.String("env", cfg.GoEnv))

	// Connect to database
	if err := config.ConnectDatabase(cfg.DatabaseURL); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := config.Migrate(db); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	logger.Info("Database migration completed successfully")

	ctx := context.Background()
	setupIntegrations(ctx, cfg, logger)

	cleanup := jobs.NewSessionCleanupJob(services.NewAccountService(db, cfg.SessionTTL), cfg.CleanupSchedule, logger)
	if err := cleanup.Start(); err != nil {
		logger.Fatal("Failed to schedule session cleanup", zap.Error(err))
	}
	defer cleanup.Stop()

	router, err := routes.Setup(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to set up routes", zap.Error(err))
	}

	port := ":" + cfg.Port
	logger.Info("Server is running", zap.String("addr", "http://localhost"+port))
	if err := router.Run(port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

// setupIntegrations wires S3 photo storage and the contact mailer. Both are
// optional; without them uploads are refused and mail is only logged.
func setupIntegrations(ctx context.Context, cfg *config.Config, logger *zap.Logger) {
	if cfg.AWSS3Bucket == "" && cfg.ContactRecipient == "" {
		services.SetMailer(services.NewLogMailer(logger))
		logger.Warn("AWS not configured, order photos and contact mail disabled")
		return
	}

	awsCfg, err := services.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to load AWS configuration", zap.Error(err))
	}

	if cfg.AWSS3Bucket != "" {
		services.InitImageService(services.NewS3Service(awsCfg, cfg.AWSS3Bucket))
		logger.Info("Order photo storage enabled", zap.String("bucket", cfg.AWSS3Bucket))
	}

	if cfg.ContactRecipient != "" {
		services.SetMailer(services.NewSESMailer(awsCfg))
		logger.Info("Contact mail enabled", zap.String("recipient", cfg.ContactRecipient))
	} else {
		services.SetMailer(services.NewLogMailer(logger))
	}
}
