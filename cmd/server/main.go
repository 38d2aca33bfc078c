package main

import (
	"fmt"
	"log"

	"github.com/thehamzam/kyc-idp/internal/config"
	"github.com/thehamzam/kyc-idp/internal/extractor/fireworks"
	"github.com/thehamzam/kyc-idp/internal/handler"
	"github.com/thehamzam/kyc-idp/internal/port"
	"github.com/thehamzam/kyc-idp/internal/repository/postgres"
	"github.com/thehamzam/kyc-idp/internal/router"
	"github.com/thehamzam/kyc-idp/internal/service"
	s3storage "github.com/thehamzam/kyc-idp/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	submissionRepo := postgres.NewSubmissionRepo(db)

	// Initialize the extraction gateway
	gateway := fireworks.New(&cfg.Extractor)

	// Initialize optional image archive storage
	var archive port.ObjectStorage
	if cfg.S3.Bucket != "" {
		archive, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	// Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	submissionSvc := service.NewSubmissionService(submissionRepo, gateway, archive, &cfg.Upload, &cfg.S3)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	uploadH := handler.NewUploadHandler(submissionSvc, &cfg.Upload)
	submissionH := handler.NewSubmissionHandler(submissionSvc)
	healthH := handler.NewHealthHandler(db, gateway)

	// Setup router
	r := router.Setup(authSvc, cfg.CORS.AllowedOrigins, authH, uploadH, submissionH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
