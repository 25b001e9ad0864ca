package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"vitalis/internal/config"
	"vitalis/internal/email/noop"
	"vitalis/internal/email/ses"
	"vitalis/internal/extract"
	"vitalis/internal/handler"
	"vitalis/internal/llm"
	"vitalis/internal/llm/gemini"
	"vitalis/internal/pdftext"
	"vitalis/internal/port"
	"vitalis/internal/repository/postgres"
	"vitalis/internal/router"
	"vitalis/internal/service"
	s3storage "vitalis/internal/storage/s3"
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
	reportRepo := postgres.NewLabReportRepo(db)
	sensRepo := postgres.NewSensitivityRepo(db)
	bioRepo := postgres.NewBiomarkerRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize model client and orchestrator
	geminiClient, err := gemini.NewClient(&cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to initialize model client: %w", err)
	}
	orchestrator := llm.NewOrchestrator(geminiClient, llm.OrchestratorConfig{
		PrimaryModel:   cfg.LLM.PrimaryModel,
		SecondaryModel: cfg.LLM.SecondaryModel,
		MinInterval:    cfg.LLM.MinInterval(),
		Cooldown:       cfg.LLM.Cooldown(),
		Retry: llm.RetryConfig{
			MaxAttempts: cfg.LLM.MaxRetries,
			BaseDelay:   time.Duration(cfg.LLM.RetryBaseMs) * time.Millisecond,
		},
	})

	// Initialize extraction pipeline
	pipeline := extract.NewPipeline(orchestrator, pdftext.NewDecoder(), cfg.LLM.ChunkPages)

	// Initialize email sender
	var emailSender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		emailSender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName, cfg.Email.ToAddress)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		emailSender = noop.NewNoopSender()
	}

	// Initialize services
	reportSvc := service.NewReportService(reportRepo, sensRepo, bioRepo, s3Client, pipeline, emailSender, &cfg.S3)
	insightSvc := service.NewInsightService(orchestrator, sensRepo)

	// Initialize handlers
	reportH := handler.NewReportHandler(reportSvc)
	recordH := handler.NewRecordHandler(sensRepo, bioRepo)
	insightH := handler.NewInsightHandler(insightSvc)
	healthH := handler.NewHealthHandler(db)

	// Start the extraction queue worker
	workerCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	worker := service.NewExtractQueueWorker(reportRepo, reportSvc, service.ExtractQueueConfig{
		PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
		MaxAttempts:  cfg.Queue.MaxRetries,
		Concurrency:  cfg.Queue.Concurrency,
	})
	go worker.Start(workerCtx)

	// Setup router
	r := router.Setup(reportH, recordH, insightH, healthH, cfg.CORS.AllowedOrigins)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
