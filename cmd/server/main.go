package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"lifebook/internal/analysis"
	"lifebook/internal/classify"
	"lifebook/internal/config"
	"lifebook/internal/entities"
	"lifebook/internal/extract"
	"lifebook/internal/handler"
	"lifebook/internal/insight"
	"lifebook/internal/repository/postgres"
	"lifebook/internal/router"
	"lifebook/internal/service"
	s3storage "lifebook/internal/storage/s3"
	"lifebook/internal/vocab"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	fileRepo := postgres.NewFileMetaRepo(db)
	analysisRepo := postgres.NewAnalysisRepo(db)
	reportRepo := postgres.NewInsightReportRepo(db)
	vocabRepo := postgres.NewVocabRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Build the analysis pipeline
	vocabulary := vocab.Load(ctx, vocabRepo)
	entityExtractor := entities.NewExtractor(vocabulary)
	classifier := classify.NewClassifier()
	primary := extract.NewExtractor(cfg.Pipeline.OCRBinary, cfg.Pipeline.OCRLanguage)
	fallback := extract.NewSalvageExtractor()
	pipeline := analysis.NewPipeline(primary, fallback, entityExtractor, classifier, analysis.ConfidencePolicy{
		EntityBonus: cfg.Pipeline.EntityBonus,
		Cap:         cfg.Pipeline.ConfidenceCap,
	})

	// Insight path
	insightClient := insight.NewClient(&cfg.Insight)
	generator := insight.NewReportGenerator(insightClient)

	// Initialize services
	fileSvc := service.NewFileService(fileRepo, s3Client, &cfg.S3)
	analysisSvc := service.NewAnalysisService(analysisRepo, fileRepo, reportRepo, pipeline, generator, s3Client)

	// Initialize handlers
	fileH := handler.NewFileHandler(fileSvc)
	analysisH := handler.NewAnalysisHandler(analysisSvc, fileSvc)
	healthH := handler.NewHealthHandler(db)

	// Start the stale-analysis reclaim worker
	worker := service.NewAnalysisQueueWorker(analysisRepo, analysisSvc, service.AnalysisQueueConfig{
		PollInterval: time.Duration(cfg.Pipeline.QueuePollSecs) * time.Second,
		StaleAfter:   time.Duration(cfg.Pipeline.StaleAfterSecs) * time.Second,
		Concurrency:  cfg.Pipeline.QueueConcurrency,
	})
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(ctx)
	}()

	// Setup router and HTTP server
	r := router.Setup(cfg, fileH, analysisH, healthH)
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Printf("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	<-workerDone

	return nil
}
