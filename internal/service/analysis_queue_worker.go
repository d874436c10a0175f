package service

import (
	"context"
	"log"
	"sync"
	"time"

	"lifebook/internal/port"
)

// AnalysisQueueConfig holds settings for the analysis queue worker.
type AnalysisQueueConfig struct {
	PollInterval time.Duration
	StaleAfter   time.Duration
	Concurrency  int
}

// AnalysisQueueWorker periodically reclaims analyses abandoned mid-flight
// (for example after a crash or deploy) and re-dispatches them through the
// pipeline.
type AnalysisQueueWorker struct {
	analysisRepo port.AnalysisRepository
	service      AnalysisService
	cfg          AnalysisQueueConfig
	wg           sync.WaitGroup
}

// NewAnalysisQueueWorker creates a new AnalysisQueueWorker.
func NewAnalysisQueueWorker(analysisRepo port.AnalysisRepository, service AnalysisService, cfg AnalysisQueueConfig) *AnalysisQueueWorker {
	return &AnalysisQueueWorker{
		analysisRepo: analysisRepo,
		service:      service,
		cfg:          cfg,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight analysis goroutines have finished.
func (w *AnalysisQueueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("analysisQueueWorker: started (poll=%s, staleAfter=%s, concurrency=%d)",
		w.cfg.PollInterval, w.cfg.StaleAfter, w.cfg.Concurrency)

	for {
		select {
		case <-ctx.Done():
			log.Printf("analysisQueueWorker: shutting down, waiting for in-flight analyses...")
			w.wg.Wait()
			log.Printf("analysisQueueWorker: shutdown complete")
			return
		case <-ticker.C:
			available := w.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}

			stale, err := w.analysisRepo.ClaimStale(ctx, w.cfg.StaleAfter, available)
			if err != nil {
				if ctx.Err() != nil {
					// Context canceled during the poll; the next select exits
					continue
				}
				log.Printf("analysisQueueWorker: ClaimStale error: %v", err)
				continue
			}

			for i := range stale {
				a := stale[i] // copy for goroutine

				sem <- struct{}{} // acquire
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }() // release

					// Use a fresh context independent of the poll context
					// so in-flight analyses complete even during shutdown.
					runCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
					defer cancel()

					log.Printf("analysisQueueWorker: re-dispatching analysis %s", a.ID)
					w.service.AnalyzeDocument(runCtx, &a)
				}()
			}
		}
	}
}
