package service

import (
	"context"
	"log"
	"sync"
	"time"

	"rentlens/internal/port"
)

// ExtractQueueConfig holds settings for the extraction queue worker.
type ExtractQueueConfig struct {
	PollInterval time.Duration
	MaxRetries   int
	Concurrency  int
}

// ExtractQueueWorker polls for queued listings and dispatches them for extraction.
type ExtractQueueWorker struct {
	repo    port.ListingRepository
	service ListingService
	cfg     ExtractQueueConfig
	wg      sync.WaitGroup
}

// NewExtractQueueWorker creates a new ExtractQueueWorker.
func NewExtractQueueWorker(repo port.ListingRepository, svc ListingService, cfg ExtractQueueConfig) *ExtractQueueWorker {
	return &ExtractQueueWorker{
		repo:    repo,
		service: svc,
		cfg:     cfg,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight extraction goroutines have finished.
func (w *ExtractQueueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("extractQueueWorker: started (poll=%s, concurrency=%d, maxRetries=%d)",
		w.cfg.PollInterval, w.cfg.Concurrency, w.cfg.MaxRetries)

	for {
		select {
		case <-ctx.Done():
			log.Printf("extractQueueWorker: shutting down, waiting for in-flight extractions...")
			w.wg.Wait()
			log.Printf("extractQueueWorker: shutdown complete")
			return
		case <-ticker.C:
			available := w.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}

			listings, err := w.repo.ClaimQueued(ctx, available)
			if err != nil {
				if ctx.Err() != nil {
					// Context canceled during poll, exit gracefully
					continue
				}
				log.Printf("extractQueueWorker: ClaimQueued error: %v", err)
				continue
			}

			for i := range listings {
				l := listings[i] // copy for goroutine
				l.ExtractAttempts++

				sem <- struct{}{} // acquire
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }() // release

					// Use a fresh context independent of the poll context
					// so in-flight extractions complete even during shutdown.
					extractCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
					defer cancel()

					log.Printf("extractQueueWorker: dispatching listing %s (attempt %d)", l.ID, l.ExtractAttempts)
					w.service.ExtractListing(extractCtx, &l, w.cfg.MaxRetries)
				}()
			}
		}
	}
}
