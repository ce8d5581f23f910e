package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"rentlens/internal/config"
	"rentlens/internal/extractor"
	"rentlens/internal/extractor/claude"
	"rentlens/internal/extractor/openai"
	"rentlens/internal/handler"
	"rentlens/internal/port"
	"rentlens/internal/repository/postgres"
	"rentlens/internal/router"
	"rentlens/internal/service"
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
	listingRepo := postgres.NewListingRepo(db)

	// Initialize extractors
	registerProviders()
	ext, err := buildExtractor(&cfg.Extractor)
	if err != nil {
		return fmt.Errorf("failed to initialize extractor: %w", err)
	}

	// Initialize services
	listingSvc := service.NewListingService(listingRepo, ext, cfg.Policy.ToPolicy())

	// Initialize handlers
	listingH := handler.NewListingHandler(listingSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg, listingH, healthH)

	// Start extraction queue worker; it drains in-flight work on shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	worker := service.NewExtractQueueWorker(listingRepo, listingSvc, service.ExtractQueueConfig{
		PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
		MaxRetries:   cfg.Queue.MaxRetries,
		Concurrency:  cfg.Queue.Concurrency,
	})
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(ctx)
	}()

	log.Printf("Server starting on %s", cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		errCh <- r.Run(cfg.Server.Port)
	}()

	select {
	case err := <-errCh:
		stop()
		<-workerDone
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		log.Println("shutdown signal received")
		<-workerDone
		return nil
	}
}

// registerProviders wires the known extractor providers into the factory.
func registerProviders() {
	extractor.RegisterProvider("openai", func(cfg *config.ExtractorProviderConfig) (port.ListingExtractor, error) {
		return openai.NewExtractor(cfg), nil
	})
	extractor.RegisterProvider("claude", func(cfg *config.ExtractorProviderConfig) (port.ListingExtractor, error) {
		return claude.NewExtractor(cfg), nil
	})
}

// buildExtractor creates the primary extractor, wrapped with the secondary in
// a fallback chain when one is configured.
func buildExtractor(cfg *config.ExtractorConfig) (port.ListingExtractor, error) {
	primary, err := extractor.NewExtractor(&cfg.Primary)
	if err != nil {
		return nil, err
	}

	secondaryCfg := cfg.SecondaryConfig()
	if secondaryCfg == nil {
		return primary, nil
	}

	secondary, err := extractor.NewExtractor(secondaryCfg)
	if err != nil {
		return nil, err
	}

	return extractor.NewFallbackExtractor(
		[]port.ListingExtractor{primary, secondary},
		[]string{cfg.Primary.Provider, secondaryCfg.Provider},
	), nil
}
