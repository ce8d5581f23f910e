// Command pipeline extracts and validates a file of rental listing texts
// without a database. Listings are separated by blank lines in the input file.
// Usage: go run ./cmd/pipeline -in examples/listings.txt -out out/out.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"rentlens/internal/batch"
	"rentlens/internal/config"
	"rentlens/internal/extractor"
	"rentlens/internal/extractor/claude"
	"rentlens/internal/extractor/openai"
	"rentlens/internal/port"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	inPath := flag.String("in", "examples/listings.txt", "input file of listing texts separated by blank lines")
	outPath := flag.String("out", "out/out.json", "output JSON file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	extractor.RegisterProvider("openai", func(c *config.ExtractorProviderConfig) (port.ListingExtractor, error) {
		return openai.NewExtractor(c), nil
	})
	extractor.RegisterProvider("claude", func(c *config.ExtractorProviderConfig) (port.ListingExtractor, error) {
		return claude.NewExtractor(c), nil
	})

	ext, err := extractor.NewExtractor(&cfg.Extractor.Primary)
	if err != nil {
		return fmt.Errorf("initializing extractor: %w", err)
	}

	texts, err := batch.LoadListings(*inPath)
	if err != nil {
		return err
	}
	log.Printf("loaded %d listings from %s", len(texts), *inPath)

	runner := batch.NewRunner(ext, cfg.Policy.ToPolicy())
	results, err := runner.Run(context.Background(), texts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling results: %w", err)
	}
	if err := os.WriteFile(*outPath, data, 0o644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}

	valid, withIssues := 0, 0
	for i := range results {
		if results[i].Valid {
			valid++
		}
		if len(results[i].Issues) > 0 {
			withIssues++
		}
	}
	log.Printf("wrote %s: %d listings, %d valid, %d with issues", *outPath, len(results), valid, withIssues)
	return nil
}
