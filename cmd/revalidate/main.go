// Command revalidate re-runs validation over all extracted listings using the
// currently configured policy. Useful after a policy change: extraction results
// are kept, only valid/issues/validation_status are rewritten.
// Usage: go run ./cmd/revalidate
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"rentlens/internal/config"
	"rentlens/internal/domain"
	"rentlens/internal/repository/postgres"
	"rentlens/internal/service"
	"rentlens/internal/validator"
)

const batchSize = 100

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	pol := cfg.Policy.ToPolicy()

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()
	offset := 0
	total := 0

	for {
		var listings []domain.Listing
		err := db.SelectContext(ctx, &listings,
			`SELECT * FROM listings
			 WHERE extraction_status = 'completed' AND extracted IS NOT NULL
			 ORDER BY created_at
			 LIMIT $1 OFFSET $2`, batchSize, offset)
		if err != nil {
			return fmt.Errorf("querying listings at offset %d: %w", offset, err)
		}
		if len(listings) == 0 {
			break
		}

		for i := range listings {
			l := &listings[i]

			rec, err := service.RecordFromRaw(l.Extracted)
			if err != nil {
				log.Printf("WARN: skipping listing %s: %v", l.ID, err)
				continue
			}

			report := validator.Evaluate(rec, pol)
			issuesJSON, err := json.Marshal(report.Issues)
			if err != nil {
				log.Printf("WARN: skipping listing %s: marshal issues: %v", l.ID, err)
				continue
			}

			_, err = db.ExecContext(ctx,
				`UPDATE listings SET issues = $2, valid = $3, validation_status = $4, updated_at = $5
				 WHERE id = $1`,
				l.ID, issuesJSON, report.Valid, report.Status(), time.Now().UTC())
			if err != nil {
				log.Printf("WARN: failed to update listing %s: %v", l.ID, err)
				continue
			}
			total++
		}

		if total > 0 && total%batchSize == 0 {
			log.Printf("Progress: %d listings revalidated", total)
		}

		offset += len(listings)
	}

	log.Printf("Revalidation complete: %d listings updated", total)
	return nil
}
