// Command seed loads rental listing texts into the database as queued
// listings. Accepts a plain text file (listings separated by blank lines) or
// an Excel workbook (one listing per row, first column of the first sheet).
// Usage: go run ./cmd/seed -in examples/listings.txt
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/xuri/excelize/v2"

	"rentlens/internal/batch"
	"rentlens/internal/config"
	"rentlens/internal/repository/postgres"
	"rentlens/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	inPath := flag.String("in", "examples/listings.txt", "input file (.txt with blank-line separated listings, or .xlsx)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	var texts []string
	if strings.HasSuffix(strings.ToLower(*inPath), ".xlsx") {
		texts, err = loadFromExcel(*inPath)
	} else {
		texts, err = batch.LoadListings(*inPath)
	}
	if err != nil {
		return err
	}
	log.Printf("loaded %d listings from %s", len(texts), *inPath)

	repo := postgres.NewListingRepo(db)
	svc := service.NewListingService(repo, nil, cfg.Policy.ToPolicy())

	ctx := context.Background()
	created := 0
	for i, text := range texts {
		l, err := svc.Create(ctx, &service.CreateListingInput{RawText: text})
		if err != nil {
			log.Printf("WARN: skipping listing %d: %v", i+1, err)
			continue
		}
		log.Printf("queued listing %s", l.ID)
		created++
	}

	log.Printf("Seed complete: %d listings queued", created)
	return nil
}

// loadFromExcel reads listing texts from the first column of the first sheet.
// A header row named "listing" or "text" is skipped.
func loadFromExcel(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}

	texts := make([]string, 0, len(rows))
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell := strings.TrimSpace(row[0])
		if cell == "" {
			continue
		}
		if i == 0 {
			if lower := strings.ToLower(cell); lower == "listing" || lower == "text" {
				continue
			}
		}
		texts = append(texts, cell)
	}
	return texts, nil
}
