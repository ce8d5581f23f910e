package batch

import (
	"context"
	"fmt"
	"log"

	"rentlens/internal/policy"
	"rentlens/internal/port"
	"rentlens/internal/schema"
	"rentlens/internal/validator"
)

// Result is one pipeline output row: the listing text, its extracted record,
// and the validation verdict.
type Result struct {
	ID        int                 `json:"id"`
	Text      string              `json:"text"`
	Valid     bool                `json:"valid"`
	Issues    []validator.Issue   `json:"issues"`
	Extracted schema.RentalRecord `json:"extracted"`
}

// Runner extracts and validates a batch of listing texts in sequence.
type Runner struct {
	extractor port.ListingExtractor
	policy    policy.Policy
}

// NewRunner creates a Runner using the given extractor and validation policy.
func NewRunner(extractor port.ListingExtractor, pol policy.Policy) *Runner {
	return &Runner{extractor: extractor, policy: pol}
}

// Run processes each listing text in order. IDs are 1-based positions in the
// input. Extraction failures abort the run; validation never fails.
func (r *Runner) Run(ctx context.Context, texts []string) ([]Result, error) {
	results := make([]Result, 0, len(texts))
	for i, text := range texts {
		id := i + 1
		log.Printf("pipeline: extracting listing %d/%d", id, len(texts))

		out, err := r.extractor.Extract(ctx, port.ExtractInput{Text: text})
		if err != nil {
			return nil, fmt.Errorf("extracting listing %d: %w", id, err)
		}

		report := validator.Evaluate(out.Record, r.policy)
		results = append(results, Result{
			ID:        id,
			Text:      text,
			Valid:     report.Valid,
			Issues:    report.Issues,
			Extracted: out.Record,
		})
	}
	return results, nil
}
