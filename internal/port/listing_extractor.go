package port

import (
	"context"
	"encoding/json"

	"rentlens/internal/schema"
)

// ExtractInput carries the data needed for listing extraction.
type ExtractInput struct {
	Text string
}

// ExtractOutput contains the structured result from an LLM extractor.
type ExtractOutput struct {
	Record     schema.RentalRecord
	Raw        json.RawMessage
	ModelUsed  string
	PromptUsed string
}

// ListingExtractor abstracts LLM-based fact extraction from listing text.
type ListingExtractor interface {
	Extract(ctx context.Context, input ExtractInput) (*ExtractOutput, error)
}
