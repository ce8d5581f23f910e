package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Listing represents one submitted rental listing text and the state of its
// extraction and validation.
type Listing struct {
	ID               uuid.UUID        `db:"id" json:"id"`
	RawText          string           `db:"raw_text" json:"raw_text"`
	ExtractionStatus ExtractionStatus `db:"extraction_status" json:"extraction_status"`
	ExtractionError  string           `db:"extraction_error" json:"extraction_error"`
	ExtractAttempts  int              `db:"extract_attempts" json:"extract_attempts"`
	ExtractorModel   string           `db:"extractor_model" json:"extractor_model"`
	ExtractorPrompt  string           `db:"extractor_prompt" json:"-"`
	Extracted        json.RawMessage  `db:"extracted" json:"extracted"`
	Issues           json.RawMessage  `db:"issues" json:"issues"`
	Valid            bool             `db:"valid" json:"valid"`
	ValidationStatus ValidationStatus `db:"validation_status" json:"validation_status"`
	ExtractedAt      *time.Time       `db:"extracted_at" json:"extracted_at"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
}
