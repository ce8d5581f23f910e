// Package schema defines the typed shape of LLM-extracted rental listing data.
package schema

// Extracted wraps one extracted datum with its provenance and the extractor's
// self-reported confidence. A nil Value means the field was missing or unclear
// in the source text; Confidence is always present regardless.
type Extracted[T any] struct {
	Value      *T      `json:"value"`
	Evidence   *string `json:"evidence,omitempty"`
	Confidence float64 `json:"confidence"`
}

// Field names as they appear in issue records and API payloads.
const (
	FieldPriceMonthly  = "price_monthly"
	FieldBedrooms      = "bedrooms"
	FieldBathrooms     = "bathrooms"
	FieldAddress       = "address"
	FieldUtilitiesText = "utilities_text"
)

// RentalRecord is the full set of facts extracted from one rental listing.
type RentalRecord struct {
	PriceMonthly  Extracted[int]     `json:"price_monthly"`
	Bedrooms      Extracted[int]     `json:"bedrooms"`
	Bathrooms     Extracted[float64] `json:"bathrooms"`
	Address       Extracted[string]  `json:"address"`
	UtilitiesText Extracted[string]  `json:"utilities_text"`
}
