// Package policy holds the static acceptance policy that extracted rental
// values are judged against. Policy values are plain immutable structs supplied
// by the caller; validators never reach for global defaults.
package policy

// ConfidenceThresholds are the cutoffs below which an extracted value is
// flagged. Callers must keep Error <= Warn; out-of-order thresholds are outside
// the validated domain and are not corrected here.
type ConfidenceThresholds struct {
	Warn  float64 `json:"warn"`
	Error float64 `json:"error"`
}

// DefaultConfidenceThresholds returns the standard thresholds.
func DefaultConfidenceThresholds() ConfidenceThresholds {
	return ConfidenceThresholds{Warn: 0.6, Error: 0.3}
}

// PricePolicy bounds the monthly price. The upper bound is derived from the
// bedroom count rather than being static.
type PricePolicy struct {
	MinPrice   int `json:"min_price"`
	BaseMax    int `json:"base_max"`
	PerBedMax  int `json:"per_bed_max"`
	CapMax     int `json:"cap_max"`
	UnknownMax int `json:"unknown_max"`
}

// DefaultPricePolicy returns the standard price policy.
func DefaultPricePolicy() PricePolicy {
	return PricePolicy{
		MinPrice:   300,
		BaseMax:    1700,
		PerBedMax:  1000,
		CapMax:     9000,
		UnknownMax: 9000,
	}
}

// MaxForBedrooms derives the upper price bound from the bedroom count.
// A nil count (extractor could not determine bedrooms) yields UnknownMax;
// negative counts are clamped to zero before applying the per-bed increment.
func (p PricePolicy) MaxForBedrooms(beds *int) int {
	if beds == nil {
		return p.UnknownMax
	}
	b := *beds
	if b < 0 {
		b = 0
	}
	maxP := p.BaseMax + p.PerBedMax*b
	if maxP > p.CapMax {
		return p.CapMax
	}
	return maxP
}

// BedroomsRange is the inclusive plausible range for bedroom counts.
type BedroomsRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// DefaultBedroomsRange returns the standard bedroom range.
func DefaultBedroomsRange() BedroomsRange {
	return BedroomsRange{Min: 0, Max: 10}
}

// BathroomsRange is the inclusive plausible range for bathroom counts.
// Bathrooms are extracted as reals (1, 1.5, 2), so the bounds are too.
type BathroomsRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DefaultBathroomsRange returns the standard bathroom range.
func DefaultBathroomsRange() BathroomsRange {
	return BathroomsRange{Min: 1, Max: 10}
}

// Policy bundles every acceptance policy applied to one rental record.
type Policy struct {
	Confidence ConfidenceThresholds `json:"confidence"`
	Price      PricePolicy          `json:"price"`
	Bedrooms   BedroomsRange        `json:"bedrooms"`
	Bathrooms  BathroomsRange       `json:"bathrooms"`
}

// Default returns the standard policy bundle.
func Default() Policy {
	return Policy{
		Confidence: DefaultConfidenceThresholds(),
		Price:      DefaultPricePolicy(),
		Bedrooms:   DefaultBedroomsRange(),
		Bathrooms:  DefaultBathroomsRange(),
	}
}
