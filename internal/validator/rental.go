// Package validator judges extracted rental values against a static policy and
// aggregates the findings into a ranked issue list with an overall verdict.
// Every validator here is a pure function of its inputs: no I/O, no shared
// state, no failure modes beyond the findings themselves.
package validator

import (
	"fmt"

	"rentlens/internal/domain"
	"rentlens/internal/policy"
	"rentlens/internal/schema"
)

// number constrains range validation to the numeric field types the schema
// declares. Comparison happens on the declared type; ints and floats are never
// coerced into each other.
type number interface {
	~int | ~float64
}

// ValidateConfidence checks an extracted field's confidence against the
// configured thresholds. A missing value short-circuits the check entirely:
// confidence of an absent field is not evaluated.
func ValidateConfidence[T any](field schema.Extracted[T], fieldName string, conf policy.ConfidenceThresholds) []Issue {
	var issues []Issue
	if field.Value == nil {
		return issues
	}

	c := field.Confidence
	switch {
	case c < conf.Error:
		issues = append(issues, Issue{
			Field:    fieldName,
			Severity: domain.SeverityError,
			Message:  fmt.Sprintf("Error-level confidence (%.2f < %v); manual review required.", c, conf.Error),
		})
	case c < conf.Warn:
		issues = append(issues, Issue{
			Field:    fieldName,
			Severity: domain.SeverityWarning,
			Message:  fmt.Sprintf("Low confidence (%.2f < %v); manual review recommended.", c, conf.Warn),
		})
	}
	return issues
}

// ValidateRange checks that a numeric field's value falls inside the inclusive
// [minV, maxV] bound. A missing value produces no issues.
func ValidateRange[T number](field schema.Extracted[T], fieldName string, minV, maxV T) []Issue {
	var issues []Issue
	if field.Value == nil {
		return issues
	}

	v := *field.Value
	if v < minV || v > maxV {
		issues = append(issues, Issue{
			Field:    fieldName,
			Severity: domain.SeverityError,
			Message:  fmt.Sprintf("%s %v is outside expected range [%v, %v].", fieldName, v, minV, maxV),
		})
	}
	return issues
}

// ValidatePrice checks the monthly price field. The upper bound is derived
// from the bedroom count (see policy.PricePolicy.MaxForBedrooms), so the
// bedrooms value is a dependency input here. Range issues precede confidence
// issues.
func ValidatePrice(price schema.Extracted[int], bedrooms *int, conf policy.ConfidenceThresholds, pol policy.PricePolicy) []Issue {
	var issues []Issue
	if price.Value == nil {
		return issues
	}

	maxP := pol.MaxForBedrooms(bedrooms)
	issues = append(issues, ValidateRange(price, schema.FieldPriceMonthly, pol.MinPrice, maxP)...)
	issues = append(issues, ValidateConfidence(price, schema.FieldPriceMonthly, conf)...)
	return issues
}

// ValidateBedrooms checks the bedroom count against its static range, then its
// confidence.
func ValidateBedrooms(beds schema.Extracted[int], conf policy.ConfidenceThresholds, r policy.BedroomsRange) []Issue {
	var issues []Issue
	issues = append(issues, ValidateRange(beds, schema.FieldBedrooms, r.Min, r.Max)...)
	issues = append(issues, ValidateConfidence(beds, schema.FieldBedrooms, conf)...)
	return issues
}

// ValidateBathrooms checks the bathroom count against its static range, then
// its confidence.
func ValidateBathrooms(baths schema.Extracted[float64], conf policy.ConfidenceThresholds, r policy.BathroomsRange) []Issue {
	var issues []Issue
	issues = append(issues, ValidateRange(baths, schema.FieldBathrooms, r.Min, r.Max)...)
	issues = append(issues, ValidateConfidence(baths, schema.FieldBathrooms, conf)...)
	return issues
}

// ValidateStringField checks a free-text field. No range applies; only the
// confidence check runs.
func ValidateStringField(field schema.Extracted[string], fieldName string, conf policy.ConfidenceThresholds) []Issue {
	return ValidateConfidence(field, fieldName, conf)
}

// ValidateRental runs every field validator over one rental record in a fixed
// order: price (with bedrooms as its dependency), bedrooms, bathrooms, address,
// utilities_text. All five fields are always evaluated; no validator's outcome
// skips another. The returned issues are in production order, unsorted.
func ValidateRental(rec schema.RentalRecord, pol policy.Policy) []Issue {
	var issues []Issue
	issues = append(issues, ValidatePrice(rec.PriceMonthly, rec.Bedrooms.Value, pol.Confidence, pol.Price)...)
	issues = append(issues, ValidateBedrooms(rec.Bedrooms, pol.Confidence, pol.Bedrooms)...)
	issues = append(issues, ValidateBathrooms(rec.Bathrooms, pol.Confidence, pol.Bathrooms)...)
	issues = append(issues, ValidateStringField(rec.Address, schema.FieldAddress, pol.Confidence)...)
	issues = append(issues, ValidateStringField(rec.UtilitiesText, schema.FieldUtilitiesText, pol.Confidence)...)
	return issues
}

// Report is the validation outcome handed to callers: the sorted issue list
// and the overall verdict.
type Report struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues"`
}

// Evaluate validates one rental record and packages the sorted issues with the
// overall validity verdict.
func Evaluate(rec schema.RentalRecord, pol policy.Policy) Report {
	issues := SortIssues(ValidateRental(rec, pol))
	return Report{
		Valid:  IsValid(issues),
		Issues: issues,
	}
}

// Status maps a report onto the coarse listing validation status.
func (r Report) Status() domain.ValidationStatus {
	switch {
	case !r.Valid:
		return domain.ValidationStatusInvalid
	case len(r.Issues) > 0:
		return domain.ValidationStatusWarning
	default:
		return domain.ValidationStatusValid
	}
}
