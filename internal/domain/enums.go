package domain

// Severity ranks a validation finding. Error outranks warning.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ExtractionStatus represents the lifecycle of a listing's LLM extraction.
type ExtractionStatus string

const (
	ExtractionStatusQueued     ExtractionStatus = "queued"
	ExtractionStatusProcessing ExtractionStatus = "processing"
	ExtractionStatusCompleted  ExtractionStatus = "completed"
	ExtractionStatusFailed     ExtractionStatus = "failed"
)

// ValidationStatus summarizes a listing's validation outcome.
type ValidationStatus string

const (
	ValidationStatusPending ValidationStatus = "pending"
	ValidationStatusValid   ValidationStatus = "valid"
	ValidationStatusWarning ValidationStatus = "warning"
	ValidationStatusInvalid ValidationStatus = "invalid"
)
