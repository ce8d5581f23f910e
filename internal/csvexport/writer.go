package csvexport

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"rentlens/internal/domain"
	"rentlens/internal/schema"
	"rentlens/internal/validator"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row (18 columns).
var columns = []string{
	"Listing ID",
	"Extraction Status",
	"Validation Status",
	"Valid",
	"Price Monthly",
	"Price Confidence",
	"Bedrooms",
	"Bedrooms Confidence",
	"Bathrooms",
	"Bathrooms Confidence",
	"Address",
	"Address Confidence",
	"Utilities",
	"Utilities Confidence",
	"Issue Count",
	"Extractor Model",
	"Extracted At",
	"Created At",
}

// Writer wraps csv.Writer for exporting listings as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the 18-column header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteListings converts a batch of listings to CSV rows and writes them.
func (w *Writer) WriteListings(listings []domain.Listing) error {
	for i := range listings {
		row := listingToRow(&listings[i])
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// listingToRow converts a single listing to an 18-element string slice.
// If the listing has not completed extraction or its extracted JSON is
// invalid, metadata columns are filled and field columns are left empty.
func listingToRow(l *domain.Listing) []string {
	row := make([]string, len(columns))

	// Metadata columns (always filled)
	row[0] = l.ID.String()
	row[1] = string(l.ExtractionStatus)
	row[2] = string(l.ValidationStatus)
	row[3] = formatBool(l.Valid)
	row[15] = l.ExtractorModel
	row[16] = formatTime(l.ExtractedAt)
	row[17] = l.CreatedAt.Format(time.RFC3339)

	// Field columns: only if extraction completed and JSON is valid
	if l.ExtractionStatus != domain.ExtractionStatusCompleted || len(l.Extracted) == 0 {
		return row
	}

	var rec schema.RentalRecord
	if err := json.Unmarshal(l.Extracted, &rec); err != nil {
		return row
	}

	row[4] = formatIntPtr(rec.PriceMonthly.Value)
	row[5] = formatConfidence(rec.PriceMonthly.Confidence)
	row[6] = formatIntPtr(rec.Bedrooms.Value)
	row[7] = formatConfidence(rec.Bedrooms.Confidence)
	row[8] = formatFloatPtr(rec.Bathrooms.Value)
	row[9] = formatConfidence(rec.Bathrooms.Confidence)
	row[10] = formatStrPtr(rec.Address.Value)
	row[11] = formatConfidence(rec.Address.Confidence)
	row[12] = formatStrPtr(rec.UtilitiesText.Value)
	row[13] = formatConfidence(rec.UtilitiesText.Confidence)
	row[14] = strconv.Itoa(issueCount(l.Issues))

	return row
}

// issueCount decodes the stored issues array; malformed JSON counts as zero.
func issueCount(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var issues []validator.Issue
	if err := json.Unmarshal(raw, &issues); err != nil {
		return 0
	}
	return len(issues)
}

func formatIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatStrPtr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func formatConfidence(c float64) string {
	return strconv.FormatFloat(c, 'f', 2, 64)
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
