package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rentlens/internal/domain"
	"rentlens/internal/extractor"
	"rentlens/internal/policy"
	"rentlens/internal/port"
	"rentlens/internal/schema"
	"rentlens/internal/service"
	"rentlens/internal/validator"
	"rentlens/mocks"
)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }
func strp(v string) *string     { return &v }

func newListingService() (service.ListingService, *mocks.MockListingRepo, *mocks.MockListingExtractor) {
	repo := new(mocks.MockListingRepo)
	ext := new(mocks.MockListingExtractor)
	svc := service.NewListingService(repo, ext, policy.Default())
	return svc, repo, ext
}

func confidentRecord() schema.RentalRecord {
	return schema.RentalRecord{
		PriceMonthly:  schema.Extracted[int]{Value: intp(2500), Confidence: 0.95},
		Bedrooms:      schema.Extracted[int]{Value: intp(2), Confidence: 0.9},
		Bathrooms:     schema.Extracted[float64]{Value: floatp(1.5), Confidence: 0.85},
		Address:       schema.Extracted[string]{Value: strp("123 Main St"), Confidence: 0.8},
		UtilitiesText: schema.Extracted[string]{Value: strp("water included"), Confidence: 0.7},
	}
}

func TestListingService_Create(t *testing.T) {
	svc, repo, _ := newListingService()

	repo.On("Create", mock.Anything, mock.MatchedBy(func(l *domain.Listing) bool {
		return l.RawText == "Cozy 2BR apartment" &&
			l.ExtractionStatus == domain.ExtractionStatusQueued &&
			l.ValidationStatus == domain.ValidationStatusPending
	})).Return(nil)

	l, err := svc.Create(context.Background(), &service.CreateListingInput{RawText: "  Cozy 2BR apartment  "})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, l.ID)
	assert.Equal(t, "Cozy 2BR apartment", l.RawText)
	repo.AssertExpectations(t)
}

func TestListingService_Create_EmptyText(t *testing.T) {
	svc, repo, _ := newListingService()

	_, err := svc.Create(context.Background(), &service.CreateListingInput{RawText: "   \n  "})
	assert.ErrorIs(t, err, domain.ErrEmptyListingText)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListingService_ExtractListing_Success(t *testing.T) {
	svc, repo, ext := newListingService()

	rec := confidentRecord()
	raw, err := json.Marshal(rec)
	require.NoError(t, err)

	ext.On("Extract", mock.Anything, port.ExtractInput{Text: "some listing"}).
		Return(&port.ExtractOutput{Record: rec, Raw: raw, ModelUsed: "gpt-4o-mini"}, nil)

	repo.On("UpdateExtractionResults", mock.Anything, mock.MatchedBy(func(l *domain.Listing) bool {
		return l.ExtractionStatus == domain.ExtractionStatusCompleted &&
			l.Valid &&
			l.ValidationStatus == domain.ValidationStatusValid &&
			l.ExtractorModel == "gpt-4o-mini" &&
			l.ExtractedAt != nil
	})).Return(nil)

	l := &domain.Listing{ID: uuid.New(), RawText: "some listing", ExtractionStatus: domain.ExtractionStatusProcessing}
	svc.ExtractListing(context.Background(), l, 5)

	repo.AssertExpectations(t)
	ext.AssertExpectations(t)
}

func TestListingService_ExtractListing_InvalidRecord(t *testing.T) {
	svc, repo, ext := newListingService()

	rec := confidentRecord()
	rec.PriceMonthly = schema.Extracted[int]{Value: intp(9999), Confidence: 0.9}
	raw, _ := json.Marshal(rec)

	ext.On("Extract", mock.Anything, mock.Anything).
		Return(&port.ExtractOutput{Record: rec, Raw: raw, ModelUsed: "gpt-4o-mini"}, nil)

	repo.On("UpdateExtractionResults", mock.Anything, mock.MatchedBy(func(l *domain.Listing) bool {
		if l.Valid || l.ValidationStatus != domain.ValidationStatusInvalid {
			return false
		}
		var issues []validator.Issue
		if err := json.Unmarshal(l.Issues, &issues); err != nil {
			return false
		}
		return len(issues) == 1 && issues[0].Field == schema.FieldPriceMonthly
	})).Return(nil)

	l := &domain.Listing{ID: uuid.New(), RawText: "overpriced listing"}
	svc.ExtractListing(context.Background(), l, 5)

	repo.AssertExpectations(t)
}

func TestListingService_ExtractListing_RateLimitRequeues(t *testing.T) {
	svc, repo, ext := newListingService()

	rlErr := extractor.NewRateLimitError("openai", errors.New("429"), 30)
	ext.On("Extract", mock.Anything, mock.Anything).Return(nil, rlErr)

	repo.On("UpdateExtractionResults", mock.Anything, mock.MatchedBy(func(l *domain.Listing) bool {
		return l.ExtractionStatus == domain.ExtractionStatusQueued
	})).Return(nil)

	l := &domain.Listing{ID: uuid.New(), RawText: "a listing", ExtractAttempts: 1}
	svc.ExtractListing(context.Background(), l, 5)

	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "MarkFailed", mock.Anything, mock.Anything, mock.Anything)
}

func TestListingService_ExtractListing_RateLimitExhaustedFails(t *testing.T) {
	svc, repo, ext := newListingService()

	rlErr := extractor.NewRateLimitError("openai", errors.New("429"), 30)
	ext.On("Extract", mock.Anything, mock.Anything).Return(nil, rlErr)

	l := &domain.Listing{ID: uuid.New(), RawText: "a listing", ExtractAttempts: 5}
	repo.On("MarkFailed", mock.Anything, l.ID, mock.AnythingOfType("string")).Return(nil)

	svc.ExtractListing(context.Background(), l, 5)

	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "UpdateExtractionResults", mock.Anything, mock.Anything)
}

func TestListingService_ExtractListing_PermanentErrorFails(t *testing.T) {
	svc, repo, ext := newListingService()

	ext.On("Extract", mock.Anything, mock.Anything).Return(nil, errors.New("schema mismatch"))

	l := &domain.Listing{ID: uuid.New(), RawText: "a listing"}
	repo.On("MarkFailed", mock.Anything, l.ID, "schema mismatch").Return(nil)

	svc.ExtractListing(context.Background(), l, 5)

	repo.AssertExpectations(t)
}

func TestListingService_GetValidation(t *testing.T) {
	svc, repo, _ := newListingService()

	issues := []validator.Issue{
		{Field: schema.FieldPriceMonthly, Severity: domain.SeverityError, Message: "out of range"},
		{Field: schema.FieldAddress, Severity: domain.SeverityWarning, Message: "low confidence"},
	}
	issuesJSON, _ := json.Marshal(issues)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(&domain.Listing{
		ID:               id,
		ExtractionStatus: domain.ExtractionStatusCompleted,
		ValidationStatus: domain.ValidationStatusInvalid,
		Valid:            false,
		Issues:           issuesJSON,
	}, nil)

	resp, err := svc.GetValidation(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, id, resp.ListingID)
	assert.False(t, resp.Valid)
	assert.Equal(t, 2, resp.Summary.Total)
	assert.Equal(t, 1, resp.Summary.Errors)
	assert.Equal(t, 1, resp.Summary.Warnings)
	require.Len(t, resp.Issues, 2)
}

func TestListingService_GetValidation_NotExtracted(t *testing.T) {
	svc, repo, _ := newListingService()

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(&domain.Listing{
		ID:               id,
		ExtractionStatus: domain.ExtractionStatusQueued,
	}, nil)

	_, err := svc.GetValidation(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrListingNotExtracted)
}

func TestListingService_GetValidation_FailedExtraction(t *testing.T) {
	svc, repo, _ := newListingService()

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(&domain.Listing{
		ID:               id,
		ExtractionStatus: domain.ExtractionStatusFailed,
		ExtractionError:  "provider timeout",
	}, nil)

	_, err := svc.GetValidation(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
	assert.Contains(t, err.Error(), "provider timeout")
}

func TestListingService_RetryExtract(t *testing.T) {
	svc, repo, _ := newListingService()

	id := uuid.New()
	repo.On("Requeue", mock.Anything, id).Return(nil)
	repo.On("GetByID", mock.Anything, id).Return(&domain.Listing{
		ID:               id,
		ExtractionStatus: domain.ExtractionStatusQueued,
	}, nil)

	l, err := svc.RetryExtract(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.ExtractionStatusQueued, l.ExtractionStatus)
	repo.AssertExpectations(t)
}

func TestListingService_RetryExtract_NotFound(t *testing.T) {
	svc, repo, _ := newListingService()

	id := uuid.New()
	repo.On("Requeue", mock.Anything, id).Return(domain.ErrListingNotFound)

	_, err := svc.RetryExtract(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrListingNotFound)
}
