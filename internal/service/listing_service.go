package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"rentlens/internal/domain"
	"rentlens/internal/extractor"
	"rentlens/internal/policy"
	"rentlens/internal/port"
	"rentlens/internal/schema"
	"rentlens/internal/validator"
)

// CreateListingInput is the DTO for submitting a listing text.
type CreateListingInput struct {
	RawText string
}

// ValidationSummary holds aggregate counts over a listing's issues.
type ValidationSummary struct {
	Total    int `json:"total"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

// ValidationResponse is the API payload for a listing's validation outcome.
type ValidationResponse struct {
	ListingID        uuid.UUID               `json:"listing_id"`
	Valid            bool                    `json:"valid"`
	ValidationStatus domain.ValidationStatus `json:"validation_status"`
	Summary          ValidationSummary       `json:"summary"`
	Issues           []validator.Issue       `json:"issues"`
}

// ListingService defines the listing management contract.
type ListingService interface {
	Create(ctx context.Context, input *CreateListingInput) (*domain.Listing, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error)
	List(ctx context.Context, offset, limit int) ([]domain.Listing, int, error)
	ListAll(ctx context.Context) ([]domain.Listing, error)
	Delete(ctx context.Context, id uuid.UUID) error
	RetryExtract(ctx context.Context, id uuid.UUID) (*domain.Listing, error)
	GetValidation(ctx context.Context, id uuid.UUID) (*ValidationResponse, error)
	ExtractListing(ctx context.Context, l *domain.Listing, maxAttempts int)
}

type listingService struct {
	repo      port.ListingRepository
	extractor port.ListingExtractor
	policy    policy.Policy
}

// NewListingService creates a new ListingService implementation.
func NewListingService(repo port.ListingRepository, ex port.ListingExtractor, pol policy.Policy) ListingService {
	return &listingService{
		repo:      repo,
		extractor: ex,
		policy:    pol,
	}
}

func (s *listingService) Create(ctx context.Context, input *CreateListingInput) (*domain.Listing, error) {
	text := strings.TrimSpace(input.RawText)
	if text == "" {
		return nil, domain.ErrEmptyListingText
	}

	l := &domain.Listing{
		ID:               uuid.New(),
		RawText:          text,
		ExtractionStatus: domain.ExtractionStatusQueued,
		Extracted:        json.RawMessage("null"),
		Issues:           json.RawMessage("[]"),
		ValidationStatus: domain.ValidationStatusPending,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("creating listing: %w", err)
	}
	return l, nil
}

func (s *listingService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *listingService) List(ctx context.Context, offset, limit int) ([]domain.Listing, int, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *listingService) ListAll(ctx context.Context) ([]domain.Listing, error) {
	return s.repo.ListAll(ctx)
}

func (s *listingService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// RetryExtract requeues a listing for extraction.
func (s *listingService) RetryExtract(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	if err := s.repo.Requeue(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// GetValidation returns the stored validation outcome of an extracted listing.
func (s *listingService) GetValidation(ctx context.Context, id uuid.UUID) (*ValidationResponse, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.ExtractionStatus == domain.ExtractionStatusFailed {
		return nil, fmt.Errorf("%w: %s", domain.ErrExtractionFailed, l.ExtractionError)
	}
	if l.ExtractionStatus != domain.ExtractionStatusCompleted {
		return nil, domain.ErrListingNotExtracted
	}

	var issues []validator.Issue
	if len(l.Issues) > 0 {
		if err := json.Unmarshal(l.Issues, &issues); err != nil {
			return nil, fmt.Errorf("unmarshaling issues: %w", err)
		}
	}

	summary := ValidationSummary{Total: len(issues)}
	for _, i := range issues {
		if i.Severity == domain.SeverityError {
			summary.Errors++
		} else {
			summary.Warnings++
		}
	}

	if issues == nil {
		issues = []validator.Issue{}
	}
	return &ValidationResponse{
		ListingID:        l.ID,
		Valid:            l.Valid,
		ValidationStatus: l.ValidationStatus,
		Summary:          summary,
		Issues:           issues,
	}, nil
}

// ExtractListing runs LLM extraction on a claimed listing, validates the
// extracted record, and persists both outcomes. Errors are recorded on the
// listing rather than returned: this runs on worker goroutines with nobody to
// hand an error to.
func (s *listingService) ExtractListing(ctx context.Context, l *domain.Listing, maxAttempts int) {
	output, err := s.extractor.Extract(ctx, port.ExtractInput{Text: l.RawText})
	if err != nil {
		s.handleExtractError(ctx, l, err, maxAttempts)
		return
	}

	report := validator.Evaluate(output.Record, s.policy)
	issuesJSON, err := json.Marshal(report.Issues)
	if err != nil {
		s.failExtraction(ctx, l, fmt.Sprintf("marshaling issues: %v", err))
		return
	}

	now := time.Now().UTC()
	l.Extracted = output.Raw
	l.ExtractorModel = output.ModelUsed
	l.ExtractorPrompt = output.PromptUsed
	l.ExtractionStatus = domain.ExtractionStatusCompleted
	l.ExtractionError = ""
	l.ExtractedAt = &now
	l.Issues = issuesJSON
	l.Valid = report.Valid
	l.ValidationStatus = report.Status()

	if err := s.repo.UpdateExtractionResults(ctx, l); err != nil {
		log.Printf("listingService.ExtractListing: failed to save results for %s: %v", l.ID, err)
		return
	}

	log.Printf("listingService.ExtractListing: listing %s extracted: valid=%t, issues=%d",
		l.ID, report.Valid, len(report.Issues))
}

// handleExtractError queues the listing for retry on rate limits while under
// the attempt budget; anything else is a permanent failure.
func (s *listingService) handleExtractError(ctx context.Context, l *domain.Listing, extractErr error, maxAttempts int) {
	var rlErr *extractor.RateLimitError
	if errors.As(extractErr, &rlErr) && l.ExtractAttempts < maxAttempts {
		l.ExtractionStatus = domain.ExtractionStatusQueued
		l.ExtractionError = fmt.Sprintf("rate limited by %s, queued for retry", rlErr.Provider)
		if err := s.repo.UpdateExtractionResults(ctx, l); err != nil {
			log.Printf("listingService.handleExtractError: failed to queue listing %s: %v", l.ID, err)
		}
		return
	}
	s.failExtraction(ctx, l, extractErr.Error())
}

func (s *listingService) failExtraction(ctx context.Context, l *domain.Listing, reason string) {
	log.Printf("listingService: extraction failed for %s: %s", l.ID, reason)
	if err := s.repo.MarkFailed(ctx, l.ID, reason); err != nil {
		log.Printf("listingService.failExtraction: failed to mark listing %s: %v", l.ID, err)
	}
}

// RecordFromRaw decodes a stored extracted payload back into the typed record.
func RecordFromRaw(raw json.RawMessage) (schema.RentalRecord, error) {
	var rec schema.RentalRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return schema.RentalRecord{}, fmt.Errorf("unmarshaling extracted record: %w", err)
	}
	return rec, nil
}
