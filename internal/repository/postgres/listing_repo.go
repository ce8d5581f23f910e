package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"rentlens/internal/domain"
	"rentlens/internal/port"
)

type listingRepo struct {
	db *sqlx.DB
}

// NewListingRepo creates a new PostgreSQL-backed ListingRepository.
func NewListingRepo(db *sqlx.DB) port.ListingRepository {
	return &listingRepo{db: db}
}

func (r *listingRepo) Create(ctx context.Context, l *domain.Listing) error {
	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now

	query := `INSERT INTO listings (
		id, raw_text, extraction_status, extraction_error, extract_attempts,
		extractor_model, extractor_prompt, extracted, issues, valid,
		validation_status, extracted_at, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8, $9, $10,
		$11, $12, $13, $14
	)`

	_, err := r.db.ExecContext(ctx, query,
		l.ID, l.RawText, l.ExtractionStatus, l.ExtractionError, l.ExtractAttempts,
		l.ExtractorModel, l.ExtractorPrompt, l.Extracted, l.Issues, l.Valid,
		l.ValidationStatus, l.ExtractedAt, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("listingRepo.Create: %w", err)
	}
	return nil
}

func (r *listingRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	var l domain.Listing
	err := r.db.GetContext(ctx, &l, "SELECT * FROM listings WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("listingRepo.GetByID: %w", err)
	}
	return &l, nil
}

func (r *listingRepo) List(ctx context.Context, offset, limit int) ([]domain.Listing, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM listings")
	if err != nil {
		return nil, 0, fmt.Errorf("listingRepo.List count: %w", err)
	}

	var listings []domain.Listing
	err = r.db.SelectContext(ctx, &listings,
		"SELECT * FROM listings ORDER BY created_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listingRepo.List: %w", err)
	}
	return listings, total, nil
}

func (r *listingRepo) ListAll(ctx context.Context) ([]domain.Listing, error) {
	var listings []domain.Listing
	err := r.db.SelectContext(ctx, &listings,
		"SELECT * FROM listings ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("listingRepo.ListAll: %w", err)
	}
	return listings, nil
}

func (r *listingRepo) UpdateExtractionResults(ctx context.Context, l *domain.Listing) error {
	l.UpdatedAt = time.Now().UTC()

	query := `UPDATE listings SET
		extraction_status = $2, extraction_error = $3, extract_attempts = $4,
		extractor_model = $5, extractor_prompt = $6, extracted = $7,
		issues = $8, valid = $9, validation_status = $10,
		extracted_at = $11, updated_at = $12
	WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		l.ID, l.ExtractionStatus, l.ExtractionError, l.ExtractAttempts,
		l.ExtractorModel, l.ExtractorPrompt, l.Extracted,
		l.Issues, l.Valid, l.ValidationStatus,
		l.ExtractedAt, l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("listingRepo.UpdateExtractionResults: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *listingRepo) MarkFailed(ctx context.Context, id uuid.UUID, extractionError string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE listings SET extraction_status = $2, extraction_error = $3, updated_at = $4
		 WHERE id = $1`,
		id, domain.ExtractionStatusFailed, extractionError, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("listingRepo.MarkFailed: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *listingRepo) Requeue(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE listings SET extraction_status = $2, extraction_error = '', updated_at = $3
		 WHERE id = $1`,
		id, domain.ExtractionStatusQueued, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("listingRepo.Requeue: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

// ClaimQueued atomically claims up to limit queued listings for extraction,
// flipping them to processing so concurrent workers never double-claim.
func (r *listingRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.Listing, error) {
	var listings []domain.Listing
	query := `UPDATE listings SET extraction_status = $1, updated_at = $2
		WHERE id IN (
			SELECT id FROM listings
			WHERE extraction_status = $3
			ORDER BY created_at ASC
			LIMIT $4
			FOR UPDATE SKIP LOCKED
		)
		RETURNING *`
	err := r.db.SelectContext(ctx, &listings, query,
		domain.ExtractionStatusProcessing, time.Now().UTC(), domain.ExtractionStatusQueued, limit)
	if err != nil {
		return nil, fmt.Errorf("listingRepo.ClaimQueued: %w", err)
	}
	return listings, nil
}

func (r *listingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM listings WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("listingRepo.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}
