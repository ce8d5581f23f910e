package port

import (
	"context"

	"github.com/google/uuid"

	"rentlens/internal/domain"
)

// ListingRepository abstracts listing persistence.
type ListingRepository interface {
	Create(ctx context.Context, l *domain.Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error)
	List(ctx context.Context, offset, limit int) ([]domain.Listing, int, error)
	ListAll(ctx context.Context) ([]domain.Listing, error)
	UpdateExtractionResults(ctx context.Context, l *domain.Listing) error
	MarkFailed(ctx context.Context, id uuid.UUID, extractionError string) error
	Requeue(ctx context.Context, id uuid.UUID) error
	ClaimQueued(ctx context.Context, limit int) ([]domain.Listing, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
