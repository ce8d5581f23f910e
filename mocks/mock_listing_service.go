package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"rentlens/internal/domain"
	"rentlens/internal/service"
)

// MockListingService is a mock implementation of service.ListingService.
type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) Create(ctx context.Context, input *service.CreateListingInput) (*domain.Listing, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *MockListingService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *MockListingService) List(ctx context.Context, offset, limit int) ([]domain.Listing, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Listing), args.Int(1), args.Error(2)
}

func (m *MockListingService) ListAll(ctx context.Context) ([]domain.Listing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Listing), args.Error(1)
}

func (m *MockListingService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockListingService) RetryExtract(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *MockListingService) GetValidation(ctx context.Context, id uuid.UUID) (*service.ValidationResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ValidationResponse), args.Error(1)
}

func (m *MockListingService) ExtractListing(ctx context.Context, l *domain.Listing, maxAttempts int) {
	m.Called(ctx, l, maxAttempts)
}
