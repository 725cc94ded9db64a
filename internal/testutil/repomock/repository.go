// Package repomock provides testify mocks of the domain repository ports.
package repomock

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/simaogato/propfolio-backend/internal/domain"
)

// PropertyRepository is a mock implementation of domain.PropertyRepository
type PropertyRepository struct {
	mock.Mock
}

func (m *PropertyRepository) GetPropertyWithChildren(ctx context.Context, id uuid.UUID) (*domain.PropertySnapshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PropertySnapshot), args.Error(1)
}

func (m *PropertyRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// AssumptionsRepository is a mock implementation of domain.AssumptionsRepository
type AssumptionsRepository struct {
	mock.Mock
}

func (m *AssumptionsRepository) GetOrCreate(ctx context.Context, propertyID uuid.UUID) (*domain.Assumptions, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Assumptions), args.Error(1)
}

// MetricsHistoryRepository is a mock implementation of domain.MetricsHistoryRepository
type MetricsHistoryRepository struct {
	mock.Mock
}

func (m *MetricsHistoryRepository) Record(ctx context.Context, entry *domain.MetricsHistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MetricsHistoryRepository) ListRecent(ctx context.Context, propertyID uuid.UUID, limit int) ([]*domain.MetricsHistoryEntry, error) {
	args := m.Called(ctx, propertyID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.MetricsHistoryEntry), args.Error(1)
}

// MetricsCache is a mock implementation of domain.MetricsCache
type MetricsCache struct {
	mock.Mock
}

func (m *MetricsCache) Get(ctx context.Context, key domain.CacheKey) (*domain.MetricsResult, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.MetricsResult), args.Bool(1), args.Error(2)
}

func (m *MetricsCache) Set(ctx context.Context, key domain.CacheKey, result *domain.MetricsResult) error {
	args := m.Called(ctx, key, result)
	return args.Error(0)
}

func (m *MetricsCache) Invalidate(ctx context.Context, propertyID uuid.UUID) error {
	args := m.Called(ctx, propertyID)
	return args.Error(0)
}
