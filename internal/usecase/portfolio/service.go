package portfolio

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/propfolio-backend/internal/domain"
	"github.com/simaogato/propfolio-backend/internal/usecase/metrics"
)

// MaxHistoryLimit bounds the number of history points returned in one call
const MaxHistoryLimit = 500

// Evaluation is a metrics result together with where it came from
type Evaluation struct {
	Result *domain.MetricsResult
	Cached bool
}

// Outcome is the per-property result of a batch evaluation
type Outcome struct {
	PropertyID uuid.UUID
	Evaluation *Evaluation
	Err        error
}

// MetricsService handles property metrics evaluation
type MetricsService struct {
	PropertyRepo    domain.PropertyRepository
	AssumptionsRepo domain.AssumptionsRepository
	HistoryRepo     domain.MetricsHistoryRepository // optional
	Cache           domain.MetricsCache             // optional
	Engine          *metrics.Engine
	StorageLimit    decimal.Decimal
}

// NewMetricsService creates a new MetricsService instance
// historyRepo and cache may be nil.
func NewMetricsService(
	propertyRepo domain.PropertyRepository,
	assumptionsRepo domain.AssumptionsRepository,
	historyRepo domain.MetricsHistoryRepository,
	cache domain.MetricsCache,
) *MetricsService {
	return &MetricsService{
		PropertyRepo:    propertyRepo,
		AssumptionsRepo: assumptionsRepo,
		HistoryRepo:     historyRepo,
		Cache:           cache,
		Engine:          metrics.NewEngine(),
		StorageLimit:    domain.DefaultRatioStorageLimit,
	}
}

// Evaluate computes the metrics of a stored property
// Logic:
//  1. Fetch the snapshot (read at one consistent point by the repository)
//  2. Get or create assumptions if the repository did not supply them
//  3. Serve from cache when (property ID, version) is already computed
//  4. Otherwise run the engine, cache the result and append it to history
//
// Cache and history failures are logged, not returned: the result is still correct.
func (s *MetricsService) Evaluate(ctx context.Context, propertyID uuid.UUID) (*Evaluation, error) {
	snapshot, err := s.PropertyRepo.GetPropertyWithChildren(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if snapshot.Property == nil {
		return nil, &domain.MissingPropertyError{PropertyID: propertyID}
	}

	if snapshot.Assumptions == nil {
		assumptions, err := s.AssumptionsRepo.GetOrCreate(ctx, propertyID)
		if err != nil {
			return nil, fmt.Errorf("failed to get assumptions: %w", err)
		}
		snapshot.Assumptions = assumptions
	}

	key := domain.CacheKey{PropertyID: propertyID, Version: snapshot.Property.Version}
	if s.Cache != nil {
		cached, found, err := s.Cache.Get(ctx, key)
		if err != nil {
			log.Printf("Warning: metrics cache lookup failed for %s: %v", key, err)
		} else if found {
			return &Evaluation{Result: cached, Cached: true}, nil
		}
	}

	result, err := s.Engine.CalculateMetrics(snapshot)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, key, result); err != nil {
			log.Printf("Warning: failed to cache metrics for %s: %v", key, err)
		}
	}

	if s.HistoryRepo != nil {
		stored, clamped := result.ForStorage(s.StorageLimit)
		if len(clamped) > 0 {
			log.Printf("Metrics for %s clamped for storage: %v", key, clamped)
		}
		if err := s.HistoryRepo.Record(ctx, domain.NewMetricsHistoryEntry(stored)); err != nil {
			log.Printf("Warning: failed to record metrics history for %s: %v", key, err)
		}
	}

	return &Evaluation{Result: result}, nil
}

// EvaluateBatch evaluates several properties independently
// A failing property yields an Outcome with Err set; the batch carries on.
// When ids is empty every property is evaluated.
func (s *MetricsService) EvaluateBatch(ctx context.Context, ids []uuid.UUID) ([]Outcome, error) {
	if len(ids) == 0 {
		var err error
		ids, err = s.PropertyRepo.ListIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list properties: %w", err)
		}
	}

	outcomes := make([]Outcome, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		evaluation, err := s.Evaluate(ctx, id)
		outcomes = append(outcomes, Outcome{PropertyID: id, Evaluation: evaluation, Err: err})
	}

	return outcomes, nil
}

// Calculate runs the engine on a caller-supplied snapshot (what-if analysis).
// Nothing is cached or recorded.
func (s *MetricsService) Calculate(snapshot *domain.PropertySnapshot) (*domain.MetricsResult, error) {
	return s.Engine.CalculateMetrics(snapshot)
}

// Invalidate drops every cached result of a property
// Write paths call this after changing the property or any of its children.
func (s *MetricsService) Invalidate(ctx context.Context, propertyID uuid.UUID) error {
	if s.Cache == nil {
		return nil
	}
	if err := s.Cache.Invalidate(ctx, propertyID); err != nil {
		return fmt.Errorf("failed to invalidate metrics cache: %w", err)
	}
	return nil
}

// History returns the most recent recorded metrics of a property, newest first
func (s *MetricsService) History(ctx context.Context, propertyID uuid.UUID, limit int) ([]*domain.MetricsHistoryEntry, error) {
	if limit <= 0 {
		return nil, errors.New("limit must be positive")
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	if s.HistoryRepo == nil {
		return nil, nil
	}
	return s.HistoryRepo.ListRecent(ctx, propertyID, limit)
}
