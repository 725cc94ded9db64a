package domain

import (
	"context"

	"github.com/google/uuid"
)

// PropertyRepository defines the read side of the storage collaborator
type PropertyRepository interface {
	// GetPropertyWithChildren retrieves a property and all of its child records
	// read at a single consistent point. Returns *MissingPropertyError if the
	// property does not exist.
	GetPropertyWithChildren(ctx context.Context, id uuid.UUID) (*PropertySnapshot, error)

	// ListIDs retrieves the IDs of every property
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

// AssumptionsRepository defines the interface for assumptions persistence operations
type AssumptionsRepository interface {
	// GetOrCreate retrieves the assumptions of a property, creating them with
	// the documented defaults on first access
	GetOrCreate(ctx context.Context, propertyID uuid.UUID) (*Assumptions, error)
}

// MetricsHistoryRepository is an append-only sink for metrics trend charts.
// Nothing read from it is ever fed back into the engine.
type MetricsHistoryRepository interface {
	// Record appends a metrics point for a property
	Record(ctx context.Context, entry *MetricsHistoryEntry) error

	// ListRecent retrieves the most recent points for a property, newest first
	ListRecent(ctx context.Context, propertyID uuid.UUID, limit int) ([]*MetricsHistoryEntry, error)
}

// MetricsCache memoizes metrics results by (property ID, snapshot version).
// Entries are invalidated by writers, never by elapsed time.
type MetricsCache interface {
	// Get returns the cached result and whether it was found
	Get(ctx context.Context, key CacheKey) (*MetricsResult, bool, error)

	// Set stores a result under the given key
	Set(ctx context.Context, key CacheKey, result *MetricsResult) error

	// Invalidate drops every cached version of a property
	Invalidate(ctx context.Context, propertyID uuid.UUID) error
}
