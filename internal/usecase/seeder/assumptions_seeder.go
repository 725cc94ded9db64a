package seeder

import (
	"context"
	"fmt"

	"github.com/simaogato/propfolio-backend/internal/domain"
)

// AssumptionsSeeder backfills default assumptions for properties that were
// imported before assumptions existed
type AssumptionsSeeder struct {
	properties  domain.PropertyRepository
	assumptions domain.AssumptionsRepository
}

// NewAssumptionsSeeder creates a new AssumptionsSeeder instance
func NewAssumptionsSeeder(properties domain.PropertyRepository, assumptions domain.AssumptionsRepository) *AssumptionsSeeder {
	return &AssumptionsSeeder{
		properties:  properties,
		assumptions: assumptions,
	}
}

// Seed ensures every property has an assumptions row.
// Existing rows are left as they are; the number of properties visited is returned.
func (s *AssumptionsSeeder) Seed(ctx context.Context) (int, error) {
	ids, err := s.properties.ListIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list properties: %w", err)
	}

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if _, err := s.assumptions.GetOrCreate(ctx, id); err != nil {
			return i, fmt.Errorf("failed to seed assumptions for %s: %w", id, err)
		}
	}

	return len(ids), nil
}
