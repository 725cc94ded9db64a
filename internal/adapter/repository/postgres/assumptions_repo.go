package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/simaogato/propfolio-backend/internal/domain"
)

// assumptionsRepository implements domain.AssumptionsRepository
type assumptionsRepository struct {
	db *DB
}

// NewAssumptionsRepository creates a new assumptions repository
func NewAssumptionsRepository(db *DB) domain.AssumptionsRepository {
	return &assumptionsRepository{db: db}
}

// GetOrCreate returns the assumptions of a property, inserting the defaults on first use.
// Returns *domain.MissingPropertyError when the property does not exist.
func (r *assumptionsRepository) GetOrCreate(ctx context.Context, propertyID uuid.UUID) (*domain.Assumptions, error) {
	if err := insertDefaultAssumptions(ctx, r.db, propertyID); err != nil {
		return nil, err
	}

	a, err := getAssumptions(ctx, r.db, propertyID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.MissingPropertyError{PropertyID: propertyID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assumptions: %w", err)
	}
	return a, nil
}

// insertDefaultAssumptions must run outside any snapshot transaction: it
// commits on its own, so concurrent first reads settle on the single row
// ON CONFLICT keeps. Nothing is inserted for an unknown property.
func insertDefaultAssumptions(ctx context.Context, q queryer, propertyID uuid.UUID) error {
	defaults := domain.DefaultAssumptions(propertyID)

	query := `
		INSERT INTO property_assumptions (property_id, vacancy_rate, management_fee_rate, market_cap_rate, loan_to_cost_rate, hold_period_years, rehab_financed)
		SELECT $1::uuid, $2::numeric, $3::numeric, $4::numeric, $5::numeric, $6::integer, $7::boolean
		WHERE EXISTS (SELECT 1 FROM properties WHERE id = $1::uuid)
		ON CONFLICT (property_id) DO NOTHING
	`

	_, err := q.ExecContext(ctx, query,
		defaults.PropertyID,
		defaults.VacancyRate.String(),
		defaults.ManagementFeeRate.String(),
		defaults.MarketCapRate.String(),
		defaults.LoanToCostRate.String(),
		defaults.HoldPeriodYears,
		defaults.RehabFinanced,
	)
	if err != nil {
		return fmt.Errorf("failed to insert default assumptions: %w", err)
	}
	return nil
}

// getAssumptions returns sql.ErrNoRows unwrapped when the property has no row
func getAssumptions(ctx context.Context, q queryer, propertyID uuid.UUID) (*domain.Assumptions, error) {
	query := `
		SELECT property_id, vacancy_rate, management_fee_rate, market_cap_rate, loan_to_cost_rate, hold_period_years, rehab_financed
		FROM property_assumptions
		WHERE property_id = $1
	`

	var a domain.Assumptions
	err := q.QueryRowContext(ctx, query, propertyID).Scan(
		&a.PropertyID,
		&a.VacancyRate,
		&a.ManagementFeeRate,
		&a.MarketCapRate,
		&a.LoanToCostRate,
		&a.HoldPeriodYears,
		&a.RehabFinanced,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
