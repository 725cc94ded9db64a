package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/propfolio-backend/internal/domain"
)

// metricsHistoryRepository implements domain.MetricsHistoryRepository
type metricsHistoryRepository struct {
	db *DB
}

// NewMetricsHistoryRepository creates a new metrics history repository
func NewMetricsHistoryRepository(db *DB) domain.MetricsHistoryRepository {
	return &metricsHistoryRepository{db: db}
}

// Record appends a metrics history entry. A second entry for the same
// (property, snapshot version) is dropped: one trend point per version.
// Ratios must already be clamped to the column range; undefined ratios are stored as NULL.
func (r *metricsHistoryRepository) Record(ctx context.Context, entry *domain.MetricsHistoryEntry) error {
	query := `
		INSERT INTO metrics_history (
			id, property_id, snapshot_version, computed_at,
			net_operating_income, cash_flow, arv,
			cap_rate, cash_on_cash_return, dscr, equity_multiple
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (property_id, snapshot_version) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.PropertyID,
		entry.SnapshotVersion,
		entry.ComputedAt,
		entry.NetOperatingIncome.String(),
		entry.CashFlow.String(),
		entry.ARV.String(),
		entry.CapRate.NullDecimal(),
		entry.CashOnCashReturn.NullDecimal(),
		entry.DSCR.NullDecimal(),
		entry.EquityMultiple.NullDecimal(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert metrics history entry: %w", err)
	}

	return nil
}

// ListRecent retrieves the most recent entries of a property, newest first
func (r *metricsHistoryRepository) ListRecent(ctx context.Context, propertyID uuid.UUID, limit int) ([]*domain.MetricsHistoryEntry, error) {
	query := `
		SELECT id, property_id, snapshot_version, computed_at,
		       net_operating_income, cash_flow, arv,
		       cap_rate, cash_on_cash_return, dscr, equity_multiple
		FROM metrics_history
		WHERE property_id = $1
		ORDER BY computed_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, propertyID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list metrics history: %w", err)
	}
	defer rows.Close()

	var entries []*domain.MetricsHistoryEntry
	for rows.Next() {
		var entry domain.MetricsHistoryEntry
		var capRate, cashOnCash, dscr, equityMultiple decimal.NullDecimal

		err := rows.Scan(
			&entry.ID,
			&entry.PropertyID,
			&entry.SnapshotVersion,
			&entry.ComputedAt,
			&entry.NetOperatingIncome,
			&entry.CashFlow,
			&entry.ARV,
			&capRate,
			&cashOnCash,
			&dscr,
			&equityMultiple,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan metrics history entry: %w", err)
		}

		entry.CapRate = domain.RatioFromNullDecimal(capRate)
		entry.CashOnCashReturn = domain.RatioFromNullDecimal(cashOnCash)
		entry.DSCR = domain.RatioFromNullDecimal(dscr)
		entry.EquityMultiple = domain.RatioFromNullDecimal(equityMultiple)

		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating metrics history: %w", err)
	}

	return entries, nil
}
