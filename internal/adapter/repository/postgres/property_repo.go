package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/propfolio-backend/internal/domain"
)

// Cost item categories as stored in cost_items.category
const (
	costCategoryRehab   = "REHAB"
	costCategoryClosing = "CLOSING"
	costCategoryHolding = "HOLDING"
)

// propertyRepository implements domain.PropertyRepository
type propertyRepository struct {
	db *DB
}

// NewPropertyRepository creates a new property repository
func NewPropertyRepository(db *DB) domain.PropertyRepository {
	return &propertyRepository{db: db}
}

// GetPropertyWithChildren loads a property and every child collection the
// metrics engine reads. All reads share one REPEATABLE READ transaction so a
// concurrent edit cannot produce a snapshot mixing old and new rows.
// Default assumptions are inserted before the transaction starts so the
// transaction itself only reads.
func (r *propertyRepository) GetPropertyWithChildren(ctx context.Context, id uuid.UUID) (*domain.PropertySnapshot, error) {
	if err := insertDefaultAssumptions(ctx, r.db, id); err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	property, err := getProperty(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	snapshot := &domain.PropertySnapshot{Property: property}

	if snapshot.UnitTypes, err = listUnitTypes(ctx, tx, id); err != nil {
		return nil, err
	}
	if snapshot.RentRoll, err = listRentRoll(ctx, tx, id); err != nil {
		return nil, err
	}
	if snapshot.OtherIncome, err = listOtherIncome(ctx, tx, id); err != nil {
		return nil, err
	}
	if snapshot.Expenses, err = listExpenses(ctx, tx, id); err != nil {
		return nil, err
	}

	costs, err := listCostItems(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	snapshot.RehabItems = costs[costCategoryRehab]
	snapshot.ClosingCosts = costs[costCategoryClosing]
	snapshot.HoldingCosts = costs[costCategoryHolding]

	if snapshot.Loans, err = listLoans(ctx, tx, id); err != nil {
		return nil, err
	}
	assumptions, err := getAssumptions(ctx, tx, id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Property created after the insert above ran
		defaults := domain.DefaultAssumptions(id)
		assumptions = &defaults
	case err != nil:
		return nil, fmt.Errorf("failed to get assumptions: %w", err)
	}
	snapshot.Assumptions = assumptions

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return snapshot, nil
}

// ListIDs returns the IDs of every property ordered by creation
func (r *propertyRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	query := `SELECT id FROM properties ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan property id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating properties: %w", err)
	}

	return ids, nil
}

func getProperty(ctx context.Context, q queryer, id uuid.UUID) (*domain.Property, error) {
	query := `
		SELECT id, name, status, purchase_price, rehab_cost, sale_price, years_held,
		       total_profit, initial_capital_required, cash_flow_collected, version
		FROM properties
		WHERE id = $1
	`

	var p domain.Property
	var status string
	var salePrice, totalProfit, initialCapital decimal.NullDecimal
	var yearsHeld sql.NullInt64

	err := q.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&status,
		&p.PurchasePrice,
		&p.RehabCost,
		&salePrice,
		&yearsHeld,
		&totalProfit,
		&initialCapital,
		&p.CashFlowCollected,
		&p.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.MissingPropertyError{PropertyID: id}
		}
		return nil, fmt.Errorf("failed to get property: %w", err)
	}

	p.Status = domain.PropertyStatus(status)
	p.SalePrice = decimalPtr(salePrice)
	p.TotalProfit = decimalPtr(totalProfit)
	p.InitialCapitalRequired = decimalPtr(initialCapital)
	if yearsHeld.Valid {
		years := int(yearsHeld.Int64)
		p.YearsHeld = &years
	}

	return &p, nil
}

func listUnitTypes(ctx context.Context, q queryer, propertyID uuid.UUID) ([]domain.UnitType, error) {
	query := `
		SELECT id, name, bedrooms, bathrooms, market_rent
		FROM unit_types
		WHERE property_id = $1
		ORDER BY name, id
	`

	rows, err := q.QueryContext(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unit types: %w", err)
	}
	defer rows.Close()

	var unitTypes []domain.UnitType
	for rows.Next() {
		var ut domain.UnitType
		if err := rows.Scan(&ut.ID, &ut.Name, &ut.Bedrooms, &ut.Bathrooms, &ut.MarketRent); err != nil {
			return nil, fmt.Errorf("failed to scan unit type: %w", err)
		}
		unitTypes = append(unitTypes, ut)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unit types: %w", err)
	}

	return unitTypes, nil
}

func listRentRoll(ctx context.Context, q queryer, propertyID uuid.UUID) ([]domain.RentRollUnit, error) {
	query := `
		SELECT id, unit_number, unit_type_id, is_occupied, current_rent, pro_forma_rent,
		       tenant_name, lease_start, lease_end
		FROM rent_roll_units
		WHERE property_id = $1
		ORDER BY unit_number, id
	`

	rows, err := q.QueryContext(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rent roll: %w", err)
	}
	defer rows.Close()

	var units []domain.RentRollUnit
	for rows.Next() {
		var u domain.RentRollUnit
		var unitTypeID uuid.NullUUID
		var leaseStart, leaseEnd sql.NullTime

		err := rows.Scan(
			&u.ID,
			&u.UnitNumber,
			&unitTypeID,
			&u.IsOccupied,
			&u.CurrentRent,
			&u.ProFormaRent,
			&u.TenantName,
			&leaseStart,
			&leaseEnd,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rent roll unit: %w", err)
		}

		if unitTypeID.Valid {
			u.UnitTypeID = &unitTypeID.UUID
		}
		if leaseStart.Valid {
			u.LeaseStart = &leaseStart.Time
		}
		if leaseEnd.Valid {
			u.LeaseEnd = &leaseEnd.Time
		}

		units = append(units, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rent roll: %w", err)
	}

	return units, nil
}

func listOtherIncome(ctx context.Context, q queryer, propertyID uuid.UUID) ([]domain.OtherIncomeItem, error) {
	query := `
		SELECT id, name, annual_amount
		FROM other_income_items
		WHERE property_id = $1
		ORDER BY name, id
	`

	rows, err := q.QueryContext(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list other income: %w", err)
	}
	defer rows.Close()

	var items []domain.OtherIncomeItem
	for rows.Next() {
		var item domain.OtherIncomeItem
		if err := rows.Scan(&item.ID, &item.Name, &item.AnnualAmount); err != nil {
			return nil, fmt.Errorf("failed to scan other income item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating other income: %w", err)
	}

	return items, nil
}

func listExpenses(ctx context.Context, q queryer, propertyID uuid.UUID) ([]domain.ExpenseItem, error) {
	query := `
		SELECT id, name, kind, annual_amount, percent_of_egi
		FROM expense_items
		WHERE property_id = $1
		ORDER BY name, id
	`

	rows, err := q.QueryContext(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var items []domain.ExpenseItem
	for rows.Next() {
		var item domain.ExpenseItem
		var kind string
		var annualAmount, percentOfEGI decimal.NullDecimal

		if err := rows.Scan(&item.ID, &item.Name, &kind, &annualAmount, &percentOfEGI); err != nil {
			return nil, fmt.Errorf("failed to scan expense item: %w", err)
		}

		switch domain.ExpenseKind(kind) {
		case domain.ExpenseKindFixed:
			if !annualAmount.Valid {
				return nil, fmt.Errorf("expense %s is FIXED but has no annual_amount", item.ID)
			}
			item.Charge = domain.FixedExpense{AnnualAmount: annualAmount.Decimal}
		case domain.ExpenseKindPercentage:
			if !percentOfEGI.Valid {
				return nil, fmt.Errorf("expense %s is PERCENTAGE but has no percent_of_egi", item.ID)
			}
			item.Charge = domain.PercentageExpense{PercentOfEGI: percentOfEGI.Decimal}
		default:
			return nil, fmt.Errorf("expense %s has unknown kind %q", item.ID, kind)
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	return items, nil
}

// listCostItems returns the rehab, closing and holding items keyed by category
func listCostItems(ctx context.Context, q queryer, propertyID uuid.UUID) (map[string][]domain.CostItem, error) {
	query := `
		SELECT id, category, name, amount
		FROM cost_items
		WHERE property_id = $1
		ORDER BY category, name, id
	`

	rows, err := q.QueryContext(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cost items: %w", err)
	}
	defer rows.Close()

	costs := make(map[string][]domain.CostItem)
	for rows.Next() {
		var item domain.CostItem
		var category string
		if err := rows.Scan(&item.ID, &category, &item.Name, &item.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan cost item: %w", err)
		}
		costs[category] = append(costs[category], item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cost items: %w", err)
	}

	return costs, nil
}

// listLoans orders by creation so "first active loan wins" is stable across reads
func listLoans(ctx context.Context, q queryer, propertyID uuid.UUID) ([]domain.Loan, error) {
	query := `
		SELECT id, lender, principal, interest_rate, term_years, payment_type, is_active, current_balance
		FROM loans
		WHERE property_id = $1
		ORDER BY created_at, id
	`

	rows, err := q.QueryContext(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	var loans []domain.Loan
	for rows.Next() {
		var l domain.Loan
		var paymentType string

		err := rows.Scan(
			&l.ID,
			&l.Lender,
			&l.Principal,
			&l.InterestRate,
			&l.TermYears,
			&paymentType,
			&l.IsActive,
			&l.CurrentBalance,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}

		l.PaymentType = domain.PaymentType(paymentType)
		loans = append(loans, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating loans: %w", err)
	}

	return loans, nil
}

func decimalPtr(v decimal.NullDecimal) *decimal.Decimal {
	if !v.Valid {
		return nil
	}
	d := v.Decimal
	return &d
}
