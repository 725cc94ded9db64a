package metrics

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/propfolio-backend/internal/domain"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimalInDelta(t *testing.T, expected float64, actual decimal.Decimal, delta float64, msgAndArgs ...interface{}) {
	t.Helper()
	f, _ := actual.Float64()
	assert.InDelta(t, expected, f, delta, msgAndArgs...)
}

func assertRatioInDelta(t *testing.T, expected float64, actual domain.Ratio, delta float64, msgAndArgs ...interface{}) {
	t.Helper()
	v, ok := actual.Value()
	require.True(t, ok, "ratio should be defined")
	assertDecimalInDelta(t, expected, v, delta, msgAndArgs...)
}

func occupiedUnits(n int, rent decimal.Decimal) []domain.RentRollUnit {
	units := make([]domain.RentRollUnit, 0, n)
	for i := 0; i < n; i++ {
		units = append(units, domain.RentRollUnit{
			ID:          uuid.New(),
			IsOccupied:  true,
			CurrentRent: rent,
		})
	}
	return units
}

// fourplexSnapshot is the reference scenario: four occupied units at $1,000,
// one $12,000 fixed expense and a $300,000 30-year loan at 6%.
func fourplexSnapshot() *domain.PropertySnapshot {
	propertyID := uuid.New()
	assumptions := domain.DefaultAssumptions(propertyID)

	return &domain.PropertySnapshot{
		Property: &domain.Property{
			ID:            propertyID,
			Name:          "Elm Street Fourplex",
			Status:        domain.PropertyStatusActive,
			PurchasePrice: decimal.NewFromInt(400000),
			Version:       7,
		},
		RentRoll: occupiedUnits(4, decimal.NewFromInt(1000)),
		Expenses: []domain.ExpenseItem{
			{ID: uuid.New(), Name: "Taxes and insurance", Charge: domain.FixedExpense{AnnualAmount: decimal.NewFromInt(12000)}},
		},
		Loans: []domain.Loan{
			{
				ID:             uuid.New(),
				Principal:      decimal.NewFromInt(300000),
				InterestRate:   d("0.06"),
				TermYears:      30,
				PaymentType:    domain.PaymentTypeAmortizing,
				IsActive:       true,
				CurrentBalance: decimal.NewFromInt(300000),
			},
		},
		Assumptions: &assumptions,
	}
}
