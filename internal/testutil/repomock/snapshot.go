package repomock

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/propfolio-backend/internal/domain"
)

// Fourplex returns a snapshot of a four-unit property: every unit occupied at
// $1,000/month, one $12,000 fixed expense and an active $300,000 30-year loan
// at 6%. Assumptions are left nil.
func Fourplex(propertyID uuid.UUID, version int64) *domain.PropertySnapshot {
	units := make([]domain.RentRollUnit, 0, 4)
	for _, number := range []string{"1A", "1B", "2A", "2B"} {
		units = append(units, domain.RentRollUnit{
			ID:          uuid.New(),
			UnitNumber:  number,
			IsOccupied:  true,
			CurrentRent: decimal.NewFromInt(1000),
		})
	}

	return &domain.PropertySnapshot{
		Property: &domain.Property{
			ID:            propertyID,
			Name:          "Elm Street Fourplex",
			Status:        domain.PropertyStatusActive,
			PurchasePrice: decimal.NewFromInt(400000),
			Version:       version,
		},
		RentRoll: units,
		Expenses: []domain.ExpenseItem{
			{ID: uuid.New(), Name: "Taxes and insurance", Charge: domain.FixedExpense{AnnualAmount: decimal.NewFromInt(12000)}},
		},
		Loans: []domain.Loan{
			{
				ID:             uuid.New(),
				Principal:      decimal.NewFromInt(300000),
				InterestRate:   decimal.RequireFromString("0.06"),
				TermYears:      30,
				PaymentType:    domain.PaymentTypeAmortizing,
				IsActive:       true,
				CurrentBalance: decimal.NewFromInt(300000),
			},
		},
	}
}

// Defaults returns the default assumptions of a property as a pointer
func Defaults(propertyID uuid.UUID) *domain.Assumptions {
	a := domain.DefaultAssumptions(propertyID)
	return &a
}
