package metrics

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/propfolio-backend/internal/domain"
)

var (
	monthsPerYear = decimal.NewFromInt(12)
	one           = decimal.NewFromInt(1)
)

// IncomeBreakdown holds the annual income figures of a property
type IncomeBreakdown struct {
	GrossRentalIncome    decimal.Decimal
	VacancyLoss          decimal.Decimal
	OtherIncomeAnnual    decimal.Decimal
	EffectiveGrossIncome decimal.Decimal
}

// ComputeIncome derives annual income from the rent roll and other income items
// Logic:
//  1. Each unit contributes its active monthly rent × 12 to gross rental income
//  2. Vacancy loss = gross rental income × vacancy rate (rental income only)
//  3. EGI = gross rental income − vacancy loss + other income
//
// An empty rent roll yields zero rental income, which is valid for a property
// still in data entry.
func ComputeIncome(
	rentRoll []domain.RentRollUnit,
	unitTypes []domain.UnitType,
	otherIncome []domain.OtherIncomeItem,
	assumptions domain.Assumptions,
) IncomeBreakdown {
	typesByID := make(map[uuid.UUID]*domain.UnitType, len(unitTypes))
	for i := range unitTypes {
		typesByID[unitTypes[i].ID] = &unitTypes[i]
	}

	monthlyRent := decimal.Zero
	for i := range rentRoll {
		unit := &rentRoll[i]
		var unitType *domain.UnitType
		if unit.UnitTypeID != nil {
			unitType = typesByID[*unit.UnitTypeID]
		}
		monthlyRent = monthlyRent.Add(unit.ActiveRent(unitType))
	}
	gross := monthlyRent.Mul(monthsPerYear)

	other := decimal.Zero
	for _, item := range otherIncome {
		other = other.Add(item.AnnualAmount)
	}

	vacancyLoss := gross.Mul(assumptions.VacancyRate)

	return IncomeBreakdown{
		GrossRentalIncome:    gross,
		VacancyLoss:          vacancyLoss,
		OtherIncomeAnnual:    other,
		EffectiveGrossIncome: gross.Sub(vacancyLoss).Add(other),
	}
}
