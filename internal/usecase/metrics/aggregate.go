package metrics

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/propfolio-backend/internal/domain"
)

// Aggregate combines the calculator outputs into the full metrics record
// Logic:
//   - NOI = EGI − total operating expenses
//   - Cash flow = NOI − annual debt service
//   - Cap rate = NOI / ARV; purchase cap rate = NOI / purchase price
//   - Cash-on-cash = cash flow / total invested capital
//   - DSCR = NOI / annual debt service
//   - LTV = active loan balance / ARV; debt yield = NOI / active loan balance
//   - Break-even occupancy = (expenses + debt service) / gross rental income
//   - Equity multiple: see equityMultiple
//
// Every ratio with a zero denominator is the undefined sentinel. Ratios stay
// decimal fractions; nothing here multiplies by 100.
func Aggregate(
	income IncomeBreakdown,
	expenses ExpenseBreakdown,
	debt DebtService,
	valuation Valuation,
	property *domain.Property,
) domain.MetricsResult {
	noi := income.EffectiveGrossIncome.Sub(expenses.TotalOperatingExpenses)
	cashFlow := noi.Sub(debt.AnnualDebtService)

	outstanding := decimal.Zero
	if debt.ActiveLoan != nil {
		outstanding = debt.ActiveLoan.CurrentBalance
	}

	result := domain.MetricsResult{
		PropertyID:      property.ID,
		SnapshotVersion: property.Version,

		GrossRentalIncome:    income.GrossRentalIncome,
		VacancyLoss:          income.VacancyLoss,
		OtherIncome:          income.OtherIncomeAnnual,
		EffectiveGrossIncome: income.EffectiveGrossIncome,

		ItemizedExpenses:       expenses.Itemized,
		ManagementFee:          expenses.ManagementFee,
		TotalOperatingExpenses: expenses.TotalOperatingExpenses,
		NetOperatingIncome:     noi,

		MonthlyDebtService: debt.MonthlyPayment,
		AnnualDebtService:  debt.AnnualDebtService,
		OutstandingDebt:    outstanding,
		CashFlow:           cashFlow,

		ARV:                  valuation.ARV,
		ARVBasis:             valuation.Basis,
		DownPayment:          valuation.DownPayment,
		TotalInvestedCapital: valuation.TotalInvestedCapital,

		CapRate:            domain.Divide(noi, valuation.ARV),
		PurchaseCapRate:    domain.Divide(noi, property.PurchasePrice),
		CashOnCashReturn:   domain.Divide(cashFlow, valuation.TotalInvestedCapital),
		DSCR:               domain.Divide(noi, debt.AnnualDebtService),
		LoanToValue:        domain.Divide(outstanding, valuation.ARV),
		DebtYield:          domain.Divide(noi, outstanding),
		BreakEvenOccupancy: domain.Divide(expenses.TotalOperatingExpenses.Add(debt.AnnualDebtService), income.GrossRentalIncome),
	}

	if debt.ActiveLoan != nil {
		id := debt.ActiveLoan.ID
		result.ActiveLoanID = &id
	}
	result.Warnings = append(result.Warnings, debt.Warnings...)

	multiple, warning := equityMultiple(property, valuation, outstanding)
	result.EquityMultiple = multiple
	if warning != nil {
		result.Warnings = append(result.Warnings, *warning)
	}

	return result
}

// equityMultiple branches on property status
//   - SOLD: realized total profit / initial capital (the override, else total invested capital)
//   - otherwise: (ARV − outstanding debt + cash flow collected to date) / total invested capital
func equityMultiple(property *domain.Property, valuation Valuation, outstandingDebt decimal.Decimal) (domain.Ratio, *domain.Warning) {
	if property.IsSold() {
		if property.TotalProfit == nil {
			return domain.UndefinedRatio(), &domain.Warning{
				Code:    domain.WarningMissingRealizedProfit,
				Message: "property is sold but no realized profit was recorded; equity multiple is undefined",
			}
		}
		capital := valuation.TotalInvestedCapital
		if property.InitialCapitalRequired != nil && property.InitialCapitalRequired.IsPositive() {
			capital = *property.InitialCapitalRequired
		}
		return domain.Divide(*property.TotalProfit, capital), nil
	}

	equity := valuation.ARV.Sub(outstandingDebt).Add(property.CashFlowCollected)
	return domain.Divide(equity, valuation.TotalInvestedCapital), nil
}
