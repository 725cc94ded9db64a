package metrics

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/simaogato/propfolio-backend/internal/domain"
)

// ExpenseBreakdown holds the annual operating expenses of a property
type ExpenseBreakdown struct {
	Itemized               decimal.Decimal
	ManagementFee          decimal.Decimal
	TotalOperatingExpenses decimal.Decimal
}

// ComputeExpenses derives annual operating expenses
// Logic:
//   - FIXED items contribute their annual amount
//   - PERCENTAGE items contribute fraction × EGI
//   - The management fee (rate × EGI) is always added on top of itemized expenses
//
// Negative amounts and fractions outside [0,1] are rejected, not summed.
func ComputeExpenses(items []domain.ExpenseItem, effectiveGrossIncome decimal.Decimal, assumptions domain.Assumptions) (ExpenseBreakdown, error) {
	itemized := decimal.Zero
	for i, item := range items {
		if item.Charge == nil {
			return ExpenseBreakdown{}, &domain.InvalidInputError{
				Field:  fmt.Sprintf("expenses[%d].kind", i),
				Reason: "must be FIXED or PERCENTAGE",
			}
		}

		if pct, ok := item.Charge.(domain.PercentageExpense); ok && pct.PercentOfEGI.GreaterThan(one) {
			return ExpenseBreakdown{}, &domain.InvalidInputError{
				Field:  fmt.Sprintf("expenses[%d].percent_of_egi", i),
				Reason: fmt.Sprintf("must be a fraction between 0 and 1, got %s", pct.PercentOfEGI),
			}
		}

		amount := item.Charge.Annual(effectiveGrossIncome)
		if amount.IsNegative() {
			return ExpenseBreakdown{}, &domain.InvalidInputError{
				Field:  fmt.Sprintf("expenses[%d]", i),
				Reason: fmt.Sprintf("%q resolves to a negative amount %s", item.Name, amount),
			}
		}
		itemized = itemized.Add(amount)
	}

	fee := effectiveGrossIncome.Mul(assumptions.ManagementFeeRate)

	return ExpenseBreakdown{
		Itemized:               itemized,
		ManagementFee:          fee,
		TotalOperatingExpenses: itemized.Add(fee),
	}, nil
}
