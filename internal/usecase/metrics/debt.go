package metrics

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/simaogato/propfolio-backend/internal/domain"
)

// Digits kept after the decimal point while compounding
const compoundingPrecision = 28

// DebtService holds the payment on the loan selected for primary debt service
type DebtService struct {
	MonthlyPayment    decimal.Decimal
	AnnualDebtService decimal.Decimal
	ActiveLoan        *domain.Loan // nil for an all-cash acquisition
	Warnings          []domain.Warning
}

// ComputeDebtService derives debt service from the active loan.
// No loans means zero debt service, which is a valid all-cash acquisition.
func ComputeDebtService(loans []domain.Loan) DebtService {
	loan, warnings := SelectActiveLoan(loans)
	if loan == nil {
		return DebtService{
			MonthlyPayment:    decimal.Zero,
			AnnualDebtService: decimal.Zero,
		}
	}

	monthly := MonthlyPayment(*loan)
	return DebtService{
		MonthlyPayment:    monthly,
		AnnualDebtService: monthly.Mul(monthsPerYear),
		ActiveLoan:        loan,
		Warnings:          warnings,
	}
}

// SelectActiveLoan picks the loan used for primary debt service
// Logic:
//   - The first loan flagged active (warns if several are flagged)
//   - Otherwise the first loan in the list (warns if there was a choice)
//   - nil when there are no loans
func SelectActiveLoan(loans []domain.Loan) (*domain.Loan, []domain.Warning) {
	if len(loans) == 0 {
		return nil, nil
	}

	var active *domain.Loan
	flagged := 0
	for i := range loans {
		if !loans[i].IsActive {
			continue
		}
		flagged++
		if active == nil {
			active = &loans[i]
		}
	}

	switch {
	case flagged == 1:
		return active, nil
	case flagged > 1:
		return active, []domain.Warning{{
			Code:    domain.WarningMultipleActiveLoans,
			Message: fmt.Sprintf("%d loans are flagged active; using loan %s", flagged, active.ID),
		}}
	case len(loans) > 1:
		return &loans[0], []domain.Warning{{
			Code:    domain.WarningAmbiguousLoanSelection,
			Message: fmt.Sprintf("no loan is flagged active among %d loans; using the first loan %s", len(loans), loans[0].ID),
		}}
	default:
		return &loans[0], nil
	}
}

// MonthlyPayment computes the monthly payment from the original loan terms.
// The current balance never enters the payment.
// Logic:
//   - Interest-only: P × r
//   - Amortizing: P × r(1+r)^n / ((1+r)^n − 1), or P / n when r = 0
//
// where r = annual rate / 12 and n = term years × 12.
func MonthlyPayment(loan domain.Loan) decimal.Decimal {
	r := loan.InterestRate.Div(monthsPerYear)

	if loan.PaymentType == domain.PaymentTypeInterestOnly {
		return loan.Principal.Mul(r)
	}

	n := loan.TermYears * 12
	if n <= 0 {
		return decimal.Zero
	}
	if r.IsZero() {
		return loan.Principal.Div(decimal.NewFromInt(int64(n)))
	}

	growth := compound(one.Add(r), n)
	return loan.Principal.Mul(r).Mul(growth).Div(growth.Sub(one))
}

// compound raises base to a non-negative integer power by repeated squaring,
// rounding each step so the digit count stays bounded
func compound(base decimal.Decimal, n int) decimal.Decimal {
	result := one
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base).Round(compoundingPrecision)
		}
		n >>= 1
		if n > 0 {
			base = base.Mul(base).Round(compoundingPrecision)
		}
	}
	return result
}
