// Package report renders a metrics result for people.
//
// Engine ratios are stored as fractions; this is the only place they are
// multiplied by 100.
package report

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/simaogato/propfolio-backend/internal/domain"
)

// NotAvailable is printed for undefined ratios
const NotAvailable = "N/A"

var hundred = decimal.NewFromInt(100)

// Amount formats a value in the major unit of the currency, e.g. $1,234.56
func Amount(value decimal.Decimal, cur *money.Currency) string {
	minor := value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// Percent formats a fractional ratio as a percentage with two decimals
func Percent(r domain.Ratio) string {
	v, ok := r.Value()
	if !ok {
		return NotAvailable
	}
	return v.Mul(hundred).StringFixed(2) + "%"
}

// Multiple formats a ratio that reads as a multiple, e.g. 1.25x
func Multiple(r domain.Ratio) string {
	v, ok := r.Value()
	if !ok {
		return NotAvailable
	}
	return v.StringFixed(2) + "x"
}

type line struct {
	label string
	value string
}

// Format renders the result as an aligned two-column text block.
// currency is an ISO 4217 code known to go-money.
func Format(result *domain.MetricsResult, currency string) (string, error) {
	cur := money.GetCurrency(strings.ToUpper(currency))
	if cur == nil {
		return "", fmt.Errorf("unknown currency %q", currency)
	}
	amount := func(v decimal.Decimal) string { return Amount(v, cur) }

	lines := []line{
		{"Gross rental income", amount(result.GrossRentalIncome)},
		{"Vacancy loss", amount(result.VacancyLoss)},
		{"Other income", amount(result.OtherIncome)},
		{"Effective gross income", amount(result.EffectiveGrossIncome)},
		{"Operating expenses", amount(result.TotalOperatingExpenses)},
		{"Net operating income", amount(result.NetOperatingIncome)},
		{"Annual debt service", amount(result.AnnualDebtService)},
		{"Cash flow", amount(result.CashFlow)},
		{"After-repair value", fmt.Sprintf("%s (%s)", amount(result.ARV), result.ARVBasis)},
		{"Total invested capital", amount(result.TotalInvestedCapital)},
		{"Cap rate", Percent(result.CapRate)},
		{"Purchase cap rate", Percent(result.PurchaseCapRate)},
		{"Cash-on-cash return", Percent(result.CashOnCashReturn)},
		{"DSCR", Multiple(result.DSCR)},
		{"Loan to value", Percent(result.LoanToValue)},
		{"Debt yield", Percent(result.DebtYield)},
		{"Break-even occupancy", Percent(result.BreakEvenOccupancy)},
		{"Equity multiple", Multiple(result.EquityMultiple)},
	}

	width := 0
	for _, l := range lines {
		width = max(width, len(l.label))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Property %s (version %d)\n", result.PropertyID, result.SnapshotVersion)
	for _, l := range lines {
		fmt.Fprintf(&b, "  %-*s  %s\n", width, l.label, l.value)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(&b, "  warning: %s: %s\n", w.Code, w.Message)
	}
	return b.String(), nil
}
