package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ARVBasis records how the after-repair value was derived
type ARVBasis string

const (
	ARVBasisSalePrice     ARVBasis = "SALE_PRICE"
	ARVBasisIncome        ARVBasis = "INCOME"
	ARVBasisPurchasePrice ARVBasis = "PURCHASE_PRICE"
)

// DefaultRatioStorageLimit bounds ratios before they reach a NUMERIC(6,4) column (999.99%)
var DefaultRatioStorageLimit = decimal.RequireFromString("9.9999")

// MaxRatioStorageLimit is the largest value a NUMERIC(6,4) column holds
var MaxRatioStorageLimit = decimal.RequireFromString("99.9999")

// MetricsResult is the derived, non-persisted output of the metrics engine.
// Currency fields are annual unless named otherwise. Every ratio is a decimal
// fraction (0.08 means 8%); multiplying by 100 is left to presentation.
type MetricsResult struct {
	PropertyID      uuid.UUID `json:"property_id"`
	SnapshotVersion int64     `json:"snapshot_version"`
	ComputedAt      time.Time `json:"computed_at"`

	GrossRentalIncome    decimal.Decimal `json:"gross_rental_income"`
	VacancyLoss          decimal.Decimal `json:"vacancy_loss"`
	OtherIncome          decimal.Decimal `json:"other_income"`
	EffectiveGrossIncome decimal.Decimal `json:"effective_gross_income"`

	ItemizedExpenses       decimal.Decimal `json:"itemized_expenses"`
	ManagementFee          decimal.Decimal `json:"management_fee"`
	TotalOperatingExpenses decimal.Decimal `json:"total_operating_expenses"`
	NetOperatingIncome     decimal.Decimal `json:"net_operating_income"`

	MonthlyDebtService decimal.Decimal `json:"monthly_debt_service"`
	AnnualDebtService  decimal.Decimal `json:"annual_debt_service"`
	ActiveLoanID       *uuid.UUID      `json:"active_loan_id,omitempty"`
	OutstandingDebt    decimal.Decimal `json:"outstanding_debt"`
	CashFlow           decimal.Decimal `json:"cash_flow"`

	ARV                  decimal.Decimal `json:"arv"`
	ARVBasis             ARVBasis        `json:"arv_basis"`
	DownPayment          decimal.Decimal `json:"down_payment"`
	TotalInvestedCapital decimal.Decimal `json:"total_invested_capital"`

	CapRate            Ratio `json:"cap_rate"`
	PurchaseCapRate    Ratio `json:"purchase_cap_rate"`
	CashOnCashReturn   Ratio `json:"cash_on_cash_return"`
	DSCR               Ratio `json:"dscr"`
	LoanToValue        Ratio `json:"loan_to_value"`
	DebtYield          Ratio `json:"debt_yield"`
	BreakEvenOccupancy Ratio `json:"break_even_occupancy"`
	EquityMultiple     Ratio `json:"equity_multiple"`

	Warnings []Warning `json:"warnings,omitempty"`
}

type namedRatio struct {
	name  string
	ratio *Ratio
}

func (m *MetricsResult) ratios() []namedRatio {
	return []namedRatio{
		{"cap_rate", &m.CapRate},
		{"purchase_cap_rate", &m.PurchaseCapRate},
		{"cash_on_cash_return", &m.CashOnCashReturn},
		{"dscr", &m.DSCR},
		{"loan_to_value", &m.LoanToValue},
		{"debt_yield", &m.DebtYield},
		{"break_even_occupancy", &m.BreakEvenOccupancy},
		{"equity_multiple", &m.EquityMultiple},
	}
}

// ForStorage returns a copy whose ratios are clamped to [-limit, limit], along
// with the names of the clamped fields. The receiver is left untouched so the
// caller keeps the unclamped values for diagnostics.
func (m *MetricsResult) ForStorage(limit decimal.Decimal) (*MetricsResult, []string) {
	stored := *m
	stored.Warnings = append([]Warning(nil), m.Warnings...)

	var clamped []string
	for _, r := range stored.ratios() {
		c, changed := r.ratio.Clamp(limit)
		if !changed {
			continue
		}
		*r.ratio = c
		clamped = append(clamped, r.name)
		stored.Warnings = append(stored.Warnings, Warning{
			Code:    WarningRatioClamped,
			Message: fmt.Sprintf("%s clamped to %s for storage", r.name, c.String()),
		})
	}
	return &stored, clamped
}

// CacheKey identifies a metrics result by property and snapshot version
type CacheKey struct {
	PropertyID uuid.UUID
	Version    int64
}

func (k CacheKey) String() string {
	return fmt.Sprintf("%s@%d", k.PropertyID, k.Version)
}

// MetricsHistoryEntry is one appended point of a property's metrics trend
type MetricsHistoryEntry struct {
	ID                 uuid.UUID       `json:"id"`
	PropertyID         uuid.UUID       `json:"property_id"`
	SnapshotVersion    int64           `json:"snapshot_version"`
	ComputedAt         time.Time       `json:"computed_at"`
	NetOperatingIncome decimal.Decimal `json:"net_operating_income"`
	CashFlow           decimal.Decimal `json:"cash_flow"`
	ARV                decimal.Decimal `json:"arv"`
	CapRate            Ratio           `json:"cap_rate"`
	CashOnCashReturn   Ratio           `json:"cash_on_cash_return"`
	DSCR               Ratio           `json:"dscr"`
	EquityMultiple     Ratio           `json:"equity_multiple"`
}

// NewMetricsHistoryEntry builds a history point from a storage-clamped result
func NewMetricsHistoryEntry(result *MetricsResult) *MetricsHistoryEntry {
	return &MetricsHistoryEntry{
		ID:                 uuid.New(),
		PropertyID:         result.PropertyID,
		SnapshotVersion:    result.SnapshotVersion,
		ComputedAt:         result.ComputedAt,
		NetOperatingIncome: result.NetOperatingIncome,
		CashFlow:           result.CashFlow,
		ARV:                result.ARV,
		CapRate:            result.CapRate,
		CashOnCashReturn:   result.CashOnCashReturn,
		DSCR:               result.DSCR,
		EquityMultiple:     result.EquityMultiple,
	}
}
