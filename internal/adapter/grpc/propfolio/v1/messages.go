package propfoliov1

import (
	"encoding/json"

	"google.golang.org/protobuf/types/known/timestamppb"
)

// Decimal amounts are carried as strings so no precision is lost in transit.
// Ratios are decimal fractions; a nil ratio means the value is undefined
// (its denominator was zero).

type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Metrics struct {
	PropertyId      string                 `json:"property_id"`
	SnapshotVersion int64                  `json:"snapshot_version"`
	ComputedAt      *timestamppb.Timestamp `json:"computed_at,omitempty"`

	GrossRentalIncome      string `json:"gross_rental_income"`
	VacancyLoss            string `json:"vacancy_loss"`
	OtherIncome            string `json:"other_income"`
	EffectiveGrossIncome   string `json:"effective_gross_income"`
	ItemizedExpenses       string `json:"itemized_expenses"`
	ManagementFee          string `json:"management_fee"`
	TotalOperatingExpenses string `json:"total_operating_expenses"`
	NetOperatingIncome     string `json:"net_operating_income"`

	MonthlyDebtService string `json:"monthly_debt_service"`
	AnnualDebtService  string `json:"annual_debt_service"`
	ActiveLoanId       string `json:"active_loan_id,omitempty"`
	OutstandingDebt    string `json:"outstanding_debt"`
	CashFlow           string `json:"cash_flow"`

	Arv                  string `json:"arv"`
	ArvBasis             string `json:"arv_basis"`
	DownPayment          string `json:"down_payment"`
	TotalInvestedCapital string `json:"total_invested_capital"`

	CapRate            *string `json:"cap_rate"`
	PurchaseCapRate    *string `json:"purchase_cap_rate"`
	CashOnCashReturn   *string `json:"cash_on_cash_return"`
	Dscr               *string `json:"dscr"`
	LoanToValue        *string `json:"loan_to_value"`
	DebtYield          *string `json:"debt_yield"`
	BreakEvenOccupancy *string `json:"break_even_occupancy"`
	EquityMultiple     *string `json:"equity_multiple"`

	Warnings []*Warning `json:"warnings,omitempty"`
}

type GetMetricsRequest struct {
	PropertyId string `json:"property_id"`
}

type GetMetricsResponse struct {
	Metrics *Metrics `json:"metrics"`
	Cached  bool     `json:"cached"`
}

type BatchGetMetricsRequest struct {
	// Empty means every property
	PropertyIds []string `json:"property_ids"`
}

type BatchResult struct {
	PropertyId string   `json:"property_id"`
	Metrics    *Metrics `json:"metrics,omitempty"`
	Cached     bool     `json:"cached"`
	Error      string   `json:"error,omitempty"`
}

type BatchGetMetricsResponse struct {
	Results []*BatchResult `json:"results"`
}

type CalculateMetricsRequest struct {
	// Snapshot is a JSON-encoded property snapshot
	Snapshot json.RawMessage `json:"snapshot"`
}

type CalculateMetricsResponse struct {
	Metrics *Metrics `json:"metrics"`
}

type InvalidateMetricsRequest struct {
	PropertyId string `json:"property_id"`
}

type InvalidateMetricsResponse struct{}

type ListMetricsHistoryRequest struct {
	PropertyId string `json:"property_id"`
	Limit      int32  `json:"limit"`
}

type MetricsHistoryEntry struct {
	Id                 string                 `json:"id"`
	PropertyId         string                 `json:"property_id"`
	SnapshotVersion    int64                  `json:"snapshot_version"`
	ComputedAt         *timestamppb.Timestamp `json:"computed_at,omitempty"`
	NetOperatingIncome string                 `json:"net_operating_income"`
	CashFlow           string                 `json:"cash_flow"`
	Arv                string                 `json:"arv"`
	CapRate            *string                `json:"cap_rate"`
	CashOnCashReturn   *string                `json:"cash_on_cash_return"`
	Dscr               *string                `json:"dscr"`
	EquityMultiple     *string                `json:"equity_multiple"`
}

type ListMetricsHistoryResponse struct {
	Entries []*MetricsHistoryEntry `json:"entries"`
}
