package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Default assumption values, applied when a property is evaluated for the first time
var (
	DefaultVacancyRate       = decimal.RequireFromString("0.05")
	DefaultManagementFeeRate = decimal.RequireFromString("0.08")
	DefaultMarketCapRate     = decimal.RequireFromString("0.055")
	DefaultLoanToCostRate    = decimal.RequireFromString("0.75")
)

const (
	DefaultHoldPeriodYears = 5
	DefaultRehabFinanced   = true
)

// Assumptions holds the per-property underwriting overrides
// Every rate is a decimal fraction in [0,1].
type Assumptions struct {
	PropertyID        uuid.UUID       `json:"property_id"`
	VacancyRate       decimal.Decimal `json:"vacancy_rate"`
	ManagementFeeRate decimal.Decimal `json:"management_fee_rate"`
	MarketCapRate     decimal.Decimal `json:"market_cap_rate"`
	LoanToCostRate    decimal.Decimal `json:"loan_to_cost_rate"`
	HoldPeriodYears   int             `json:"hold_period_years"`

	// RehabFinanced excludes rehab cost from invested capital when the rehab
	// is funded by the acquisition loan
	RehabFinanced bool `json:"rehab_financed"`
}

// DefaultAssumptions returns the assumptions a property gets on first evaluation
func DefaultAssumptions(propertyID uuid.UUID) Assumptions {
	return Assumptions{
		PropertyID:        propertyID,
		VacancyRate:       DefaultVacancyRate,
		ManagementFeeRate: DefaultManagementFeeRate,
		MarketCapRate:     DefaultMarketCapRate,
		LoanToCostRate:    DefaultLoanToCostRate,
		HoldPeriodYears:   DefaultHoldPeriodYears,
		RehabFinanced:     DefaultRehabFinanced,
	}
}

// Validate ensures every rate is a fraction and the hold period is positive
func (a *Assumptions) Validate() error {
	if err := requireFraction("assumptions.vacancy_rate", a.VacancyRate); err != nil {
		return err
	}
	if err := requireFraction("assumptions.management_fee_rate", a.ManagementFeeRate); err != nil {
		return err
	}
	if err := requireFraction("assumptions.market_cap_rate", a.MarketCapRate); err != nil {
		return err
	}
	if err := requireFraction("assumptions.loan_to_cost_rate", a.LoanToCostRate); err != nil {
		return err
	}
	if a.HoldPeriodYears <= 0 {
		return invalidInput("assumptions.hold_period_years", "must be positive")
	}
	return nil
}
