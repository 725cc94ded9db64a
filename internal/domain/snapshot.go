package domain

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PropertySnapshot is the read-only aggregate handed to the metrics engine.
// All entities must be read at a single consistent point by the storage layer.
type PropertySnapshot struct {
	Property     *Property         `json:"property"`
	UnitTypes    []UnitType        `json:"unit_types"`
	RentRoll     []RentRollUnit    `json:"rent_roll"`
	OtherIncome  []OtherIncomeItem `json:"other_income"`
	Expenses     []ExpenseItem     `json:"expenses"`
	RehabItems   []CostItem        `json:"rehab_items"`
	ClosingCosts []CostItem        `json:"closing_costs"`
	HoldingCosts []CostItem        `json:"holding_costs"`
	Loans        []Loan            `json:"loans"`
	Assumptions  *Assumptions      `json:"assumptions,omitempty"` // nil means defaults
}

// EffectiveAssumptions returns the snapshot assumptions, or the defaults when none were supplied
func (s *PropertySnapshot) EffectiveAssumptions() Assumptions {
	if s.Assumptions != nil {
		return *s.Assumptions
	}
	if s.Property != nil {
		return DefaultAssumptions(s.Property.ID)
	}
	return DefaultAssumptions(uuid.Nil)
}

// RehabTotal returns the summed rehab budget, or the property's rehab cost when no budget items exist
func (s *PropertySnapshot) RehabTotal() decimal.Decimal {
	if len(s.RehabItems) > 0 {
		return SumCosts(s.RehabItems)
	}
	if s.Property != nil {
		return s.Property.RehabCost
	}
	return decimal.Zero
}

// Validate checks every numeric field of the snapshot.
// Returns *MissingPropertyError when there is no property record and
// *InvalidInputError naming the first offending field otherwise.
func (s *PropertySnapshot) Validate() error {
	if s.Property == nil {
		return &MissingPropertyError{}
	}
	if err := s.Property.Validate(); err != nil {
		return err
	}

	for i, ut := range s.UnitTypes {
		if err := requireNonNegative(fmt.Sprintf("unit_types[%d].market_rent", i), ut.MarketRent); err != nil {
			return err
		}
	}
	for i := range s.RentRoll {
		if err := s.RentRoll[i].validate(i); err != nil {
			return err
		}
	}
	for i, item := range s.OtherIncome {
		if err := requireNonNegative(fmt.Sprintf("other_income[%d].annual_amount", i), item.AnnualAmount); err != nil {
			return err
		}
	}
	for i := range s.Expenses {
		if err := s.Expenses[i].validate(i); err != nil {
			return err
		}
	}
	if err := validateCostItems("rehab_items", s.RehabItems); err != nil {
		return err
	}
	if err := validateCostItems("closing_costs", s.ClosingCosts); err != nil {
		return err
	}
	if err := validateCostItems("holding_costs", s.HoldingCosts); err != nil {
		return err
	}
	for i := range s.Loans {
		if err := s.Loans[i].validate(i); err != nil {
			return err
		}
	}

	assumptions := s.EffectiveAssumptions()
	return assumptions.Validate()
}
