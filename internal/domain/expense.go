package domain

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseKind identifies how an expense item is charged
type ExpenseKind string

const (
	ExpenseKindFixed      ExpenseKind = "FIXED"
	ExpenseKindPercentage ExpenseKind = "PERCENTAGE"
)

// ExpenseCharge is the charge of an operating expense item.
// It is either a FixedExpense or a PercentageExpense.
type ExpenseCharge interface {
	Kind() ExpenseKind
	// Annual returns the annual amount given effective gross income
	Annual(effectiveGrossIncome decimal.Decimal) decimal.Decimal
}

// FixedExpense is a fixed annual amount
type FixedExpense struct {
	AnnualAmount decimal.Decimal
}

func (FixedExpense) Kind() ExpenseKind { return ExpenseKindFixed }

func (f FixedExpense) Annual(decimal.Decimal) decimal.Decimal { return f.AnnualAmount }

// PercentageExpense is a share of effective gross income, as a fraction in [0,1]
type PercentageExpense struct {
	PercentOfEGI decimal.Decimal
}

func (PercentageExpense) Kind() ExpenseKind { return ExpenseKindPercentage }

func (p PercentageExpense) Annual(effectiveGrossIncome decimal.Decimal) decimal.Decimal {
	return effectiveGrossIncome.Mul(p.PercentOfEGI)
}

// ExpenseItem represents a named operating expense
type ExpenseItem struct {
	ID     uuid.UUID
	Name   string
	Charge ExpenseCharge
}

func (e *ExpenseItem) validate(i int) error {
	switch c := e.Charge.(type) {
	case FixedExpense:
		return requireNonNegative(fmt.Sprintf("expenses[%d].annual_amount", i), c.AnnualAmount)
	case PercentageExpense:
		return requireFraction(fmt.Sprintf("expenses[%d].percent_of_egi", i), c.PercentOfEGI)
	default:
		return invalidInput(fmt.Sprintf("expenses[%d].kind", i), "must be FIXED or PERCENTAGE")
	}
}

type expenseItemJSON struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	Kind         ExpenseKind      `json:"kind"`
	AnnualAmount *decimal.Decimal `json:"annual_amount,omitempty"`
	PercentOfEGI *decimal.Decimal `json:"percent_of_egi,omitempty"`
}

// MarshalJSON encodes the item with an explicit kind tag
func (e ExpenseItem) MarshalJSON() ([]byte, error) {
	out := expenseItemJSON{ID: e.ID, Name: e.Name}
	switch c := e.Charge.(type) {
	case FixedExpense:
		out.Kind = ExpenseKindFixed
		out.AnnualAmount = &c.AnnualAmount
	case PercentageExpense:
		out.Kind = ExpenseKindPercentage
		out.PercentOfEGI = &c.PercentOfEGI
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a kind-tagged item. The amount field must match the kind.
func (e *ExpenseItem) UnmarshalJSON(data []byte) error {
	var in expenseItemJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	e.ID = in.ID
	e.Name = in.Name
	switch in.Kind {
	case ExpenseKindFixed:
		if in.AnnualAmount == nil {
			return fmt.Errorf("expense %q: FIXED expense requires annual_amount", in.Name)
		}
		e.Charge = FixedExpense{AnnualAmount: *in.AnnualAmount}
	case ExpenseKindPercentage:
		if in.PercentOfEGI == nil {
			return fmt.Errorf("expense %q: PERCENTAGE expense requires percent_of_egi", in.Name)
		}
		e.Charge = PercentageExpense{PercentOfEGI: *in.PercentOfEGI}
	default:
		return fmt.Errorf("expense %q: invalid kind %q", in.Name, in.Kind)
	}
	return nil
}
