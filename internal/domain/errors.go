package domain

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MissingPropertyError is returned when a snapshot has no property record
// or the storage layer has no property with the requested ID
type MissingPropertyError struct {
	PropertyID uuid.UUID
}

func (e *MissingPropertyError) Error() string {
	if e.PropertyID == uuid.Nil {
		return "property not found: snapshot has no property record"
	}
	return fmt.Sprintf("property not found: %s", e.PropertyID)
}

// InvalidInputError is returned when a numeric field holds a value the engine
// refuses to compute with. Field is the path of the offending field.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalidInput(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}

func requireNonNegative(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return invalidInput(field, fmt.Sprintf("must not be negative, got %s", v.String()))
	}
	return nil
}

var one = decimal.NewFromInt(1)

func requireFraction(field string, v decimal.Decimal) error {
	if v.IsNegative() || v.GreaterThan(one) {
		return invalidInput(field, fmt.Sprintf("must be a fraction between 0 and 1, got %s", v.String()))
	}
	return nil
}

// WarningCode identifies a non-fatal condition attached to a metrics result
type WarningCode string

const (
	WarningAmbiguousLoanSelection WarningCode = "AMBIGUOUS_LOAN_SELECTION"
	WarningMultipleActiveLoans    WarningCode = "MULTIPLE_ACTIVE_LOANS"
	WarningMissingRealizedProfit  WarningCode = "MISSING_REALIZED_PROFIT"
	WarningRatioClamped           WarningCode = "RATIO_CLAMPED"
)

// Warning is carried alongside a successful result, never instead of one
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}
