package domain

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentType represents how a loan is repaid
type PaymentType string

const (
	PaymentTypeAmortizing   PaymentType = "AMORTIZING"
	PaymentTypeInterestOnly PaymentType = "INTEREST_ONLY"
)

// Loan represents a financing record attached to a property
type Loan struct {
	ID             uuid.UUID       `json:"id"`
	Lender         string          `json:"lender,omitempty"`
	Principal      decimal.Decimal `json:"principal"`
	InterestRate   decimal.Decimal `json:"interest_rate"` // Annual, fraction in [0,1]
	TermYears      int             `json:"term_years"`    // Amortization term
	PaymentType    PaymentType     `json:"payment_type"`
	IsActive       bool            `json:"is_active"`
	CurrentBalance decimal.Decimal `json:"current_balance"` // Used for LTV and debt yield only, never for the payment
}

func (l *Loan) validate(i int) error {
	field := func(name string) string { return fmt.Sprintf("loans[%d].%s", i, name) }

	if err := requireNonNegative(field("principal"), l.Principal); err != nil {
		return err
	}
	if err := requireNonNegative(field("current_balance"), l.CurrentBalance); err != nil {
		return err
	}
	if err := requireFraction(field("interest_rate"), l.InterestRate); err != nil {
		return err
	}

	switch l.PaymentType {
	case PaymentTypeAmortizing:
		// The amortization formula divides by the number of payments
		if l.TermYears <= 0 {
			return invalidInput(field("term_years"), "must be positive for an amortizing loan")
		}
	case PaymentTypeInterestOnly:
		if l.TermYears < 0 {
			return invalidInput(field("term_years"), "must not be negative")
		}
	default:
		return invalidInput(field("payment_type"), "must be AMORTIZING or INTEREST_ONLY")
	}

	return nil
}
