package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PropertyStatus represents where a property is in its ownership lifecycle
type PropertyStatus string

const (
	PropertyStatusActive        PropertyStatus = "ACTIVE"
	PropertyStatusUnderContract PropertyStatus = "UNDER_CONTRACT"
	PropertyStatusSold          PropertyStatus = "SOLD"
)

// Property represents a property record in the domain layer
type Property struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Status        PropertyStatus  `json:"status"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	RehabCost     decimal.Decimal `json:"rehab_cost"` // Used only when the property has no rehab budget items

	// Set once the property is sold
	SalePrice   *decimal.Decimal `json:"sale_price,omitempty"`
	YearsHeld   *int             `json:"years_held,omitempty"`
	TotalProfit *decimal.Decimal `json:"total_profit,omitempty"` // Realized profit recorded at sale

	// InitialCapitalRequired overrides the computed total invested capital when known
	InitialCapitalRequired *decimal.Decimal `json:"initial_capital_required,omitempty"`

	// CashFlowCollected is the cumulative cash flow distributed to date
	CashFlowCollected decimal.Decimal `json:"cash_flow_collected"`

	// Version is bumped by every write to the property or any of its children
	Version int64 `json:"version"`
}

// IsSold reports whether the property status is SOLD
func (p *Property) IsSold() bool {
	return p.Status == PropertyStatusSold
}

// Validate ensures the property adheres to domain rules
func (p *Property) Validate() error {
	switch p.Status {
	case PropertyStatusActive, PropertyStatusUnderContract, PropertyStatusSold:
	default:
		return invalidInput("property.status", "must be ACTIVE, UNDER_CONTRACT, or SOLD")
	}

	if err := requireNonNegative("property.purchase_price", p.PurchasePrice); err != nil {
		return err
	}
	if err := requireNonNegative("property.rehab_cost", p.RehabCost); err != nil {
		return err
	}
	if err := requireNonNegative("property.cash_flow_collected", p.CashFlowCollected); err != nil {
		return err
	}
	if p.InitialCapitalRequired != nil {
		if err := requireNonNegative("property.initial_capital_required", *p.InitialCapitalRequired); err != nil {
			return err
		}
	}

	if p.IsSold() {
		if p.SalePrice == nil {
			return invalidInput("property.sale_price", "is required when status is SOLD")
		}
		if err := requireNonNegative("property.sale_price", *p.SalePrice); err != nil {
			return err
		}
		if p.YearsHeld != nil && *p.YearsHeld < 0 {
			return invalidInput("property.years_held", "must not be negative")
		}
	}

	return nil
}
