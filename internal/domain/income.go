package domain

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OtherIncomeItem is a named recurring income source (laundry, parking, storage)
type OtherIncomeItem struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	AnnualAmount decimal.Decimal `json:"annual_amount"`
}

// CostItem is a named one-time cost: a rehab budget line, a closing cost or a holding cost
type CostItem struct {
	ID     uuid.UUID       `json:"id"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// SumCosts returns the total amount of the given cost items
func SumCosts(items []CostItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return total
}

func validateCostItems(field string, items []CostItem) error {
	for i, item := range items {
		if err := requireNonNegative(fmt.Sprintf("%s[%d].amount", field, i), item.Amount); err != nil {
			return err
		}
	}
	return nil
}
