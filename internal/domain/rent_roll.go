package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UnitType is a template for units sharing a bedroom/bath layout and a market rent
type UnitType struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Bedrooms   int             `json:"bedrooms"`
	Bathrooms  decimal.Decimal `json:"bathrooms"`
	MarketRent decimal.Decimal `json:"market_rent"` // Monthly
}

// RentRollUnit represents one physical unit on the rent roll
// All rent figures are monthly.
type RentRollUnit struct {
	ID           uuid.UUID       `json:"id"`
	UnitNumber   string          `json:"unit_number"`
	UnitTypeID   *uuid.UUID      `json:"unit_type_id,omitempty"`
	IsOccupied   bool            `json:"is_occupied"`
	CurrentRent  decimal.Decimal `json:"current_rent"`
	ProFormaRent decimal.Decimal `json:"pro_forma_rent"`
	TenantName   string          `json:"tenant_name,omitempty"`
	LeaseStart   *time.Time      `json:"lease_start,omitempty"`
	LeaseEnd     *time.Time      `json:"lease_end,omitempty"`
}

// ActiveRent returns the single rent figure in effect for the unit:
// current rent when occupied, pro-forma rent when vacant. A vacant unit with no
// pro-forma rent falls back to its unit type's market rent.
func (u *RentRollUnit) ActiveRent(unitType *UnitType) decimal.Decimal {
	if u.IsOccupied {
		return u.CurrentRent
	}
	if u.ProFormaRent.IsPositive() {
		return u.ProFormaRent
	}
	if unitType != nil {
		return unitType.MarketRent
	}
	return decimal.Zero
}

func (u *RentRollUnit) validate(i int) error {
	if err := requireNonNegative(fmt.Sprintf("rent_roll[%d].current_rent", i), u.CurrentRent); err != nil {
		return err
	}
	if err := requireNonNegative(fmt.Sprintf("rent_roll[%d].pro_forma_rent", i), u.ProFormaRent); err != nil {
		return err
	}
	if u.LeaseStart != nil && u.LeaseEnd != nil && u.LeaseEnd.Before(*u.LeaseStart) {
		return invalidInput(fmt.Sprintf("rent_roll[%d].lease_end", i), "must not be before lease_start")
	}
	return nil
}
