package metrics

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/propfolio-backend/internal/domain"
)

// Valuation holds the single after-repair value and the capital invested
type Valuation struct {
	ARV                  decimal.Decimal
	Basis                domain.ARVBasis
	DownPayment          decimal.Decimal
	TotalInvestedCapital decimal.Decimal
}

// ComputeValuation derives ARV and total invested capital
//
// ARV is computed exactly once per call:
//   - SOLD: the sale price (realized value); a SOLD property without one is
//     rejected with *domain.InvalidInputError rather than valued on income
//   - NOI > 0 and market cap rate > 0: NOI / market cap rate
//   - otherwise: the purchase price
//
// Total invested capital = down payment + closing + holding, plus rehab only
// when the rehab is not financed by the acquisition loan. The down payment is
// purchase price × (1 − loan-to-cost). A positive InitialCapitalRequired on the
// property overrides the computed total.
func ComputeValuation(
	netOperatingIncome decimal.Decimal,
	assumptions domain.Assumptions,
	property *domain.Property,
	rehabTotal, closingTotal, holdingTotal decimal.Decimal,
) (Valuation, error) {
	v := Valuation{}

	switch {
	case property.IsSold():
		if property.SalePrice == nil {
			return Valuation{}, &domain.InvalidInputError{Field: "property.sale_price", Reason: "is required when status is SOLD"}
		}
		v.ARV = *property.SalePrice
		v.Basis = domain.ARVBasisSalePrice
	case netOperatingIncome.IsPositive() && assumptions.MarketCapRate.IsPositive():
		v.ARV = netOperatingIncome.Div(assumptions.MarketCapRate)
		v.Basis = domain.ARVBasisIncome
	default:
		v.ARV = property.PurchasePrice
		v.Basis = domain.ARVBasisPurchasePrice
	}

	v.DownPayment = property.PurchasePrice.Mul(one.Sub(assumptions.LoanToCostRate))

	invested := v.DownPayment.Add(closingTotal).Add(holdingTotal)
	if !assumptions.RehabFinanced {
		invested = invested.Add(rehabTotal)
	}
	if override := property.InitialCapitalRequired; override != nil && override.IsPositive() {
		invested = *override
	}
	v.TotalInvestedCapital = invested

	return v, nil
}
