// Package metrics derives investment metrics from a property snapshot.
// Every function in this package is pure: no I/O, no shared state, and the
// clock is the only injected dependency.
package metrics

import (
	"time"

	"github.com/simaogato/propfolio-backend/internal/domain"
)

// Engine computes metrics results from property snapshots
type Engine struct {
	Clock func() time.Time
}

// NewEngine creates an Engine stamping results with the current UTC time
func NewEngine() *Engine {
	return &Engine{Clock: func() time.Time { return time.Now().UTC() }}
}

// CalculateMetrics validates the snapshot and runs every calculator once
// Returns *domain.MissingPropertyError or *domain.InvalidInputError for bad
// input; warnings travel inside the result.
func (e *Engine) CalculateMetrics(snapshot *domain.PropertySnapshot) (*domain.MetricsResult, error) {
	if snapshot == nil {
		return nil, &domain.MissingPropertyError{}
	}
	if err := snapshot.Validate(); err != nil {
		return nil, err
	}

	assumptions := snapshot.EffectiveAssumptions()
	property := snapshot.Property

	income := ComputeIncome(snapshot.RentRoll, snapshot.UnitTypes, snapshot.OtherIncome, assumptions)

	expenses, err := ComputeExpenses(snapshot.Expenses, income.EffectiveGrossIncome, assumptions)
	if err != nil {
		return nil, err
	}

	debt := ComputeDebtService(snapshot.Loans)

	noi := income.EffectiveGrossIncome.Sub(expenses.TotalOperatingExpenses)
	valuation, err := ComputeValuation(
		noi,
		assumptions,
		property,
		snapshot.RehabTotal(),
		domain.SumCosts(snapshot.ClosingCosts),
		domain.SumCosts(snapshot.HoldingCosts),
	)
	if err != nil {
		return nil, err
	}

	result := Aggregate(income, expenses, debt, valuation, property)
	result.ComputedAt = e.now()

	return &result, nil
}

func (e *Engine) now() time.Time {
	if e.Clock == nil {
		return time.Now().UTC()
	}
	return e.Clock()
}
