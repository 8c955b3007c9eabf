// Package pricing turns a trip's duration and budget tier into a display price.
package pricing

import (
	"math"
	"strconv"

	"github.com/tourvisto/trip-admin-api/internal/domain"
)

// Rates are the business constants behind an estimate.
type Rates struct {
	// BasePerDay is the flat per-day rate in dollars.
	BasePerDay float64
	// Multipliers scale the base price per budget tier.
	Multipliers map[domain.Budget]float64
	// Default applies to budget values missing from Multipliers.
	Default float64
}

func DefaultRates() Rates {
	return Rates{
		BasePerDay: 50,
		Multipliers: map[domain.Budget]float64{
			domain.BudgetBudget:   0.7,
			domain.BudgetMidRange: 1.0,
			domain.BudgetLuxury:   2.0,
			domain.BudgetPremium:  3.0,
		},
		Default: 1.0,
	}
}

type Estimator struct {
	rates Rates
}

func NewEstimator(r Rates) *Estimator {
	m := make(map[domain.Budget]float64, len(r.Multipliers))
	for k, v := range r.Multipliers {
		m[k] = v
	}
	r.Multipliers = m
	return &Estimator{rates: r}
}

// Multiplier returns the factor applied for budget.
func (e *Estimator) Multiplier(budget domain.Budget) float64 {
	if m, ok := e.rates.Multipliers[budget]; ok {
		return m
	}
	return e.rates.Default
}

// Estimate returns "$" followed by duration*BasePerDay*multiplier rounded to the nearest
// whole dollar (halves away from zero). Duration is assumed to be validated already.
func (e *Estimator) Estimate(duration int, budget domain.Budget) string {
	base := float64(duration) * e.rates.BasePerDay
	return "$" + strconv.FormatInt(int64(math.Round(base*e.Multiplier(budget))), 10)
}
