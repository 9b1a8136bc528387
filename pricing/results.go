// SPDX-License-Identifier: MIT

package pricing

import "github.com/shopspring/decimal"

// Results are the value and sensitivities at the valuation point. Delta and
// gamma are taken with respect to the engine's underlying (spot, forward or
// state variable); theta is the calendar-time derivative per year.
type Results struct {
	Value float64
	Delta float64
	Gamma float64
	Theta float64
}

// Quote holds Results rounded for reporting.
type Quote struct {
	Value decimal.Decimal `json:"value"`
	Delta decimal.Decimal `json:"delta"`
	Gamma decimal.Decimal `json:"gamma"`
	Theta decimal.Decimal `json:"theta"`
}

// Quote rounds every figure half away from zero to places decimals.
func (r Results) Quote(places int32) Quote {
	return Quote{
		Value: decimal.NewFromFloat(r.Value).Round(places),
		Delta: decimal.NewFromFloat(r.Delta).Round(places),
		Gamma: decimal.NewFromFloat(r.Gamma).Round(places),
		Theta: decimal.NewFromFloat(r.Theta).Round(places),
	}
}
