// SPDX-License-Identifier: MIT

package pricing

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/lvfdm/condition"
)

// BlackScholes returns the closed-form European value and Greeks under
// constant rate r, dividend yield q and volatility vol. Theta is the
// calendar-time derivative. Expired or degenerate inputs return the
// intrinsic value with zero Greeks.
func BlackScholes(typ condition.OptionType, spot, strike, r, q, vol, t float64) Results {
	w := float64(typ)
	if !(t > 0) || !(vol > 0) {
		return Results{Value: math.Max(w*(spot-strike), 0)}
	}
	sq := vol * math.Sqrt(t)
	d1 := (math.Log(spot/strike) + (r-q+0.5*vol*vol)*t) / sq
	d2 := d1 - sq
	dr, dq := math.Exp(-r*t), math.Exp(-q*t)
	n := distuv.UnitNormal
	pdf := n.Prob(d1)

	return Results{
		Value: w * (spot*dq*n.CDF(w*d1) - strike*dr*n.CDF(w*d2)),
		Delta: w * dq * n.CDF(w*d1),
		Gamma: dq * pdf / (spot * sq),
		Theta: -spot*dq*pdf*vol/(2*math.Sqrt(t)) - w*r*strike*dr*n.CDF(w*d2) + w*q*spot*dq*n.CDF(w*d1),
	}
}

// BlackScholesPrice returns the closed-form European value.
func BlackScholesPrice(typ condition.OptionType, spot, strike, r, q, vol, t float64) float64 {
	return BlackScholes(typ, spot, strike, r, q, vol, t).Value
}
