// SPDX-License-Identifier: MIT

package pricing_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/lvfdm/condition"
	"github.com/katalvlaran/lvfdm/pricing"
	"github.com/katalvlaran/lvfdm/termstructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	hwSpeed = 0.1
	hwSigma = 0.01
)

func TestHullWhiteEngine_BondFitsCurve(t *testing.T) {
	flat := termstructure.FlatForward(rate)
	got, err := pricing.NewHullWhiteEngine(hwSpeed, hwSigma, flat).Bond(5)
	require.NoError(t, err)
	assert.InDelta(t, flat.Discount(5), got.Value, 2e-4)
	// dP/dr = -B(0, 5)·P
	b := (1 - math.Exp(-hwSpeed*5)) / hwSpeed
	assert.InEpsilon(t, -b*flat.Discount(5), got.Delta, 1e-2)

	curve, err := termstructure.NewInterpolatedDiscount(
		[]float64{1, 2, 5},
		[]float64{math.Exp(-0.02), math.Exp(-0.05), math.Exp(-0.2)},
	)
	require.NoError(t, err)
	got, err = pricing.NewHullWhiteEngine(hwSpeed, hwSigma, curve).Bond(5)
	require.NoError(t, err)
	assert.InDelta(t, curve.Discount(5), got.Value, 1e-3)
}

// zeroBondOption is the closed-form European option on a zero-coupon bond.
func zeroBondOption(typ condition.OptionType, k, expiry, bondMaturity float64) float64 {
	pT := math.Exp(-rate * expiry)
	pS := math.Exp(-rate * bondMaturity)
	b := (1 - math.Exp(-hwSpeed*(bondMaturity-expiry))) / hwSpeed
	sp := hwSigma * math.Sqrt((1-math.Exp(-2*hwSpeed*expiry))/(2*hwSpeed)) * b
	h := math.Log(pS/(pT*k))/sp + sp/2
	w := float64(typ)
	n := distuv.UnitNormal

	return w * (pS*n.CDF(w*h) - k*pT*n.CDF(w*(h-sp)))
}

func TestHullWhiteEngine_BondOptionMatchesClosedForm(t *testing.T) {
	const bondMaturity = 5.0
	k := math.Exp(-rate * (bondMaturity - expiry))
	e := pricing.NewHullWhiteEngine(hwSpeed, hwSigma, termstructure.FlatForward(rate))

	for _, typ := range []condition.OptionType{condition.Call, condition.Put} {
		t.Run(typ.String(), func(t *testing.T) {
			got, err := e.BondOption(pricing.VanillaOption{Type: typ, Strike: k, Maturity: expiry}, bondMaturity)
			require.NoError(t, err)
			assert.InDelta(t, zeroBondOption(typ, k, expiry, bondMaturity), got.Value, 1e-4)
		})
	}

	_, err := e.BondOption(pricing.VanillaOption{Type: condition.Call, Strike: k, Maturity: expiry}, expiry)
	assert.ErrorIs(t, err, pricing.ErrBadOption)
	_, err = pricing.NewHullWhiteEngine(0, hwSigma, termstructure.FlatForward(rate)).Bond(1)
	assert.ErrorIs(t, err, pricing.ErrBadModel)
	_, err = pricing.NewHullWhiteEngine(hwSpeed, hwSigma, nil).Bond(1)
	assert.ErrorIs(t, err, pricing.ErrBadModel)
	_, err = e.Bond(0)
	assert.ErrorIs(t, err, pricing.ErrBadOption)
}
