// SPDX-License-Identifier: MIT

package termstructure

// LocalVol is a local volatility surface σ(t, s) in spot space.
type LocalVol interface {
	LocalVol(t, s float64) float64
}

// FlatVol is a constant volatility.
type FlatVol float64

// LocalVol implements LocalVol.
func (v FlatVol) LocalVol(_, _ float64) float64 { return float64(v) }

// LocalVolFunc adapts a plain function to LocalVol.
type LocalVolFunc func(t, s float64) float64

// LocalVol implements LocalVol.
func (f LocalVolFunc) LocalVol(t, s float64) float64 { return f(t, s) }
