// SPDX-License-Identifier: MIT

package mesher

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ExponentialJump is the mesher of the jump state y of a mean-reverting
// process with exponentially distributed jumps (Kluge model):
//
//	dy = -beta·y dt + J dN,  J ~ Exp(eta),  N ~ Poisson(intensity).
//
// Nodes are exponential quantiles p ∈ [0, 1-eps] scaled by
// 1/(1-exp(-beta/intensity)), which spreads them over the stationary
// jump-size range.
type ExponentialJump struct {
	*Mesher1D
	beta, intensity, eta float64
}

// NewExponentialJump builds the jump-state mesher. eps must lie in (0, 1).
func NewExponentialJump(size int, beta, intensity, eta, eps float64) (*ExponentialJump, error) {
	const tag = "NewExponentialJump"
	if size < 2 {
		return nil, fmt.Errorf("%s(%d): %w", tag, size, ErrTooFewPoints)
	}
	if !(eps > 0 && eps < 1) || !(beta > 0) || !(intensity > 0) || !(eta > 0) {
		return nil, fmt.Errorf("%s beta=%g lambda=%g eta=%g eps=%g: %w",
			tag, beta, intensity, eta, eps, ErrBadDomain)
	}

	dx := (1 - eps) / float64(size-1)
	scale := 1 / (1 - math.Exp(-beta/intensity))
	locs := make([]float64, size)
	for i := range locs {
		p := float64(i) * dx
		locs[i] = scale * (-math.Log(1-p) / eta)
	}

	return &ExponentialJump{Mesher1D: newMesher1D(locs), beta: beta, intensity: intensity, eta: eta}, nil
}

// JumpSizeDensity is the stationary density of the jump state, a Gamma
// distribution with shape intensity/beta and rate eta.
func (m *ExponentialJump) JumpSizeDensity(x float64) float64 {
	if x <= 0 {
		return 0
	}

	return m.law().Prob(x)
}

// JumpSizeDistribution is the stationary cumulative distribution of the jump
// state.
func (m *ExponentialJump) JumpSizeDistribution(x float64) float64 {
	if x <= 0 {
		return 0
	}

	return m.law().CDF(x)
}

func (m *ExponentialJump) law() distuv.Gamma {
	return distuv.Gamma{Alpha: m.intensity / m.beta, Beta: m.eta}
}
