// SPDX-License-Identifier: MIT

package operator

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvfdm/mesher"
	"github.com/katalvlaran/lvfdm/termstructure"
)

// KlugeParams describe the two-factor spike model: ln S = x + y with
//
//	dx = speed(level(t) - x)dt + σ dW
//	dy = -β y dt + J dN,  J ~ Exp(η),  N ~ Poisson(λ).
type KlugeParams struct {
	Speed     float64
	Level     func(t float64) float64
	Sigma     float64
	Beta      float64
	Intensity float64
	Eta       float64
}

// Kluge term names.
const (
	TermJumpDecay = "jump-decay"
	TermJump      = "jump"
)

// NewExtOUJumpOp returns the operator of the Kluge model on a mesh with the
// OU factor x along direction 0 and the jump factor y along direction 1.
// The jump integral λ·J (see JumpIntegral) is the explicit mixed term;
// quadNodes <= 0 selects DefaultJumpNodes.
func NewExtOUJumpOp(m *mesher.Composite, p KlugeParams, curve termstructure.YieldCurve, quadNodes int, opts ...Option) (*Sum, error) {
	if m.Dims() < 2 {
		return nil, fmt.Errorf("NewExtOUJumpOp: %d dims: %w", m.Dims(), ErrDirection)
	}
	if !(p.Beta > 0) || !(p.Intensity >= 0) || math.IsInf(p.Intensity, 0) || curve == nil {
		return nil, fmt.Errorf("NewExtOUJumpOp beta=%g lambda=%g: %w", p.Beta, p.Intensity, ErrBadParameter)
	}
	if quadNodes <= 0 {
		quadNodes = DefaultJumpNodes
	}
	s, err := NewExtendedOUOp(m, p.Speed, p.Level, p.Sigma, curve, 0, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewExtOUJumpOp: %w", err)
	}
	y := m.Locations(1)
	decay := make([]float64, len(y))
	for i := range y {
		decay[i] = -p.Beta * y[i]
	}
	if err = s.AddBand(TermJumpDecay, 1, FirstDerivative, Static(decay)); err != nil {
		return nil, fmt.Errorf("NewExtOUJumpOp: %w", err)
	}
	jump, err := NewJumpIntegral(m, 1, p.Eta, quadNodes)
	if err != nil {
		return nil, fmt.Errorf("NewExtOUJumpOp: %w", err)
	}
	if err = s.AddMixed(TermJump, jump, Constant(p.Intensity)); err != nil {
		return nil, fmt.Errorf("NewExtOUJumpOp: %w", err)
	}

	return s, nil
}
