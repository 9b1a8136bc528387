// SPDX-License-Identifier: MIT

package condition

import (
	"fmt"
	"math"
	"strings"
)

// Payoff maps an underlying level to an exercise value.
type Payoff interface {
	Value(s float64) float64
}

// PayoffFunc adapts a plain function to Payoff.
type PayoffFunc func(s float64) float64

// Value implements Payoff.
func (f PayoffFunc) Value(s float64) float64 { return f(s) }

// OptionType is the sign of the payoff: +1 for calls, -1 for puts.
type OptionType int

const (
	Put  OptionType = -1
	Call OptionType = 1
)

// String implements fmt.Stringer.
func (t OptionType) String() string {
	switch t {
	case Call:
		return "call"
	case Put:
		return "put"
	default:
		return fmt.Sprintf("OptionType(%d)", int(t))
	}
}

// ParseOptionType accepts "call" or "put" in any case.
func ParseOptionType(s string) (OptionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call":
		return Call, nil
	case "put":
		return Put, nil
	}

	return 0, fmt.Errorf("ParseOptionType(%q): %w", s, ErrUnknownOptionType)
}

// PlainVanilla pays max(φ·(s - K), 0).
type PlainVanilla struct {
	Type   OptionType
	Strike float64
}

// Value implements Payoff.
func (p PlainVanilla) Value(s float64) float64 {
	return math.Max(float64(p.Type)*(s-p.Strike), 0)
}

// CashOrNothing pays Cash when φ·(s - K) > 0.
type CashOrNothing struct {
	Type   OptionType
	Strike float64
	Cash   float64
}

// Value implements Payoff.
func (p CashOrNothing) Value(s float64) float64 {
	if float64(p.Type)*(s-p.Strike) > 0 {
		return p.Cash
	}

	return 0
}
