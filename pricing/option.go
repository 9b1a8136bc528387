// SPDX-License-Identifier: MIT

package pricing

import (
	"fmt"

	"github.com/katalvlaran/lvfdm/condition"
)

// ExerciseKind tells when the holder may exercise.
type ExerciseKind int

const (
	European ExerciseKind = iota
	American
	Bermudan
)

// String implements fmt.Stringer.
func (k ExerciseKind) String() string {
	switch k {
	case European:
		return "european"
	case American:
		return "american"
	case Bermudan:
		return "bermudan"
	default:
		return fmt.Sprintf("ExerciseKind(%d)", int(k))
	}
}

// Exercise describes the exercise right. Dates are year fractions and are
// used by Bermudan exercise only; maturity is always an exercise date.
type Exercise struct {
	Kind  ExerciseKind
	Dates []float64
}

// VanillaOption is a call or put on a single underlying.
type VanillaOption struct {
	Type     condition.OptionType
	Strike   float64
	Maturity float64
	Exercise Exercise
}

// Payoff returns the plain vanilla payoff of o.
func (o VanillaOption) Payoff() condition.PlainVanilla {
	return condition.PlainVanilla{Type: o.Type, Strike: o.Strike}
}

// Validate checks the contract terms.
func (o VanillaOption) Validate() error {
	if o.Type != condition.Call && o.Type != condition.Put {
		return fmt.Errorf("type %v: %w", o.Type, ErrBadOption)
	}
	if !(o.Strike > 0) || !(o.Maturity > 0) {
		return fmt.Errorf("strike %g maturity %g: %w", o.Strike, o.Maturity, ErrBadOption)
	}

	return o.validateExercise()
}

// validateExercise checks the exercise right against the maturity.
func (o VanillaOption) validateExercise() error {
	switch o.Exercise.Kind {
	case European, American:
		return nil
	case Bermudan:
		if len(o.Exercise.Dates) == 0 {
			return fmt.Errorf("bermudan without dates: %w", ErrBadExercise)
		}
		for _, t := range o.Exercise.Dates {
			if !(t > 0) || t > o.Maturity {
				return fmt.Errorf("bermudan date %g outside (0, %g]: %w", t, o.Maturity, ErrBadExercise)
			}
		}

		return nil
	}

	return fmt.Errorf("%v: %w", o.Exercise.Kind, ErrBadExercise)
}

// exerciseConditions returns the step conditions of the exercise right
// given the exercise values on the mesh; nil for European exercise.
func (o VanillaOption) exerciseConditions(inner []float64) (*condition.Composite, error) {
	switch o.Exercise.Kind {
	case American:
		return condition.NewComposite(condition.NewAmerican(inner)), nil
	case Bermudan:
		b, err := condition.NewBermudan(o.Exercise.Dates, inner)
		if err != nil {
			return nil, err
		}

		return condition.NewComposite(b), nil
	}

	return nil, nil
}
