// SPDX-License-Identifier: MIT

package condition

import "errors"

var (
	// ErrNilPayoff is returned when an inner-value helper receives no payoff.
	ErrNilPayoff = errors.New("condition: nil payoff")

	// ErrNilMapping is returned when a multi-direction helper receives no
	// coordinate mapping.
	ErrNilMapping = errors.New("condition: nil mapping")

	// ErrSize indicates a value array whose length differs from the
	// condition's inner values.
	ErrSize = errors.New("condition: value array size mismatch")

	// ErrNoTimes is returned for a timed condition without any time.
	ErrNoTimes = errors.New("condition: no stopping times")

	// ErrNegativeTime rejects stopping times before zero.
	ErrNegativeTime = errors.New("condition: negative stopping time")

	// ErrBadBarrier signals a knock-out band with lower >= upper.
	ErrBadBarrier = errors.New("condition: invalid barrier")

	// ErrUnknownOptionType is returned by ParseOptionType.
	ErrUnknownOptionType = errors.New("condition: unknown option type")
)
