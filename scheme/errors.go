// SPDX-License-Identifier: MIT

package scheme

import "errors"

var (
	// ErrNegativeTime is returned for a step that would end before t = 0.
	ErrNegativeTime = errors.New("scheme: a step towards negative time given")

	// ErrStepNotSet is returned when Step runs before SetStep.
	ErrStepNotSet = errors.New("scheme: step size not set")

	// ErrUnknownScheme is returned for an unknown scheme type or name.
	ErrUnknownScheme = errors.New("scheme: unknown scheme")

	// ErrBadParameter signals theta or mu outside the scheme's valid range.
	ErrBadParameter = errors.New("scheme: invalid parameter")
)
