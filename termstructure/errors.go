// SPDX-License-Identifier: MIT

package termstructure

import "errors"

var (
	// ErrBadCurve indicates curve nodes that are empty, unsorted, or carry
	// non-positive discount factors.
	ErrBadCurve = errors.New("termstructure: invalid curve nodes")
)
