// SPDX-License-Identifier: MIT

package dqi

import "errors"

var (
	// ErrSyntax marks malformed DQI text (entry, grid or score).
	ErrSyntax = errors.New("dqi: syntax error")

	// ErrShape marks a DQI matrix whose shape does not fit the numeric operands.
	ErrShape = errors.New("dqi: shape mismatch")
)
