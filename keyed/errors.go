// SPDX-License-Identifier: MIT

package keyed

import "errors"

var (
	// ErrDuplicateKey is returned when an index is built from keys that repeat.
	ErrDuplicateKey = errors.New("keyed: duplicate key")

	// ErrUnknownKey is returned by the strict accessors for keys not in the index.
	ErrUnknownKey = errors.New("keyed: unknown key")

	// ErrKeyMismatch is returned when two matrices must share an axis ordering
	// (e.g. Mul) but their key sequences differ.
	ErrKeyMismatch = errors.New("keyed: key orderings differ")
)
