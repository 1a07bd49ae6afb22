// SPDX-License-Identifier: MIT
// Package matrix: public API facades.
//
// Purpose:
//   - Provide thin entry points for common constructions of the IO pipeline.
//   - Each facade delegates to the canonical kernel; no logic is duplicated.

package matrix

// NewZeros returns a new zero-initialized *Dense of size rows×cols.
// Thin alias of NewDense with an intention-revealing name.
func NewZeros(rows, cols int) (*Dense, error) {
	return NewDense(rows, cols)
}

// NewIdentity returns I_n. Alias of Identity kept for discoverability.
func NewIdentity(n int) (*Dense, error) {
	return Identity(n)
}

// ZerosLike returns a new zero matrix with the same shape as m.
func ZerosLike(m Matrix) (*Dense, error) {
	return NewDense(m.Rows(), m.Cols())
}

// NewDiagonal returns diag(v) as an n×n Dense with n = len(v).
func NewDiagonal(v []float64) (*Dense, error) {
	n := len(v)
	d, err := NewDense(n, n)
	if err != nil {
		return nil, err
	}
	for i, x := range v {
		d.data[i*n+i] = x
	}

	return d, nil
}

// IdentityMinus returns I - m for square m. This is the Leontief system matrix.
// Errors: ErrNilMatrix, ErrNonSquare.
func IdentityMinus(m Matrix) (*Dense, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf(opSub, err)
	}
	id, err := Identity(m.Rows())
	if err != nil {
		return nil, err
	}

	return Sub(id, m)
}
