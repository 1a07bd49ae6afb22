// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Broadcast and reduction kernels used by the perspective calculations:
//     column scaling (B·diag(s)), row scaling, row/column sums and a
//     tolerance comparison for tests and validations.
//   - Keep all loops deterministic and cache-friendly over the flat buffer.
//
// Determinism & Performance:
//   - Fixed loop orders (i→j).
//   - No hidden allocations beyond the output Dense; O(r*c) time and space.

package matrix

import (
	"math"
)

// ewScaleCols computes out[i,j] = X[i,j] * scale[j].
// Time: O(r*c). Space: O(r*c). Deterministic i→j loops.
func ewScaleCols(x *Dense, scale []float64) *Dense {
	out := &Dense{r: x.r, c: x.c, data: make([]float64, len(x.data))}
	for i := 0; i < x.r; i++ {
		base := i * x.c
		for j := 0; j < x.c; j++ {
			out.data[base+j] = x.data[base+j] * scale[j]
		}
	}

	return out
}

// ewScaleRows computes out[i,j] = X[i,j] * scale[i].
// Time: O(r*c). Space: O(r*c). Deterministic i→j loops.
func ewScaleRows(x *Dense, scale []float64) *Dense {
	out := &Dense{r: x.r, c: x.c, data: make([]float64, len(x.data))}
	for i := 0; i < x.r; i++ {
		base := i * x.c
		s := scale[i]
		for j := 0; j < x.c; j++ {
			out.data[base+j] = x.data[base+j] * s
		}
	}

	return out
}

// ScaleColumns returns M·diag(v): every column j multiplied by v[j].
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (len(v) != Cols).
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func ScaleColumns(m Matrix, v []float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScaleCols, err)
	}
	if err := ValidateVecLen(v, m.Cols()); err != nil {
		return nil, matrixErrorf(opScaleCols, err)
	}
	d, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opScaleCols, err)
	}

	return ewScaleCols(d, v), nil
}

// ScaleRows returns diag(v)·M: every row i multiplied by v[i].
// Errors as ScaleColumns with len(v) checked against Rows.
func ScaleRows(m Matrix, v []float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScaleRows, err)
	}
	if err := ValidateVecLen(v, m.Rows()); err != nil {
		return nil, matrixErrorf(opScaleRows, err)
	}
	d, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opScaleRows, err)
	}

	return ewScaleRows(d, v), nil
}

// RowSums returns the vector of per-row totals (length Rows).
func RowSums(m Matrix) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opSums, err)
	}
	d, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opSums, err)
	}
	out := make([]float64, d.r)
	for i := 0; i < d.r; i++ {
		for _, v := range d.data[i*d.c : (i+1)*d.c] {
			out[i] += v
		}
	}

	return out, nil
}

// ColSums returns the vector of per-column totals (length Cols).
func ColSums(m Matrix) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opSums, err)
	}
	d, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opSums, err)
	}
	out := make([]float64, d.c)
	for i := 0; i < d.r; i++ {
		for j, v := range d.data[i*d.c : (i+1)*d.c] {
			out[j] += v
		}
	}

	return out, nil
}

// AllClose reports whether a and b have the same shape and every pair of
// elements satisfies |a-b| <= atol + rtol*|b|.
// Nil or shape-mismatched inputs compare as not close.
func AllClose(a, b Matrix, rtol, atol float64) bool {
	if ValidateBinarySameShape(a, b) != nil {
		return false
	}
	da, err := asDense(a)
	if err != nil {
		return false
	}
	db, err := asDense(b)
	if err != nil {
		return false
	}
	for k, av := range da.data {
		bv := db.data[k]
		if math.Abs(av-bv) > atol+rtol*math.Abs(bv) {
			return false
		}
	}

	return true
}
