// SPDX-License-Identifier: MIT
// Package matrix provides the linear-algebra kernels needed by the EEIO
// pipeline: element-wise Add/Sub, Mul, Transpose, MatVec, Identity and the
// pivoting Inverse used for the Leontief inverse.
//
// Purpose:
//   - Keep every kernel allocation-explicit: results are fresh *Dense values.
//   - Share validation via validators.go and wrap failures with matrixErrorf.
//
// Notes:
//   - Each kernel takes a *Dense fast-path over the flat buffer; other Matrix
//     implementations are materialized once through asDense.

package matrix

import (
	"fmt"
	"math"
)

// ZeroPivot is the additive identity used for accumulators and pivot checks.
const ZeroPivot = 0.0

// DefaultSingularTol is the relative pivot threshold used by Inverse.
// A pivot whose magnitude is below tol*max|a_ij| marks the matrix singular.
const DefaultSingularTol = 1e-12

// Operation name constants for unified error wrapping.
const (
	opAdd       = "Add"
	opSub       = "Sub"
	opMul       = "Mul"
	opTranspose = "Transpose"
	opMatVec    = "MatVec"
	opInverse   = "Inverse"
	opIdentity  = "Identity"
	opScaleCols = "ScaleColumns"
	opScaleRows = "ScaleRows"
	opSums      = "Sums"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil.
//
// Implementation:
//   - Stage 1: Wrap using fmt.Errorf("%s: %w", tag, err) to enable errors.Is/As.
//
// Complexity:
//   - Time O(1), Space O(1).
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// addSub computes elementwise out = a + sign*b for sign ∈ {+1, -1}.
// A fresh Dense is allocated; operands are not mutated.
func addSub(a, b Matrix, sign float64, opTag string) (*Dense, error) {
	if err := ValidateBinarySameShape(a, b); err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	da, err := asDense(a)
	if err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	db, err := asDense(b)
	if err != nil {
		return nil, matrixErrorf(opTag, err)
	}

	res, err := NewDense(da.r, da.c)
	if err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	for idx := range res.data { // deterministic 0..n-1
		res.data[idx] = da.data[idx] + sign*db.data[idx]
	}

	return res, nil
}

// Add computes the element-wise sum C = A + B.
//
// Errors:
//   - ErrNilMatrix (nil input), ErrDimensionMismatch (shape mismatch).
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func Add(a, b Matrix) (*Dense, error) {
	return addSub(a, b, 1, opAdd)
}

// Sub computes the element-wise difference C = A - B.
// Used for the Leontief system I - A. Errors as Add.
func Sub(a, b Matrix) (*Dense, error) {
	return addSub(a, b, -1, opSub)
}

// Mul computes the matrix product C = A × B.
//
// Implementation:
//   - Stage 1: ValidateMulCompatible(a, b).
//   - Stage 2: i-k-j loop order over the flat buffers; a zero a(i,k) skips
//     its inner row, which pays off for the sparse-ish A and B matrices of IO models.
//
// Behavior highlights:
//   - Empty inner dimension (a is r×0) yields an r×c zero matrix.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (a.Cols != b.Rows).
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c).
func Mul(a, b Matrix) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	da, err := asDense(a)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	db, err := asDense(b)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	r, n, c := da.r, da.c, db.c
	res, err := NewDense(r, c)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	var i, k, j int
	var aik float64
	for i = 0; i < r; i++ {
		outRow := res.data[i*c : (i+1)*c]
		for k = 0; k < n; k++ {
			aik = da.data[i*n+k]
			if aik == ZeroPivot {
				continue
			}
			bRow := db.data[k*c : (k+1)*c]
			for j = 0; j < c; j++ {
				outRow[j] += aik * bRow[j]
			}
		}
	}

	return res, nil
}

// Transpose returns a new c×r matrix with T[j,i] = M[i,j].
// Complexity: O(r*c).
func Transpose(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	dm, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	res, err := NewDense(dm.c, dm.r)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	for i := 0; i < dm.r; i++ {
		for j := 0; j < dm.c; j++ {
			res.data[j*dm.r+i] = dm.data[i*dm.c+j]
		}
	}

	return res, nil
}

// MatVec computes y = M · x.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (len(x) != Cols).
//
// Complexity:
//   - Time O(r*c), Space O(r).
func MatVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.Cols()); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	dm, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}

	y := make([]float64, dm.r)
	var sum float64
	for i := 0; i < dm.r; i++ {
		sum = ZeroPivot
		row := dm.data[i*dm.c : (i+1)*dm.c]
		for j, v := range row {
			sum += v * x[j]
		}
		y[i] = sum
	}

	return y, nil
}

// Identity returns the n×n identity matrix.
// Errors: ErrInvalidDimensions for n < 0.
func Identity(n int) (*Dense, error) {
	res, err := NewDense(n, n)
	if err != nil {
		return nil, matrixErrorf(opIdentity, err)
	}
	for i := 0; i < n; i++ {
		res.data[i*n+i] = 1
	}

	return res, nil
}

// Inverse computes M^-1 by Gauss-Jordan elimination with partial pivoting.
//
// Implementation:
//   - Stage 1: ValidateSquare; copy M into a working buffer and start X = I.
//   - Stage 2: for each column k pick the row with the largest |a(i,k)| at or
//     below k, swap it up, normalize, and eliminate column k from every other row.
//   - Stage 3: a pivot below DefaultSingularTol·max|M| aborts with ErrSingular.
//
// Behavior highlights:
//   - 0×0 input returns a 0×0 result.
//   - The input is never mutated.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrSingular.
//
// Complexity:
//   - Time O(n^3), Space O(n^2).
func Inverse(m Matrix) (*Dense, error) {
	return InverseTol(m, DefaultSingularTol)
}

// InverseTol is Inverse with an explicit relative singularity tolerance.
func InverseTol(m Matrix, tol float64) (*Dense, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	src, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	n := src.r
	work := src.clone()
	inv, err := Identity(n)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	if n == 0 {
		return inv, nil
	}

	// Scale for the relative pivot threshold.
	var maxAbs float64
	for _, v := range work.data {
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}
	threshold := tol * maxAbs
	if maxAbs == ZeroPivot {
		return nil, matrixErrorf(opInverse, ErrSingular)
	}

	a, x := work.data, inv.data
	var i, j, k, p int
	var pv, f float64
	for k = 0; k < n; k++ {
		// Partial pivot: largest magnitude in column k at or below row k.
		p = k
		pv = math.Abs(a[k*n+k])
		for i = k + 1; i < n; i++ {
			if v := math.Abs(a[i*n+k]); v > pv {
				p, pv = i, v
			}
		}
		if pv <= threshold {
			return nil, matrixErrorf(opInverse, fmt.Errorf("pivot %d: %w", k, ErrSingular))
		}
		if p != k {
			swapRows(a, n, p, k)
			swapRows(x, n, p, k)
		}

		// Normalize pivot row.
		f = 1 / a[k*n+k]
		for j = 0; j < n; j++ {
			a[k*n+j] *= f
			x[k*n+j] *= f
		}

		// Eliminate column k from all other rows.
		for i = 0; i < n; i++ {
			if i == k {
				continue
			}
			f = a[i*n+k]
			if f == ZeroPivot {
				continue
			}
			for j = 0; j < n; j++ {
				a[i*n+j] -= f * a[k*n+j]
				x[i*n+j] -= f * x[k*n+j]
			}
		}
	}

	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, matrixErrorf(opInverse, ErrSingular)
		}
	}

	return inv, nil
}

// swapRows exchanges rows p and q of an n-column flat buffer in place.
func swapRows(buf []float64, n, p, q int) {
	rp := buf[p*n : (p+1)*n]
	rq := buf[q*n : (q+1)*n]
	for j := 0; j < n; j++ {
		rp[j], rq[j] = rq[j], rp[j]
	}
}
