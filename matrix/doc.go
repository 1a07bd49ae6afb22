// SPDX-License-Identifier: MIT

// Package matrix provides the dense linear-algebra primitives of the EEIO
// calculator.
//
// What & Why:
//
//	Input-output models are small enough (tens to low thousands of sectors)
//	that dense storage and dense solves are the right trade-off. Dense keeps
//	a flat row-major buffer, and every kernel (Mul, Sub, Transpose, MatVec,
//	ScaleColumns, Inverse) allocates a fresh result so that derived matrices
//	(A, L, B·L, C·B) never alias their inputs.
//
// Error model:
//
//	Kernels return package sentinels wrapped with an operation tag
//	("Inverse: matrix: singular matrix"); match with errors.Is.
//
// Complexity:
//
//	At/Set O(1); Mul O(r*n*c); Inverse O(n^3) with partial pivoting.
//
// The binary interchange format used by memory-mapped consumers lives in the
// matio subpackage.
package matrix
