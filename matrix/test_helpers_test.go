// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   • Provide small, deterministic fixtures for the kernels.
//   • Keep all data finite and well-formed to avoid numeric-policy interference.

package matrix_test

import (
	"testing"

	"github.com/katalvlaran/eeio/matrix"
	"github.com/stretchr/testify/require"
)

// Tolerance used for floating comparisons throughout the package tests.
const tol = 1e-9

// hide wraps any Matrix to hide its concrete type from type assertions,
// forcing kernels through the generic At/Set path.
type hide struct{ matrix.Matrix }

// mustDense builds a *Dense from literal rows or fails the test.
func mustDense(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFrom(rows)
	require.NoError(t, err)

	return m
}

// requireClose asserts element-wise closeness with a readable failure message.
func requireClose(t *testing.T, want, got matrix.Matrix) {
	t.Helper()
	require.Truef(t, matrix.AllClose(got, want, 0, tol), "want\n%v\ngot\n%v", want, got)
}
