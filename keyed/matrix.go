// SPDX-License-Identifier: MIT

// Package keyed provides a dense float64 matrix addressed by string keys.
//
// Every derived matrix of the model (A, L, B, C, D, U) is a keyed.Matrix:
// sector keys on A's axes, flow keys on B's rows, impact category keys on C's
// rows. Key positions follow insertion order and are stable.
//
// Absent keys follow a documented null-object contract:
//
//	TryGet(r, c)    → (0, false)   absent is distinguishable from a stored zero
//	GetOrZero(r, c) → 0
//	GetByKey(r, c)  → ErrUnknownKey
//	Set(r, c, v)    → false, nothing written, nothing inserted
package keyed

import (
	"fmt"

	"github.com/katalvlaran/eeio/matrix"
)

// Matrix is a dense matrix with keyed rows and columns.
type Matrix struct {
	rows *Index
	cols *Index
	data *matrix.Dense
}

// New allocates a zero matrix over the given row and column keys.
func New(rowKeys, colKeys []string) (*Matrix, error) {
	ri, err := NewIndex(rowKeys...)
	if err != nil {
		return nil, fmt.Errorf("keyed.New rows: %w", err)
	}
	ci, err := NewIndex(colKeys...)
	if err != nil {
		return nil, fmt.Errorf("keyed.New cols: %w", err)
	}
	d, err := matrix.NewDense(ri.Len(), ci.Len())
	if err != nil {
		return nil, err
	}
	return &Matrix{rows: ri, cols: ci, data: d}, nil
}

// FromDense attaches keys to an existing dense matrix. d is not copied.
func FromDense(rowKeys, colKeys []string, d *matrix.Dense) (*Matrix, error) {
	if err := matrix.ValidateNotNil(d); err != nil {
		return nil, err
	}
	if d.Rows() != len(rowKeys) || d.Cols() != len(colKeys) {
		return nil, fmt.Errorf("keyed.FromDense %dx%d with %d/%d keys: %w",
			d.Rows(), d.Cols(), len(rowKeys), len(colKeys), matrix.ErrDimensionMismatch)
	}
	ri, err := NewIndex(rowKeys...)
	if err != nil {
		return nil, fmt.Errorf("keyed.FromDense rows: %w", err)
	}
	ci, err := NewIndex(colKeys...)
	if err != nil {
		return nil, fmt.Errorf("keyed.FromDense cols: %w", err)
	}
	return &Matrix{rows: ri, cols: ci, data: d}, nil
}

// Rows is the number of row keys.
func (m *Matrix) Rows() int { return m.rows.Len() }

// Cols is the number of column keys.
func (m *Matrix) Cols() int { return m.cols.Len() }

// RowKeys returns the row keys in position order.
func (m *Matrix) RowKeys() []string { return m.rows.Keys() }

// ColKeys returns the column keys in position order.
func (m *Matrix) ColKeys() []string { return m.cols.Keys() }

// RowIndex exposes the row index (read-only by convention).
func (m *Matrix) RowIndex() *Index { return m.rows }

// ColIndex exposes the column index (read-only by convention).
func (m *Matrix) ColIndex() *Index { return m.cols }

// Dense returns the backing dense matrix. It is shared, not copied.
func (m *Matrix) Dense() *matrix.Dense { return m.data }

// TryGet returns the value at (row, col) and whether both keys exist.
func (m *Matrix) TryGet(row, col string) (float64, bool) {
	i, ok := m.rows.Lookup(row)
	if !ok {
		return 0, false
	}
	j, ok := m.cols.Lookup(col)
	if !ok {
		return 0, false
	}
	v, err := m.data.At(i, j)
	return v, err == nil
}

// GetOrZero returns the value at (row, col), or 0 when a key is absent.
func (m *Matrix) GetOrZero(row, col string) float64 {
	v, _ := m.TryGet(row, col)
	return v
}

// GetByKey is the strict keyed accessor.
func (m *Matrix) GetByKey(row, col string) (float64, error) {
	v, ok := m.TryGet(row, col)
	if !ok {
		return 0, fmt.Errorf("keyed.GetByKey(%q,%q): %w", row, col, ErrUnknownKey)
	}
	return v, nil
}

// GetByIndex is the positional accessor; out-of-range returns matrix.ErrOutOfRange.
func (m *Matrix) GetByIndex(i, j int) (float64, error) {
	return m.data.At(i, j)
}

// Set writes v at (row, col) and reports whether it was written.
// Unknown keys are ignored; keys are never auto-inserted.
func (m *Matrix) Set(row, col string, v float64) bool {
	i, ok := m.rows.Lookup(row)
	if !ok {
		return false
	}
	j, ok := m.cols.Lookup(col)
	if !ok {
		return false
	}
	return m.data.Set(i, j, v) == nil
}

// SetByIndex writes v at position (i, j).
func (m *Matrix) SetByIndex(i, j int, v float64) error {
	return m.data.Set(i, j, v)
}

// Row returns a copy of the row for key, or nil when absent.
func (m *Matrix) Row(key string) []float64 {
	i, ok := m.rows.Lookup(key)
	if !ok {
		return nil
	}
	return m.data.Row(i)
}

// Col returns a copy of the column for key, or nil when absent.
func (m *Matrix) Col(key string) []float64 {
	j, ok := m.cols.Lookup(key)
	if !ok {
		return nil
	}
	return m.data.Col(j)
}

// Clone deep-copies keys and values.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{
		rows: m.rows.clone(),
		cols: m.cols.clone(),
		data: m.data.Clone().(*matrix.Dense),
	}
}

// Reindex returns a new matrix over the given axes. Values are carried over
// for keys present in m; everything else is zero.
func (m *Matrix) Reindex(rowKeys, colKeys []string) (*Matrix, error) {
	out, err := New(rowKeys, colKeys)
	if err != nil {
		return nil, err
	}
	colMap := make([]int, len(colKeys))
	for j, k := range colKeys {
		if src, ok := m.cols.Lookup(k); ok {
			colMap[j] = src
		} else {
			colMap[j] = -1
		}
	}
	for i, rk := range rowKeys {
		src, ok := m.rows.Lookup(rk)
		if !ok {
			continue
		}
		srcRow := m.data.RawRowView(src)
		dstRow := out.data.RawRowView(i)
		for j, sj := range colMap {
			if sj >= 0 {
				dstRow[j] = srcRow[sj]
			}
		}
	}
	return out, nil
}

// ReindexCols keeps the row axis and aligns columns to colKeys.
func (m *Matrix) ReindexCols(colKeys []string) (*Matrix, error) {
	return m.Reindex(m.rows.keys, colKeys)
}

// WithDense returns a keyed view sharing m's axes over a same-shaped dense value.
func (m *Matrix) WithDense(d *matrix.Dense) (*Matrix, error) {
	if d.Rows() != m.Rows() || d.Cols() != m.Cols() {
		return nil, matrix.ErrDimensionMismatch
	}
	return &Matrix{rows: m.rows.clone(), cols: m.cols.clone(), data: d}, nil
}

// Mul returns a·b. a's column keys must equal b's row keys in order; the
// result carries a's row keys and b's column keys.
func Mul(a, b *Matrix) (*Matrix, error) {
	if !a.cols.Equal(b.rows) {
		return nil, fmt.Errorf("keyed.Mul: %w", ErrKeyMismatch)
	}
	d, err := matrix.Mul(a.data, b.data)
	if err != nil {
		return nil, err
	}
	return &Matrix{rows: a.rows.clone(), cols: b.cols.clone(), data: d}, nil
}

// String renders the dense values; keys are omitted.
func (m *Matrix) String() string { return m.data.String() }
