// SPDX-License-Identifier: MIT

package dqi

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/eeio/matrix"
)

// Matrix holds one Entry per cell. Storage is column-major (row + rows*col),
// the same order as the binary numeric matrices it accompanies.
type Matrix struct {
	rows, cols int
	data       []Entry
}

// NewMatrix allocates a rows×cols matrix of nil entries.
func NewMatrix(rows, cols int) *Matrix {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &Matrix{rows: rows, cols: cols, data: make([]Entry, rows*cols)}
}

// Rows is the row count.
func (m *Matrix) Rows() int { return m.rows }

// Cols is the column count.
func (m *Matrix) Cols() int { return m.cols }

func (m *Matrix) idx(row, col int) (int, bool) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return 0, false
	}
	return row + m.rows*col, true
}

// At returns the entry at (row, col); out-of-range reads return nil.
func (m *Matrix) At(row, col int) Entry {
	if i, ok := m.idx(row, col); ok {
		return m.data[i]
	}
	return nil
}

// Set stores e at (row, col) and reports whether the position exists.
func (m *Matrix) Set(row, col int, e Entry) bool {
	i, ok := m.idx(row, col)
	if ok {
		m.data[i] = e
	}
	return ok
}

// Row returns the entries of row i.
func (m *Matrix) Row(i int) []Entry {
	out := make([]Entry, m.cols)
	for j := range out {
		out[j] = m.At(i, j)
	}
	return out
}

// Col returns the entries of column j.
func (m *Matrix) Col(j int) []Entry {
	out := make([]Entry, m.rows)
	for i := range out {
		out[i] = m.At(i, j)
	}
	return out
}

// Equal compares shape and every entry.
func (m *Matrix) Equal(o *Matrix) bool {
	if o == nil || m.rows != o.rows || m.cols != o.cols {
		return false
	}
	for i := range m.data {
		if !m.data[i].Equal(o.data[i]) {
			return false
		}
	}
	return true
}

// String renders the grid form "[ (1,2) (none) ;\n (3,4) (5,6) ]".
func (m *Matrix) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			sb.WriteString(" ")
			sb.WriteString(m.At(i, j).String())
		}
		if i < m.rows-1 {
			sb.WriteString(" ;\n ")
		} else {
			sb.WriteString(" ]")
		}
	}
	if m.rows == 0 {
		sb.WriteString("]")
	}
	return sb.String()
}

// Parse reads the grid form written by String. Whitespace between entries is
// optional; rows are separated by ';' and must all have the same length.
func Parse(text string) (*Matrix, error) {
	t := strings.TrimSpace(text)
	t = strings.TrimPrefix(t, "[")
	t = strings.TrimSuffix(t, "]")
	if strings.TrimSpace(t) == "" {
		return NewMatrix(0, 0), nil
	}

	var grid [][]Entry
	for r, rowText := range strings.Split(t, ";") {
		row, err := parseRow(rowText)
		if err != nil {
			return nil, fmt.Errorf("dqi.Parse row %d: %w", r, err)
		}
		grid = append(grid, row)
	}
	return fromGrid(grid)
}

// parseRow splits "(1,2) (none)(3,4)" into entries.
func parseRow(text string) ([]Entry, error) {
	var out []Entry
	rest := strings.TrimSpace(text)
	for rest != "" {
		if rest[0] != '(' {
			return nil, fmt.Errorf("%w: %q", ErrSyntax, rest)
		}
		end := strings.IndexByte(rest, ')')
		if end < 0 {
			return nil, fmt.Errorf("%w: unclosed entry %q", ErrSyntax, rest)
		}
		e, err := ParseEntry(rest[:end+1])
		if err != nil {
			return nil, err
		}
		out = append(out, e)
		rest = strings.TrimSpace(rest[end+1:])
	}
	return out, nil
}

func fromGrid(grid [][]Entry) (*Matrix, error) {
	if len(grid) == 0 {
		return NewMatrix(0, 0), nil
	}
	m := NewMatrix(len(grid), len(grid[0]))
	for i, row := range grid {
		if len(row) != m.cols {
			return nil, fmt.Errorf("%w: row %d has %d entries, want %d", ErrShape, i, len(row), m.cols)
		}
		for j, e := range row {
			m.Set(i, j, e)
		}
	}
	return m, nil
}

// StringRows renders one text row per matrix row (the CSV export layout).
func (m *Matrix) StringRows() [][]string {
	out := make([][]string, m.rows)
	for i := range out {
		out[i] = make([]string, m.cols)
		for j := range out[i] {
			out[i][j] = m.At(i, j).String()
		}
	}
	return out
}

// FromStringRows parses the layout produced by StringRows.
func FromStringRows(rows [][]string) (*Matrix, error) {
	grid := make([][]Entry, len(rows))
	for i, row := range rows {
		grid[i] = make([]Entry, len(row))
		for j, cell := range row {
			e, err := ParseEntry(cell)
			if err != nil {
				return nil, fmt.Errorf("dqi row %d col %d: %w", i, j, err)
			}
			grid[i][j] = e
		}
	}
	return fromGrid(grid)
}

// AggregateColumns reduces every row to a single entry, weighting column j of
// row i by base(i,j)·factors[j]. factors may be nil. The result is rows×1.
func (m *Matrix) AggregateColumns(base matrix.Matrix, factors []float64) (*Matrix, error) {
	return m.AggregateColumnsFunc(base, factors, WeightedAvg)
}

// AggregateColumnsFunc is AggregateColumns with an explicit aggregation rule.
func (m *Matrix) AggregateColumnsFunc(base matrix.Matrix, factors []float64, fn AggFunc) (*Matrix, error) {
	if err := matrix.ValidateNotNil(base); err != nil {
		return nil, err
	}
	if base.Rows() != m.rows || base.Cols() != m.cols {
		return nil, fmt.Errorf("AggregateColumns: %w", ErrShape)
	}
	if factors != nil && len(factors) != m.cols {
		return nil, fmt.Errorf("AggregateColumns factors: %w", ErrShape)
	}

	out := NewMatrix(m.rows, 1)
	weights := make([]float64, m.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			w, err := base.At(i, j)
			if err != nil {
				return nil, err
			}
			if factors != nil {
				w *= factors[j]
			}
			weights[j] = w
		}
		out.Set(i, 0, AggregateEntries(m.Row(i), weights, fn))
	}
	return out, nil
}

// AggregateMmult propagates the stored entries through the product a·b.
// For output cell (i,j) the weights are a(i,k)·b(k,j) over the inner
// dimension k; the aggregated entries are row i of m when left is true
// (m shaped like a) and column j of m otherwise (m shaped like b).
func (m *Matrix) AggregateMmult(a, b matrix.Matrix, left bool) (*Matrix, error) {
	return m.AggregateMmultFunc(a, b, left, WeightedAvg)
}

// AggregateMmultFunc is AggregateMmult with an explicit aggregation rule.
func (m *Matrix) AggregateMmultFunc(a, b matrix.Matrix, left bool, fn AggFunc) (*Matrix, error) {
	if err := matrix.ValidateMulCompatible(a, b); err != nil {
		return nil, fmt.Errorf("AggregateMmult: %w", err)
	}
	rows, inner, cols := a.Rows(), a.Cols(), b.Cols()
	if left && (m.rows != rows || m.cols != inner) {
		return nil, fmt.Errorf("AggregateMmult left %dx%d vs %dx%d: %w", m.rows, m.cols, rows, inner, ErrShape)
	}
	if !left && (m.rows != inner || m.cols != cols) {
		return nil, fmt.Errorf("AggregateMmult right %dx%d vs %dx%d: %w", m.rows, m.cols, inner, cols, ErrShape)
	}

	da, err := denseOf(a)
	if err != nil {
		return nil, err
	}
	db, err := denseOf(b)
	if err != nil {
		return nil, err
	}

	out := NewMatrix(rows, cols)
	weights := make([]float64, inner)
	for i := 0; i < rows; i++ {
		aRow := da.RawRowView(i)
		var rowEntries []Entry
		if left {
			rowEntries = m.Row(i)
		}
		for j := 0; j < cols; j++ {
			for k := 0; k < inner; k++ {
				weights[k] = aRow[k] * db.RawRowView(k)[j]
			}
			entries := rowEntries
			if !left {
				entries = m.Col(j)
			}
			out.Set(i, j, AggregateEntries(entries, weights, fn))
		}
	}
	return out, nil
}

func denseOf(x matrix.Matrix) (*matrix.Dense, error) {
	if d, ok := x.(*matrix.Dense); ok {
		return d, nil
	}
	d, err := matrix.NewDense(x.Rows(), x.Cols())
	if err != nil {
		return nil, err
	}
	for i := 0; i < x.Rows(); i++ {
		row := d.RawRowView(i)
		for j := range row {
			if row[j], err = x.At(i, j); err != nil {
				return nil, err
			}
		}
	}
	return d, nil
}
