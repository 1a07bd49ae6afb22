// SPDX-License-Identifier: MIT

// Package csvio reads and writes the CSV files of a model: trimmed row
// iteration for satellite, impact assessment and reference data, dense keyed
// tables (make, use and A matrices) and DQI grids.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/katalvlaran/eeio/dqi"
	"github.com/katalvlaran/eeio/keyed"
	"github.com/katalvlaran/eeio/matrix"
)

// ErrEmpty is returned when a keyed table has no header row.
var ErrEmpty = errors.New("csvio: empty table")

// RowFunc receives a trimmed row and its 1-based line number.
type RowFunc func(row []string, line int) error

// EachRow calls fn for every record of r with all fields trimmed. Records
// may have any number of fields. With skipHeader the first record is
// dropped; blank records are skipped.
func EachRow(r io.Reader, skipHeader bool, fn RowFunc) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	for n := 1; ; n++ {
		rec, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("csvio: %w", err)
		}
		if n == 1 && skipHeader {
			continue
		}
		blank := true
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
			if rec[i] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		line, _ := cr.FieldPos(0)
		if err := fn(rec, line); err != nil {
			return err
		}
	}
}

// ReadRows collects all rows of r (see EachRow).
func ReadRows(r io.Reader, skipHeader bool) ([][]string, error) {
	var out [][]string
	err := EachRow(r, skipHeader, func(row []string, _ int) error {
		out = append(out, row)
		return nil
	})
	return out, err
}

// ReadRowsFile is ReadRows over a file.
func ReadRowsFile(path string, skipHeader bool) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rows, err := ReadRows(f, skipHeader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// KeyFunc normalizes row and column labels of a keyed table.
type KeyFunc func(string) string

// LowerKey trims and lower-cases a label, the form of sector keys.
func LowerKey(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// ReadKeyed reads a dense table: the header holds the column keys after an
// ignored corner cell, every following row a row key and its values. Empty
// cells are zero. key may be nil, labels are trimmed either way.
func ReadKeyed(r io.Reader, key KeyFunc) (*keyed.Matrix, error) {
	if key == nil {
		key = strings.TrimSpace
	}
	rows, err := ReadRows(r, false)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmpty
	}
	cols := make([]string, 0, len(rows[0]))
	for _, c := range rows[0][1:] {
		cols = append(cols, key(c))
	}
	rowKeys := make([]string, 0, len(rows)-1)
	data := make([][]float64, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row)-1 > len(cols) {
			return nil, fmt.Errorf("csvio: row %d has %d values for %d columns: %w",
				i+2, len(row)-1, len(cols), matrix.ErrDimensionMismatch)
		}
		rowKeys = append(rowKeys, key(row[0]))
		vals := make([]float64, len(cols))
		for j, cell := range row[1:] {
			if cell == "" {
				continue
			}
			if vals[j], err = strconv.ParseFloat(cell, 64); err != nil {
				return nil, fmt.Errorf("csvio: row %d col %d: %w", i+2, j+2, err)
			}
		}
		data = append(data, vals)
	}
	d, err := matrix.NewDense(len(rowKeys), len(cols))
	if err != nil {
		return nil, err
	}
	for i, vals := range data {
		copy(d.RawRowView(i), vals)
	}
	return keyed.FromDense(rowKeys, cols, d)
}

// ReadKeyedFile is ReadKeyed over a file.
func ReadKeyedFile(path string, key KeyFunc) (*keyed.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := ReadKeyed(f, key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// WriteKeyed writes m in the layout read by ReadKeyed.
func WriteKeyed(w io.Writer, m *keyed.Matrix) error {
	header := append([]string{""}, m.ColKeys()...)
	rows := make([][]string, m.Rows())
	for i, k := range m.RowKeys() {
		row := make([]string, 0, m.Cols()+1)
		row = append(row, k)
		for _, v := range m.Dense().RawRowView(i) {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		rows[i] = row
	}
	return WriteRows(w, header, rows)
}

// WriteRows writes an optional header and the rows.
func WriteRows(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if header != nil {
		if err := cw.Write(header); err != nil {
			return err
		}
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("csvio: %w", err)
	}
	return nil
}

// WriteRowsFile writes header and rows to a new file at path.
func WriteRowsFile(path string, header []string, rows [][]string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteRows(f, header, rows)
}

// WriteDQI writes one record per matrix row, each cell as "(1,2,3)" or "(none)".
func WriteDQI(w io.Writer, m *dqi.Matrix) error {
	return WriteRows(w, nil, m.StringRows())
}

// ReadDQI reads the layout written by WriteDQI.
func ReadDQI(r io.Reader) (*dqi.Matrix, error) {
	rows, err := ReadRows(r, false)
	if err != nil {
		return nil, err
	}
	return dqi.FromStringRows(rows)
}
