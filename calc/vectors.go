// SPDX-License-Identifier: MIT

package calc

import (
	"fmt"
	"sort"
	"strings"

	"github.com/katalvlaran/eeio/internal/logging"
	"github.com/katalvlaran/eeio/keyed"
	"github.com/katalvlaran/eeio/matrix"
)

// DemandVector maps demand onto the row order of a. Keys are lower-cased;
// zero amounts are skipped and unknown keys are logged and dropped. Keys that
// differ only in case do not add up: the last one in sorted order wins.
func DemandVector(a *keyed.Matrix, demand map[string]float64, log logging.Logger) []float64 {
	log = logging.OrDefault(log)
	v := make([]float64, a.Rows())
	keys := make([]string, 0, len(demand))
	for k := range demand {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		val := demand[key]
		if val == 0 {
			continue
		}
		k := strings.ToLower(key)
		i, ok := a.RowIndex().Lookup(k)
		if !ok {
			log.Warn("demand sector not in A", logging.String("sector", k))
			continue
		}
		v[i] = val
	}
	return v
}

// ScalingVector returns s = L·d, summing only the columns of non-zero demand.
func ScalingVector(l *keyed.Matrix, d []float64) ([]float64, error) {
	if err := matrix.ValidateVecLen(d, l.Cols()); err != nil {
		return nil, fmt.Errorf("calc: scaling vector: %w", err)
	}
	dense := l.Dense()
	s := make([]float64, l.Rows())
	for j, dj := range d {
		if dj == 0 {
			continue
		}
		for i := range s {
			s[i] += dj * dense.RawRowView(i)[j]
		}
	}
	return s, nil
}

// ScaleColumns returns m·diag(v) with m's keys.
func ScaleColumns(m *keyed.Matrix, v []float64) (*keyed.Matrix, error) {
	d, err := matrix.ScaleColumns(m.Dense(), v)
	if err != nil {
		return nil, fmt.Errorf("calc: %w", err)
	}
	return m.WithDense(d)
}

// MatVec returns m·v as a single column keyed TotalKey.
func MatVec(m *keyed.Matrix, v []float64) (*keyed.Matrix, error) {
	y, err := matrix.MatVec(m.Dense(), v)
	if err != nil {
		return nil, fmt.Errorf("calc: %w", err)
	}
	return column(m.RowKeys(), y)
}

// RowTotals sums every row of m into a single column keyed TotalKey.
func RowTotals(m *keyed.Matrix) (*keyed.Matrix, error) {
	sums, err := matrix.RowSums(m.Dense())
	if err != nil {
		return nil, fmt.Errorf("calc: %w", err)
	}
	return column(m.RowKeys(), sums)
}

func column(keys []string, v []float64) (*keyed.Matrix, error) {
	out, err := keyed.New(keys, []string{TotalKey})
	if err != nil {
		return nil, err
	}
	d := out.Dense()
	for i, x := range v {
		d.RawRowView(i)[0] = x
	}
	return out, nil
}
