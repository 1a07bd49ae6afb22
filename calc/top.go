// SPDX-License-Identifier: MIT

package calc

import (
	"sort"

	"github.com/katalvlaran/eeio/keyed"
)

// OthersKey labels the remainder of a top-N selection.
const OthersKey = "Others"

// Contribution is a keyed share of a result.
type Contribution struct {
	Key   string
	Value float64
}

// TopOfRow returns the count largest values of row key in m, in descending
// order, followed by an OthersKey entry with the sum of the remaining values.
// It returns nil when the row does not exist.
func TopOfRow(m *keyed.Matrix, key string, count int) []Contribution {
	v := m.Row(key)
	if v == nil {
		return nil
	}
	return top(m.ColKeys(), v, count)
}

// TopOfCol is TopOfRow over column key.
func TopOfCol(m *keyed.Matrix, key string, count int) []Contribution {
	v := m.Col(key)
	if v == nil {
		return nil
	}
	return top(m.RowKeys(), v, count)
}

func top(keys []string, values []float64, count int) []Contribution {
	all := make([]Contribution, len(values))
	var total float64
	for i, x := range values {
		all[i] = Contribution{Key: keys[i], Value: x}
		total += x
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Value > all[j].Value })
	if count < 0 {
		count = 0
	}
	if count > len(all) {
		count = len(all)
	}
	out := append([]Contribution(nil), all[:count]...)
	var sum float64
	for _, c := range out {
		sum += c.Value
	}
	return append(out, Contribution{Key: OthersKey, Value: total - sum})
}
