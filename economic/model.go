// SPDX-License-Identifier: MIT

// Package economic derives the direct requirements coefficients of a
// commodity × commodity input-output model from make and use tables.
//
// Tables:
//
//	make: industries (rows) × commodities (columns)
//	use:  commodities and value added (rows) × industries and final demand (columns)
//
// Sector sets are derived from the labels: final demand sectors are use
// columns that are not make rows, value added sectors are use rows that are
// not make columns. Scrap sectors are removed from the commodities and
// corrected for through the non-scrap ratio of every industry.
//
// Every division by a zero total yields 0; the only failure of the numeric
// path is a singular I−A in TRCoefficients.
package economic

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/katalvlaran/eeio/calc"
	"github.com/katalvlaran/eeio/internal/logging"
	"github.com/katalvlaran/eeio/keyed"
	"github.com/katalvlaran/eeio/matrix"
)

// ErrNilTable is returned when the make or use table is missing.
var ErrNilTable = errors.New("economic: nil make or use table")

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the model logger.
func WithLogger(l logging.Logger) Option {
	return func(m *Model) { m.log = l }
}

// Model is an economic model over a make and a use table. The tables are
// read-only inputs and are never modified.
type Model struct {
	use   *keyed.Matrix
	mk    *keyed.Matrix
	scrap []string // make columns treated as scrap

	commodities []string
	industries  []string

	log logging.Logger
}

// New creates a model. Scrap sector names are matched against the make table
// columns after trimming and lower-casing both sides.
func New(use, mk *keyed.Matrix, scrap []string, opts ...Option) (*Model, error) {
	if use == nil || mk == nil {
		return nil, ErrNilTable
	}
	m := &Model{use: use, mk: mk}
	for _, o := range opts {
		o(m)
	}
	m.log = logging.OrDefault(m.log).Named("economic")

	wanted := make(map[string]bool, len(scrap))
	for _, s := range scrap {
		wanted[norm(s)] = false
	}
	for _, c := range mk.ColKeys() {
		if _, ok := wanted[norm(c)]; ok {
			wanted[norm(c)] = true
			m.scrap = append(m.scrap, c)
		}
	}
	for _, s := range scrap {
		if !wanted[norm(s)] {
			m.log.Warn("scrap sector not in make table", logging.String("sector", s))
		}
	}

	isScrap := make(map[string]bool, len(m.scrap))
	for _, s := range m.scrap {
		isScrap[s] = true
	}
	for _, c := range mk.ColKeys() {
		if use.RowIndex().Contains(c) && !isScrap[c] {
			m.commodities = append(m.commodities, c)
		}
	}
	sort.Strings(m.commodities)
	for _, i := range mk.RowKeys() {
		if use.ColIndex().Contains(i) {
			m.industries = append(m.industries, i)
		}
	}
	sort.Strings(m.industries)

	m.log.Debug("economic model",
		logging.Int("commodities", len(m.commodities)),
		logging.Int("industries", len(m.industries)),
		logging.Strings("scrap", m.scrap))
	return m, nil
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// FinalDemandSectors returns the use columns that are not make rows, in use
// table order.
func (m *Model) FinalDemandSectors() []string {
	return missing(m.use.ColKeys(), m.mk.RowIndex())
}

// ValueAddedSectors returns the use rows that are not make columns, in use
// table order.
func (m *Model) ValueAddedSectors() []string {
	return missing(m.use.RowKeys(), m.mk.ColIndex())
}

func missing(keys []string, in *keyed.Index) []string {
	var out []string
	for _, k := range keys {
		if !in.Contains(k) {
			out = append(out, k)
		}
	}
	return out
}

// Commodities returns the sorted make columns that are use rows, without
// scrap sectors.
func (m *Model) Commodities() []string { return append([]string(nil), m.commodities...) }

// Industries returns the sorted make rows that are use columns.
func (m *Model) Industries() []string { return append([]string(nil), m.industries...) }

// ScrapSectors returns the make columns matched as scrap.
func (m *Model) ScrapSectors() []string { return append([]string(nil), m.scrap...) }

// MarketShares returns the industry × commodity matrix of each industry's
// share in the total make table output of a commodity.
func (m *Model) MarketShares() *keyed.Matrix {
	m.log.Debug("calculate market shares")
	totals := colTotals(m.mk)
	out, _ := m.mk.Reindex(m.industries, m.commodities)
	d := out.Dense()
	for j, com := range m.commodities {
		total := totals[com]
		for i := range m.industries {
			row := d.RawRowView(i)
			row[j] = safeDiv(row[j], total)
		}
	}
	return out
}

// NonScrapRatios returns, aligned with Industries, the share of each
// industry's make output that is not scrap. Without scrap sectors every ratio
// is 1; an industry without output has ratio 0.
func (m *Model) NonScrapRatios() []float64 {
	out := make([]float64, len(m.industries))
	if len(m.scrap) == 0 {
		for i := range out {
			out[i] = 1
		}
		return out
	}
	for i, ind := range m.industries {
		row := m.mk.Row(ind)
		var total float64
		for _, v := range row {
			total += v
		}
		if total == 0 {
			continue
		}
		var scrap float64
		for _, s := range m.scrap {
			scrap += m.mk.GetOrZero(ind, s)
		}
		out[i] = (total - scrap) / total
	}
	return out
}

// TransformationMatrix returns the market shares divided by the non-scrap
// ratio of their industry; without scrap sectors it equals MarketShares.
func (m *Model) TransformationMatrix() *keyed.Matrix {
	m.log.Debug("calculate transformation matrix")
	shares := m.MarketShares()
	if len(m.scrap) == 0 {
		return shares
	}
	ratios := m.NonScrapRatios()
	d := shares.Dense()
	for i, r := range ratios {
		row := d.RawRowView(i)
		for j := range row {
			row[j] = safeDiv(row[j], r)
		}
	}
	return shares
}

// DirectRequirements returns the commodity × industry matrix of use table
// inputs per unit of total industry input (value added included).
func (m *Model) DirectRequirements() *keyed.Matrix {
	m.log.Debug("calculate direct requirements")
	totals := colTotals(m.use)
	out, _ := m.use.Reindex(m.commodities, m.industries)
	d := out.Dense()
	for i := range m.commodities {
		row := d.RawRowView(i)
		for j, ind := range m.industries {
			row[j] = safeDiv(row[j], totals[ind])
		}
	}
	return out
}

// DRCoefficients returns A = DirectRequirements · TransformationMatrix, the
// commodity × commodity direct requirements coefficients.
func (m *Model) DRCoefficients() (*keyed.Matrix, error) {
	m.log.Debug("calculate direct requirements coefficients")
	a, err := keyed.Mul(m.DirectRequirements(), m.TransformationMatrix())
	if err != nil {
		return nil, fmt.Errorf("economic: DRCoefficients: %w", err)
	}
	return a, nil
}

// TRCoefficients returns the total requirements (I−A)⁻¹. A singular system
// yields an error wrapping matrix.ErrSingular.
func (m *Model) TRCoefficients() (*keyed.Matrix, error) {
	a, err := m.DRCoefficients()
	if err != nil {
		return nil, err
	}
	return calc.LeontiefInverse(a)
}

// CoefficientsFromTables builds a model and returns its A matrix.
func CoefficientsFromTables(mk, use *keyed.Matrix, scrap []string, opts ...Option) (*keyed.Matrix, error) {
	m, err := New(use, mk, scrap, opts...)
	if err != nil {
		return nil, err
	}
	return m.DRCoefficients()
}

func colTotals(t *keyed.Matrix) map[string]float64 {
	sums, _ := matrix.ColSums(t.Dense())
	out := make(map[string]float64, len(sums))
	for j, k := range t.ColKeys() {
		out[k] = sums[j]
	}
	return out
}

func safeDiv(v, total float64) float64 {
	if total == 0 {
		return 0
	}
	return v / total
}
