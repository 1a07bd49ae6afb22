// SPDX-License-Identifier: MIT

// Package ia holds characterization factors of impact assessment methods:
// impact categories on rows, elementary flows on columns.
//
// A repeated (category, flow) pair replaces the earlier factor; factors are
// method constants and are not accumulated.
package ia

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/katalvlaran/eeio/internal/logging"
	"github.com/katalvlaran/eeio/keyed"
	"github.com/katalvlaran/eeio/ref"
)

// ErrRow marks an impact assessment row that cannot be read.
var ErrRow = errors.New("ia: invalid row")

const colFactor = 8

// Header is the column header of exported impact assessment rows.
var Header = []string{
	"Method", "Category", "Reference unit", "Flow name", "Flow category",
	"Flow sub-category", "Flow unit", "Flow UUID", "Factor",
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger of the builder and of its tables.
func WithLogger(l logging.Logger) Option {
	return func(b *Builder) { b.log = l }
}

type factorCell struct{ category, flow int }

type store struct {
	categories  []ref.ImpactCategory
	categoryIdx map[string]int
	flows       []ref.ElemFlow
	flowIdx     map[string]int
	factors     map[factorCell]float64
}

func (s *store) clone() store {
	out := store{
		categories:  append([]ref.ImpactCategory(nil), s.categories...),
		categoryIdx: make(map[string]int, len(s.categoryIdx)),
		flows:       append([]ref.ElemFlow(nil), s.flows...),
		flowIdx:     make(map[string]int, len(s.flowIdx)),
		factors:     make(map[factorCell]float64, len(s.factors)),
	}
	for k, v := range s.categoryIdx {
		out.categoryIdx[k] = v
	}
	for k, v := range s.flowIdx {
		out.flowIdx[k] = v
	}
	for k, v := range s.factors {
		out.factors[k] = v
	}
	return out
}

// Builder collects characterization factors from one or more sources.
type Builder struct {
	store store
	log   logging.Logger
}

// NewBuilder returns an empty builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{store: store{
		categoryIdx: make(map[string]int),
		flowIdx:     make(map[string]int),
		factors:     make(map[factorCell]float64),
	}}
	for _, o := range opts {
		o(b)
	}
	b.log = logging.OrDefault(b.log).Named("ia")
	return b
}

// AddSource adds impact assessment rows (header already removed).
func (b *Builder) AddSource(rows [][]string) error {
	for i, row := range rows {
		if err := b.AddRow(row); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return nil
}

// AddRow adds one row: group, code, reference unit, flow fields, factor.
func (b *Builder) AddRow(row []string) error {
	raw := ref.Field(row, colFactor)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("%w: factor %q", ErrRow, raw)
	}
	b.Put(ref.ImpactCategoryFromIARow(row), ref.FlowFromIARow(row), v)
	return nil
}

// Put stores the factor of flow in category.
func (b *Builder) Put(c ref.ImpactCategory, f ref.ElemFlow, factor float64) {
	s := &b.store
	ck := c.Key()
	i, ok := s.categoryIdx[ck]
	if !ok {
		i = len(s.categories)
		s.categoryIdx[ck] = i
		s.categories = append(s.categories, c)
		b.log.Debug("impact category", logging.Int("index", i), logging.String("key", ck))
	}
	fk := f.Key()
	j, ok := s.flowIdx[fk]
	if !ok {
		j = len(s.flows)
		s.flowIdx[fk] = j
		s.flows = append(s.flows, f)
	}
	s.factors[factorCell{i, j}] = factor
}

// Build returns an immutable snapshot of the collected factors.
func (b *Builder) Build() *Table {
	return &Table{store: b.store.clone(), log: b.log}
}

// Table is a finished characterization factor table.
type Table struct {
	store
	log logging.Logger
}

// Categories returns the impact categories in row order.
func (t *Table) Categories() []ref.ImpactCategory {
	return append([]ref.ImpactCategory(nil), t.categories...)
}

// Flows returns the flows in column order.
func (t *Table) Flows() []ref.ElemFlow { return append([]ref.ElemFlow(nil), t.flows...) }

// CategoryKeys returns the category keys in row order.
func (t *Table) CategoryKeys() []string {
	out := make([]string, len(t.categories))
	for i, c := range t.categories {
		out[i] = c.Key()
	}
	return out
}

// FlowKeys returns the flow keys in column order.
func (t *Table) FlowKeys() []string {
	out := make([]string, len(t.flows))
	for i, f := range t.flows {
		out[i] = f.Key()
	}
	return out
}

// GetFlow returns the flow stored under key.
func (t *Table) GetFlow(key string) (ref.ElemFlow, bool) {
	j, ok := t.flowIdx[key]
	if !ok {
		return ref.ElemFlow{}, false
	}
	return t.flows[j], true
}

// GetCategory returns the impact category stored under key.
func (t *Table) GetCategory(key string) (ref.ImpactCategory, bool) {
	i, ok := t.categoryIdx[key]
	if !ok {
		return ref.ImpactCategory{}, false
	}
	return t.categories[i], true
}

// Factor returns the characterization factor of flow in category, or 0.
func (t *Table) Factor(c ref.ImpactCategory, f ref.ElemFlow) float64 {
	i, ok := t.categoryIdx[c.Key()]
	if !ok {
		return 0
	}
	j, ok := t.flowIdx[f.Key()]
	if !ok {
		return 0
	}
	return t.factors[factorCell{i, j}]
}

// Len is the number of stored factors.
func (t *Table) Len() int { return len(t.factors) }

// AsMatrix projects the factors into a keyed matrix (category keys on rows,
// flow keys on columns).
func (t *Table) AsMatrix() *keyed.Matrix {
	m, err := keyed.New(t.CategoryKeys(), t.FlowKeys())
	if err != nil {
		panic(err)
	}
	d := m.Dense()
	for c, v := range t.factors {
		d.RawRowView(c.category)[c.flow] = v
	}
	return m
}

// MatrixFor projects the factors onto the given flow keys, usually the rows of
// the satellite matrix. Flows without factors get zero columns; flows of this
// table that are not in flowKeys are reported as unmatched.
func (t *Table) MatrixFor(flowKeys []string) (*keyed.Matrix, error) {
	m, err := t.AsMatrix().ReindexCols(flowKeys)
	if err != nil {
		return nil, err
	}
	want := make(map[string]struct{}, len(flowKeys))
	for _, k := range flowKeys {
		want[k] = struct{}{}
	}
	for _, f := range t.flows {
		if _, ok := want[f.Key()]; !ok {
			t.log.Debug("characterized flow not in satellite", logging.String("flow", f.Key()))
		}
	}
	return m, nil
}

// WithFlowIDs returns a copy whose flows carry the identifiers in ids
// (flow key → id).
func (t *Table) WithFlowIDs(ids map[string]string) *Table {
	out := &Table{store: t.clone(), log: t.log}
	for j, f := range out.flows {
		if id, ok := ids[f.Key()]; ok {
			f.UID = id
			out.flows[j] = f
		}
	}
	return out
}

// Rows renders the factors as impact assessment rows in row-major order.
func (t *Table) Rows() [][]string {
	out := make([][]string, 0, len(t.factors))
	for i, c := range t.categories {
		for j, f := range t.flows {
			v, ok := t.factors[factorCell{i, j}]
			if !ok {
				continue
			}
			out = append(out, []string{
				c.Group, c.Code, c.RefUnit, f.Name, f.Category, f.SubCategory,
				f.Unit, f.UID, strconv.FormatFloat(v, 'g', -1, 64),
			})
		}
	}
	return out
}
