// SPDX-License-Identifier: MIT

package sat

import (
	"fmt"

	"github.com/katalvlaran/eeio/internal/logging"
	"github.com/katalvlaran/eeio/ref"
)

// Option configures a Builder.
type Option func(*options)

type options struct {
	log logging.Logger
}

// WithLogger sets the logger of the builder and of the tables it produces.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.log = l }
}

func newOptions(opts []Option) options {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	o.log = logging.OrDefault(o.log).Named("sat")
	return o
}

// cell addresses an entry by flow and sector position.
type cell struct{ flow, sector int }

// store is the shared state of Builder and Table.
type store struct {
	flows     []ref.ElemFlow
	flowIdx   map[string]int
	sectors   []ref.Sector
	sectorIdx map[string]int
	entries   map[cell]Entry
}

func newStore() store {
	return store{
		flowIdx:   make(map[string]int),
		sectorIdx: make(map[string]int),
		entries:   make(map[cell]Entry),
	}
}

func (s *store) flowPos(f ref.ElemFlow) int {
	k := f.Key()
	if i, ok := s.flowIdx[k]; ok {
		return i
	}
	s.flowIdx[k] = len(s.flows)
	s.flows = append(s.flows, f)
	return len(s.flows) - 1
}

func (s *store) sectorPos(sec ref.Sector) int {
	k := sec.Key()
	if i, ok := s.sectorIdx[k]; ok {
		return i
	}
	s.sectorIdx[k] = len(s.sectors)
	s.sectors = append(s.sectors, sec)
	return len(s.sectors) - 1
}

// put merges e into the cell of (flow, sector), inserting keys on first use.
func (s *store) put(f ref.ElemFlow, sec ref.Sector, e Entry) {
	c := cell{flow: s.flowPos(f), sector: s.sectorPos(sec)}
	if prior, ok := s.entries[c]; ok {
		e = prior.Merge(e)
	}
	s.entries[c] = e
}

func (s *store) clone() store {
	out := store{
		flows:     append([]ref.ElemFlow(nil), s.flows...),
		flowIdx:   make(map[string]int, len(s.flowIdx)),
		sectors:   append([]ref.Sector(nil), s.sectors...),
		sectorIdx: make(map[string]int, len(s.sectorIdx)),
		entries:   make(map[cell]Entry, len(s.entries)),
	}
	for k, v := range s.flowIdx {
		out.flowIdx[k] = v
	}
	for k, v := range s.sectorIdx {
		out.sectorIdx[k] = v
	}
	for k, v := range s.entries {
		v.DQ = append(v.DQ[:0:0], v.DQ...)
		out.entries[k] = v
	}
	return out
}

// Builder accumulates satellite entries from one or more sources. It is not
// safe for concurrent use; build one per goroutine and combine the tables
// with Merge.
type Builder struct {
	opts  options
	store store
	rows  int
}

// NewBuilder returns an empty builder.
func NewBuilder(opts ...Option) *Builder {
	return &Builder{opts: newOptions(opts), store: newStore()}
}

// AddSource adds satellite rows (header already removed). Rows are applied in
// order; on error the rows before the failing one stay applied.
func (b *Builder) AddSource(rows [][]string) error {
	for i, row := range rows {
		if err := b.AddRow(row); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return nil
}

// AddRow adds a single satellite row.
func (b *Builder) AddRow(row []string) error {
	e, err := EntryFromRow(row)
	if err != nil {
		return err
	}
	b.AddEntry(ref.FlowFromSatelliteRow(row), ref.SectorFromSatelliteRow(row), e)
	return nil
}

// AddEntry merges e into the (flow, sector) cell. The first occurrence of a
// flow or sector fixes its metadata and position.
func (b *Builder) AddEntry(flow ref.ElemFlow, sector ref.Sector, e Entry) {
	b.store.put(flow, sector, e)
	b.rows++
}

// Len is the number of entries added so far, merged or not.
func (b *Builder) Len() int { return b.rows }

// Build returns an immutable snapshot; the builder stays usable.
func (b *Builder) Build() *Table {
	t := &Table{store: b.store.clone(), log: b.opts.log}
	b.opts.log.Debug("satellite table built",
		logging.Int("flows", len(t.flows)),
		logging.Int("sectors", len(t.sectors)),
		logging.Int("entries", len(t.entries)),
		logging.Int("rows", b.rows))
	return t
}
