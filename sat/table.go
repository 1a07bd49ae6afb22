// SPDX-License-Identifier: MIT

package sat

import (
	"sort"

	"github.com/katalvlaran/eeio/dqi"
	"github.com/katalvlaran/eeio/internal/logging"
	"github.com/katalvlaran/eeio/keyed"
	"github.com/katalvlaran/eeio/ref"
)

// Table is a finished satellite table: flows on rows, sectors on columns.
// Positions follow the first occurrence of each key.
type Table struct {
	store
	log logging.Logger
}

// Flows returns the flows in row order.
func (t *Table) Flows() []ref.ElemFlow { return append([]ref.ElemFlow(nil), t.flows...) }

// Sectors returns the sectors in column order.
func (t *Table) Sectors() []ref.Sector { return append([]ref.Sector(nil), t.sectors...) }

// FlowKeys returns the flow keys in row order.
func (t *Table) FlowKeys() []string {
	out := make([]string, len(t.flows))
	for i, f := range t.flows {
		out[i] = f.Key()
	}
	return out
}

// SectorKeys returns the sector keys in column order.
func (t *Table) SectorKeys() []string {
	out := make([]string, len(t.sectors))
	for i, s := range t.sectors {
		out[i] = s.Key()
	}
	return out
}

// GetFlow returns the flow stored under key.
func (t *Table) GetFlow(key string) (ref.ElemFlow, bool) {
	i, ok := t.flowIdx[key]
	if !ok {
		return ref.ElemFlow{}, false
	}
	return t.flows[i], true
}

// GetSector returns the sector stored under key.
func (t *Table) GetSector(key string) (ref.Sector, bool) {
	i, ok := t.sectorIdx[key]
	if !ok {
		return ref.Sector{}, false
	}
	return t.sectors[i], true
}

// Len is the number of non-empty cells.
func (t *Table) Len() int { return len(t.entries) }

// TryEntry returns the entry of a cell and whether it exists.
func (t *Table) TryEntry(flowKey, sectorKey string) (Entry, bool) {
	fi, ok := t.flowIdx[flowKey]
	if !ok {
		return Entry{}, false
	}
	si, ok := t.sectorIdx[sectorKey]
	if !ok {
		return Entry{}, false
	}
	e, ok := t.entries[cell{fi, si}]
	return e, ok
}

// GetEntry returns the entry of a cell, or the empty entry. Unknown flow or
// sector keys are logged; an empty cell of known keys is not.
func (t *Table) GetEntry(flowKey, sectorKey string) Entry {
	if _, ok := t.flowIdx[flowKey]; !ok {
		t.log.Warn("unknown flow", logging.String("flow", flowKey))
		return Entry{}
	}
	if _, ok := t.sectorIdx[sectorKey]; !ok {
		t.log.Warn("unknown sector", logging.String("sector", sectorKey))
		return Entry{}
	}
	e, _ := t.TryEntry(flowKey, sectorKey)
	return e
}

// Each visits every non-empty cell in row-major order.
func (t *Table) Each(fn func(f ref.ElemFlow, s ref.Sector, e Entry)) {
	for _, c := range t.cells() {
		fn(t.flows[c.flow], t.sectors[c.sector], t.entries[c])
	}
}

func (t *Table) cells() []cell {
	out := make([]cell, 0, len(t.entries))
	for c := range t.entries {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].flow != out[j].flow {
			return out[i].flow < out[j].flow
		}
		return out[i].sector < out[j].sector
	})
	return out
}

// AsMatrix projects the entry values into a keyed matrix with flow keys on
// rows and sector keys on columns.
func (t *Table) AsMatrix() *keyed.Matrix {
	m, err := keyed.New(t.FlowKeys(), t.SectorKeys())
	if err != nil {
		// keys come from unique maps
		panic(err)
	}
	d := m.Dense()
	for c, e := range t.entries {
		d.RawRowView(c.flow)[c.sector] = e.Value
	}
	return m
}

// DQIMatrix projects the entry data quality onto the given axes. Cells whose
// flow or sector is not in the table stay empty.
func (t *Table) DQIMatrix(flowKeys, sectorKeys []string) *dqi.Matrix {
	out := dqi.NewMatrix(len(flowKeys), len(sectorKeys))
	for i, fk := range flowKeys {
		for j, sk := range sectorKeys {
			if e, ok := t.TryEntry(fk, sk); ok && e.DQ != nil {
				out.Set(i, j, append(dqi.Entry(nil), e.DQ...))
			}
		}
	}
	return out
}

// WithFlowIDs returns a copy whose flows carry the identifiers in ids
// (flow key → id). Flows not in ids keep their identifier.
func (t *Table) WithFlowIDs(ids map[string]string) *Table {
	out := &Table{store: t.clone(), log: t.log}
	for i, f := range out.flows {
		if id, ok := ids[f.Key()]; ok {
			f.UID = id
			out.flows[i] = f
		}
	}
	return out
}

// Rows renders the table as satellite rows (see Header), one per cell in
// row-major order.
func (t *Table) Rows() [][]string {
	cells := t.cells()
	out := make([][]string, len(cells))
	for n, c := range cells {
		f, s := t.flows[c.flow], t.sectors[c.sector]
		row := make([]string, RowWidth)
		row[0], row[1], row[2], row[3], row[4] = f.Name, f.CAS, f.Category, f.SubCategory, f.UID
		row[5], row[6], row[7] = s.Name, s.Code, s.Location
		row[9] = f.Unit
		t.entries[c].fields(row)
		out[n] = row
	}
	return out
}

// Merge combines independently built tables. Keys are positioned by first
// occurrence in argument order and cells are merged in argument order, so the
// result equals a single builder fed with the same sources in the same order.
func Merge(tables ...*Table) *Table {
	st := newStore()
	var log logging.Logger
	for _, t := range tables {
		if t == nil {
			continue
		}
		if log == nil {
			log = t.log
		}
		for _, f := range t.flows {
			st.flowPos(f)
		}
		for _, s := range t.sectors {
			st.sectorPos(s)
		}
		for _, c := range t.cells() {
			st.put(t.flows[c.flow], t.sectors[c.sector], t.entries[c])
		}
	}
	if log == nil {
		log = logging.Default().Named("sat")
	}
	return &Table{store: st, log: log}
}
