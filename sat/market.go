// SPDX-License-Identifier: MIT

package sat

import (
	"fmt"

	"github.com/katalvlaran/eeio/internal/logging"
	"github.com/katalvlaran/eeio/keyed"
	"github.com/katalvlaran/eeio/ref"
)

// ApplyMarketShares converts an industry based table into a commodity based
// one. shares is the industry × commodity market share matrix; sectors
// supplies the metadata of the commodity columns.
//
// For every commodity c and every industry i with a non-zero share s(i,c),
// each entry of industry i is scaled by s(i,c) and merged into column c. The
// receiver is not modified.
//
// Commodities without metadata in sectors are skipped with a warning;
// industries without satellite data contribute nothing.
func (t *Table) ApplyMarketShares(shares *keyed.Matrix, sectors *ref.SectorMap) (*Table, error) {
	if shares == nil {
		return nil, fmt.Errorf("sat: ApplyMarketShares: nil market shares")
	}
	if sectors == nil {
		sectors = ref.NewSectorMap()
	}

	// Entries by industry column, in flow order.
	byIndustry := make(map[int][]cell)
	for _, c := range t.cells() {
		byIndustry[c.sector] = append(byIndustry[c.sector], c)
	}

	st := newStore()
	industries := shares.RowKeys()
	for _, ck := range shares.ColKeys() {
		commodity, ok := sectors.Get(ck)
		if !ok {
			t.log.Warn("no metadata for commodity", logging.String("sector", ck))
			continue
		}
		for _, ik := range industries {
			share := shares.GetOrZero(ik, ck)
			if share == 0 {
				continue
			}
			si, ok := t.sectorIdx[ik]
			if !ok {
				t.log.Debug("industry without satellite data", logging.String("sector", ik))
				continue
			}
			for _, c := range byIndustry[si] {
				st.put(t.flows[c.flow], commodity, t.entries[c].Scaled(share))
			}
		}
	}

	out := &Table{store: st, log: t.log}
	t.log.Debug("market shares applied",
		logging.Int("industries", len(t.sectors)),
		logging.Int("commodities", len(out.sectors)))
	return out, nil
}
