// SPDX-License-Identifier: MIT

package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/katalvlaran/eeio/csvio"
	"github.com/katalvlaran/eeio/dqi"
	"github.com/katalvlaran/eeio/internal/logging"
	"github.com/katalvlaran/eeio/keyed"
	"github.com/katalvlaran/eeio/matrix/matio"
	"github.com/katalvlaran/eeio/ref"
)

// Index file headers.
var (
	SectorHeader    = []string{"Index", "ID", "Name", "Code", "Location", "Description"}
	FlowHeader      = []string{"Index", "ID", "Name", "Category", "Sub-Category", "Unit", "UUID"}
	IndicatorHeader = []string{"Index", "ID", "Name", "Code", "Unit", "Group"}
)

// Export writes the matrix set into dir: A, B, C, L, D and U in the binary
// matrix format, the sector, flow and indicator indices as CSV, and the DQI
// matrices as CSV grids when present.
func (m *Model) Export(dir string, mats *Matrices) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, x := range []struct {
		name string
		m    *keyed.Matrix
	}{
		{"A", mats.A}, {"B", mats.B}, {"C", mats.C},
		{"L", mats.L}, {"D", mats.D}, {"U", mats.U},
	} {
		if err := matio.WriteFile(filepath.Join(dir, x.name+".bin"), x.m.Dense()); err != nil {
			return fmt.Errorf("model: export %s: %w", x.name, err)
		}
	}

	if err := csvio.WriteRowsFile(filepath.Join(dir, "sectors.csv"), SectorHeader, m.sectorRows(mats.A)); err != nil {
		return err
	}
	if err := csvio.WriteRowsFile(filepath.Join(dir, "flows.csv"), FlowHeader, m.flowRows(mats.B)); err != nil {
		return err
	}
	if err := csvio.WriteRowsFile(filepath.Join(dir, "indicators.csv"), IndicatorHeader, m.indicatorRows(mats.C)); err != nil {
		return err
	}

	for _, x := range []struct {
		name string
		m    *dqi.Matrix
	}{
		{"B_dqi", mats.BDQI}, {"D_dqi", mats.DDQI}, {"U_dqi", mats.UDQI},
	} {
		if x.m == nil {
			continue
		}
		if err := writeDQI(filepath.Join(dir, x.name+".csv"), x.m); err != nil {
			return fmt.Errorf("model: export %s: %w", x.name, err)
		}
	}
	m.log.Info("model exported", logging.String("dir", dir))
	return nil
}

func writeDQI(path string, d *dqi.Matrix) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return csvio.WriteDQI(f, d)
}

func (m *Model) sectorRows(a *keyed.Matrix) [][]string {
	out := make([][]string, 0, a.Rows())
	for i, key := range a.RowKeys() {
		row := []string{strconv.Itoa(i), key, "", "", "", ""}
		if s, ok := m.sector(key); ok {
			row[2], row[3], row[4], row[5] = s.Name, s.Code, s.Location, s.Description
		} else {
			m.log.Warn("no metadata for sector", logging.String("sector", key))
		}
		out = append(out, row)
	}
	return out
}

func (m *Model) sector(key string) (ref.Sector, bool) {
	if m.Sectors == nil {
		return ref.Sector{}, false
	}
	return m.Sectors.Get(key)
}

func (m *Model) flowRows(b *keyed.Matrix) [][]string {
	out := make([][]string, 0, b.Rows())
	for i, key := range b.RowKeys() {
		row := []string{strconv.Itoa(i), key, "", "", "", "", ""}
		if f, ok := m.Sat.GetFlow(key); ok {
			row[2], row[3], row[4], row[5], row[6] = f.Name, f.Category, f.SubCategory, f.Unit, f.UID
		}
		out = append(out, row)
	}
	return out
}

func (m *Model) indicatorRows(c *keyed.Matrix) [][]string {
	out := make([][]string, 0, c.Rows())
	if m.IA == nil {
		return out
	}
	for i, key := range c.RowKeys() {
		row := []string{strconv.Itoa(i), key, "", "", "", ""}
		if cat, ok := m.IA.GetCategory(key); ok {
			row[2], row[3], row[4], row[5] = cat.Name, cat.Code, cat.RefUnit, cat.Group
		}
		out = append(out, row)
	}
	return out
}
