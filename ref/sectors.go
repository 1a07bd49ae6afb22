// SPDX-License-Identifier: MIT

package ref

import "fmt"

// SectorMap holds sector metadata by key in insertion order.
type SectorMap struct {
	keys    []string
	sectors map[string]Sector
}

// NewSectorMap returns an empty map.
func NewSectorMap() *SectorMap {
	return &SectorMap{sectors: make(map[string]Sector)}
}

// Put stores s under its key; a repeated key replaces the metadata but keeps
// the original position.
func (m *SectorMap) Put(s Sector) {
	k := s.Key()
	if _, ok := m.sectors[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.sectors[k] = s
}

// Get returns the sector stored under key.
func (m *SectorMap) Get(key string) (Sector, bool) {
	s, ok := m.sectors[key]
	return s, ok
}

// Keys returns the keys in insertion order.
func (m *SectorMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len is the number of sectors.
func (m *SectorMap) Len() int { return len(m.keys) }

// ReadSectorMap builds a map from sector metadata rows (header already removed).
func ReadSectorMap(rows [][]string) (*SectorMap, error) {
	m := NewSectorMap()
	for i, row := range rows {
		s, err := SectorFromInfoRow(row)
		if err != nil {
			return nil, fmt.Errorf("sector row %d: %w", i+1, err)
		}
		m.Put(s)
	}
	return m, nil
}
