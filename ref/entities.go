// SPDX-License-Identifier: MIT

package ref

import (
	"fmt"

	"github.com/katalvlaran/eeio/dqi"
)

// Positions of the sector metadata row.
const (
	infoCode = iota
	infoName
	infoCategory
	infoSubCategory
	infoLocation
	infoDescription

	// infoDQ is the first data quality field of a sector metadata row.
	infoDQ = 24
)

// Sector is an industry or commodity of the economy.
type Sector struct {
	Code        string
	Name        string
	Location    string
	Category    string
	SubCategory string
	Description string
	// DQ is nil when the metadata carries no data quality scores.
	DQ dqi.Entry
}

// SectorKey is the canonical key "code/name/location" (lower-cased, trimmed).
func SectorKey(code, name, location string) string {
	return AsPath(code, name, location)
}

// Key returns the canonical sector key.
func (s Sector) Key() string { return SectorKey(s.Code, s.Name, s.Location) }

// SectorFromSatelliteRow reads the sector fields (name 5, code 6, location 7)
// of a satellite row.
func SectorFromSatelliteRow(row []string) Sector {
	return Sector{
		Name:     Field(row, 5),
		Code:     Field(row, 6),
		Location: Field(row, 7),
	}
}

// SectorFromInfoRow reads a sector metadata row:
// code, name, category, sub-category, location, description, and up to
// five data quality scores starting at position 24.
func SectorFromInfoRow(row []string) (Sector, error) {
	s := Sector{
		Code:        Field(row, infoCode),
		Name:        Field(row, infoName),
		Category:    Field(row, infoCategory),
		SubCategory: Field(row, infoSubCategory),
		Location:    Field(row, infoLocation),
		Description: Field(row, infoDescription),
	}
	if len(row) > infoDQ {
		dq, err := dqi.FromFields(row[infoDQ:], dqi.Dimensions)
		if err != nil {
			return s, fmt.Errorf("sector %s: %w", s.Key(), err)
		}
		s.DQ = dq
	}
	return s, nil
}

// ElemFlow is an elementary (environmental) flow.
type ElemFlow struct {
	Name        string
	CAS         string
	Category    string
	SubCategory string
	Unit        string
	// UID is stable across tables; see FlowUID for the default.
	UID string
}

// FlowKey is the canonical key "category/sub_category/name/unit".
func FlowKey(category, subCategory, name, unit string) string {
	return AsPath(category, subCategory, name, unit)
}

// Key returns the canonical flow key.
func (f ElemFlow) Key() string { return FlowKey(f.Category, f.SubCategory, f.Name, f.Unit) }

// CompartmentKey is the lookup key of the flow's compartment.
func (f ElemFlow) CompartmentKey() string { return AsPath(f.Category, f.SubCategory) }

// WithDefaultUID fills an empty UID from FlowUID.
func (f ElemFlow) WithDefaultUID() ElemFlow {
	if f.UID == "" {
		f.UID = FlowUID(f.Name, f.Category, f.SubCategory, f.Unit)
	}
	return f
}

// FlowFromSatelliteRow reads name 0, CAS 1, category 2, sub-category 3,
// id 4 and unit 9 of a satellite row.
func FlowFromSatelliteRow(row []string) ElemFlow {
	return ElemFlow{
		Name:        Field(row, 0),
		CAS:         Field(row, 1),
		Category:    Field(row, 2),
		SubCategory: Field(row, 3),
		UID:         Field(row, 4),
		Unit:        Field(row, 9),
	}.WithDefaultUID()
}

// FlowFromIARow reads flow name 3, category 4, sub-category 5, unit 6 and
// id 7 of an impact assessment row.
func FlowFromIARow(row []string) ElemFlow {
	return ElemFlow{
		Name:        Field(row, 3),
		Category:    Field(row, 4),
		SubCategory: Field(row, 5),
		Unit:        Field(row, 6),
		UID:         Field(row, 7),
	}.WithDefaultUID()
}

// ImpactCategory is an impact assessment indicator of a method (group).
type ImpactCategory struct {
	Group   string
	Code    string
	Name    string
	RefUnit string
}

// ImpactCategoryKey is the canonical key "group/code/ref_unit".
func ImpactCategoryKey(group, code, refUnit string) string {
	return AsPath(group, code, refUnit)
}

// Key returns the canonical category key.
func (c ImpactCategory) Key() string { return ImpactCategoryKey(c.Group, c.Code, c.RefUnit) }

// ImpactCategoryFromIARow reads group 0, code 1 and reference unit 2; the
// name defaults to the code.
func ImpactCategoryFromIARow(row []string) ImpactCategory {
	code := Field(row, 1)
	return ImpactCategory{
		Group:   Field(row, 0),
		Code:    code,
		Name:    code,
		RefUnit: Field(row, 2),
	}
}
