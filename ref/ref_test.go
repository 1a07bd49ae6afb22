// SPDX-License-Identifier: MIT
package ref_test

import (
	"testing"

	"github.com/katalvlaran/eeio/dqi"
	"github.com/katalvlaran/eeio/internal/logging"
	"github.com/katalvlaran/eeio/ref"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMakeUUID(t *testing.T) {
	// uuid3(NAMESPACE_OID, "flow/a/1/b")
	assert.Equal(t, "54c959a0-1bd8-3bb8-82a7-4282795e7b8d", ref.MakeUUID("Flow", " a", "1", "B "))
	assert.Equal(t, "314ceaec-5212-3fd5-bb21-f714415608c5",
		ref.FlowUID("Carbon dioxide", "air", "unspecified", "kg"))
}

func TestKeysFromSatelliteRow(t *testing.T) {
	row := []string{"Carbon dioxide", "124389", "air", "unspecified", "",
		"Oilseed farming", "1111A0", "US", "0.287957451", "kg"}

	flow := ref.FlowFromSatelliteRow(row)
	assert.Equal(t, "air/unspecified/carbon dioxide/kg", flow.Key())
	assert.Equal(t, "124389", flow.CAS)
	assert.Equal(t, "314ceaec-5212-3fd5-bb21-f714415608c5", flow.UID) // derived

	sector := ref.SectorFromSatelliteRow(row)
	assert.Equal(t, "1111a0/oilseed farming/us", sector.Key())

	row[4] = "explicit-id"
	assert.Equal(t, "explicit-id", ref.FlowFromSatelliteRow(row).UID)
}

func TestIARow(t *testing.T) {
	row := []string{"SimpleEconomyMethod", "Carbon dioxide emissions", "kgCO2e",
		"Carbon dioxide", "air", "unspecified", "kg", "", "1"}

	c := ref.ImpactCategoryFromIARow(row)
	assert.Equal(t, "simpleeconomymethod/carbon dioxide emissions/kgco2e", c.Key())
	assert.Equal(t, c.Code, c.Name)

	f := ref.FlowFromIARow(row)
	assert.Equal(t, "air/unspecified/carbon dioxide/kg", f.Key())
	assert.Equal(t, ref.FlowUID("Carbon dioxide", "air", "unspecified", "kg"), f.UID)
}

func TestSectorInfoRow_DataQuality(t *testing.T) {
	row := []string{"ABC", "Agriculture", "top", "sub", "US"}
	s, err := ref.SectorFromInfoRow(row)
	require.NoError(t, err)
	assert.Nil(t, s.DQ)

	for len(row) < 24 {
		row = append(row, "")
	}
	row = append(row, "1", "2")
	s, err = ref.SectorFromInfoRow(row)
	require.NoError(t, err)
	assert.Equal(t, "(1;2)", s.DQ.ProvenanceString())

	row[24], row[25] = "", "n.a."
	s, err = ref.SectorFromInfoRow(row)
	require.NoError(t, err)
	assert.Nil(t, s.DQ)

	row[24] = "x"
	_, err = ref.SectorFromInfoRow(row)
	require.ErrorIs(t, err, dqi.ErrSyntax)
}

func TestSectorMap(t *testing.T) {
	m, err := ref.ReadSectorMap([][]string{
		{"1", "electricity", "", "", "US"},
		{"2", "steel parts", "", "", "US", "parts"},
		{"1", "Electricity", "Energy", "", "us"}, // same key, metadata replaced
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"1/electricity/us", "2/steel parts/us"}, m.Keys())
	s, ok := m.Get("1/electricity/us")
	require.True(t, ok)
	assert.Equal(t, "Energy", s.Category)
	_, ok = m.Get("9/none/us")
	assert.False(t, ok)
}

func TestDefaultReferenceData(t *testing.T) {
	d := ref.DefaultData()

	c, ok := d.TryCompartment("air/unspecified")
	require.True(t, ok)
	assert.Equal(t, "air", c.Compartment)
	assert.Equal(t, "unspecified", c.SubCompartment)
	assert.Equal(t, "2d9498c8-6873-45e1-af33-e1a298c119b9", c.UID)
	assert.Equal(t, "output", c.Direction)

	u := d.Unit("kg")
	assert.Equal(t, "20aadc24-a391-41cf-b340-3e4529f44bde", u.UnitUID)
	assert.Equal(t, "Mass", u.Quantity)
	assert.Equal(t, "93a60a56-a3c8-11da-a746-0800200b9a66", u.QuantityUID)

	l := d.Location("US-GA")
	assert.Equal(t, "US-GA", l.Code)
	assert.Equal(t, "United States, Georgia", l.Name)
	assert.Equal(t, "2b701fc6-ef0e-3b9a-9f4d-631863e904f6", l.UID)
}

func TestReferenceData_UnknownWarns(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	d := ref.DefaultData(ref.WithDataLogger(logging.NewFromCore(core)))

	u := d.Unit("furlong")
	assert.Equal(t, "furlong", u.Name)
	assert.Equal(t, 1.0, u.Factor)
	assert.Equal(t, "XX", d.Location("XX").Code)
	d.Compartment(ref.ElemFlow{Category: "soil", SubCategory: "agricultural"})

	assert.Equal(t, 3, logs.Len())
}

func TestReadReferenceRows(t *testing.T) {
	units, err := ref.ReadUnits([][]string{{"MJ", "u1", "Energy", "q1", "1"}, {"t", "u2", "Mass", "q2"}})
	require.NoError(t, err)
	assert.Equal(t, "Energy", units["mj"].Quantity)
	assert.Equal(t, 1.0, units["t"].Factor)

	_, err = ref.ReadUnits([][]string{{"x", "", "", "", "abc"}})
	assert.Error(t, err)

	locs := ref.ReadLocations([][]string{{"DE", "Germany", "l1"}})
	comps := ref.ReadCompartments([][]string{{"Water", "Fresh water", "c1", "Output"}})
	d := ref.NewData(units, locs, comps)
	_, ok := d.TryLocation("de")
	assert.True(t, ok)
	c, ok := d.TryCompartment("water/fresh water")
	assert.True(t, ok)
	assert.Equal(t, "output", c.Direction)
	_, ok = d.TryUnit("kg") // explicit maps replace the defaults
	assert.False(t, ok)
}

func TestSyncFlowIDs(t *testing.T) {
	co2 := ref.ElemFlow{Name: "CO2", Category: "air", SubCategory: "unspecified", Unit: "kg"}
	satCO2, iaCO2 := co2, co2
	satCO2.UID, iaCO2.UID = "sat-id", "ia-id"
	water := ref.ElemFlow{Name: "Water", Category: "resource", Unit: "kg", UID: "w"}

	ids := ref.SyncFlowIDs([]ref.ElemFlow{satCO2, water}, []ref.ElemFlow{iaCO2, water}, ref.PreferSatellite)
	assert.Equal(t, map[string]string{co2.Key(): "sat-id"}, ids)

	ids = ref.SyncFlowIDs([]ref.ElemFlow{satCO2}, []ref.ElemFlow{iaCO2}, ref.PreferImpact)
	assert.Equal(t, map[string]string{co2.Key(): "ia-id"}, ids)

	p, err := ref.ParsePreference(" Impact ")
	require.NoError(t, err)
	assert.Equal(t, ref.PreferImpact, p)
	_, err = ref.ParsePreference("both")
	assert.Error(t, err)
}
