// SPDX-License-Identifier: MIT
package sat_test

import (
	"testing"

	"github.com/katalvlaran/eeio/dqi"
	"github.com/katalvlaran/eeio/internal/logging"
	"github.com/katalvlaran/eeio/keyed"
	"github.com/katalvlaran/eeio/ref"
	"github.com/katalvlaran/eeio/sat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// satRow builds a satellite row; dq holds up to five score fields.
func satRow(flow, category, unit, sector, code, amount string, dq ...string) []string {
	row := make([]string, sat.RowWidth)
	row[0], row[2], row[3] = flow, category, "unspecified"
	row[5], row[6], row[7] = sector, code, "US"
	row[8], row[9] = amount, unit
	copy(row[15:20], dq)
	return row
}

func scenarioRows() [][]string {
	return [][]string{
		satRow("Water", "resource", "kg", "electricity", "1", "5"),
		satRow("Water", "resource", "kg", "steel parts", "2", "2"),
		satRow("CO2", "air", "kg", "electricity", "1", "3"),
		satRow("CO2", "air", "kg", "steel parts", "2", "2"),
		satRow("SO2", "air", "kg", "electricity", "1", "0.2"),
		satRow("SO2", "air", "kg", "steel parts", "2", "0.1"),
	}
}

func TestEntryFromRow(t *testing.T) {
	row := satRow("CO2", "air", "kg", "electricity", "1", "0.5", "1", "2", "n.a.")
	row[20], row[21], row[22], row[23] = "2012", "energy", "EPA", "estimated"

	e, err := sat.EntryFromRow(row)
	require.NoError(t, err)
	assert.Equal(t, 0.5, e.Value)
	assert.Equal(t, dqi.Entry{1, 2, dqi.NA, dqi.NA, dqi.NA}, e.DQ)
	assert.Equal(t, 2012, e.Year)
	assert.Equal(t, "energy", e.Tags)
	assert.Equal(t, "EPA", e.Sources)
	assert.Equal(t, "estimated", e.Comment)

	// no quality fields at all
	e, err = sat.EntryFromRow(row[:10])
	require.NoError(t, err)
	assert.Nil(t, e.DQ)
	assert.Zero(t, e.Year)
}

func TestEntryFromRow_Invalid(t *testing.T) {
	_, err := sat.EntryFromRow(satRow("CO2", "air", "kg", "e", "1", "abc"))
	assert.ErrorIs(t, err, sat.ErrRow)

	_, err = sat.EntryFromRow(satRow("CO2", "air", "kg", "e", "1", "1", "9x"))
	assert.ErrorIs(t, err, sat.ErrRow)

	row := satRow("CO2", "air", "kg", "e", "1", "1")
	row[20] = "last year"
	_, err = sat.EntryFromRow(row)
	assert.ErrorIs(t, err, sat.ErrRow)
}

func TestEntryMerge(t *testing.T) {
	a := sat.Entry{Value: 2, DQ: dqi.Entry{1, 3, dqi.NA}, Year: 2010, Sources: "EPA"}
	b := sat.Entry{Value: 6, DQ: dqi.Entry{5, dqi.NA, 2}, Year: 2015, Sources: "epa 2012"}

	m := a.Merge(b)
	assert.InDelta(t, 8.0, m.Value, 1e-12)
	assert.Equal(t, dqi.Entry{4, 3, 2}, m.DQ) // round(32/8)
	assert.Equal(t, 2015, m.Year)
	assert.Equal(t, "epa 2012", m.Sources)

	// one side without quality data
	m = sat.Entry{Value: 1}.Merge(sat.Entry{Value: 1, DQ: dqi.Entry{2, 2}})
	assert.Equal(t, dqi.Entry{2, 2}, m.DQ)
	assert.Nil(t, sat.Entry{Value: 1}.Merge(sat.Entry{Value: 2}).DQ)

	// zero total keeps the prior score
	m = sat.Entry{DQ: dqi.Entry{2}}.Merge(sat.Entry{DQ: dqi.Entry{4}})
	assert.Equal(t, dqi.Entry{2}, m.DQ)
}

func TestEntryMerge_Commutative(t *testing.T) {
	cases := []struct {
		name string
		a, b sat.Entry
	}{
		{"weighted", sat.Entry{Value: 2, DQ: dqi.Entry{1, 3, 5}}, sat.Entry{Value: 6, DQ: dqi.Entry{5, 1, 5}}},
		{"na dimensions", sat.Entry{Value: 1, DQ: dqi.Entry{dqi.NA, 2}}, sat.Entry{Value: 3, DQ: dqi.Entry{4, dqi.NA}}},
		{"uneven length", sat.Entry{Value: 4, DQ: dqi.Entry{1}}, sat.Entry{Value: 4, DQ: dqi.Entry{3, 3}}},
		{"one empty", sat.Entry{Value: 0.5}, sat.Entry{Value: 7, DQ: dqi.Entry{2, 2, 2, 2, 2}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ab, ba := tc.a.Merge(tc.b), tc.b.Merge(tc.a)
			assert.InDelta(t, ab.Value, ba.Value, 1e-12)
			assert.Equal(t, ab.DQ, ba.DQ)
		})
	}
}

func TestEntryMerge_ProvenanceText(t *testing.T) {
	merge := func(x, y string) string {
		return sat.Entry{Comment: x}.Merge(sat.Entry{Comment: y}).Comment
	}
	assert.Equal(t, "a", merge("a", ""))
	assert.Equal(t, "b", merge("", "b"))
	assert.Equal(t, "US EPA data", merge("US EPA data", "epa"))
	assert.Equal(t, "EPA; USDA", merge("EPA", "USDA"))

	// Known approximation: only substring absorption deduplicates, so
	// permuted lists are concatenated instead of unified.
	assert.Equal(t, "a; b; b; a", merge("a; b", "b; a"))
}

func TestBuilder_MergesDuplicates(t *testing.T) {
	b := sat.NewBuilder(sat.WithLogger(logging.NewNopLogger()))
	require.NoError(t, b.AddSource([][]string{
		satRow("CO2", "air", "kg", "electricity", "1", "2", "1"),
		satRow("CO2", "air", "kg", "Electricity ", "1", "6", "5"),
	}))
	tab := b.Build()

	assert.Equal(t, 2, b.Len())
	assert.Equal(t, 1, tab.Len())
	e, ok := tab.TryEntry("air/unspecified/co2/kg", "1/electricity/us")
	require.True(t, ok)
	assert.InDelta(t, 8.0, e.Value, 1e-12)
	assert.Equal(t, dqi.Entry{4, dqi.NA, dqi.NA, dqi.NA, dqi.NA}, e.DQ)

	// the first occurrence fixes the metadata
	s, ok := tab.GetSector("1/electricity/us")
	require.True(t, ok)
	assert.Equal(t, "electricity", s.Name)
}

func TestBuilder_AddSourceError(t *testing.T) {
	b := sat.NewBuilder()
	err := b.AddSource([][]string{
		satRow("CO2", "air", "kg", "electricity", "1", "2"),
		satRow("CO2", "air", "kg", "electricity", "1", "x"),
	})
	require.ErrorIs(t, err, sat.ErrRow)
	assert.Contains(t, err.Error(), "row 2")
	assert.Equal(t, 1, b.Len())
}

func TestBuilder_BuildIsSnapshot(t *testing.T) {
	b := sat.NewBuilder()
	require.NoError(t, b.AddRow(satRow("CO2", "air", "kg", "electricity", "1", "2")))
	first := b.Build()
	require.NoError(t, b.AddRow(satRow("CO2", "air", "kg", "electricity", "1", "3")))

	assert.InDelta(t, 2.0, first.GetEntry("air/unspecified/co2/kg", "1/electricity/us").Value, 1e-12)
	assert.InDelta(t, 5.0, b.Build().GetEntry("air/unspecified/co2/kg", "1/electricity/us").Value, 1e-12)
}

func TestTable_AsMatrix(t *testing.T) {
	b := sat.NewBuilder()
	require.NoError(t, b.AddSource(scenarioRows()))
	tab := b.Build()

	assert.Equal(t, []string{
		"resource/unspecified/water/kg",
		"air/unspecified/co2/kg",
		"air/unspecified/so2/kg",
	}, tab.FlowKeys())
	assert.Equal(t, []string{"1/electricity/us", "2/steel parts/us"}, tab.SectorKeys())

	m := tab.AsMatrix()
	assert.Equal(t, []float64{5, 2}, m.Row("resource/unspecified/water/kg"))
	assert.Equal(t, []float64{3, 2}, m.Row("air/unspecified/co2/kg"))
	assert.Equal(t, []float64{0.2, 0.1}, m.Row("air/unspecified/so2/kg"))
}

func TestTable_GetEntryUnknownKeys(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	b := sat.NewBuilder(sat.WithLogger(logging.NewFromCore(core)))
	require.NoError(t, b.AddSource(scenarioRows()))
	tab := b.Build()

	assert.Equal(t, sat.Entry{}, tab.GetEntry("air/unspecified/ch4/kg", "1/electricity/us"))
	assert.Equal(t, sat.Entry{}, tab.GetEntry("air/unspecified/co2/kg", "9/nothing/us"))
	assert.Equal(t, 2, logs.Len())

	_, ok := tab.TryEntry("air/unspecified/ch4/kg", "1/electricity/us")
	assert.False(t, ok)
	assert.Equal(t, 2, logs.Len())
}

func TestTable_DQIMatrix(t *testing.T) {
	b := sat.NewBuilder()
	require.NoError(t, b.AddSource([][]string{
		satRow("CO2", "air", "kg", "electricity", "1", "3", "1", "2"),
		satRow("CO2", "air", "kg", "steel parts", "2", "2"),
	}))
	tab := b.Build()

	m := tab.DQIMatrix(
		[]string{"air/unspecified/co2/kg", "air/unspecified/ch4/kg"},
		[]string{"2/steel parts/us", "1/electricity/us"})
	assert.Equal(t, "[ (none) (1,2,n.a.,n.a.,n.a.) ;\n  (none) (none) ]", m.String())
}

func TestTable_ApplyMarketShares(t *testing.T) {
	b := sat.NewBuilder()
	require.NoError(t, b.AddSource([][]string{
		satRow("CO2", "air", "kg", "ind 1", "i1", "10", "2"),
		satRow("CO2", "air", "kg", "ind 2", "i2", "20", "4"),
		satRow("SO2", "air", "kg", "ind 2", "i2", "1"),
	}))
	tab := b.Build()

	shares, err := keyed.New(
		[]string{"i1/ind 1/us", "i2/ind 2/us", "i3/ind 3/us"},
		[]string{"c1/com 1/us", "c2/com 2/us", "c3/com 3/us"})
	require.NoError(t, err)
	shares.Set("i1/ind 1/us", "c1/com 1/us", 0.5)
	shares.Set("i1/ind 1/us", "c2/com 2/us", 0.5)
	shares.Set("i2/ind 2/us", "c2/com 2/us", 1)
	shares.Set("i3/ind 3/us", "c1/com 1/us", 0.5)
	shares.Set("i1/ind 1/us", "c3/com 3/us", 1)

	sectors := ref.NewSectorMap()
	sectors.Put(ref.Sector{Code: "c1", Name: "com 1", Location: "US"})
	sectors.Put(ref.Sector{Code: "c2", Name: "com 2", Location: "US"})

	out, err := tab.ApplyMarketShares(shares, sectors)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1/com 1/us", "c2/com 2/us"}, out.SectorKeys())

	e := out.GetEntry("air/unspecified/co2/kg", "c1/com 1/us")
	assert.InDelta(t, 5.0, e.Value, 1e-12)
	assert.Equal(t, dqi.Score(2), e.DQ[0])

	e = out.GetEntry("air/unspecified/co2/kg", "c2/com 2/us")
	assert.InDelta(t, 25.0, e.Value, 1e-12)
	assert.Equal(t, dqi.Score(4), e.DQ[0]) // round((2*5 + 4*20) / 25)

	e = out.GetEntry("air/unspecified/so2/kg", "c2/com 2/us")
	assert.InDelta(t, 1.0, e.Value, 1e-12)
	_, ok := out.TryEntry("air/unspecified/so2/kg", "c1/com 1/us")
	assert.False(t, ok)

	// the source table is untouched
	assert.Equal(t, []string{"i1/ind 1/us", "i2/ind 2/us"}, tab.SectorKeys())

	_, err = tab.ApplyMarketShares(nil, sectors)
	assert.Error(t, err)
}

func TestMerge_EqualsSingleBuilder(t *testing.T) {
	rows := scenarioRows()
	rows = append(rows, satRow("CO2", "air", "kg", "electricity", "1", "1"))

	all := sat.NewBuilder()
	require.NoError(t, all.AddSource(rows))

	first, second := sat.NewBuilder(), sat.NewBuilder()
	require.NoError(t, first.AddSource(rows[:3]))
	require.NoError(t, second.AddSource(rows[3:]))

	merged := sat.Merge(first.Build(), nil, second.Build())
	want := all.Build()
	assert.Equal(t, want.FlowKeys(), merged.FlowKeys())
	assert.Equal(t, want.SectorKeys(), merged.SectorKeys())
	assert.Equal(t, want.Rows(), merged.Rows())

	e := merged.GetEntry("air/unspecified/co2/kg", "1/electricity/us")
	assert.InDelta(t, 4.0, e.Value, 1e-12)
}

func TestTable_RowsAndFlowIDs(t *testing.T) {
	row := satRow("CO2", "air", "kg", "electricity", "1", "0.25", "1", "", "3")
	row[20], row[22] = "2014", "EPA"
	b := sat.NewBuilder()
	require.NoError(t, b.AddRow(row))
	tab := b.Build()

	rows := tab.Rows()
	require.Len(t, rows, 1)
	require.Len(t, rows[0], len(sat.Header))
	assert.Equal(t, ref.FlowUID("CO2", "air", "unspecified", "kg"), rows[0][4])
	assert.Equal(t, "0.25", rows[0][8])
	assert.Equal(t, []string{"1", "n.a.", "3", "n.a.", "n.a."}, rows[0][15:20])
	assert.Equal(t, "2014", rows[0][20])
	assert.Equal(t, "EPA", rows[0][22])

	renamed := tab.WithFlowIDs(map[string]string{"air/unspecified/co2/kg": "fixed"})
	f, ok := renamed.GetFlow("air/unspecified/co2/kg")
	require.True(t, ok)
	assert.Equal(t, "fixed", f.UID)
	f, _ = tab.GetFlow("air/unspecified/co2/kg")
	assert.NotEqual(t, "fixed", f.UID)
}
