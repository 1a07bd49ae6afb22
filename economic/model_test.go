// SPDX-License-Identifier: MIT
package economic_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/eeio/economic"
	"github.com/katalvlaran/eeio/internal/logging"
	"github.com/katalvlaran/eeio/keyed"
	"github.com/katalvlaran/eeio/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const tol = 1e-9

func table(t *testing.T, rows, cols []string, data [][]float64) *keyed.Matrix {
	t.Helper()
	d, err := matrix.NewDenseFrom(data)
	require.NoError(t, err)
	m, err := keyed.FromDense(rows, cols, d)
	require.NoError(t, err)
	return m
}

// Two industries, two commodities and a scrap commodity; ind2 produces scrap.
func fixture(t *testing.T) (use, mk *keyed.Matrix) {
	mk = table(t,
		[]string{"ind2", "ind1"},
		[]string{"c2", "c1", "Scrap"},
		[][]float64{
			{80, 10, 10},
			{10, 90, 0},
		})
	use = table(t,
		[]string{"c1", "c2", "Scrap", "VA"},
		[]string{"ind1", "ind2", "FD"},
		[][]float64{
			{10, 20, 70},
			{30, 10, 50},
			{0, 0, 10},
			{60, 70, 0},
		})
	return use, mk
}

func TestSectorSets(t *testing.T) {
	use, mk := fixture(t)
	m, err := economic.New(use, mk, []string{" scrap "}, economic.WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)

	assert.Equal(t, []string{"FD"}, m.FinalDemandSectors())
	assert.Equal(t, []string{"VA"}, m.ValueAddedSectors())
	assert.Equal(t, []string{"c1", "c2"}, m.Commodities())
	assert.Equal(t, []string{"ind1", "ind2"}, m.Industries())
	assert.Equal(t, []string{"Scrap"}, m.ScrapSectors())

	m, err = economic.New(use, mk, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Scrap", "c1", "c2"}, m.Commodities())
}

func TestNew_UnknownScrapIsLogged(t *testing.T) {
	use, mk := fixture(t)
	core, logs := observer.New(zapcore.WarnLevel)
	m, err := economic.New(use, mk, []string{"metal scrap"}, economic.WithLogger(logging.NewFromCore(core)))
	require.NoError(t, err)
	assert.Empty(t, m.ScrapSectors())
	assert.Equal(t, 1, logs.FilterMessage("scrap sector not in make table").Len())

	_, err = economic.New(nil, mk, nil)
	assert.ErrorIs(t, err, economic.ErrNilTable)
}

func TestMarketShares(t *testing.T) {
	use, mk := fixture(t)
	m, err := economic.New(use, mk, []string{"scrap"})
	require.NoError(t, err)

	ms := m.MarketShares()
	assert.Equal(t, []string{"ind1", "ind2"}, ms.RowKeys())
	assert.Equal(t, []string{"c1", "c2"}, ms.ColKeys())
	assert.InDelta(t, 0.9, ms.GetOrZero("ind1", "c1"), tol)
	assert.InDelta(t, 0.1, ms.GetOrZero("ind2", "c1"), tol)
	assert.InDelta(t, 10.0/90, ms.GetOrZero("ind1", "c2"), tol)
	assert.InDelta(t, 80.0/90, ms.GetOrZero("ind2", "c2"), tol)

	// the input table is untouched
	assert.Equal(t, 90.0, mk.GetOrZero("ind1", "c1"))
}

func TestNonScrapRatiosAndTransformation(t *testing.T) {
	use, mk := fixture(t)
	m, err := economic.New(use, mk, []string{"scrap"})
	require.NoError(t, err)

	ratios := m.NonScrapRatios()
	require.Len(t, ratios, 2)
	assert.InDelta(t, 1.0, ratios[0], tol)
	assert.InDelta(t, 0.9, ratios[1], tol)

	tm := m.TransformationMatrix()
	assert.InDelta(t, 0.9, tm.GetOrZero("ind1", "c1"), tol)
	assert.InDelta(t, 0.1/0.9, tm.GetOrZero("ind2", "c1"), tol)
	assert.InDelta(t, (80.0/90)/0.9, tm.GetOrZero("ind2", "c2"), tol)

	// without scrap the transformation is the market share matrix
	plain, err := economic.New(use, mk, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1}, plain.NonScrapRatios())
	assert.True(t, matrix.AllClose(plain.MarketShares().Dense(), plain.TransformationMatrix().Dense(), 0, 0))
}

func TestDirectRequirementsAndCoefficients(t *testing.T) {
	use, mk := fixture(t)
	m, err := economic.New(use, mk, []string{"scrap"})
	require.NoError(t, err)

	dr := m.DirectRequirements()
	assert.Equal(t, []string{"c1", "c2"}, dr.RowKeys())
	assert.Equal(t, []string{"ind1", "ind2"}, dr.ColKeys())
	assert.InDelta(t, 0.1, dr.GetOrZero("c1", "ind1"), tol)
	assert.InDelta(t, 0.3, dr.GetOrZero("c2", "ind1"), tol)
	assert.InDelta(t, 0.2, dr.GetOrZero("c1", "ind2"), tol)
	assert.InDelta(t, 0.1, dr.GetOrZero("c2", "ind2"), tol)

	a, err := m.DRCoefficients()
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2"}, a.RowKeys())
	assert.Equal(t, []string{"c1", "c2"}, a.ColKeys())
	assert.InDelta(t, 0.1*0.9+0.2*(0.1/0.9), a.GetOrZero("c1", "c1"), tol)
	assert.InDelta(t, 0.1*(10.0/90)+0.2*(80.0/90)/0.9, a.GetOrZero("c1", "c2"), tol)
	assert.InDelta(t, 0.3*0.9+0.1*(0.1/0.9), a.GetOrZero("c2", "c1"), tol)
	assert.InDelta(t, 0.3*(10.0/90)+0.1*(80.0/90)/0.9, a.GetOrZero("c2", "c2"), tol)

	direct, err := economic.CoefficientsFromTables(mk, use, []string{"scrap"})
	require.NoError(t, err)
	assert.True(t, matrix.AllClose(a.Dense(), direct.Dense(), 0, tol))
}

func TestTRCoefficients_LeontiefIdentity(t *testing.T) {
	use, mk := fixture(t)
	m, err := economic.New(use, mk, []string{"scrap"})
	require.NoError(t, err)

	a, err := m.DRCoefficients()
	require.NoError(t, err)
	l, err := m.TRCoefficients()
	require.NoError(t, err)
	assert.Equal(t, a.RowKeys(), l.RowKeys())

	// A·L + I = L
	al, err := matrix.Mul(a.Dense(), l.Dense())
	require.NoError(t, err)
	id, err := matrix.Identity(2)
	require.NoError(t, err)
	lhs, err := matrix.Add(al, id)
	require.NoError(t, err)
	assert.True(t, matrix.AllClose(lhs, l.Dense(), 0, tol))
}

func TestZeroGuards(t *testing.T) {
	mk := table(t,
		[]string{"ind1", "ind2"},
		[]string{"c1", "c2", "scrap"},
		[][]float64{
			{5, 0, 1},
			{0, 0, 0},
		})
	use := table(t,
		[]string{"c1", "c2"},
		[]string{"ind1", "ind2"},
		[][]float64{
			{1, 0},
			{1, 0},
		})
	m, err := economic.New(use, mk, []string{"scrap"})
	require.NoError(t, err)

	ms := m.MarketShares()
	assert.Equal(t, 0.0, ms.GetOrZero("ind1", "c2")) // commodity without output
	assert.Equal(t, 0.0, ms.GetOrZero("ind2", "c2"))

	dr := m.DirectRequirements()
	assert.Equal(t, 0.0, dr.GetOrZero("c1", "ind2")) // industry without inputs
	assert.InDelta(t, 0.5, dr.GetOrZero("c1", "ind1"), tol)

	ratios := m.NonScrapRatios()
	assert.InDelta(t, 5.0/6, ratios[0], tol)
	assert.Equal(t, 0.0, ratios[1])

	tm := m.TransformationMatrix()
	tm.Dense().Do(func(_, _ int, v float64) bool {
		assert.False(t, math.IsNaN(v), "NaN in transformation matrix")
		return true
	})
	assert.Equal(t, 0.0, tm.GetOrZero("ind2", "c1"))
}
