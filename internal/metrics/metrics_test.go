// SPDX-License-Identifier: MIT
package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/eeio/calc"
	"github.com/katalvlaran/eeio/keyed"
)

func family(t *testing.T, m *Metrics, name string) *dto.MetricFamily {
	t.Helper()
	mfs, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	t.Fatalf("metric %s not gathered", name)
	return nil
}

func TestObserveCalculation(t *testing.T) {
	m := New()
	m.ObserveCalculation(calc.Direct, nil)
	m.ObserveCalculation(calc.Direct, nil)
	m.ObserveCalculation(calc.Final, nil)
	m.ObserveCalculation(calc.Final, errors.New("singular"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Calculations.WithLabelValues("direct")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Calculations.WithLabelValues("final")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CalcErrors))
}

func TestCalcOption(t *testing.T) {
	m := New()
	a, err := keyed.New([]string{"x", "y"}, []string{"x", "y"})
	require.NoError(t, err)
	require.True(t, a.Set("x", "y", 0.5))

	_, err = calc.LeontiefInverse(a)
	require.NoError(t, err)
	// LeontiefInverse alone is not observed
	assert.Zero(t, family(t, m, "eeio_leontief_inversion_seconds").Metric[0].GetHistogram().GetSampleCount())

	b, err := keyed.New([]string{"f"}, []string{"x", "y"})
	require.NoError(t, err)
	_, err = calc.Calculate(calc.Input{A: a, B: b}, map[string]float64{"x": 1}, calc.Direct, m.CalcOption())
	require.NoError(t, err)

	h := family(t, m, "eeio_leontief_inversion_seconds").Metric[0].GetHistogram()
	assert.Equal(t, uint64(1), h.GetSampleCount())
	assert.Equal(t, 2.0, testutil.ToFloat64(m.InversionSize))
}

func TestObserveLoadAndValidation(t *testing.T) {
	m := New()
	m.ObserveLoad(150 * time.Millisecond)
	m.SetValidation(map[string]int{"ERROR": 0, "WARNING": 3})

	h := family(t, m, "eeio_model_load_seconds").Metric[0].GetHistogram()
	assert.Equal(t, uint64(1), h.GetSampleCount())
	assert.InDelta(t, 0.15, h.GetSampleSum(), 1e-9)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ValidationMsgs.WithLabelValues("WARNING")))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.ObserveCalculation(calc.Intermediate, nil)

	path := filepath.Join(t.TempDir(), "eeio.prom")
	require.NoError(t, m.WriteTextfile(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `eeio_calculations_total{perspective="intermediate"} 1`)

	assert.Error(t, m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "eeio.prom")))
}
