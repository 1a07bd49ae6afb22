// SPDX-License-Identifier: MIT
package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/eeio/csvio"
	"github.com/katalvlaran/eeio/economic"
)

const (
	car     = "3/car assembly/us"
	elec    = "1/electricity/us"
	climate = "simpleeconomymethod/climate change/kg co2 eq"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := run(root)
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// modelConfig writes a config over the model package fixtures and a demand
// of one car.
func modelConfig(t *testing.T) string {
	t.Helper()
	td, err := filepath.Abs(filepath.Join("..", "..", "model", "testdata"))
	require.NoError(t, err)
	dir := t.TempDir()
	writeFile(t, dir, "demand.yaml", fmt.Sprintf("%q: 1\n", car))
	return writeFile(t, dir, "eeio.yaml", fmt.Sprintf(`
model:
  drc: %[1]s/drc.csv
  satellites: [%[1]s/sat_energy.csv, %[1]s/sat_steel.csv]
  sectors: %[1]s/sectors.csv
  impact_tables: [%[1]s/lcia.csv]
  units: %[1]s/units.csv
  compartments: %[1]s/compartments.csv
calc:
  demand: demand.yaml
export:
  folder: matrices
`, td))
}

const (
	makeCSV = `,c2,c1,Scrap
ind2,80,10,10
ind1,10,90,0
`
	useCSV = `,ind1,ind2,FD
c1,10,20,70
c2,30,10,50
Scrap,0,0,10
VA,60,70,0
`
)

func TestCoefficients(t *testing.T) {
	dir := t.TempDir()
	mkPath := writeFile(t, dir, "make.csv", makeCSV)
	usePath := writeFile(t, dir, "use.csv", useCSV)
	outPath := filepath.Join(dir, "drc.csv")

	out, err := execute(t, "coefficients", "--make", mkPath, "--use", usePath, "--scrap", "Scrap", "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "OK: coefficients written to")

	got, err := csvio.ReadKeyedFile(outPath, nil)
	require.NoError(t, err)

	mk, err := csvio.ReadKeyedFile(mkPath, nil)
	require.NoError(t, err)
	use, err := csvio.ReadKeyedFile(usePath, nil)
	require.NoError(t, err)
	want, err := economic.CoefficientsFromTables(mk, use, []string{"Scrap"})
	require.NoError(t, err)

	assert.Equal(t, []string{"c1", "c2"}, got.RowKeys())
	assert.Equal(t, want.RowKeys(), got.RowKeys())
	assert.Equal(t, want.ColKeys(), got.ColKeys())
	for _, r := range want.RowKeys() {
		for _, c := range want.ColKeys() {
			assert.InDelta(t, want.GetOrZero(r, c), got.GetOrZero(r, c), 1e-12, "%s/%s", r, c)
		}
	}
}

func TestCoefficients_Stdout(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "coefficients",
		"--make", writeFile(t, dir, "make.csv", makeCSV),
		"--use", writeFile(t, dir, "use.csv", useCSV))
	require.NoError(t, err)
	// without scrap the scrap commodity stays a sector
	assert.True(t, strings.HasPrefix(out, ",Scrap,c1,c2\n"), out)
}

func TestCoefficients_MissingFlags(t *testing.T) {
	_, err := execute(t, "coefficients", "--make", "make.csv")
	assert.Error(t, err)
}

func TestCalculate_JSON(t *testing.T) {
	cfg := modelConfig(t)
	metricsPath := filepath.Join(t.TempDir(), "eeio.prom")

	out, err := execute(t, "calculate", "--config", cfg, "-o", "json", "--metrics-file", metricsPath)
	require.NoError(t, err)

	var rep calcReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "direct", rep.Perspective)
	assert.Equal(t, []Amount{{Key: car, Value: 1}}, rep.Demand)
	require.Len(t, rep.Inventory, 3)

	var total float64
	for _, a := range rep.Impacts {
		if a.Key == climate {
			total = a.Value
		}
	}
	assert.InDelta(t, 1.111111111, total, 1e-6)
	shares := rep.TopSectors[climate]
	require.NotEmpty(t, shares)
	assert.Equal(t, elec, shares[0].Sector)
	assert.InDelta(t, 0.617283951, shares[0].Value, 1e-6)

	prom, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `eeio_calculations_total{perspective="direct"} 1`)
	assert.Contains(t, string(prom), "eeio_model_load_seconds_count 1")
}

func TestCalculate_Table(t *testing.T) {
	out, err := execute(t, "calculate", "--config", modelConfig(t), "--perspective", "final")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "indicator"))
	assert.Contains(t, out, climate)
	// the final perspective puts everything on the demanded sector
	assert.Contains(t, out, car+"  100.0%")
}

func TestCalculate_Errors(t *testing.T) {
	cfg := modelConfig(t)

	_, err := execute(t, "calculate", "--config", cfg, "--perspective", "sideways")
	assert.Error(t, err)

	_, err = execute(t, "calculate", "--config", cfg, "-o", "xml")
	assert.Error(t, err)

	empty := writeFile(t, t.TempDir(), "eeio.yaml", "log:\n  level: error\n")
	_, err = execute(t, "calculate", "--config", empty)
	assert.ErrorIs(t, err, ErrNoDemand)

	_, err = execute(t, "calculate", "--config", empty, "--demand", "d.yaml")
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	out, err := execute(t, "export", "--config", modelConfig(t), "--out", dir, "--dqi")
	require.NoError(t, err)
	assert.Contains(t, out, "OK: matrices written to "+dir)

	for _, name := range []string{"A.bin", "L.bin", "U.bin", "sectors.csv", "flows.csv", "indicators.csv", "B_dqi.csv", "U_dqi.csv"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
}

func TestExport_RecordsInversion(t *testing.T) {
	metricsPath := filepath.Join(t.TempDir(), "eeio.prom")
	_, err := execute(t, "export", "--config", modelConfig(t),
		"--out", filepath.Join(t.TempDir(), "out"), "--metrics-file", metricsPath)
	require.NoError(t, err)

	prom, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "eeio_leontief_inversion_seconds_count 1")
	assert.Contains(t, string(prom), "eeio_leontief_inversion_sectors 3")
}

func TestExport_ConfigFolder(t *testing.T) {
	cfg := modelConfig(t)
	_, err := execute(t, "export", "--config", cfg)
	require.NoError(t, err)

	dir := filepath.Join(filepath.Dir(cfg), "matrices")
	assert.FileExists(t, filepath.Join(dir, "A.bin"))
	assert.NoFileExists(t, filepath.Join(dir, "B_dqi.csv"))
}

func TestValidate(t *testing.T) {
	out, err := execute(t, "validate", "--config", modelConfig(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "severity"))
	assert.Contains(t, out, "1 sectors of A have no satellite data")

	// a model whose sector metadata misses every sector of A
	cfg := modelConfig(t)
	sectors := writeFile(t, t.TempDir(), "sectors.csv", "Code,Name,Category,Sub-category,Location,Description\n9,Other,,,US,\n")
	t.Setenv("EEIO_MODEL_SECTORS", sectors)
	out, err = execute(t, "validate", "--config", cfg, "-o", "json")
	require.ErrorIs(t, err, ErrInvalidModel)
	assert.Contains(t, out, `"Severity": "ERROR"`)
}

func TestFormatTable(t *testing.T) {
	assert.Empty(t, FormatTable(nil, nil))
	got := FormatTable([]string{"key", "value"}, [][]string{{"a", "1"}, {"longer", "22"}})
	assert.Equal(t, "key     value\n---     -----\na       1\nlonger  22\n", got)
}
