// SPDX-License-Identifier: MIT

package cli

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/eeio/calc"
	"github.com/katalvlaran/eeio/internal/logging"
	"github.com/katalvlaran/eeio/keyed"
	"github.com/katalvlaran/eeio/model"
)

// ErrNoDemand is returned when neither --demand nor calc.demand is set.
var ErrNoDemand = errors.New("cli: no demand file; use --demand or calc.demand")

type calculateOptions struct {
	demand      string
	perspective string
	top         int
}

func newCalculateCmd() *cobra.Command {
	opts := &calculateOptions{}
	cmd := &cobra.Command{
		Use:     "calculate",
		Short:   "Calculate inventory and impact results of a final demand",
		Example: "  eeio calculate --config eeio.yaml --demand demand.yaml --perspective final -o json",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalculate(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.demand, "demand", "", "demand yaml: sector key -> amount (default: calc.demand)")
	cmd.Flags().StringVar(&opts.perspective, "perspective", "", "direct, intermediate or final (default: calc.perspective)")
	cmd.Flags().IntVar(&opts.top, "top", 5, "contributing sectors listed per indicator")
	return cmd
}

// loadModel reads the configured model tables.
func loadModel(cmd *cobra.Command, cliCtx *CLIContext) (*model.Model, error) {
	if err := cliCtx.Config.RequireModel(); err != nil {
		return nil, err
	}
	src, err := cliCtx.Config.Sources()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	m, err := model.Load(cmd.Context(), src, model.WithLogger(cliCtx.Logger))
	if err != nil {
		return nil, err
	}
	cliCtx.Metrics.ObserveLoad(time.Since(start))
	return m, nil
}

func runCalculate(cmd *cobra.Command, opts *calculateOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	cfg := cliCtx.Config

	demandPath := opts.demand
	if demandPath == "" {
		demandPath = cfg.Calc.Demand
	}
	if demandPath == "" {
		return ErrNoDemand
	}
	raw := opts.perspective
	if raw == "" {
		raw = cfg.Calc.Perspective
	}
	p, err := calc.ParsePerspective(raw)
	if err != nil {
		return err
	}

	demand, err := calc.ReadDemandFile(demandPath)
	if err != nil {
		return err
	}
	m, err := loadModel(cmd, cliCtx)
	if err != nil {
		return err
	}

	r, err := m.Calculate(demand, p, cliCtx.Metrics.CalcOption())
	cliCtx.Metrics.ObserveCalculation(p, err)
	if err != nil {
		return err
	}
	cliCtx.Logger.Info("calculation finished",
		logging.String("perspective", string(p)),
		logging.Int("sectors", len(r.Sectors)))

	return PrintResult(cmd, newCalcReport(r, opts.top))
}

// Amount is a keyed total of a result.
type Amount struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// Share is a contribution of a sector to an indicator.
type Share struct {
	Sector string  `json:"sector"`
	Value  float64 `json:"value"`
}

type calcReport struct {
	Perspective string             `json:"perspective"`
	Demand      []Amount           `json:"demand"`
	Inventory   []Amount           `json:"inventory"`
	Impacts     []Amount           `json:"impacts,omitempty"`
	TopSectors  map[string][]Share `json:"top_sectors,omitempty"`
}

func newCalcReport(r *calc.Result, top int) *calcReport {
	rep := &calcReport{Perspective: string(r.Perspective), Inventory: totals(r.LCITotal)}
	for i, s := range r.Sectors {
		if r.Demand[i] != 0 {
			rep.Demand = append(rep.Demand, Amount{Key: s, Value: r.Demand[i]})
		}
	}
	if r.LCIATotal == nil {
		return rep
	}
	rep.Impacts = totals(r.LCIATotal)
	rep.TopSectors = make(map[string][]Share, r.LCIAContributions.Rows())
	for _, k := range r.LCIAContributions.RowKeys() {
		var shares []Share
		for _, c := range calc.TopOfRow(r.LCIAContributions, k, top) {
			shares = append(shares, Share{Sector: c.Key, Value: c.Value})
		}
		rep.TopSectors[k] = shares
	}
	return rep
}

func totals(m *keyed.Matrix) []Amount {
	if m == nil {
		return nil
	}
	out := make([]Amount, 0, m.Rows())
	for i, k := range m.RowKeys() {
		out = append(out, Amount{Key: k, Value: m.Dense().RawRowView(i)[0]})
	}
	return out
}

func (r *calcReport) TableHeaders() []string {
	if r.Impacts != nil {
		return []string{"indicator", "total", "top sector", "share"}
	}
	return []string{"flow", "total"}
}

func (r *calcReport) TableRows() [][]string {
	format := func(v float64) string { return strconv.FormatFloat(v, 'g', 6, 64) }
	if r.Impacts == nil {
		rows := make([][]string, 0, len(r.Inventory))
		for _, a := range r.Inventory {
			rows = append(rows, []string{a.Key, format(a.Value)})
		}
		return rows
	}
	rows := make([][]string, 0, len(r.Impacts))
	for _, a := range r.Impacts {
		row := []string{a.Key, format(a.Value), "", ""}
		if s := r.TopSectors[a.Key]; len(s) > 0 && s[0].Sector != calc.OthersKey {
			row[2] = s[0].Sector
			// intermediate contributions may exceed the total
			if a.Value != 0 {
				row[3] = fmt.Sprintf("%.1f%%", 100*s[0].Value/a.Value)
			}
		}
		rows = append(rows, row)
	}
	return rows
}
