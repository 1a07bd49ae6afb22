// SPDX-License-Identifier: MIT

// Package model assembles a complete EEIO model from its files: the direct
// requirements matrix A, satellite tables, sector metadata, impact assessment
// tables and reference data. It derives the matrix set of an export, runs the
// validation pass and calculates demand results.
package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/eeio/calc"
	"github.com/katalvlaran/eeio/csvio"
	"github.com/katalvlaran/eeio/economic"
	"github.com/katalvlaran/eeio/ia"
	"github.com/katalvlaran/eeio/internal/logging"
	"github.com/katalvlaran/eeio/keyed"
	"github.com/katalvlaran/eeio/ref"
	"github.com/katalvlaran/eeio/sat"
)

// Load errors.
var (
	ErrNoSatellite = errors.New("model: no satellite tables")
	ErrNoMakeUse   = errors.New("model: industry satellites need make and use tables")
)

// Sources lists the files of a model. Empty reference data paths select the
// built-in defaults.
type Sources struct {
	DRC          string
	Satellites   []string
	Sectors      string
	ImpactTables []string
	Units        string
	Compartments string
	Locations    string

	// IndustrySatellites are satellite tables by industry. They are
	// converted to commodities with the market shares of the Make and Use
	// tables and merged into the satellite table; Scrap names the make
	// columns treated as scrap.
	IndustrySatellites []string
	Make               string
	Use                string
	Scrap              []string

	// FlowIDs decides which table keeps its flow identifiers when the
	// satellite and impact assessment tables disagree.
	FlowIDs ref.Preference
	// Workers bounds the parallel satellite readers; 0 means one per file.
	Workers int
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the model logger; it is passed on to the table builders.
func WithLogger(l logging.Logger) Option {
	return func(m *Model) { m.log = l }
}

// Model is a loaded EEIO model. IA may be nil.
type Model struct {
	DRC     *keyed.Matrix
	Sat     *sat.Table
	Sectors *ref.SectorMap
	IA      *ia.Table
	Ref     *ref.Data

	log logging.Logger
}

// New assembles a model from loaded parts. A nil ref is replaced by the
// default reference data.
func New(drc *keyed.Matrix, satTable *sat.Table, sectors *ref.SectorMap, iaTable *ia.Table, refData *ref.Data, opts ...Option) *Model {
	m := &Model{DRC: drc, Sat: satTable, Sectors: sectors, IA: iaTable, Ref: refData}
	for _, o := range opts {
		o(m)
	}
	m.log = logging.OrDefault(m.log).Named("model")
	if m.Ref == nil {
		m.Ref = ref.DefaultData(ref.WithDataLogger(m.log))
	}
	return m
}

// Load reads every file of src. Satellite files are read concurrently, one
// builder per file, and merged in file order so the result does not depend on
// scheduling.
func Load(ctx context.Context, src Sources, opts ...Option) (*Model, error) {
	m := New(nil, nil, nil, nil, nil, opts...)
	log := m.log
	start := time.Now()

	if len(src.Satellites) == 0 && len(src.IndustrySatellites) == 0 {
		return nil, ErrNoSatellite
	}
	if len(src.IndustrySatellites) > 0 && (src.Make == "" || src.Use == "") {
		return nil, ErrNoMakeUse
	}
	prefer, err := ref.ParsePreference(string(src.FlowIDs))
	if err != nil {
		return nil, err
	}

	if m.DRC, err = csvio.ReadKeyedFile(src.DRC, csvio.LowerKey); err != nil {
		return nil, fmt.Errorf("model: read A: %w", err)
	}
	rows, err := csvio.ReadRowsFile(src.Sectors, true)
	if err != nil {
		return nil, fmt.Errorf("model: read sectors: %w", err)
	}
	if m.Sectors, err = ref.ReadSectorMap(rows); err != nil {
		return nil, fmt.Errorf("model: %s: %w", src.Sectors, err)
	}

	if m.Sat, err = loadSatellites(ctx, src.Satellites, src.Workers, log); err != nil {
		return nil, err
	}
	if len(src.IndustrySatellites) > 0 {
		byCommodity, err := loadIndustrySatellites(ctx, src, m.Sectors, log)
		if err != nil {
			return nil, err
		}
		m.Sat = sat.Merge(m.Sat, byCommodity)
	}
	if len(src.ImpactTables) > 0 {
		b := ia.NewBuilder(ia.WithLogger(log))
		for _, path := range src.ImpactTables {
			rows, err := csvio.ReadRowsFile(path, true)
			if err != nil {
				return nil, fmt.Errorf("model: read impact table: %w", err)
			}
			if err := b.AddSource(rows); err != nil {
				return nil, fmt.Errorf("model: %s: %w", path, err)
			}
			log.Info("impact table added", logging.String("file", path))
		}
		m.IA = b.Build()
	}

	if m.Ref, err = loadRefData(src, log); err != nil {
		return nil, err
	}
	m.SyncFlowIDs(prefer)

	log.Info("model loaded",
		logging.Int("sectors", m.DRC.Rows()),
		logging.Int("flows", len(m.Sat.Flows())),
		logging.Duration("elapsed", time.Since(start)))
	return m, nil
}

func loadSatellites(ctx context.Context, paths []string, workers int, log logging.Logger) (*sat.Table, error) {
	tables := make([]*sat.Table, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows, err := csvio.ReadRowsFile(path, true)
			if err != nil {
				return fmt.Errorf("model: read satellite: %w", err)
			}
			b := sat.NewBuilder(sat.WithLogger(log))
			if err := b.AddSource(rows); err != nil {
				return fmt.Errorf("model: %s: %w", path, err)
			}
			tables[i] = b.Build()
			log.Info("satellite table added",
				logging.String("file", path),
				logging.Int("rows", b.Len()))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sat.Merge(tables...), nil
}

// loadIndustrySatellites reads the industry satellite tables and
// redistributes them to commodities by market share.
func loadIndustrySatellites(ctx context.Context, src Sources, sectors *ref.SectorMap, log logging.Logger) (*sat.Table, error) {
	mk, err := csvio.ReadKeyedFile(src.Make, csvio.LowerKey)
	if err != nil {
		return nil, fmt.Errorf("model: read make table: %w", err)
	}
	use, err := csvio.ReadKeyedFile(src.Use, csvio.LowerKey)
	if err != nil {
		return nil, fmt.Errorf("model: read use table: %w", err)
	}
	econ, err := economic.New(use, mk, src.Scrap, economic.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}
	byIndustry, err := loadSatellites(ctx, src.IndustrySatellites, src.Workers, log)
	if err != nil {
		return nil, err
	}
	out, err := byIndustry.ApplyMarketShares(econ.MarketShares(), sectors)
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}
	log.Info("industry satellites converted",
		logging.Int("industries", len(econ.Industries())),
		logging.Int("commodities", len(out.SectorKeys())))
	return out, nil
}

func loadRefData(src Sources, log logging.Logger) (*ref.Data, error) {
	var (
		units        ref.UnitMap
		locations    ref.LocationMap
		compartments ref.CompartmentMap
	)
	if src.Units != "" {
		rows, err := csvio.ReadRowsFile(src.Units, true)
		if err != nil {
			return nil, fmt.Errorf("model: read units: %w", err)
		}
		if units, err = ref.ReadUnits(rows); err != nil {
			return nil, fmt.Errorf("model: %s: %w", src.Units, err)
		}
	}
	if src.Locations != "" {
		rows, err := csvio.ReadRowsFile(src.Locations, true)
		if err != nil {
			return nil, fmt.Errorf("model: read locations: %w", err)
		}
		locations = ref.ReadLocations(rows)
	}
	if src.Compartments != "" {
		rows, err := csvio.ReadRowsFile(src.Compartments, true)
		if err != nil {
			return nil, fmt.Errorf("model: read compartments: %w", err)
		}
		compartments = ref.ReadCompartments(rows)
	}
	return ref.NewData(units, locations, compartments, ref.WithDataLogger(log)), nil
}

// SyncFlowIDs aligns the identifiers of flows present in both the satellite
// and the impact assessment table. The preferred table keeps its
// identifiers; the other one is replaced by an updated copy. It returns the
// number of changed flows.
func (m *Model) SyncFlowIDs(prefer ref.Preference) int {
	if m.Sat == nil || m.IA == nil {
		return 0
	}
	ids := ref.SyncFlowIDs(m.Sat.Flows(), m.IA.Flows(), prefer)
	if len(ids) == 0 {
		return 0
	}
	if prefer == ref.PreferImpact {
		m.Sat = m.Sat.WithFlowIDs(ids)
	} else {
		m.IA = m.IA.WithFlowIDs(ids)
	}
	m.log.Info("flow identifiers synchronized",
		logging.Int("flows", len(ids)),
		logging.String("prefer", string(prefer)))
	return len(ids)
}

// Input returns the calculation input of the model.
func (m *Model) Input() calc.Input {
	in := calc.Input{A: m.DRC}
	if m.Sat != nil {
		in.B = m.Sat.AsMatrix()
	}
	if m.IA != nil {
		in.C = m.IA.AsMatrix()
	}
	return in
}

// Calculate runs calc.Calculate on the model.
func (m *Model) Calculate(demand map[string]float64, p calc.Perspective, opts ...calc.Option) (*calc.Result, error) {
	opts = append([]calc.Option{calc.WithLogger(m.log)}, opts...)
	return calc.Calculate(m.Input(), demand, p, opts...)
}
