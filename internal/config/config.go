// SPDX-License-Identifier: MIT

// Package config defines the configuration of the eeio command: where the
// model tables live, how calculations run and where results go. Only plain
// data types and validation live here; loading is in loader.go.
package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/katalvlaran/eeio/calc"
	"github.com/katalvlaran/eeio/internal/logging"
	"github.com/katalvlaran/eeio/model"
	"github.com/katalvlaran/eeio/ref"
)

// ErrNoModel is returned when a command needs model tables but the
// configuration names none.
var ErrNoModel = errors.New("config: model.drc, model.satellites and model.sectors are required")

// ErrNoMakeUse is returned when industry satellites are configured without
// the make and use tables of their market shares.
var ErrNoMakeUse = errors.New("config: model.industry_satellites needs model.make and model.use")

// ModelConfig lists the table files of a model.
type ModelConfig struct {
	DRC          string   `mapstructure:"drc"`
	Satellites   []string `mapstructure:"satellites"`
	Sectors      string   `mapstructure:"sectors"`
	ImpactTables []string `mapstructure:"impact_tables"`
	Units        string   `mapstructure:"units"`
	Compartments string   `mapstructure:"compartments"`
	Locations    string   `mapstructure:"locations"`
	// IndustrySatellites are converted to commodities with the market
	// shares of Make and Use.
	IndustrySatellites []string `mapstructure:"industry_satellites"`
	Make               string   `mapstructure:"make"`
	Use                string   `mapstructure:"use"`
	// Scrap names the make-table columns treated as scrap, both for derived
	// coefficients and for market shares.
	Scrap   []string `mapstructure:"scrap"`
	FlowIDs string   `mapstructure:"flow_ids"` // "satellite" | "impact"
	Workers int      `mapstructure:"workers"`
}

// CalcConfig holds calculation defaults.
type CalcConfig struct {
	Perspective string `mapstructure:"perspective"` // "direct" | "intermediate" | "final"
	Demand      string `mapstructure:"demand"`
}

// ExportConfig holds matrix export settings.
type ExportConfig struct {
	Folder string `mapstructure:"folder"`
	DQI    bool   `mapstructure:"dqi"`
}

// MetricsConfig holds the prometheus textfile target. An empty path disables
// the export.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// Config is the root configuration.
type Config struct {
	Log     logging.Config `mapstructure:"log"`
	Model   ModelConfig    `mapstructure:"model"`
	Calc    CalcConfig     `mapstructure:"calc"`
	Export  ExportConfig   `mapstructure:"export"`
	Metrics MetricsConfig  `mapstructure:"metrics"`
}

// Validate performs semantic validation of the populated Config and returns
// the first problem found. Missing model files are not an error here; see
// RequireModel.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}
	if _, err := calc.ParsePerspective(c.Calc.Perspective); err != nil {
		return fmt.Errorf("config: calc.perspective: %w", err)
	}
	if _, err := ref.ParsePreference(c.Model.FlowIDs); err != nil {
		return fmt.Errorf("config: model.flow_ids: %w", err)
	}
	if len(c.Model.IndustrySatellites) > 0 && (c.Model.Make == "" || c.Model.Use == "") {
		return ErrNoMakeUse
	}
	if c.Model.Workers < 0 {
		return fmt.Errorf("config: model.workers must be >= 0, got %d", c.Model.Workers)
	}
	return nil
}

// RequireModel reports ErrNoModel unless the required model tables are set.
func (c *Config) RequireModel() error {
	sats := len(c.Model.Satellites) + len(c.Model.IndustrySatellites)
	if c.Model.DRC == "" || sats == 0 || c.Model.Sectors == "" {
		return ErrNoModel
	}
	return nil
}

// Sources converts the model section into model load sources.
func (c *Config) Sources() (model.Sources, error) {
	prefer, err := ref.ParsePreference(c.Model.FlowIDs)
	if err != nil {
		return model.Sources{}, err
	}
	return model.Sources{
		DRC:          c.Model.DRC,
		Satellites:   append([]string(nil), c.Model.Satellites...),
		Sectors:      c.Model.Sectors,
		ImpactTables: append([]string(nil), c.Model.ImpactTables...),
		Units:        c.Model.Units,
		Compartments: c.Model.Compartments,
		Locations:    c.Model.Locations,

		IndustrySatellites: append([]string(nil), c.Model.IndustrySatellites...),
		Make:               c.Model.Make,
		Use:                c.Model.Use,
		Scrap:              append([]string(nil), c.Model.Scrap...),

		FlowIDs: prefer,
		Workers: c.Model.Workers,
	}, nil
}

// Perspective returns the parsed calculation perspective.
func (c *Config) Perspective() (calc.Perspective, error) {
	return calc.ParsePerspective(c.Calc.Perspective)
}

// ResolvePaths makes every relative file path absolute against base, usually
// the directory of the configuration file.
func (c *Config) ResolvePaths(base string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	all := func(ps []string) []string {
		for i, p := range ps {
			ps[i] = abs(p)
		}
		return ps
	}

	c.Model.DRC = abs(c.Model.DRC)
	c.Model.Satellites = all(c.Model.Satellites)
	c.Model.Sectors = abs(c.Model.Sectors)
	c.Model.ImpactTables = all(c.Model.ImpactTables)
	c.Model.Units = abs(c.Model.Units)
	c.Model.Compartments = abs(c.Model.Compartments)
	c.Model.Locations = abs(c.Model.Locations)
	c.Model.IndustrySatellites = all(c.Model.IndustrySatellites)
	c.Model.Make = abs(c.Model.Make)
	c.Model.Use = abs(c.Model.Use)
	c.Calc.Demand = abs(c.Calc.Demand)
	c.Export.Folder = abs(c.Export.Folder)
	c.Metrics.Textfile = abs(c.Metrics.Textfile)
}
