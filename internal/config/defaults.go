// SPDX-License-Identifier: MIT

package config

import "github.com/spf13/viper"

const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"

	DefaultPerspective = "direct"
	DefaultFlowIDs     = "satellite"

	DefaultExportFolder = "out"
)

// ApplyDefaults fills every zero-value field in cfg with its default. Fields
// already set are left unchanged so that explicit configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if len(cfg.Log.OutputPaths) == 0 {
		cfg.Log.OutputPaths = []string{"stderr"}
	}

	if cfg.Model.FlowIDs == "" {
		cfg.Model.FlowIDs = DefaultFlowIDs
	}
	if cfg.Calc.Perspective == "" {
		cfg.Calc.Perspective = DefaultPerspective
	}
	if cfg.Export.Folder == "" {
		cfg.Export.Folder = DefaultExportFolder
	}
}

// registerKeys makes every key known to v so that EEIO_* variables override
// settings that are absent from the file.
func registerKeys(v *viper.Viper) {
	for key, val := range map[string]interface{}{
		"log.level":                 "",
		"log.format":                "",
		"log.output_paths":          []string{},
		"model.drc":                 "",
		"model.satellites":          []string{},
		"model.sectors":             "",
		"model.impact_tables":       []string{},
		"model.units":               "",
		"model.compartments":        "",
		"model.locations":           "",
		"model.industry_satellites": []string{},
		"model.make":                "",
		"model.use":                 "",
		"model.scrap":               []string{},
		"model.flow_ids":            "",
		"model.workers":             0,
		"calc.perspective":          "",
		"calc.demand":               "",
		"export.folder":             "",
		"export.dqi":                false,
		"metrics.textfile":          "",
	} {
		v.SetDefault(key, val)
	}
}
