// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix of every setting.
const envPrefix = "EEIO"

// newViper builds a Viper instance reading YAML with EEIO_ env overrides;
// "model.drc" resolves to EEIO_MODEL_DRC. List values are comma separated.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	registerKeys(v)
	return v
}

// Load reads the YAML file at configPath, merges EEIO_* environment
// overrides, applies defaults and validates the result. Relative file paths
// are resolved against the directory of configPath.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	cfg, err := unmarshalAndFinalize(v)
	if err != nil {
		return nil, err
	}
	cfg.ResolvePaths(filepath.Dir(configPath))
	return cfg, nil
}

// LoadFromEnv builds a Config from EEIO_* environment variables alone.
//
//	EEIO_<SECTION>_<FIELD>   e.g.  EEIO_MODEL_DRC, EEIO_CALC_PERSPECTIVE
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}
