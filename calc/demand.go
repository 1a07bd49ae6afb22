// SPDX-License-Identifier: MIT

package calc

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ReadDemand decodes a YAML mapping of sector key to demand amount:
//
//	"3/car assembly/us": 1
//	"1/electricity/us": 0.5
func ReadDemand(r io.Reader) (map[string]float64, error) {
	var out map[string]float64
	if err := yaml.NewDecoder(r).Decode(&out); err != nil {
		if err == io.EOF {
			return map[string]float64{}, nil
		}
		return nil, fmt.Errorf("calc: read demand: %w", err)
	}
	if out == nil {
		out = map[string]float64{}
	}
	return out, nil
}

// ReadDemandFile is ReadDemand over a file.
func ReadDemandFile(path string) (map[string]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadDemand(f)
}
