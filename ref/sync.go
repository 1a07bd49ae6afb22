// SPDX-License-Identifier: MIT

package ref

import (
	"fmt"
	"strings"
)

// Preference selects which table wins when flow identifiers disagree.
type Preference string

const (
	// PreferSatellite keeps the satellite table identifiers.
	PreferSatellite Preference = "satellite"
	// PreferImpact keeps the impact assessment identifiers.
	PreferImpact Preference = "impact"
)

// ParsePreference reads "satellite" or "impact" (case-insensitive).
func ParsePreference(s string) (Preference, error) {
	switch p := Preference(strings.ToLower(strings.TrimSpace(s))); p {
	case PreferSatellite, PreferImpact:
		return p, nil
	case "":
		return PreferSatellite, nil
	default:
		return "", fmt.Errorf("ref: unknown flow id preference %q", s)
	}
}

// SyncFlowIDs compares flows with equal keys across the satellite and
// impact assessment tables. For every key whose identifiers differ it
// returns the identifier of the preferred side, keyed by flow key. The
// caller applies the map to the non-preferred table.
func SyncFlowIDs(satFlows, iaFlows []ElemFlow, prefer Preference) map[string]string {
	satIDs := make(map[string]string, len(satFlows))
	for _, f := range satFlows {
		satIDs[f.Key()] = f.UID
	}
	out := make(map[string]string)
	for _, f := range iaFlows {
		k := f.Key()
		sid, ok := satIDs[k]
		if !ok || sid == f.UID {
			continue
		}
		if prefer == PreferImpact {
			out[k] = f.UID
		} else {
			out[k] = sid
		}
	}
	return out
}
