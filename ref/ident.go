// SPDX-License-Identifier: MIT

// Package ref holds the reference entities of an EEIO model: sectors,
// elementary flows and impact categories, their canonical keys and stable
// identifiers, and the reference data (units, locations, compartments) that
// flows and sectors are resolved against.
package ref

import (
	"strings"

	"github.com/google/uuid"
)

// AsPath lower-cases and trims every part and joins them with "/".
func AsPath(parts ...string) string {
	clean := make([]string, len(parts))
	for i, p := range parts {
		clean[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return strings.Join(clean, "/")
}

// MakeUUID derives a name-based (version 3, MD5) UUID in the OID namespace
// from the path of parts. Equal paths give equal ids across runs and tools.
func MakeUUID(parts ...string) string {
	return uuid.NewMD5(uuid.NameSpaceOID, []byte(AsPath(parts...))).String()
}

// FlowUID is the default identifier of an elementary flow.
func FlowUID(name, category, subCategory, unit string) string {
	return MakeUUID("Flow", name, category, subCategory, unit)
}

// Field returns row[i] trimmed, or "" when the row is too short.
func Field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
