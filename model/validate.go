// SPDX-License-Identifier: MIT

package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/katalvlaran/eeio/ref"
)

// Severity classifies a validation message.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
	SeverityInfo    Severity = "INFO"
)

func (s Severity) rank() int {
	switch s {
	case SeverityError:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}

// Message is a single validation finding.
type Message struct {
	Severity Severity
	Text     string
}

func (m Message) String() string { return string(m.Severity) + " - " + m.Text }

// Validation collects the findings of a validation pass.
type Validation struct {
	Title    string
	Messages []Message
}

// NewValidation returns an empty result.
func NewValidation(title string) *Validation { return &Validation{Title: title} }

func (v *Validation) add(s Severity, format string, args ...interface{}) {
	v.Messages = append(v.Messages, Message{Severity: s, Text: fmt.Sprintf(format, args...)})
}

// Error records an error.
func (v *Validation) Error(format string, args ...interface{}) {
	v.add(SeverityError, format, args...)
}

// Warn records a warning.
func (v *Validation) Warn(format string, args ...interface{}) {
	v.add(SeverityWarning, format, args...)
}

// Info records an information message.
func (v *Validation) Info(format string, args ...interface{}) {
	v.add(SeverityInfo, format, args...)
}

// Count returns the number of messages of severity s.
func (v *Validation) Count(s Severity) int {
	n := 0
	for _, m := range v.Messages {
		if m.Severity == s {
			n++
		}
	}
	return n
}

// Failed reports whether any error was recorded.
func (v *Validation) Failed() bool { return v.Count(SeverityError) > 0 }

// Sorted returns the messages ordered errors first, keeping the recording
// order within a severity.
func (v *Validation) Sorted() []Message {
	out := append([]Message(nil), v.Messages...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity.rank() < out[j].Severity.rank()
	})
	return out
}

// String renders a summary line and every message, errors first.
func (v *Validation) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %d errors, %d warnings, %d information\n", v.Title,
		v.Count(SeverityError), v.Count(SeverityWarning), v.Count(SeverityInfo))
	for _, m := range v.Sorted() {
		sb.WriteString(m.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Validate checks a model without modifying it. The checks are structural
// and referential; nothing is calculated.
func Validate(m *Model) *Validation {
	v := NewValidation("Validation")
	if m == nil {
		v.Error("no model given")
		return v
	}

	if m.DRC == nil {
		v.Error("no direct requirements matrix A")
	} else {
		validateDRC(v, m)
	}
	if m.Sat == nil {
		v.Error("no satellite table")
	}
	if m.Sectors == nil {
		v.Error("no sector metadata")
	}
	if m.IA == nil {
		v.Warn("no impact assessment table; impact results are empty")
	}
	if v.Failed() {
		return v
	}

	validateSatellite(v, m)
	validateFlowIDs(v, m)
	validateRefData(v, m)

	v.Info("%d sectors, %d flows", m.DRC.Rows(), len(m.Sat.Flows()))
	if m.IA != nil {
		v.Info("%d impact categories", len(m.IA.Categories()))
	}
	return v
}

func validateDRC(v *Validation, m *Model) {
	a := m.DRC
	if a.Rows() != a.Cols() {
		v.Error("A is not square: %d x %d", a.Rows(), a.Cols())
		return
	}
	if !a.RowIndex().Equal(a.ColIndex()) {
		v.Error("row and column sectors of A differ")
	}
	if a.Rows() == 0 {
		v.Error("A has no sectors")
	}
	if m.Sectors == nil {
		return
	}
	for _, k := range a.ColKeys() {
		if _, ok := m.Sectors.Get(k); !ok {
			v.Error("sector %s of A has no metadata", k)
		}
	}
}

func validateSatellite(v *Validation, m *Model) {
	inA := m.DRC.ColIndex()
	covered := make(map[string]bool)
	for _, k := range m.Sat.SectorKeys() {
		if !inA.Contains(k) {
			v.Warn("satellite sector %s is not in A; its flows are ignored", k)
			continue
		}
		covered[k] = true
	}
	missing := 0
	for _, k := range m.DRC.ColKeys() {
		if !covered[k] {
			missing++
		}
	}
	if missing > 0 {
		v.Info("%d sectors of A have no satellite data", missing)
	}

	if m.IA == nil {
		return
	}
	uncharacterized := 0
	for _, f := range m.Sat.Flows() {
		if _, ok := m.IA.GetFlow(f.Key()); !ok {
			uncharacterized++
		}
	}
	if uncharacterized > 0 {
		v.Info("%d satellite flows have no characterization factors", uncharacterized)
	}
}

// validateFlowIDs reports identifiers used for more than one flow key.
func validateFlowIDs(v *Validation, m *Model) {
	flows := m.Sat.Flows()
	if m.IA != nil {
		flows = append(flows, m.IA.Flows()...)
	}
	owner := make(map[string]string)
	reported := make(map[string]bool)
	for _, f := range flows {
		if f.UID == "" {
			continue
		}
		k := f.Key()
		prev, ok := owner[f.UID]
		if !ok {
			owner[f.UID] = k
			continue
		}
		if prev != k && !reported[f.UID] {
			reported[f.UID] = true
			v.Error("flow id %s is used for %s and %s", f.UID, prev, k)
		}
	}
	if m.IA == nil {
		return
	}
	satIDs := make(map[string]string)
	for _, f := range m.Sat.Flows() {
		satIDs[f.Key()] = f.UID
	}
	for _, f := range m.IA.Flows() {
		if id, ok := satIDs[f.Key()]; ok && id != f.UID {
			v.Warn("flow %s has different ids in satellite (%s) and impact table (%s)", f.Key(), id, f.UID)
		}
	}
}

func validateRefData(v *Validation, m *Model) {
	data := m.Ref
	if data == nil {
		data = ref.DefaultData()
	}
	units := make(map[string]bool)
	compartments := make(map[string]bool)
	for _, f := range m.Sat.Flows() {
		if _, ok := data.TryUnit(f.Unit); !ok && !units[f.Unit] {
			units[f.Unit] = true
			v.Warn("unknown unit %q", f.Unit)
		}
		ck := f.CompartmentKey()
		if _, ok := data.TryCompartment(ck); !ok && !compartments[ck] {
			compartments[ck] = true
			v.Warn("unknown compartment %q", ck)
		}
	}
	locations := make(map[string]bool)
	for _, k := range m.DRC.ColKeys() {
		s, ok := m.Sectors.Get(k)
		if !ok {
			continue
		}
		if _, ok := data.TryLocation(s.Location); !ok && !locations[s.Location] {
			locations[s.Location] = true
			v.Warn("unknown location %q", s.Location)
		}
	}
}
