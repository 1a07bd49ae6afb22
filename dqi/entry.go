// SPDX-License-Identifier: MIT

package dqi

import (
	"fmt"
	"strings"
)

// Entry is a tuple of scores; nil means "no data quality information".
type Entry []Score

// NewEntry builds an entry from scores, returning nil when every score is NA.
func NewEntry(scores ...Score) Entry {
	for _, s := range scores {
		if !s.IsNA() {
			e := make(Entry, len(scores))
			copy(e, scores)
			return e
		}
	}
	return nil
}

// FromFields parses up to max score fields (empty and "n.a." are NA).
// The result is nil when no field carries a score.
func FromFields(fields []string, max int) (Entry, error) {
	if len(fields) > max {
		fields = fields[:max]
	}
	scores := make([]Score, len(fields))
	for i, f := range fields {
		s, err := ParseScore(f)
		if err != nil {
			return nil, err
		}
		scores[i] = s
	}
	return NewEntry(scores...), nil
}

// Fields renders the entry as n text fields; a nil entry yields empty fields.
func (e Entry) Fields(n int) []string {
	out := make([]string, n)
	if e == nil {
		return out
	}
	for i := 0; i < n && i < len(e); i++ {
		out[i] = e[i].String()
	}
	return out
}

// String renders "(1,2,n.a.)", or "(none)" for nil.
func (e Entry) String() string {
	return e.format(",")
}

// ProvenanceString renders the semicolon form "(1;2;n.a.)" used in satellite data.
func (e Entry) ProvenanceString() string {
	return e.format(";")
}

func (e Entry) format(sep string) string {
	if e == nil {
		return "(none)"
	}
	parts := make([]string, len(e))
	for i, s := range e {
		parts[i] = s.String()
	}
	return "(" + strings.Join(parts, sep) + ")"
}

// Equal compares two entries score by score; nil equals only nil.
func (e Entry) Equal(o Entry) bool {
	if (e == nil) != (o == nil) || len(e) != len(o) {
		return false
	}
	for i := range e {
		if e[i] != o[i] {
			return false
		}
	}
	return true
}

// ParseEntry reads "(1,2,n.a.)" or "(none)"; separators ',' and ';' are accepted.
func ParseEntry(text string) (Entry, error) {
	t := strings.TrimSpace(text)
	t = strings.TrimPrefix(t, "(")
	t = strings.TrimSuffix(t, ")")
	t = strings.TrimSpace(t)
	if t == "" || t == "none" {
		return nil, nil
	}
	parts := strings.FieldsFunc(t, func(r rune) bool { return r == ',' || r == ';' })
	e := make(Entry, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("%w: entry %q", ErrSyntax, text)
		}
		s, err := ParseScore(p)
		if err != nil {
			return nil, err
		}
		e = append(e, s)
	}
	return e, nil
}

// AggregateEntries aggregates entries position by position with fn
// (WeightedAvg when nil). Nil entries and their weights are skipped; shorter
// entries contribute NA at missing positions. The result is nil when no entry
// carries data.
func AggregateEntries(entries []Entry, weights []float64, fn AggFunc) Entry {
	if fn == nil {
		fn = WeightedAvg
	}
	n := len(entries)
	if len(weights) < n {
		n = len(weights)
	}
	size := 0
	for i := 0; i < n; i++ {
		if len(entries[i]) > size {
			size = len(entries[i])
		}
	}
	if size == 0 {
		return nil
	}

	lines := make([][]Score, size)
	ws := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		e := entries[i]
		if e == nil {
			continue
		}
		ws = append(ws, weights[i])
		for pos := 0; pos < size; pos++ {
			if pos < len(e) {
				lines[pos] = append(lines[pos], e[pos])
			} else {
				lines[pos] = append(lines[pos], NA)
			}
		}
	}

	out := make(Entry, size)
	for pos, line := range lines {
		out[pos] = fn(line, ws)
	}
	return out
}
