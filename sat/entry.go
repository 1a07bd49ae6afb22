// SPDX-License-Identifier: MIT

// Package sat implements the satellite table: environmental flow amounts per
// economic sector, accumulated from one or more sources. Entries for the same
// (flow, sector) cell are merged, never overwritten.
//
// Tables are produced by a Builder and are immutable afterwards; derived
// tables (ApplyMarketShares, Merge, WithFlowIDs) are new values.
package sat

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/katalvlaran/eeio/dqi"
	"github.com/katalvlaran/eeio/ref"
)

// ErrRow marks a satellite row that cannot be read.
var ErrRow = errors.New("sat: invalid row")

// Row positions of the satellite layout.
const (
	colAmount  = 8
	colDQ      = 15
	colYear    = 20
	colTags    = 21
	colSources = 22
	colComment = 23

	// RowWidth is the number of fields written by Table.Rows.
	RowWidth = 24
)

// Header is the column header of exported satellite rows.
var Header = []string{
	"Flow name", "CAS number", "Category", "Sub-category", "Flow UUID",
	"Sector name", "Sector code", "Sector location", "Amount", "Unit",
	"Distribution type", "Expected value", "Dispersion", "Minimum", "Maximum",
	"Reliability", "Temporal correlation", "Geographical correlation",
	"Technological correlation", "Data collection",
	"Year", "Tags", "Sources", "Comment",
}

// Entry is the content of one satellite cell.
type Entry struct {
	Value float64
	// DQ is nil when no data quality scores were given.
	DQ dqi.Entry
	// Year is 0 when unknown.
	Year    int
	Tags    string
	Sources string
	Comment string
}

// EntryFromRow reads amount, data quality and provenance of a satellite row.
func EntryFromRow(row []string) (Entry, error) {
	raw := ref.Field(row, colAmount)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: amount %q", ErrRow, raw)
	}
	e := Entry{
		Value:   v,
		Tags:    ref.Field(row, colTags),
		Sources: ref.Field(row, colSources),
		Comment: ref.Field(row, colComment),
	}
	if len(row) > colDQ {
		end := colDQ + dqi.Dimensions
		if end > len(row) {
			end = len(row)
		}
		if e.DQ, err = dqi.FromFields(row[colDQ:end], dqi.Dimensions); err != nil {
			return Entry{}, fmt.Errorf("%w: %v", ErrRow, err)
		}
	}
	if y := ref.Field(row, colYear); y != "" {
		if e.Year, err = strconv.Atoi(y); err != nil {
			return Entry{}, fmt.Errorf("%w: year %q", ErrRow, y)
		}
	}
	return e, nil
}

// Merge combines e with o (e is the prior entry).
//
//   - values add up
//   - each DQ dimension is the value-weighted mean of both sides; an n.a.
//     side yields the other side, a zero total keeps e's score
//   - the later year wins
//   - provenance texts merge with mergeText
func (e Entry) Merge(o Entry) Entry {
	out := Entry{
		Value:   e.Value + o.Value,
		DQ:      mergeDQ(e.DQ, o.DQ, math.Abs(e.Value), math.Abs(o.Value)),
		Year:    e.Year,
		Tags:    mergeText(e.Tags, o.Tags),
		Sources: mergeText(e.Sources, o.Sources),
		Comment: mergeText(e.Comment, o.Comment),
	}
	if o.Year > out.Year {
		out.Year = o.Year
	}
	return out
}

// Scaled returns a copy of e with the value multiplied by f.
func (e Entry) Scaled(f float64) Entry {
	e.Value *= f
	return e
}

func mergeDQ(a, b dqi.Entry, va, vb float64) dqi.Entry {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		return append(dqi.Entry(nil), b...)
	case b == nil:
		return append(dqi.Entry(nil), a...)
	}
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make(dqi.Entry, n)
	for i := range out {
		qa, qb := dqi.NA, dqi.NA
		if i < len(a) {
			qa = a[i]
		}
		if i < len(b) {
			qb = b[i]
		}
		out[i] = dqi.MergeScore(qa, qb, va, vb)
	}
	return out
}

// mergeText keeps the longer text when one contains the other
// (case-insensitive), otherwise joins both with "; ". This is an
// approximation: "a; b" merged with "b; a" keeps both orders.
func mergeText(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if strings.Contains(la, lb) {
		return a
	}
	if strings.Contains(lb, la) {
		return b
	}
	return a + "; " + b
}

// fields renders the entry part of an export row.
func (e Entry) fields(row []string) {
	row[colAmount] = strconv.FormatFloat(e.Value, 'g', -1, 64)
	copy(row[colDQ:colDQ+dqi.Dimensions], e.DQ.Fields(dqi.Dimensions))
	if e.Year != 0 {
		row[colYear] = strconv.Itoa(e.Year)
	}
	row[colTags] = e.Tags
	row[colSources] = e.Sources
	row[colComment] = e.Comment
}
