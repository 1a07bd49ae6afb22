// SPDX-License-Identifier: MIT

// Package dqi implements data quality indicators and their propagation.
//
// A DQI Entry is a short tuple of categorical scores (reliability, temporal,
// geographical, technological correlation, data collection). Entries are
// aggregated with value-weighted means so that quality follows the same
// algebra as the numbers it describes: column reductions and matrix
// products. See WeightedAvg for the aggregation rule.
package dqi

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Score is one indicator value. NA marks "not applicable".
type Score int

// NA is the not-applicable score.
const NA Score = -1

// NAText is the textual form of NA in every codec.
const NAText = "n.a."

// Dimensions is the number of indicators carried by satellite and sector entries.
const Dimensions = 5

// IsNA reports whether s is not applicable.
func (s Score) IsNA() bool { return s < 0 }

// String renders the score or "n.a.".
func (s Score) String() string {
	if s.IsNA() {
		return NAText
	}
	return strconv.Itoa(int(s))
}

// ParseScore reads an integer score; empty text and "n.a." yield NA.
func ParseScore(text string) (Score, error) {
	t := strings.TrimSpace(text)
	if t == "" || strings.EqualFold(t, NAText) {
		return NA, nil
	}
	v, err := strconv.Atoi(t)
	if err != nil || v < 0 {
		return NA, fmt.Errorf("%w: score %q", ErrSyntax, text)
	}
	return Score(v), nil
}

// round matches the half-to-even rounding of the reference data sets.
func round(x float64) Score { return Score(math.RoundToEven(x)) }

// WeightedAvg aggregates scores with |weights|, ignoring NA scores.
//
//   - no pairs (empty input)       → NA
//   - only NA scores               → NA
//   - total weight 0               → the maximum observed score
//   - otherwise                    → rounded weighted mean
//
// Only the first min(len(scores), len(weights)) pairs are used.
func WeightedAvg(scores []Score, weights []float64) Score {
	n := len(scores)
	if len(weights) < n {
		n = len(weights)
	}
	if n == 0 {
		return NA
	}

	var wsum float64
	maxScore := NA
	for i := 0; i < n; i++ {
		if scores[i].IsNA() {
			continue
		}
		wsum += math.Abs(weights[i])
		if scores[i] > maxScore {
			maxScore = scores[i]
		}
	}
	if maxScore.IsNA() {
		return NA
	}
	if wsum == 0 {
		return maxScore
	}

	var avg float64
	for i := 0; i < n; i++ {
		if scores[i].IsNA() {
			continue
		}
		avg += float64(scores[i]) * math.Abs(weights[i]) / wsum
	}
	return round(avg)
}

// AggFunc is the signature of a score aggregation rule.
type AggFunc func(scores []Score, weights []float64) Score

// MergeScore merges two scores carried by entries with values v1 and v2.
// An NA side takes the other side; two scores give the value-weighted mean;
// when v1+v2 is 0 the prior score q1 is kept.
func MergeScore(q1, q2 Score, v1, v2 float64) Score {
	switch {
	case q1.IsNA():
		return q2
	case q2.IsNA():
		return q1
	}
	total := v1 + v2
	if total == 0 {
		return q1
	}
	return round((float64(q1)*v1 + float64(q2)*v2) / total)
}
