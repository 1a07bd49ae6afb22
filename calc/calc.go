// SPDX-License-Identifier: MIT

// Package calc computes demand driven results of an EEIO model.
//
// Given the direct requirements coefficients A (sector × sector), the
// satellite matrix B (flow × sector) and optionally the characterization
// factors C (category × flow), Calculate derives:
//
//	L = (I−A)⁻¹               Leontief inverse
//	s = L·d                   scaling vector (total output per sector)
//	g = B·s                   total flow results
//	h = C·g                   total impact results
//
// and the sector contributions of the selected perspective:
//
//	direct:        B·diag(s)
//	intermediate:  (B·L)·diag(s)
//	final:         (B·L)·diag(d)
//
// Summing the contributions of a flow over all sectors reproduces its total
// under the direct and final perspectives. Intermediate contributions sum to
// (B·L)·s instead and count upstream burden once per supplying sector.
package calc

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/katalvlaran/eeio/internal/logging"
	"github.com/katalvlaran/eeio/keyed"
	"github.com/katalvlaran/eeio/matrix"
)

// Sentinel errors.
var (
	ErrNoDRC          = errors.New("calc: missing direct requirements matrix")
	ErrNoSatellite    = errors.New("calc: missing satellite matrix")
	ErrSectorMismatch = errors.New("calc: A row and column sectors differ")
	ErrPerspective    = errors.New("calc: unknown perspective")
)

// TotalKey is the column key of total result vectors.
const TotalKey = "total"

// Perspective selects the attribution basis of contribution results.
type Perspective string

const (
	Direct       Perspective = "direct"
	Intermediate Perspective = "intermediate"
	Final        Perspective = "final"
)

// Perspectives lists the supported perspectives.
var Perspectives = []Perspective{Direct, Intermediate, Final}

// ParsePerspective reads a perspective name; the empty string is Direct.
func ParsePerspective(s string) (Perspective, error) {
	switch p := Perspective(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return Direct, nil
	case Direct, Intermediate, Final:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrPerspective, s)
	}
}

// Input holds the model matrices. C may be nil.
type Input struct {
	A *keyed.Matrix
	B *keyed.Matrix
	C *keyed.Matrix
}

// Result holds the outcome of a calculation. Impact fields are nil when the
// input had no characterization factors.
type Result struct {
	Perspective Perspective
	// Sectors is the sector order of Demand, Scaling and contribution columns.
	Sectors []string
	Demand  []float64
	Scaling []float64

	// flows × {total}
	LCITotal *keyed.Matrix
	// categories × {total}
	LCIATotal *keyed.Matrix
	// flows × sectors
	LCIContributions *keyed.Matrix
	// categories × sectors
	LCIAContributions *keyed.Matrix
	// categories × flows: factor times flow total
	LCIAFlowContributions *keyed.Matrix
}

// Option configures Calculate.
type Option func(*options)

type options struct {
	log       logging.Logger
	onInverse func(n int, d time.Duration)
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithInverseObserver registers a callback receiving the order and duration
// of every Leontief inversion.
func WithInverseObserver(fn func(n int, d time.Duration)) Option {
	return func(o *options) { o.onInverse = fn }
}

func newOptions(opts []Option) options {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	o.log = logging.OrDefault(o.log).Named("calc")
	return o
}

// Calculate computes the result of demand (sector key → amount) under the
// perspective p. Unknown demand keys are logged and ignored; a singular I−A
// returns an error wrapping matrix.ErrSingular.
func Calculate(in Input, demand map[string]float64, p Perspective, opts ...Option) (*Result, error) {
	o := newOptions(opts)
	if in.A == nil {
		return nil, ErrNoDRC
	}
	if in.B == nil {
		return nil, ErrNoSatellite
	}
	if !in.A.RowIndex().Equal(in.A.ColIndex()) {
		return nil, ErrSectorMismatch
	}
	switch p {
	case Direct, Intermediate, Final:
	default:
		return nil, fmt.Errorf("%w: %q", ErrPerspective, p)
	}

	sectors := in.A.ColKeys()
	dev := DemandVector(in.A, demand, o.log)

	inv, err := o.inverse(in.A)
	if err != nil {
		return nil, err
	}
	sca, err := ScalingVector(inv, dev)
	if err != nil {
		return nil, err
	}

	b, err := in.B.ReindexCols(sectors)
	if err != nil {
		return nil, fmt.Errorf("calc: align B: %w", err)
	}
	var c *keyed.Matrix
	if in.C != nil {
		if c, err = in.C.ReindexCols(b.RowKeys()); err != nil {
			return nil, fmt.Errorf("calc: align C: %w", err)
		}
	}

	r := &Result{Perspective: p, Sectors: sectors, Demand: dev, Scaling: sca}
	if r.LCITotal, err = MatVec(b, sca); err != nil {
		return nil, err
	}
	if c != nil {
		if r.LCIATotal, err = keyed.Mul(c, r.LCITotal); err != nil {
			return nil, err
		}
		if r.LCIAFlowContributions, err = ScaleColumns(c, r.LCITotal.Dense().Col(0)); err != nil {
			return nil, err
		}
	}

	switch p {
	case Direct:
		r.LCIContributions, err = ScaleColumns(b, sca)
	case Intermediate, Final:
		var upstream *keyed.Matrix
		if upstream, err = keyed.Mul(b, inv); err != nil {
			return nil, err
		}
		v := sca
		if p == Final {
			v = dev
		}
		r.LCIContributions, err = ScaleColumns(upstream, v)
	}
	if err != nil {
		return nil, err
	}
	if c != nil {
		if r.LCIAContributions, err = keyed.Mul(c, r.LCIContributions); err != nil {
			return nil, err
		}
	}

	o.log.Debug("calculation done",
		logging.String("perspective", string(p)),
		logging.Int("sectors", len(sectors)),
		logging.Int("flows", b.Rows()),
		logging.Bool("impacts", c != nil))
	return r, nil
}

// LeontiefInverseWith is LeontiefInverse reporting to the inverse observer
// of opts.
func LeontiefInverseWith(a *keyed.Matrix, opts ...Option) (*keyed.Matrix, error) {
	o := newOptions(opts)
	return o.inverse(a)
}

func (o options) inverse(a *keyed.Matrix) (*keyed.Matrix, error) {
	start := time.Now()
	inv, err := LeontiefInverse(a)
	if err != nil {
		return nil, err
	}
	if o.onInverse != nil {
		o.onInverse(a.Rows(), time.Since(start))
	}
	return inv, nil
}

// LeontiefInverse returns (I−A)⁻¹ keyed like a.
func LeontiefInverse(a *keyed.Matrix) (*keyed.Matrix, error) {
	sys, err := matrix.IdentityMinus(a.Dense())
	if err != nil {
		return nil, fmt.Errorf("calc: leontief: %w", err)
	}
	inv, err := matrix.Inverse(sys)
	if err != nil {
		return nil, fmt.Errorf("calc: leontief: %w", err)
	}
	return a.WithDense(inv)
}
