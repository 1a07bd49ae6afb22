// SPDX-License-Identifier: MIT

package model

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/eeio/calc"
	"github.com/katalvlaran/eeio/dqi"
	"github.com/katalvlaran/eeio/internal/logging"
	"github.com/katalvlaran/eeio/keyed"
)

// ErrIncomplete is returned when A or the satellite table is missing.
var ErrIncomplete = errors.New("model: incomplete model")

// Matrices is the derived matrix set of a model.
//
//	A  sectors × sectors     direct requirements coefficients
//	L  sectors × sectors     Leontief inverse (I−A)⁻¹
//	B  flows × sectors       satellite matrix aligned to A's sectors
//	C  categories × flows    characterization factors aligned to B's flows
//	D  categories × sectors  direct impacts per unit output, C·B
//	U  categories × sectors  upstream impacts per unit output, D·L
//
// The DQI matrices are set only when requested.
type Matrices struct {
	A, L, B, C, D, U *keyed.Matrix

	BDQI, DDQI, UDQI *dqi.Matrix
}

// Matrices derives the matrix set. Without an impact assessment table C has
// no rows, and so have D and U. The inverse observer of opts sees the
// computation of L.
func (m *Model) Matrices(withDQI bool, opts ...calc.Option) (*Matrices, error) {
	if m.DRC == nil || m.Sat == nil {
		return nil, ErrIncomplete
	}
	out := &Matrices{A: m.DRC}
	var err error
	if out.L, err = calc.LeontiefInverseWith(m.DRC, opts...); err != nil {
		return nil, err
	}
	if out.B, err = m.Sat.AsMatrix().ReindexCols(m.DRC.ColKeys()); err != nil {
		return nil, fmt.Errorf("model: B: %w", err)
	}
	if m.IA != nil {
		out.C, err = m.IA.MatrixFor(out.B.RowKeys())
	} else {
		out.C, err = keyed.New(nil, out.B.RowKeys())
	}
	if err != nil {
		return nil, fmt.Errorf("model: C: %w", err)
	}
	if out.D, err = keyed.Mul(out.C, out.B); err != nil {
		return nil, fmt.Errorf("model: D: %w", err)
	}
	if out.U, err = keyed.Mul(out.D, out.L); err != nil {
		return nil, fmt.Errorf("model: U: %w", err)
	}

	if withDQI {
		out.BDQI = m.Sat.DQIMatrix(out.B.RowKeys(), out.B.ColKeys())
		if out.DDQI, err = out.BDQI.AggregateMmult(out.C.Dense(), out.B.Dense(), false); err != nil {
			m.log.Warn("D_dqi could not be computed", logging.Err(err))
			return out, nil
		}
		if out.UDQI, err = out.DDQI.AggregateMmult(out.D.Dense(), out.L.Dense(), true); err != nil {
			m.log.Warn("U_dqi could not be computed", logging.Err(err))
		}
	}
	return out, nil
}
