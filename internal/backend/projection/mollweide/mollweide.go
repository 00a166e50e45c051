// Package mollweide backs projection.Projector with PROJ. It is the only
// package that links the PROJ C library.
package mollweide

import (
	"fmt"
	"math"

	"github.com/jo-hoe/skymap/internal/backend/projection"
	"github.com/pebbe/proj/v5"
)

const definition = "+proj=moll +R=1"

var _ projection.Projector = (*Projection)(nil)

// Projection is the equal-area whole-sky projection on a unit sphere
type Projection struct {
	ctx *proj.Context
	pj  *proj.PJ
}

// New creates a Mollweide projection centred on longitude 0
func New() (*Projection, error) {
	ctx := proj.NewContext()
	pj, err := ctx.Create(definition)
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("failed to create projection %q: %w", definition, err)
	}
	return &Projection{ctx: ctx, pj: pj}, nil
}

func (m *Projection) Forward(lon, lat float64) (float64, float64, error) {
	x, y, _, _, err := m.pj.Trans(proj.Fwd, lon, lat, 0, 0)
	if err != nil {
		return 0, 0, fmt.Errorf("project lon=%v lat=%v: %w", lon, lat, err)
	}
	return x, y, nil
}

// Extent of the unit-sphere Mollweide ellipse: 2√2 by √2
func (m *Projection) Extent() (float64, float64) {
	return 2 * math.Sqrt2, math.Sqrt2
}

func (m *Projection) Close() {
	if m.pj != nil {
		m.pj.Close()
		m.pj = nil
	}
	if m.ctx != nil {
		m.ctx.Close()
		m.ctx = nil
	}
}
