package cpgrid

import (
	"github.com/notargets/gocpg/grid"
	"gonum.org/v1/gonum/spatial/r3"
)

// Pillar is the line through two COORD endpoints.
type Pillar struct {
	Top, Bottom r3.Vec
}

// At returns the point of the pillar at depth z. Pillars whose endpoints share
// a depth are treated as vertical through the top point.
func (p Pillar) At(z float64) r3.Vec {
	dz := p.Bottom.Z - p.Top.Z
	if dz == 0 {
		return r3.Vec{X: p.Top.X, Y: p.Top.Y, Z: z}
	}
	t := (z - p.Top.Z) / dz
	return r3.Vec{
		X: p.Top.X + t*(p.Bottom.X-p.Top.X),
		Y: p.Top.Y + t*(p.Bottom.Y-p.Top.Y),
		Z: z,
	}
}

// Mid is the point halfway between the endpoints.
func (p Pillar) Mid() r3.Vec {
	return r3.Scale(0.5, r3.Add(p.Top, p.Bottom))
}

// Pillars is the (nx+1) x (ny+1) pillar lattice, I fastest.
type Pillars struct {
	NI, NJ int
	Lines  []Pillar
}

func (ps Pillars) Index(I, J int) int {
	return I + ps.NI*J
}

func (ps Pillars) At(I, J int) Pillar {
	return ps.Lines[ps.Index(I, J)]
}

// BuildPillars reads the pillar lattice from COORD.
func BuildPillars(sec *grid.Section) (Pillars, error) {
	nI, nJ := sec.Dims[0]+1, sec.Dims[1]+1
	if want := 6 * nI * nJ; len(sec.Coord) != want {
		return Pillars{}, &grid.MalformedGridError{Keyword: "COORD", Got: len(sec.Coord), Want: want}
	}
	ps := Pillars{NI: nI, NJ: nJ, Lines: make([]Pillar, nI*nJ)}
	for p := range ps.Lines {
		c := sec.Coord[6*p : 6*p+6]
		ps.Lines[p] = Pillar{
			Top:    r3.Vec{X: c[0], Y: c[1], Z: c[2]},
			Bottom: r3.Vec{X: c[3], Y: c[4], Z: c[5]},
		}
	}
	return ps, nil
}
