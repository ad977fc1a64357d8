package horizons

import (
	"fmt"
	"math"
)

// TransformPoint is the input of a vertical transform: one cell corner with
// its column center and the logical position of the cell.
type TransformPoint struct {
	X, Y, Z float64
	XC, YC  float64
	I, J, K int
}

// VerticalTransform returns the new depth of a corner.
type VerticalTransform func(p TransformPoint) float64

// PillarPoint is a pillar in logical position (I,J) with the depth range of
// the corners it carries.
type PillarPoint struct {
	X, Y          float64
	ZTop, ZBottom float64
	I, J          int
}

// PillarPosition places the top and bottom endpoints of a pillar in map view.
type PillarPosition struct {
	XTop, YTop       float64
	XBottom, YBottom float64
}

// PillarTransform relocates a pillar.
type PillarTransform func(p PillarPoint) PillarPosition

// UnsupportedTransformError is returned when a transform produces a value the
// grid cannot hold.
type UnsupportedTransformError struct {
	Kind  string // "vertical" or "pillar"
	Index int    // position in the transform list
	At    [3]int
	Value float64
}

func (e *UnsupportedTransformError) Error() string {
	if e.Kind == "pillar" {
		return fmt.Sprintf("pillar transform returned %g at pillar (%d,%d)", e.Value, e.At[0], e.At[1])
	}
	return fmt.Sprintf("vertical transform %d returned %g at cell (%d,%d,%d)",
		e.Index, e.Value, e.At[0], e.At[1], e.At[2])
}

func finite(v ...float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// PlanarFault throws every column whose center lies on the positive side of a
// vertical plane down by Throw. The plane passes through (X, Y) with map view
// normal (NX, NY).
type PlanarFault struct {
	X, Y   float64
	NX, NY float64
	Throw  float64
}

// Transform turns the fault into a vertical transform.
func (f PlanarFault) Transform() VerticalTransform {
	return func(p TransformPoint) float64 {
		if (p.XC-f.X)*f.NX+(p.YC-f.Y)*f.NY > 0 {
			return p.Z + f.Throw
		}
		return p.Z
	}
}

// LinearTaper slants pillars: the bottom endpoint moves DX and DY per unit of
// depth below the top.
func LinearTaper(dx, dy float64) PillarTransform {
	return func(p PillarPoint) PillarPosition {
		h := p.ZBottom - p.ZTop
		return PillarPosition{
			XTop: p.X, YTop: p.Y,
			XBottom: p.X + dx*h, YBottom: p.Y + dy*h,
		}
	}
}
