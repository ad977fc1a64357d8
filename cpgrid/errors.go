package cpgrid

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrTooManyDegenerate is returned when more cells were dropped for
// degenerate geometry than Config.MaxDegenerateFraction allows.
var ErrTooManyDegenerate = errors.New("too many degenerate cells")

// NonMonotoneDepthError reports a corner depth above the one stacked before it
// on the same pillar, found while depth repair was disabled.
type NonMonotoneDepthError struct {
	Pillar   [2]int // I, J
	Cell     [3]int // i, j, k
	Depth    float64
	Previous float64
}

func (e *NonMonotoneDepthError) Error() string {
	return fmt.Sprintf("non-monotone depth on pillar (%d,%d) at cell (%d,%d,%d): %g is above %g",
		e.Pillar[0], e.Pillar[1], e.Cell[0], e.Cell[1], e.Cell[2], e.Depth, e.Previous)
}

// DegenerateGeometryError describes a cell dropped because its corners do not
// span an area in the horizontal plane.
type DegenerateGeometryError struct {
	Cell     [3]int
	Distinct int     // distinct horizontal corner positions
	Area     float64 // footprint area
}

func (e *DegenerateGeometryError) Error() string {
	return fmt.Sprintf("degenerate cell (%d,%d,%d): %d distinct horizontal corners, footprint area %g",
		e.Cell[0], e.Cell[1], e.Cell[2], e.Distinct, e.Area)
}
