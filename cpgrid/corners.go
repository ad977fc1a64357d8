package cpgrid

import (
	"context"
	"math"

	"github.com/ctessum/geom"
	"github.com/notargets/gocpg/grid"
	"github.com/notargets/gocpg/mesh"
	"github.com/notargets/gocpg/utils"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"
)

// AllCollapsed is the Collapsed mask of a cell with zero thickness on all four
// of its pillars.
const AllCollapsed = 0xF

// ResolvedCell holds the corner positions of one logical cell.
type ResolvedCell struct {
	Corners    [grid.NumCorners]r3.Vec
	Collapsed  uint8 // bit di+2*dj set when top and bottom coincide on that pillar
	Active     bool
	Degenerate bool // dropped, horizontal footprint spans no area
	Distinct   int  // distinct corner positions
}

// ZeroThickness reports whether the cell is collapsed on all of its pillars.
func (c *ResolvedCell) ZeroThickness() bool {
	return c.Collapsed == AllCollapsed
}

// Type classifies the cell by its distinct corner count. A zero thickness
// cell is a flat quad and has no solid type.
func (c *ResolvedCell) Type() mesh.ElementType {
	if c.ZeroThickness() {
		return mesh.Polyhedron
	}
	return mesh.ElementTypeFromCorners(c.Distinct)
}

// ResolveCorners interpolates the eight corners of every logical cell on its
// four pillars. Inactive cells are resolved as well since their geometry
// still bounds the faces of their neighbors. Cells whose corners do not span
// an area in map view are flagged Degenerate and reported; the build fails
// with ErrTooManyDegenerate when their share of the active cells exceeds
// cfg.MaxDegenerateFraction.
func ResolveCorners(ctx context.Context, sec *grid.Section, pillars Pillars, active []bool,
	cfg Config) (cells []ResolvedCell, degenerate []DegenerateGeometryError, err error) {
	cfg.setDefaults()
	cells = make([]ResolvedCell, sec.NumCells())
	pm := utils.NewPartitionMap(cfg.Workers, len(cells))
	err = pm.ForEachBucket(ctx, func(ctx context.Context, bn, kMin, kMax int) error {
		for idx := kMin; idx < kMax; idx++ {
			resolveCell(sec, pillars, idx, cfg.Tolerance, &cells[idx])
			cells[idx].Active = active == nil || active[idx]
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	var nActive int
	for idx := range cells {
		c := &cells[idx]
		if !c.Active {
			continue
		}
		nActive++
		if c.Degenerate {
			i, j, k := sec.CellIJK(idx)
			distinct, area := footprint(c, cfg.Tolerance)
			degenerate = append(degenerate, DegenerateGeometryError{
				Cell: [3]int{i, j, k}, Distinct: distinct, Area: area,
			})
		}
	}
	if nActive > 0 && float64(len(degenerate)) > cfg.MaxDegenerateFraction*float64(nActive) {
		return nil, degenerate, errors.Wrapf(ErrTooManyDegenerate, "%d of %d active cells",
			len(degenerate), nActive)
	}
	return
}

func resolveCell(sec *grid.Section, pillars Pillars, idx int, tol float64, c *ResolvedCell) {
	i, j, k := sec.CellIJK(idx)
	z := sec.CellDepths(i, j, k)
	for corner := 0; corner < grid.NumCorners; corner++ {
		di, dj, _ := grid.CornerOffsets(corner)
		c.Corners[corner] = pillars.At(i+di, j+dj).At(z[corner])
	}
	for p := 0; p < 4; p++ {
		if math.Abs(z[p+4]-z[p]) <= tol {
			c.Collapsed |= 1 << uint(p)
		}
	}
	c.Distinct = countDistinct(c.Corners[:], tol)
	distinct, area := footprint(c, tol)
	c.Degenerate = distinct < 4 || area <= tol*footprintScale(c)
}

func countDistinct(pts []r3.Vec, tol float64) (n int) {
	for a := range pts {
		unique := true
		for b := 0; b < a; b++ {
			if r3.Norm(r3.Sub(pts[a], pts[b])) <= tol {
				unique = false
				break
			}
		}
		if unique {
			n++
		}
	}
	return
}

// footprint counts the distinct map view corner positions and returns the
// larger of the top and bottom face areas projected on the horizontal plane.
func footprint(c *ResolvedCell, tol float64) (distinct int, area float64) {
	var flat [grid.NumCorners]r3.Vec
	for n, p := range c.Corners {
		flat[n] = r3.Vec{X: p.X, Y: p.Y}
	}
	distinct = countDistinct(flat[:], tol)
	for dk := 0; dk < 2; dk++ {
		ring := make([]geom.Point, 0, 4)
		for _, p := range [4]int{0, 1, 3, 2} {
			q := c.Corners[p+4*dk]
			ring = append(ring, geom.Point{X: q.X, Y: q.Y})
		}
		area = math.Max(area, geom.Polygon{ring}.Area())
	}
	return
}

// footprintScale is the map view diagonal of the cell.
func footprintScale(c *ResolvedCell) float64 {
	b := geom.NewBounds()
	for _, p := range c.Corners {
		b.Extend(geom.Point{X: p.X, Y: p.Y}.Bounds())
	}
	return math.Hypot(b.Max.X-b.Min.X, b.Max.Y-b.Min.Y)
}
