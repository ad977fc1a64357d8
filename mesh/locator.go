package mesh

import (
	"math"
	"sort"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// locatorCell is the rtree item for one mesh cell: its map-view footprint and
// depth range.
type locatorCell struct {
	geom.Polygonal
	cell       int
	zmin, zmax float64
}

// CellLocator answers point-in-cell queries against a mesh.
type CellLocator struct {
	index *rtree.Rtree
}

// NewCellLocator indexes the map-view footprint of every cell, taken from its
// upper K face. Geometry must have been computed.
func NewCellLocator(m *Mesh) *CellLocator {
	loc := &CellLocator{index: rtree.NewTree(25, 50)}
	for c := range m.Cells {
		top := -1
		for _, f := range m.Cells[c].Faces {
			if m.Faces[f].Direction != KDir {
				continue
			}
			if top < 0 || m.Faces[f].Centroid.Z < m.Faces[top].Centroid.Z {
				top = f
			}
		}
		if top < 0 {
			continue
		}
		item := &locatorCell{cell: c, zmin: math.Inf(1), zmax: math.Inf(-1)}
		var path []geom.Point
		for _, p := range m.FaceVertices(top) {
			path = append(path, geom.Point{X: p.X, Y: p.Y})
		}
		item.Polygonal = geom.Polygon{path}
		for _, f := range m.Cells[c].Faces {
			for _, p := range m.FaceVertices(f) {
				item.zmin = math.Min(item.zmin, p.Z)
				item.zmax = math.Max(item.zmax, p.Z)
			}
		}
		loc.index.Insert(item)
	}
	return loc
}

// Locate returns the cells whose footprint and depth range contain p. Points
// on a shared face are reported for every cell touching it.
func (loc *CellLocator) Locate(p r3.Vec) (cells []int) {
	pt := geom.Point{X: p.X, Y: p.Y}
	for _, it := range loc.index.SearchIntersect(pt.Bounds()) {
		c := it.(*locatorCell)
		if p.Z < c.zmin || p.Z > c.zmax {
			continue
		}
		if pt.Within(c.Polygonal) == geom.Outside {
			continue
		}
		cells = append(cells, c.cell)
	}
	sort.Ints(cells)
	return
}
