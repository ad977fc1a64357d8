package cpgrid

import (
	"math"

	"github.com/notargets/gocpg/grid"
	"github.com/notargets/gocpg/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	up   = r3.Vec{Z: -1}
	down = r3.Vec{Z: 1}
)

// elided reports whether a cell is skipped over by pinch processing.
func (as *assembler) elided(idx int) bool {
	return as.cfg.ProcessPinch && as.cells[idx].ZeroThickness()
}

// surface registers the top (dk=0) or bottom (dk=1) surface of a cell as a
// loop over its four pillars.
func (as *assembler) surface(i, j, k, dk int) []vref {
	refs := make([]vref, 0, 4)
	for _, p := range [4]int{0, 1, 3, 2} {
		di, dj, _ := grid.CornerOffsets(p)
		z := as.sec.Zcorn[as.sec.ZcornIndex(i, j, k, grid.Corner(di, dj, dk))]
		refs = append(refs, as.reg.add(as.pillars.Index(i+di, j+dj), z))
	}
	return refs
}

// coincident reports whether the bottom of cell (i,j,ka) matches the top of
// cell (i,j,kb) on all four pillars.
func (as *assembler) coincident(i, j, ka, kb int) bool {
	for p := 0; p < 4; p++ {
		di, dj, _ := grid.CornerOffsets(p)
		za := as.sec.Zcorn[as.sec.ZcornIndex(i, j, ka, grid.Corner(di, dj, 1))]
		zb := as.sec.Zcorn[as.sec.ZcornIndex(i, j, kb, grid.Corner(di, dj, 0))]
		if math.Abs(za-zb) > as.cfg.Tolerance {
			return false
		}
	}
	return true
}

// sweepColumn builds the K faces of one column. Consecutive emitted cells
// whose surfaces coincide share a face. Cells separated only by elided zero
// thickness cells are joined through a pinch connection. Anything else, an
// inactive or dropped cell or a vertical gap, leaves boundary faces.
func (as *assembler) sweepColumn(i, j int) (drafts []faceDraft) {
	boundary := func(k, dk int, out r3.Vec) {
		drafts = append(drafts, faceDraft{
			refs:    as.surface(i, j, k, dk),
			cells:   [2]int{as.cellID[as.sec.CellIndex(i, j, k)], mesh.Exterior},
			dir:     mesh.KDir,
			outward: out,
		})
	}
	prev, blocked := -1, false
	for k := 0; k < as.sec.Dims[2]; k++ {
		idx := as.sec.CellIndex(i, j, k)
		id := as.cellID[idx]
		switch {
		case id >= 0:
		case as.elided(idx):
			continue
		default:
			blocked = true
			continue
		}
		switch {
		case prev < 0:
			boundary(k, 0, up)
		case !blocked && as.coincident(i, j, prev, k):
			d := faceDraft{
				refs:    as.surface(i, j, prev, 1),
				cells:   [2]int{as.cellID[as.sec.CellIndex(i, j, prev)], id},
				dir:     mesh.KDir,
				outward: down,
			}
			if k != prev+1 {
				d.nonNeighbor, d.kind = true, mesh.PinchConnection
			}
			drafts = append(drafts, d)
		default:
			boundary(prev, 1, down)
			boundary(k, 0, up)
		}
		prev, blocked = k, false
	}
	if prev >= 0 {
		boundary(prev, 1, down)
	}
	return
}
