package cpgrid

import (
	"github.com/notargets/gocpg/grid"
	"github.com/notargets/gocpg/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// side is the trace of one emitted cell on a pillar edge.
type side struct {
	cell int // mesh cell id
	k    int
	band
}

// edgeColumn is one of the two columns along a pillar edge.
type edgeColumn struct {
	valid  bool
	i, j   int
	fixed  int // the corner offset that selects this edge in the column
	center r3.Vec
}

// pillarEdge is the vertical surface spanned by two neighboring pillars.
// Points on it are addressed by (s, depth) with s=0 on p1 and s=1 on p2.
type pillarEdge struct {
	id     int
	dir    mesh.Direction
	p1, p2 int
	low    edgeColumn // the column with the smaller i (IDir) or j (JDir)
	high   edgeColumn
	mid    r3.Vec
	length float64
}

func (as *assembler) numIEdges() int {
	return (as.sec.Dims[0] + 1) * as.sec.Dims[1]
}

func (as *assembler) numEdges() int {
	nx, ny := as.sec.Dims[0], as.sec.Dims[1]
	return (nx+1)*ny + nx*(ny+1)
}

func (as *assembler) column(i, j, fixed int) edgeColumn {
	nx, ny := as.sec.Dims[0], as.sec.Dims[1]
	if i < 0 || j < 0 || i >= nx || j >= ny {
		return edgeColumn{}
	}
	var c r3.Vec
	for _, o := range [4][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		c = r3.Add(c, as.pillars.At(i+o[0], j+o[1]).Mid())
	}
	return edgeColumn{valid: true, i: i, j: j, fixed: fixed, center: r3.Scale(0.25, c)}
}

func (as *assembler) edge(e int) (pe pillarEdge) {
	pe.id = e
	if nI := as.numIEdges(); e < nI {
		nI1 := as.sec.Dims[0] + 1
		I, j := e%nI1, e/nI1
		pe.dir = mesh.IDir
		pe.p1, pe.p2 = as.pillars.Index(I, j), as.pillars.Index(I, j+1)
		pe.low, pe.high = as.column(I-1, j, 1), as.column(I, j, 0)
	} else {
		nx := as.sec.Dims[0]
		i, J := (e-nI)%nx, (e-nI)/nx
		pe.dir = mesh.JDir
		pe.p1, pe.p2 = as.pillars.Index(i, J), as.pillars.Index(i+1, J)
		pe.low, pe.high = as.column(i, J-1, 1), as.column(i, J, 0)
	}
	m1, m2 := as.pillars.Lines[pe.p1].Mid(), as.pillars.Lines[pe.p2].Mid()
	pe.mid = r3.Scale(0.5, r3.Add(m1, m2))
	pe.length = r3.Norm(r3.Sub(r3.Vec{X: m2.X, Y: m2.Y}, r3.Vec{X: m1.X, Y: m1.Y}))
	return
}

// corner maps an edge parameter end (0 or 1) and top/bottom to a corner of
// a cell in column c.
func (pe *pillarEdge) corner(c edgeColumn, s, dk int) int {
	if pe.dir == mesh.IDir {
		return grid.Corner(c.fixed, s, dk)
	}
	return grid.Corner(s, c.fixed, dk)
}

// sides lists the emitted cells of a column along the edge, shallowest first.
func (as *assembler) sides(pe *pillarEdge, c edgeColumn) (out []side) {
	if !c.valid {
		return
	}
	for k := 0; k < as.sec.Dims[2]; k++ {
		id := as.cellID[as.sec.CellIndex(c.i, c.j, k)]
		if id < 0 {
			continue
		}
		z := func(s, dk int) float64 {
			return as.sec.Zcorn[as.sec.ZcornIndex(c.i, c.j, k, pe.corner(c, s, dk))]
		}
		out = append(out, side{cell: id, k: k, band: band{
			top: line{z(0, 0), z(1, 0)},
			bot: line{z(0, 1), z(1, 1)},
		}})
	}
	return
}

// gaps is the complement of the sides: everything above the first, between
// consecutive ones and below the last. A missing column is one unbounded gap.
func gaps(sides []side) (out []band) {
	prev := lineAbove
	for _, sd := range sides {
		out = append(out, band{top: prev, bot: sd.top})
		prev = sd.bot
	}
	return append(out, band{top: prev, bot: lineBelow})
}

func sideBands(sides []side) []band {
	out := make([]band, len(sides))
	for n, sd := range sides {
		out[n] = sd.band
	}
	return out
}

// sweep calls fn for every pair of bands from as and bs that are not
// separated in depth. Both lists must be ordered top down without overlap.
func sweep(as, bs []band, fn func(i, j int)) {
	start := 0
	for i := range as {
		for start < len(bs) && bs[start].entirelyAbove(as[i]) {
			start++
		}
		for j := start; j < len(bs) && !bs[j].entirelyBelow(as[i]); j++ {
			fn(i, j)
		}
	}
}

// sweepEdge builds every lateral face on one pillar edge: the contacts
// between emitted cells on either side, logical neighbors when their k
// agrees and fault connections otherwise, and the boundary faces where a
// cell side faces a gap, an inactive cell or the outside of the grid.
func (as *assembler) sweepEdge(pe pillarEdge) (drafts []faceDraft, pts []r3.Vec) {
	es := &edgePointSet{edge: pe.id, tol: as.cfg.Tolerance}
	lowSides, highSides := as.sides(&pe, pe.low), as.sides(&pe, pe.high)
	lowBands, highBands := sideBands(lowSides), sideBands(highSides)

	emit := func(a band, b band, ca, cb int, ra r3.Vec, nnc bool) {
		loop, thick := overlap(a, b)
		if thick <= as.cfg.Tolerance {
			return
		}
		d := faceDraft{
			cells:       [2]int{ca, cb},
			dir:         pe.dir,
			outward:     ra,
			nonNeighbor: nnc,
			kind:        mesh.FaultConnection,
		}
		for _, p := range loop {
			d.refs = append(d.refs, as.edgeRef(&pe, es, p))
		}
		drafts = append(drafts, d)
	}
	toHigh := r3.Sub(pe.mid, pe.low.center)
	toLow := r3.Sub(pe.mid, pe.high.center)
	if !pe.low.valid {
		toHigh = r3.Scale(-1, toLow)
	}
	if !pe.high.valid {
		toLow = r3.Scale(-1, toHigh)
	}

	sweep(lowBands, highBands, func(i, j int) {
		lo, hi := lowSides[i], highSides[j]
		if lo.cell < hi.cell {
			emit(lo.band, hi.band, lo.cell, hi.cell, toHigh, lo.k != hi.k)
		} else {
			emit(hi.band, lo.band, hi.cell, lo.cell, toLow, lo.k != hi.k)
		}
	})
	highGaps := gaps(highSides)
	sweep(lowBands, highGaps, func(i, j int) {
		emit(lowBands[i], highGaps[j], lowSides[i].cell, mesh.Exterior, toHigh, false)
	})
	lowGaps := gaps(lowSides)
	sweep(highBands, lowGaps, func(i, j int) {
		emit(highBands[i], lowGaps[j], highSides[i].cell, mesh.Exterior, toLow, false)
	})
	return drafts, es.pts
}

// edgeRef registers a point of the (s, depth) plane of an edge. Points within
// tolerance of a pillar snap onto it.
func (as *assembler) edgeRef(pe *pillarEdge, es *edgePointSet, p sz) vref {
	tol := as.cfg.Tolerance
	switch {
	case p.s*pe.length <= tol:
		return as.reg.add(pe.p1, p.z)
	case (1-p.s)*pe.length <= tol:
		return as.reg.add(pe.p2, p.z)
	}
	a, b := as.pillars.Lines[pe.p1].At(p.z), as.pillars.Lines[pe.p2].At(p.z)
	return es.add(r3.Add(a, r3.Scale(p.s, r3.Sub(b, a))))
}
