package cpgrid

import (
	"sort"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"
)

// vref names a face vertex before global numbering: a depth on a pillar, or a
// point inside a pillar edge found where cell sides cross.
type vref struct {
	pillar int // -1 for edge points
	z      float64
	edge   int
	local  int // index into the edge's point list
}

func pillarRef(p int, z float64) vref {
	return vref{pillar: p, z: z, edge: -1}
}

// vertexRegistry deduplicates corner depths per pillar. Registration is
// sharded by pillar so edge and column sweeps can run concurrently.
type vertexRegistry struct {
	tol    float64
	mu     []sync.Mutex
	depths [][]float64

	// filled by finalize
	raw     [][]float64 // sorted unique registered depths per pillar
	cluster [][]int     // cluster of each raw depth
	rep     [][]float64 // representative depth per cluster
	offset  []int       // first global vertex id per pillar
	edgeOff []int       // first global vertex id per edge
}

func newVertexRegistry(nPillars int, tol float64) *vertexRegistry {
	return &vertexRegistry{
		tol:    tol,
		mu:     make([]sync.Mutex, nPillars),
		depths: make([][]float64, nPillars),
	}
}

func (vr *vertexRegistry) add(p int, z float64) vref {
	vr.mu[p].Lock()
	vr.depths[p] = append(vr.depths[p], z)
	vr.mu[p].Unlock()
	return pillarRef(p, z)
}

// finalize clusters the registered depths of every pillar. A cluster starts
// at its shallowest depth and takes every later depth within tol of that
// start, which bounds cluster width and does not depend on insertion order.
func (vr *vertexRegistry) finalize(edgePoints [][]r3.Vec) (nVertices int) {
	n := len(vr.depths)
	vr.raw = make([][]float64, n)
	vr.cluster = make([][]int, n)
	vr.rep = make([][]float64, n)
	vr.offset = make([]int, n)
	for p, d := range vr.depths {
		sort.Float64s(d)
		var uniq []float64
		for i, z := range d {
			if i == 0 || z != d[i-1] {
				uniq = append(uniq, z)
			}
		}
		cl := make([]int, len(uniq))
		var rep []float64
		for i, z := range uniq {
			if len(rep) == 0 || z-rep[len(rep)-1] > vr.tol {
				rep = append(rep, z)
			}
			cl[i] = len(rep) - 1
		}
		vr.raw[p], vr.cluster[p], vr.rep[p] = uniq, cl, rep
		vr.offset[p] = nVertices
		nVertices += len(rep)
	}
	vr.depths = nil
	vr.edgeOff = make([]int, len(edgePoints))
	for e, pts := range edgePoints {
		vr.edgeOff[e] = nVertices
		nVertices += len(pts)
	}
	return
}

// id returns the global vertex id of a reference.
func (vr *vertexRegistry) id(r vref) int {
	if r.pillar < 0 {
		return vr.edgeOff[r.edge] + r.local
	}
	raw := vr.raw[r.pillar]
	i := sort.SearchFloat64s(raw, r.z)
	return vr.offset[r.pillar] + vr.cluster[r.pillar][i]
}

// positions lays out the vertex coordinates: pillar vertices by pillar then
// depth, followed by edge points in edge order.
func (vr *vertexRegistry) positions(pillars Pillars, edgePoints [][]r3.Vec, n int) []r3.Vec {
	out := make([]r3.Vec, 0, n)
	for p, rep := range vr.rep {
		for _, z := range rep {
			out = append(out, pillars.Lines[p].At(z))
		}
	}
	for _, pts := range edgePoints {
		out = append(out, pts...)
	}
	return out
}

// edgePointSet collects the crossing points found on one pillar edge. It is
// owned by a single sweep and needs no locking.
type edgePointSet struct {
	edge int
	tol  float64
	pts  []r3.Vec
}

func (es *edgePointSet) add(p r3.Vec) vref {
	for i, q := range es.pts {
		if r3.Norm(r3.Sub(p, q)) <= es.tol {
			return vref{pillar: -1, edge: es.edge, local: i}
		}
	}
	es.pts = append(es.pts, p)
	return vref{pillar: -1, edge: es.edge, local: len(es.pts) - 1}
}
