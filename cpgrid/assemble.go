package cpgrid

import (
	"context"

	"github.com/notargets/gocpg/grid"
	"github.com/notargets/gocpg/mesh"
	"github.com/notargets/gocpg/utils"
	"gonum.org/v1/gonum/spatial/r3"
)

// faceDraft is a face before vertex numbering and orientation.
type faceDraft struct {
	refs        []vref
	cells       [2]int // ascending, or (cell, Exterior)
	dir         mesh.Direction
	outward     r3.Vec // rough direction out of cells[0]
	nonNeighbor bool
	kind        mesh.ConnectionKind
}

type assembler struct {
	sec     *grid.Section
	pillars Pillars
	cells   []ResolvedCell
	cellID  []int // logical index -> mesh cell, -1 when not emitted
	cfg     Config
	reg     *vertexRegistry
}

func newAssembler(sec *grid.Section, pillars Pillars, cells []ResolvedCell, cfg Config) *assembler {
	as := &assembler{
		sec:     sec,
		pillars: pillars,
		cells:   cells,
		cellID:  make([]int, len(cells)),
		cfg:     cfg,
		reg:     newVertexRegistry(len(pillars.Lines), cfg.Tolerance),
	}
	var n int
	for idx := range cells {
		c := &cells[idx]
		if !c.Active || c.Degenerate || as.elided(idx) {
			as.cellID[idx] = -1
			continue
		}
		as.cellID[idx] = n
		n++
	}
	return as
}

// Assemble builds the mesh from resolved cells. Cells are numbered in logical
// order (i fastest, then j, then k) over the emitted cells. Lateral faces are
// swept edge by edge and K faces column by column, both in parallel; the
// results are concatenated in edge and column order so the output does not
// depend on scheduling.
func Assemble(ctx context.Context, sec *grid.Section, pillars Pillars, cells []ResolvedCell,
	cfg Config) (*mesh.Mesh, error) {
	cfg.setDefaults()
	as := newAssembler(sec, pillars, cells, cfg)

	nEdges := as.numEdges()
	edgeDrafts := make([][]faceDraft, nEdges)
	edgePoints := make([][]r3.Vec, nEdges)
	pm := utils.NewPartitionMap(cfg.Workers, nEdges)
	err := pm.ForEachBucket(ctx, func(ctx context.Context, bn, kMin, kMax int) error {
		for e := kMin; e < kMax; e++ {
			edgeDrafts[e], edgePoints[e] = as.sweepEdge(as.edge(e))
		}
		return ctx.Err()
	})
	if err != nil {
		return nil, err
	}

	nx, ny := sec.Dims[0], sec.Dims[1]
	colDrafts := make([][]faceDraft, nx*ny)
	pm = utils.NewPartitionMap(cfg.Workers, nx*ny)
	err = pm.ForEachBucket(ctx, func(ctx context.Context, bn, kMin, kMax int) error {
		for col := kMin; col < kMax; col++ {
			colDrafts[col] = as.sweepColumn(col%nx, col/nx)
		}
		return ctx.Err()
	})
	if err != nil {
		return nil, err
	}

	nv := as.reg.finalize(edgePoints)
	positions := as.reg.positions(pillars, edgePoints, nv)

	m := mesh.NewMesh(sec.Dims)
	for idx, id := range as.cellID {
		if id < 0 {
			continue
		}
		i, j, k := sec.CellIJK(idx)
		m.Cells = append(m.Cells, mesh.Cell{
			Index:     mesh.LogicalIndex{I: i, J: j, K: k},
			Type:      cells[idx].Type(),
			Collapsed: cells[idx].Collapsed,
		})
		m.CellMap = append(m.CellMap, idx)
	}
	for _, group := range [][][]faceDraft{edgeDrafts, colDrafts} {
		for _, drafts := range group {
			for n := range drafts {
				as.addFace(m, &drafts[n], positions)
			}
		}
	}
	compactVertices(m, positions)
	m.BuildConnectivity()
	m.ComputeGeometry()
	for n := range m.NNCs {
		m.NNCs[n].Area = m.Faces[m.NNCs[n].Face].Area
	}
	return m, nil
}

// addFace numbers the vertices of a draft, drops repeated vertices from
// collapsed corners and orients the loop so its normal points out of the
// first cell.
func (as *assembler) addFace(m *mesh.Mesh, d *faceDraft, positions []r3.Vec) {
	ids := make([]int, 0, len(d.refs))
	for _, r := range d.refs {
		id := as.reg.id(r)
		if len(ids) > 0 && ids[len(ids)-1] == id {
			continue
		}
		ids = append(ids, id)
	}
	for len(ids) > 1 && ids[0] == ids[len(ids)-1] {
		ids = ids[:len(ids)-1]
	}
	if len(ids) < 3 {
		return
	}
	pts := make([]r3.Vec, len(ids))
	for n, id := range ids {
		pts[n] = positions[id]
	}
	if _, normal, _ := mesh.PolygonGeometry(pts); r3.Dot(normal, d.outward) < 0 {
		for a, b := 0, len(ids)-1; a < b; a, b = a+1, b-1 {
			ids[a], ids[b] = ids[b], ids[a]
		}
	}
	f := len(m.Faces)
	m.Faces = append(m.Faces, mesh.Face{
		Vertices:    ids,
		Neighbors:   d.cells,
		Direction:   d.dir,
		NonNeighbor: d.nonNeighbor,
	})
	if d.nonNeighbor {
		m.NNCs = append(m.NNCs, mesh.Connection{Cells: d.cells, Face: f, Kind: d.kind})
	}
}

// compactVertices keeps only the vertices referenced by a face, preserving
// their relative order.
func compactVertices(m *mesh.Mesh, positions []r3.Vec) {
	remap := make([]int, len(positions))
	for n := range remap {
		remap[n] = -1
	}
	for f := range m.Faces {
		for _, v := range m.Faces[f].Vertices {
			remap[v] = 0
		}
	}
	m.Vertices = m.Vertices[:0]
	for n, p := range positions {
		if remap[n] < 0 {
			continue
		}
		remap[n] = len(m.Vertices)
		m.Vertices = append(m.Vertices, p)
	}
	for f := range m.Faces {
		for n, v := range m.Faces[f].Vertices {
			m.Faces[f].Vertices[n] = remap[v]
		}
	}
}
