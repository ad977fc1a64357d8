package mesh

import (
	"fmt"
	"sort"

	"github.com/james-bowman/sparse"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// BuildConnectivity derives the per-cell face lists and the element-to-element
// and element-to-face tables from the face neighbor pairs.
func (m *Mesh) BuildConnectivity() {
	for c := range m.Cells {
		m.Cells[c].Faces = m.Cells[c].Faces[:0]
	}
	for f := range m.Faces {
		for _, c := range m.Faces[f].Neighbors {
			if c >= 0 {
				m.Cells[c].Faces = append(m.Cells[c].Faces, f)
			}
		}
	}

	m.EToE = make([][]int, len(m.Cells))
	m.EToF = make([][]int, len(m.Cells))
	for c := range m.Cells {
		faces := m.Cells[c].Faces
		m.EToE[c] = make([]int, len(faces))
		m.EToF[c] = make([]int, len(faces))
		for local, f := range faces {
			m.EToF[c][local] = f
			m.EToE[c][local] = m.OtherCell(f, c)
		}
	}
}

// OtherCell returns the cell on the far side of face f from cell c, or
// Exterior for a boundary face.
func (m *Mesh) OtherCell(f, c int) int {
	n := m.Faces[f].Neighbors
	if n[0] == c {
		return n[1]
	}
	return n[0]
}

// faceKey identifies a face by its sorted vertex set. A zero thickness cell
// may legitimately carry two faces with the same vertex set, one per side.
func faceKey(verts []int) string {
	sorted := make([]int, len(verts))
	copy(sorted, verts)
	sort.Ints(sorted)
	return fmt.Sprintf("%v", sorted)
}

// Validate checks the structural invariants of the mesh: neighbor ordering,
// vertex references, duplicate faces and the reciprocity of non-neighbor
// connections.
func (m *Mesh) Validate() error {
	faceMap := make(map[string]int, len(m.Faces))
	for f := range m.Faces {
		face := &m.Faces[f]
		if len(face.Vertices) < 3 {
			return errors.Errorf("face %d has %d vertices", f, len(face.Vertices))
		}
		for _, v := range face.Vertices {
			if v < 0 || v >= len(m.Vertices) {
				return errors.Errorf("face %d references vertex %d of %d", f, v, len(m.Vertices))
			}
		}
		a, b := face.Neighbors[0], face.Neighbors[1]
		if a < 0 || a >= len(m.Cells) {
			return errors.Errorf("face %d has invalid first cell %d", f, a)
		}
		if b != Exterior && (b <= a || b >= len(m.Cells)) {
			return errors.Errorf("face %d has unordered or invalid neighbors (%d,%d)", f, a, b)
		}
		key := fmt.Sprintf("%v%s", face.Neighbors, faceKey(face.Vertices))
		if g, ok := faceMap[key]; ok {
			return errors.Errorf("faces %d and %d join the same cells over the vertex set %s", g, f, key)
		}
		faceMap[key] = f
	}
	for i, nnc := range m.NNCs {
		if nnc.Face < 0 || nnc.Face >= len(m.Faces) {
			return errors.Errorf("connection %d references face %d", i, nnc.Face)
		}
		face := &m.Faces[nnc.Face]
		if !face.NonNeighbor || face.Neighbors != nnc.Cells {
			return errors.Errorf("connection %d does not match face %d", i, nnc.Face)
		}
	}
	return nil
}

// ConnectionMatrix assembles the symmetric cell adjacency matrix weighted by
// shared face area. Faces between the same pair of cells accumulate.
func (m *Mesh) ConnectionMatrix() *sparse.CSR {
	n := len(m.Cells)
	dok := sparse.NewDOK(n, n)
	for f := range m.Faces {
		face := &m.Faces[f]
		if face.IsBoundary() {
			continue
		}
		a, b := face.Neighbors[0], face.Neighbors[1]
		w := dok.At(a, b) + face.Area
		dok.Set(a, b, w)
		dok.Set(b, a, w)
	}
	return dok.ToCSR()
}

// PrintStatistics logs mesh statistics
func (m *Mesh) PrintStatistics(log logrus.FieldLogger) {
	typeCounts := make(map[ElementType]int)
	for _, c := range m.Cells {
		typeCounts[c.Type]++
	}
	var fault, pinch int
	for _, nnc := range m.NNCs {
		switch nnc.Kind {
		case FaultConnection:
			fault++
		case PinchConnection:
			pinch++
		}
	}
	log.WithFields(logrus.Fields{
		"vertices":       len(m.Vertices),
		"cells":          len(m.Cells),
		"faces":          len(m.Faces),
		"boundary_faces": m.NumBoundaryFaces(),
		"fault_nncs":     fault,
		"pinch_nncs":     pinch,
	}).Info("mesh statistics")
	for t := Hex; t <= Polyhedron; t++ {
		if count := typeCounts[t]; count > 0 {
			log.WithField("type", t.String()).Infof("  %d cells", count)
		}
	}
}
