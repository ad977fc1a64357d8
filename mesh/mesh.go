// Package mesh holds the indexed polyhedral mesh produced from a corner-point
// grid: deduplicated vertices, polygonal faces with two-sided cell
// references, cells with their logical (i,j,k) provenance and the
// non-neighbor connections created by faults and pinch-outs.
package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// ElementType classifies a cell by the number of distinct corner positions
type ElementType int

const (
	Hex ElementType = iota
	Prism
	Pyramid
	Tet
	Polyhedron
)

func (e ElementType) String() string {
	return [...]string{"Hex", "Prism", "Pyramid", "Tet", "Polyhedron"}[e]
}

// ElementTypeFromCorners maps a distinct-corner count of a cell with volume to
// a cell type.
func ElementTypeFromCorners(n int) ElementType {
	switch n {
	case 8:
		return Hex
	case 6:
		return Prism
	case 5:
		return Pyramid
	case 4:
		return Tet
	default:
		return Polyhedron
	}
}

// Direction is the logical axis a face is normal to
type Direction uint8

const (
	IDir Direction = iota
	JDir
	KDir
)

func (d Direction) String() string {
	return [...]string{"I", "J", "K"}[d]
}

// Exterior marks the missing side of a boundary face
const Exterior = -1

// LogicalIndex is the 0-based (i,j,k) position of a cell in the input grid
type LogicalIndex struct {
	I, J, K int
}

func (l LogicalIndex) String() string {
	return fmt.Sprintf("(%d,%d,%d)", l.I, l.J, l.K)
}

// Face is an oriented polygon. For interior faces Neighbors[0] < Neighbors[1]
// and the normal points out of Neighbors[0]; boundary faces have
// Neighbors[1] == Exterior and the normal points out of the mesh.
type Face struct {
	Vertices    []int
	Neighbors   [2]int
	Direction   Direction
	NonNeighbor bool // connects cells that are not logical neighbors

	Area     float64
	Normal   r3.Vec // unit normal
	Centroid r3.Vec
}

// IsBoundary reports whether the face has a single cell
func (f *Face) IsBoundary() bool {
	return f.Neighbors[1] == Exterior
}

// Cell is a polyhedron bounded by Faces.
type Cell struct {
	Faces     []int
	Index     LogicalIndex
	Type      ElementType
	Collapsed uint8 // bit p set when the cell has zero thickness on its p'th pillar

	Volume   float64
	Centroid r3.Vec
}

// ConnectionKind tells why two cells that are not logical neighbors connect
type ConnectionKind uint8

const (
	FaultConnection ConnectionKind = iota
	PinchConnection
)

func (k ConnectionKind) String() string {
	return [...]string{"fault", "pinch"}[k]
}

// Connection is a non-neighbor connection between two cells.
type Connection struct {
	Cells [2]int
	Face  int // index into Mesh.Faces
	Area  float64
	Kind  ConnectionKind
}

// Mesh represents a complete corner-point derived mesh with all connectivity
type Mesh struct {
	Dims [3]int // logical dimensions of the source grid

	// Geometry
	Vertices []r3.Vec

	// Topology
	Faces   []Face
	Cells   []Cell
	NNCs    []Connection
	CellMap []int // mesh cell -> linear logical index (i fastest)

	// Connectivity (built by BuildConnectivity)
	EToE [][]int // cell to neighbor cell per face, Exterior on the boundary
	EToF [][]int // cell to face
}

// NewMesh creates an empty mesh for a grid of the given logical dimensions
func NewMesh(dims [3]int) *Mesh {
	return &Mesh{Dims: dims}
}

func (m *Mesh) NumCells() int    { return len(m.Cells) }
func (m *Mesh) NumFaces() int    { return len(m.Faces) }
func (m *Mesh) NumVertices() int { return len(m.Vertices) }

// NumInteriorFaces counts faces shared by two cells, including non-neighbor
// faces.
func (m *Mesh) NumInteriorFaces() (n int) {
	for i := range m.Faces {
		if !m.Faces[i].IsBoundary() {
			n++
		}
	}
	return
}

// NumBoundaryFaces counts faces with a single cell.
func (m *Mesh) NumBoundaryFaces() int {
	return len(m.Faces) - m.NumInteriorFaces()
}

// LogicalIndexOf returns the (i,j,k) position of mesh cell c.
func (m *Mesh) LogicalIndexOf(c int) LogicalIndex {
	return m.Cells[c].Index
}

// FaceVertices returns the positions of a face's vertex loop.
func (m *Mesh) FaceVertices(f int) []r3.Vec {
	face := &m.Faces[f]
	pts := make([]r3.Vec, len(face.Vertices))
	for i, v := range face.Vertices {
		pts[i] = m.Vertices[v]
	}
	return pts
}
