package mesh

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// twoBoxes builds two unit cubes side by side along x, sharing the face x=1.
func twoBoxes() *Mesh {
	m := NewMesh([3]int{2, 1, 1})
	v := func(x, y, z int) int { return x + 3*(y+2*z) }
	for z := 0; z < 2; z++ {
		for y := 0; y < 2; y++ {
			for x := 0; x < 3; x++ {
				m.Vertices = append(m.Vertices, r3.Vec{X: float64(x), Y: float64(y), Z: float64(z)})
			}
		}
	}
	bnd := func(c int, d Direction, verts ...int) {
		m.Faces = append(m.Faces, Face{Vertices: verts, Neighbors: [2]int{c, Exterior}, Direction: d})
	}
	bnd(0, IDir, v(0, 0, 0), v(0, 0, 1), v(0, 1, 1), v(0, 1, 0))
	m.Faces = append(m.Faces, Face{
		Vertices:  []int{v(1, 0, 0), v(1, 1, 0), v(1, 1, 1), v(1, 0, 1)},
		Neighbors: [2]int{0, 1},
		Direction: IDir,
	})
	bnd(1, IDir, v(2, 0, 0), v(2, 1, 0), v(2, 1, 1), v(2, 0, 1))
	for x := 0; x < 2; x++ {
		bnd(x, JDir, v(x, 0, 0), v(x+1, 0, 0), v(x+1, 0, 1), v(x, 0, 1))
		bnd(x, JDir, v(x, 1, 0), v(x, 1, 1), v(x+1, 1, 1), v(x+1, 1, 0))
		bnd(x, KDir, v(x, 0, 0), v(x, 1, 0), v(x+1, 1, 0), v(x+1, 0, 0))
		bnd(x, KDir, v(x, 0, 1), v(x+1, 0, 1), v(x+1, 1, 1), v(x, 1, 1))
		m.Cells = append(m.Cells, Cell{Index: LogicalIndex{I: x}, Type: Hex})
		m.CellMap = append(m.CellMap, x)
	}
	return m
}

func TestPolygonGeometry(t *testing.T) {
	area, normal, centroid := PolygonGeometry([]r3.Vec{{X: 0, Y: 0, Z: 0}, {X: 2, Y: 0, Z: 0}, {X: 2, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0}})
	assert.InDelta(t, 2, area, 1e-12)
	assert.InDelta(t, 1, normal.Z, 1e-12)
	assert.InDelta(t, 1, centroid.X, 1e-12)
	assert.InDelta(t, 0.5, centroid.Y, 1e-12)

	// A repeated vertex does not change the geometry
	area, _, _ = PolygonGeometry([]r3.Vec{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}})
	assert.InDelta(t, 0.5, area, 1e-12)

	area, _, _ = PolygonGeometry(nil)
	assert.Zero(t, area)
}

func TestGeometryAndConnectivity(t *testing.T) {
	m := twoBoxes()
	require.NoError(t, m.Validate())
	m.BuildConnectivity()
	m.ComputeGeometry()

	assert.Equal(t, 1, m.NumInteriorFaces())
	assert.Equal(t, 10, m.NumBoundaryFaces())
	for c := range m.Cells {
		assert.InDelta(t, 1, m.Cells[c].Volume, 1e-12)
		assert.InDelta(t, 0, m.CellClosure(c), 1e-12)
		assert.Len(t, m.Cells[c].Faces, 6)
	}
	assert.InDelta(t, 1.5, m.Cells[1].Centroid.X, 1e-12)
	assert.InDelta(t, 0.5, m.Cells[1].Centroid.Z, 1e-12)
	assert.InDelta(t, 2, m.TotalVolume(), 1e-12)

	assert.Contains(t, m.EToE[0], 1)
	assert.Contains(t, m.EToE[1], 0)
	assert.Equal(t, 1, m.OtherCell(1, 0))
	assert.Equal(t, Exterior, m.OtherCell(0, 0))

	cm := m.ConnectionMatrix()
	r, c := cm.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
	assert.InDelta(t, 1, cm.At(0, 1), 1e-12)
	assert.InDelta(t, 1, cm.At(1, 0), 1e-12)
	assert.Zero(t, cm.At(0, 0))
}

func TestValidateRejects(t *testing.T) {
	t.Run("DuplicateFace", func(t *testing.T) {
		m := twoBoxes()
		m.Faces = append(m.Faces, m.Faces[0])
		assert.Error(t, m.Validate())
	})
	t.Run("UnorderedNeighbors", func(t *testing.T) {
		m := twoBoxes()
		m.Faces[1].Neighbors = [2]int{1, 0}
		assert.Error(t, m.Validate())
	})
	t.Run("DanglingConnection", func(t *testing.T) {
		m := twoBoxes()
		m.NNCs = append(m.NNCs, Connection{Cells: [2]int{0, 1}, Face: 1, Kind: FaultConnection})
		assert.Error(t, m.Validate())
		m.Faces[1].NonNeighbor = true
		assert.NoError(t, m.Validate())
	})
}

func TestCellLocator(t *testing.T) {
	m := twoBoxes()
	m.BuildConnectivity()
	m.ComputeGeometry()
	loc := NewCellLocator(m)
	assert.Equal(t, []int{0}, loc.Locate(r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}))
	assert.Equal(t, []int{1}, loc.Locate(r3.Vec{X: 1.7, Y: 0.2, Z: 0.9}))
	assert.Equal(t, []int{0, 1}, loc.Locate(r3.Vec{X: 1, Y: 0.5, Z: 0.5}))
	assert.Empty(t, loc.Locate(r3.Vec{X: 0.5, Y: 0.5, Z: 3}))
	assert.Empty(t, loc.Locate(r3.Vec{X: 5, Y: 5, Z: 0.5}))
}

func TestPrintStatistics(t *testing.T) {
	m := twoBoxes()
	m.BuildConnectivity()
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.InfoLevel)
	m.PrintStatistics(log)
	require.NotEmpty(t, hook.Entries)
	first := hook.Entries[0]
	assert.Equal(t, 2, first.Data["cells"])
	assert.Equal(t, 11, first.Data["faces"])
}
