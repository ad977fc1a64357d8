package cpgrid

import (
	"context"
	"testing"

	"github.com/notargets/gocpg/grid"
	"github.com/notargets/gocpg/mesh"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func testConfig() Config {
	cfg := DefaultConfig()
	log, _ := test.NewNullLogger()
	cfg.Log = log
	return cfg
}

func build(t *testing.T, sec *grid.Section, cfg Config) (*mesh.Mesh, *Report) {
	t.Helper()
	m, rep, err := MeshFromGridSection(context.Background(), sec, cfg)
	require.NoError(t, err)
	require.NoError(t, m.Validate())
	return m, rep
}

func assertClosed(t *testing.T, m *mesh.Mesh) {
	t.Helper()
	for c := range m.Cells {
		assert.InDelta(t, 0, m.CellClosure(c), 1e-9, "cell %s is not closed", m.Cells[c].Index)
	}
}

// shiftColumns moves every corner depth of the cells with i >= iFault down by
// throw, leaving the pillars in place.
func shiftColumns(sec *grid.Section, iFault int, throw float64) {
	for k := 0; k < sec.Dims[2]; k++ {
		for j := 0; j < sec.Dims[1]; j++ {
			for i := iFault; i < sec.Dims[0]; i++ {
				for c := 0; c < grid.NumCorners; c++ {
					sec.Zcorn[sec.ZcornIndex(i, j, k, c)] += throw
				}
			}
		}
	}
}

// pinchedColumn is a 1x1x3 column whose middle cell has zero thickness.
func pinchedColumn() *grid.Section {
	sec := grid.NewCartesian([3]int{1, 1, 3}, [3]float64{1, 1, 1})
	for c := 0; c < grid.NumCorners; c++ {
		_, _, dk := grid.CornerOffsets(c)
		sec.Zcorn[sec.ZcornIndex(0, 0, 1, c)] = 1
		sec.Zcorn[sec.ZcornIndex(0, 0, 2, c)] = 1 + float64(dk)
	}
	return sec
}

func TestUnitCube(t *testing.T) {
	m, rep := build(t, grid.NewCartesian([3]int{1, 1, 1}, [3]float64{1, 1, 1}), testConfig())
	assert.Equal(t, 1, m.NumCells())
	assert.Equal(t, 6, m.NumFaces())
	assert.Equal(t, 8, m.NumVertices())
	assert.Empty(t, m.NNCs)
	assert.Equal(t, mesh.Hex, m.Cells[0].Type)
	assert.InDelta(t, 1, m.Cells[0].Volume, 1e-12)
	assert.InDelta(t, 0.5, m.Cells[0].Centroid.Z, 1e-12)
	assertClosed(t, m)
	assert.Zero(t, rep.FaultConnections)
	assert.NotEmpty(t, rep.RunID.String())
}

func TestStructuredAdjacency(t *testing.T) {
	nx, ny, nz := 3, 2, 4
	m, _ := build(t, grid.NewCartesian([3]int{nx, ny, nz}, [3]float64{2, 3, 1}), testConfig())
	assert.Equal(t, nx*ny*nz, m.NumCells())
	assert.Equal(t, (nx-1)*ny*nz+nx*(ny-1)*nz+nx*ny*(nz-1), m.NumInteriorFaces())
	assert.Equal(t, 2*(ny*nz+nx*nz+nx*ny), m.NumBoundaryFaces())
	assert.Equal(t, (nx+1)*(ny+1)*(nz+1), m.NumVertices())
	assert.Empty(t, m.NNCs)
	assert.InDelta(t, float64(nx*ny*nz)*6, m.TotalVolume(), 1e-9)
	assertClosed(t, m)

	// row-major numbering, i fastest
	for c, idx := range m.CellMap {
		assert.Equal(t, c, idx)
	}
	assert.Equal(t, mesh.LogicalIndex{I: 1, J: 1, K: 2}, m.LogicalIndexOf(1+nx*(1+ny*2)))

	// interior faces point from the lower to the higher numbered cell
	for f := range m.Faces {
		face := &m.Faces[f]
		if face.IsBoundary() {
			continue
		}
		a, b := m.Cells[face.Neighbors[0]].Centroid, m.Cells[face.Neighbors[1]].Centroid
		assert.Greater(t, r3.Dot(r3.Sub(b, a), face.Normal), 0.0)
	}
}

func TestDeactivateInteriorCell(t *testing.T) {
	sec := grid.NewCartesian([3]int{3, 3, 3}, [3]float64{1, 1, 1})
	full, _ := build(t, sec, testConfig())

	cfg := testConfig()
	cfg.Actnum = make([]bool, sec.NumCells())
	for i := range cfg.Actnum {
		cfg.Actnum[i] = true
	}
	cfg.Actnum[sec.CellIndex(1, 1, 1)] = false
	m, rep := build(t, sec, cfg)

	assert.Equal(t, full.NumCells()-1, m.NumCells())
	assert.Equal(t, full.NumInteriorFaces()-6, m.NumInteriorFaces())
	assert.Equal(t, full.NumBoundaryFaces()+6, m.NumBoundaryFaces())
	assert.Equal(t, full.NumVertices(), m.NumVertices())
	assert.Equal(t, 1, rep.Inactive)
	assert.NotContains(t, m.CellMap, sec.CellIndex(1, 1, 1))
	assertClosed(t, m)

	// the section's own mask is not touched by the override
	assert.Nil(t, sec.Actnum)
}

func TestFaultConnections(t *testing.T) {
	nx, ny, nz := 2, 2, 3
	sec := grid.NewCartesian([3]int{nx, ny, nz}, [3]float64{1, 1, 10})
	shiftColumns(sec, 1, 5)
	m, rep := build(t, sec, testConfig())

	// below the fault every cell touches the cell of the same k and the one
	// above it, except the topmost: two fault pairs per row of columns
	require.Len(t, m.NNCs, 2*ny)
	assert.Equal(t, 2*ny, rep.FaultConnections)
	for _, nnc := range m.NNCs {
		assert.Equal(t, mesh.FaultConnection, nnc.Kind)
		assert.InDelta(t, 5, nnc.Area, 1e-9)
		a, b := m.Cells[nnc.Cells[0]].Index, m.Cells[nnc.Cells[1]].Index
		assert.Equal(t, 1, abs(a.I-b.I))
		assert.Equal(t, a.J, b.J)
		assert.Equal(t, 1, abs(a.K-b.K))
		assert.True(t, m.Faces[nnc.Face].NonNeighbor)
	}
	for c := range m.Cells {
		assert.InDelta(t, 10, m.Cells[c].Volume, 1e-9)
	}
	assertClosed(t, m)

	// same-k contacts across the fault are still logical neighbor faces
	var across int
	for f := range m.Faces {
		face := &m.Faces[f]
		if face.Direction == mesh.IDir && !face.IsBoundary() && !face.NonNeighbor {
			across++
		}
	}
	assert.Equal(t, ny*nz, across)
}

func TestDeterministicAcrossWorkers(t *testing.T) {
	sec := grid.NewCartesian([3]int{4, 3, 3}, [3]float64{1, 1, 10})
	shiftColumns(sec, 2, 3)
	cfg := testConfig()
	cfg.Workers = 1
	serial, _ := build(t, sec, cfg)
	cfg.Workers = 8
	parallel, _ := build(t, sec, cfg)
	assert.Equal(t, serial.Vertices, parallel.Vertices)
	assert.Equal(t, serial.Faces, parallel.Faces)
	assert.Equal(t, serial.NNCs, parallel.NNCs)
}

func TestPinchProcessing(t *testing.T) {
	t.Run("Off", func(t *testing.T) {
		m, rep := build(t, pinchedColumn(), testConfig())
		assert.Equal(t, 3, m.NumCells())
		assert.Equal(t, 12, m.NumFaces())
		assert.Equal(t, 12, m.NumVertices())
		assert.Empty(t, m.NNCs)
		assert.Equal(t, uint8(AllCollapsed), m.Cells[1].Collapsed)
		assert.Equal(t, mesh.Polyhedron, m.Cells[1].Type)
		assert.InDelta(t, 0, m.Cells[1].Volume, 1e-12)
		assert.Equal(t, 1, rep.CollapsedCells)
	})
	t.Run("On", func(t *testing.T) {
		cfg := testConfig()
		cfg.ProcessPinch = true
		m, rep := build(t, pinchedColumn(), cfg)
		assert.Equal(t, 2, m.NumCells())
		assert.Equal(t, 11, m.NumFaces())
		assert.Equal(t, 12, m.NumVertices())
		require.Len(t, m.NNCs, 1)
		nnc := m.NNCs[0]
		assert.Equal(t, mesh.PinchConnection, nnc.Kind)
		assert.Equal(t, [2]int{0, 1}, nnc.Cells)
		assert.InDelta(t, 1, nnc.Area, 1e-12)
		assert.Equal(t, [][3]int{{0, 0, 1}}, rep.Pinched)
		assert.Equal(t, 1, rep.PinchConnections)
		assert.Equal(t, []int{0, 2}, m.CellMap)
		assertClosed(t, m)
	})
	t.Run("BlockedByInactiveCell", func(t *testing.T) {
		sec := grid.NewCartesian([3]int{1, 1, 3}, [3]float64{1, 1, 1})
		sec.Actnum = []bool{true, false, true}
		cfg := testConfig()
		cfg.ProcessPinch = true
		m, _ := build(t, sec, cfg)
		assert.Equal(t, 2, m.NumCells())
		assert.Empty(t, m.NNCs)
		assert.Zero(t, m.NumInteriorFaces())
	})
}

func TestDegenerateCells(t *testing.T) {
	// pillars (2,*) on top of pillars (1,*): cell (1,0,0) has no footprint
	sec := grid.NewCartesian([3]int{2, 1, 1}, [3]float64{1, 1, 1})
	for J := 0; J <= 1; J++ {
		p := 6 * sec.PillarIndex(2, J)
		sec.Coord[p], sec.Coord[p+3] = 1, 1
	}
	m, rep := build(t, sec, testConfig())
	assert.Equal(t, 1, m.NumCells())
	assert.Equal(t, 6, m.NumFaces())
	assert.Equal(t, 8, m.NumVertices())
	require.Len(t, rep.Degenerate, 1)
	assert.Equal(t, [3]int{1, 0, 0}, rep.Degenerate[0].Cell)
	assert.Equal(t, 2, rep.Degenerate[0].Distinct)

	cfg := testConfig()
	cfg.MaxDegenerateFraction = 0.25
	_, _, err := MeshFromGridSection(context.Background(), sec, cfg)
	assert.True(t, errors.Is(err, ErrTooManyDegenerate))
}

func TestBuildErrors(t *testing.T) {
	t.Run("Malformed", func(t *testing.T) {
		sec := grid.NewCartesian([3]int{2, 2, 2}, [3]float64{1, 1, 1})
		sec.Zcorn = sec.Zcorn[1:]
		m, _, err := MeshFromGridSection(context.Background(), sec, testConfig())
		var mge *grid.MalformedGridError
		require.True(t, errors.As(err, &mge))
		assert.Equal(t, "ZCORN", mge.Keyword)
		assert.Nil(t, m)
	})
	t.Run("ActnumOverrideLength", func(t *testing.T) {
		cfg := testConfig()
		cfg.Actnum = []bool{true}
		_, _, err := MeshFromGridSection(context.Background(),
			grid.NewCartesian([3]int{2, 1, 1}, [3]float64{1, 1, 1}), cfg)
		var mge *grid.MalformedGridError
		require.True(t, errors.As(err, &mge))
		assert.Equal(t, "ACTNUM", mge.Keyword)
	})
	t.Run("NonMonotoneWithoutRepair", func(t *testing.T) {
		cfg := testConfig()
		cfg.RepairZcorn = false
		m, _, err := MeshFromGridSection(context.Background(), invertedColumn(), cfg)
		var nme *NonMonotoneDepthError
		require.True(t, errors.As(err, &nme))
		assert.Nil(t, m)
	})
	t.Run("RepairLeavesInputAlone", func(t *testing.T) {
		sec := invertedColumn()
		orig := append([]float64(nil), sec.Zcorn...)
		_, rep := build(t, sec, testConfig())
		assert.Equal(t, 1, rep.Repair.Modified)
		assert.Equal(t, orig, sec.Zcorn)
	})
	t.Run("Cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, err := MeshFromGridSection(ctx, grid.NewCartesian([3]int{2, 2, 2}, [3]float64{1, 1, 1}), testConfig())
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestResolveCornersCollapsed(t *testing.T) {
	sec := pinchedColumn()
	ps, err := BuildPillars(sec)
	require.NoError(t, err)
	cells, degenerate, err := ResolveCorners(context.Background(), sec, ps, nil, testConfig())
	require.NoError(t, err)
	assert.Empty(t, degenerate)
	assert.Zero(t, cells[0].Collapsed)
	assert.True(t, cells[1].ZeroThickness())
	assert.Equal(t, 4, cells[1].Distinct)
	assert.Equal(t, mesh.Polyhedron, cells[1].Type())
	assert.Equal(t, mesh.Hex, cells[2].Type())
	assert.Equal(t, 2.0, cells[2].Corners[grid.Corner(1, 1, 1)].Z)
	assert.Equal(t, 1.0, cells[2].Corners[grid.Corner(1, 1, 1)].X)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
