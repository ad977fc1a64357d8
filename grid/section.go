// Package grid holds the raw corner-point grid section (COORD, ZCORN, ACTNUM,
// dimensions and passthrough region arrays) consumed by the mesh builder and
// produced by the horizon generator and the file readers.
package grid

import (
	"fmt"
	"math"
)

// Corner ordering inside one logical cell: corner = di + 2*dj + 4*dk where
// di/dj select the low/high pillar in I/J and dk selects top (0) or bottom (1).
const NumCorners = 8

// Section is the grid-section subset of a parsed simulation deck.
type Section struct {
	Dims    [3]int           // nx, ny, nz
	Coord   []float64        // 6 per pillar: top xyz, bottom xyz, I fastest
	Zcorn   []float64        // 8 per cell on a (2nx, 2ny, 2nz) lattice, I fastest
	Actnum  []bool           // nil means every cell is active
	Regions map[string][]int // SATNUM, PVTNUM, EQLNUM, EOSNUM, LAYERNUM, ... one value per logical cell
}

// NewSection allocates COORD and ZCORN storage for an nx*ny*nz grid.
func NewSection(nx, ny, nz int) *Section {
	s := &Section{
		Dims:    [3]int{nx, ny, nz},
		Regions: make(map[string][]int),
	}
	s.Coord = make([]float64, 6*s.NumPillars())
	s.Zcorn = make([]float64, 8*s.NumCells())
	return s
}

func (s *Section) NumCells() int {
	return s.Dims[0] * s.Dims[1] * s.Dims[2]
}

func (s *Section) NumPillars() int {
	return (s.Dims[0] + 1) * (s.Dims[1] + 1)
}

// CellIndex is the linear logical index of (i,j,k), I fastest.
func (s *Section) CellIndex(i, j, k int) int {
	return i + s.Dims[0]*(j+s.Dims[1]*k)
}

// CellIJK inverts CellIndex.
func (s *Section) CellIJK(idx int) (i, j, k int) {
	nx, ny := s.Dims[0], s.Dims[1]
	i = idx % nx
	j = (idx / nx) % ny
	k = idx / (nx * ny)
	return
}

// PillarIndex is the linear index of pillar (I,J), I fastest.
func (s *Section) PillarIndex(I, J int) int {
	return I + (s.Dims[0]+1)*J
}

// ZcornIndex locates one corner depth of cell (i,j,k) in the ZCORN array.
func (s *Section) ZcornIndex(i, j, k, corner int) int {
	di, dj, dk := CornerOffsets(corner)
	nx2, ny2 := 2*s.Dims[0], 2*s.Dims[1]
	return (2*i + di) + nx2*((2*j+dj)+ny2*(2*k+dk))
}

// CornerOffsets splits a corner number into its I, J and top/bottom offsets.
func CornerOffsets(corner int) (di, dj, dk int) {
	return corner & 1, (corner >> 1) & 1, (corner >> 2) & 1
}

// Corner is the inverse of CornerOffsets.
func Corner(di, dj, dk int) int {
	return di + 2*dj + 4*dk
}

// CellDepths gathers the 8 corner depths of a cell.
func (s *Section) CellDepths(i, j, k int) (z [NumCorners]float64) {
	for c := 0; c < NumCorners; c++ {
		z[c] = s.Zcorn[s.ZcornIndex(i, j, k, c)]
	}
	return
}

// Active reports the mask value of a logical cell.
func (s *Section) Active(idx int) bool {
	if s.Actnum == nil {
		return true
	}
	return s.Actnum[idx]
}

// NumActive counts cells enabled by the mask.
func (s *Section) NumActive() (n int) {
	if s.Actnum == nil {
		return s.NumCells()
	}
	for _, a := range s.Actnum {
		if a {
			n++
		}
	}
	return
}

// Validate checks array lengths against the declared dimensions and rejects
// non-finite geometry.
func (s *Section) Validate() error {
	nx, ny, nz := s.Dims[0], s.Dims[1], s.Dims[2]
	if nx < 1 || ny < 1 || nz < 1 {
		return &MalformedGridError{Keyword: "DIMENS",
			Reason: fmt.Sprintf("dimensions must be positive, got %d x %d x %d", nx, ny, nz)}
	}
	if len(s.Coord) != 6*s.NumPillars() {
		return &MalformedGridError{Keyword: "COORD", Got: len(s.Coord), Want: 6 * s.NumPillars()}
	}
	if len(s.Zcorn) != 8*s.NumCells() {
		return &MalformedGridError{Keyword: "ZCORN", Got: len(s.Zcorn), Want: 8 * s.NumCells()}
	}
	if s.Actnum != nil && len(s.Actnum) != s.NumCells() {
		return &MalformedGridError{Keyword: "ACTNUM", Got: len(s.Actnum), Want: s.NumCells()}
	}
	for name, r := range s.Regions {
		if len(r) != s.NumCells() {
			return &MalformedGridError{Keyword: name, Got: len(r), Want: s.NumCells()}
		}
	}
	for i, v := range s.Coord {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &MalformedGridError{Keyword: "COORD",
				Reason: fmt.Sprintf("non-finite value at position %d", i)}
		}
	}
	for i, v := range s.Zcorn {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &MalformedGridError{Keyword: "ZCORN",
				Reason: fmt.Sprintf("non-finite value at position %d", i)}
		}
	}
	return nil
}

// Clone deep-copies the section so that depth repair can run without
// mutating the caller's arrays.
func (s *Section) Clone() *Section {
	c := &Section{
		Dims:    s.Dims,
		Coord:   append([]float64(nil), s.Coord...),
		Zcorn:   append([]float64(nil), s.Zcorn...),
		Regions: make(map[string][]int, len(s.Regions)),
	}
	if s.Actnum != nil {
		c.Actnum = append([]bool(nil), s.Actnum...)
	}
	for k, v := range s.Regions {
		c.Regions[k] = append([]int(nil), v...)
	}
	return c
}
