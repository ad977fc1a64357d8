package grid

import (
	"fmt"
	"strings"
)

// CellRegion returns the region number of every cell in cells, given as
// linear logical indices (typically a mesh cell map). A nil cells slice
// selects every logical cell. Regions absent from the section default to 1.
func (s *Section) CellRegion(name string, cells []int) ([]int, error) {
	name = strings.ToUpper(name)
	if !isRegionKeyword(name) {
		return nil, fmt.Errorf("unknown region keyword %q", name)
	}
	n := s.NumCells()
	if cells == nil {
		cells = make([]int, n)
		for i := range cells {
			cells[i] = i
		}
	}
	vals, ok := s.Regions[name]
	out := make([]int, len(cells))
	for i, c := range cells {
		if c < 0 || c >= n {
			return nil, fmt.Errorf("cell index %d out of range [0, %d)", c, n)
		}
		if !ok {
			out[i] = 1
			continue
		}
		out[i] = vals[c]
	}
	return out, nil
}

// NumberOfTables is the number of tables a region array refers to, taken as
// the largest region number present. Missing arrays imply a single table.
func (s *Section) NumberOfTables(name string) int {
	vals, ok := s.Regions[strings.ToUpper(name)]
	if !ok {
		return 1
	}
	n := 1
	for _, v := range vals {
		if v > n {
			n = v
		}
	}
	return n
}
