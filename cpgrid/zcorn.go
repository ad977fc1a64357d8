package cpgrid

import (
	"github.com/notargets/gocpg/grid"
)

// RepairSummary records what depth repair changed.
type RepairSummary struct {
	Modified int   // corner depths rewritten
	Pillars  []int // pillars with at least one rewritten depth, ascending
}

// pillarColumns lists the columns that touch pillar (I,J) together with the
// corner offsets they use on it.
func pillarColumns(dims [3]int, I, J int) (cols [][4]int) {
	for _, o := range [4][2]int{{1, 1}, {0, 1}, {1, 0}, {0, 0}} {
		i, j := I-o[0], J-o[1]
		if i < 0 || j < 0 || i >= dims[0] || j >= dims[1] {
			continue
		}
		cols = append(cols, [4]int{i, j, o[0], o[1]})
	}
	return
}

// RepairZcorn walks every pillar and, for each column touching it, the depth
// sequence top(k=0), bottom(k=0), top(k=1), ... which must not decrease. With
// repair set, offending depths are raised in place to the running maximum and
// everything else is left untouched, so repairing twice changes nothing. With
// repair unset the first violation is returned as a NonMonotoneDepthError.
func RepairZcorn(sec *grid.Section, repair bool) (sum RepairSummary, err error) {
	nz := sec.Dims[2]
	for J := 0; J <= sec.Dims[1]; J++ {
		for I := 0; I <= sec.Dims[0]; I++ {
			touched := false
			for _, col := range pillarColumns(sec.Dims, I, J) {
				i, j, di, dj := col[0], col[1], col[2], col[3]
				var (
					prev  float64
					first = true
				)
				for k := 0; k < nz; k++ {
					for dk := 0; dk < 2; dk++ {
						idx := sec.ZcornIndex(i, j, k, grid.Corner(di, dj, dk))
						z := sec.Zcorn[idx]
						if !first && z < prev {
							if !repair {
								return sum, &NonMonotoneDepthError{
									Pillar: [2]int{I, J}, Cell: [3]int{i, j, k},
									Depth: z, Previous: prev,
								}
							}
							sec.Zcorn[idx] = prev
							sum.Modified++
							touched = true
							continue
						}
						prev, first = z, false
					}
				}
			}
			if touched {
				sum.Pillars = append(sum.Pillars, I+(sec.Dims[0]+1)*J)
			}
		}
	}
	return
}
