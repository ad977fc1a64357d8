package grid

// NewCartesian builds a regular, unfaulted corner-point section with vertical
// pillars, cell sizes dx, dy, dz and the top of the grid at depth zero.
func NewCartesian(dims [3]int, spacing [3]float64) *Section {
	var (
		nx, ny, nz = dims[0], dims[1], dims[2]
		dx, dy, dz = spacing[0], spacing[1], spacing[2]
		s          = NewSection(nx, ny, nz)
		zmax       = float64(nz) * dz
	)
	for J := 0; J <= ny; J++ {
		for I := 0; I <= nx; I++ {
			p := 6 * s.PillarIndex(I, J)
			x, y := float64(I)*dx, float64(J)*dy
			copy(s.Coord[p:p+6], []float64{x, y, 0, x, y, zmax})
		}
	}
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				for c := 0; c < NumCorners; c++ {
					_, _, dk := CornerOffsets(c)
					s.Zcorn[s.ZcornIndex(i, j, k, c)] = float64(k+dk) * dz
				}
			}
		}
	}
	return s
}
