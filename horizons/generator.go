// Package horizons synthesizes corner-point grid sections from stacks of
// horizon depth surfaces.
package horizons

import (
	"math"

	"github.com/notargets/gocpg/grid"
	"github.com/pkg/errors"
)

// LayerRegion is the region array holding the 1-based horizon layer of every
// generated cell.
const LayerRegion = "LAYERNUM"

// Options controls GridFromHorizons. The zero value keeps the input sampling,
// one cell per layer and vertical pillars.
type Options struct {
	Size            [2]int // cells in I and J, zero keeps the sample count
	LayerWidth      []int  // cells per layer: empty, one value for all, or one per layer
	Transforms      []VerticalTransform
	PillarTransform PillarTransform
}

// GridFromHorizons builds a grid section from horizon surfaces sampled on the
// x by y grid, ordered from the top down. Each pair of consecutive horizons
// bounds one layer. Where horizons cross, the upper one is pinched onto the
// lower one.
func GridFromHorizons(x, y []float64, depths []Surface, opts Options) (*grid.Section, error) {
	if err := increasing("x", x); err != nil {
		return nil, err
	}
	if err := increasing("y", y); err != nil {
		return nil, err
	}
	if len(depths) < 2 {
		return nil, errors.Errorf("need at least 2 horizons, got %d", len(depths))
	}
	for h, s := range depths {
		if len(s) != len(x) {
			return nil, errors.Errorf("horizon %d has %d rows, expected %d", h, len(s), len(x))
		}
		for i := range s {
			if len(s[i]) != len(y) {
				return nil, errors.Errorf("horizon %d row %d has %d samples, expected %d", h, i, len(s[i]), len(y))
			}
		}
	}
	widths, err := layerWidths(opts.LayerWidth, len(depths)-1)
	if err != nil {
		return nil, err
	}

	var (
		nx, ny = len(x), len(y)
		xc, yc = x, y
		cols   = depths
	)
	if opts.Size[0] > 0 {
		nx = opts.Size[0]
	}
	if opts.Size[1] > 0 {
		ny = opts.Size[1]
	}
	if nx != len(x) || ny != len(y) {
		xc = centers(x[0], x[len(x)-1], nx)
		yc = centers(y[0], y[len(y)-1], ny)
		cols = make([]Surface, len(depths))
		for h, s := range depths {
			if cols[h], err = Resample(s, x, y, xc, yc); err != nil {
				return nil, errors.Wrapf(err, "resampling horizon %d", h)
			}
		}
	}
	px := pillarLines(xc, x[0], x[len(x)-1])
	py := pillarLines(yc, y[0], y[len(y)-1])

	pils := pillarDepths(cols, nx, ny)
	pinch(pils)
	surfaces := subdivide(pils, widths)

	nz := len(surfaces) - 1
	sec := grid.NewSection(nx, ny, nz)
	layer := make([]int, nz)
	for g, k := 0, 0; g < len(widths); g++ {
		for t := 0; t < widths[g]; t, k = t+1, k+1 {
			layer[k] = g
		}
	}

	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				for c := 0; c < grid.NumCorners; c++ {
					di, dj, dk := grid.CornerOffsets(c)
					I, J := i+di, j+dj
					z := surfaces[k+dk][I][J]
					for n, tr := range opts.Transforms {
						z = tr(TransformPoint{
							X: px[I], Y: py[J], Z: z,
							XC: xc[i], YC: yc[j],
							I: i, J: j, K: k,
						})
						if !finite(z) {
							return nil, &UnsupportedTransformError{Kind: "vertical", Index: n, At: [3]int{i, j, k}, Value: z}
						}
					}
					sec.Zcorn[sec.ZcornIndex(i, j, k, c)] = z
				}
			}
		}
	}

	sec.Actnum = make([]bool, sec.NumCells())
	layers := make([]int, sec.NumCells())
	for idx := range sec.Actnum {
		_, _, k := sec.CellIJK(idx)
		sec.Actnum[idx] = true
		layers[idx] = layer[k] + 1
	}
	for h, s := range cols {
		for i := 0; i < nx; i++ {
			for j := 0; j < ny; j++ {
				if !math.IsNaN(s[i][j]) {
					continue
				}
				for k := 0; k < nz; k++ {
					if g := layer[k]; g == h-1 || g == h {
						sec.Actnum[sec.CellIndex(i, j, k)] = false
					}
				}
			}
		}
	}
	sec.Regions[LayerRegion] = layers

	if err = setCoord(sec, px, py, opts.PillarTransform); err != nil {
		return nil, err
	}
	return sec, nil
}

func layerWidths(w []int, layers int) ([]int, error) {
	out := make([]int, layers)
	switch len(w) {
	case 0:
		for g := range out {
			out[g] = 1
		}
		return out, nil
	case 1:
		for g := range out {
			out[g] = w[0]
		}
	case layers:
		copy(out, w)
	default:
		return nil, errors.Errorf("layer width has %d entries, expected 1 or %d", len(w), layers)
	}
	for g, n := range out {
		if n < 1 {
			return nil, errors.Errorf("layer %d has width %d, must be at least 1", g, n)
		}
	}
	return out, nil
}

// pillarLines puts pillars halfway between cell centers and half a spacing
// outside the outermost centers. A single center is bounded by [lo, hi].
func pillarLines(c []float64, lo, hi float64) []float64 {
	n := len(c)
	p := make([]float64, n+1)
	if n == 1 {
		p[0], p[1] = lo, hi
		return p
	}
	for I := 1; I < n; I++ {
		p[I] = (c[I-1] + c[I]) / 2
	}
	p[0] = c[0] - (p[1] - c[0])
	p[n] = c[n-1] + (c[n-1] - p[n-1])
	return p
}

// pillarDepths averages the defined column samples around every pillar.
// Pillars with no defined neighbor borrow the depth of the horizon above,
// then the one below, and fall back to zero.
func pillarDepths(cols []Surface, nx, ny int) []Surface {
	pils := make([]Surface, len(cols))
	for h, s := range cols {
		p := NewSurface(nx+1, ny+1)
		for I := 0; I <= nx; I++ {
			for J := 0; J <= ny; J++ {
				var sum float64
				var n int
				for i := I - 1; i <= I; i++ {
					for j := J - 1; j <= J; j++ {
						if i < 0 || j < 0 || i >= nx || j >= ny || math.IsNaN(s[i][j]) {
							continue
						}
						sum += s[i][j]
						n++
					}
				}
				p[I][J] = math.NaN()
				if n > 0 {
					p[I][J] = sum / float64(n)
				}
			}
		}
		pils[h] = p
	}
	for I := 0; I <= nx; I++ {
		for J := 0; J <= ny; J++ {
			for h := 1; h < len(pils); h++ {
				if math.IsNaN(pils[h][I][J]) {
					pils[h][I][J] = pils[h-1][I][J]
				}
			}
			for h := len(pils) - 2; h >= 0; h-- {
				if math.IsNaN(pils[h][I][J]) {
					pils[h][I][J] = pils[h+1][I][J]
				}
			}
			for h := range pils {
				if math.IsNaN(pils[h][I][J]) {
					pils[h][I][J] = 0
				}
			}
		}
	}
	return pils
}

// pinch clamps every horizon to lie above the next one, working upward so
// the deepest horizon is kept.
func pinch(pils []Surface) {
	for h := len(pils) - 2; h >= 0; h-- {
		for I := range pils[h] {
			for J := range pils[h][I] {
				pils[h][I][J] = math.Min(pils[h][I][J], pils[h+1][I][J])
			}
		}
	}
}

// subdivide splits every layer into its cells by linear interpolation and
// returns the nz+1 cell interface surfaces.
func subdivide(pils []Surface, widths []int) []Surface {
	var out []Surface
	for g, w := range widths {
		top, bot := pils[g], pils[g+1]
		for t := 0; t < w; t++ {
			f := float64(t) / float64(w)
			s := NewSurface(len(top), len(top[0]))
			for I := range s {
				for J := range s[I] {
					s[I][J] = top[I][J] + f*(bot[I][J]-top[I][J])
				}
			}
			out = append(out, s)
		}
	}
	return append(out, pils[len(pils)-1])
}

// setCoord spans every pillar over the depths of the corners it carries and
// places it in map view.
func setCoord(sec *grid.Section, px, py []float64, tr PillarTransform) error {
	nx, ny, nz := sec.Dims[0], sec.Dims[1], sec.Dims[2]
	zmin := make([]float64, sec.NumPillars())
	zmax := make([]float64, sec.NumPillars())
	for p := range zmin {
		zmin[p], zmax[p] = math.Inf(1), math.Inf(-1)
	}
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				for c := 0; c < grid.NumCorners; c++ {
					di, dj, _ := grid.CornerOffsets(c)
					p := sec.PillarIndex(i+di, j+dj)
					z := sec.Zcorn[sec.ZcornIndex(i, j, k, c)]
					zmin[p] = math.Min(zmin[p], z)
					zmax[p] = math.Max(zmax[p], z)
				}
			}
		}
	}
	for J := 0; J <= ny; J++ {
		for I := 0; I <= nx; I++ {
			p := sec.PillarIndex(I, J)
			zt, zb := zmin[p], zmax[p]
			if zb == zt {
				zb = zt + 1
			}
			pos := PillarPosition{XTop: px[I], YTop: py[J], XBottom: px[I], YBottom: py[J]}
			if tr != nil {
				pos = tr(PillarPoint{X: px[I], Y: py[J], ZTop: zt, ZBottom: zb, I: I, J: J})
				for _, v := range []float64{pos.XTop, pos.YTop, pos.XBottom, pos.YBottom} {
					if !finite(v) {
						return &UnsupportedTransformError{Kind: "pillar", At: [3]int{I, J, 0}, Value: v}
					}
				}
			}
			copy(sec.Coord[6*p:6*p+6], []float64{pos.XTop, pos.YTop, zt, pos.XBottom, pos.YBottom, zb})
		}
	}
	return nil
}
