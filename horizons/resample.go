package horizons

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
)

// Surface is a depth map sampled on an X by Y grid, indexed [i][j]. NaN marks
// an undefined sample.
type Surface [][]float64

// NewSurface allocates an nx by ny surface.
func NewSurface(nx, ny int) Surface {
	s := make(Surface, nx)
	for i := range s {
		s[i] = make([]float64, ny)
	}
	return s
}

// Constant returns an nx by ny surface at depth z.
func Constant(nx, ny int, z float64) Surface {
	s := NewSurface(nx, ny)
	for i := range s {
		for j := range s[i] {
			s[i][j] = z
		}
	}
	return s
}

// centers places n sample points evenly over [lo, hi].
func centers(lo, hi float64, n int) []float64 {
	if n == 1 {
		return []float64{(lo + hi) / 2}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// linear interpolates a 1D profile. Queries that hit a sample return it
// exactly, so an undefined neighbor only spreads to the points that actually
// lie between it and another sample.
type linear struct {
	xs, ys []float64
	pl     interp.PiecewiseLinear
}

func newLinear(xs, ys []float64) (*linear, error) {
	l := &linear{xs: xs, ys: ys}
	if err := l.pl.Fit(xs, ys); err != nil {
		return nil, errors.Wrap(err, "fitting horizon profile")
	}
	return l, nil
}

func (l *linear) at(x float64) float64 {
	if k := sort.SearchFloat64s(l.xs, x); k < len(l.xs) && l.xs[k] == x {
		return l.ys[k]
	}
	return l.pl.Predict(x)
}

// Resample evaluates s, sampled on x by y, at the points xq by yq with
// separable bilinear interpolation: first along y for every sample row, then
// along x. Queries outside the sampled range take the nearest edge value.
func Resample(s Surface, x, y, xq, yq []float64) (Surface, error) {
	rows := NewSurface(len(x), len(yq))
	for i := range x {
		l, err := newLinear(y, s[i])
		if err != nil {
			return nil, err
		}
		for jq, v := range yq {
			rows[i][jq] = l.at(v)
		}
	}
	out := NewSurface(len(xq), len(yq))
	col := make([]float64, len(x))
	for jq := range yq {
		for i := range x {
			col[i] = rows[i][jq]
		}
		l, err := newLinear(x, append([]float64(nil), col...))
		if err != nil {
			return nil, err
		}
		for iq, v := range xq {
			out[iq][jq] = l.at(v)
		}
	}
	return out, nil
}

func increasing(name string, v []float64) error {
	if len(v) < 2 {
		return errors.Errorf("%s needs at least 2 samples, got %d", name, len(v))
	}
	if floats.HasNaN(v) || math.IsInf(floats.Max(v), 0) || math.IsInf(floats.Min(v), 0) {
		return errors.Errorf("%s has non-finite entries", name)
	}
	for n := 1; n < len(v); n++ {
		if v[n] <= v[n-1] {
			return errors.Errorf("%s is not strictly increasing at entry %d", name, n)
		}
	}
	return nil
}
