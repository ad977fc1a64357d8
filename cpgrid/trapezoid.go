package cpgrid

import (
	"math"
)

// line is a depth varying linearly along a pillar edge, from z0 at s=0 to z1
// at s=1. Infinite depths stand for an unbounded side.
type line struct {
	z0, z1 float64
}

var (
	lineAbove = line{math.Inf(-1), math.Inf(-1)}
	lineBelow = line{math.Inf(1), math.Inf(1)}
)

func (l line) at(s float64) float64 {
	switch s {
	case 0:
		return l.z0
	case 1:
		return l.z1
	}
	return l.z0 + s*(l.z1-l.z0)
}

func (l line) infinite() bool {
	return math.IsInf(l.z0, 0)
}

func (l line) less(m line) bool {
	if l.z0 != m.z0 {
		return l.z0 < m.z0
	}
	return l.z1 < m.z1
}

// crossing returns the parameter where two finite lines meet strictly inside
// (0,1) and the depth there. Operands are ordered first so both sides of a
// pillar edge compute bit-identical points.
func crossing(a, b line) (s, z float64, ok bool) {
	if b.less(a) {
		a, b = b, a
	}
	d0, d1 := a.z0-b.z0, a.z1-b.z1
	if !(d0 < 0 && d1 > 0 || d0 > 0 && d1 < 0) {
		return 0, 0, false
	}
	s = d0 / (d0 - d1)
	if s <= 0 || s >= 1 {
		return 0, 0, false
	}
	return s, a.at(s), true
}

// band is the region of the (s, depth) plane between two lines.
type band struct {
	top, bot line
}

// entirelyAbove reports whether b lies on or above the top of o everywhere.
func (b band) entirelyAbove(o band) bool {
	return b.bot.z0 <= o.top.z0 && b.bot.z1 <= o.top.z1
}

// entirelyBelow reports whether b lies on or below the bottom of o everywhere.
func (b band) entirelyBelow(o band) bool {
	return b.top.z0 >= o.bot.z0 && b.top.z1 >= o.bot.z1
}

// sz is a point of the (s, depth) plane.
type sz struct {
	s, z float64
}

// overlap intersects a finite band a with band b, which may be unbounded on
// either side. The upper boundary of the intersection is the pointwise max of
// two lines and the lower one the pointwise min, so the thickness is concave
// in s and the intersection is one convex polygon. It is returned as a loop,
// upper boundary left to right then lower boundary right to left, together
// with its largest thickness.
func overlap(a, b band) (loop []sz, thick float64) {
	tops := []line{a.top}
	if !b.top.infinite() {
		tops = append(tops, b.top)
	}
	bots := []line{a.bot}
	if !b.bot.infinite() {
		bots = append(bots, b.bot)
	}
	top := func(s float64) float64 {
		z := tops[0].at(s)
		for _, l := range tops[1:] {
			z = math.Max(z, l.at(s))
		}
		return z
	}
	bot := func(s float64) float64 {
		z := bots[0].at(s)
		for _, l := range bots[1:] {
			z = math.Min(z, l.at(s))
		}
		return z
	}

	// The feasible interval: every bottom line below every top line.
	var (
		lo, hi   = 0.0, 1.0
		loZ, hiZ float64
		loX, hiX bool // interval end found at a crossing
	)
	for _, t := range tops {
		for _, u := range bots {
			c0, c1 := u.z0-t.z0, u.z1-t.z1
			switch {
			case c0 < 0 && c1 < 0:
				return nil, 0
			case c0 >= 0 && c1 >= 0:
				continue
			}
			s, z, ok := crossing(t, u)
			if !ok {
				// the sign change sits on a pillar
				if c0 < 0 {
					s, z = 1, t.z1
				} else {
					s, z = 0, t.z0
				}
			}
			if c0 < 0 && s > lo {
				lo, loZ, loX = s, z, true
			} else if c0 >= 0 && s < hi {
				hi, hiZ, hiX = s, z, true
			}
		}
	}
	if lo >= hi {
		return nil, 0
	}

	upper := []sz{{lo, top(lo)}}
	if loX {
		upper[0].z = loZ
	}
	if len(tops) == 2 {
		if s, z, ok := crossing(tops[0], tops[1]); ok && s > lo && s < hi {
			upper = append(upper, sz{s, z})
		}
	}
	end := sz{hi, top(hi)}
	if hiX {
		end.z = hiZ
	}
	upper = append(upper, end)

	lower := []sz{}
	if !hiX {
		lower = append(lower, sz{hi, bot(hi)})
	}
	if len(bots) == 2 {
		if s, z, ok := crossing(bots[0], bots[1]); ok && s > lo && s < hi {
			lower = append(lower, sz{s, z})
		}
	}
	if !loX {
		lower = append(lower, sz{lo, bot(lo)})
	}

	for _, p := range upper {
		thick = math.Max(thick, bot(p.s)-top(p.s))
	}
	for _, p := range lower {
		thick = math.Max(thick, bot(p.s)-top(p.s))
	}
	loop = append(upper, lower...)
	return
}
