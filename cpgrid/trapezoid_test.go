package cpgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrossing(t *testing.T) {
	s, z, ok := crossing(line{0, 0}, line{-2, 4})
	require.True(t, ok)
	assert.InDelta(t, 1.0/3, s, 1e-15)
	assert.InDelta(t, 0, z, 1e-15)

	// operand order does not matter, bit for bit
	s2, z2, _ := crossing(line{-2, 4}, line{0, 0})
	assert.Equal(t, s, s2)
	assert.Equal(t, z, z2)

	_, _, ok = crossing(line{0, 1}, line{2, 3})
	assert.False(t, ok)
	// meeting on a pillar is not an interior crossing
	_, _, ok = crossing(line{0, 1}, line{0, 3})
	assert.False(t, ok)
}

func TestOverlap(t *testing.T) {
	a := band{top: line{0, 0}, bot: line{10, 10}}

	t.Run("Identical", func(t *testing.T) {
		loop, thick := overlap(a, a)
		assert.Equal(t, []sz{{0, 0}, {1, 0}, {1, 10}, {0, 10}}, loop)
		assert.Equal(t, 10.0, thick)
	})
	t.Run("Shifted", func(t *testing.T) {
		loop, thick := overlap(a, band{top: line{5, 5}, bot: line{15, 15}})
		assert.Equal(t, []sz{{0, 5}, {1, 5}, {1, 10}, {0, 10}}, loop)
		assert.Equal(t, 5.0, thick)
	})
	t.Run("CrossingBoundaries", func(t *testing.T) {
		loop, thick := overlap(a, band{top: line{-2, 4}, bot: line{8, 14}})
		require.Len(t, loop, 6)
		assert.InDelta(t, 1.0/3, loop[1].s, 1e-15)
		assert.InDelta(t, 1.0/3, loop[4].s, 1e-15)
		assert.InDelta(t, 10, thick, 1e-12)
	})
	t.Run("PinchedEnd", func(t *testing.T) {
		loop, thick := overlap(a, band{top: line{5, 15}, bot: line{20, 20}})
		require.Len(t, loop, 3)
		assert.Equal(t, sz{0, 5}, loop[0])
		assert.InDelta(t, 0.5, loop[1].s, 1e-15)
		assert.InDelta(t, 10, loop[1].z, 1e-12)
		assert.Equal(t, sz{0, 10}, loop[2])
		assert.Equal(t, 5.0, thick)
	})
	t.Run("Disjoint", func(t *testing.T) {
		loop, thick := overlap(a, band{top: line{12, 12}, bot: line{20, 20}})
		assert.Nil(t, loop)
		assert.Zero(t, thick)
		// sharing only the boundary line has no thickness
		_, thick = overlap(a, band{top: line{10, 10}, bot: line{20, 20}})
		assert.Zero(t, thick)
	})
	t.Run("Unbounded", func(t *testing.T) {
		loop, thick := overlap(a, band{top: lineAbove, bot: line{4, 4}})
		assert.Equal(t, []sz{{0, 0}, {1, 0}, {1, 4}, {0, 4}}, loop)
		assert.Equal(t, 4.0, thick)
		_, thick = overlap(a, band{top: lineAbove, bot: lineBelow})
		assert.Equal(t, 10.0, thick)
	})
}

func TestSweep(t *testing.T) {
	as := []band{
		{top: line{0, 0}, bot: line{1, 1}},
		{top: line{1, 1}, bot: line{2, 2}},
		{top: line{2, 2}, bot: line{3, 3}},
	}
	bs := []band{
		{top: line{0.5, 0.5}, bot: line{1.5, 1.5}},
		{top: line{1.5, 1.5}, bot: line{2.5, 2.5}},
	}
	var pairs [][2]int
	sweep(as, bs, func(i, j int) { pairs = append(pairs, [2]int{i, j}) })
	assert.Equal(t, [][2]int{{0, 0}, {1, 0}, {1, 1}, {2, 1}}, pairs)
}
