package mealplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func arenaOf(n int) *DayArena {
	a := NewDayArena(n)
	for i := 0; i < n; i++ {
		a.AppendBuilt(&DayPlan{})
	}
	return a
}

func TestNewReuseController_RejectsOutOfRange(t *testing.T) {
	for _, n := range []int{-1, 8} {
		_, err := NewReuseController(&scriptedRand{}, n)
		assert.ErrorIs(t, err, ErrInvalidRepeatDays)
	}
}

func TestReuseController_Pick(t *testing.T) {
	t.Run("ZeroRepeatDays_ShouldNeverReuse", func(t *testing.T) {
		rnd := &scriptedRand{floats: []float64{0}}
		c, err := NewReuseController(rnd, 0)
		require.NoError(t, err)

		_, ok := c.Pick(arenaOf(5))

		assert.False(t, ok)
		assert.Len(t, rnd.floats, 1, "no draw should be consumed")
	})

	t.Run("NoDaysYet_ShouldNeverReuse", func(t *testing.T) {
		c, err := NewReuseController(&scriptedRand{floats: []float64{0}}, 7)
		require.NoError(t, err)

		_, ok := c.Pick(NewDayArena(0))

		assert.False(t, ok)
	})

	t.Run("DrawBelowThreshold_ShouldReuse", func(t *testing.T) {
		// 3/7 = 0.4286
		c, err := NewReuseController(&scriptedRand{floats: []float64{0.42}, ints: []int{1}}, 3)
		require.NoError(t, err)

		pos, ok := c.Pick(arenaOf(3))

		assert.True(t, ok)
		assert.Equal(t, 1, pos)
	})

	t.Run("DrawAtThreshold_ShouldBuildFresh", func(t *testing.T) {
		c, err := NewReuseController(&scriptedRand{floats: []float64{3.0 / 7}}, 3)
		require.NoError(t, err)

		_, ok := c.Pick(arenaOf(3))

		assert.False(t, ok)
	})

	t.Run("LongHistory_ShouldPickFromLastSevenOnly", func(t *testing.T) {
		rnd := &boundRecorder{}
		c, err := NewReuseController(rnd, 7)
		require.NoError(t, err)

		pos, ok := c.Pick(arenaOf(20))

		assert.True(t, ok)
		assert.Equal(t, 13, pos)
		assert.Equal(t, []int{7}, rnd.bounds)
	})
}

func TestDayArena_ReuseSharesPlanAndTracksSource(t *testing.T) {
	a := NewDayArena(3)
	first := &DayPlan{}
	a.AppendBuilt(first)
	a.AppendBuilt(&DayPlan{})
	a.AppendReuse(0)
	a.AppendReuse(2)

	assert.Equal(t, 4, a.Len())
	assert.Same(t, first, a.At(2))
	assert.Same(t, first, a.At(3))
	assert.Equal(t, 0, a.SourceOf(3))
	assert.Equal(t, 1, a.SourceOf(1))
}
