package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalToHours(t *testing.T) {
	t.Run("should derive start and end from pixel geometry", func(t *testing.T) {
		interval := IntervalToHours(10, 80, 8)

		assert.Equal(t, 1.25, interval.StartTime)
		assert.Equal(t, 11.25, interval.EndTime)
	})

	t.Run("should keep duration proportional to width", func(t *testing.T) {
		cases := []struct {
			start, width, hourWidth float64
		}{
			{0, 8, 8},
			{3, 17, 8},
			{120, 40, 6.5},
			{1, 1, 0.25},
			{33.3, 66.6, 13.1},
		}
		for _, c := range cases {
			interval := IntervalToHours(c.start, c.width, c.hourWidth)
			assert.InDelta(t, c.width/c.hourWidth, interval.EndTime-interval.StartTime, 1e-9)
			assert.InDelta(t, c.start/c.hourWidth, interval.StartTime, 1e-9)
		}
	})
}

func TestClampHour(t *testing.T) {
	values := []float64{-100, -0.5, 0, 0.1, 12, 23.99, 24, 24.01, 1000, math.Inf(1), math.Inf(-1)}
	for _, v := range values {
		clamped := ClampHour(v)
		assert.GreaterOrEqual(t, clamped, 0.0)
		assert.LessOrEqual(t, clamped, 24.0)
		assert.Equal(t, clamped, ClampHour(clamped), "clamp should be idempotent for %v", v)
	}

	assert.Equal(t, 0.0, ClampHour(-3))
	assert.Equal(t, 24.0, ClampHour(30))
	assert.Equal(t, 7.5, ClampHour(7.5))
	assert.Equal(t, 0.0, ClampHour(math.NaN()))
}

func TestHourScale(t *testing.T) {
	t.Run("should reject non-positive widths", func(t *testing.T) {
		for _, w := range []float64{0, -8, math.NaN(), math.Inf(1)} {
			_, err := NewHourScale(w)
			assert.ErrorIs(t, err, ErrInvalidHourScale)
		}
	})

	t.Run("should convert with the configured width", func(t *testing.T) {
		scale, err := NewHourScale(8)
		require.NoError(t, err)

		assert.Equal(t, 8.0, scale.PixelsPerHour())
		assert.Equal(t, 2.0, scale.PixelsToHours(16))
		assert.Equal(t, IntervalToHours(10, 80, 8), scale.Interval(10, 80))
	})
}

func TestFormatClock(t *testing.T) {
	cases := map[float64]string{
		0:     "12:00 AM",
		1.25:  "1:15 AM",
		11.25: "11:15 AM",
		12:    "12:00 PM",
		13.5:  "1:30 PM",
		23.75: "11:45 PM",
		24:    "12:00 AM",
	}
	for hours, expected := range cases {
		assert.Equal(t, expected, FormatClock(hours), "hours %v", hours)
	}
}

func TestResolveDrop(t *testing.T) {
	t.Run("should resolve cell and offset", func(t *testing.T) {
		target := ResolveDrop(250, 140, 80, 64)

		assert.Equal(t, DropTarget{Resource: 2, Day: 3, Start: 10}, target)
	})

	t.Run("should resolve first cell at origin", func(t *testing.T) {
		assert.Equal(t, DropTarget{Resource: 0, Day: 0, Start: 0}, ResolveDrop(0, 0, 80, 64))
	})

	t.Run("should resolve negative indexes outside the grid", func(t *testing.T) {
		target := ResolveDrop(-5, -1, 80, 64)

		assert.Equal(t, -1, target.Day)
		assert.Equal(t, -1, target.Resource)
		assert.Equal(t, 75.0, target.Start)
	})
}
