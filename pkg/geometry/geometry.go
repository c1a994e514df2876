package geometry

import (
	"errors"
	"fmt"
	"math"
)

const (
	// HoursPerDay is the upper bound of every hour value produced by the converter.
	HoursPerDay = 24.0
)

var ErrInvalidHourScale = errors.New("hour width must be positive")

// Rect is the bounding box of a grid cell, in pointer coordinates.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Interval is the clock-time representation of an event's pixel geometry.
type Interval struct {
	StartTime float64
	EndTime   float64
}

func PixelsToHours(positionX, hourWidthPx float64) float64 {
	return positionX / hourWidthPx
}

func IntervalToHours(start, width, hourWidthPx float64) Interval {
	return Interval{
		StartTime: PixelsToHours(start, hourWidthPx),
		EndTime:   PixelsToHours(start+width, hourWidthPx),
	}
}

// ClampHour bounds h to [0, 24]. NaN is treated as 0.
func ClampHour(h float64) float64 {
	if math.IsNaN(h) {
		return 0
	}
	return math.Max(0, math.Min(h, HoursPerDay))
}

// HourScale is the number of pixels representing one hour. Every conversion
// between event geometry and clock time must go through the same HourScale.
type HourScale struct {
	pixelsPerHour float64
}

func NewHourScale(hourWidthPx float64) (HourScale, error) {
	if hourWidthPx <= 0 || math.IsNaN(hourWidthPx) || math.IsInf(hourWidthPx, 0) {
		return HourScale{}, fmt.Errorf("%w: got %v", ErrInvalidHourScale, hourWidthPx)
	}
	return HourScale{pixelsPerHour: hourWidthPx}, nil
}

func (s HourScale) PixelsPerHour() float64 {
	return s.pixelsPerHour
}

func (s HourScale) PixelsToHours(positionX float64) float64 {
	return PixelsToHours(positionX, s.pixelsPerHour)
}

func (s HourScale) Interval(start, width float64) Interval {
	return IntervalToHours(start, width, s.pixelsPerHour)
}
