package geometry

import (
	"fmt"
	"math"
)

// FormatClock renders an hour-of-day value as a 12-hour clock label, e.g. 13.5 -> "1:30 PM".
// Minutes are floored.
func FormatClock(hours float64) string {
	h := int(math.Floor(hours))
	m := int(math.Floor((hours - float64(h)) * 60))
	period := "AM"
	if h%24 >= 12 {
		period = "PM"
	}
	displayHour := h % 12
	if displayHour == 0 {
		displayHour = 12
	}
	return fmt.Sprintf("%d:%02d %s", displayHour, m, period)
}
