package schedule

import "time"

// Event is a block of time on one resource row and one day of a month. Start and
// Width are pixel geometry inside the day cell; StartTime and EndTime are the
// derived hour-of-day values.
type Event struct {
	Id        int64      `json:"id"`
	Resource  int        `json:"resource"`
	Day       int        `json:"day"`
	Start     float64    `json:"start"`
	Width     float64    `json:"width"`
	Color     string     `json:"color"`
	StartTime float64    `json:"startTime"`
	EndTime   float64    `json:"endTime"`
	Month     time.Month `json:"month"`
	Year      int        `json:"year"`
}

// Period is one calendar month.
type Period struct {
	Year  int
	Month time.Month
}

func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

func (p Period) DaysInMonth() int {
	return time.Date(p.Year, p.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Date returns the calendar date of the zero-based day index within the period.
func (p Period) Date(dayIndex int) time.Time {
	return time.Date(p.Year, p.Month, dayIndex+1, 0, 0, 0, 0, time.UTC)
}

func (p Period) Contains(e Event) bool {
	return e.Year == p.Year && e.Month == p.Month
}
