package export

import (
	"fmt"
	"math"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/klokku/gridplanner/pkg/geometry"
	"github.com/klokku/gridplanner/pkg/grid"
	"github.com/klokku/gridplanner/pkg/schedule"
)

const productId = "-//gridplanner//resource schedule//EN"

// Render writes the events of period as an iCalendar document. Hours are
// interpreted as UTC wall-clock times on the event's day.
func Render(period schedule.Period, events []schedule.Event, stamp time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productId)
	cal.SetName(fmt.Sprintf("Resource schedule %s", period.Date(0).Format("January 2006")))

	for _, e := range events {
		if !period.Contains(e) {
			continue
		}
		day := period.Date(e.Day)

		ev := cal.AddEvent(EventUID(e.Id))
		ev.SetDtStampTime(stamp.UTC())
		ev.SetStartAt(atHour(day, e.StartTime))
		ev.SetEndAt(atHour(day, e.EndTime))
		ev.SetSummary(grid.ResourceName(e.Resource))
		ev.SetDescription(fmt.Sprintf("%s - %s", geometry.FormatClock(e.StartTime), geometry.FormatClock(e.EndTime)))
		if e.Color != "" {
			ev.SetProperty(ical.ComponentProperty("COLOR"), e.Color)
		}
	}
	return cal.Serialize()
}

func EventUID(id int64) string {
	return fmt.Sprintf("%d@gridplanner", id)
}

func atHour(day time.Time, hours float64) time.Time {
	seconds := math.Round(geometry.ClampHour(hours) * 3600)
	return day.Add(time.Duration(seconds) * time.Second)
}
