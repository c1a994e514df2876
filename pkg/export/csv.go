package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/klokku/gridplanner/pkg/grid"
	"github.com/klokku/gridplanner/pkg/schedule"
	log "github.com/sirupsen/logrus"
)

// RenderCSV writes booked hours per resource and day of period. The first row
// holds the dates, every following row one resource, and the last row and
// column the totals.
func RenderCSV(period schedule.Period, events []schedule.Event, resources int) (string, error) {
	days := period.DaysInMonth()

	booked := make([][]time.Duration, resources)
	for i := range booked {
		booked[i] = make([]time.Duration, days)
	}
	for _, e := range events {
		if !period.Contains(e) || e.Resource < 0 || e.Resource >= resources || e.Day < 0 || e.Day >= days {
			continue
		}
		booked[e.Resource][e.Day] += hoursToDuration(e.EndTime - e.StartTime)
	}

	header := make([]string, 0, days+2)
	header = append(header, "")
	for day := 0; day < days; day++ {
		header = append(header, period.Date(day).Format("02/01/2006"))
	}
	header = append(header, "SUM")

	data := make([][]string, 0, resources+2)
	data = append(data, header)

	dailyTotals := make([]time.Duration, days)
	var total time.Duration
	for resource, perDay := range booked {
		row := make([]string, 0, days+2)
		row = append(row, grid.ResourceName(resource))
		var resourceTotal time.Duration
		for day, d := range perDay {
			row = append(row, durationToString(d))
			resourceTotal += d
			dailyTotals[day] += d
		}
		total += resourceTotal
		data = append(data, append(row, durationToString(resourceTotal)))
	}

	totals := make([]string, 0, days+2)
	totals = append(totals, "Total")
	for _, d := range dailyTotals {
		totals = append(totals, durationToString(d))
	}
	data = append(data, append(totals, durationToString(total)))

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	if err := writer.WriteAll(data); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}
	return b.String(), nil
}

func hoursToDuration(hours float64) time.Duration {
	if hours <= 0 {
		return 0
	}
	return time.Duration(hours * float64(time.Hour)).Round(time.Second)
}

func durationToString(d time.Duration) string {
	seconds := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60)
}
