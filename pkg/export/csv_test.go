package export

import (
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/klokku/gridplanner/internal/utils"
	"github.com/klokku/gridplanner/pkg/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseCSV(t *testing.T, content string) [][]string {
	t.Helper()
	records, err := csv.NewReader(strings.NewReader(content)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestRenderCSV(t *testing.T) {
	t.Run("should sum booked hours per resource and day", func(t *testing.T) {
		// given
		second := scenarioEvent()
		second.Id = 2
		second.StartTime = 12
		second.EndTime = 12.5
		other := scenarioEvent()
		other.Id = 3
		other.Resource = 0
		other.Day = 0
		other.StartTime = 0
		other.EndTime = 24

		// when
		content, err := RenderCSV(march2025, []schedule.Event{scenarioEvent(), second, other}, 3)

		// then
		require.NoError(t, err)
		records := parseCSV(t, content)
		require.Len(t, records, 5)

		header := records[0]
		assert.Len(t, header, 33)
		assert.Equal(t, "", header[0])
		assert.Equal(t, "01/03/2025", header[1])
		assert.Equal(t, "31/03/2025", header[31])
		assert.Equal(t, "SUM", header[32])

		assert.Equal(t, "Resource A", records[1][0])
		assert.Equal(t, "24:00:00", records[1][1])
		assert.Equal(t, "24:00:00", records[1][32])

		assert.Equal(t, "Resource C", records[3][0])
		assert.Equal(t, "10:30:00", records[3][6])
		assert.Equal(t, "00:00:00", records[3][5])
		assert.Equal(t, "10:30:00", records[3][32])

		totals := records[4]
		assert.Equal(t, "Total", totals[0])
		assert.Equal(t, "10:30:00", totals[6])
		assert.Equal(t, "34:30:00", totals[32])
	})

	t.Run("should skip events outside the grid", func(t *testing.T) {
		outside := scenarioEvent()
		outside.Resource = 9
		april := scenarioEvent()
		april.Month = time.April

		content, err := RenderCSV(march2025, []schedule.Event{outside, april}, 3)

		require.NoError(t, err)
		records := parseCSV(t, content)
		assert.Equal(t, "00:00:00", records[4][32])
	})
}

func TestDurationToString(t *testing.T) {
	assert.Equal(t, "00:00:00", durationToString(0))
	assert.Equal(t, "01:15:00", durationToString(75*time.Minute))
	assert.Equal(t, "36:00:05", durationToString(36*time.Hour+5*time.Second))
}

func TestHandler_ExportCSV(t *testing.T) {
	handler := NewHandler(stubEvents{scenarioEvent()}, fixedPeriod(march2025), &utils.MockClock{FixedNow: stamp}, 3)
	rr := httptest.NewRecorder()

	handler.ExportCSV(rr, httptest.NewRequest(http.MethodGet, "/api/export/csv", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "gridplanner-2025-03.csv")
	records := parseCSV(t, rr.Body.String())
	assert.Equal(t, "10:00:00", records[3][32])
}
