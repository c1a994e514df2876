package grid

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/klokku/gridplanner/internal/utils"
	"github.com/klokku/gridplanner/pkg/interaction"
	"github.com/klokku/gridplanner/pkg/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	february2024 = schedule.Period{Year: 2024, Month: time.February}
	testLayout   = Layout{Resources: 3, HourWidthPx: 8, CellWidthPx: 80, CellHeightPx: 64}
)

func event(id int64, resource, day int, period schedule.Period) schedule.Event {
	return schedule.Event{
		Id: id, Resource: resource, Day: day, Start: 8, Width: 16,
		Color: schedule.ColorForResource(resource), StartTime: 1, EndTime: 3,
		Month: period.Month, Year: period.Year,
	}
}

func TestBuild(t *testing.T) {
	t.Run("should lay out one column per day", func(t *testing.T) {
		today := time.Date(2024, time.February, 29, 15, 0, 0, 0, time.UTC)

		g := Build(february2024, interaction.View{}, today, testLayout)

		require.Len(t, g.Columns, 29)
		assert.Equal(t, Column{Date: "2024-02-01", Day: 0, Label: "1 Thu"}, g.Columns[0])
		assert.Equal(t, "29 Thu", g.Columns[28].Label)
		assert.True(t, g.Columns[28].IsToday)
		for _, c := range g.Columns[:28] {
			assert.False(t, c.IsToday)
		}
		assert.Equal(t, 2024, g.Year)
		assert.Equal(t, 2, g.Month)
		assert.Equal(t, testLayout, g.Layout)
	})

	t.Run("should name one row per resource", func(t *testing.T) {
		g := Build(february2024, interaction.View{}, time.Time{}, testLayout)

		require.Len(t, g.Rows, 3)
		assert.Equal(t, "Resource A", g.Rows[0].Name)
		assert.Equal(t, "Resource C", g.Rows[2].Name)
		for _, row := range g.Rows {
			assert.Len(t, row.Cells, 29)
			assert.NotNil(t, row.Cells[0].Events)
		}
	})

	t.Run("should place events in their cells with clock labels", func(t *testing.T) {
		view := interaction.View{Events: []schedule.Event{
			event(1, 1, 4, february2024),
			event(2, 1, 4, february2024),
			event(3, 2, 0, february2024),
		}}

		g := Build(february2024, view, time.Time{}, testLayout)

		cell := g.Rows[1].Cells[4]
		require.Len(t, cell.Events, 2)
		assert.Equal(t, int64(1), cell.Events[0].Id)
		assert.Equal(t, "1:00 AM", cell.Events[0].StartLabel)
		assert.Equal(t, "3:00 AM", cell.Events[0].EndLabel)
		assert.Len(t, g.Rows[2].Cells[0].Events, 1)
		assert.Empty(t, g.Rows[0].Cells[4].Events)
	})

	t.Run("should skip events outside the period or the grid", func(t *testing.T) {
		view := interaction.View{Events: []schedule.Event{
			event(1, 0, 0, schedule.Period{Year: 2024, Month: time.March}),
			event(2, 7, 0, february2024),
			event(3, 0, 30, february2024),
		}}

		g := Build(february2024, view, time.Time{}, testLayout)

		for _, row := range g.Rows {
			for _, cell := range row.Cells {
				assert.Empty(t, cell.Events)
			}
		}
	})

	t.Run("should show the provisional event", func(t *testing.T) {
		provisional := event(0, 2, 10, february2024)
		pending := int64(42)
		view := interaction.View{Provisional: &provisional, PendingDeletion: &pending}

		g := Build(february2024, view, time.Time{}, testLayout)

		require.NotNil(t, g.Provisional)
		assert.Equal(t, 2, g.Provisional.Resource)
		assert.Len(t, g.Rows[2].Cells[10].Events, 1)
		assert.Equal(t, &pending, g.PendingDeletion)
	})
}

func TestResourceName(t *testing.T) {
	assert.Equal(t, "Resource A", ResourceName(0))
	assert.Equal(t, "Resource O", ResourceName(14))
	assert.Equal(t, "Resource Z", ResourceName(25))
	assert.Equal(t, "Resource AA", ResourceName(26))
	assert.Equal(t, "Resource AB", ResourceName(27))
	assert.Equal(t, "Resource BA", ResourceName(52))
}

type stubViews struct {
	requested schedule.Period
	view      interaction.View
}

func (s *stubViews) View(period schedule.Period) interaction.View {
	s.requested = period
	return s.view
}

type fixedPeriod schedule.Period

func (p fixedPeriod) Period() schedule.Period { return schedule.Period(p) }

func TestHandler_GetGrid(t *testing.T) {
	clock := &utils.MockClock{FixedNow: time.Date(2024, time.February, 3, 9, 0, 0, 0, time.UTC)}

	t.Run("should render the active period", func(t *testing.T) {
		views := &stubViews{view: interaction.View{Events: []schedule.Event{event(5, 0, 2, february2024)}}}
		handler := NewHandler(views, fixedPeriod(february2024), clock, testLayout)
		rr := httptest.NewRecorder()

		handler.GetGrid(rr, httptest.NewRequest(http.MethodGet, "/api/grid", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, february2024, views.requested)
		var g Grid
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&g))
		assert.Len(t, g.Columns, 29)
		assert.True(t, g.Columns[2].IsToday)
		assert.Equal(t, int64(5), g.Rows[0].Cells[2].Events[0].Id)
	})

	t.Run("should render the requested period", func(t *testing.T) {
		views := &stubViews{}
		handler := NewHandler(views, fixedPeriod(february2024), clock, testLayout)
		rr := httptest.NewRecorder()

		handler.GetGrid(rr, httptest.NewRequest(http.MethodGet, "/api/grid?year=2025&month=4", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, schedule.Period{Year: 2025, Month: time.April}, views.requested)
	})

	t.Run("should reject a half given period", func(t *testing.T) {
		handler := NewHandler(&stubViews{}, fixedPeriod(february2024), clock, testLayout)
		rr := httptest.NewRecorder()

		handler.GetGrid(rr, httptest.NewRequest(http.MethodGet, "/api/grid?year=2025", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
