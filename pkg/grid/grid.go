package grid

import (
	"time"

	"github.com/klokku/gridplanner/pkg/interaction"
	"github.com/klokku/gridplanner/pkg/schedule"
)

// Layout is the pixel geometry the presentation layer draws the grid with.
type Layout struct {
	Resources    int     `json:"resources"`
	HourWidthPx  float64 `json:"hourWidthPx"`
	CellWidthPx  float64 `json:"cellWidthPx"`
	CellHeightPx float64 `json:"cellHeightPx"`
}

type Column struct {
	Date    string `json:"date"`
	Day     int    `json:"day"`
	Label   string `json:"label"`
	IsToday bool   `json:"isToday"`
}

type Cell struct {
	Day    int                    `json:"day"`
	Events []interaction.EventDTO `json:"events"`
}

type Row struct {
	Resource int    `json:"resource"`
	Name     string `json:"name"`
	Cells    []Cell `json:"cells"`
}

// Grid is everything needed to draw one month: day headers, one row per
// resource and the events placed in their cells.
type Grid struct {
	Year            int                   `json:"year"`
	Month           int                   `json:"month"`
	Layout          Layout                `json:"layout"`
	Columns         []Column              `json:"columns"`
	Rows            []Row                 `json:"rows"`
	Provisional     *interaction.EventDTO `json:"provisional,omitempty"`
	PendingDeletion *int64                `json:"pendingDeletion,omitempty"`
}

func Build(period schedule.Period, view interaction.View, today time.Time, layout Layout) Grid {
	days := period.DaysInMonth()
	g := Grid{
		Year:            period.Year,
		Month:           int(period.Month),
		Layout:          layout,
		Columns:         make([]Column, 0, days),
		Rows:            make([]Row, 0, layout.Resources),
		PendingDeletion: view.PendingDeletion,
	}

	todayKey := today.Format(time.DateOnly)
	for day := 0; day < days; day++ {
		date := period.Date(day)
		g.Columns = append(g.Columns, Column{
			Date:    date.Format(time.DateOnly),
			Day:     day,
			Label:   date.Format("2 Mon"),
			IsToday: date.Format(time.DateOnly) == todayKey,
		})
	}

	for resource := 0; resource < layout.Resources; resource++ {
		row := Row{Resource: resource, Name: ResourceName(resource), Cells: make([]Cell, days)}
		for day := range row.Cells {
			row.Cells[day] = Cell{Day: day, Events: []interaction.EventDTO{}}
		}
		g.Rows = append(g.Rows, row)
	}

	for _, e := range view.Events {
		if !period.Contains(e) {
			continue
		}
		if cell := g.cell(e.Resource, e.Day); cell != nil {
			cell.Events = append(cell.Events, interaction.EventToDTO(e))
		}
	}

	if view.Provisional != nil && period.Contains(*view.Provisional) {
		dto := interaction.EventToDTO(*view.Provisional)
		g.Provisional = &dto
		if cell := g.cell(dto.Resource, dto.Day); cell != nil {
			cell.Events = append(cell.Events, dto)
		}
	}
	return g
}

func (g *Grid) cell(resource, day int) *Cell {
	if resource < 0 || resource >= len(g.Rows) {
		return nil
	}
	cells := g.Rows[resource].Cells
	if day < 0 || day >= len(cells) {
		return nil
	}
	return &cells[day]
}

// ResourceName labels rows "Resource A" to "Resource Z", then "Resource AA" onwards.
func ResourceName(index int) string {
	var letters []byte
	for n := index; n >= 0; n = n/26 - 1 {
		letters = append([]byte{byte('A' + n%26)}, letters...)
	}
	return "Resource " + string(letters)
}
