package export

import (
	"fmt"
	"net/http"

	"github.com/klokku/gridplanner/internal/rest"
	"github.com/klokku/gridplanner/internal/utils"
	"github.com/klokku/gridplanner/pkg/interaction"
	"github.com/klokku/gridplanner/pkg/schedule"
	log "github.com/sirupsen/logrus"
)

type EventSource interface {
	InPeriod(period schedule.Period) []schedule.Event
}

type Handler struct {
	events    EventSource
	periods   interaction.PeriodProvider
	clock     utils.Clock
	resources int
}

func NewHandler(events EventSource, periods interaction.PeriodProvider, clock utils.Clock, resources int) *Handler {
	return &Handler{events: events, periods: periods, clock: clock, resources: resources}
}

func (h *Handler) ExportICS(w http.ResponseWriter, r *http.Request) {
	period, ok := interaction.PeriodFromQuery(w, r, h.periods.Period())
	if !ok {
		return
	}
	events := h.events.InPeriod(period)
	log.Debugf("Exporting %d events of %d-%02d", len(events), period.Year, period.Month)

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="gridplanner-%d-%02d.ics"`, period.Year, period.Month))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(Render(period, events, h.clock.Now()))); err != nil {
		log.Errorf("failed to write calendar export: %v", err)
	}
}

// ExportCSV downloads booked hours per resource and day.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	period, ok := interaction.PeriodFromQuery(w, r, h.periods.Period())
	if !ok {
		return
	}

	content, err := RenderCSV(period, h.events.InPeriod(period), h.resources)
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Failed to render CSV", err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="gridplanner-%d-%02d.csv"`, period.Year, period.Month))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(content)); err != nil {
		log.Errorf("failed to write csv export: %v", err)
	}
}
