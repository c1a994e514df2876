package grid

import (
	"net/http"

	"github.com/klokku/gridplanner/internal/rest"
	"github.com/klokku/gridplanner/internal/utils"
	"github.com/klokku/gridplanner/pkg/interaction"
	"github.com/klokku/gridplanner/pkg/schedule"
	log "github.com/sirupsen/logrus"
)

type ViewSource interface {
	View(period schedule.Period) interaction.View
}

type Handler struct {
	views   ViewSource
	periods interaction.PeriodProvider
	clock   utils.Clock
	layout  Layout
}

func NewHandler(views ViewSource, periods interaction.PeriodProvider, clock utils.Clock, layout Layout) *Handler {
	return &Handler{views: views, periods: periods, clock: clock, layout: layout}
}

// GetGrid renders the active period, or the one given by ?year=&month=.
func (h *Handler) GetGrid(w http.ResponseWriter, r *http.Request) {
	period, ok := interaction.PeriodFromQuery(w, r, h.periods.Period())
	if !ok {
		return
	}
	log.Tracef("Rendering grid for %d-%02d", period.Year, period.Month)

	g := Build(period, h.views.View(period), utils.Today(h.clock), h.layout)
	rest.WriteJSON(w, http.StatusOK, g)
}
