package period

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/klokku/gridplanner/internal/rest"
	"github.com/klokku/gridplanner/pkg/schedule"
)

type SelectionDTO struct {
	Date        string `json:"date"`
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	DaysInMonth int    `json:"daysInMonth"`
	Label       string `json:"label"`
}

type Handler struct {
	navigator *Navigator
}

func NewHandler(navigator *Navigator) *Handler {
	return &Handler{navigator: navigator}
}

func (h *Handler) GetPeriod(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, selectionToDTO(h.navigator.Selected()))
}

func (h *Handler) SelectDate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date format", "'date' must be in YYYY-MM-DD format")
		return
	}
	rest.WriteJSON(w, http.StatusOK, selectionToDTO(h.navigator.Select(r.Context(), date)))
}

func (h *Handler) NextMonth(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, selectionToDTO(h.navigator.Next(r.Context())))
}

func (h *Handler) PrevMonth(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, selectionToDTO(h.navigator.Prev(r.Context())))
}

func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, selectionToDTO(h.navigator.Today(r.Context())))
}

func selectionToDTO(selected time.Time) SelectionDTO {
	return SelectionDTO{
		Date:        selected.Format(time.DateOnly),
		Year:        selected.Year(),
		Month:       int(selected.Month()),
		DaysInMonth: schedule.PeriodOf(selected).DaysInMonth(),
		Label:       selected.Format("January 2006"),
	}
}
