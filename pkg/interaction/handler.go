package interaction

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/klokku/gridplanner/internal/rest"
	"github.com/klokku/gridplanner/pkg/geometry"
	"github.com/klokku/gridplanner/pkg/schedule"
	log "github.com/sirupsen/logrus"
)

type EventDTO struct {
	Id         int64   `json:"id"`
	Resource   int     `json:"resource"`
	Day        int     `json:"day"`
	Start      float64 `json:"start"`
	Width      float64 `json:"width"`
	Color      string  `json:"color"`
	StartTime  float64 `json:"startTime"`
	EndTime    float64 `json:"endTime"`
	StartLabel string  `json:"startLabel"`
	EndLabel   string  `json:"endLabel"`
	Month      int     `json:"month"`
	Year       int     `json:"year"`
}

type PointerDownRequest struct {
	PointerX *float64      `json:"pointerX"`
	Cell     geometry.Rect `json:"cell"`
	Resource *int          `json:"resource"`
	Day      *int          `json:"day"`
}

type PointerRequest struct {
	PointerX *float64 `json:"pointerX"`
}

type ResizeRequest struct {
	Width     *float64 `json:"width"`
	Start     *float64 `json:"start"`
	StartTime *float64 `json:"startTime"`
	EndTime   *float64 `json:"endTime"`
}

type MoveRequest struct {
	Start    *float64 `json:"start"`
	Resource *int     `json:"resource"`
	Day      *int     `json:"day"`
}

type DropRequest struct {
	X          *float64 `json:"x"`
	Y          *float64 `json:"y"`
	CellWidth  float64  `json:"cellWidth"`
	CellHeight float64  `json:"cellHeight"`
}

type DeletionDTO struct {
	EventId int64 `json:"eventId"`
}

type Handler struct {
	controller *Controller
	periods    PeriodProvider
}

func NewHandler(controller *Controller, periods PeriodProvider) *Handler {
	return &Handler{controller: controller, periods: periods}
}

func (h *Handler) PointerDown(w http.ResponseWriter, r *http.Request) {
	var req PointerDownRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	if req.PointerX == nil || req.Resource == nil || req.Day == nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid pointer-down request", "pointerX, resource and day are required")
		return
	}

	provisional, err := h.controller.BeginCreate(r.Context(), *req.PointerX, req.Cell, *req.Resource, *req.Day)
	if err != nil {
		if errors.Is(err, ErrCellOutOfRange) {
			rest.WriteError(w, http.StatusBadRequest, "Invalid cell", err.Error())
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, EventToDTO(provisional))
}

func (h *Handler) PointerMove(w http.ResponseWriter, r *http.Request) {
	pointerX, ok := decodePointer(w, r)
	if !ok {
		return
	}
	provisional, open := h.controller.OnCreateMove(r.Context(), pointerX)
	if !open {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	rest.WriteJSON(w, http.StatusOK, EventToDTO(provisional))
}

func (h *Handler) PointerUp(w http.ResponseWriter, r *http.Request) {
	pointerX, ok := decodePointer(w, r)
	if !ok {
		return
	}
	committed := h.controller.EndCreate(r.Context(), pointerX)
	if committed == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, EventToDTO(*committed))
}

func (h *Handler) AbortInteraction(w http.ResponseWriter, r *http.Request) {
	h.controller.AbortCreate()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetInteraction(w http.ResponseWriter, r *http.Request) {
	provisional, ok := h.controller.Provisional()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	rest.WriteJSON(w, http.StatusOK, EventToDTO(provisional))
}

// GetEvents lists committed events of the period given by the year and month
// query parameters, or of the active period when both are absent.
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	period, ok := PeriodFromQuery(w, r, h.periods.Period())
	if !ok {
		return
	}
	view := h.controller.View(period)
	dtos := make([]EventDTO, 0, len(view.Events))
	for _, e := range view.Events {
		dtos = append(dtos, EventToDTO(e))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func (h *Handler) ResizeEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventIdFromPath(w, r)
	if !ok {
		return
	}
	var req ResizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	if req.Width == nil || req.Start == nil || req.StartTime == nil || req.EndTime == nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid resize request", "width, start, startTime and endTime are required")
		return
	}

	updated, found := h.controller.Resize(r.Context(), id, *req.Width, *req.Start, *req.StartTime, *req.EndTime)
	if !found {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	rest.WriteJSON(w, http.StatusOK, EventToDTO(updated))
}

func (h *Handler) MoveEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventIdFromPath(w, r)
	if !ok {
		return
	}
	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	if req.Start == nil || req.Resource == nil || req.Day == nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid move request", "start, resource and day are required")
		return
	}

	updated, moved := h.controller.Move(r.Context(), id, *req.Start, *req.Resource, *req.Day)
	if !moved {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	rest.WriteJSON(w, http.StatusOK, EventToDTO(updated))
}

func (h *Handler) DropEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventIdFromPath(w, r)
	if !ok {
		return
	}
	var req DropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	if req.X == nil || req.Y == nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid drop request", "x and y are required")
		return
	}

	updated, moved := h.controller.Drop(r.Context(), id, *req.X, *req.Y, req.CellWidth, req.CellHeight)
	if !moved {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	rest.WriteJSON(w, http.StatusOK, EventToDTO(updated))
}

func (h *Handler) RequestDeletion(w http.ResponseWriter, r *http.Request) {
	id, ok := eventIdFromPath(w, r)
	if !ok {
		return
	}
	if !h.controller.RequestDelete(id) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	rest.WriteJSON(w, http.StatusAccepted, DeletionDTO{EventId: id})
}

func (h *Handler) GetDeletion(w http.ResponseWriter, r *http.Request) {
	id, pending := h.controller.PendingDeletion()
	if !pending {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	rest.WriteJSON(w, http.StatusOK, DeletionDTO{EventId: id})
}

func (h *Handler) ConfirmDeletion(w http.ResponseWriter, r *http.Request) {
	removed := h.controller.ConfirmDelete(r.Context())
	log.Tracef("Deletion confirmed, removed: %v", removed)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CancelDeletion(w http.ResponseWriter, r *http.Request) {
	h.controller.CancelDelete()
	w.WriteHeader(http.StatusNoContent)
}

func decodePointer(w http.ResponseWriter, r *http.Request) (float64, bool) {
	var req PointerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return 0, false
	}
	if req.PointerX == nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid pointer request", "pointerX is required")
		return 0, false
	}
	return *req.PointerX, true
}

func eventIdFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idString := mux.Vars(r)["eventId"]
	id, err := strconv.ParseInt(idString, 10, 64)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid event id", "event id must be an integer")
		return 0, false
	}
	return id, true
}

// PeriodFromQuery reads the year and month query parameters. Both must be given
// together; when both are missing fallback is returned.
func PeriodFromQuery(w http.ResponseWriter, r *http.Request, fallback schedule.Period) (schedule.Period, bool) {
	yearString := r.URL.Query().Get("year")
	monthString := r.URL.Query().Get("month")
	if yearString == "" && monthString == "" {
		return fallback, true
	}
	year, yearErr := strconv.Atoi(yearString)
	month, monthErr := strconv.Atoi(monthString)
	if yearErr != nil || monthErr != nil || month < 1 || month > 12 {
		rest.WriteError(w, http.StatusBadRequest, "Invalid period", "'year' and 'month' (1-12) must be given together")
		return schedule.Period{}, false
	}
	return schedule.Period{Year: year, Month: time.Month(month)}, true
}

// EventToDTO converts an event into its response shape, with clock labels.
func EventToDTO(e schedule.Event) EventDTO {
	return EventDTO{
		Id:         e.Id,
		Resource:   e.Resource,
		Day:        e.Day,
		Start:      e.Start,
		Width:      e.Width,
		Color:      e.Color,
		StartTime:  e.StartTime,
		EndTime:    e.EndTime,
		StartLabel: geometry.FormatClock(e.StartTime),
		EndLabel:   geometry.FormatClock(e.EndTime),
		Month:      int(e.Month),
		Year:       e.Year,
	}
}
