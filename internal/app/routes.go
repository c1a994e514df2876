package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Creation drag
	r.HandleFunc("/api/interaction/pointerdown", deps.InteractionHandler.PointerDown).Methods("POST")
	r.HandleFunc("/api/interaction/pointermove", deps.InteractionHandler.PointerMove).Methods("POST")
	r.HandleFunc("/api/interaction/pointerup", deps.InteractionHandler.PointerUp).Methods("POST")
	r.HandleFunc("/api/interaction", deps.InteractionHandler.AbortInteraction).Methods("DELETE")
	r.HandleFunc("/api/interaction", deps.InteractionHandler.GetInteraction).Methods("GET")

	// Events
	r.HandleFunc("/api/event", deps.InteractionHandler.GetEvents).Methods("GET")
	r.HandleFunc("/api/event/{eventId}/size", deps.InteractionHandler.ResizeEvent).Methods("PUT")
	r.HandleFunc("/api/event/{eventId}/position", deps.InteractionHandler.MoveEvent).Methods("PUT")
	r.HandleFunc("/api/event/{eventId}/drop", deps.InteractionHandler.DropEvent).Methods("PUT")

	// Deletion confirmation
	r.HandleFunc("/api/event/{eventId}/deletion", deps.InteractionHandler.RequestDeletion).Methods("POST")
	r.HandleFunc("/api/deletion", deps.InteractionHandler.GetDeletion).Methods("GET")
	r.HandleFunc("/api/deletion/confirm", deps.InteractionHandler.ConfirmDeletion).Methods("POST")
	r.HandleFunc("/api/deletion", deps.InteractionHandler.CancelDeletion).Methods("DELETE")

	// Period
	r.HandleFunc("/api/period", deps.PeriodHandler.GetPeriod).Methods("GET")
	r.HandleFunc("/api/period", deps.PeriodHandler.SelectDate).Methods("PUT")
	r.HandleFunc("/api/period/next", deps.PeriodHandler.NextMonth).Methods("POST")
	r.HandleFunc("/api/period/prev", deps.PeriodHandler.PrevMonth).Methods("POST")
	r.HandleFunc("/api/period/today", deps.PeriodHandler.Today).Methods("POST")

	// Presentation
	r.HandleFunc("/api/grid", deps.GridHandler.GetGrid).Methods("GET")
	r.HandleFunc("/api/export/ics", deps.ExportHandler.ExportICS).Methods("GET")
	r.HandleFunc("/api/export/csv", deps.ExportHandler.ExportCSV).Methods("GET")
}
