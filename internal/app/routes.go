package app

import (
	"github.com/gorilla/mux"
	"github.com/meowafisha/meowafisha/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Events
	r.HandleFunc("/api/events", deps.CatalogHandler.GetEvents).Methods("GET")
	r.HandleFunc("/api/events/upcoming", deps.CatalogHandler.GetUpcoming).Methods("GET")
	r.HandleFunc("/api/events/archive", deps.CatalogHandler.GetArchive).Methods("GET")
	r.HandleFunc("/api/events/search", deps.CatalogHandler.SearchEvents).Methods("GET")
	r.HandleFunc("/api/events/reload", deps.CatalogHandler.Reload).Methods("POST")
	r.HandleFunc("/api/events/{eventId}", deps.CatalogHandler.GetEvent).Methods("GET")

	// Calendar export
	r.HandleFunc("/api/calendar.ics", deps.CatalogHandler.ExportICS).Methods("GET")
}
