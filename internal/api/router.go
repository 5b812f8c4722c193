// Package api provides HTTP routing and handlers for the REST API.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/camping-heater-rental/backend/internal/api/handlers"
	"github.com/camping-heater-rental/backend/internal/api/middleware"
	"github.com/camping-heater-rental/backend/internal/notify"
	"github.com/camping-heater-rental/backend/internal/reservation"
	"github.com/camping-heater-rental/backend/internal/storage"
	"github.com/camping-heater-rental/backend/internal/websocket"
)

// NewRouter creates and configures the HTTP router with all API routes.
func NewRouter(
	store storage.Store,
	service *reservation.Service,
	notifier notify.Notifier,
	hub *websocket.Hub,
	staticDir string,
) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.Logging)
	r.Use(middleware.ErrorRecovery)

	api := r.PathPrefix("/api").Subrouter()

	// Health and status endpoints
	api.HandleFunc("/health", handlers.HealthCheck(store)).Methods("GET")
	api.HandleFunc("/status", handlers.Status(service, hub)).Methods("GET")

	// WebSocket endpoint
	api.HandleFunc("/ws", handlers.WebSocketUpgrade(hub)).Methods("GET")

	// Rental application endpoints
	api.HandleFunc("/rental-applications", handlers.CreateApplication(service, notifier, hub)).Methods("POST")
	api.HandleFunc("/rental-applications", handlers.ListApplications(service)).Methods("GET")
	api.HandleFunc("/rental-applications/{id}", handlers.GetApplication(service)).Methods("GET")

	// Calendar endpoints
	api.HandleFunc("/reserved-dates", handlers.ListReservedDates(service)).Methods("GET")
	api.HandleFunc("/rental-periods", handlers.ListRentalPeriods()).Methods("GET")

	// Serve static frontend files
	if staticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(staticDir)))
	}

	return r
}
