// Package handlers provides HTTP request handlers for the API endpoints.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/camping-heater-rental/backend/internal/reservation"
	"github.com/camping-heater-rental/backend/internal/storage"
	"github.com/camping-heater-rental/backend/internal/storage/models"
	"github.com/camping-heater-rental/backend/internal/websocket"
)

// HealthResponse is the health check response.
type HealthResponse struct {
	Status      string `json:"status"`
	DBConnected bool   `json:"db_connected"`
}

// HealthCheck reports whether the storage backend is reachable.
func HealthCheck(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbConnected := store.Ping(r.Context()) == nil

		status := "healthy"
		if !dbConnected {
			status = "degraded"
		}

		w.Header().Set("Content-Type", "application/json")
		if status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(HealthResponse{
			Status:      status,
			DBConnected: dbConnected,
		})
	}
}

// StatusResponse summarizes the reservation system state.
type StatusResponse struct {
	Applications     int `json:"applications"`
	ReservedDates    int `json:"reserved_dates"`
	UpcomingRentals  int `json:"upcoming_rentals"`
	ConnectedClients int `json:"connected_clients"`
}

// Status reports application and reservation counts plus the number of
// connected WebSocket clients.
func Status(service *reservation.Service, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		today := models.Today()

		resp := StatusResponse{}
		if hub != nil {
			resp.ConnectedClients = hub.ClientCount()
		}

		if apps, err := service.Applications(ctx); err == nil {
			resp.Applications = len(apps)
			for _, app := range apps {
				if !app.EndDate.Before(today) {
					resp.UpcomingRentals++
				}
			}
		}

		if reserved, err := service.ReservedDates(ctx, models.Date{}, models.Date{}); err == nil {
			resp.ReservedDates = len(reserved)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}
