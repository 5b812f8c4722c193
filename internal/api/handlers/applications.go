package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/camping-heater-rental/backend/internal/api/middleware"
	"github.com/camping-heater-rental/backend/internal/notify"
	"github.com/camping-heater-rental/backend/internal/reservation"
	"github.com/camping-heater-rental/backend/internal/storage"
	"github.com/camping-heater-rental/backend/internal/storage/models"
	"github.com/camping-heater-rental/backend/internal/websocket"
)

// CreateApplication accepts a rental application submission. On
// success the record is returned with 201; a range conflict yields 409
// and invalid input yields 400 with per-field details. Email and
// WebSocket notifications fire after the commit and never change the
// response.
func CreateApplication(service *reservation.Service, notifier notify.Notifier, hub *websocket.Hub) http.HandlerFunc {
	var broadcaster *websocket.EventBroadcaster
	if hub != nil {
		broadcaster = websocket.NewEventBroadcaster(hub)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var input reservation.SubmitApplicationInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		app, err := service.SubmitApplication(r.Context(), input)
		if err != nil {
			var verr *reservation.ValidationError
			switch {
			case errors.As(err, &verr):
				middleware.WriteErrorWithDetails(w, http.StatusBadRequest, middleware.ErrValidation,
					"Invalid request data", verr.Issues)
			case errors.Is(err, storage.ErrDateConflict):
				middleware.WriteError(w, http.StatusConflict, middleware.ErrConflict,
					"선택하신 날짜는 이미 예약되어 있습니다. 다른 날짜를 선택해 주세요.")
			default:
				log.Printf("Error creating rental application: %v", err)
				middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError,
					"Failed to create rental application")
			}
			return
		}

		// Notification plumbing is outside the reservation contract.
		if notifier != nil {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				if err := notifier.ApplicationReceived(ctx, app); err != nil {
					log.Printf("Failed to send application notification: %v", err)
				}
			}()
		}
		if broadcaster != nil {
			broadcaster.BroadcastApplicationCreated(app)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(app)
	}
}

// ListApplications returns every rental application.
func ListApplications(service *reservation.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apps, err := service.Applications(r.Context())
		if err != nil {
			log.Printf("Error listing rental applications: %v", err)
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError,
				"Failed to query rental applications")
			return
		}

		if apps == nil {
			apps = []models.RentalApplication{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(apps)
	}
}

// GetApplication returns one rental application by id.
func GetApplication(service *reservation.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		app, err := service.Application(r.Context(), id)
		if err != nil {
			log.Printf("Error fetching rental application %s: %v", id, err)
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError,
				"Failed to query rental application")
			return
		}
		if app == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Application not found")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(app)
	}
}

// ListRentalPeriods returns the catalog of rental duration options.
func ListRentalPeriods() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.RentalPeriods)
	}
}
