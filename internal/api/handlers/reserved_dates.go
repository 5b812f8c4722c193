package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/camping-heater-rental/backend/internal/api/middleware"
	"github.com/camping-heater-rental/backend/internal/reservation"
	"github.com/camping-heater-rental/backend/internal/storage/models"
)

// ReservedDatesResponse lists the taken calendar days for UI rendering.
type ReservedDatesResponse struct {
	ReservedDates []string `json:"reservedDates"`
}

// ListReservedDates returns every reserved date in ascending order.
// Optional from/to query parameters (YYYY-MM-DD) bound the range; when
// from is absent it defaults to today, matching the calendar view.
func ListReservedDates(service *reservation.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from := models.Today()
		var to models.Date

		if raw := r.URL.Query().Get("from"); raw != "" {
			parsed, err := models.ParseDate(raw)
			if err != nil {
				middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid from date")
				return
			}
			from = parsed
		}
		if raw := r.URL.Query().Get("to"); raw != "" {
			parsed, err := models.ParseDate(raw)
			if err != nil {
				middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid to date")
				return
			}
			to = parsed
		}

		reserved, err := service.ReservedDates(r.Context(), from, to)
		if err != nil {
			log.Printf("Error listing reserved dates: %v", err)
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError,
				"Failed to query reserved dates")
			return
		}

		dates := make([]string, len(reserved))
		for i, d := range reserved {
			dates[i] = d.Date.String()
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ReservedDatesResponse{ReservedDates: dates})
	}
}
