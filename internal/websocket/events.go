package websocket

import (
	"log"

	"github.com/camping-heater-rental/backend/internal/storage/models"
)

// EventBroadcaster turns domain events into WebSocket broadcasts.
type EventBroadcaster struct {
	hub *Hub
}

// NewEventBroadcaster creates a broadcaster for the given hub.
func NewEventBroadcaster(hub *Hub) *EventBroadcaster {
	return &EventBroadcaster{hub: hub}
}

// BroadcastApplicationCreated announces a newly accepted application
// and the dates it blocked.
func (b *EventBroadcaster) BroadcastApplicationCreated(app *models.RentalApplication) {
	b.broadcast(NewMessage(TypeApplicationCreated, ApplicationCreatedPayload{
		ApplicationID: app.ID,
		StartDate:     app.StartDate.String(),
		EndDate:       app.EndDate.String(),
	}))

	days := app.RentalDays()
	dates := make([]string, len(days))
	for i, d := range days {
		dates[i] = d.String()
	}
	b.broadcast(NewMessage(TypeDatesReserved, DatesReservedPayload{Dates: dates}))
}

// BroadcastRentalStarting announces a rental that begins today.
func (b *EventBroadcaster) BroadcastRentalStarting(app *models.RentalApplication) {
	b.broadcast(NewMessage(TypeRentalStarting, RentalStartingPayload{
		ApplicationID: app.ID,
		Name:          app.Name,
		StartDate:     app.StartDate.String(),
		EndDate:       app.EndDate.String(),
	}))
}

func (b *EventBroadcaster) broadcast(msg Message) {
	data, err := msg.JSON()
	if err != nil {
		log.Printf("Failed to serialize %s event: %v", msg.Type, err)
		return
	}
	b.hub.Broadcast(data)
}
