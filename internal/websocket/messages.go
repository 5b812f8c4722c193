package websocket

import (
	"encoding/json"
	"time"
)

// MessageType identifies the type of WebSocket message.
type MessageType string

const (
	// Server -> Client event types
	TypeApplicationCreated MessageType = "application.created"
	TypeDatesReserved      MessageType = "dates.reserved"
	TypeRentalStarting     MessageType = "rental.starting"

	// Client -> Server command types
	TypePing MessageType = "ping"

	// Server -> Client response types
	TypePong MessageType = "pong"
)

// Message is the WebSocket message envelope.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   any         `json:"payload,omitempty"`
}

// NewMessage creates a message stamped with the current time.
func NewMessage(msgType MessageType, payload any) Message {
	return Message{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// JSON serializes the message to JSON bytes.
func (m Message) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// ApplicationCreatedPayload is the payload for application.created events.
type ApplicationCreatedPayload struct {
	ApplicationID string `json:"application_id"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
}

// DatesReservedPayload is the payload for dates.reserved events. It
// carries the newly blocked days so calendar views can update without
// refetching.
type DatesReservedPayload struct {
	Dates []string `json:"dates"`
}

// RentalStartingPayload is the payload for rental.starting events.
type RentalStartingPayload struct {
	ApplicationID string `json:"application_id"`
	Name          string `json:"name"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
}
