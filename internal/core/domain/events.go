package domain

import "github.com/google/uuid"

// EventType defines the type of real-time event.
type EventType string

const (
	EventTicketCreated EventType = "ticket-created"
	EventTicketUpdated EventType = "ticket-updated"
)

// Event is the payload pushed to connected dashboards and display panels.
// Events are lightweight change notifications; subscribers re-fetch full
// state after a reconnect rather than relying on replay.
type Event struct {
	Type     EventType `json:"type"`
	TicketID uuid.UUID `json:"ticketId"`
}

// CallAnnouncement is the payload relayed to the public display panel
// when a customer is called.
type CallAnnouncement struct {
	Name         string `json:"name"`
	Sector       string `json:"sector"`
	ServicePoint string `json:"service_point,omitempty"`
}
