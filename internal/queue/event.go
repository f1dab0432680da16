// Package queue defines message payloads exchanged over the message broker
// and the consumer that records them.
package queue

// BookingQueue is the durable queue carrying BookingChangedEvent messages.
const BookingQueue = "space.booking"

// Booking actions.
const (
	ActionBooked   = "booked"
	ActionReleased = "released"
	ActionUpdated  = "updated"
)

// BookingChangedEvent is published after a study space edit that touched
// its booking state.  It carries what the editor sent, not the stored row.
type BookingChangedEvent struct {
	SpaceID     int64   `json:"space_id"`
	Action      string  `json:"action"`
	IsAvailable *bool   `json:"is_available,omitempty"`
	BookedBy    *string `json:"booked_by,omitempty"`
	BookingTime *string `json:"booking_time,omitempty"`
	ChangedBy   string  `json:"changed_by"`
	Role        string  `json:"role"`
	ChangedAt   string  `json:"changed_at"`
}
