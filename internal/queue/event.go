// Package queue defines message payloads exchanged over the message broker.
package queue

// Event types carried in BookingEvent.Type.
const (
    EventBookingCreated   = "booking.created"
    EventBookingCancelled = "booking.cancelled"
)

// BookingEvent is published after a reservation transaction commits.  It
// contains enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.
type BookingEvent struct {
    Type           string `json:"type"`
    BookingID      uint64 `json:"booking_id"`
    UserID         uint64 `json:"user_id"`
    ResourceID     uint64 `json:"resource_id"`
    ResourceName   string `json:"resource_name"`
    Category       string `json:"category"`
    StartTime      string `json:"start_time"`
    EndTime        string `json:"end_time"`
    AvailableSlots int    `json:"available_slots"`
    Status         string `json:"status"`
    OccurredAt     string `json:"occurred_at"`
}
