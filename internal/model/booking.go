package model

import (
    "errors"
    "time"
)

// Booking statuses.  The transition is monotonic: once cancelled a booking
// is never re-activated, and rows are never physically deleted by the
// reservation service.
const (
    BookingActive    = "active"
    BookingCancelled = "cancelled"
)

// Validation errors for booking input.  They are raised before any
// transaction is opened.
var (
    ErrMissingFields = errors.New("user_id, resource_id, start_time and end_time are required")
    ErrInvalidWindow = errors.New("end_time must be after start_time")
)

// Booking reserves exactly one capacity unit of a resource for a bounded
// time window on behalf of a user.  Bookings are created and cancelled
// only through the reservation service so that the owning resource's
// availability counter and status move in the same transaction.
type Booking struct {
    ID         uint64    `json:"id"`
    UserID     uint64    `json:"user_id"`
    ResourceID uint64    `json:"resource_id"`
    StartTime  time.Time `json:"start_time"`
    EndTime    time.Time `json:"end_time"`
    Status     string    `json:"status"`
    CreatedAt  time.Time `json:"created_at"`
    UpdatedAt  time.Time `json:"updated_at"`
}

// CheckBookingInput validates the create-booking request fields.  Absence
// of any field is a validation failure, not a conflict; the window must
// have positive length.
func CheckBookingInput(userID, resourceID uint64, start, end time.Time) error {
    if userID == 0 || resourceID == 0 || start.IsZero() || end.IsZero() {
        return ErrMissingFields
    }
    if !end.After(start) {
        return ErrInvalidWindow
    }
    return nil
}
