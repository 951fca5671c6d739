package model

import (
    "errors"
    "strings"
    "time"
)

// Resource statuses are stored lower-case and derived exclusively from the
// (capacity, available_slots) pair.  Handlers must never set a status
// directly except through DeriveStatus after a booking mutation.
const (
    StatusAvailable       = "available"
    StatusPartiallyBooked = "partially_booked"
    StatusBooked          = "booked"
)

// Categories a resource may belong to.  Stored display-capitalized
// (e.g. "Room"); incoming values are normalized with NormalizeCategory.
const (
    CategoryRoom      = "Room"
    CategoryEquipment = "Equipment"
    CategoryFacility  = "Facility"
)

// Validation errors returned by CheckResource and NormalizeCategory.  They
// map to HTTP 400 at the handler boundary.
var (
    ErrEmptyName       = errors.New("name cannot be empty")
    ErrInvalidCategory = errors.New("category must be one of: Room, Equipment, Facility")
    ErrInvalidCapacity = errors.New("capacity must be at least 1")
    ErrInvalidSlots    = errors.New("available slots must be between 0 and capacity")
)

// Resource is a finite-capacity bookable entity (room, equipment or
// facility).  AvailableSlots is a running counter in [0, capacity]: it is
// decremented by one on every booking creation and incremented by one on
// every cancellation, independent of whether the booked time windows
// overlap.  Duration records the span in whole hours of the most recently
// created booking; it is informational only.
type Resource struct {
    ID             uint64    `json:"id"`
    Name           string    `json:"name"`
    Description    *string   `json:"description,omitempty"`
    ImageURL       *string   `json:"image_url,omitempty"`
    Category       string    `json:"category"`
    Capacity       int       `json:"capacity"`
    AvailableSlots int       `json:"available_slots"`
    Status         string    `json:"status"`
    Duration       *int      `json:"duration,omitempty"`
    CreatedAt      time.Time `json:"created_at"`
    UpdatedAt      time.Time `json:"updated_at"`
}

// DeriveStatus maps a (capacity, availableSlots) pair to a status label.
// It is the only way a resource status may be computed; callers apply it
// after every create or cancel mutation.  It is never computed from
// booking counts directly.
func DeriveStatus(capacity, availableSlots int) string {
    switch {
    case availableSlots <= 0:
        return StatusBooked
    case availableSlots < capacity:
        return StatusPartiallyBooked
    default:
        return StatusAvailable
    }
}

// NormalizeCategory folds arbitrary case ("room", "ROOM") into the stored
// display form and rejects values outside the enumerated set.
func NormalizeCategory(raw string) (string, error) {
    s := strings.TrimSpace(raw)
    if s == "" {
        return "", ErrInvalidCategory
    }
    s = strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
    switch s {
    case CategoryRoom, CategoryEquipment, CategoryFacility:
        return s, nil
    }
    return "", ErrInvalidCategory
}

// DisplayStatus capitalizes the first letter of a stored status for
// presentation ("available" -> "Available").  Purely a read-side
// formatting concern; the stored value stays lower-case.
func DisplayStatus(status string) string {
    if status == "" {
        return ""
    }
    return strings.ToUpper(status[:1]) + status[1:]
}

// CheckResource validates the field constraints a resource must satisfy
// before it may be persisted or handed to the reservation service:
// non-empty name, known category, capacity >= 1 and an availability
// counter inside [0, capacity].  These checks run before any transaction
// so that invalid input never reaches the coordinator.
func CheckResource(r *Resource) error {
    if strings.TrimSpace(r.Name) == "" {
        return ErrEmptyName
    }
    cat, err := NormalizeCategory(r.Category)
    if err != nil {
        return err
    }
    r.Category = cat
    if r.Capacity < 1 {
        return ErrInvalidCapacity
    }
    if r.AvailableSlots < 0 || r.AvailableSlots > r.Capacity {
        return ErrInvalidSlots
    }
    return nil
}
