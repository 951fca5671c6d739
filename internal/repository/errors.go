// Package repository defines error types that are reused across multiple
// repositories and by the reservation service. These sentinel values allow
// higher layers such as handlers to distinguish between different failure
// scenarios: domain outcomes (no capacity left, a booking cancelled twice)
// are expected results of an operation, not exceptional faults, and are
// mapped to 4xx responses; any other storage error rolls the enclosing
// transaction back and surfaces as a generic 500.
package repository

import "errors"

// ErrNoCapacity is returned when a resource has zero available slots or
// the computed remaining capacity for the requested time window is
// non-positive. Handlers should translate this into an HTTP 400 response.
var ErrNoCapacity = errors.New("no available slots")

// ErrAlreadyCancelled is returned when cancellation is requested for a
// booking that is already cancelled. The availability counter must not
// move again. Handlers should translate this into an HTTP 400 response.
var ErrAlreadyCancelled = errors.New("booking already cancelled")

// ErrForbidden is returned when the caller attempts an operation on a
// record they do not own. Handlers should translate this into an HTTP
// 403 response.
var ErrForbidden = errors.New("forbidden")
