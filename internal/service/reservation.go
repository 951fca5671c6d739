// Package service contains the reservation coordinator: the transactional
// core that creates and cancels bookings atomically with respect to the
// owning resource's availability counter and derived status.
package service

import (
    "context"
    "database/sql"
    "time"

    "github.com/iliyamo/resource-booking/internal/model"
    "github.com/iliyamo/resource-booking/internal/repository"
)

// ReservationService orchestrates booking creation and cancellation.  Each
// operation runs inside a single transaction: a locking read of the
// resource row serializes concurrent operations on the same resource, so
// the read-check-write sequence over available_slots cannot lose updates.
// Domain failures (NotFound, NoCapacity, AlreadyCancelled) surface as the
// repository sentinels and roll the transaction back; no partial state
// (booking without resource update, or vice versa) is ever observable.
type ReservationService struct {
    db        *sql.DB
    resources *repository.ResourceRepo
    bookings  *repository.BookingRepo
}

// NewReservationService constructs a ReservationService.  All dependencies
// must be non-nil.
func NewReservationService(db *sql.DB, resources *repository.ResourceRepo, bookings *repository.BookingRepo) *ReservationService {
    if db == nil || resources == nil || bookings == nil {
        panic("nil dependency passed to NewReservationService")
    }
    return &ReservationService{db: db, resources: resources, bookings: bookings}
}

// ceilHours returns the booking window span rounded up to whole hours.
// The window is validated as strictly positive beforehand, so the result
// is always >= 1.
func ceilHours(start, end time.Time) int {
    d := end.Sub(start)
    h := int(d / time.Hour)
    if d%time.Hour != 0 {
        h++
    }
    return h
}

// CreateBooking books one capacity unit of a resource for the given time
// window.  Input is validated before any transaction starts.  Inside the
// transaction it loads the resource with a locking read, rejects when the
// availability counter is exhausted, counts conflicting active bookings
// for the window and rejects when capacity minus conflicts is non-positive,
// inserts the active booking, decrements available_slots by one, stores the
// window span as the resource's duration and rederives the status.
//
// The conflict check is advisory: available_slots moves by one per booking
// globally, regardless of time windows, so two non-overlapping bookings on
// a multi-capacity resource still consume two slots.  Intentional; see the
// conflict counter in the booking repository.
func (s *ReservationService) CreateBooking(ctx context.Context, userID, resourceID uint64, start, end time.Time) (*model.Booking, error) {
    if err := model.CheckBookingInput(userID, resourceID, start, end); err != nil {
        return nil, err
    }

    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    res, err := s.resources.GetForUpdateTx(ctx, tx, resourceID)
    if err != nil {
        return nil, err
    }
    if res.AvailableSlots <= 0 {
        return nil, repository.ErrNoCapacity
    }

    conflicts, err := s.bookings.CountConflictsTx(ctx, tx, resourceID, start, end)
    if err != nil {
        return nil, err
    }
    if remaining := res.Capacity - conflicts; remaining <= 0 {
        return nil, repository.ErrNoCapacity
    }

    booking := &model.Booking{
        UserID:     userID,
        ResourceID: resourceID,
        StartTime:  start.UTC(),
        EndTime:    end.UTC(),
        Status:     model.BookingActive,
    }
    if err := s.bookings.CreateTx(ctx, tx, booking); err != nil {
        return nil, err
    }

    slots := res.AvailableSlots - 1
    duration := ceilHours(start, end)
    status := model.DeriveStatus(res.Capacity, slots)
    if err := s.resources.SetAvailabilityTx(ctx, tx, res.ID, slots, status, &duration); err != nil {
        return nil, err
    }

    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true
    return booking, nil
}

// CancelBooking marks a booking cancelled and returns one capacity unit to
// the owning resource.  The booking row is kept; cancellation is the sole
// reverse transition for available_slots.  A second cancellation of the
// same booking fails with ErrAlreadyCancelled and moves nothing.
func (s *ReservationService) CancelBooking(ctx context.Context, bookingID uint64) (*model.Booking, error) {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    booking, err := s.bookings.GetForUpdateTx(ctx, tx, bookingID)
    if err != nil {
        return nil, err
    }
    if booking.Status == model.BookingCancelled {
        return nil, repository.ErrAlreadyCancelled
    }
    if err := s.bookings.CancelTx(ctx, tx, booking.ID); err != nil {
        return nil, err
    }

    res, err := s.resources.GetForUpdateTx(ctx, tx, booking.ResourceID)
    if err != nil {
        return nil, err
    }
    slots := res.AvailableSlots + 1
    if slots > res.Capacity {
        // counter already at capacity means a prior inconsistency; clamp
        // rather than violate the [0, capacity] invariant
        slots = res.Capacity
    }
    status := model.DeriveStatus(res.Capacity, slots)
    if err := s.resources.SetAvailabilityTx(ctx, tx, res.ID, slots, status, nil); err != nil {
        return nil, err
    }

    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true
    booking.Status = model.BookingCancelled
    return booking, nil
}
