package handler

import (
    "context"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/resource-booking/internal/model"
    "github.com/iliyamo/resource-booking/internal/queue"
    "github.com/iliyamo/resource-booking/internal/repository"
    "github.com/iliyamo/resource-booking/internal/service"
)

// BookingHandler exposes reservation operations.  Creation and cancellation
// go through the reservation service so the resource availability counter
// and the booking row always move together; the read endpoints hit the
// repository directly.
type BookingHandler struct {
    Reservations *service.ReservationService
    Bookings     *repository.BookingRepo
    Resources    *repository.ResourceRepo
}

func NewBookingHandler(svc *service.ReservationService, b *repository.BookingRepo, r *repository.ResourceRepo) *BookingHandler {
    return &BookingHandler{Reservations: svc, Bookings: b, Resources: r}
}

type bookingCreateReq struct {
    ResourceID uint64 `json:"resource_id"`
    StartTime  string `json:"start_time"`
    EndTime    string `json:"end_time"`
}

// parseWindow accepts RFC3339 or the bare "2006-01-02 15:04:05" form.
func parseWindow(raw string) (time.Time, bool) {
    raw = strings.TrimSpace(raw)
    if raw == "" {
        return time.Time{}, false
    }
    if t, err := time.Parse(time.RFC3339, raw); err == nil {
        return t, true
    }
    if t, err := time.Parse("2006-01-02 15:04:05", raw); err == nil {
        return t.UTC(), true
    }
    return time.Time{}, false
}

// Create books one capacity unit of a resource.  On success a
// booking.created event is published best-effort; a publish failure never
// affects the committed booking.
func (h *BookingHandler) Create(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req bookingCreateReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    start, okS := parseWindow(req.StartTime)
    end, okE := parseWindow(req.EndTime)
    if req.ResourceID == 0 || !okS || !okE {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "resource_id, start_time and end_time are required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    booking, err := h.Reservations.CreateBooking(ctx, uid, req.ResourceID, start, end)
    if err != nil {
        return h.mapError(c, err)
    }

    h.publishEvent(c, queue.EventBookingCreated, booking)
    return c.JSON(http.StatusCreated, echo.Map{"booking": booking})
}

// Cancel marks a booking cancelled and returns its capacity unit to the
// resource.  Users may cancel their own bookings; admins may cancel any.
func (h *BookingHandler) Cancel(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := pathID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    // Ownership check before the transactional cancel
    existing, err := h.Bookings.GetByID(ctx, id)
    if err != nil {
        return h.mapError(c, err)
    }
    role, _ := c.Get("role").(string)
    if existing.UserID != uid && role != model.RoleAdmin {
        return h.mapError(c, repository.ErrForbidden)
    }

    booking, err := h.Reservations.CancelBooking(ctx, id)
    if err != nil {
        return h.mapError(c, err)
    }

    h.publishEvent(c, queue.EventBookingCancelled, booking)
    return c.JSON(http.StatusOK, echo.Map{"booking": booking})
}

// List returns bookings newest first.  Regular users only see their own;
// admins may filter by user_id, resource_id and status.
func (h *BookingHandler) List(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    role, _ := c.Get("role").(string)

    var f repository.BookingFilter
    if role == model.RoleAdmin {
        if v := c.QueryParam("user_id"); v != "" {
            if n, err := strconv.ParseUint(v, 10, 64); err == nil {
                f.UserID = n
            }
        }
    } else {
        f.UserID = uid
    }
    if v := c.QueryParam("resource_id"); v != "" {
        if n, err := strconv.ParseUint(v, 10, 64); err == nil {
            f.ResourceID = n
        }
    }
    if v := strings.ToLower(strings.TrimSpace(c.QueryParam("status"))); v != "" {
        if v != model.BookingActive && v != model.BookingCancelled {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be active or cancelled"})
        }
        f.Status = v
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    items, err := h.Bookings.List(ctx, f)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"bookings": items})
}

// Get returns one booking.  Users may only read their own.
func (h *BookingHandler) Get(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := pathID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    b, err := h.Bookings.GetByID(ctx, id)
    if err != nil {
        return h.mapError(c, err)
    }
    role, _ := c.Get("role").(string)
    if b.UserID != uid && role != model.RoleAdmin {
        return h.mapError(c, repository.ErrForbidden)
    }
    return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// mapError converts domain sentinels into HTTP responses.
func (h *BookingHandler) mapError(c echo.Context, err error) error {
    switch err {
    case repository.ErrResourceNotFound:
        return c.JSON(http.StatusNotFound, echo.Map{"error": "resource not found"})
    case repository.ErrBookingNotFound:
        return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
    case repository.ErrNoCapacity:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "no available slots for this resource"})
    case repository.ErrAlreadyCancelled:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking already cancelled"})
    case repository.ErrForbidden:
        return c.JSON(http.StatusForbidden, echo.Map{"error": "not allowed for this booking"})
    case model.ErrMissingFields, model.ErrInvalidWindow:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "operation failed"})
}

// publishEvent emits a booking event after the transaction has committed.
// Publishing is best-effort; failures are logged by the publisher and
// otherwise ignored.
func (h *BookingHandler) publishEvent(c echo.Context, typ string, b *model.Booking) {
    ev := queue.BookingEvent{
        Type:       typ,
        BookingID:  b.ID,
        UserID:     b.UserID,
        ResourceID: b.ResourceID,
        StartTime:  b.StartTime.UTC().Format(time.RFC3339),
        EndTime:    b.EndTime.UTC().Format(time.RFC3339),
        Status:     b.Status,
        OccurredAt: time.Now().UTC().Format(time.RFC3339),
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
    defer cancel()
    if res, err := h.Resources.GetByID(ctx, b.ResourceID); err == nil {
        ev.ResourceName = res.Name
        ev.Category = res.Category
        ev.AvailableSlots = res.AvailableSlots
    }
    _ = service.PublishBookingEvent(ctx, ev)
}
