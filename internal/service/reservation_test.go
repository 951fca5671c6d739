package service

import (
    "context"
    "errors"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/resource-booking/internal/model"
    "github.com/iliyamo/resource-booking/internal/repository"
)

var (
    resourceColumns = []string{"id", "name", "description", "image_url", "category",
        "capacity", "available_slots", "status", "duration", "created_at", "updated_at"}
    bookingColumns = []string{"id", "user_id", "resource_id", "start_time", "end_time",
        "status", "created_at", "updated_at"}
)

func newServiceWithMock(t *testing.T) (*ReservationService, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { _ = db.Close() })
    svc := NewReservationService(db, repository.NewResourceRepo(db), repository.NewBookingRepo(db))
    return svc, mock
}

func resourceRow(id uint64, capacity, slots int, status string) *sqlmock.Rows {
    now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
    return sqlmock.NewRows(resourceColumns).
        AddRow(id, "Conference Room A", nil, nil, model.CategoryRoom,
            capacity, slots, status, nil, now, now)
}

func bookingRow(id, userID, resourceID uint64, start, end time.Time, status string) *sqlmock.Rows {
    now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
    return sqlmock.NewRows(bookingColumns).
        AddRow(id, userID, resourceID, start, end, status, now, now)
}

func TestCeilHours(t *testing.T) {
    base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
    cases := []struct {
        name string
        span time.Duration
        want int
    }{
        {"exactly one hour", time.Hour, 1},
        {"ninety minutes rounds up", 90 * time.Minute, 2},
        {"one minute rounds up", time.Minute, 1},
        {"three hours exact", 3 * time.Hour, 3},
        {"just over two hours", 2*time.Hour + time.Second, 3},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            assert.Equal(t, tc.want, ceilHours(base, base.Add(tc.span)))
        })
    }
}

func TestCreateBooking(t *testing.T) {
    start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
    end := start.Add(90 * time.Minute)
    startStr := start.Format("2006-01-02 15:04:05")
    endStr := end.Format("2006-01-02 15:04:05")

    t.Run("success decrements slots and derives status", func(t *testing.T) {
        svc, mock := newServiceWithMock(t)

        mock.ExpectBegin()
        mock.ExpectQuery("FROM resources WHERE id = \\? FOR UPDATE").
            WithArgs(7).
            WillReturnRows(resourceRow(7, 3, 3, model.StatusAvailable))
        mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bookings").
            WithArgs(7, startStr, endStr, startStr, endStr).
            WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
        mock.ExpectExec("INSERT INTO bookings").
            WithArgs(uint64(4), uint64(7), startStr, endStr, model.BookingActive).
            WillReturnResult(sqlmock.NewResult(42, 1))
        mock.ExpectQuery("FROM bookings WHERE id = \\?").
            WithArgs(uint64(42)).
            WillReturnRows(bookingRow(42, 4, 7, start, end, model.BookingActive))
        // 90 minutes rounds up to 2 hours
        mock.ExpectExec("UPDATE resources SET available_slots = \\?, status = \\?, duration = \\?").
            WithArgs(2, model.StatusPartiallyBooked, 2, uint64(7)).
            WillReturnResult(sqlmock.NewResult(0, 1))
        mock.ExpectCommit()

        b, err := svc.CreateBooking(context.Background(), 4, 7, start, end)
        require.NoError(t, err)
        assert.Equal(t, uint64(42), b.ID)
        assert.Equal(t, uint64(4), b.UserID)
        assert.Equal(t, uint64(7), b.ResourceID)
        assert.Equal(t, model.BookingActive, b.Status)
        require.NoError(t, mock.ExpectationsWereMet())
    })

    t.Run("invalid input rejected before any transaction", func(t *testing.T) {
        svc, mock := newServiceWithMock(t)

        _, err := svc.CreateBooking(context.Background(), 0, 7, start, end)
        assert.ErrorIs(t, err, model.ErrMissingFields)

        _, err = svc.CreateBooking(context.Background(), 4, 7, end, start)
        assert.ErrorIs(t, err, model.ErrInvalidWindow)

        require.NoError(t, mock.ExpectationsWereMet())
    })

    t.Run("resource not found rolls back", func(t *testing.T) {
        svc, mock := newServiceWithMock(t)

        mock.ExpectBegin()
        mock.ExpectQuery("FROM resources WHERE id = \\? FOR UPDATE").
            WithArgs(99).
            WillReturnRows(sqlmock.NewRows(resourceColumns))
        mock.ExpectRollback()

        _, err := svc.CreateBooking(context.Background(), 4, 99, start, end)
        assert.ErrorIs(t, err, repository.ErrResourceNotFound)
        require.NoError(t, mock.ExpectationsWereMet())
    })

    t.Run("exhausted counter rejected before conflict count", func(t *testing.T) {
        svc, mock := newServiceWithMock(t)

        mock.ExpectBegin()
        mock.ExpectQuery("FROM resources WHERE id = \\? FOR UPDATE").
            WithArgs(7).
            WillReturnRows(resourceRow(7, 3, 0, model.StatusBooked))
        mock.ExpectRollback()

        _, err := svc.CreateBooking(context.Background(), 4, 7, start, end)
        assert.ErrorIs(t, err, repository.ErrNoCapacity)
        require.NoError(t, mock.ExpectationsWereMet())
    })

    t.Run("window conflicts consuming full capacity rejected", func(t *testing.T) {
        svc, mock := newServiceWithMock(t)

        // counter still shows a free slot but the window itself is full
        mock.ExpectBegin()
        mock.ExpectQuery("FROM resources WHERE id = \\? FOR UPDATE").
            WithArgs(7).
            WillReturnRows(resourceRow(7, 2, 1, model.StatusPartiallyBooked))
        mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bookings").
            WithArgs(7, startStr, endStr, startStr, endStr).
            WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
        mock.ExpectRollback()

        _, err := svc.CreateBooking(context.Background(), 4, 7, start, end)
        assert.ErrorIs(t, err, repository.ErrNoCapacity)
        require.NoError(t, mock.ExpectationsWereMet())
    })

    t.Run("insert failure rolls everything back", func(t *testing.T) {
        svc, mock := newServiceWithMock(t)

        mock.ExpectBegin()
        mock.ExpectQuery("FROM resources WHERE id = \\? FOR UPDATE").
            WithArgs(7).
            WillReturnRows(resourceRow(7, 3, 3, model.StatusAvailable))
        mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bookings").
            WithArgs(7, startStr, endStr, startStr, endStr).
            WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
        mock.ExpectExec("INSERT INTO bookings").
            WithArgs(uint64(4), uint64(7), startStr, endStr, model.BookingActive).
            WillReturnError(errors.New("duplicate key"))
        mock.ExpectRollback()

        _, err := svc.CreateBooking(context.Background(), 4, 7, start, end)
        require.Error(t, err)
        require.NoError(t, mock.ExpectationsWereMet())
    })

    t.Run("last slot transitions status to booked", func(t *testing.T) {
        svc, mock := newServiceWithMock(t)

        mock.ExpectBegin()
        mock.ExpectQuery("FROM resources WHERE id = \\? FOR UPDATE").
            WithArgs(7).
            WillReturnRows(resourceRow(7, 3, 1, model.StatusPartiallyBooked))
        mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bookings").
            WithArgs(7, startStr, endStr, startStr, endStr).
            WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
        mock.ExpectExec("INSERT INTO bookings").
            WithArgs(uint64(4), uint64(7), startStr, endStr, model.BookingActive).
            WillReturnResult(sqlmock.NewResult(43, 1))
        mock.ExpectQuery("FROM bookings WHERE id = \\?").
            WithArgs(uint64(43)).
            WillReturnRows(bookingRow(43, 4, 7, start, end, model.BookingActive))
        mock.ExpectExec("UPDATE resources SET available_slots = \\?, status = \\?, duration = \\?").
            WithArgs(0, model.StatusBooked, 2, uint64(7)).
            WillReturnResult(sqlmock.NewResult(0, 1))
        mock.ExpectCommit()

        _, err := svc.CreateBooking(context.Background(), 4, 7, start, end)
        require.NoError(t, err)
        require.NoError(t, mock.ExpectationsWereMet())
    })
}

// Creating and then cancelling a booking returns the counter and status to
// their pre-booking values.
func TestCreateThenCancelRoundTrip(t *testing.T) {
    svc, mock := newServiceWithMock(t)

    start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
    end := start.Add(time.Hour)
    startStr := start.Format("2006-01-02 15:04:05")
    endStr := end.Format("2006-01-02 15:04:05")

    mock.ExpectBegin()
    mock.ExpectQuery("FROM resources WHERE id = \\? FOR UPDATE").
        WithArgs(7).
        WillReturnRows(resourceRow(7, 2, 2, model.StatusAvailable))
    mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bookings").
        WithArgs(7, startStr, endStr, startStr, endStr).
        WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
    mock.ExpectExec("INSERT INTO bookings").
        WithArgs(uint64(4), uint64(7), startStr, endStr, model.BookingActive).
        WillReturnResult(sqlmock.NewResult(42, 1))
    mock.ExpectQuery("FROM bookings WHERE id = \\?").
        WithArgs(uint64(42)).
        WillReturnRows(bookingRow(42, 4, 7, start, end, model.BookingActive))
    mock.ExpectExec("UPDATE resources SET available_slots = \\?, status = \\?, duration = \\?").
        WithArgs(1, model.StatusPartiallyBooked, 1, uint64(7)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    mock.ExpectBegin()
    mock.ExpectQuery("FROM bookings WHERE id = \\? FOR UPDATE").
        WithArgs(42).
        WillReturnRows(bookingRow(42, 4, 7, start, end, model.BookingActive))
    mock.ExpectExec("UPDATE bookings SET status = 'cancelled'").
        WithArgs(uint64(42)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectQuery("FROM resources WHERE id = \\? FOR UPDATE").
        WithArgs(uint64(7)).
        WillReturnRows(resourceRow(7, 2, 1, model.StatusPartiallyBooked))
    mock.ExpectExec("UPDATE resources SET available_slots = \\?, status = \\?, updated_at").
        WithArgs(2, model.StatusAvailable, uint64(7)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    created, err := svc.CreateBooking(context.Background(), 4, 7, start, end)
    require.NoError(t, err)

    cancelled, err := svc.CancelBooking(context.Background(), created.ID)
    require.NoError(t, err)
    assert.Equal(t, created.ID, cancelled.ID)
    assert.Equal(t, model.BookingCancelled, cancelled.Status)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBooking(t *testing.T) {
    start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
    end := start.Add(2 * time.Hour)

    t.Run("success returns slot and rederives status", func(t *testing.T) {
        svc, mock := newServiceWithMock(t)

        mock.ExpectBegin()
        mock.ExpectQuery("FROM bookings WHERE id = \\? FOR UPDATE").
            WithArgs(42).
            WillReturnRows(bookingRow(42, 4, 7, start, end, model.BookingActive))
        mock.ExpectExec("UPDATE bookings SET status = 'cancelled'").
            WithArgs(uint64(42)).
            WillReturnResult(sqlmock.NewResult(0, 1))
        mock.ExpectQuery("FROM resources WHERE id = \\? FOR UPDATE").
            WithArgs(uint64(7)).
            WillReturnRows(resourceRow(7, 3, 0, model.StatusBooked))
        mock.ExpectExec("UPDATE resources SET available_slots = \\?, status = \\?, updated_at").
            WithArgs(1, model.StatusPartiallyBooked, uint64(7)).
            WillReturnResult(sqlmock.NewResult(0, 1))
        mock.ExpectCommit()

        b, err := svc.CancelBooking(context.Background(), 42)
        require.NoError(t, err)
        assert.Equal(t, model.BookingCancelled, b.Status)
        require.NoError(t, mock.ExpectationsWereMet())
    })

    t.Run("already cancelled is rejected and moves nothing", func(t *testing.T) {
        svc, mock := newServiceWithMock(t)

        mock.ExpectBegin()
        mock.ExpectQuery("FROM bookings WHERE id = \\? FOR UPDATE").
            WithArgs(42).
            WillReturnRows(bookingRow(42, 4, 7, start, end, model.BookingCancelled))
        mock.ExpectRollback()

        _, err := svc.CancelBooking(context.Background(), 42)
        assert.ErrorIs(t, err, repository.ErrAlreadyCancelled)
        require.NoError(t, mock.ExpectationsWereMet())
    })

    t.Run("unknown booking", func(t *testing.T) {
        svc, mock := newServiceWithMock(t)

        mock.ExpectBegin()
        mock.ExpectQuery("FROM bookings WHERE id = \\? FOR UPDATE").
            WithArgs(404).
            WillReturnRows(sqlmock.NewRows(bookingColumns))
        mock.ExpectRollback()

        _, err := svc.CancelBooking(context.Background(), 404)
        assert.ErrorIs(t, err, repository.ErrBookingNotFound)
        require.NoError(t, mock.ExpectationsWereMet())
    })

    t.Run("counter clamps at capacity", func(t *testing.T) {
        svc, mock := newServiceWithMock(t)

        mock.ExpectBegin()
        mock.ExpectQuery("FROM bookings WHERE id = \\? FOR UPDATE").
            WithArgs(42).
            WillReturnRows(bookingRow(42, 4, 7, start, end, model.BookingActive))
        mock.ExpectExec("UPDATE bookings SET status = 'cancelled'").
            WithArgs(uint64(42)).
            WillReturnResult(sqlmock.NewResult(0, 1))
        // counter already at capacity (prior inconsistency)
        mock.ExpectQuery("FROM resources WHERE id = \\? FOR UPDATE").
            WithArgs(uint64(7)).
            WillReturnRows(resourceRow(7, 3, 3, model.StatusAvailable))
        mock.ExpectExec("UPDATE resources SET available_slots = \\?, status = \\?, updated_at").
            WithArgs(3, model.StatusAvailable, uint64(7)).
            WillReturnResult(sqlmock.NewResult(0, 1))
        mock.ExpectCommit()

        _, err := svc.CancelBooking(context.Background(), 42)
        require.NoError(t, err)
        require.NoError(t, mock.ExpectationsWereMet())
    })
}
