package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"
    "time"

    "github.com/iliyamo/resource-booking/internal/model"
)

// ErrBookingNotFound is returned when a booking lookup fails.
var ErrBookingNotFound = errors.New("booking not found")

// BookingRepo provides data access to the bookings table.  Writes happen
// exclusively through the ...Tx methods inside a transaction owned by the
// reservation service; the read methods serve the listing endpoints and
// need no transaction.  All timestamps are stored in UTC.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle for transaction begin.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingCols = `id, user_id, resource_id, start_time, end_time, status, created_at, updated_at`

func scanBooking(row interface {
    Scan(dest ...interface{}) error
}) (*model.Booking, error) {
    var b model.Booking
    err := row.Scan(&b.ID, &b.UserID, &b.ResourceID, &b.StartTime, &b.EndTime,
        &b.Status, &b.CreatedAt, &b.UpdatedAt)
    if err != nil {
        return nil, err
    }
    return &b, nil
}

// CreateTx inserts a new active booking within the scope of an existing
// transaction and populates the generated ID and database defaults on the
// provided record.  The caller must commit or roll back the transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
    const q = `INSERT INTO bookings (user_id, resource_id, start_time, end_time, status) VALUES (?, ?, ?, ?, ?)`
    result, err := tx.ExecContext(ctx, q, b.UserID, b.ResourceID,
        b.StartTime.UTC().Format("2006-01-02 15:04:05"),
        b.EndTime.UTC().Format("2006-01-02 15:04:05"),
        b.Status)
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    // Query back the full row to populate timestamps and defaults
    const sel = `SELECT ` + bookingCols + ` FROM bookings WHERE id = ?`
    stored, err := scanBooking(tx.QueryRowContext(ctx, sel, b.ID))
    if err != nil {
        return err
    }
    *b = *stored
    return nil
}

// CountConflictsTx counts active bookings for a resource whose start OR end
// timestamp falls inside the candidate window, boundaries inclusive.  This
// is a boundary test applied to each endpoint independently, not a true
// interval-intersection test: a booking that fully contains the candidate
// window without either of its own endpoints inside it is not counted.
// That rule is load-bearing for compatibility and must not be "corrected".
func (r *BookingRepo) CountConflictsTx(ctx context.Context, tx *sql.Tx, resourceID uint64, start, end time.Time) (int, error) {
    const q = `SELECT COUNT(*) FROM bookings
               WHERE resource_id = ? AND status = 'active'
                 AND (start_time BETWEEN ? AND ? OR end_time BETWEEN ? AND ?)`
    s := start.UTC().Format("2006-01-02 15:04:05")
    e := end.UTC().Format("2006-01-02 15:04:05")
    var n int
    if err := tx.QueryRowContext(ctx, q, resourceID, s, e, s, e).Scan(&n); err != nil {
        return 0, err
    }
    return n, nil
}

// GetByID retrieves a booking by its ID.  Returns ErrBookingNotFound when
// no row exists.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
    const q = `SELECT ` + bookingCols + ` FROM bookings WHERE id = ?`
    b, err := scanBooking(r.db.QueryRowContext(ctx, q, id))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrBookingNotFound
        }
        return nil, err
    }
    return b, nil
}

// GetForUpdateTx loads a booking inside a transaction with a locking read
// so that two concurrent cancellations of the same booking serialize.
// Returns ErrBookingNotFound when absent.
func (r *BookingRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error) {
    const q = `SELECT ` + bookingCols + ` FROM bookings WHERE id = ? FOR UPDATE`
    b, err := scanBooking(tx.QueryRowContext(ctx, q, id))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrBookingNotFound
        }
        return nil, err
    }
    return b, nil
}

// CancelTx marks a booking cancelled within the provided transaction.  The
// row is never deleted; cancellation is the only reverse transition for
// the owning resource's availability counter.
func (r *BookingRepo) CancelTx(ctx context.Context, tx *sql.Tx, id uint64) error {
    const q = `UPDATE bookings SET status = 'cancelled', updated_at = CURRENT_TIMESTAMP WHERE id = ?`
    _, err := tx.ExecContext(ctx, q, id)
    return err
}

// BookingFilter narrows List results.  Zero values mean "no filter".
type BookingFilter struct {
    UserID     uint64
    ResourceID uint64
    Status     string
}

// List returns bookings matching the filter, newest first.  It is a plain
// read used by the listing endpoints; no transaction is needed.
func (r *BookingRepo) List(ctx context.Context, f BookingFilter) ([]*model.Booking, error) {
    q := `SELECT ` + bookingCols + ` FROM bookings`
    var (
        where []string
        args  []interface{}
    )
    if f.UserID != 0 {
        where = append(where, "user_id = ?")
        args = append(args, f.UserID)
    }
    if f.ResourceID != 0 {
        where = append(where, "resource_id = ?")
        args = append(args, f.ResourceID)
    }
    if f.Status != "" {
        where = append(where, "status = ?")
        args = append(args, f.Status)
    }
    if len(where) > 0 {
        q += " WHERE " + strings.Join(where, " AND ")
    }
    q += " ORDER BY created_at DESC"
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]*model.Booking, 0)
    for rows.Next() {
        b, err := scanBooking(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, b)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}
