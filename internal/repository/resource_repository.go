package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/resource-booking/internal/model"
)

// ErrResourceNotFound is returned when a resource lookup fails.
var ErrResourceNotFound = errors.New("resource not found")

// ResourceRepo provides CRUD operations for resources and the in-transaction
// availability mutations performed by the reservation service.  The
// available_slots/status/duration columns are only written inside a
// transaction opened by the service; the plain update methods below cover
// the administrative field updates exposed over HTTP.  All timestamp
// fields are stored in UTC.
type ResourceRepo struct {
    db *sql.DB
}

// NewResourceRepo returns a new ResourceRepo bound to the given database.
func NewResourceRepo(db *sql.DB) *ResourceRepo { return &ResourceRepo{db: db} }

// DB exposes the underlying handle so callers can begin transactions that
// span resources and bookings.
func (r *ResourceRepo) DB() *sql.DB { return r.db }

const resourceCols = `id, name, description, image_url, category, capacity, available_slots, status, duration, created_at, updated_at`

// scanResource reads one resources row from any row scanner.
func scanResource(row interface {
    Scan(dest ...interface{}) error
}) (*model.Resource, error) {
    var (
        res      model.Resource
        desc     sql.NullString
        imageURL sql.NullString
        duration sql.NullInt32
    )
    err := row.Scan(&res.ID, &res.Name, &desc, &imageURL, &res.Category,
        &res.Capacity, &res.AvailableSlots, &res.Status, &duration,
        &res.CreatedAt, &res.UpdatedAt)
    if err != nil {
        return nil, err
    }
    if desc.Valid {
        d := desc.String
        res.Description = &d
    }
    if imageURL.Valid {
        u := imageURL.String
        res.ImageURL = &u
    }
    if duration.Valid {
        h := int(duration.Int32)
        res.Duration = &h
    }
    return &res, nil
}

// Create inserts a new resource and populates the generated ID plus the
// columns defaulted by the database.  The caller must have validated the
// record with model.CheckResource first.
func (r *ResourceRepo) Create(ctx context.Context, res *model.Resource) error {
    const q = `INSERT INTO resources (name, description, image_url, category, capacity, available_slots, status)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
    result, err := r.db.ExecContext(ctx, q, res.Name, res.Description, res.ImageURL,
        res.Category, res.Capacity, res.AvailableSlots, res.Status)
    if err != nil {
        return err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return err
    }
    res.ID = uint64(id)
    // Query back the full row to populate timestamps and defaults
    stored, err := r.GetByID(ctx, res.ID)
    if err != nil {
        return err
    }
    *res = *stored
    return nil
}

// GetByID retrieves a resource by its ID.  It returns ErrResourceNotFound
// when no row exists.
func (r *ResourceRepo) GetByID(ctx context.Context, id uint64) (*model.Resource, error) {
    const q = `SELECT ` + resourceCols + ` FROM resources WHERE id = ?`
    res, err := scanResource(r.db.QueryRowContext(ctx, q, id))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrResourceNotFound
        }
        return nil, err
    }
    return res, nil
}

// GetForUpdateTx loads a resource inside a transaction with a locking read.
// The row lock serializes concurrent reservation operations on the same
// resource so that two creations cannot both observe the last free slot
// (lost-update hazard).  Returns ErrResourceNotFound when absent.
func (r *ResourceRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Resource, error) {
    const q = `SELECT ` + resourceCols + ` FROM resources WHERE id = ? FOR UPDATE`
    res, err := scanResource(tx.QueryRowContext(ctx, q, id))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrResourceNotFound
        }
        return nil, err
    }
    return res, nil
}

// SetAvailabilityTx writes the availability counter and derived status for
// a resource within the reservation transaction.  When duration is non-nil
// the last-computed booking span is overwritten as well (create path);
// cancellation leaves the stored duration untouched.
func (r *ResourceRepo) SetAvailabilityTx(ctx context.Context, tx *sql.Tx, id uint64, slots int, status string, duration *int) error {
    if duration != nil {
        const q = `UPDATE resources SET available_slots = ?, status = ?, duration = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
        _, err := tx.ExecContext(ctx, q, slots, status, *duration, id)
        return err
    }
    const q = `UPDATE resources SET available_slots = ?, status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
    _, err := tx.ExecContext(ctx, q, slots, status, id)
    return err
}

// List returns all resources ordered by ID.
func (r *ResourceRepo) List(ctx context.Context) ([]*model.Resource, error) {
    const q = `SELECT ` + resourceCols + ` FROM resources ORDER BY id`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]*model.Resource, 0)
    for rows.Next() {
        res, err := scanResource(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, res)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// Update rewrites the descriptive fields of a resource (name, description,
// category, image URL, status).  Capacity and the availability counter have
// dedicated methods with their own bounds checks.  Returns
// ErrResourceNotFound when no row was updated.
func (r *ResourceRepo) Update(ctx context.Context, res *model.Resource) error {
    const q = `UPDATE resources
               SET name = ?, description = ?, image_url = ?, category = ?, status = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ?`
    result, err := r.db.ExecContext(ctx, q, res.Name, res.Description, res.ImageURL, res.Category, res.Status, res.ID)
    if err != nil {
        return err
    }
    if n, _ := result.RowsAffected(); n == 0 {
        return ErrResourceNotFound
    }
    return nil
}

// UpdateCapacity sets a new maximum capacity for the resource.  The caller
// enforces capacity >= 1 before calling.
func (r *ResourceRepo) UpdateCapacity(ctx context.Context, id uint64, capacity int) error {
    const q = `UPDATE resources SET capacity = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
    result, err := r.db.ExecContext(ctx, q, capacity, id)
    if err != nil {
        return err
    }
    if n, _ := result.RowsAffected(); n == 0 {
        return ErrResourceNotFound
    }
    return nil
}

// UpdateDuration overwrites the informational duration scalar.
func (r *ResourceRepo) UpdateDuration(ctx context.Context, id uint64, duration int) error {
    const q = `UPDATE resources SET duration = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
    result, err := r.db.ExecContext(ctx, q, duration, id)
    if err != nil {
        return err
    }
    if n, _ := result.RowsAffected(); n == 0 {
        return ErrResourceNotFound
    }
    return nil
}

// UpdateAvailableSlots sets the availability counter directly and rederives
// the status from it.  Used by the administrative endpoint; the caller
// checks 0 <= slots <= capacity before calling.
func (r *ResourceRepo) UpdateAvailableSlots(ctx context.Context, id uint64, slots int, status string) error {
    const q = `UPDATE resources SET available_slots = ?, status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
    result, err := r.db.ExecContext(ctx, q, slots, status, id)
    if err != nil {
        return err
    }
    if n, _ := result.RowsAffected(); n == 0 {
        return ErrResourceNotFound
    }
    return nil
}

// Delete removes a resource row.  Returns ErrResourceNotFound when no row
// was deleted.
func (r *ResourceRepo) Delete(ctx context.Context, id uint64) error {
    const q = `DELETE FROM resources WHERE id = ?`
    result, err := r.db.ExecContext(ctx, q, id)
    if err != nil {
        return err
    }
    if n, _ := result.RowsAffected(); n == 0 {
        return ErrResourceNotFound
    }
    return nil
}
