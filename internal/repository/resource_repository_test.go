package repository

import (
    "context"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/resource-booking/internal/model"
)

var resourceTestCols = []string{"id", "name", "description", "image_url", "category",
    "capacity", "available_slots", "status", "duration", "created_at", "updated_at"}

func newResourceRepoWithMock(t *testing.T) (*ResourceRepo, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { _ = db.Close() })
    return NewResourceRepo(db), mock
}

func TestResourceCreateQueriesBackDefaults(t *testing.T) {
    repo, mock := newResourceRepoWithMock(t)
    now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

    mock.ExpectExec("INSERT INTO resources").
        WithArgs("Projector", nil, nil, model.CategoryEquipment, 2, 2, model.StatusAvailable).
        WillReturnResult(sqlmock.NewResult(11, 1))
    mock.ExpectQuery("FROM resources WHERE id = \\?").
        WithArgs(uint64(11)).
        WillReturnRows(sqlmock.NewRows(resourceTestCols).
            AddRow(11, "Projector", nil, nil, model.CategoryEquipment, 2, 2, model.StatusAvailable, nil, now, now))

    res := &model.Resource{
        Name:           "Projector",
        Category:       model.CategoryEquipment,
        Capacity:       2,
        AvailableSlots: 2,
        Status:         model.StatusAvailable,
    }
    require.NoError(t, repo.Create(context.Background(), res))
    assert.Equal(t, uint64(11), res.ID)
    assert.Equal(t, now, res.CreatedAt)
    assert.Nil(t, res.Duration)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestResourceGetByIDNotFound(t *testing.T) {
    repo, mock := newResourceRepoWithMock(t)

    mock.ExpectQuery("FROM resources WHERE id = \\?").
        WithArgs(404).
        WillReturnRows(sqlmock.NewRows(resourceTestCols))

    _, err := repo.GetByID(context.Background(), 404)
    assert.ErrorIs(t, err, ErrResourceNotFound)
    require.NoError(t, mock.ExpectationsWereMet())
}

func TestResourceUpdateAvailableSlots(t *testing.T) {
    t.Run("writes counter and status together", func(t *testing.T) {
        repo, mock := newResourceRepoWithMock(t)
        mock.ExpectExec("UPDATE resources SET available_slots = \\?, status = \\?").
            WithArgs(0, model.StatusBooked, uint64(7)).
            WillReturnResult(sqlmock.NewResult(0, 1))

        require.NoError(t, repo.UpdateAvailableSlots(context.Background(), 7, 0, model.StatusBooked))
        require.NoError(t, mock.ExpectationsWereMet())
    })

    t.Run("missing row reported as not found", func(t *testing.T) {
        repo, mock := newResourceRepoWithMock(t)
        mock.ExpectExec("UPDATE resources SET available_slots = \\?, status = \\?").
            WithArgs(1, model.StatusPartiallyBooked, uint64(404)).
            WillReturnResult(sqlmock.NewResult(0, 0))

        err := repo.UpdateAvailableSlots(context.Background(), 404, 1, model.StatusPartiallyBooked)
        assert.ErrorIs(t, err, ErrResourceNotFound)
        require.NoError(t, mock.ExpectationsWereMet())
    })
}

func TestResourceDelete(t *testing.T) {
    repo, mock := newResourceRepoWithMock(t)

    mock.ExpectExec("DELETE FROM resources WHERE id = \\?").
        WithArgs(uint64(3)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec("DELETE FROM resources WHERE id = \\?").
        WithArgs(uint64(3)).
        WillReturnResult(sqlmock.NewResult(0, 0))

    require.NoError(t, repo.Delete(context.Background(), 3))
    assert.ErrorIs(t, repo.Delete(context.Background(), 3), ErrResourceNotFound)
    require.NoError(t, mock.ExpectationsWereMet())
}
