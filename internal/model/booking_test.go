package model

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

func TestCheckBookingInput(t *testing.T) {
    start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
    end := start.Add(2 * time.Hour)

    assert.NoError(t, CheckBookingInput(1, 1, start, end))

    assert.ErrorIs(t, CheckBookingInput(0, 1, start, end), ErrMissingFields)
    assert.ErrorIs(t, CheckBookingInput(1, 0, start, end), ErrMissingFields)
    assert.ErrorIs(t, CheckBookingInput(1, 1, time.Time{}, end), ErrMissingFields)
    assert.ErrorIs(t, CheckBookingInput(1, 1, start, time.Time{}), ErrMissingFields)

    // zero-length and inverted windows are both invalid
    assert.ErrorIs(t, CheckBookingInput(1, 1, start, start), ErrInvalidWindow)
    assert.ErrorIs(t, CheckBookingInput(1, 1, end, start), ErrInvalidWindow)
}
