package domain_test

import (
	"testing"
	"time"

	"github.com/srgjo27/ticket_inventory/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservation_ExpiryBoundary(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r, err := domain.NewReservation("ord-1", "evt-1", "GA", 2, 10*time.Minute, t0)
	require.NoError(t, err)

	assert.Equal(t, t0.Add(10*time.Minute), r.ExpiresAt)
	assert.False(t, r.IsExpired(t0.Add(9*time.Minute)))
	assert.True(t, r.IsExpired(r.ExpiresAt))
	assert.True(t, r.IsUsable(t0))
	assert.False(t, r.IsUsable(t0.Add(11*time.Minute)))
}

func TestReservation_ConfirmAfterExpiryFails(t *testing.T) {
	t0 := time.Now()
	r, err := domain.NewReservation("ord-1", "evt-1", "GA", 2, 10*time.Minute, t0)
	require.NoError(t, err)

	_, err = r.Confirm(t0.Add(11 * time.Minute))
	assert.ErrorIs(t, err, domain.ErrReservationExpired)
	assert.Equal(t, domain.ReservationActive, r.Status)

	confirmed, err := r.Confirm(t0.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationConfirmed, confirmed.Status)

	_, err = confirmed.Release()
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	_, err = confirmed.Expire()
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestReservation_ExpireOnlyFromActive(t *testing.T) {
	r, err := domain.NewReservation("ord-1", "evt-1", "GA", 1, time.Minute, time.Now())
	require.NoError(t, err)

	expired, err := r.Expire()
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationExpired, expired.Status)

	_, err = expired.Expire()
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	released, err := expired.Release()
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationReleased, released.Status)
}

func TestNewReservation_Validation(t *testing.T) {
	_, err := domain.NewReservation("ord-1", "evt-1", "GA", 0, time.Minute, time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = domain.NewReservation("ord-1", "evt-1", "GA", 1, 0, time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}
