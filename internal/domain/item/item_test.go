package item

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestItem_IsExpired(t *testing.T) {
	expiry := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	it := &Item{ExpiryTime: expiry, Status: StatusAvailable}

	require.False(t, it.IsExpired(expiry.Add(-time.Second)))
	require.True(t, it.IsExpired(expiry), "expiry boundary counts as expired")
	require.True(t, it.IsExpired(expiry.Add(time.Second)))
}

func TestItem_IsReservable(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	expiry := now.Add(time.Hour)

	tests := []struct {
		name   string
		status Status
		at     time.Time
		want   bool
	}{
		{"available and fresh", StatusAvailable, now, true},
		{"available but expired", StatusAvailable, expiry, false},
		{"reserved", StatusReserved, now, false},
		{"collected", StatusCollected, now, false},
		{"expired", StatusExpired, now, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := &Item{Status: tt.status, ExpiryTime: expiry}
			require.Equal(t, tt.want, it.IsReservable(tt.at))
		})
	}
}

func TestItem_Transitions(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	recipient := uuid.New()

	it := &Item{Status: StatusAvailable}

	it.Reserve(recipient, now)
	require.Equal(t, StatusReserved, it.Status)
	require.Equal(t, recipient, *it.Recipient)
	require.Equal(t, now, it.UpdatedAt)

	it.Collect(now.Add(time.Minute))
	require.Equal(t, StatusCollected, it.Status)

	expired := &Item{Status: StatusAvailable}
	expired.Expire(now)
	require.Equal(t, StatusExpired, expired.Status)
}
