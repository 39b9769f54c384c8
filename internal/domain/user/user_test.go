package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestType_IsRegistrable(t *testing.T) {
	require.True(t, TypeSupplier.IsRegistrable())
	require.True(t, TypeRecipient.IsRegistrable())
	require.True(t, TypeBoth.IsRegistrable())
	require.False(t, TypeNone.IsRegistrable())
	require.False(t, Type("moderator").IsRegistrable())
}

func TestUser_Capabilities(t *testing.T) {
	tests := []struct {
		userType   Type
		canSupply  bool
		canReceive bool
	}{
		{TypeSupplier, true, false},
		{TypeRecipient, false, true},
		{TypeBoth, true, true},
		{TypeNone, false, false},
	}

	for _, tt := range tests {
		u := &User{Type: tt.userType}
		require.Equal(t, tt.canSupply, u.CanSupply(), "CanSupply for %s", tt.userType)
		require.Equal(t, tt.canReceive, u.CanReceive(), "CanReceive for %s", tt.userType)
	}
}

func TestUser_PenaltySaturatesAtZero(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	u := &User{Reputation: 15}
	u.PenalizeNoShow(now)
	require.Equal(t, int64(5), u.Reputation)
	u.PenalizeNoShow(now)
	require.Equal(t, int64(0), u.Reputation)
	u.PenalizeNoShow(now)
	require.Equal(t, int64(0), u.Reputation, "repeated penalties never underflow")
}

func TestUser_ReputationNeverNegative(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
		u := &User{Reputation: InitialReputation}

		steps := rapid.IntRange(1, 100).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			if rapid.Bool().Draw(rt, "penalize") {
				u.PenalizeNoShow(now)
			} else {
				u.RewardCollection(now)
			}
			require.GreaterOrEqual(rt, u.Reputation, int64(0))
		}
	})
}

func TestUser_Counters(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	u := &User{}

	u.RecordListing(now)
	u.RecordListing(now)
	require.Equal(t, int64(2), u.ItemsListed)

	u.RecordCollection(8, now)
	require.Equal(t, int64(1), u.ItemsReceived)
	require.Equal(t, int64(8), u.WasteSaved)
}
