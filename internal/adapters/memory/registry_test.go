package memory

import (
	"context"
	"testing"
	"time"

	"foodloop-marketplace-service/internal/domain/item"
	"foodloop-marketplace-service/internal/domain/shared"
	"foodloop-marketplace-service/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestItemStore_Roundtrip(t *testing.T) {
	registry := NewRegistry()
	items := registry.Items()
	ctx := context.Background()

	stored := &item.Item{
		ID:         0,
		Name:       "bread",
		Supplier:   uuid.New(),
		Quantity:   3,
		ExpiryTime: time.Now().Add(time.Hour),
		Status:     item.StatusAvailable,
	}
	require.NoError(t, items.Create(ctx, stored))

	found, err := items.GetByID(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, stored, found)

	_, err = items.GetByID(ctx, 1)
	require.ErrorIs(t, err, shared.ErrItemNotFound)
}

func TestItemStore_UpdateUnknown(t *testing.T) {
	registry := NewRegistry()
	ctx := context.Background()

	err := registry.Items().Update(ctx, &item.Item{ID: 7})
	require.ErrorIs(t, err, shared.ErrItemNotFound)
}

func TestItemStore_ReturnsCopies(t *testing.T) {
	registry := NewRegistry()
	items := registry.Items()
	ctx := context.Background()

	recipient := uuid.New()
	stored := &item.Item{ID: 0, Status: item.StatusReserved, Recipient: &recipient}
	require.NoError(t, items.Create(ctx, stored))

	// Mutating a fetched record must not leak into the store
	found, err := items.GetByID(ctx, 0)
	require.NoError(t, err)
	found.Status = item.StatusCollected
	*found.Recipient = uuid.New()

	fresh, err := items.GetByID(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, item.StatusReserved, fresh.Status)
	require.Equal(t, recipient, *fresh.Recipient)
}

func TestItemStore_List(t *testing.T) {
	registry := NewRegistry()
	items := registry.Items()
	ctx := context.Background()

	for i := int64(0); i < 3; i++ {
		require.NoError(t, items.Create(ctx, &item.Item{ID: i, Status: item.StatusAvailable}))
	}

	listed, err := items.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3)
}

func TestUserStore_Roundtrip(t *testing.T) {
	registry := NewRegistry()
	users := registry.Users()
	ctx := context.Background()

	id := uuid.New()
	stored := &user.User{ID: id, Name: "shelter", Type: user.TypeRecipient, Reputation: user.InitialReputation}
	require.NoError(t, users.Create(ctx, stored))

	found, err := users.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, stored, found)

	_, err = users.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, shared.ErrUserNotFound)

	found.Reputation = 90
	require.NoError(t, users.Update(ctx, found))

	updated, err := users.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, int64(90), updated.Reputation)
}

func TestStatsStore_Roundtrip(t *testing.T) {
	registry := NewRegistry()
	stats := registry.Stats()
	ctx := context.Background()

	initial, err := stats.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, &shared.Stats{}, initial)

	require.NoError(t, stats.Put(ctx, &shared.Stats{ItemCount: 2, TotalWasteSaved: 9, TotalItemsListed: 2}))

	updated, err := stats.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), updated.ItemCount)
	require.Equal(t, int64(9), updated.TotalWasteSaved)
}
