package ws

import (
	"testing"

	"foodloop-marketplace-service/internal/domain/shared"

	"github.com/stretchr/testify/require"
)

func TestParseClientMessage(t *testing.T) {
	msg, err := ParseClientMessage([]byte(`{"type":"ping"}`))
	require.NoError(t, err)
	require.Equal(t, MessageTypePing, msg.Type)

	_, err = ParseClientMessage([]byte(`not json`))
	require.Error(t, err)

	_, err = ParseClientMessage([]byte(`{"data":{}}`))
	require.ErrorIs(t, err, shared.ErrMessageTypeRequired)
}

func itemID(id int64) *int64 {
	return &id
}

func TestClientMessage_Validate(t *testing.T) {
	tests := []struct {
		name    string
		msg     ClientMessage
		wantErr error
	}{
		{
			name: "subscribe to lobby without item id",
			msg:  ClientMessage{Type: MessageTypeSubscribe},
		},
		{
			name: "subscribe to item",
			msg:  ClientMessage{Type: MessageTypeSubscribe, ItemID: itemID(3)},
		},
		{
			name:    "subscribe with negative item id",
			msg:     ClientMessage{Type: MessageTypeSubscribe, ItemID: itemID(-1)},
			wantErr: shared.ErrItemIDRequired,
		},
		{
			name: "register user",
			msg: ClientMessage{Type: MessageTypeRegisterUser, Data: map[string]interface{}{
				"user_type": "supplier", "name": "bakery",
			}},
		},
		{
			name:    "register user without type",
			msg:     ClientMessage{Type: MessageTypeRegisterUser, Data: map[string]interface{}{"name": "bakery"}},
			wantErr: shared.ErrUserTypeRequired,
		},
		{
			name:    "register user without name",
			msg:     ClientMessage{Type: MessageTypeRegisterUser, Data: map[string]interface{}{"user_type": "supplier"}},
			wantErr: shared.ErrNameRequired,
		},
		{
			name: "list item",
			msg: ClientMessage{Type: MessageTypeListItem, Data: map[string]interface{}{
				"name": "bread", "quantity": float64(3), "duration_hours": float64(2), "price": float64(0),
			}},
		},
		{
			name: "list item with zero quantity",
			msg: ClientMessage{Type: MessageTypeListItem, Data: map[string]interface{}{
				"name": "bread", "quantity": float64(0), "duration_hours": float64(2), "price": float64(0),
			}},
			wantErr: shared.ErrInvalidItemFields,
		},
		{
			name: "list item without price",
			msg: ClientMessage{Type: MessageTypeListItem, Data: map[string]interface{}{
				"name": "bread", "quantity": float64(3), "duration_hours": float64(2),
			}},
			wantErr: shared.ErrInvalidItemFields,
		},
		{
			name: "reserve item",
			msg: ClientMessage{Type: MessageTypeReserveItem, ItemID: itemID(0), Data: map[string]interface{}{
				"paid_amount": float64(10),
			}},
		},
		{
			name:    "reserve item without item id",
			msg:     ClientMessage{Type: MessageTypeReserveItem, Data: map[string]interface{}{"paid_amount": float64(10)}},
			wantErr: shared.ErrItemIDRequired,
		},
		{
			name:    "reserve item without amount",
			msg:     ClientMessage{Type: MessageTypeReserveItem, ItemID: itemID(0)},
			wantErr: shared.ErrInvalidAmount,
		},
		{
			name: "confirm collection",
			msg:  ClientMessage{Type: MessageTypeConfirmCollection, ItemID: itemID(1)},
		},
		{
			name:    "mark expired without item id",
			msg:     ClientMessage{Type: MessageTypeMarkExpired},
			wantErr: shared.ErrItemIDRequired,
		},
		{
			name: "get stats",
			msg:  ClientMessage{Type: MessageTypeGetStats},
		},
		{
			name:    "unknown type",
			msg:     ClientMessage{Type: MessageType("teleport")},
			wantErr: shared.ErrUnknownMessageType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
