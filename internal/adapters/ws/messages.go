package ws

import (
	"encoding/json"
	"fmt"
	"time"

	"foodloop-marketplace-service/internal/domain/shared"
)

type MessageType string

const (
	// Client to Server message types
	MessageTypeSubscribe         MessageType = "subscribe"
	MessageTypeUnsubscribe       MessageType = "unsubscribe"
	MessageTypeRegisterUser      MessageType = "register_user"
	MessageTypeListItem          MessageType = "list_item"
	MessageTypeReserveItem       MessageType = "reserve_item"
	MessageTypeConfirmCollection MessageType = "confirm_collection"
	MessageTypeMarkExpired       MessageType = "mark_expired"
	MessageTypeGetItem           MessageType = "get_item"
	MessageTypeGetUser           MessageType = "get_user"
	MessageTypeGetStats          MessageType = "get_stats"
	MessageTypePing              MessageType = "ping"

	// Server to Client message types
	MessageTypeUserRegistered    MessageType = "user_registered"
	MessageTypeItemListed        MessageType = "item_listed"
	MessageTypeItemReserved      MessageType = "item_reserved"
	MessageTypeItemCollected     MessageType = "item_collected"
	MessageTypeMarketplaceUpdate MessageType = "marketplace_update"
	MessageTypeError             MessageType = "error"
	MessageTypePong              MessageType = "pong"
)

type ClientMessage struct {
	Type      MessageType            `json:"type"`
	ItemID    *int64                 `json:"item_id,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp int64                  `json:"timestamp"`
}

// ServerMessage represents a message sent from server to client
type ServerMessage struct {
	Type      MessageType            `json:"type"`
	ItemID    *int64                 `json:"item_id,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Error     *string                `json:"error,omitempty"`
	Timestamp int64                  `json:"timestamp"`
}

func NewServerMessage(msgType MessageType) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Data:      make(map[string]interface{}),
		Timestamp: time.Now().Unix(),
	}
}

func NewErrorMessage(err string, itemID *int64) *ServerMessage {
	return &ServerMessage{
		Type:      MessageTypeError,
		ItemID:    itemID,
		Error:     &err,
		Timestamp: time.Now().Unix(),
	}
}

// ParseClientMessage parses a JSON message from client
func ParseClientMessage(data []byte) (*ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse client message: %w", err)
	}

	if msg.Type == "" {
		return nil, shared.ErrMessageTypeRequired
	}

	return &msg, nil
}

func (m *ClientMessage) validateItemID() error {
	if m.ItemID == nil || *m.ItemID < 0 {
		return shared.ErrItemIDRequired
	}
	return nil
}

// Validate validates a client message
func (m *ClientMessage) Validate() error {
	switch m.Type {
	case MessageTypeSubscribe, MessageTypeUnsubscribe:
		// Without an item id the subscription targets the lobby topic.
		if m.ItemID != nil && *m.ItemID < 0 {
			return shared.ErrItemIDRequired
		}
	case MessageTypeRegisterUser:
		if m.Data["user_type"] == nil {
			return shared.ErrUserTypeRequired
		}
		if m.Data["name"] == nil {
			return shared.ErrNameRequired
		}
	case MessageTypeListItem:
		if m.Data["name"] == nil {
			return shared.ErrNameRequired
		}
		quantity, ok := m.Data["quantity"].(float64)
		if !ok || quantity <= 0 {
			return shared.ErrInvalidItemFields
		}
		duration, ok := m.Data["duration_hours"].(float64)
		if !ok || duration <= 0 {
			return shared.ErrInvalidItemFields
		}
		if _, ok := m.Data["price"].(float64); !ok {
			return shared.ErrInvalidItemFields
		}
	case MessageTypeReserveItem:
		if err := m.validateItemID(); err != nil {
			return err
		}
		amount, ok := m.Data["paid_amount"].(float64)
		if !ok || amount < 0 {
			return shared.ErrInvalidAmount
		}
	case MessageTypeConfirmCollection, MessageTypeMarkExpired, MessageTypeGetItem:
		if err := m.validateItemID(); err != nil {
			return err
		}
	case MessageTypeGetUser, MessageTypeGetStats, MessageTypePing:

	default:
		return shared.ErrUnknownMessageType
	}

	return nil
}
