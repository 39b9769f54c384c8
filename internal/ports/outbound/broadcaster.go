package outbound

import (
	"context"
	"fmt"
)

// EventType represents the type of event being broadcasted
type EventType string

const (
	EventTypeUserRegistered EventType = "user.registered"
	EventTypeItemListed     EventType = "item.listed"
	EventTypeItemReserved   EventType = "item.reserved"
	EventTypeItemCollected  EventType = "item.collected"
	EventTypeError          EventType = "error"
)

// LobbyTopic carries marketplace-wide events (registrations, new listings).
// Per-item events are published on ItemTopic(id).
const LobbyTopic = "marketplace:lobby"

// ItemTopic returns the broadcast topic for a single item.
func ItemTopic(id int64) string {
	return fmt.Sprintf("item:%d", id)
}

// Event represents a broadcast event. Events are observational only and
// never affect engine state.
type Event struct {
	Type      EventType              `json:"type"`
	Topic     string                 `json:"topic"`
	Data      map[string]interface{} `json:"data"`
	Timestamp int64                  `json:"timestamp"`
}

// Broadcaster defines the interface for broadcasting events
type Broadcaster interface {
	// Subscribe subscribes a client to events on a topic
	// When a client subscribes to multiple topics, all events are delivered to the same channel
	Subscribe(ctx context.Context, topic string, clientID string, eventChan chan Event) error

	// Unsubscribe unsubscribes a client from a topic
	Unsubscribe(ctx context.Context, topic string, clientID string) error

	// Publish publishes an event to all subscribers of a topic
	Publish(ctx context.Context, topic string, event Event) error

	// GetSubscribers returns the list of client IDs subscribed to a topic
	GetSubscribers(ctx context.Context, topic string) ([]string, error)

	// IsSubscribed checks if a client is subscribed to a topic
	IsSubscribed(ctx context.Context, topic string, clientID string) bool
}
