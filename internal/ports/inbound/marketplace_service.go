package inbound

import (
	"context"

	"foodloop-marketplace-service/internal/domain/item"
	"foodloop-marketplace-service/internal/domain/shared"
	"foodloop-marketplace-service/internal/domain/user"

	"github.com/google/uuid"
)

// MarketplaceService defines the interface for marketplace operations.
// The caller id on every request is an authenticated principal supplied by
// the transport layer; the engine validates everything else.
type MarketplaceService interface {
	// RegisterUser registers a new marketplace participant
	RegisterUser(ctx context.Context, req RegisterUserRequest) (*user.User, error)

	// ListItem lists a new surplus item for collection
	ListItem(ctx context.Context, req ListItemRequest) (*item.Item, error)

	// ReserveItem reserves an available item and settles payment
	ReserveItem(ctx context.Context, req ReserveItemRequest) (*item.Item, error)

	// ConfirmCollection confirms handoff of a reserved item
	ConfirmCollection(ctx context.Context, req ConfirmCollectionRequest) (*item.Item, error)

	// MarkExpired marks an overdue item as expired (permissionless)
	MarkExpired(ctx context.Context, req MarkExpiredRequest) (*item.Item, error)

	// GetItem retrieves an item by id
	GetItem(ctx context.Context, id int64) (*item.Item, error)

	// GetUser retrieves a user by principal
	GetUser(ctx context.Context, id uuid.UUID) (*user.User, error)

	// GetStats retrieves the global aggregates
	GetStats(ctx context.Context) (*shared.Stats, error)

	// CountAvailableItems counts items currently available and unexpired
	CountAvailableItems(ctx context.Context) (int64, error)

	// IsReservable reports whether an item can currently be reserved
	IsReservable(ctx context.Context, id int64) (bool, error)
}

// request to register a user
type RegisterUserRequest struct {
	UserID uuid.UUID `json:"user_id"`
	Type   user.Type `json:"type"`
	Name   string    `json:"name"`
}

// request to list an item
type ListItemRequest struct {
	SupplierID    uuid.UUID `json:"supplier_id"`
	Name          string    `json:"name"`
	Quantity      int64     `json:"quantity"`
	DurationHours int64     `json:"duration_hours"`
	Price         int64     `json:"price"`
	Location      string    `json:"location"`
}

// request to reserve an item
type ReserveItemRequest struct {
	ItemID      int64     `json:"item_id"`
	RecipientID uuid.UUID `json:"recipient_id"`
	PaidAmount  int64     `json:"paid_amount"`
}

// request to confirm collection of a reserved item
type ConfirmCollectionRequest struct {
	ItemID   int64     `json:"item_id"`
	CallerID uuid.UUID `json:"caller_id"`
}

// request to mark an item expired
type MarkExpiredRequest struct {
	ItemID   int64     `json:"item_id"`
	CallerID uuid.UUID `json:"caller_id"`
}
