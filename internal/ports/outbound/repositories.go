package outbound

import (
	"context"

	"foodloop-marketplace-service/internal/domain/item"
	"foodloop-marketplace-service/internal/domain/shared"
	"foodloop-marketplace-service/internal/domain/user"

	"github.com/google/uuid"
)

// ItemRepository defines the registry contract for item records
type ItemRepository interface {
	// Create stores a new item
	Create(ctx context.Context, item *item.Item) error

	// GetByID retrieves an item by id
	GetByID(ctx context.Context, id int64) (*item.Item, error)

	// Update updates an existing item
	Update(ctx context.Context, item *item.Item) error

	// List retrieves all items
	List(ctx context.Context) ([]*item.Item, error)
}

// UserRepository defines the registry contract for user records
type UserRepository interface {
	// Create stores a new user
	Create(ctx context.Context, user *user.User) error

	// GetByID retrieves a user by principal
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)

	// Update updates an existing user
	Update(ctx context.Context, user *user.User) error
}

// StatsRepository defines the registry contract for the global aggregates
type StatsRepository interface {
	// Get retrieves the current aggregates
	Get(ctx context.Context) (*shared.Stats, error)

	// Put stores the aggregates
	Put(ctx context.Context, stats *shared.Stats) error
}
