package memory

import (
	"context"
	"sync"

	"foodloop-marketplace-service/internal/domain/item"
	"foodloop-marketplace-service/internal/domain/shared"
	"foodloop-marketplace-service/internal/domain/user"
	"foodloop-marketplace-service/internal/ports/outbound"

	"github.com/google/uuid"
)

// Registry is an in-memory implementation of the registry contract: a
// mutex-guarded key-value mapping from item id to Item and from principal to
// User, plus the global aggregates. Records are copied on the way in and out
// so callers never share memory with the store.
type Registry struct {
	mu    sync.RWMutex
	items map[int64]*item.Item
	users map[uuid.UUID]*user.User
	stats shared.Stats
}

// NewRegistry creates an empty in-memory registry
func NewRegistry() *Registry {
	return &Registry{
		items: make(map[int64]*item.Item),
		users: make(map[uuid.UUID]*user.User),
	}
}

// Items returns the item repository view of the registry
func (r *Registry) Items() outbound.ItemRepository {
	return &itemStore{registry: r}
}

// Users returns the user repository view of the registry
func (r *Registry) Users() outbound.UserRepository {
	return &userStore{registry: r}
}

// Stats returns the stats repository view of the registry
func (r *Registry) Stats() outbound.StatsRepository {
	return &statsStore{registry: r}
}

type itemStore struct {
	registry *Registry
}

// cloneItem copies the record including the write-once recipient pointer.
func cloneItem(it *item.Item) *item.Item {
	cloned := *it
	if it.Recipient != nil {
		recipient := *it.Recipient
		cloned.Recipient = &recipient
	}
	return &cloned
}

func (s *itemStore) Create(ctx context.Context, it *item.Item) error {
	s.registry.mu.Lock()
	defer s.registry.mu.Unlock()

	s.registry.items[it.ID] = cloneItem(it)
	return nil
}

func (s *itemStore) GetByID(ctx context.Context, id int64) (*item.Item, error) {
	s.registry.mu.RLock()
	defer s.registry.mu.RUnlock()

	stored, ok := s.registry.items[id]
	if !ok {
		return nil, shared.ErrItemNotFound
	}

	return cloneItem(stored), nil
}

func (s *itemStore) Update(ctx context.Context, it *item.Item) error {
	s.registry.mu.Lock()
	defer s.registry.mu.Unlock()

	if _, ok := s.registry.items[it.ID]; !ok {
		return shared.ErrItemNotFound
	}

	s.registry.items[it.ID] = cloneItem(it)
	return nil
}

func (s *itemStore) List(ctx context.Context) ([]*item.Item, error) {
	s.registry.mu.RLock()
	defer s.registry.mu.RUnlock()

	items := make([]*item.Item, 0, len(s.registry.items))
	for _, stored := range s.registry.items {
		items = append(items, cloneItem(stored))
	}
	return items, nil
}

type userStore struct {
	registry *Registry
}

func (s *userStore) Create(ctx context.Context, u *user.User) error {
	s.registry.mu.Lock()
	defer s.registry.mu.Unlock()

	stored := *u
	s.registry.users[u.ID] = &stored
	return nil
}

func (s *userStore) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	s.registry.mu.RLock()
	defer s.registry.mu.RUnlock()

	stored, ok := s.registry.users[id]
	if !ok {
		return nil, shared.ErrUserNotFound
	}

	found := *stored
	return &found, nil
}

func (s *userStore) Update(ctx context.Context, u *user.User) error {
	s.registry.mu.Lock()
	defer s.registry.mu.Unlock()

	if _, ok := s.registry.users[u.ID]; !ok {
		return shared.ErrUserNotFound
	}

	stored := *u
	s.registry.users[u.ID] = &stored
	return nil
}

type statsStore struct {
	registry *Registry
}

func (s *statsStore) Get(ctx context.Context) (*shared.Stats, error) {
	s.registry.mu.RLock()
	defer s.registry.mu.RUnlock()

	stats := s.registry.stats
	return &stats, nil
}

func (s *statsStore) Put(ctx context.Context, stats *shared.Stats) error {
	s.registry.mu.Lock()
	defer s.registry.mu.Unlock()

	s.registry.stats = *stats
	return nil
}
