package db

import (
	"foodloop-marketplace-service/internal/ports/outbound"
)

// RepositoryFactory creates and manages all registry repositories
type RepositoryFactory struct {
	conn *Connection
}

// NewRepositoryFactory creates a new repository factory
func NewRepositoryFactory(conn *Connection) *RepositoryFactory {
	return &RepositoryFactory{conn: conn}
}

// GetItemRepository returns the item repository
func (f *RepositoryFactory) GetItemRepository() outbound.ItemRepository {
	return NewItemRepository(f.conn)
}

// GetUserRepository returns the user repository
func (f *RepositoryFactory) GetUserRepository() outbound.UserRepository {
	return NewUserRepository(f.conn)
}

// GetStatsRepository returns the stats repository
func (f *RepositoryFactory) GetStatsRepository() outbound.StatsRepository {
	return NewStatsRepository(f.conn)
}
