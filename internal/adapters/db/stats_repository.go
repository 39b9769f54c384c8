package db

import (
	"context"
	"fmt"

	"foodloop-marketplace-service/internal/domain/shared"
)

// StatsRepository implements the aggregates registry contract on PostgreSQL.
// The aggregates live in a single-row table so they can be read and replaced
// as one record.
type StatsRepository struct {
	conn *Connection
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(conn *Connection) *StatsRepository {
	return &StatsRepository{conn: conn}
}

// Get retrieves the current aggregates
func (r *StatsRepository) Get(ctx context.Context) (*shared.Stats, error) {
	query := `
		SELECT item_count, total_waste_saved, total_items_listed
		FROM marketplace_stats
		WHERE id = 1
	`

	var stats shared.Stats
	err := r.conn.GetDB().QueryRowContext(ctx, query).Scan(
		&stats.ItemCount,
		&stats.TotalWasteSaved,
		&stats.TotalItemsListed,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	return &stats, nil
}

// Put stores the aggregates
func (r *StatsRepository) Put(ctx context.Context, stats *shared.Stats) error {
	query := `
		UPDATE marketplace_stats
		SET item_count = $1, total_waste_saved = $2, total_items_listed = $3
		WHERE id = 1
	`

	_, err := r.conn.GetDB().ExecContext(ctx, query,
		stats.ItemCount,
		stats.TotalWasteSaved,
		stats.TotalItemsListed,
	)

	if err != nil {
		return fmt.Errorf("failed to update stats: %w", err)
	}

	return nil
}
