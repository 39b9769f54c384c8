package db

import (
	"database/sql"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		items_listed BIGINT NOT NULL DEFAULT 0,
		items_received BIGINT NOT NULL DEFAULT 0,
		reputation BIGINT NOT NULL,
		waste_saved BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS items (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		location TEXT NOT NULL,
		supplier UUID NOT NULL REFERENCES users (id),
		recipient UUID REFERENCES users (id),
		quantity BIGINT NOT NULL,
		price BIGINT NOT NULL,
		expiry_time TIMESTAMPTZ NOT NULL,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS marketplace_stats (
		id SMALLINT PRIMARY KEY,
		item_count BIGINT NOT NULL DEFAULT 0,
		total_waste_saved BIGINT NOT NULL DEFAULT 0,
		total_items_listed BIGINT NOT NULL DEFAULT 0
	)`,
	`INSERT INTO marketplace_stats (id) VALUES (1) ON CONFLICT (id) DO NOTHING`,
}

// EnsureSchema creates the registry tables and seeds the single stats row.
// All statements run in one transaction.
func EnsureSchema(conn *Connection) error {
	return conn.ExecuteTransaction(func(tx *sql.Tx) error {
		for _, stmt := range schemaStatements {
			if _, err := tx.Exec(stmt); err != nil {
				return fmt.Errorf("failed to apply schema statement: %w", err)
			}
		}
		return nil
	})
}
