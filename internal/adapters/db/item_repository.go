package db

import (
	"context"
	"database/sql"
	"fmt"

	"foodloop-marketplace-service/internal/domain/item"
	"foodloop-marketplace-service/internal/domain/shared"

	"github.com/google/uuid"
)

// ItemRepository implements the item registry contract on PostgreSQL
type ItemRepository struct {
	conn *Connection
}

// NewItemRepository creates a new item repository
func NewItemRepository(conn *Connection) *ItemRepository {
	return &ItemRepository{conn: conn}
}

// Create creates a new item
func (r *ItemRepository) Create(ctx context.Context, it *item.Item) error {
	query := `
		INSERT INTO items (id, name, location, supplier, recipient, quantity, price, expiry_time, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.conn.GetDB().ExecContext(ctx, query,
		it.ID,
		it.Name,
		it.Location,
		it.Supplier,
		recipientValue(it),
		it.Quantity,
		it.Price,
		it.ExpiryTime,
		it.Status,
		it.CreatedAt,
		it.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	return nil
}

// GetByID retrieves an item by id
func (r *ItemRepository) GetByID(ctx context.Context, id int64) (*item.Item, error) {
	query := `
		SELECT id, name, location, supplier, recipient, quantity, price, expiry_time, status, created_at, updated_at
		FROM items
		WHERE id = $1
	`

	it, err := scanItem(r.conn.GetDB().QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, shared.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return it, nil
}

// Update updates an existing item
func (r *ItemRepository) Update(ctx context.Context, it *item.Item) error {
	query := `
		UPDATE items
		SET recipient = $2, status = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.conn.GetDB().ExecContext(ctx, query,
		it.ID,
		recipientValue(it),
		it.Status,
		it.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return shared.ErrItemNotFound
	}

	return nil
}

// List retrieves all items
func (r *ItemRepository) List(ctx context.Context) ([]*item.Item, error) {
	query := `
		SELECT id, name, location, supplier, recipient, quantity, price, expiry_time, status, created_at, updated_at
		FROM items
		ORDER BY id ASC
	`

	rows, err := r.conn.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []*item.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, it)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (*item.Item, error) {
	var it item.Item
	var recipient uuid.NullUUID

	err := row.Scan(
		&it.ID,
		&it.Name,
		&it.Location,
		&it.Supplier,
		&recipient,
		&it.Quantity,
		&it.Price,
		&it.ExpiryTime,
		&it.Status,
		&it.CreatedAt,
		&it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if recipient.Valid {
		it.Recipient = &recipient.UUID
	}

	return &it, nil
}

func recipientValue(it *item.Item) uuid.NullUUID {
	if it.Recipient == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *it.Recipient, Valid: true}
}
