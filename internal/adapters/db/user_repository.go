package db

import (
	"context"
	"database/sql"
	"fmt"

	"foodloop-marketplace-service/internal/domain/shared"
	"foodloop-marketplace-service/internal/domain/user"

	"github.com/google/uuid"
)

// UserRepository implements the user registry contract on PostgreSQL
type UserRepository struct {
	conn *Connection
}

// NewUserRepository creates a new user repository
func NewUserRepository(conn *Connection) *UserRepository {
	return &UserRepository{conn: conn}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, name, type, items_listed, items_received, reputation, waste_saved, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.conn.GetDB().ExecContext(ctx, query,
		u.ID,
		u.Name,
		u.Type,
		u.ItemsListed,
		u.ItemsReceived,
		u.Reputation,
		u.WasteSaved,
		u.CreatedAt,
		u.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by principal
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `
		SELECT id, name, type, items_listed, items_received, reputation, waste_saved, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var u user.User
	err := r.conn.GetDB().QueryRowContext(ctx, query, id).Scan(
		&u.ID,
		&u.Name,
		&u.Type,
		&u.ItemsListed,
		&u.ItemsReceived,
		&u.Reputation,
		&u.WasteSaved,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, shared.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &u, nil
}

// Update updates an existing user
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users
		SET items_listed = $2, items_received = $3, reputation = $4, waste_saved = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.conn.GetDB().ExecContext(ctx, query,
		u.ID,
		u.ItemsListed,
		u.ItemsReceived,
		u.Reputation,
		u.WasteSaved,
		u.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return shared.ErrUserNotFound
	}

	return nil
}
