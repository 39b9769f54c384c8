package wallet

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisWallet implements the value-transfer primitive on Redis balances.
// A transfer is a single INCRBY, so it either settles in full or fails with
// no effect. Funds ingress (the recipient paying into the operation) happens
// upstream of the engine, so the wallet only ever credits.
type RedisWallet struct {
	client *redis.Client
	logger zerolog.Logger
}

type RedisWalletParams struct {
	RedisClient *redis.Client
	Logger      zerolog.Logger
}

// NewRedisWallet creates a new Redis-backed wallet
func NewRedisWallet(params RedisWalletParams) *RedisWallet {
	return &RedisWallet{
		client: params.RedisClient,
		logger: params.Logger.With().Str("component", "redis_wallet").Logger(),
	}
}

// Transfer credits amount to the given principal's balance
func (w *RedisWallet) Transfer(ctx context.Context, to uuid.UUID, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("transfer amount must be positive, got %d", amount)
	}

	key := balanceKey(to)
	balance, err := w.client.IncrBy(ctx, key, amount).Result()
	if err != nil {
		w.logger.Error().Err(err).
			Str("to", to.String()).
			Int64("amount", amount).
			Msg("Failed to credit balance")
		return fmt.Errorf("failed to credit balance: %w", err)
	}

	w.logger.Info().
		Str("to", to.String()).
		Int64("amount", amount).
		Int64("balance", balance).
		Msg("Transfer settled")
	return nil
}

// Balance returns the current balance of a principal
func (w *RedisWallet) Balance(ctx context.Context, principal uuid.UUID) (int64, error) {
	balance, err := w.client.Get(ctx, balanceKey(principal)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}
	return balance, nil
}

func balanceKey(principal uuid.UUID) string {
	return fmt.Sprintf("wallet:balance:%s", principal.String())
}
