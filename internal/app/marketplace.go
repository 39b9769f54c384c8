package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"foodloop-marketplace-service/internal/domain/item"
	"foodloop-marketplace-service/internal/domain/shared"
	"foodloop-marketplace-service/internal/domain/user"
	"foodloop-marketplace-service/internal/ports/inbound"
	"foodloop-marketplace-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// MarketplaceEngine implements the marketplace use cases: the item lifecycle
// state machine, payment settlement and reputation accounting. All mutating
// operations run under a single mutex, so each public operation is atomic and
// serialized with respect to every other one touching the same records.
type MarketplaceEngine struct {
	itemRepo    outbound.ItemRepository
	userRepo    outbound.UserRepository
	statsRepo   outbound.StatsRepository
	transfer    outbound.ValueTransfer
	broadcaster outbound.Broadcaster
	now         func() time.Time
	mu          sync.Mutex
	logger      zerolog.Logger
}

type MarketplaceEngineParams struct {
	ItemRepo    outbound.ItemRepository
	UserRepo    outbound.UserRepository
	StatsRepo   outbound.StatsRepository
	Transfer    outbound.ValueTransfer
	Broadcaster outbound.Broadcaster
	// Clock overrides the time source; defaults to time.Now.
	Clock  func() time.Time
	Logger zerolog.Logger
}

// NewMarketplaceEngine creates a new marketplace engine
func NewMarketplaceEngine(params MarketplaceEngineParams) *MarketplaceEngine {
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}

	return &MarketplaceEngine{
		itemRepo:    params.ItemRepo,
		userRepo:    params.UserRepo,
		statsRepo:   params.StatsRepo,
		transfer:    params.Transfer,
		broadcaster: params.Broadcaster,
		now:         clock,
		logger:      params.Logger.With().Str("component", "marketplace_engine").Logger(),
	}
}

// RegisterUser registers a new marketplace participant with an initial
// reputation of 100.
func (engine *MarketplaceEngine) RegisterUser(ctx context.Context, req inbound.RegisterUserRequest) (*user.User, error) {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	engine.logger.Info().
		Str("user_id", req.UserID.String()).
		Str("type", string(req.Type)).
		Str("name", req.Name).
		Msg("Attempting to register user")

	existing, err := engine.userRepo.GetByID(ctx, req.UserID)
	if err != nil && err != shared.ErrUserNotFound {
		engine.logger.Error().Err(err).Str("user_id", req.UserID.String()).Msg("Failed to look up user")
		return nil, err
	}
	if existing != nil {
		engine.logger.Warn().Str("user_id", req.UserID.String()).Msg("User already registered")
		return nil, shared.ErrAlreadyRegistered
	}

	if !req.Type.IsRegistrable() {
		engine.logger.Warn().Str("user_id", req.UserID.String()).Str("type", string(req.Type)).Msg("Invalid user type")
		return nil, shared.ErrInvalidUserType
	}

	now := engine.now()
	newUser := &user.User{
		ID:         req.UserID,
		Name:       req.Name,
		Type:       req.Type,
		Reputation: user.InitialReputation,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := engine.userRepo.Create(ctx, newUser); err != nil {
		engine.logger.Error().Err(err).Str("user_id", req.UserID.String()).Msg("Failed to create user")
		return nil, err
	}

	engine.publishEvent(ctx, outbound.LobbyTopic, outbound.Event{
		Type:  outbound.EventTypeUserRegistered,
		Topic: outbound.LobbyTopic,
		Data: map[string]interface{}{
			"user_id": newUser.ID,
			"type":    newUser.Type,
		},
		Timestamp: now.Unix(),
	})

	engine.logger.Info().Str("user_id", newUser.ID.String()).Msg("User registered successfully")
	return newUser, nil
}

// ListItem lists a new surplus item, allocating the next monotonic id.
func (engine *MarketplaceEngine) ListItem(ctx context.Context, req inbound.ListItemRequest) (*item.Item, error) {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	engine.logger.Info().
		Str("supplier_id", req.SupplierID.String()).
		Str("name", req.Name).
		Int64("quantity", req.Quantity).
		Int64("duration_hours", req.DurationHours).
		Int64("price", req.Price).
		Msg("Attempting to list item")

	supplier, err := engine.userRepo.GetByID(ctx, req.SupplierID)
	if err != nil {
		if err == shared.ErrUserNotFound {
			engine.logger.Warn().Str("supplier_id", req.SupplierID.String()).Msg("Supplier not registered")
			return nil, shared.ErrNotRegistered
		}
		engine.logger.Error().Err(err).Str("supplier_id", req.SupplierID.String()).Msg("Failed to look up supplier")
		return nil, err
	}

	if !supplier.CanSupply() {
		engine.logger.Warn().
			Str("supplier_id", req.SupplierID.String()).
			Str("type", string(supplier.Type)).
			Msg("User is not a supplier")
		return nil, shared.ErrNotSupplier
	}

	if req.Quantity <= 0 {
		engine.logger.Warn().Int64("quantity", req.Quantity).Msg("Invalid quantity")
		return nil, shared.ErrInvalidQuantity
	}

	if req.DurationHours <= 0 {
		engine.logger.Warn().Int64("duration_hours", req.DurationHours).Msg("Invalid duration")
		return nil, shared.ErrInvalidDuration
	}

	stats, err := engine.statsRepo.Get(ctx)
	if err != nil {
		engine.logger.Error().Err(err).Msg("Failed to load stats")
		return nil, err
	}

	now := engine.now()
	newItem := &item.Item{
		ID:         stats.ItemCount,
		Name:       req.Name,
		Location:   req.Location,
		Supplier:   req.SupplierID,
		Quantity:   req.Quantity,
		Price:      req.Price,
		ExpiryTime: now.Add(time.Duration(req.DurationHours) * time.Hour),
		Status:     item.StatusAvailable,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := engine.itemRepo.Create(ctx, newItem); err != nil {
		engine.logger.Error().Err(err).Int64("item_id", newItem.ID).Msg("Failed to create item")
		return nil, err
	}

	supplier.RecordListing(now)
	if err := engine.userRepo.Update(ctx, supplier); err != nil {
		engine.logger.Error().Err(err).Str("supplier_id", supplier.ID.String()).Msg("Failed to update supplier")
		return nil, err
	}

	stats.ItemCount++
	stats.TotalItemsListed++
	if err := engine.statsRepo.Put(ctx, stats); err != nil {
		engine.logger.Error().Err(err).Msg("Failed to update stats")
		return nil, err
	}

	engine.publishEvent(ctx, outbound.LobbyTopic, outbound.Event{
		Type:  outbound.EventTypeItemListed,
		Topic: outbound.LobbyTopic,
		Data: map[string]interface{}{
			"item_id":  newItem.ID,
			"supplier": newItem.Supplier,
		},
		Timestamp: now.Unix(),
	})

	engine.logger.Info().
		Int64("item_id", newItem.ID).
		Time("expiry_time", newItem.ExpiryTime).
		Msg("Item listed successfully")
	return newItem, nil
}

// ReserveItem reserves an available item for the caller and settles payment.
// The state transition and the settlement are one atomic unit: if any
// transfer fails, no state change is applied.
func (engine *MarketplaceEngine) ReserveItem(ctx context.Context, req inbound.ReserveItemRequest) (*item.Item, error) {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	engine.logger.Info().
		Int64("item_id", req.ItemID).
		Str("recipient_id", req.RecipientID.String()).
		Int64("paid_amount", req.PaidAmount).
		Msg("Attempting to reserve item")

	reserved, err := engine.itemRepo.GetByID(ctx, req.ItemID)
	if err != nil {
		engine.logger.Warn().Err(err).Int64("item_id", req.ItemID).Msg("Item lookup failed")
		return nil, err
	}

	recipient, err := engine.userRepo.GetByID(ctx, req.RecipientID)
	if err != nil {
		if err == shared.ErrUserNotFound {
			engine.logger.Warn().Str("recipient_id", req.RecipientID.String()).Msg("Recipient not registered")
			return nil, shared.ErrNotRegistered
		}
		engine.logger.Error().Err(err).Str("recipient_id", req.RecipientID.String()).Msg("Failed to look up recipient")
		return nil, err
	}

	if !recipient.CanReceive() {
		engine.logger.Warn().
			Str("recipient_id", req.RecipientID.String()).
			Str("type", string(recipient.Type)).
			Msg("User is not a recipient")
		return nil, shared.ErrNotRecipient
	}

	if reserved.Status != item.StatusAvailable {
		engine.logger.Warn().
			Int64("item_id", reserved.ID).
			Str("status", string(reserved.Status)).
			Msg("Item not available")
		return nil, shared.ErrItemNotAvailable
	}

	now := engine.now()
	if reserved.IsExpired(now) {
		engine.logger.Warn().
			Int64("item_id", reserved.ID).
			Time("expiry_time", reserved.ExpiryTime).
			Msg("Item has expired")
		return nil, shared.ErrItemExpired
	}

	if reserved.Supplier == req.RecipientID {
		engine.logger.Warn().Int64("item_id", reserved.ID).Msg("Supplier attempted to reserve own item")
		return nil, shared.ErrSelfReservation
	}

	if req.PaidAmount < reserved.Price {
		engine.logger.Warn().
			Int64("item_id", reserved.ID).
			Int64("price", reserved.Price).
			Int64("paid_amount", req.PaidAmount).
			Msg("Insufficient payment")
		return nil, shared.ErrInsufficientPayment
	}

	// Settlement precedes all registry writes so a transfer failure aborts
	// the whole operation with no observable state change.
	if err := engine.settleReservation(ctx, reserved, req.RecipientID, req.PaidAmount); err != nil {
		return nil, err
	}

	reserved.Reserve(req.RecipientID, now)
	if err := engine.itemRepo.Update(ctx, reserved); err != nil {
		engine.logger.Error().Err(err).Int64("item_id", reserved.ID).Msg("Failed to update item")
		return nil, err
	}

	engine.publishEvent(ctx, outbound.ItemTopic(reserved.ID), outbound.Event{
		Type:  outbound.EventTypeItemReserved,
		Topic: outbound.ItemTopic(reserved.ID),
		Data: map[string]interface{}{
			"item_id":   reserved.ID,
			"recipient": req.RecipientID,
		},
		Timestamp: now.Unix(),
	})

	engine.logger.Info().
		Int64("item_id", reserved.ID).
		Str("recipient_id", req.RecipientID.String()).
		Msg("Item reserved successfully")
	return reserved, nil
}

// settleReservation routes the reservation payment: any excess over the
// price goes back to the payer, and the price itself goes to the supplier.
// The two transfers target different parties, so their order is not
// observable; either failing rejects the reservation.
func (engine *MarketplaceEngine) settleReservation(ctx context.Context, reserved *item.Item, payer uuid.UUID, paidAmount int64) error {
	if excess := paidAmount - reserved.Price; excess > 0 {
		if err := engine.transfer.Transfer(ctx, payer, excess); err != nil {
			engine.logger.Error().Err(err).
				Int64("item_id", reserved.ID).
				Int64("excess", excess).
				Msg("Failed to refund excess payment")
			return fmt.Errorf("%w: %v", shared.ErrTransferFailed, err)
		}
	}

	if reserved.Price > 0 {
		if err := engine.transfer.Transfer(ctx, reserved.Supplier, reserved.Price); err != nil {
			engine.logger.Error().Err(err).
				Int64("item_id", reserved.ID).
				Int64("price", reserved.Price).
				Msg("Failed to pay supplier")
			return fmt.Errorf("%w: %v", shared.ErrTransferFailed, err)
		}
	}

	return nil
}

// ConfirmCollection confirms handoff of a reserved item. Either the recorded
// recipient or the supplier may attest the handoff.
func (engine *MarketplaceEngine) ConfirmCollection(ctx context.Context, req inbound.ConfirmCollectionRequest) (*item.Item, error) {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	engine.logger.Info().
		Int64("item_id", req.ItemID).
		Str("caller_id", req.CallerID.String()).
		Msg("Attempting to confirm collection")

	collected, err := engine.itemRepo.GetByID(ctx, req.ItemID)
	if err != nil {
		engine.logger.Warn().Err(err).Int64("item_id", req.ItemID).Msg("Item lookup failed")
		return nil, err
	}

	if collected.Status != item.StatusReserved {
		engine.logger.Warn().
			Int64("item_id", collected.ID).
			Str("status", string(collected.Status)).
			Msg("Item not reserved")
		return nil, shared.ErrItemNotReserved
	}

	if req.CallerID != *collected.Recipient && req.CallerID != collected.Supplier {
		engine.logger.Warn().
			Int64("item_id", collected.ID).
			Str("caller_id", req.CallerID.String()).
			Msg("Caller not authorized to confirm collection")
		return nil, shared.ErrNotAuthorized
	}

	recipient, err := engine.userRepo.GetByID(ctx, *collected.Recipient)
	if err != nil {
		engine.logger.Error().Err(err).Str("recipient_id", collected.Recipient.String()).Msg("Failed to look up recipient")
		return nil, err
	}

	supplier, err := engine.userRepo.GetByID(ctx, collected.Supplier)
	if err != nil {
		engine.logger.Error().Err(err).Str("supplier_id", collected.Supplier.String()).Msg("Failed to look up supplier")
		return nil, err
	}

	stats, err := engine.statsRepo.Get(ctx)
	if err != nil {
		engine.logger.Error().Err(err).Msg("Failed to load stats")
		return nil, err
	}

	now := engine.now()
	collected.Collect(now)
	if err := engine.itemRepo.Update(ctx, collected); err != nil {
		engine.logger.Error().Err(err).Int64("item_id", collected.ID).Msg("Failed to update item")
		return nil, err
	}

	recipient.RecordCollection(collected.Quantity, now)
	recipient.RewardCollection(now)
	if err := engine.userRepo.Update(ctx, recipient); err != nil {
		engine.logger.Error().Err(err).Str("recipient_id", recipient.ID.String()).Msg("Failed to update recipient")
		return nil, err
	}

	supplier.RewardCollection(now)
	if err := engine.userRepo.Update(ctx, supplier); err != nil {
		engine.logger.Error().Err(err).Str("supplier_id", supplier.ID.String()).Msg("Failed to update supplier")
		return nil, err
	}

	stats.TotalWasteSaved += collected.Quantity
	if err := engine.statsRepo.Put(ctx, stats); err != nil {
		engine.logger.Error().Err(err).Msg("Failed to update stats")
		return nil, err
	}

	engine.publishEvent(ctx, outbound.ItemTopic(collected.ID), outbound.Event{
		Type:  outbound.EventTypeItemCollected,
		Topic: outbound.ItemTopic(collected.ID),
		Data: map[string]interface{}{
			"item_id": collected.ID,
		},
		Timestamp: now.Unix(),
	})

	engine.logger.Info().
		Int64("item_id", collected.ID).
		Int64("quantity", collected.Quantity).
		Msg("Collection confirmed successfully")
	return collected, nil
}

// MarkExpired marks an overdue item as expired. Anyone may call it; it is an
// open maintenance operation. Marking an already expired item is a no-op, so
// a reserved recipient is penalized at most once per item.
func (engine *MarketplaceEngine) MarkExpired(ctx context.Context, req inbound.MarkExpiredRequest) (*item.Item, error) {
	engine.mu.Lock()
	defer engine.mu.Unlock()

	engine.logger.Info().
		Int64("item_id", req.ItemID).
		Str("caller_id", req.CallerID.String()).
		Msg("Attempting to mark item expired")

	expired, err := engine.itemRepo.GetByID(ctx, req.ItemID)
	if err != nil {
		engine.logger.Warn().Err(err).Int64("item_id", req.ItemID).Msg("Item lookup failed")
		return nil, err
	}

	now := engine.now()
	if !expired.IsExpired(now) {
		engine.logger.Warn().
			Int64("item_id", expired.ID).
			Time("expiry_time", expired.ExpiryTime).
			Msg("Item has not expired yet")
		return nil, shared.ErrItemNotExpiredYet
	}

	if expired.Status == item.StatusCollected {
		engine.logger.Warn().Int64("item_id", expired.ID).Msg("Item was already collected")
		return nil, shared.ErrAlreadyCollected
	}

	if expired.Status == item.StatusExpired {
		engine.logger.Debug().Int64("item_id", expired.ID).Msg("Item already marked expired")
		return expired, nil
	}

	wasReserved := expired.Status == item.StatusReserved
	recipientID := expired.Recipient

	expired.Expire(now)
	if err := engine.itemRepo.Update(ctx, expired); err != nil {
		engine.logger.Error().Err(err).Int64("item_id", expired.ID).Msg("Failed to update item")
		return nil, err
	}

	if wasReserved && recipientID != nil {
		recipient, err := engine.userRepo.GetByID(ctx, *recipientID)
		if err != nil {
			engine.logger.Error().Err(err).Str("recipient_id", recipientID.String()).Msg("Failed to look up recipient for penalty")
			return nil, err
		}

		recipient.PenalizeNoShow(now)
		if err := engine.userRepo.Update(ctx, recipient); err != nil {
			engine.logger.Error().Err(err).Str("recipient_id", recipient.ID.String()).Msg("Failed to update recipient")
			return nil, err
		}

		engine.logger.Info().
			Str("recipient_id", recipient.ID.String()).
			Int64("reputation", recipient.Reputation).
			Msg("Recipient penalized for missed collection")
	}

	engine.logger.Info().Int64("item_id", expired.ID).Msg("Item marked expired")
	return expired, nil
}

// GetItem retrieves an item by id
func (engine *MarketplaceEngine) GetItem(ctx context.Context, id int64) (*item.Item, error) {
	return engine.itemRepo.GetByID(ctx, id)
}

// GetUser retrieves a user by principal
func (engine *MarketplaceEngine) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return engine.userRepo.GetByID(ctx, id)
}

// GetStats retrieves the global aggregates
func (engine *MarketplaceEngine) GetStats(ctx context.Context) (*shared.Stats, error) {
	return engine.statsRepo.Get(ctx)
}

// CountAvailableItems counts items currently available and unexpired. The
// count recomputes expiry from the current time instead of trusting Status,
// since markExpired is caller-triggered.
func (engine *MarketplaceEngine) CountAvailableItems(ctx context.Context) (int64, error) {
	items, err := engine.itemRepo.List(ctx)
	if err != nil {
		return 0, err
	}

	now := engine.now()
	var count int64
	for _, it := range items {
		if it.IsReservable(now) {
			count++
		}
	}
	return count, nil
}

// IsReservable reports whether an item can currently be reserved, combining
// its status with a fresh expiry check.
func (engine *MarketplaceEngine) IsReservable(ctx context.Context, id int64) (bool, error) {
	it, err := engine.itemRepo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return it.IsReservable(engine.now()), nil
}

// publishEvent fires an observational event. Publish failures are logged and
// never affect the operation that triggered them.
func (engine *MarketplaceEngine) publishEvent(ctx context.Context, topic string, event outbound.Event) {
	if engine.broadcaster == nil {
		return
	}

	if err := engine.broadcaster.Publish(ctx, topic, event); err != nil {
		engine.logger.Error().Err(err).
			Str("topic", topic).
			Str("event_type", string(event.Type)).
			Msg("Failed to broadcast event")
	}
}
