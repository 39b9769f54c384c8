package shared

import "errors"

// Domain-specific errors
var (
	// Lookup errors
	ErrItemNotFound = errors.New("item not found")
	ErrUserNotFound = errors.New("user not found")

	// Registration errors
	ErrAlreadyRegistered = errors.New("user is already registered")
	ErrInvalidUserType   = errors.New("invalid user type")
	ErrNotRegistered     = errors.New("user is not registered")

	// Listing errors
	ErrNotSupplier     = errors.New("user is not registered as a supplier")
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
	ErrInvalidDuration = errors.New("duration must be greater than 0")

	// Reservation errors
	ErrNotRecipient        = errors.New("user is not registered as a recipient")
	ErrItemNotAvailable    = errors.New("item is not available for reservation")
	ErrItemExpired         = errors.New("item has expired")
	ErrSelfReservation     = errors.New("supplier cannot reserve their own item")
	ErrInsufficientPayment = errors.New("paid amount is below the item price")

	// Collection errors
	ErrItemNotReserved = errors.New("item is not reserved")
	ErrNotAuthorized   = errors.New("caller is neither recipient nor supplier of the item")

	// Expiry errors
	ErrItemNotExpiredYet = errors.New("item has not expired yet")
	ErrAlreadyCollected  = errors.New("item was already collected")

	// Settlement errors
	ErrTransferFailed    = errors.New("value transfer failed")
	ErrInsufficientFunds = errors.New("insufficient wallet funds")

	// Database errors
	ErrDatabaseConnection  = errors.New("database connection failed")
	ErrDatabaseQuery       = errors.New("database query failed")
	ErrDatabaseTransaction = errors.New("database transaction failed")

	// WebSocket message validation errors
	ErrMessageTypeRequired = errors.New("message type is required")
	ErrItemIDRequired      = errors.New("item_id is required")
	ErrInvalidAmount       = errors.New("valid amount is required")
	ErrNameRequired        = errors.New("name is required")
	ErrUserTypeRequired    = errors.New("user_type is required")
	ErrInvalidItemFields   = errors.New("quantity, duration_hours and price are required")
	ErrUnknownMessageType  = errors.New("unknown message type")

	// Broadcasting errors
	ErrBroadcastFailed            = errors.New("broadcast failed")
	ErrClientEventChannelNotFound = errors.New("client event channel not found")
)
