package item

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the current lifecycle status of an item
type Status string

const (
	StatusAvailable Status = "available"
	StatusReserved  Status = "reserved"
	StatusCollected Status = "collected"
	StatusExpired   Status = "expired"
)

// Item represents a listed unit of surplus food. Supplier, quantity, price
// and expiry time are write-once at listing; recipient is write-once at
// reservation. Status only moves forward along
// Available -> Reserved -> Collected and Available|Reserved -> Expired.
type Item struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Location   string     `json:"location"`
	Supplier   uuid.UUID  `json:"supplier"`
	Recipient  *uuid.UUID `json:"recipient,omitempty"`
	Quantity   int64      `json:"quantity"`
	Price      int64      `json:"price"`
	ExpiryTime time.Time  `json:"expiry_time"`
	Status     Status     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// IsExpired reports whether the item's expiry time has passed. Callers must
// check this against the current time rather than trusting Status, since an
// item can be logically expired before anyone marks it so.
func (i *Item) IsExpired(now time.Time) bool {
	return !now.Before(i.ExpiryTime)
}

// IsReservable reports whether the item can currently be reserved.
func (i *Item) IsReservable(now time.Time) bool {
	return i.Status == StatusAvailable && !i.IsExpired(now)
}

// Reserve transitions the item to Reserved and records the recipient.
func (i *Item) Reserve(recipient uuid.UUID, now time.Time) {
	i.Status = StatusReserved
	i.Recipient = &recipient
	i.UpdatedAt = now
}

// Collect transitions the item to Collected.
func (i *Item) Collect(now time.Time) {
	i.Status = StatusCollected
	i.UpdatedAt = now
}

// Expire transitions the item to Expired.
func (i *Item) Expire(now time.Time) {
	i.Status = StatusExpired
	i.UpdatedAt = now
}
