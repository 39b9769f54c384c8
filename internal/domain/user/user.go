package user

import (
	"time"

	"github.com/google/uuid"
)

// Type represents the marketplace capability of a user
type Type string

const (
	TypeNone      Type = "none"
	TypeSupplier  Type = "supplier"
	TypeRecipient Type = "recipient"
	TypeBoth      Type = "both"
)

// InitialReputation is assigned to every user at registration.
const InitialReputation = 100

const (
	collectionReward = 5
	noShowPenalty    = 10
)

// IsRegistrable reports whether t is a valid type for registration.
func (t Type) IsRegistrable() bool {
	return t == TypeSupplier || t == TypeRecipient || t == TypeBoth
}

// User represents a registered marketplace participant. Counters are
// strictly increasing; reputation saturates at zero and never underflows.
type User struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Type          Type      `json:"type"`
	ItemsListed   int64     `json:"items_listed"`
	ItemsReceived int64     `json:"items_received"`
	Reputation    int64     `json:"reputation"`
	WasteSaved    int64     `json:"waste_saved"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CanSupply reports whether the user may list items.
func (u *User) CanSupply() bool {
	return u.Type == TypeSupplier || u.Type == TypeBoth
}

// CanReceive reports whether the user may reserve items.
func (u *User) CanReceive() bool {
	return u.Type == TypeRecipient || u.Type == TypeBoth
}

// RecordListing increments the listing counter.
func (u *User) RecordListing(now time.Time) {
	u.ItemsListed++
	u.UpdatedAt = now
}

// RecordCollection credits the user as the recipient of a collected item.
func (u *User) RecordCollection(quantity int64, now time.Time) {
	u.ItemsReceived++
	u.WasteSaved += quantity
	u.UpdatedAt = now
}

// RewardCollection raises reputation for a completed handoff.
func (u *User) RewardCollection(now time.Time) {
	u.Reputation += collectionReward
	u.UpdatedAt = now
}

// PenalizeNoShow lowers reputation for reserving and failing to collect.
// Saturates at zero.
func (u *User) PenalizeNoShow(now time.Time) {
	if u.Reputation > noShowPenalty {
		u.Reputation -= noShowPenalty
	} else {
		u.Reputation = 0
	}
	u.UpdatedAt = now
}
