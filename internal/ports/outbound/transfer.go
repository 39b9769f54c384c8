package outbound

import (
	"context"

	"github.com/google/uuid"
)

// ValueTransfer is the external settlement primitive. A transfer is atomic
// and immediately settling: it either succeeds in full or fails with no
// effect. The engine never recurses into itself while a transfer is pending.
type ValueTransfer interface {
	// Transfer moves amount to the given principal
	Transfer(ctx context.Context, to uuid.UUID, amount int64) error
}
