package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
)

// OrderChange is one notification from the order change feed. It carries only
// the order's identity; consumers re-fetch the authoritative state, since a
// feed event may be stale by the time it is handled.
type OrderChange struct {
	OrderID kernel.UUID
}

// OrderChangeFeed streams notifications about order state changes, used to
// push pool updates to connected driver clients without polling.
type OrderChangeFeed interface {
	// Subscribe starts delivering change notifications to the returned
	// channel until ctx is cancelled. The channel is closed on shutdown.
	Subscribe(ctx context.Context) (<-chan OrderChange, error)
}
