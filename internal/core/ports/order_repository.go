// Package ports defines the outbound contracts of the dispatch application.
// These interfaces establish contracts between the domain layer and
// infrastructure, enabling dependency inversion and testability.
package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
//
// Claim and release are expressed as conditional writes rather than
// load-modify-store so two drivers racing for the same order resolve at the
// storage layer: the write carries its own precondition and reports whether
// it took effect. Callers that lose a conditional write re-read the order to
// find out why.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The order must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns errs.ObjectNotFoundError if no such order exists.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllAvailable retrieves all orders in Available status, oldest first.
	// This is the pool drivers claim from.
	GetAllAvailable(ctx context.Context) ([]*order.Order, error)

	// GetAllActiveByDriver retrieves the orders a driver is currently working
	// (Assigned, Preparing, Ready or Enroute).
	GetAllActiveByDriver(ctx context.Context, driverID kernel.UUID) ([]*order.Order, error)

	// CountActiveByDriver returns how many orders the driver is currently
	// working. Used to derive the driver's availability status.
	CountActiveByDriver(ctx context.Context, driverID kernel.UUID) (int, error)

	// ClaimAvailable atomically assigns the order to the driver if and only if
	// the order is still Available with no driver. Returns true when this call
	// won the claim, false when the precondition no longer held. The order's
	// existence is not checked here; a false result may also mean no such order.
	ClaimAvailable(ctx context.Context, orderID kernel.UUID, driverID kernel.UUID, driverName string, at time.Time) (bool, error)

	// ReleaseAssigned atomically returns the order to the available pool if
	// and only if it is Assigned to the given driver. Returns true when the
	// release took effect.
	ReleaseAssigned(ctx context.Context, orderID kernel.UUID, driverID kernel.UUID) (bool, error)
}
