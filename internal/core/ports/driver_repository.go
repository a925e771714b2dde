package ports

import (
	"context"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
)

// DriverRepository defines the persistence contract for driver aggregates.
type DriverRepository interface {
	// Add persists a new driver aggregate to storage.
	// The driver must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *driver.Driver) error

	// Update persists changes to an existing driver aggregate.
	// The driver must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *driver.Driver) error

	// DebitCash atomically subtracts a remitted amount from the driver's
	// cash on hand, guarded in storage so the balance cannot go negative and
	// concurrent debits cannot lose an update. Reports whether the debit
	// applied; false means the stored balance was below the amount.
	DebitCash(ctx context.Context, id kernel.UUID, amount kernel.Money) (bool, error)

	// Get retrieves a driver aggregate by its unique identifier.
	// Returns errs.ObjectNotFoundError if no such driver exists.
	Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error)

	// GetAll retrieves every driver. Used by the status reconciliation job
	// to re-derive availability from the order book.
	GetAll(ctx context.Context) ([]*driver.Driver, error)
}
