package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/settlement"
)

// SettlementRepository defines the persistence contract for the dual-entry
// cash ledger. Ledger entries are append-mostly; after creation only their
// settlement state changes.
//
// The storage layer enforces one driver transaction and one vendor
// transaction per order, which is what makes delivery completion safe to
// replay.
type SettlementRepository interface {
	// AddPair persists a cross-linked driver/vendor transaction pair in one
	// write. Returns errs.ErrValueIsInvalid-wrapped errors if either side is
	// invalid, and the storage duplicate error if the order already has a pair.
	AddPair(ctx context.Context, driverTx *settlement.DriverTransaction, vendorTx *settlement.VendorTransaction) error

	// AddDriverTransaction persists a single driver-side entry. Used by the
	// orphan sweep to complete a pair whose driver side was never written.
	AddDriverTransaction(ctx context.Context, tx *settlement.DriverTransaction) error

	// AddVendorTransaction persists a single vendor-side entry. Used by the
	// orphan sweep to complete a pair whose vendor side was never written.
	AddVendorTransaction(ctx context.Context, tx *settlement.VendorTransaction) error

	// UpdateDriverTransaction persists settlement-state changes on the
	// driver-side entry.
	UpdateDriverTransaction(ctx context.Context, tx *settlement.DriverTransaction) error

	// UpdateVendorTransaction persists settlement-state changes on the
	// vendor-side entry.
	UpdateVendorTransaction(ctx context.Context, tx *settlement.VendorTransaction) error

	// SettleDriverTransaction persists the remitted state with one
	// conditional write: only a stored row still in pending-remittance is
	// updated. Reports whether the row changed; false means a concurrent
	// remittance already settled it.
	SettleDriverTransaction(ctx context.Context, tx *settlement.DriverTransaction) (bool, error)

	// ReconcileVendorTransaction persists the reconciled state with one
	// conditional write keyed on the row still awaiting remittance. Reports
	// whether the row changed.
	ReconcileVendorTransaction(ctx context.Context, tx *settlement.VendorTransaction) (bool, error)

	// GetDriverTransaction retrieves a driver-side entry by its identifier.
	GetDriverTransaction(ctx context.Context, id kernel.UUID) (*settlement.DriverTransaction, error)

	// GetVendorTransaction retrieves a vendor-side entry by its identifier.
	GetVendorTransaction(ctx context.Context, id kernel.UUID) (*settlement.VendorTransaction, error)

	// GetPairByOrder retrieves both sides of the ledger pair created for an
	// order. Returns errs.ObjectNotFoundError when the order has no pair yet;
	// callers use that to distinguish first settlement from a replay.
	GetPairByOrder(ctx context.Context, orderID kernel.UUID) (*settlement.DriverTransaction, *settlement.VendorTransaction, error)

	// GetAllUnremittedByDriver retrieves the driver's pending-remittance
	// entries, oldest first.
	GetAllUnremittedByDriver(ctx context.Context, driverID kernel.UUID) ([]*settlement.DriverTransaction, error)

	// GetAllOrphaned retrieves ledger entries whose cross-link is missing.
	// A healthy ledger returns nothing; the sweep job reports what it finds.
	GetAllOrphaned(ctx context.Context) ([]*settlement.DriverTransaction, []*settlement.VendorTransaction, error)
}
