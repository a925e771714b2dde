package settlement

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// VendorTransaction is the vendor-side ledger entry for one COD delivery: the
// record of cash a vendor is owed by the driver who collected it.
//
// It mirrors the paired DriverTransaction with the same net amount and a
// mutual cross-link, and moves awaiting-remittance -> reconciled when the
// cash hand-over is recorded.
type VendorTransaction struct {
	id        kernel.UUID
	orderID   kernel.UUID
	orderCode string
	driverID  kernel.UUID
	vendorID  kernel.UUID

	grossAmount      kernel.Money
	commissionAmount kernel.Money
	netAmount        kernel.Money

	status              Status
	driverTransactionID *kernel.UUID

	createdAt    time.Time
	reconciledAt *time.Time

	isConstructed bool
}

// NewVendorTransaction creates the vendor-side entry in awaiting-remittance
// status. Like the driver side, the net amount comes from the settlement
// calculation so the pair always agrees.
func NewVendorTransaction(
	id kernel.UUID,
	orderID kernel.UUID,
	orderCode string,
	driverID kernel.UUID,
	vendorID kernel.UUID,
	grossAmount kernel.Money,
	commissionAmount kernel.Money,
	netAmount kernel.Money,
	createdAt time.Time,
) (*VendorTransaction, error) {
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		driverID.Validate(),
		vendorID.Validate(),
	); err != nil {
		return nil, err
	}
	if orderCode == "" {
		return nil, errs.NewValueIsRequiredError("order code")
	}

	return &VendorTransaction{
		id:               id,
		orderID:          orderID,
		orderCode:        orderCode,
		driverID:         driverID,
		vendorID:         vendorID,
		grossAmount:      grossAmount,
		commissionAmount: commissionAmount,
		netAmount:        netAmount,
		status:           AwaitingRemittance,
		createdAt:        createdAt,
		isConstructed:    true,
	}, nil
}

// RestoreVendorTransaction reconstructs a vendor transaction from persistence.
func RestoreVendorTransaction(
	id kernel.UUID,
	orderID kernel.UUID,
	orderCode string,
	driverID kernel.UUID,
	vendorID kernel.UUID,
	grossAmount kernel.Money,
	commissionAmount kernel.Money,
	netAmount kernel.Money,
	status Status,
	driverTransactionID *kernel.UUID,
	createdAt time.Time,
	reconciledAt *time.Time,
) (*VendorTransaction, error) {
	tx, err := NewVendorTransaction(
		id, orderID, orderCode, driverID, vendorID,
		grossAmount, commissionAmount, netAmount, createdAt,
	)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}

	tx.status = status
	tx.driverTransactionID = driverTransactionID
	tx.reconciledAt = reconciledAt
	return tx, nil
}

// Validate ensures the transaction was properly constructed.
func (t *VendorTransaction) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrTransactionIsNotConstructed
	}
	return nil
}

// ID returns the transaction's unique identifier.
func (t *VendorTransaction) ID() kernel.UUID {
	return t.id
}

// OrderID returns the delivered order this entry settles.
func (t *VendorTransaction) OrderID() kernel.UUID {
	return t.orderID
}

// OrderCode returns the human-readable code of the settled order.
func (t *VendorTransaction) OrderCode() string {
	return t.orderCode
}

// DriverID returns the driver carrying the cash.
func (t *VendorTransaction) DriverID() kernel.UUID {
	return t.driverID
}

// VendorID returns the vendor the cash is owed to.
func (t *VendorTransaction) VendorID() kernel.UUID {
	return t.vendorID
}

// GrossAmount returns the order's total amount.
func (t *VendorTransaction) GrossAmount() kernel.Money {
	return t.grossAmount
}

// CommissionAmount returns the platform commission withheld.
func (t *VendorTransaction) CommissionAmount() kernel.Money {
	return t.commissionAmount
}

// NetAmount returns the amount owed to the vendor (gross minus commission).
func (t *VendorTransaction) NetAmount() kernel.Money {
	return t.netAmount
}

// Status returns the remittance status.
func (t *VendorTransaction) Status() Status {
	return t.status
}

// DriverTransactionID returns the cross-link to the driver-side entry, or nil
// for an orphaned half-pair.
func (t *VendorTransaction) DriverTransactionID() *kernel.UUID {
	return t.driverTransactionID
}

// CreatedAt returns the entry creation timestamp.
func (t *VendorTransaction) CreatedAt() time.Time {
	return t.createdAt
}

// ReconciledAt returns the reconciliation timestamp, or nil before
// reconciliation.
func (t *VendorTransaction) ReconciledAt() *time.Time {
	return t.reconciledAt
}

// IsOrphaned reports whether the driver-side cross-link is missing.
func (t *VendorTransaction) IsOrphaned() bool {
	return t.driverTransactionID == nil
}

// LinkDriverTransaction records the cross-link to the driver-side entry.
// The link is written exactly once.
func (t *VendorTransaction) LinkDriverTransaction(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if t.driverTransactionID != nil {
		return ErrAlreadyLinked
	}
	t.driverTransactionID = &id
	return nil
}

// MarkReconciled settles the vendor side, moving the status to Reconciled.
// Fails with ErrAlreadyRemitted when already settled, keeping the remittance
// operation idempotent across both halves of the pair.
func (t *VendorTransaction) MarkReconciled(at time.Time) error {
	if t.status != AwaitingRemittance {
		return ErrAlreadyRemitted
	}
	if t.driverTransactionID == nil {
		return ErrNotLinked
	}

	t.status = Reconciled
	t.reconciledAt = &at
	return nil
}
