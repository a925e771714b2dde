package settlement

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var (
	// ErrTransactionIsNotConstructed is returned when a transaction instance
	// was not created through its constructor or restore function.
	ErrTransactionIsNotConstructed = errors.New("transaction must be created via its constructor")

	// ErrAlreadyRemitted is returned when remittance is attempted on a
	// transaction that has already been settled. Remitting twice for the same
	// transaction is always rejected, making the operation idempotent under
	// retry.
	ErrAlreadyRemitted = errors.New("transaction is already remitted")

	// ErrNotLinked is returned when remittance is attempted on a transaction
	// whose counterpart reference is missing. An unlinked transaction is a
	// half-written pair and must be repaired before it can settle.
	ErrNotLinked = errors.New("transaction has no linked counterpart")

	// ErrAlreadyLinked is returned when a second counterpart link is attempted.
	// Cross-links are written once and never change.
	ErrAlreadyLinked = errors.New("transaction is already linked to a counterpart")
)

// DriverTransaction is the driver-side ledger entry for one COD delivery: the
// record of cash the driver collected and owes onward to the vendor.
//
// Exactly one DriverTransaction exists per delivered COD order, cross-linked
// to exactly one VendorTransaction carrying the same net amount. The
// cross-link field starts nil during the two-phase pair write; a nil link
// after both writes should have landed marks an orphan for the repair sweep.
type DriverTransaction struct {
	id        kernel.UUID
	orderID   kernel.UUID
	orderCode string
	driverID  kernel.UUID
	vendorID  kernel.UUID

	grossAmount      kernel.Money
	commissionAmount kernel.Money
	netAmount        kernel.Money

	status              Status
	vendorTransactionID *kernel.UUID

	remittanceProofRef *string
	remittedBy         *Actor

	createdAt  time.Time
	remittedAt *time.Time

	isConstructed bool
}

// NewDriverTransaction creates the driver-side entry in pending-remittance
// status. The net amount is supplied by the settlement calculation, not
// recomputed here, so both sides of a pair are guaranteed the same figure.
func NewDriverTransaction(
	id kernel.UUID,
	orderID kernel.UUID,
	orderCode string,
	driverID kernel.UUID,
	vendorID kernel.UUID,
	grossAmount kernel.Money,
	commissionAmount kernel.Money,
	netAmount kernel.Money,
	createdAt time.Time,
) (*DriverTransaction, error) {
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

	return &DriverTransaction{
		id:               id,
		orderID:          orderID,
		orderCode:        orderCode,
		driverID:         driverID,
		vendorID:         vendorID,
		grossAmount:      grossAmount,
		commissionAmount: commissionAmount,
		netAmount:        netAmount,
		status:           PendingRemittance,
		createdAt:        createdAt,
		isConstructed:    true,
	}, nil
}

// RestoreDriverTransaction reconstructs a driver transaction from persistence.
func RestoreDriverTransaction(
	id kernel.UUID,
	orderID kernel.UUID,
	orderCode string,
	driverID kernel.UUID,
	vendorID kernel.UUID,
	grossAmount kernel.Money,
	commissionAmount kernel.Money,
	netAmount kernel.Money,
	status Status,
	vendorTransactionID *kernel.UUID,
	remittanceProofRef *string,
	remittedBy *Actor,
	createdAt time.Time,
	remittedAt *time.Time,
) (*DriverTransaction, error) {
	tx, err := NewDriverTransaction(
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
	tx.vendorTransactionID = vendorTransactionID
	tx.remittanceProofRef = remittanceProofRef
	tx.remittedBy = remittedBy
	tx.remittedAt = remittedAt
	return tx, nil
}

// Validate ensures the transaction was properly constructed.
func (t *DriverTransaction) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrTransactionIsNotConstructed
	}
	return nil
}

// ID returns the transaction's unique identifier.
func (t *DriverTransaction) ID() kernel.UUID {
	return t.id
}

// OrderID returns the delivered order this entry settles.
func (t *DriverTransaction) OrderID() kernel.UUID {
	return t.orderID
}

// OrderCode returns the human-readable code of the settled order.
func (t *DriverTransaction) OrderCode() string {
	return t.orderCode
}

// DriverID returns the driver carrying the cash.
func (t *DriverTransaction) DriverID() kernel.UUID {
	return t.driverID
}

// VendorID returns the vendor the cash is owed to.
func (t *DriverTransaction) VendorID() kernel.UUID {
	return t.vendorID
}

// GrossAmount returns the order's total amount.
func (t *DriverTransaction) GrossAmount() kernel.Money {
	return t.grossAmount
}

// CommissionAmount returns the platform commission withheld.
func (t *DriverTransaction) CommissionAmount() kernel.Money {
	return t.commissionAmount
}

// NetAmount returns the amount owed to the vendor (gross minus commission).
func (t *DriverTransaction) NetAmount() kernel.Money {
	return t.netAmount
}

// Status returns the remittance status.
func (t *DriverTransaction) Status() Status {
	return t.status
}

// VendorTransactionID returns the cross-link to the vendor-side entry, or nil
// for an orphaned half-pair.
func (t *DriverTransaction) VendorTransactionID() *kernel.UUID {
	return t.vendorTransactionID
}

// RemittanceProof returns the remittance signature reference, or nil before
// remittance.
func (t *DriverTransaction) RemittanceProof() *string {
	return t.remittanceProofRef
}

// RemittedBy returns who initiated the remittance, or nil before remittance.
func (t *DriverTransaction) RemittedBy() *Actor {
	return t.remittedBy
}

// CreatedAt returns the entry creation timestamp.
func (t *DriverTransaction) CreatedAt() time.Time {
	return t.createdAt
}

// RemittedAt returns the remittance timestamp, or nil before remittance.
func (t *DriverTransaction) RemittedAt() *time.Time {
	return t.remittedAt
}

// IsOrphaned reports whether the vendor-side cross-link is missing.
func (t *DriverTransaction) IsOrphaned() bool {
	return t.vendorTransactionID == nil
}

// LinkVendorTransaction records the cross-link to the vendor-side entry.
// The link is written exactly once.
func (t *DriverTransaction) LinkVendorTransaction(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if t.vendorTransactionID != nil {
		return ErrAlreadyLinked
	}
	t.vendorTransactionID = &id
	return nil
}

// MarkRemitted settles the driver side: records the remittance signature, the
// initiating actor, and the timestamp, moving the status to Remitted.
//
// Fails with ErrAlreadyRemitted when the transaction is already settled and
// with ErrNotLinked when the vendor-side cross-link is missing; remittance of
// a half-written pair would leave money untraceable on the vendor side.
func (t *DriverTransaction) MarkRemitted(proofRef string, actor Actor, at time.Time) error {
	if t.status != PendingRemittance {
		return ErrAlreadyRemitted
	}
	if t.vendorTransactionID == nil {
		return ErrNotLinked
	}
	if proofRef == "" {
		return errs.NewValueIsRequiredError("remittance proof reference")
	}
	if err := actor.Validate(); err != nil {
		return err
	}

	t.status = Remitted
	t.remittanceProofRef = &proofRef
	t.remittedBy = &actor
	t.remittedAt = &at
	return nil
}
