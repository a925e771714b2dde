package driver

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var (
	// ErrDriverIsNotConstructed is returned when a Driver instance was not
	// created through NewDriver or RestoreDriver.
	ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver or RestoreDriver")

	// ErrInsufficientCash is returned when a debit would drive cashOnHand
	// negative. The debit is rejected outright, never clamped, because a
	// silent clamp would corrupt the ledger invariant.
	ErrInsufficientCash = errors.New("debit would drive cash on hand negative")

	// ErrManualBusy is returned when a caller tries to set Busy manually.
	// Busy is derived from the driver's order set; it is not an input.
	ErrManualBusy = errors.New("busy status is derived from the order set, not set manually")

	// ErrHasActiveOrders is returned when a driver tries to go inactive
	// while still holding active orders. The orders must be completed or
	// released first; derivation would flip the status straight back to Busy.
	ErrHasActiveOrders = errors.New("driver still holds active orders")
)

// Driver is the aggregate root for a driver account as the dispatch core sees
// it: an availability status derived from the driver's live order set, and the
// running total of cash-on-delivery funds the driver currently carries.
//
// Driver maintains these invariants:
//   - status is Busy exactly while the driver owns at least one order in a
//     non-terminal, driver-owned state, except for the manual Inactive
//     override which holds only while the order set is empty
//   - cashOnHand never goes negative; it is credited on COD delivery and
//     debited on remittance, and nothing else touches it
type Driver struct {
	id         kernel.UUID
	name       string
	status     Status
	cashOnHand kernel.Money

	isConstructed bool
}

// NewDriver creates a driver in Available status carrying no cash.
func NewDriver(id kernel.UUID, name string) (*Driver, error) {
	d := &Driver{
		status:        Available,
		isConstructed: true,
	}

	if err := errors.Join(
		d.setID(id),
		d.setName(name),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// RestoreDriver reconstructs a driver from persistence.
func RestoreDriver(id kernel.UUID, name string, status Status, cashOnHand kernel.Money) (*Driver, error) {
	d, err := NewDriver(id, name)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}

	d.status = status
	d.cashOnHand = cashOnHand
	return d, nil
}

// Validate ensures the Driver instance was properly constructed.
func (d *Driver) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDriverIsNotConstructed
	}
	return nil
}

// IsEqual compares two drivers by their unique identifiers.
func (d *Driver) IsEqual(other *Driver) bool {
	return other != nil && d.id.IsEqual(other.id)
}

// ID returns the driver's unique identifier.
func (d *Driver) ID() kernel.UUID {
	return d.id
}

// Name returns the driver's display name.
func (d *Driver) Name() string {
	return d.name
}

// Status returns the driver's current availability status.
func (d *Driver) Status() Status {
	return d.status
}

// CashOnHand returns the COD funds the driver currently carries.
func (d *Driver) CashOnHand() kernel.Money {
	return d.cashOnHand
}

// Reconcile re-derives the availability status from the count of the driver's
// active (non-terminal, driver-owned) orders. Returns true when the status
// actually changed, letting callers skip no-op writes and avoid listener
// feedback loops.
//
// Derivation rules:
//   - any active order makes the driver Busy, overriding a manual Inactive
//   - no active orders returns the driver to Available, unless the manual
//     Inactive override is in effect
func (d *Driver) Reconcile(activeOrders int) bool {
	derived := d.status

	switch {
	case activeOrders > 0:
		derived = Busy
	case d.status == Busy:
		derived = Available
	}

	if derived == d.status {
		return false
	}
	d.status = derived
	return true
}

// SetManualStatus applies the manual Inactive override or the explicit return
// to Available. Busy cannot be set manually: it is derived state.
func (d *Driver) SetManualStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if status == Busy {
		return ErrManualBusy
	}
	d.status = status
	return nil
}

// Credit adds a COD net amount to the driver's cash on hand.
// Called only by the settlement path on delivery completion.
func (d *Driver) Credit(amount kernel.Money) {
	d.cashOnHand = d.cashOnHand.Add(amount)
}

// Debit removes a remitted net amount from the driver's cash on hand.
// Fails with ErrInsufficientCash when the debit would go below zero.
func (d *Driver) Debit(amount kernel.Money) error {
	remaining, err := d.cashOnHand.Subtract(amount)
	if err != nil {
		return fmt.Errorf("%w: carrying %s, debiting %s", ErrInsufficientCash, d.cashOnHand, amount)
	}
	d.cashOnHand = remaining
	return nil
}

func (d *Driver) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Driver) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("driver name")
	}
	d.name = name
	return nil
}
