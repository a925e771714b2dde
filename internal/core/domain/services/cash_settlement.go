package services

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/settlement"
)

var (
	// ErrNotCashOnDelivery is returned when settlement is requested for an
	// order that settles through the external payment provider instead of the
	// cash ledger.
	ErrNotCashOnDelivery = errors.New("order is not cash-on-delivery")

	// ErrOrderNotDelivered is returned when settlement is requested before the
	// order carries a delivered stamp.
	ErrOrderNotDelivered = errors.New("order is not delivered")

	// ErrPairMismatch is returned when the two sides presented for remittance
	// are not each other's linked counterparts.
	ErrPairMismatch = errors.New("transactions are not a linked pair")
)

// CashSettlement is the domain service for the dual-entry COD ledger.
//
// It owns the two money-moving rules of the system:
//   - on delivery, derive net = gross - commission (clamped at zero), create
//     the cross-linked DriverTransaction/VendorTransaction pair with equal
//     net amounts, and credit the driver's cash on hand
//   - on remittance, settle both sides of a pair together and debit the
//     driver, rejecting double remittance and overdrafts
//
// Keeping both rules in one service means no caller can create half a pair or
// move cash without the matching ledger write.
type CashSettlement struct{}

// NewCashSettlement creates a CashSettlement service instance.
func NewCashSettlement() CashSettlement {
	return CashSettlement{}
}

// SettleDelivery creates the ledger pair for a delivered COD order and
// credits the collecting driver's cash on hand with the net amount.
//
// Preconditions:
//   - the order is valid, delivered, cash-on-delivery, and carries a driver
//   - the supplied driver is the order's driver
//
// Returns the cross-linked driver and vendor transactions. The caller is
// responsible for persisting both entries and the driver inside one unit of
// work, keyed by order so a replay cannot create a second pair.
func (s CashSettlement) SettleDelivery(
	o *order.Order,
	d *driver.Driver,
	at time.Time,
) (*settlement.DriverTransaction, *settlement.VendorTransaction, error) {
	if err := o.Validate(); err != nil {
		return nil, nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, nil, err
	}
	if o.Status() != order.Delivered {
		return nil, nil, ErrOrderNotDelivered
	}
	if !o.IsCashOnDelivery() {
		return nil, nil, ErrNotCashOnDelivery
	}
	if o.Driver() == nil || !o.Driver().IsEqual(d.ID()) {
		return nil, nil, order.ErrNotOwner
	}

	net := o.TotalAmount().SubtractClamped(o.CommissionFee())

	driverTx, err := settlement.NewDriverTransaction(
		kernel.NewUUID(), o.ID(), o.OrderCode(), d.ID(), o.VendorID(),
		o.TotalAmount(), o.CommissionFee(), net, at,
	)
	if err != nil {
		return nil, nil, err
	}

	vendorTx, err := settlement.NewVendorTransaction(
		kernel.NewUUID(), o.ID(), o.OrderCode(), d.ID(), o.VendorID(),
		o.TotalAmount(), o.CommissionFee(), net, at,
	)
	if err != nil {
		return nil, nil, err
	}

	if err = driverTx.LinkVendorTransaction(vendorTx.ID()); err != nil {
		return nil, nil, err
	}
	if err = vendorTx.LinkDriverTransaction(driverTx.ID()); err != nil {
		return nil, nil, err
	}

	d.Credit(net)

	return driverTx, vendorTx, nil
}

// SettleRemittance settles both sides of a ledger pair and debits the
// driver's cash on hand by the pair's net amount.
//
// The two transactions must be each other's linked counterparts and the
// driver must be the one carrying the cash. Double remittance fails with
// settlement.ErrAlreadyRemitted before any state changes; a debit that would
// overdraw the driver fails with driver.ErrInsufficientCash and leaves both
// sides unsettled.
func (s CashSettlement) SettleRemittance(
	driverTx *settlement.DriverTransaction,
	vendorTx *settlement.VendorTransaction,
	d *driver.Driver,
	proofRef string,
	actor settlement.Actor,
	at time.Time,
) error {
	if err := driverTx.Validate(); err != nil {
		return err
	}
	if err := vendorTx.Validate(); err != nil {
		return err
	}
	if err := d.Validate(); err != nil {
		return err
	}

	if driverTx.VendorTransactionID() == nil || vendorTx.DriverTransactionID() == nil {
		return settlement.ErrNotLinked
	}
	if !driverTx.VendorTransactionID().IsEqual(vendorTx.ID()) ||
		!vendorTx.DriverTransactionID().IsEqual(driverTx.ID()) {
		return ErrPairMismatch
	}
	if !driverTx.DriverID().IsEqual(d.ID()) {
		return order.ErrNotOwner
	}

	// Check both sides before touching any state so a partial settle cannot
	// leave one side open.
	if driverTx.Status() != settlement.PendingRemittance ||
		vendorTx.Status() != settlement.AwaitingRemittance {
		return settlement.ErrAlreadyRemitted
	}

	if err := d.Debit(driverTx.NetAmount()); err != nil {
		return err
	}

	if err := driverTx.MarkRemitted(proofRef, actor, at); err != nil {
		return err
	}
	return vendorTx.MarkReconciled(at)
}

// CompleteVendorSide rebuilds the vendor entry for a driver transaction that
// lost its counterpart, copying the survivor's amounts so the pair still
// agrees, and cross-links both sides. Only an unsettled orphan can be
// completed; a remitted entry with no counterpart is inconsistent beyond
// repair here.
func (s CashSettlement) CompleteVendorSide(
	driverTx *settlement.DriverTransaction,
	at time.Time,
) (*settlement.VendorTransaction, error) {
	if err := driverTx.Validate(); err != nil {
		return nil, err
	}
	if driverTx.VendorTransactionID() != nil {
		return nil, settlement.ErrAlreadyLinked
	}
	if driverTx.Status() != settlement.PendingRemittance {
		return nil, settlement.ErrAlreadyRemitted
	}

	vendorTx, err := settlement.NewVendorTransaction(
		kernel.NewUUID(), driverTx.OrderID(), driverTx.OrderCode(),
		driverTx.DriverID(), driverTx.VendorID(),
		driverTx.GrossAmount(), driverTx.CommissionAmount(), driverTx.NetAmount(), at,
	)
	if err != nil {
		return nil, err
	}

	return vendorTx, s.LinkPair(driverTx, vendorTx)
}

// CompleteDriverSide rebuilds the driver entry for a vendor transaction that
// lost its counterpart. The driver's cash on hand is not touched: the ledger
// entry records the obligation, while the cash credit belongs to the
// delivery transaction that originally wrote it.
func (s CashSettlement) CompleteDriverSide(
	vendorTx *settlement.VendorTransaction,
	at time.Time,
) (*settlement.DriverTransaction, error) {
	if err := vendorTx.Validate(); err != nil {
		return nil, err
	}
	if vendorTx.DriverTransactionID() != nil {
		return nil, settlement.ErrAlreadyLinked
	}
	if vendorTx.Status() != settlement.AwaitingRemittance {
		return nil, settlement.ErrAlreadyRemitted
	}

	driverTx, err := settlement.NewDriverTransaction(
		kernel.NewUUID(), vendorTx.OrderID(), vendorTx.OrderCode(),
		vendorTx.DriverID(), vendorTx.VendorID(),
		vendorTx.GrossAmount(), vendorTx.CommissionAmount(), vendorTx.NetAmount(), at,
	)
	if err != nil {
		return nil, err
	}

	return driverTx, s.LinkPair(driverTx, vendorTx)
}

// LinkPair restores the mutual cross-links between two halves of the same
// order's pair. Both sides must settle the same order and agree on the net
// amount.
func (s CashSettlement) LinkPair(
	driverTx *settlement.DriverTransaction,
	vendorTx *settlement.VendorTransaction,
) error {
	if err := driverTx.Validate(); err != nil {
		return err
	}
	if err := vendorTx.Validate(); err != nil {
		return err
	}
	if !driverTx.OrderID().IsEqual(vendorTx.OrderID()) ||
		!driverTx.NetAmount().IsEqual(vendorTx.NetAmount()) {
		return ErrPairMismatch
	}

	if err := driverTx.LinkVendorTransaction(vendorTx.ID()); err != nil {
		return err
	}
	return vendorTx.LinkDriverTransaction(driverTx.ID())
}
