package commands

import (
	"context"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/settlement"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// RemitCashCommandHandler settles one ledger pair when the collected cash is
// handed over.
//
// Both sides of the pair and the driver's cash on hand change in one
// transaction, and every write is conditional: the ledger rows are settled
// only while still pending in storage, and the cash debit decrements the
// stored balance directly under a non-negative guard. A concurrent
// remittance of the same entry reads the same pending snapshot but loses at
// the conditional write with settlement.ErrAlreadyRemitted, so the cash is
// debited at most once.
type RemitCashCommandHandler struct {
	uowFactory SettlementUoWFactory
	receipts   ports.SignatureStore
	settlement services.CashSettlement
}

// NewRemitCashCommandHandler creates a handler for cash remittance.
func NewRemitCashCommandHandler(
	uowFactory SettlementUoWFactory,
	receipts ports.SignatureStore,
) RemitCashCommandHandler {
	return RemitCashCommandHandler{
		uowFactory: uowFactory,
		receipts:   receipts,
		settlement: services.NewCashSettlement(),
	}
}

// Handle processes the remittance command.
// Returns settlement.ErrAlreadyRemitted when the entry was already settled,
// settlement.ErrNotLinked when the entry has no vendor counterpart, and
// driver.ErrInsufficientCash when the debit would overdraw the driver.
func (h RemitCashCommandHandler) Handle(ctx context.Context, command RemitCashCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	proofRef, err := h.receipts.Store(ctx, command.Receipt(), command.ContentType())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	settlementRepo := uow.SettlementRepository()

	driverTx, err := settlementRepo.GetDriverTransaction(ctx, command.DriverTransactionID())
	if err != nil {
		return err
	}
	if driverTx.VendorTransactionID() == nil {
		return settlement.ErrNotLinked
	}

	vendorTx, err := settlementRepo.GetVendorTransaction(ctx, *driverTx.VendorTransactionID())
	if err != nil {
		return err
	}

	driverRepo := uow.DriverRepository()

	holder, err := driverRepo.Get(ctx, driverTx.DriverID())
	if err != nil {
		return err
	}

	if err = h.settlement.SettleRemittance(
		driverTx, vendorTx, holder, proofRef, command.Actor(), now(),
	); err != nil {
		return err
	}

	settled, err := settlementRepo.SettleDriverTransaction(ctx, driverTx)
	if err != nil {
		return err
	}
	if !settled {
		return settlement.ErrAlreadyRemitted
	}

	reconciled, err := settlementRepo.ReconcileVendorTransaction(ctx, vendorTx)
	if err != nil {
		return err
	}
	if !reconciled {
		return settlement.ErrAlreadyRemitted
	}

	debited, err := driverRepo.DebitCash(ctx, holder.ID(), driverTx.NetAmount())
	if err != nil {
		return err
	}
	if !debited {
		return driver.ErrInsufficientCash
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
