package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/settlement"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// SweepOrphanTransactionsCommandHandler repairs ledger entries that lost
// their counterpart. Two halves of the same order are re-linked; a half with
// no counterpart at all gets the missing side rebuilt from its own amounts.
// Driver cash is never touched here; the sweep restores ledger structure,
// not money movement.
type SweepOrphanTransactionsCommandHandler struct {
	uowFactory SettlementUoWFactory
	settlement services.CashSettlement
	logger     *slog.Logger
}

// NewSweepOrphanTransactionsCommandHandler creates a handler for the orphan sweep.
func NewSweepOrphanTransactionsCommandHandler(
	uowFactory SettlementUoWFactory,
	logger *slog.Logger,
) SweepOrphanTransactionsCommandHandler {
	return SweepOrphanTransactionsCommandHandler{
		uowFactory: uowFactory,
		settlement: services.NewCashSettlement(),
		logger:     logger.With("component", "orphan_sweep"),
	}
}

// Handle processes the sweep command. Every repaired pair is logged with
// enough identity to audit it by hand; an orphan that cannot be repaired,
// such as a remitted entry with no counterpart, is logged at error level and
// left untouched.
func (h SweepOrphanTransactionsCommandHandler) Handle(ctx context.Context, command SweepOrphanTransactionsCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	settlementRepo := uow.SettlementRepository()

	driverOrphans, vendorOrphans, err := settlementRepo.GetAllOrphaned(ctx)
	if err != nil {
		return err
	}

	if len(driverOrphans) == 0 && len(vendorOrphans) == 0 {
		h.logger.DebugContext(ctx, "ledger is clean")
		return uow.Commit(ctx)
	}

	vendorByOrder := make(map[kernel.UUID]*settlement.VendorTransaction, len(vendorOrphans))
	for _, tx := range vendorOrphans {
		vendorByOrder[tx.OrderID()] = tx
	}

	for _, driverTx := range driverOrphans {
		if vendorTx, ok := vendorByOrder[driverTx.OrderID()]; ok {
			delete(vendorByOrder, driverTx.OrderID())
			if err = h.relink(ctx, settlementRepo, driverTx, vendorTx); err != nil {
				return err
			}
			continue
		}
		if err = h.rebuildVendorSide(ctx, settlementRepo, driverTx); err != nil {
			return err
		}
	}

	for _, vendorTx := range vendorOrphans {
		if _, stillOrphaned := vendorByOrder[vendorTx.OrderID()]; !stillOrphaned {
			continue
		}
		if err = h.rebuildDriverSide(ctx, settlementRepo, vendorTx); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}

// relink restores the cross-links between two halves of the same order that
// both exist but lost their references.
func (h SweepOrphanTransactionsCommandHandler) relink(
	ctx context.Context,
	repo ports.SettlementRepository,
	driverTx *settlement.DriverTransaction,
	vendorTx *settlement.VendorTransaction,
) error {
	if err := h.settlement.LinkPair(driverTx, vendorTx); err != nil {
		h.logger.ErrorContext(ctx, "orphaned halves cannot be relinked",
			"order_id", driverTx.OrderID().String(),
			"order_code", driverTx.OrderCode(),
			"error", err,
		)
		return nil
	}

	if err := repo.UpdateDriverTransaction(ctx, driverTx); err != nil {
		return err
	}
	if err := repo.UpdateVendorTransaction(ctx, vendorTx); err != nil {
		return err
	}

	h.logger.WarnContext(ctx, "relinked orphaned ledger pair",
		"order_id", driverTx.OrderID().String(),
		"order_code", driverTx.OrderCode(),
		"net_amount", driverTx.NetAmount().String(),
	)
	return nil
}

// rebuildVendorSide completes a driver transaction whose vendor counterpart
// was never written.
func (h SweepOrphanTransactionsCommandHandler) rebuildVendorSide(
	ctx context.Context,
	repo ports.SettlementRepository,
	driverTx *settlement.DriverTransaction,
) error {
	vendorTx, err := h.settlement.CompleteVendorSide(driverTx, now())
	if err != nil {
		h.logger.ErrorContext(ctx, "orphaned driver transaction cannot be repaired",
			"transaction_id", driverTx.ID().String(),
			"order_code", driverTx.OrderCode(),
			"net_amount", driverTx.NetAmount().String(),
			"error", err,
		)
		return nil
	}

	if err = repo.AddVendorTransaction(ctx, vendorTx); err != nil {
		return err
	}
	if err = repo.UpdateDriverTransaction(ctx, driverTx); err != nil {
		return err
	}

	h.logger.WarnContext(ctx, "rebuilt vendor side of ledger pair",
		"order_id", driverTx.OrderID().String(),
		"order_code", driverTx.OrderCode(),
		"net_amount", driverTx.NetAmount().String(),
	)
	return nil
}

// rebuildDriverSide completes a vendor transaction whose driver counterpart
// was never written.
func (h SweepOrphanTransactionsCommandHandler) rebuildDriverSide(
	ctx context.Context,
	repo ports.SettlementRepository,
	vendorTx *settlement.VendorTransaction,
) error {
	driverTx, err := h.settlement.CompleteDriverSide(vendorTx, now())
	if err != nil {
		h.logger.ErrorContext(ctx, "orphaned vendor transaction cannot be repaired",
			"transaction_id", vendorTx.ID().String(),
			"order_code", vendorTx.OrderCode(),
			"net_amount", vendorTx.NetAmount().String(),
			"error", err,
		)
		return nil
	}

	if err = repo.AddDriverTransaction(ctx, driverTx); err != nil {
		return err
	}
	if err = repo.UpdateVendorTransaction(ctx, vendorTx); err != nil {
		return err
	}

	h.logger.WarnContext(ctx, "rebuilt driver side of ledger pair",
		"order_id", vendorTx.OrderID().String(),
		"order_code", vendorTx.OrderCode(),
		"net_amount", vendorTx.NetAmount().String(),
	)
	return nil
}
