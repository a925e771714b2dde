package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// CompleteDeliveryCommandHandler finishes a delivery and, for cash orders,
// writes the settlement ledger pair.
//
// Replay handling: a command arriving for an already-delivered order is the
// retry of a lost response, not an error. The handler detects the replay
// before touching the blob store, so nothing is re-uploaded; it then
// verifies the ledger pair exists (creating it if the original attempt
// crashed between delivery and settlement) and reports success.
type CompleteDeliveryCommandHandler struct {
	uowFactory SettlementUoWFactory
	signatures ports.SignatureStore
	settlement services.CashSettlement
}

// NewCompleteDeliveryCommandHandler creates a handler for delivery completion.
func NewCompleteDeliveryCommandHandler(
	uowFactory SettlementUoWFactory,
	signatures ports.SignatureStore,
) CompleteDeliveryCommandHandler {
	return CompleteDeliveryCommandHandler{
		uowFactory: uowFactory,
		signatures: signatures,
		settlement: services.NewCashSettlement(),
	}
}

// Handle processes the delivery completion command.
// Returns order.ErrNotOwner when the driver does not hold the order and
// order.ErrInvalidTransition when the order is not enroute. A replay of a
// completed delivery returns nil.
func (h CompleteDeliveryCommandHandler) Handle(ctx context.Context, command CompleteDeliveryCommand) error {
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

	ordersRepo := uow.OrderRepository()

	aggregate, err := ordersRepo.Get(ctx, command.OrderID())
	if err != nil {
		return err
	}

	if aggregate.Driver() == nil || !aggregate.Driver().IsEqual(command.DriverID()) {
		return order.ErrNotOwner
	}

	if aggregate.Status() == order.Delivered {
		// Replay. The proof reference was stored by the original attempt, so
		// skip the upload and only verify the ledger pair exists, repairing
		// a crash between delivery and ledger write.
		if !aggregate.IsCashOnDelivery() {
			return nil
		}
		if err = h.settle(ctx, uow, aggregate); err != nil {
			return err
		}
		return uow.Commit(ctx)
	}

	proofRef, err := h.signatures.Store(ctx, command.Signature(), command.ContentType())
	if err != nil {
		return err
	}

	if err = aggregate.MarkDelivered(proofRef, now()); err != nil {
		return err
	}
	if err = ordersRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if aggregate.IsCashOnDelivery() {
		if err = h.settle(ctx, uow, aggregate); err != nil {
			return err
		}
	} else if err = h.reconcileDriver(ctx, uow, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// reconcileDriver re-derives the driver's status now that the order no
// longer counts as active.
func (h CompleteDeliveryCommandHandler) reconcileDriver(
	ctx context.Context,
	uow SettlementUoW,
	aggregate *order.Order,
) error {
	driverRepo := uow.DriverRepository()

	holder, err := driverRepo.Get(ctx, *aggregate.Driver())
	if err != nil {
		return err
	}

	activeCount, err := uow.OrderRepository().CountActiveByDriver(ctx, holder.ID())
	if err != nil {
		return err
	}
	if holder.Reconcile(activeCount) {
		return driverRepo.Update(ctx, holder)
	}

	return nil
}

// settle creates the ledger pair for the delivered order unless one already
// exists, and re-derives the driver's status now that the order is done.
func (h CompleteDeliveryCommandHandler) settle(
	ctx context.Context,
	uow SettlementUoW,
	aggregate *order.Order,
) error {
	settlementRepo := uow.SettlementRepository()

	_, _, err := settlementRepo.GetPairByOrder(ctx, aggregate.ID())
	if err == nil {
		// Pair already written; this is a completed replay.
		return nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}

	driverRepo := uow.DriverRepository()

	holder, err := driverRepo.Get(ctx, *aggregate.Driver())
	if err != nil {
		return err
	}

	driverTx, vendorTx, err := h.settlement.SettleDelivery(aggregate, holder, now())
	if err != nil {
		return err
	}

	if err = settlementRepo.AddPair(ctx, driverTx, vendorTx); err != nil {
		return err
	}

	activeCount, err := uow.OrderRepository().CountActiveByDriver(ctx, holder.ID())
	if err != nil {
		return err
	}
	holder.Reconcile(activeCount)

	return driverRepo.Update(ctx, holder)
}
