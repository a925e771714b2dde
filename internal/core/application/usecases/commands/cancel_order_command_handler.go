package commands

import (
	"context"
	"errors"
)

// ErrOrderBelongsToAnotherVendor is returned when a vendor tries to cancel
// an order they did not submit.
var ErrOrderBelongsToAnotherVendor = errors.New("order belongs to another vendor")

// CancelOrderCommandHandler withdraws an order on the vendor's behalf. If a
// driver had claimed it, their status is re-derived so they return to the
// available pool.
type CancelOrderCommandHandler struct {
	uowFactory AssignmentUoWFactory
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(uowFactory AssignmentUoWFactory) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the cancellation command.
// Returns order.ErrInvalidTransition once preparation has started and
// ErrOrderBelongsToAnotherVendor on an ownership mismatch.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, command CancelOrderCommand) error {
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

	if !aggregate.VendorID().IsEqual(command.VendorID()) {
		return ErrOrderBelongsToAnotherVendor
	}

	freedDriver := aggregate.Driver()

	if err = aggregate.Cancel(); err != nil {
		return err
	}

	if err = ordersRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if freedDriver != nil {
		driverRepo := uow.DriverRepository()

		holder, getErr := driverRepo.Get(ctx, *freedDriver)
		if getErr != nil {
			return getErr
		}
		activeCount, countErr := ordersRepo.CountActiveByDriver(ctx, holder.ID())
		if countErr != nil {
			return countErr
		}
		if holder.Reconcile(activeCount) {
			if err = driverRepo.Update(ctx, holder); err != nil {
				return err
			}
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
