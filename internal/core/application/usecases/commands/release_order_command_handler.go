package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

// ReleaseOrderCommandHandler orchestrates returning a claimed order to the
// available pool.
//
// Like the claim, the release is a conditional write keyed on the order
// being Assigned to this driver. When the write reports no effect the
// handler re-reads the order to distinguish an ownership failure from a
// sequencing one.
type ReleaseOrderCommandHandler struct {
	uowFactory AssignmentUoWFactory
}

// NewReleaseOrderCommandHandler creates a handler for order releases.
func NewReleaseOrderCommandHandler(uowFactory AssignmentUoWFactory) ReleaseOrderCommandHandler {
	return ReleaseOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the release command.
// Returns order.ErrNotOwner when the order belongs to a different driver,
// order.ErrInvalidTransition when preparation has already started, and
// errs.ObjectNotFoundError when the order does not exist.
// On success the driver's status is re-derived from their active order count.
func (h ReleaseOrderCommandHandler) Handle(ctx context.Context, command ReleaseOrderCommand) error {
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

	driverRepo := uow.DriverRepository()
	ordersRepo := uow.OrderRepository()

	released, err := ordersRepo.ReleaseAssigned(ctx, command.OrderID(), command.DriverID())
	if err != nil {
		return err
	}
	if !released {
		aggregate, getErr := ordersRepo.Get(ctx, command.OrderID())
		if getErr != nil {
			return getErr
		}
		if aggregate.Driver() != nil && !aggregate.Driver().IsEqual(command.DriverID()) {
			return order.ErrNotOwner
		}
		return order.ErrInvalidTransition
	}

	holder, err := driverRepo.Get(ctx, command.DriverID())
	if err != nil {
		return err
	}
	activeCount, err := ordersRepo.CountActiveByDriver(ctx, holder.ID())
	if err != nil {
		return err
	}
	if holder.Reconcile(activeCount) {
		if err = driverRepo.Update(ctx, holder); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
