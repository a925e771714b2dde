package commands

import (
	"context"

	"dispatch/internal/core/domain/model/driver"
)

// SetDriverStatusCommandHandler applies a manual status change checked
// against the order book: a driver who goes on shift while still holding
// active orders comes back as busy, not available, and a driver holding
// active orders cannot go inactive at all.
type SetDriverStatusCommandHandler struct {
	uowFactory AssignmentUoWFactory
}

// NewSetDriverStatusCommandHandler creates a handler for manual status changes.
func NewSetDriverStatusCommandHandler(uowFactory AssignmentUoWFactory) SetDriverStatusCommandHandler {
	return SetDriverStatusCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the status change command.
func (h SetDriverStatusCommandHandler) Handle(ctx context.Context, command SetDriverStatusCommand) error {
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

	aggregate, err := driverRepo.Get(ctx, command.DriverID())
	if err != nil {
		return err
	}

	activeCount, err := uow.OrderRepository().CountActiveByDriver(ctx, aggregate.ID())
	if err != nil {
		return err
	}
	if command.Status() == driver.Inactive && activeCount > 0 {
		return driver.ErrHasActiveOrders
	}

	if err = aggregate.SetManualStatus(command.Status()); err != nil {
		return err
	}
	aggregate.Reconcile(activeCount)

	if err = driverRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
