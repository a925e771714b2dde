package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/driver"
)

var (
	// ErrOrderAlreadyAssigned is returned when the order was claimed by
	// another driver before this command reached storage.
	ErrOrderAlreadyAssigned = errors.New("order is already assigned")

	// ErrDriverInactive is returned when a manually deactivated driver
	// attempts to claim an order.
	ErrDriverInactive = errors.New("driver is inactive")
)

// ClaimOrderCommandHandler orchestrates the order claim protocol.
//
// The claim itself is a single conditional write: assign the driver if and
// only if the order is still available with no driver. The handler never
// reads the order first to decide whether to claim; under contention that
// read would be stale by the time the write lands. Only when the conditional
// write reports no effect does the handler read the order, to tell the
// caller whether the order is missing or was taken.
type ClaimOrderCommandHandler struct {
	uowFactory AssignmentUoWFactory
}

// NewClaimOrderCommandHandler creates a handler for order claims.
// Requires an AssignmentUoWFactory for coordinating order and driver updates.
func NewClaimOrderCommandHandler(uowFactory AssignmentUoWFactory) ClaimOrderCommandHandler {
	return ClaimOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the claim command.
// Returns ErrOrderAlreadyAssigned when another driver won the race,
// errs.ObjectNotFoundError when the order does not exist, and
// ErrDriverInactive when the driver is manually deactivated.
// On success the driver's status is re-derived from their active order count.
func (h ClaimOrderCommandHandler) Handle(ctx context.Context, command ClaimOrderCommand) error {
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

	claimant, err := driverRepo.Get(ctx, command.DriverID())
	if err != nil {
		return err
	}
	if claimant.Status() == driver.Inactive {
		return ErrDriverInactive
	}

	claimed, err := ordersRepo.ClaimAvailable(
		ctx, command.OrderID(), claimant.ID(), claimant.Name(), now(),
	)
	if err != nil {
		return err
	}
	if !claimed {
		// Lost the write. Read once to report why.
		if _, err = ordersRepo.Get(ctx, command.OrderID()); err != nil {
			return err
		}
		return ErrOrderAlreadyAssigned
	}

	activeCount, err := ordersRepo.CountActiveByDriver(ctx, claimant.ID())
	if err != nil {
		return err
	}
	if claimant.Reconcile(activeCount) {
		if err = driverRepo.Update(ctx, claimant); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
