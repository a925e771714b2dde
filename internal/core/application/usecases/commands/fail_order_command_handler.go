package commands

import (
	"context"
	"log/slog"
)

// FailOrderCommandHandler marks a delivery as failed and frees its driver.
// The reason is logged, not persisted on the order; the audit trail lives in
// the operator tooling that issued the command.
type FailOrderCommandHandler struct {
	uowFactory AssignmentUoWFactory
	logger     *slog.Logger
}

// NewFailOrderCommandHandler creates a handler for delivery failure.
func NewFailOrderCommandHandler(uowFactory AssignmentUoWFactory, logger *slog.Logger) FailOrderCommandHandler {
	return FailOrderCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "fail_order"),
	}
}

// Handle processes the failure command.
// Returns order.ErrInvalidTransition when the order is already terminal.
func (h FailOrderCommandHandler) Handle(ctx context.Context, command FailOrderCommand) error {
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

	freedDriver := aggregate.Driver()

	if err = aggregate.MarkFailed(); err != nil {
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

	h.logger.WarnContext(ctx, "order failed",
		"order_id", command.OrderID().String(),
		"reason", command.Reason(),
	)

	return nil
}
