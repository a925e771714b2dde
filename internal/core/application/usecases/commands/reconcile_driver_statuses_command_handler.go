package commands

import (
	"context"
	"log/slog"
)

// ReconcileDriverStatusesCommandHandler walks the driver roster and fixes
// any status that no longer matches the order book. Drivers already in the
// right state are skipped so a clean roster produces no writes.
type ReconcileDriverStatusesCommandHandler struct {
	uowFactory AssignmentUoWFactory
	logger     *slog.Logger
}

// NewReconcileDriverStatusesCommandHandler creates a handler for roster reconciliation.
func NewReconcileDriverStatusesCommandHandler(
	uowFactory AssignmentUoWFactory,
	logger *slog.Logger,
) ReconcileDriverStatusesCommandHandler {
	return ReconcileDriverStatusesCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "driver_status_reconciliation"),
	}
}

// Handle processes the reconciliation command.
// Each corrected driver is logged with their old and new status.
func (h ReconcileDriverStatusesCommandHandler) Handle(ctx context.Context, command ReconcileDriverStatusesCommand) error {
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

	drivers, err := driverRepo.GetAll(ctx)
	if err != nil {
		return err
	}

	for _, aggregate := range drivers {
		activeCount, countErr := ordersRepo.CountActiveByDriver(ctx, aggregate.ID())
		if countErr != nil {
			return countErr
		}

		before := aggregate.Status()
		if !aggregate.Reconcile(activeCount) {
			continue
		}

		if err = driverRepo.Update(ctx, aggregate); err != nil {
			return err
		}

		h.logger.InfoContext(ctx, "driver status corrected",
			"driver_id", aggregate.ID().String(),
			"from", before.String(),
			"to", aggregate.Status().String(),
			"active_orders", activeCount,
		)
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
