package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

// CreateOrderCommandHandler handles the business logic for order submission.
// Creates and persists a new order in the available pool.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewCreateOrderCommandHandler creates a handler for order submission.
// Requires an OrderUoWFactory for transactional persistence operations.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the order creation command.
// Creates a new order aggregate and persists it within a transaction.
// Automatically rolls back on any error to prevent partial data.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := order.NewOrder(
		cmd.OrderID(),
		cmd.OrderCode(),
		cmd.VendorID(),
		cmd.CustomerID(),
		cmd.PaymentMethod(),
		cmd.TotalAmount(),
		cmd.CommissionFee(),
		cmd.DeliveryFee(),
		cmd.IsPickupOrder(),
		cmd.PickupAddress(),
		cmd.DeliveryAddress(),
		now(),
	)
	if err != nil {
		return err
	}

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
