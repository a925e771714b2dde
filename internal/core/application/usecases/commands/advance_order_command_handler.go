package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

// AdvanceOrderCommandHandler moves an order through the fulfilment steps.
// Advancing does not change who holds the order or how much money moves, so
// a plain read-modify-write inside the transaction is enough here.
type AdvanceOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewAdvanceOrderCommandHandler creates a handler for status advances.
func NewAdvanceOrderCommandHandler(uowFactory OrderUoWFactory) AdvanceOrderCommandHandler {
	return AdvanceOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the advance command.
// Returns order.ErrNotOwner when the requesting driver does not hold the
// order and order.ErrInvalidTransition when the step is out of sequence.
func (h AdvanceOrderCommandHandler) Handle(ctx context.Context, command AdvanceOrderCommand) error {
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

	if err = aggregate.AdvanceTo(command.Next(), now()); err != nil {
		return err
	}

	if err = ordersRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
