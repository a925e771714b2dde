package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrAdvanceOrderCommandIsNotConstructed = errors.New(
	"AdvanceOrderCommand must be created via NewAdvanceOrderCommand constructor",
)

// AdvanceOrderCommand moves an assigned order one step along the fulfilment
// path: preparing, ready, then enroute. Delivery completion has its own
// command because it moves money.
type AdvanceOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	driverID kernel.UUID
	next     order.Status

	guard guard.ConstructorGuard
}

// NewAdvanceOrderCommand creates a command to advance an order's status.
// The target status must be one of the fulfilment steps; terminal statuses
// are rejected here so the dedicated commands stay the only way to reach them.
func NewAdvanceOrderCommand(orderID kernel.UUID, driverID kernel.UUID, next order.Status) (AdvanceOrderCommand, error) {
	command := AdvanceOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setDriverID(driverID),
		command.setNext(next),
	); err != nil {
		return AdvanceOrderCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAdvanceOrderCommandIsNotConstructed if validation fails.
func (c AdvanceOrderCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceOrderCommandIsNotConstructed)
}

// OrderID returns the order being advanced.
func (c AdvanceOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// DriverID returns the driver requesting the advance.
func (c AdvanceOrderCommand) DriverID() kernel.UUID {
	return c.driverID
}

// Next returns the target status.
func (c AdvanceOrderCommand) Next() order.Status {
	return c.next
}

func (c *AdvanceOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.orderID = id
	return nil
}

func (c *AdvanceOrderCommand) setDriverID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.driverID = id
	return nil
}

func (c *AdvanceOrderCommand) setNext(next order.Status) error {
	switch next {
	case order.Preparing, order.Ready, order.Enroute:
		c.next = next
		return nil
	default:
		return order.ErrInvalidTransition
	}
}
