package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrReleaseOrderCommandIsNotConstructed = errors.New(
	"ReleaseOrderCommand must be created via NewReleaseOrderCommand constructor",
)

// ReleaseOrderCommand represents a driver returning a claimed order to the
// available pool. Only permitted before the vendor starts preparing; after
// that the driver is committed to the delivery.
type ReleaseOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

// NewReleaseOrderCommand creates a command for a driver to release an order.
func NewReleaseOrderCommand(orderID kernel.UUID, driverID kernel.UUID) (ReleaseOrderCommand, error) {
	command := ReleaseOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setDriverID(driverID),
	); err != nil {
		return ReleaseOrderCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrReleaseOrderCommandIsNotConstructed if validation fails.
func (c ReleaseOrderCommand) Validate() error {
	return c.guard.Validate(ErrReleaseOrderCommandIsNotConstructed)
}

// OrderID returns the order being released.
func (c ReleaseOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// DriverID returns the releasing driver.
func (c ReleaseOrderCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c *ReleaseOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.orderID = id
	return nil
}

func (c *ReleaseOrderCommand) setDriverID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.driverID = id
	return nil
}
