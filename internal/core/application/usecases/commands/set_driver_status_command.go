package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrSetDriverStatusCommandIsNotConstructed = errors.New(
	"SetDriverStatusCommand must be created via NewSetDriverStatusCommand constructor",
)

// SetDriverStatusCommand represents a driver going off or back on shift.
// Only Available and Inactive can be requested; Busy is always derived from
// the driver's active orders and never set by hand.
type SetDriverStatusCommand struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID
	status   driver.Status

	guard guard.ConstructorGuard
}

// NewSetDriverStatusCommand creates a command to change a driver's status.
// Returns driver.ErrManualBusy when Busy is requested.
func NewSetDriverStatusCommand(driverID kernel.UUID, status driver.Status) (SetDriverStatusCommand, error) {
	command := SetDriverStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setDriverID(driverID),
		command.setStatus(status),
	); err != nil {
		return SetDriverStatusCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrSetDriverStatusCommandIsNotConstructed if validation fails.
func (c SetDriverStatusCommand) Validate() error {
	return c.guard.Validate(ErrSetDriverStatusCommandIsNotConstructed)
}

// DriverID returns the driver whose status changes.
func (c SetDriverStatusCommand) DriverID() kernel.UUID {
	return c.driverID
}

// Status returns the requested status.
func (c SetDriverStatusCommand) Status() driver.Status {
	return c.status
}

func (c *SetDriverStatusCommand) setDriverID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.driverID = id
	return nil
}

func (c *SetDriverStatusCommand) setStatus(status driver.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if status == driver.Busy {
		return driver.ErrManualBusy
	}

	c.status = status
	return nil
}
