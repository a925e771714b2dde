package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrFailOrderCommandIsNotConstructed = errors.New(
		"FailOrderCommand must be created via NewFailOrderCommand constructor",
	)
	ErrReasonIsRequired = errors.New("failure reason is required")
)

// FailOrderCommand marks a delivery as failed from any in-flight state.
// This is the operator escape hatch for deliveries that cannot proceed:
// unreachable customer, vehicle breakdown, vendor closed.
type FailOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

// NewFailOrderCommand creates a command to mark an order as failed.
func NewFailOrderCommand(orderID kernel.UUID, reason string) (FailOrderCommand, error) {
	command := FailOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setReason(reason),
	); err != nil {
		return FailOrderCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrFailOrderCommandIsNotConstructed if validation fails.
func (c FailOrderCommand) Validate() error {
	return c.guard.Validate(ErrFailOrderCommandIsNotConstructed)
}

// OrderID returns the order being failed.
func (c FailOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Reason returns the operator-supplied failure reason.
func (c FailOrderCommand) Reason() string {
	return c.reason
}

func (c *FailOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.orderID = id
	return nil
}

func (c *FailOrderCommand) setReason(reason string) error {
	if reason == "" {
		return ErrReasonIsRequired
	}

	c.reason = reason
	return nil
}
