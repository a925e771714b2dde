package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/settlement"
	"dispatch/internal/pkg/guard"
)

var (
	ErrRemitCashCommandIsNotConstructed = errors.New(
		"RemitCashCommand must be created via NewRemitCashCommand constructor",
	)
	ErrReceiptIsRequired = errors.New("remittance receipt is required")
)

// RemitCashCommand represents handing over the cash collected for one
// delivery, recorded against the driver-side ledger entry. Either the driver
// or the vendor may record the remittance; whoever does is stamped onto the
// entry.
type RemitCashCommand struct { //nolint:recvcheck //using for validation
	driverTransactionID kernel.UUID
	actor               settlement.Actor
	receipt             []byte
	contentType         string

	guard guard.ConstructorGuard
}

// NewRemitCashCommand creates a command to remit the cash for one ledger entry.
// The receipt blob must be non-empty; contentType describes its format.
func NewRemitCashCommand(
	driverTransactionID kernel.UUID,
	actor settlement.Actor,
	receipt []byte,
	contentType string,
) (RemitCashCommand, error) {
	command := RemitCashCommand{
		contentType: contentType,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setDriverTransactionID(driverTransactionID),
		command.setActor(actor),
		command.setReceipt(receipt),
	); err != nil {
		return RemitCashCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrRemitCashCommandIsNotConstructed if validation fails.
func (c RemitCashCommand) Validate() error {
	return c.guard.Validate(ErrRemitCashCommandIsNotConstructed)
}

// DriverTransactionID returns the ledger entry being remitted.
func (c RemitCashCommand) DriverTransactionID() kernel.UUID {
	return c.driverTransactionID
}

// Actor returns who recorded the remittance.
func (c RemitCashCommand) Actor() settlement.Actor {
	return c.actor
}

// Receipt returns the remittance receipt blob.
func (c RemitCashCommand) Receipt() []byte {
	return c.receipt
}

// ContentType returns the blob's content type.
func (c RemitCashCommand) ContentType() string {
	return c.contentType
}

func (c *RemitCashCommand) setDriverTransactionID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.driverTransactionID = id
	return nil
}

func (c *RemitCashCommand) setActor(actor settlement.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}

func (c *RemitCashCommand) setReceipt(receipt []byte) error {
	if len(receipt) == 0 {
		return ErrReceiptIsRequired
	}

	c.receipt = receipt
	return nil
}
