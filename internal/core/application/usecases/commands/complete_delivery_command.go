package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrCompleteDeliveryCommandIsNotConstructed = errors.New(
		"CompleteDeliveryCommand must be created via NewCompleteDeliveryCommand constructor",
	)
	ErrSignatureIsRequired = errors.New("proof-of-delivery signature is required")
)

// CompleteDeliveryCommand represents a driver finishing a delivery with the
// customer's signature as proof. For cash-on-delivery orders this is also
// the moment the settlement ledger pair is created.
//
// The command is safe to replay: a retry after a lost response finds the
// order already delivered and succeeds without creating a second ledger pair.
type CompleteDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	driverID    kernel.UUID
	signature   []byte
	contentType string

	guard guard.ConstructorGuard
}

// NewCompleteDeliveryCommand creates a command to complete a delivery.
// The signature blob must be non-empty; contentType describes its format.
func NewCompleteDeliveryCommand(
	orderID kernel.UUID,
	driverID kernel.UUID,
	signature []byte,
	contentType string,
) (CompleteDeliveryCommand, error) {
	command := CompleteDeliveryCommand{
		contentType: contentType,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setDriverID(driverID),
		command.setSignature(signature),
	); err != nil {
		return CompleteDeliveryCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCompleteDeliveryCommandIsNotConstructed if validation fails.
func (c CompleteDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCompleteDeliveryCommandIsNotConstructed)
}

// OrderID returns the order being completed.
func (c CompleteDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}

// DriverID returns the delivering driver.
func (c CompleteDeliveryCommand) DriverID() kernel.UUID {
	return c.driverID
}

// Signature returns the proof-of-delivery blob.
func (c CompleteDeliveryCommand) Signature() []byte {
	return c.signature
}

// ContentType returns the blob's content type.
func (c CompleteDeliveryCommand) ContentType() string {
	return c.contentType
}

func (c *CompleteDeliveryCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.orderID = id
	return nil
}

func (c *CompleteDeliveryCommand) setDriverID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.driverID = id
	return nil
}

func (c *CompleteDeliveryCommand) setSignature(signature []byte) error {
	if len(signature) == 0 {
		return ErrSignatureIsRequired
	}

	c.signature = signature
	return nil
}
