package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrAdjustWalletCommandIsNotConstructed = errors.New(
		"AdjustWalletCommand must be created via NewAdjustWalletCommand constructor",
	)
	ErrAmountIsZero          = errors.New("adjustment amount must be non-zero")
	ErrAdjustReasonIsMissing = errors.New("adjustment reason is required")
	ErrActorIsMissing        = errors.New("adjustment actor is required")
)

// AdjustWalletCommand applies a signed correction to a wallet balance.
// Adjustments are the manual compensation path: a wrongly settled delivery
// is corrected by an explicit signed entry here, never by editing the
// settlement ledger.
type AdjustWalletCommand struct { //nolint:recvcheck //using for validation
	ownerID kernel.UUID
	amount  int64
	reason  string
	actor   string

	guard guard.ConstructorGuard
}

// NewAdjustWalletCommand creates a command to adjust the owner's wallet.
// Amount is in cents; positive credits, negative debits. Reason and actor
// are required for the audit trail.
func NewAdjustWalletCommand(ownerID kernel.UUID, amount int64, reason string, actor string) (AdjustWalletCommand, error) {
	command := AdjustWalletCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOwnerID(ownerID),
		command.setAmount(amount),
		command.setReason(reason),
		command.setActor(actor),
	); err != nil {
		return AdjustWalletCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAdjustWalletCommandIsNotConstructed if validation fails.
func (c AdjustWalletCommand) Validate() error {
	return c.guard.Validate(ErrAdjustWalletCommandIsNotConstructed)
}

// OwnerID returns the wallet owner.
func (c AdjustWalletCommand) OwnerID() kernel.UUID {
	return c.ownerID
}

// Amount returns the signed adjustment in cents.
func (c AdjustWalletCommand) Amount() int64 {
	return c.amount
}

// Reason returns the audit reason for the adjustment.
func (c AdjustWalletCommand) Reason() string {
	return c.reason
}

// Actor returns who authorized the adjustment.
func (c AdjustWalletCommand) Actor() string {
	return c.actor
}

func (c *AdjustWalletCommand) setOwnerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.ownerID = id
	return nil
}

func (c *AdjustWalletCommand) setAmount(amount int64) error {
	if amount == 0 {
		return ErrAmountIsZero
	}

	c.amount = amount
	return nil
}

func (c *AdjustWalletCommand) setReason(reason string) error {
	if reason == "" {
		return ErrAdjustReasonIsMissing
	}

	c.reason = reason
	return nil
}

func (c *AdjustWalletCommand) setActor(actor string) error {
	if actor == "" {
		return ErrActorIsMissing
	}

	c.actor = actor
	return nil
}
