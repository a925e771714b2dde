package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrSweepOrphanTransactionsCommandIsNotConstructed = errors.New(
	"SweepOrphanTransactionsCommand must be created via NewSweepOrphanTransactionsCommand constructor",
)

// SweepOrphanTransactionsCommand scans the settlement ledger for entries
// whose cross-link is missing. Pairs are written atomically so a healthy
// ledger has none; any hit indicates corruption that needs an operator.
type SweepOrphanTransactionsCommand struct {
	guard guard.ConstructorGuard
}

// NewSweepOrphanTransactionsCommand creates a command to trigger the sweep.
// This is a parameterless command covering the whole ledger.
func NewSweepOrphanTransactionsCommand() SweepOrphanTransactionsCommand {
	return SweepOrphanTransactionsCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
// Returns ErrSweepOrphanTransactionsCommandIsNotConstructed if validation fails.
func (c *SweepOrphanTransactionsCommand) Validate() error {
	return c.guard.Validate(
		ErrSweepOrphanTransactionsCommandIsNotConstructed,
	)
}
