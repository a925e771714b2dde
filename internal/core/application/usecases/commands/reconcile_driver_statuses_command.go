package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrReconcileDriverStatusesCommandIsNotConstructed = errors.New(
	"ReconcileDriverStatusesCommand must be created via NewReconcileDriverStatusesCommand constructor",
)

// ReconcileDriverStatusesCommand re-derives every driver's availability from
// their active order count. Orderly command flow keeps the statuses correct
// on its own; this command exists for the periodic job that repairs drift
// after crashes or manual data fixes.
type ReconcileDriverStatusesCommand struct {
	guard guard.ConstructorGuard
}

// NewReconcileDriverStatusesCommand creates a command to trigger reconciliation.
// This is a parameterless command covering the whole driver roster.
func NewReconcileDriverStatusesCommand() ReconcileDriverStatusesCommand {
	return ReconcileDriverStatusesCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
// Returns ErrReconcileDriverStatusesCommandIsNotConstructed if validation fails.
func (c *ReconcileDriverStatusesCommand) Validate() error {
	return c.guard.Validate(
		ErrReconcileDriverStatusesCommandIsNotConstructed,
	)
}
