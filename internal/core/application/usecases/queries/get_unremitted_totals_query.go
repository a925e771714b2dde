package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetUnremittedTotalsQueryIsNotConstructed = errors.New(
	"GetUnremittedTotalsQuery must be created via NewGetUnremittedTotalsQuery constructor",
)

// GetUnremittedTotalsQuery aggregates, per driver, the cash collected but
// not yet remitted. Operations uses this as the daily collections sheet.
type GetUnremittedTotalsQuery struct {
	guard guard.ConstructorGuard
}

// NewGetUnremittedTotalsQuery creates a query for outstanding cash per driver.
// This is a parameterless query covering every driver with open entries.
func NewGetUnremittedTotalsQuery() GetUnremittedTotalsQuery {
	return GetUnremittedTotalsQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetUnremittedTotalsQueryIsNotConstructed if validation fails.
func (q GetUnremittedTotalsQuery) Validate() error {
	return q.guard.Validate(ErrGetUnremittedTotalsQueryIsNotConstructed)
}

// GetUnremittedTotalsQueryResponse represents one driver's outstanding cash.
type GetUnremittedTotalsQueryResponse struct {
	DriverID     kernel.UUID
	DriverName   string
	EntryCount   int
	TotalPending kernel.Money
}
