// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetAvailableOrdersQueryIsNotConstructed = errors.New(
	"GetAvailableOrdersQuery must be created via NewGetAvailableOrdersQuery constructor",
)

// GetAvailableOrdersQuery retrieves the pool of orders drivers can claim.
// Results are a snapshot: by the time a driver acts on one, another driver
// may already hold it, and the claim protocol resolves that.
//
// Example:
//
//	query := NewGetAvailableOrdersQuery()
//	handler := NewGetAvailableOrdersQueryHandler(db)
//
//	pool, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to retrieve order pool: %w", err)
//	}
type GetAvailableOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetAvailableOrdersQuery creates a query to retrieve the claimable pool.
// This is a parameterless query that fetches every available order.
func NewGetAvailableOrdersQuery() GetAvailableOrdersQuery {
	return GetAvailableOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetAvailableOrdersQueryIsNotConstructed if validation fails.
func (q GetAvailableOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableOrdersQueryIsNotConstructed)
}

// GetAvailableOrdersQueryResponse represents one claimable order in the read
// model, carrying what a driver needs to decide whether to claim it.
type GetAvailableOrdersQueryResponse struct {
	ID              kernel.UUID
	OrderCode       string
	PickupAddress   string
	DeliveryAddress string
	TotalAmount     kernel.Money
	DeliveryFee     kernel.Money
	PaymentMethod   string
	CreatedAt       time.Time
}
