package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetDriverLedgerQueryIsNotConstructed = errors.New(
	"GetDriverLedgerQuery must be created via NewGetDriverLedgerQuery constructor",
)

// GetDriverLedgerQuery retrieves a driver's cash ledger: every settlement
// entry with its remittance state, newest first.
type GetDriverLedgerQuery struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetDriverLedgerQuery creates a query for one driver's ledger.
func NewGetDriverLedgerQuery(driverID kernel.UUID) (GetDriverLedgerQuery, error) {
	if err := driverID.Validate(); err != nil {
		return GetDriverLedgerQuery{}, err
	}

	return GetDriverLedgerQuery{
		driverID: driverID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetDriverLedgerQueryIsNotConstructed if validation fails.
func (q GetDriverLedgerQuery) Validate() error {
	return q.guard.Validate(ErrGetDriverLedgerQueryIsNotConstructed)
}

// DriverID returns the driver whose ledger is requested.
func (q GetDriverLedgerQuery) DriverID() kernel.UUID {
	return q.driverID
}

// GetDriverLedgerQueryResponse represents one ledger entry in the read model.
type GetDriverLedgerQueryResponse struct {
	TransactionID    kernel.UUID
	OrderCode        string
	GrossAmount      kernel.Money
	CommissionAmount kernel.Money
	NetAmount        kernel.Money
	Status           string
	CreatedAt        time.Time
	RemittedAt       *time.Time
}
