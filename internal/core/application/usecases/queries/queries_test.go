package queries_test

import (
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAvailableOrdersQuery_Validate(t *testing.T) {
	query := queries.NewGetAvailableOrdersQuery()
	assert.NoError(t, query.Validate())

	var zero queries.GetAvailableOrdersQuery
	assert.ErrorIs(t, zero.Validate(), queries.ErrGetAvailableOrdersQueryIsNotConstructed)
}

func TestNewGetDriverLedgerQuery(t *testing.T) {
	t.Run("valid driver id", func(t *testing.T) {
		driverID := kernel.NewUUID()

		query, err := queries.NewGetDriverLedgerQuery(driverID)

		require.NoError(t, err)
		assert.NoError(t, query.Validate())
		assert.Equal(t, driverID, query.DriverID())
	})

	t.Run("zero driver id", func(t *testing.T) {
		_, err := queries.NewGetDriverLedgerQuery(kernel.UUID{})
		require.Error(t, err)
	})

	t.Run("zero value query", func(t *testing.T) {
		var zero queries.GetDriverLedgerQuery
		assert.ErrorIs(t, zero.Validate(), queries.ErrGetDriverLedgerQueryIsNotConstructed)
	})
}

func TestGetDriverLedgerQueryResponse_CarriesBreakdown(t *testing.T) {
	now := time.Now().UTC()
	entry := queries.GetDriverLedgerQueryResponse{
		TransactionID:    kernel.NewUUID(),
		OrderCode:        "ORD-3001",
		GrossAmount:      kernel.MustMoney(5000),
		CommissionAmount: kernel.MustMoney(500),
		NetAmount:        kernel.MustMoney(4500),
		Status:           "pending-remittance",
		CreatedAt:        now,
	}

	assert.Equal(t, entry.GrossAmount, entry.CommissionAmount.Add(entry.NetAmount))
	assert.Nil(t, entry.RemittedAt)
}

func TestGetUnremittedTotalsQuery_Validate(t *testing.T) {
	query := queries.NewGetUnremittedTotalsQuery()
	assert.NoError(t, query.Validate())

	var zero queries.GetUnremittedTotalsQuery
	assert.ErrorIs(t, zero.Validate(), queries.ErrGetUnremittedTotalsQueryIsNotConstructed)
}
