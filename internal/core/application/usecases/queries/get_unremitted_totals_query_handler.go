package queries

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/settlement"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetUnremittedTotalsQueryHandler aggregates outstanding cash per driver
// straight in SQL; the ledger can be large and only the sums leave the
// database.
type GetUnremittedTotalsQueryHandler struct {
	db *gorm.DB
}

// NewGetUnremittedTotalsQueryHandler creates a handler for collections queries.
// Requires a GORM database connection for query execution.
func NewGetUnremittedTotalsQueryHandler(db *gorm.DB) GetUnremittedTotalsQueryHandler {
	return GetUnremittedTotalsQueryHandler{db: db}
}

// Handle executes the query to aggregate unremitted cash per driver.
// Drivers with nothing outstanding are omitted; results are sorted by
// outstanding amount, largest first.
func (h GetUnremittedTotalsQueryHandler) Handle(
	ctx context.Context,
	query GetUnremittedTotalsQuery,
) ([]GetUnremittedTotalsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	totals := make([]GetUnremittedTotalsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			t.driver_id,
			d.name,
			COUNT(*),
			SUM(t.net_amount)
		FROM driver_transactions t
		JOIN drivers d ON d.id = t.driver_id
		WHERE t.status = ?
		GROUP BY t.driver_id, d.name
		ORDER BY SUM(t.net_amount) DESC
	`, settlement.PendingRemittance.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetUnremittedTotalsQueryResponse
		var id uuid.UUID
		var total int64

		err = rows.Scan(
			&id,
			&resp.DriverName,
			&resp.EntryCount,
			&total,
		)
		if err != nil {
			return nil, err
		}

		driverID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.DriverID = driverID

		if resp.TotalPending, err = kernel.NewMoney(total); err != nil {
			return nil, err
		}

		totals = append(totals, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return totals, nil
}
