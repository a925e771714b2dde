package queries

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetDriverLedgerQueryHandler retrieves a driver's settlement history from
// the database.
type GetDriverLedgerQueryHandler struct {
	db *gorm.DB
}

// NewGetDriverLedgerQueryHandler creates a handler for driver ledger queries.
// Requires a GORM database connection for query execution.
func NewGetDriverLedgerQueryHandler(db *gorm.DB) GetDriverLedgerQueryHandler {
	return GetDriverLedgerQueryHandler{db: db}
}

// Handle executes the query to retrieve the driver's ledger, newest first.
func (h GetDriverLedgerQueryHandler) Handle(
	ctx context.Context,
	query GetDriverLedgerQuery,
) ([]GetDriverLedgerQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	entries := make([]GetDriverLedgerQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_code,
			gross_amount,
			commission_amount,
			net_amount,
			status,
			created_at,
			remitted_at
		FROM driver_transactions
		WHERE driver_id = ?
		ORDER BY created_at DESC
	`, query.DriverID().String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetDriverLedgerQueryResponse
		var id uuid.UUID
		var gross, commission, net int64

		err = rows.Scan(
			&id,
			&resp.OrderCode,
			&gross,
			&commission,
			&net,
			&resp.Status,
			&resp.CreatedAt,
			&resp.RemittedAt,
		)
		if err != nil {
			return nil, err
		}

		txID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.TransactionID = txID

		if resp.GrossAmount, err = kernel.NewMoney(gross); err != nil {
			return nil, err
		}
		if resp.CommissionAmount, err = kernel.NewMoney(commission); err != nil {
			return nil, err
		}
		if resp.NetAmount, err = kernel.NewMoney(net); err != nil {
			return nil, err
		}

		entries = append(entries, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
