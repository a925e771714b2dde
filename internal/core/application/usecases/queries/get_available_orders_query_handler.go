package queries

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAvailableOrdersQueryHandler retrieves the claimable order pool from the
// database. Uses direct SQL queries for optimal read performance in the CQRS
// pattern.
type GetAvailableOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetAvailableOrdersQueryHandler creates a handler for order pool queries.
// Requires a GORM database connection for query execution.
func NewGetAvailableOrdersQueryHandler(db *gorm.DB) GetAvailableOrdersQueryHandler {
	return GetAvailableOrdersQueryHandler{db: db}
}

// Handle executes the query to retrieve all available orders.
// Returns the pool oldest first so long-waiting orders surface on top.
func (h GetAvailableOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetAvailableOrdersQuery,
) ([]GetAvailableOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetAvailableOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_code,
			pickup_address,
			delivery_address,
			total_amount,
			delivery_fee,
			payment_method,
			created_at
		FROM orders
		WHERE status = ? AND driver_id IS NULL
		ORDER BY created_at
	`, order.Available.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetAvailableOrdersQueryResponse
		var id uuid.UUID
		var totalAmount, deliveryFee int64

		err = rows.Scan(
			&id,
			&resp.OrderCode,
			&resp.PickupAddress,
			&resp.DeliveryAddress,
			&totalAmount,
			&deliveryFee,
			&resp.PaymentMethod,
			&resp.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = orderID

		if resp.TotalAmount, err = kernel.NewMoney(totalAmount); err != nil {
			return nil, err
		}
		if resp.DeliveryFee, err = kernel.NewMoney(deliveryFee); err != nil {
			return nil, err
		}

		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
