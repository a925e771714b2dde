// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Status is stored as its string form so the claim predicate in SQL reads
// the same as the domain rule, and so the table stays inspectable by hand.
type OrderDTO struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderCode       string     `gorm:"uniqueIndex;not null"`
	VendorID        uuid.UUID  `gorm:"type:uuid;index;not null"`
	CustomerID      uuid.UUID  `gorm:"type:uuid;not null"`
	DriverID        *uuid.UUID `gorm:"type:uuid;index"`
	DriverName      string
	Status          string `gorm:"index;not null"`
	PaymentMethod   string `gorm:"not null"`
	TotalAmount     int64  `gorm:"not null"`
	CommissionFee   int64  `gorm:"not null"`
	DeliveryFee     int64  `gorm:"not null"`
	PickupOrder     bool
	PickupAddress   string
	DeliveryAddress string
	ProofRef        *string
	CreatedAt       time.Time `gorm:"index"`
	AssignedAt      *time.Time
	PickedUpAt      *time.Time
	DeliveredAt     *time.Time
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	var driverID *uuid.UUID
	if id := aggregate.Driver(); id != nil {
		raw := id.Bytes()
		driverID = &raw
	}

	return OrderDTO{
		ID:              aggregate.ID().Bytes(),
		OrderCode:       aggregate.OrderCode(),
		VendorID:        aggregate.VendorID().Bytes(),
		CustomerID:      aggregate.CustomerID().Bytes(),
		DriverID:        driverID,
		DriverName:      aggregate.DriverName(),
		Status:          aggregate.Status().String(),
		PaymentMethod:   aggregate.PaymentMethod().String(),
		TotalAmount:     aggregate.TotalAmount().Cents(),
		CommissionFee:   aggregate.CommissionFee().Cents(),
		DeliveryFee:     aggregate.DeliveryFee().Cents(),
		PickupOrder:     aggregate.IsPickupOrder(),
		PickupAddress:   aggregate.PickupAddress(),
		DeliveryAddress: aggregate.DeliveryAddress(),
		ProofRef:        aggregate.ProofOfDelivery(),
		CreatedAt:       aggregate.CreatedAt(),
		AssignedAt:      aggregate.AssignedAt(),
		PickedUpAt:      aggregate.PickedUpAt(),
		DeliveredAt:     aggregate.DeliveredAt(),
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including driver assignment using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	vendorID, err := kernel.UUIDFromBytes(dto.VendorID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		dID, driverErr := kernel.UUIDFromBytes((*dto.DriverID)[:])
		if driverErr != nil {
			return nil, driverErr
		}

		driverID = &dID
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}
	method, err := order.PaymentMethodFromString(dto.PaymentMethod)
	if err != nil {
		return nil, err
	}

	totalAmount, err := kernel.NewMoney(dto.TotalAmount)
	if err != nil {
		return nil, err
	}
	commissionFee, err := kernel.NewMoney(dto.CommissionFee)
	if err != nil {
		return nil, err
	}
	deliveryFee, err := kernel.NewMoney(dto.DeliveryFee)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id,
		dto.OrderCode,
		vendorID,
		customerID,
		driverID,
		dto.DriverName,
		status,
		method,
		totalAmount,
		commissionFee,
		deliveryFee,
		dto.PickupOrder,
		dto.PickupAddress,
		dto.DeliveryAddress,
		dto.ProofRef,
		dto.CreatedAt,
		dto.AssignedAt,
		dto.PickedUpAt,
		dto.DeliveredAt,
	)
}
