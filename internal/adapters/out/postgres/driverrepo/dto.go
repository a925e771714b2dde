// Package driverrepo provides data transfer objects and mapping functions for driver persistence.
// This package implements the repository pattern for the driver domain aggregate, handling
// the conversion between domain entities and database representations.
package driverrepo

import (
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DriverDTO represents the database structure for persisting driver aggregates.
// CashOnHand is the running balance of collected-but-unremitted cash in cents.
type DriverDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"not null"`
	Status     string    `gorm:"index;not null"`
	CashOnHand int64     `gorm:"not null"`
}

// TableName specifies the database table name for driver entities.
// Overrides GORM's default naming convention to use "drivers".
func (DriverDTO) TableName() string {
	return "drivers"
}

// fromDomain converts a driver domain aggregate to its database representation.
func fromDomain(aggregate *driver.Driver) DriverDTO {
	return DriverDTO{
		ID:         aggregate.ID().Bytes(),
		Name:       aggregate.Name(),
		Status:     aggregate.Status().String(),
		CashOnHand: aggregate.CashOnHand().Cents(),
	}
}

// toDomain converts a database DTO to a driver domain aggregate.
func toDomain(dto DriverDTO) (*driver.Driver, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := driver.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	cashOnHand, err := kernel.NewMoney(dto.CashOnHand)
	if err != nil {
		return nil, err
	}

	return driver.RestoreDriver(id, dto.Name, status, cashOnHand)
}
