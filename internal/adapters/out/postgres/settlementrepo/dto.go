// Package settlementrepo provides data transfer objects and mapping functions
// for the dual-entry cash ledger. Both sides of a pair live in their own
// table; the unique index on order_id in each table is what makes delivery
// settlement safe to replay.
package settlementrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/settlement"

	"github.com/google/uuid"
)

// DriverTransactionDTO represents the database structure for driver-side
// ledger entries.
type DriverTransactionDTO struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID             uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null"`
	OrderCode           string     `gorm:"not null"`
	DriverID            uuid.UUID  `gorm:"type:uuid;index;not null"`
	VendorID            uuid.UUID  `gorm:"type:uuid;index;not null"`
	GrossAmount         int64      `gorm:"not null"`
	CommissionAmount    int64      `gorm:"not null"`
	NetAmount           int64      `gorm:"not null"`
	Status              string     `gorm:"index;not null"`
	VendorTransactionID *uuid.UUID `gorm:"type:uuid"`
	RemittanceProofRef  *string
	RemittedBy          *string
	CreatedAt           time.Time `gorm:"index"`
	RemittedAt          *time.Time
}

// TableName specifies the database table name for driver-side entries.
func (DriverTransactionDTO) TableName() string {
	return "driver_transactions"
}

// VendorTransactionDTO represents the database structure for vendor-side
// ledger entries.
type VendorTransactionDTO struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID             uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null"`
	OrderCode           string     `gorm:"not null"`
	DriverID            uuid.UUID  `gorm:"type:uuid;index;not null"`
	VendorID            uuid.UUID  `gorm:"type:uuid;index;not null"`
	GrossAmount         int64      `gorm:"not null"`
	CommissionAmount    int64      `gorm:"not null"`
	NetAmount           int64      `gorm:"not null"`
	Status              string     `gorm:"index;not null"`
	DriverTransactionID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt           time.Time  `gorm:"index"`
	ReconciledAt        *time.Time
}

// TableName specifies the database table name for vendor-side entries.
func (VendorTransactionDTO) TableName() string {
	return "vendor_transactions"
}

func driverTxFromDomain(tx *settlement.DriverTransaction) DriverTransactionDTO {
	var vendorTxID *uuid.UUID
	if id := tx.VendorTransactionID(); id != nil {
		raw := id.Bytes()
		vendorTxID = &raw
	}

	var remittedBy *string
	if actor := tx.RemittedBy(); actor != nil {
		s := actor.String()
		remittedBy = &s
	}

	return DriverTransactionDTO{
		ID:                  tx.ID().Bytes(),
		OrderID:             tx.OrderID().Bytes(),
		OrderCode:           tx.OrderCode(),
		DriverID:            tx.DriverID().Bytes(),
		VendorID:            tx.VendorID().Bytes(),
		GrossAmount:         tx.GrossAmount().Cents(),
		CommissionAmount:    tx.CommissionAmount().Cents(),
		NetAmount:           tx.NetAmount().Cents(),
		Status:              tx.Status().String(),
		VendorTransactionID: vendorTxID,
		RemittanceProofRef:  tx.RemittanceProof(),
		RemittedBy:          remittedBy,
		CreatedAt:           tx.CreatedAt(),
		RemittedAt:          tx.RemittedAt(),
	}
}

func driverTxToDomain(dto DriverTransactionDTO) (*settlement.DriverTransaction, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	driverID, err := kernel.UUIDFromBytes(dto.DriverID[:])
	if err != nil {
		return nil, err
	}
	vendorID, err := kernel.UUIDFromBytes(dto.VendorID[:])
	if err != nil {
		return nil, err
	}

	var vendorTxID *kernel.UUID
	if dto.VendorTransactionID != nil {
		vID, linkErr := kernel.UUIDFromBytes((*dto.VendorTransactionID)[:])
		if linkErr != nil {
			return nil, linkErr
		}
		vendorTxID = &vID
	}

	status, err := settlement.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	var remittedBy *settlement.Actor
	if dto.RemittedBy != nil {
		actor, actorErr := settlement.ActorFromString(*dto.RemittedBy)
		if actorErr != nil {
			return nil, actorErr
		}
		remittedBy = &actor
	}

	gross, commission, net, err := amounts(dto.GrossAmount, dto.CommissionAmount, dto.NetAmount)
	if err != nil {
		return nil, err
	}

	return settlement.RestoreDriverTransaction(
		id, orderID, dto.OrderCode, driverID, vendorID,
		gross, commission, net,
		status, vendorTxID, dto.RemittanceProofRef, remittedBy,
		dto.CreatedAt, dto.RemittedAt,
	)
}

func vendorTxFromDomain(tx *settlement.VendorTransaction) VendorTransactionDTO {
	var driverTxID *uuid.UUID
	if id := tx.DriverTransactionID(); id != nil {
		raw := id.Bytes()
		driverTxID = &raw
	}

	return VendorTransactionDTO{
		ID:                  tx.ID().Bytes(),
		OrderID:             tx.OrderID().Bytes(),
		OrderCode:           tx.OrderCode(),
		DriverID:            tx.DriverID().Bytes(),
		VendorID:            tx.VendorID().Bytes(),
		GrossAmount:         tx.GrossAmount().Cents(),
		CommissionAmount:    tx.CommissionAmount().Cents(),
		NetAmount:           tx.NetAmount().Cents(),
		Status:              tx.Status().String(),
		DriverTransactionID: driverTxID,
		CreatedAt:           tx.CreatedAt(),
		ReconciledAt:        tx.ReconciledAt(),
	}
}

func vendorTxToDomain(dto VendorTransactionDTO) (*settlement.VendorTransaction, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	driverID, err := kernel.UUIDFromBytes(dto.DriverID[:])
	if err != nil {
		return nil, err
	}
	vendorID, err := kernel.UUIDFromBytes(dto.VendorID[:])
	if err != nil {
		return nil, err
	}

	var driverTxID *kernel.UUID
	if dto.DriverTransactionID != nil {
		dID, linkErr := kernel.UUIDFromBytes((*dto.DriverTransactionID)[:])
		if linkErr != nil {
			return nil, linkErr
		}
		driverTxID = &dID
	}

	status, err := settlement.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	gross, commission, net, err := amounts(dto.GrossAmount, dto.CommissionAmount, dto.NetAmount)
	if err != nil {
		return nil, err
	}

	return settlement.RestoreVendorTransaction(
		id, orderID, dto.OrderCode, driverID, vendorID,
		gross, commission, net,
		status, driverTxID,
		dto.CreatedAt, dto.ReconciledAt,
	)
}

func amounts(gross, commission, net int64) (kernel.Money, kernel.Money, kernel.Money, error) {
	grossM, err := kernel.NewMoney(gross)
	if err != nil {
		return kernel.Money{}, kernel.Money{}, kernel.Money{}, err
	}
	commissionM, err := kernel.NewMoney(commission)
	if err != nil {
		return kernel.Money{}, kernel.Money{}, kernel.Money{}, err
	}
	netM, err := kernel.NewMoney(net)
	if err != nil {
		return kernel.Money{}, kernel.Money{}, kernel.Money{}, err
	}

	return grossM, commissionM, netM, nil
}
