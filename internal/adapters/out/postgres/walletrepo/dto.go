// Package walletrepo provides data transfer objects and mapping functions
// for wallet persistence. Balances and the signed entries that explain them
// are stored side by side.
package walletrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/settlement"

	"github.com/google/uuid"
)

// WalletDTO represents the database structure for wallet balances.
type WalletDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Balance int64     `gorm:"not null"`
}

// TableName specifies the database table name for wallets.
func (WalletDTO) TableName() string {
	return "wallets"
}

// WalletEntryDTO represents the database structure for signed adjustments.
type WalletEntryDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	WalletID  uuid.UUID `gorm:"type:uuid;index;not null"`
	Amount    int64     `gorm:"not null"`
	Reason    string    `gorm:"not null"`
	Actor     string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"index"`
}

// TableName specifies the database table name for wallet entries.
func (WalletEntryDTO) TableName() string {
	return "wallet_entries"
}

func walletFromDomain(wallet *settlement.Wallet) WalletDTO {
	return WalletDTO{
		ID:      wallet.ID().Bytes(),
		OwnerID: wallet.OwnerID().Bytes(),
		Balance: wallet.Balance().Cents(),
	}
}

func walletToDomain(dto WalletDTO) (*settlement.Wallet, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	ownerID, err := kernel.UUIDFromBytes(dto.OwnerID[:])
	if err != nil {
		return nil, err
	}
	balance, err := kernel.NewMoney(dto.Balance)
	if err != nil {
		return nil, err
	}

	return settlement.RestoreWallet(id, ownerID, balance)
}

func entryFromDomain(entry *settlement.WalletEntry) WalletEntryDTO {
	return WalletEntryDTO{
		ID:        entry.ID().Bytes(),
		WalletID:  entry.WalletID().Bytes(),
		Amount:    entry.Amount(),
		Reason:    entry.Reason(),
		Actor:     entry.Actor(),
		CreatedAt: entry.CreatedAt(),
	}
}

func entryToDomain(dto WalletEntryDTO) (*settlement.WalletEntry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	walletID, err := kernel.UUIDFromBytes(dto.WalletID[:])
	if err != nil {
		return nil, err
	}

	return settlement.RestoreWalletEntry(id, walletID, dto.Amount, dto.Reason, dto.Actor, dto.CreatedAt)
}
