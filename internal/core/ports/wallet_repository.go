package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/settlement"
)

// WalletRepository defines the persistence contract for wallets and their
// signed adjustment entries. Every balance change is stored alongside the
// entry that caused it, in the same transaction.
type WalletRepository interface {
	// Add persists a new wallet.
	Add(ctx context.Context, wallet *settlement.Wallet) error

	// Update persists the wallet's current balance.
	Update(ctx context.Context, wallet *settlement.Wallet) error

	// Get retrieves a wallet by its identifier.
	// Returns errs.ObjectNotFoundError if no such wallet exists.
	Get(ctx context.Context, id kernel.UUID) (*settlement.Wallet, error)

	// GetByOwner retrieves the wallet belonging to a driver or vendor.
	GetByOwner(ctx context.Context, ownerID kernel.UUID) (*settlement.Wallet, error)

	// AddEntry persists a wallet adjustment entry.
	AddEntry(ctx context.Context, entry *settlement.WalletEntry) error

	// GetEntries retrieves a wallet's adjustment history, newest first.
	GetEntries(ctx context.Context, walletID kernel.UUID) ([]*settlement.WalletEntry, error)
}
