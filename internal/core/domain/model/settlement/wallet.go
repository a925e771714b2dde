package settlement

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var (
	// ErrWalletIsNotConstructed is returned when a Wallet instance was not
	// created through NewWallet or RestoreWallet.
	ErrWalletIsNotConstructed = errors.New("Wallet must be created via NewWallet or RestoreWallet")

	// ErrWalletOverdraft is returned when a negative adjustment would drive
	// the wallet balance below zero.
	ErrWalletOverdraft = errors.New("adjustment would drive wallet balance negative")
)

// Wallet is an admin-adjustable balance outside the driver/vendor settlement
// path. It shares the ledger discipline: the balance is never written
// directly, only moved by applying signed WalletEntry adjustments, so every
// change is auditable.
type Wallet struct {
	id      kernel.UUID
	ownerID kernel.UUID
	balance kernel.Money

	isConstructed bool
}

// NewWallet creates an empty wallet for the given owner.
func NewWallet(id kernel.UUID, ownerID kernel.UUID) (*Wallet, error) {
	if err := errors.Join(id.Validate(), ownerID.Validate()); err != nil {
		return nil, err
	}
	return &Wallet{id: id, ownerID: ownerID, isConstructed: true}, nil
}

// RestoreWallet reconstructs a wallet from persistence.
func RestoreWallet(id kernel.UUID, ownerID kernel.UUID, balance kernel.Money) (*Wallet, error) {
	w, err := NewWallet(id, ownerID)
	if err != nil {
		return nil, err
	}
	w.balance = balance
	return w, nil
}

// Validate ensures the wallet was properly constructed.
func (w *Wallet) Validate() error {
	if w == nil || !w.isConstructed {
		return ErrWalletIsNotConstructed
	}
	return nil
}

// ID returns the wallet's unique identifier.
func (w *Wallet) ID() kernel.UUID {
	return w.id
}

// OwnerID returns the account the wallet belongs to.
func (w *Wallet) OwnerID() kernel.UUID {
	return w.ownerID
}

// Balance returns the current balance.
func (w *Wallet) Balance() kernel.Money {
	return w.balance
}

// Apply moves the balance by the entry's signed amount. A negative adjustment
// that would overdraw the wallet fails with ErrWalletOverdraft and leaves the
// balance untouched.
func (w *Wallet) Apply(entry *WalletEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	if entry.Amount() >= 0 {
		credit, err := kernel.NewMoney(entry.Amount())
		if err != nil {
			return err
		}
		w.balance = w.balance.Add(credit)
		return nil
	}

	debit, err := kernel.NewMoney(-entry.Amount())
	if err != nil {
		return err
	}
	remaining, err := w.balance.Subtract(debit)
	if err != nil {
		return ErrWalletOverdraft
	}
	w.balance = remaining
	return nil
}

// WalletEntry is one signed adjustment applied to a wallet. Entries are
// immutable once created; the wallet's balance is the sum of its entries.
type WalletEntry struct {
	id        kernel.UUID
	walletID  kernel.UUID
	amount    int64
	reason    string
	actor     string
	createdAt time.Time

	isConstructed bool
}

// NewWalletEntry creates a signed adjustment. The amount is in cents and may
// be negative; zero adjustments and empty reasons are rejected because they
// carry no audit value.
func NewWalletEntry(
	id kernel.UUID,
	walletID kernel.UUID,
	amount int64,
	reason string,
	actor string,
	createdAt time.Time,
) (*WalletEntry, error) {
	if err := errors.Join(id.Validate(), walletID.Validate()); err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, errs.NewValueIsInvalidError("wallet adjustment amount")
	}
	if reason == "" {
		return nil, errs.NewValueIsRequiredError("wallet adjustment reason")
	}
	if actor == "" {
		return nil, errs.NewValueIsRequiredError("wallet adjustment actor")
	}

	return &WalletEntry{
		id:            id,
		walletID:      walletID,
		amount:        amount,
		reason:        reason,
		actor:         actor,
		createdAt:     createdAt,
		isConstructed: true,
	}, nil
}

// RestoreWalletEntry reconstructs an adjustment from persistence.
func RestoreWalletEntry(
	id kernel.UUID,
	walletID kernel.UUID,
	amount int64,
	reason string,
	actor string,
	createdAt time.Time,
) (*WalletEntry, error) {
	return NewWalletEntry(id, walletID, amount, reason, actor, createdAt)
}

// Validate ensures the entry was properly constructed.
func (e *WalletEntry) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrWalletIsNotConstructed
	}
	return nil
}

// ID returns the entry's unique identifier.
func (e *WalletEntry) ID() kernel.UUID {
	return e.id
}

// WalletID returns the wallet the entry adjusts.
func (e *WalletEntry) WalletID() kernel.UUID {
	return e.walletID
}

// Amount returns the signed adjustment in cents.
func (e *WalletEntry) Amount() int64 {
	return e.amount
}

// Reason returns the audit reason for the adjustment.
func (e *WalletEntry) Reason() string {
	return e.reason
}

// Actor returns who made the adjustment.
func (e *WalletEntry) Actor() string {
	return e.actor
}

// CreatedAt returns the entry creation timestamp.
func (e *WalletEntry) CreatedAt() time.Time {
	return e.createdAt
}
