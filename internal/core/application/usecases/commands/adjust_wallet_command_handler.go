package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/settlement"
	"dispatch/internal/pkg/errs"
)

// AdjustWalletCommandHandler applies a signed wallet correction. The entry
// and the balance change are persisted in one transaction; an owner without
// a wallet gets one created on first adjustment.
type AdjustWalletCommandHandler struct {
	uowFactory WalletUoWFactory
}

// NewAdjustWalletCommandHandler creates a handler for wallet adjustments.
func NewAdjustWalletCommandHandler(uowFactory WalletUoWFactory) AdjustWalletCommandHandler {
	return AdjustWalletCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the adjustment command.
// Returns settlement.ErrWalletOverdraft when a debit exceeds the balance.
func (h AdjustWalletCommandHandler) Handle(ctx context.Context, command AdjustWalletCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	walletRepo := uow.WalletRepository()

	wallet, err := walletRepo.GetByOwner(ctx, command.OwnerID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		wallet, err = settlement.NewWallet(kernel.NewUUID(), command.OwnerID())
		if err != nil {
			return err
		}
		if err = walletRepo.Add(ctx, wallet); err != nil {
			return err
		}
	case err != nil:
		return err
	}

	entry, err := settlement.NewWalletEntry(
		kernel.NewUUID(), wallet.ID(), command.Amount(),
		command.Reason(), command.Actor(), now(),
	)
	if err != nil {
		return err
	}

	if err = wallet.Apply(entry); err != nil {
		return err
	}

	if err = walletRepo.AddEntry(ctx, entry); err != nil {
		return err
	}
	if err = walletRepo.Update(ctx, wallet); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
