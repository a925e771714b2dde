package walletrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/settlement"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormWalletRepository implements WalletRepository using GORM.
type GormWalletRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormWalletRepository creates a new GORM wallet repository.
func NewGormWalletRepository(db *gorm.DB, tracker aggregateTracker) *GormWalletRepository {
	return &GormWalletRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new wallet to the database.
func (r *GormWalletRepository) Add(ctx context.Context, wallet *settlement.Wallet) error {
	if err := wallet.Validate(); err != nil {
		return err
	}

	dto := walletFromDomain(wallet)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(wallet.ID(), wallet)
	return nil
}

// Update saves the wallet's current balance.
func (r *GormWalletRepository) Update(ctx context.Context, wallet *settlement.Wallet) error {
	if err := wallet.Validate(); err != nil {
		return err
	}

	dto := walletFromDomain(wallet)
	result := r.db.WithContext(ctx).Model(&WalletDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(wallet.ID(), wallet)
	return nil
}

// Get retrieves a wallet by ID.
func (r *GormWalletRepository) Get(ctx context.Context, id kernel.UUID) (*settlement.Wallet, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto WalletDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("wallet", id.String())
		}
		return nil, err
	}

	return walletToDomain(dto)
}

// GetByOwner retrieves the wallet belonging to a driver or vendor.
func (r *GormWalletRepository) GetByOwner(ctx context.Context, ownerID kernel.UUID) (*settlement.Wallet, error) {
	if err := ownerID.Validate(); err != nil {
		return nil, err
	}

	var dto WalletDTO
	if err := r.db.WithContext(ctx).First(&dto, "owner_id = ?", ownerID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("wallet owner", ownerID.String())
		}
		return nil, err
	}

	return walletToDomain(dto)
}

// AddEntry persists a wallet adjustment entry.
func (r *GormWalletRepository) AddEntry(ctx context.Context, entry *settlement.WalletEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := entryFromDomain(entry)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(entry.ID(), entry)
	return nil
}

// GetEntries retrieves a wallet's adjustment history, newest first.
func (r *GormWalletRepository) GetEntries(ctx context.Context, walletID kernel.UUID) ([]*settlement.WalletEntry, error) {
	if err := walletID.Validate(); err != nil {
		return nil, err
	}

	var dtos []WalletEntryDTO
	err := r.db.WithContext(ctx).
		Where("wallet_id = ?", walletID.Bytes()).
		Order("created_at DESC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*settlement.WalletEntry, 0, len(dtos))
	for _, dto := range dtos {
		entry, entryErr := entryToDomain(dto)
		if entryErr != nil {
			return nil, entryErr
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
