package settlementrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/settlement"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormSettlementRepository implements SettlementRepository using GORM.
type GormSettlementRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormSettlementRepository creates a new GORM settlement repository.
func NewGormSettlementRepository(db *gorm.DB, tracker aggregateTracker) *GormSettlementRepository {
	return &GormSettlementRepository{
		db:      db,
		tracker: tracker,
	}
}

// AddPair persists both sides of a ledger pair. The unique index on
// order_id rejects a second pair for the same order, which surfaces a
// replayed settlement as a constraint error instead of duplicated money.
func (r *GormSettlementRepository) AddPair(
	ctx context.Context,
	driverTx *settlement.DriverTransaction,
	vendorTx *settlement.VendorTransaction,
) error {
	if err := errors.Join(driverTx.Validate(), vendorTx.Validate()); err != nil {
		return err
	}

	driverDTO := driverTxFromDomain(driverTx)
	if err := r.db.WithContext(ctx).Create(&driverDTO).Error; err != nil {
		return err
	}

	vendorDTO := vendorTxFromDomain(vendorTx)
	if err := r.db.WithContext(ctx).Create(&vendorDTO).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(driverTx.ID(), driverTx)
	r.tracker.TrackAggregate(vendorTx.ID(), vendorTx)
	return nil
}

// AddDriverTransaction persists a single driver-side entry. The unique index
// on order_id still applies, so a sweep racing a late settlement write loses
// with a constraint error instead of duplicating the entry.
func (r *GormSettlementRepository) AddDriverTransaction(ctx context.Context, tx *settlement.DriverTransaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	dto := driverTxFromDomain(tx)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(tx.ID(), tx)
	return nil
}

// AddVendorTransaction persists a single vendor-side entry.
func (r *GormSettlementRepository) AddVendorTransaction(ctx context.Context, tx *settlement.VendorTransaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	dto := vendorTxFromDomain(tx)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(tx.ID(), tx)
	return nil
}

// UpdateDriverTransaction saves settlement-state changes on a driver-side entry.
func (r *GormSettlementRepository) UpdateDriverTransaction(ctx context.Context, tx *settlement.DriverTransaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	dto := driverTxFromDomain(tx)
	result := r.db.WithContext(ctx).Model(&DriverTransactionDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(tx.ID(), tx)
	return nil
}

// UpdateVendorTransaction saves settlement-state changes on a vendor-side entry.
func (r *GormSettlementRepository) UpdateVendorTransaction(ctx context.Context, tx *settlement.VendorTransaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	dto := vendorTxFromDomain(tx)
	result := r.db.WithContext(ctx).Model(&VendorTransactionDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(tx.ID(), tx)
	return nil
}

// SettleDriverTransaction persists the remitted state with one conditional
// UPDATE. The WHERE clause is the double-remit guard: only a row still in
// pending-remittance matches, so of any number of concurrent remittances
// exactly one affects the row.
func (r *GormSettlementRepository) SettleDriverTransaction(ctx context.Context, tx *settlement.DriverTransaction) (bool, error) {
	if err := tx.Validate(); err != nil {
		return false, err
	}

	dto := driverTxFromDomain(tx)
	result := r.db.WithContext(ctx).Model(&DriverTransactionDTO{}).
		Where("id = ? AND status = ?", dto.ID, settlement.PendingRemittance.String()).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return false, result.Error
	}

	if result.RowsAffected == 1 {
		r.tracker.TrackAggregate(tx.ID(), tx)
	}
	return result.RowsAffected == 1, nil
}

// ReconcileVendorTransaction persists the reconciled state with one
// conditional UPDATE keyed on the row still awaiting remittance.
func (r *GormSettlementRepository) ReconcileVendorTransaction(ctx context.Context, tx *settlement.VendorTransaction) (bool, error) {
	if err := tx.Validate(); err != nil {
		return false, err
	}

	dto := vendorTxFromDomain(tx)
	result := r.db.WithContext(ctx).Model(&VendorTransactionDTO{}).
		Where("id = ? AND status = ?", dto.ID, settlement.AwaitingRemittance.String()).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return false, result.Error
	}

	if result.RowsAffected == 1 {
		r.tracker.TrackAggregate(tx.ID(), tx)
	}
	return result.RowsAffected == 1, nil
}

// GetDriverTransaction retrieves a driver-side entry by ID.
func (r *GormSettlementRepository) GetDriverTransaction(ctx context.Context, id kernel.UUID) (*settlement.DriverTransaction, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DriverTransactionDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("driver_transaction", id.String())
		}
		return nil, err
	}

	return driverTxToDomain(dto)
}

// GetVendorTransaction retrieves a vendor-side entry by ID.
func (r *GormSettlementRepository) GetVendorTransaction(ctx context.Context, id kernel.UUID) (*settlement.VendorTransaction, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto VendorTransactionDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("vendor_transaction", id.String())
		}
		return nil, err
	}

	return vendorTxToDomain(dto)
}

// GetPairByOrder retrieves both sides of the ledger pair for an order.
func (r *GormSettlementRepository) GetPairByOrder(
	ctx context.Context,
	orderID kernel.UUID,
) (*settlement.DriverTransaction, *settlement.VendorTransaction, error) {
	if err := orderID.Validate(); err != nil {
		return nil, nil, err
	}

	var driverDTO DriverTransactionDTO
	if err := r.db.WithContext(ctx).First(&driverDTO, "order_id = ?", orderID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errs.NewObjectNotFoundError("settlement pair", orderID.String())
		}
		return nil, nil, err
	}

	var vendorDTO VendorTransactionDTO
	if err := r.db.WithContext(ctx).First(&vendorDTO, "order_id = ?", orderID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errs.NewObjectNotFoundError("settlement pair", orderID.String())
		}
		return nil, nil, err
	}

	driverTx, err := driverTxToDomain(driverDTO)
	if err != nil {
		return nil, nil, err
	}
	vendorTx, err := vendorTxToDomain(vendorDTO)
	if err != nil {
		return nil, nil, err
	}

	return driverTx, vendorTx, nil
}

// GetAllUnremittedByDriver retrieves the driver's open entries, oldest first.
func (r *GormSettlementRepository) GetAllUnremittedByDriver(
	ctx context.Context,
	driverID kernel.UUID,
) ([]*settlement.DriverTransaction, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}

	var dtos []DriverTransactionDTO
	err := r.db.WithContext(ctx).
		Where("driver_id = ? AND status = ?", driverID.Bytes(), settlement.PendingRemittance.String()).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	txs := make([]*settlement.DriverTransaction, 0, len(dtos))
	for _, dto := range dtos {
		tx, txErr := driverTxToDomain(dto)
		if txErr != nil {
			return nil, txErr
		}
		txs = append(txs, tx)
	}

	return txs, nil
}

// GetAllOrphaned retrieves entries on either side whose cross-link is NULL.
func (r *GormSettlementRepository) GetAllOrphaned(
	ctx context.Context,
) ([]*settlement.DriverTransaction, []*settlement.VendorTransaction, error) {
	var driverDTOs []DriverTransactionDTO
	err := r.db.WithContext(ctx).
		Where("vendor_transaction_id IS NULL").
		Find(&driverDTOs).Error
	if err != nil {
		return nil, nil, err
	}

	var vendorDTOs []VendorTransactionDTO
	err = r.db.WithContext(ctx).
		Where("driver_transaction_id IS NULL").
		Find(&vendorDTOs).Error
	if err != nil {
		return nil, nil, err
	}

	driverTxs := make([]*settlement.DriverTransaction, 0, len(driverDTOs))
	for _, dto := range driverDTOs {
		tx, txErr := driverTxToDomain(dto)
		if txErr != nil {
			return nil, nil, txErr
		}
		driverTxs = append(driverTxs, tx)
	}

	vendorTxs := make([]*settlement.VendorTransaction, 0, len(vendorDTOs))
	for _, dto := range vendorDTOs {
		tx, txErr := vendorTxToDomain(dto)
		if txErr != nil {
			return nil, nil, txErr
		}
		vendorTxs = append(vendorTxs, tx)
	}

	return driverTxs, vendorTxs, nil
}
