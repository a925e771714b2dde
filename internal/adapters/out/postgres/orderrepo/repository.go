package orderrepo

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// activeStatuses are the statuses that count an order against its driver.
func activeStatuses() []string {
	return []string{
		order.Assigned.String(),
		order.Preparing.String(),
		order.Ready.String(),
		order.Enroute.String(),
	}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order to the database. All columns are written,
// including nullable ones, so clearing a field in the domain clears it here.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllAvailable retrieves the claimable pool, oldest first.
func (r *GormOrderRepository) GetAllAvailable(ctx context.Context) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND driver_id IS NULL", order.Available.String()).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetAllActiveByDriver retrieves the driver's in-flight orders.
func (r *GormOrderRepository) GetAllActiveByDriver(ctx context.Context, driverID kernel.UUID) ([]*order.Order, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("driver_id = ? AND status IN ?", driverID.Bytes(), activeStatuses()).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// CountActiveByDriver counts the driver's in-flight orders.
func (r *GormOrderRepository) CountActiveByDriver(ctx context.Context, driverID kernel.UUID) (int, error) {
	if err := driverID.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("driver_id = ? AND status IN ?", driverID.Bytes(), activeStatuses()).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return int(count), nil
}

// ClaimAvailable assigns the driver with one conditional UPDATE. The WHERE
// clause is the whole claim protocol: only a row that is still available
// with no driver matches, so of any number of concurrent claims exactly one
// affects a row.
func (r *GormOrderRepository) ClaimAvailable(
	ctx context.Context,
	orderID kernel.UUID,
	driverID kernel.UUID,
	driverName string,
	at time.Time,
) (bool, error) {
	if err := errors.Join(orderID.Validate(), driverID.Validate()); err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND status = ? AND driver_id IS NULL",
			orderID.Bytes(), order.Available.String()).
		Updates(map[string]any{
			"driver_id":   driverID.Bytes(),
			"driver_name": driverName,
			"status":      order.Assigned.String(),
			"assigned_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// ReleaseAssigned reverts the claim with one conditional UPDATE keyed on the
// order still being assigned to this driver.
func (r *GormOrderRepository) ReleaseAssigned(
	ctx context.Context,
	orderID kernel.UUID,
	driverID kernel.UUID,
) (bool, error) {
	if err := errors.Join(orderID.Validate(), driverID.Validate()); err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND status = ? AND driver_id = ?",
			orderID.Bytes(), order.Assigned.String(), driverID.Bytes()).
		Updates(map[string]any{
			"driver_id":   nil,
			"driver_name": "",
			"status":      order.Available.String(),
			"assigned_at": nil,
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

func toDomainSlice(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}
