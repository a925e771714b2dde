package commands_test

import (
	"context"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/settlement"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllAvailable(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllActiveByDriver(ctx context.Context, driverID kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) CountActiveByDriver(ctx context.Context, driverID kernel.UUID) (int, error) {
	args := m.Called(ctx, driverID)
	return args.Int(0), args.Error(1)
}

func (m *MockOrderRepository) ClaimAvailable(
	ctx context.Context, orderID kernel.UUID, driverID kernel.UUID, driverName string, at time.Time,
) (bool, error) {
	args := m.Called(ctx, orderID, driverID, driverName, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) ReleaseAssigned(ctx context.Context, orderID kernel.UUID, driverID kernel.UUID) (bool, error) {
	args := m.Called(ctx, orderID, driverID)
	return args.Bool(0), args.Error(1)
}

type MockDriverRepository struct{ mock.Mock }

func (m *MockDriverRepository) Add(ctx context.Context, d *driver.Driver) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDriverRepository) Update(ctx context.Context, d *driver.Driver) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDriverRepository) DebitCash(ctx context.Context, id kernel.UUID, amount kernel.Money) (bool, error) {
	args := m.Called(ctx, id, amount)
	return args.Bool(0), args.Error(1)
}

func (m *MockDriverRepository) Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Driver), args.Error(1)
}

func (m *MockDriverRepository) GetAll(ctx context.Context) ([]*driver.Driver, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*driver.Driver), args.Error(1)
}

type MockSettlementRepository struct{ mock.Mock }

func (m *MockSettlementRepository) AddPair(
	ctx context.Context, driverTx *settlement.DriverTransaction, vendorTx *settlement.VendorTransaction,
) error {
	args := m.Called(ctx, driverTx, vendorTx)
	return args.Error(0)
}

func (m *MockSettlementRepository) AddDriverTransaction(ctx context.Context, tx *settlement.DriverTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockSettlementRepository) AddVendorTransaction(ctx context.Context, tx *settlement.VendorTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockSettlementRepository) SettleDriverTransaction(ctx context.Context, tx *settlement.DriverTransaction) (bool, error) {
	args := m.Called(ctx, tx)
	return args.Bool(0), args.Error(1)
}

func (m *MockSettlementRepository) ReconcileVendorTransaction(ctx context.Context, tx *settlement.VendorTransaction) (bool, error) {
	args := m.Called(ctx, tx)
	return args.Bool(0), args.Error(1)
}

func (m *MockSettlementRepository) UpdateDriverTransaction(ctx context.Context, tx *settlement.DriverTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockSettlementRepository) UpdateVendorTransaction(ctx context.Context, tx *settlement.VendorTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockSettlementRepository) GetDriverTransaction(ctx context.Context, id kernel.UUID) (*settlement.DriverTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.DriverTransaction), args.Error(1)
}

func (m *MockSettlementRepository) GetVendorTransaction(ctx context.Context, id kernel.UUID) (*settlement.VendorTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.VendorTransaction), args.Error(1)
}

func (m *MockSettlementRepository) GetPairByOrder(
	ctx context.Context, orderID kernel.UUID,
) (*settlement.DriverTransaction, *settlement.VendorTransaction, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*settlement.DriverTransaction), args.Get(1).(*settlement.VendorTransaction), args.Error(2)
}

func (m *MockSettlementRepository) GetAllUnremittedByDriver(
	ctx context.Context, driverID kernel.UUID,
) ([]*settlement.DriverTransaction, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*settlement.DriverTransaction), args.Error(1)
}

func (m *MockSettlementRepository) GetAllOrphaned(
	ctx context.Context,
) ([]*settlement.DriverTransaction, []*settlement.VendorTransaction, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*settlement.DriverTransaction),
		args.Get(1).([]*settlement.VendorTransaction),
		args.Error(2)
}

type MockWalletRepository struct{ mock.Mock }

func (m *MockWalletRepository) Add(ctx context.Context, w *settlement.Wallet) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockWalletRepository) Update(ctx context.Context, w *settlement.Wallet) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockWalletRepository) Get(ctx context.Context, id kernel.UUID) (*settlement.Wallet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetByOwner(ctx context.Context, ownerID kernel.UUID) (*settlement.Wallet, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.Wallet), args.Error(1)
}

func (m *MockWalletRepository) AddEntry(ctx context.Context, entry *settlement.WalletEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockWalletRepository) GetEntries(ctx context.Context, walletID kernel.UUID) ([]*settlement.WalletEntry, error) {
	args := m.Called(ctx, walletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*settlement.WalletEntry), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) DriverRepository() ports.DriverRepository {
	args := m.Called()
	return args.Get(0).(ports.DriverRepository)
}

func (m *MockUoW) SettlementRepository() ports.SettlementRepository {
	args := m.Called()
	return args.Get(0).(ports.SettlementRepository)
}

func (m *MockUoW) WalletRepository() ports.WalletRepository {
	args := m.Called()
	return args.Get(0).(ports.WalletRepository)
}

type MockAssignmentUoWFactory struct{ mock.Mock }

func (m *MockAssignmentUoWFactory) Create() commands.AssignmentUoW {
	args := m.Called()
	return args.Get(0).(commands.AssignmentUoW)
}

type MockSettlementUoWFactory struct{ mock.Mock }

func (m *MockSettlementUoWFactory) Create() commands.SettlementUoW {
	args := m.Called()
	return args.Get(0).(commands.SettlementUoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockWalletUoWFactory struct{ mock.Mock }

func (m *MockWalletUoWFactory) Create() commands.WalletUoW {
	args := m.Called()
	return args.Get(0).(commands.WalletUoW)
}

type MockSignatureStore struct{ mock.Mock }

func (m *MockSignatureStore) Store(ctx context.Context, blob []byte, contentType string) (string, error) {
	args := m.Called(ctx, blob, contentType)
	return args.String(0), args.Error(1)
}
