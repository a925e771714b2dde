package settlementrepo_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/settlementrepo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/settlement"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// SettlementRepositoryIntegrationTestSuite provides integration tests for
// SettlementRepository using PostgreSQL containers to verify ledger
// persistence behavior, in particular the one-pair-per-order guarantee.
type SettlementRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *settlementrepo.GormSettlementRepository
	tracker    *MockAggregateTracker
}

func (suite *SettlementRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&settlementrepo.DriverTransactionDTO{},
		&settlementrepo.VendorTransactionDTO{},
	))
}

func (suite *SettlementRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE driver_transactions, vendor_transactions").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = settlementrepo.NewGormSettlementRepository(suite.db, suite.tracker)
}

func (suite *SettlementRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *SettlementRepositoryIntegrationTestSuite) TestAddPair_ValidPair_PersistsBothSides() {
	ctx := context.Background()

	driverTx, vendorTx := suite.createLinkedPair(kernel.NewUUID(), "ORD-2001")
	suite.expectTracking(driverTx, vendorTx)

	err := suite.repository.AddPair(ctx, driverTx, vendorTx)
	suite.Require().NoError(err)

	suite.assertCount(&settlementrepo.DriverTransactionDTO{}, 1)
	suite.assertCount(&settlementrepo.VendorTransactionDTO{}, 1)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *SettlementRepositoryIntegrationTestSuite) TestAddPair_SameOrderTwice_RejectedByUniqueIndex() {
	ctx := context.Background()

	orderID := kernel.NewUUID()
	first, firstVendor := suite.createLinkedPair(orderID, "ORD-2002")
	suite.expectTracking(first, firstVendor)
	suite.Require().NoError(suite.repository.AddPair(ctx, first, firstVendor))

	// A replayed settlement for the same order must not create a second pair.
	second, secondVendor := suite.createLinkedPair(orderID, "ORD-2002")
	err := suite.repository.AddPair(ctx, second, secondVendor)
	suite.Require().Error(err)

	suite.assertCount(&settlementrepo.DriverTransactionDTO{}, 1)
	suite.assertCount(&settlementrepo.VendorTransactionDTO{}, 1)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *SettlementRepositoryIntegrationTestSuite) TestGetPairByOrder_ExistingPair_RoundTripsLinksAndAmounts() {
	ctx := context.Background()

	orderID := kernel.NewUUID()
	driverTx, vendorTx := suite.createLinkedPair(orderID, "ORD-2003")
	suite.expectTracking(driverTx, vendorTx)
	suite.Require().NoError(suite.repository.AddPair(ctx, driverTx, vendorTx))

	gotDriver, gotVendor, err := suite.repository.GetPairByOrder(ctx, orderID)
	suite.Require().NoError(err)

	suite.Equal(driverTx.ID(), gotDriver.ID())
	suite.Equal(vendorTx.ID(), gotVendor.ID())
	suite.Equal("ORD-2003", gotDriver.OrderCode())
	suite.Equal(kernel.MustMoney(5000), gotDriver.GrossAmount())
	suite.Equal(kernel.MustMoney(500), gotDriver.CommissionAmount())
	suite.Equal(kernel.MustMoney(4500), gotDriver.NetAmount())
	suite.Equal(settlement.PendingRemittance, gotDriver.Status())
	suite.Equal(settlement.AwaitingRemittance, gotVendor.Status())

	suite.Require().NotNil(gotDriver.VendorTransactionID())
	suite.Equal(vendorTx.ID(), *gotDriver.VendorTransactionID())
	suite.Require().NotNil(gotVendor.DriverTransactionID())
	suite.Equal(driverTx.ID(), *gotVendor.DriverTransactionID())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *SettlementRepositoryIntegrationTestSuite) TestGetPairByOrder_NoPair_ReturnsNotFoundError() {
	ctx := context.Background()

	gotDriver, gotVendor, err := suite.repository.GetPairByOrder(ctx, kernel.NewUUID())

	suite.Nil(gotDriver)
	suite.Nil(gotVendor)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *SettlementRepositoryIntegrationTestSuite) TestUpdateDriverTransaction_Remittance_PersistsProofAndActor() {
	ctx := context.Background()

	orderID := kernel.NewUUID()
	driverTx, vendorTx := suite.createLinkedPair(orderID, "ORD-2004")
	suite.expectTracking(driverTx, vendorTx)
	suite.Require().NoError(suite.repository.AddPair(ctx, driverTx, vendorTx))

	remittedAt := time.Now().UTC().Truncate(time.Millisecond)
	suite.Require().NoError(driverTx.MarkRemitted("receipts/r42", settlement.ActorDriver, remittedAt))
	suite.Require().NoError(vendorTx.MarkReconciled(remittedAt))

	suite.tracker.On("TrackAggregate", driverTx.ID(), driverTx).Once()
	suite.tracker.On("TrackAggregate", vendorTx.ID(), vendorTx).Once()
	suite.Require().NoError(suite.repository.UpdateDriverTransaction(ctx, driverTx))
	suite.Require().NoError(suite.repository.UpdateVendorTransaction(ctx, vendorTx))

	gotDriver, gotVendor, err := suite.repository.GetPairByOrder(ctx, orderID)
	suite.Require().NoError(err)

	suite.Equal(settlement.Remitted, gotDriver.Status())
	suite.Require().NotNil(gotDriver.RemittanceProof())
	suite.Equal("receipts/r42", *gotDriver.RemittanceProof())
	suite.Require().NotNil(gotDriver.RemittedBy())
	suite.Equal(settlement.ActorDriver, *gotDriver.RemittedBy())
	suite.Require().NotNil(gotDriver.RemittedAt())
	suite.Equal(settlement.Reconciled, gotVendor.Status())
	suite.Require().NotNil(gotVendor.ReconciledAt())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *SettlementRepositoryIntegrationTestSuite) TestGetAllUnremittedByDriver_ReturnsPendingEntriesOldestFirst() {
	ctx := context.Background()

	driverID := kernel.NewUUID()
	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything)

	older := suite.createLinkedPairForDriver(kernel.NewUUID(), "ORD-2005", driverID, time.Now().Add(-2*time.Hour))
	newer := suite.createLinkedPairForDriver(kernel.NewUUID(), "ORD-2006", driverID, time.Now().Add(-1*time.Hour))
	suite.Require().NoError(suite.repository.AddPair(ctx, older.driver, older.vendor))
	suite.Require().NoError(suite.repository.AddPair(ctx, newer.driver, newer.vendor))

	// A remitted entry for the same driver must be excluded.
	settled := suite.createLinkedPairForDriver(kernel.NewUUID(), "ORD-2007", driverID, time.Now())
	suite.Require().NoError(settled.driver.MarkRemitted("receipts/r1", settlement.ActorDriver, time.Now()))
	suite.Require().NoError(suite.repository.AddPair(ctx, settled.driver, settled.vendor))

	// Another driver's entry must be excluded too.
	foreign := suite.createLinkedPairForDriver(kernel.NewUUID(), "ORD-2008", kernel.NewUUID(), time.Now())
	suite.Require().NoError(suite.repository.AddPair(ctx, foreign.driver, foreign.vendor))

	unremitted, err := suite.repository.GetAllUnremittedByDriver(ctx, driverID)
	suite.Require().NoError(err)

	suite.Require().Len(unremitted, 2)
	suite.Equal("ORD-2005", unremitted[0].OrderCode())
	suite.Equal("ORD-2006", unremitted[1].OrderCode())
}

func (suite *SettlementRepositoryIntegrationTestSuite) TestGetAllOrphaned_FindsHalfLinkedEntries() {
	ctx := context.Background()

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything)

	// A healthy pair is invisible to the orphan scan.
	healthy, healthyVendor := suite.createLinkedPair(kernel.NewUUID(), "ORD-2009")
	suite.Require().NoError(suite.repository.AddPair(ctx, healthy, healthyVendor))

	// A driver entry that never received its vendor link, and a vendor entry
	// missing its driver link. Inserted as raw rows to simulate a crash
	// between the settlement writes.
	orphanDriver := settlementrepo.DriverTransactionDTO{
		ID:               kernel.NewUUID().Bytes(),
		OrderID:          kernel.NewUUID().Bytes(),
		OrderCode:        "ORD-2010",
		DriverID:         kernel.NewUUID().Bytes(),
		VendorID:         kernel.NewUUID().Bytes(),
		GrossAmount:      5000,
		CommissionAmount: 500,
		NetAmount:        4500,
		Status:           settlement.PendingRemittance.String(),
		CreatedAt:        time.Now().UTC(),
	}
	orphanVendor := settlementrepo.VendorTransactionDTO{
		ID:               kernel.NewUUID().Bytes(),
		OrderID:          kernel.NewUUID().Bytes(),
		OrderCode:        "ORD-2011",
		DriverID:         kernel.NewUUID().Bytes(),
		VendorID:         kernel.NewUUID().Bytes(),
		GrossAmount:      5000,
		CommissionAmount: 500,
		NetAmount:        4500,
		Status:           settlement.AwaitingRemittance.String(),
		CreatedAt:        time.Now().UTC(),
	}
	suite.Require().NoError(suite.db.Create(&orphanDriver).Error)
	suite.Require().NoError(suite.db.Create(&orphanVendor).Error)

	driverOrphans, vendorOrphans, err := suite.repository.GetAllOrphaned(ctx)
	suite.Require().NoError(err)

	suite.Require().Len(driverOrphans, 1)
	suite.Equal("ORD-2010", driverOrphans[0].OrderCode())
	suite.Require().Len(vendorOrphans, 1)
	suite.Equal("ORD-2011", vendorOrphans[0].OrderCode())
}

func (suite *SettlementRepositoryIntegrationTestSuite) TestSettleDriverTransaction_SecondSettleLoses() {
	ctx := context.Background()

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything)

	orderID := kernel.NewUUID()
	driverTx, vendorTx := suite.createLinkedPair(orderID, "ORD-2012")
	suite.Require().NoError(suite.repository.AddPair(ctx, driverTx, vendorTx))

	// Two remittances that both loaded the pending snapshot before either
	// wrote, which is exactly what concurrent transactions read.
	first, err := suite.repository.GetDriverTransaction(ctx, driverTx.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.GetDriverTransaction(ctx, driverTx.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(first.MarkRemitted("receipts/r1", settlement.ActorDriver, time.Now()))
	suite.Require().NoError(second.MarkRemitted("receipts/r2", settlement.ActorVendor, time.Now()))

	won, err := suite.repository.SettleDriverTransaction(ctx, first)
	suite.Require().NoError(err)
	suite.True(won)

	won, err = suite.repository.SettleDriverTransaction(ctx, second)
	suite.Require().NoError(err)
	suite.False(won)

	// The first remittance's proof survives.
	got, err := suite.repository.GetDriverTransaction(ctx, driverTx.ID())
	suite.Require().NoError(err)
	suite.Equal(settlement.Remitted, got.Status())
	suite.Require().NotNil(got.RemittanceProof())
	suite.Equal("receipts/r1", *got.RemittanceProof())
}

func (suite *SettlementRepositoryIntegrationTestSuite) TestReconcileVendorTransaction_SecondReconcileLoses() {
	ctx := context.Background()

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything)

	orderID := kernel.NewUUID()
	driverTx, vendorTx := suite.createLinkedPair(orderID, "ORD-2013")
	suite.Require().NoError(suite.repository.AddPair(ctx, driverTx, vendorTx))

	first, err := suite.repository.GetVendorTransaction(ctx, vendorTx.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.GetVendorTransaction(ctx, vendorTx.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(first.MarkReconciled(time.Now()))
	suite.Require().NoError(second.MarkReconciled(time.Now()))

	won, err := suite.repository.ReconcileVendorTransaction(ctx, first)
	suite.Require().NoError(err)
	suite.True(won)

	won, err = suite.repository.ReconcileVendorTransaction(ctx, second)
	suite.Require().NoError(err)
	suite.False(won)
}

func (suite *SettlementRepositoryIntegrationTestSuite) TestSettleDriverTransaction_ConcurrentSettles_ExactlyOneWinner() {
	ctx := context.Background()

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything)

	orderID := kernel.NewUUID()
	driverTx, vendorTx := suite.createLinkedPair(orderID, "ORD-2014")
	suite.Require().NoError(suite.repository.AddPair(ctx, driverTx, vendorTx))

	const contenders = 8

	// Every contender loads its own pending snapshot before any settle
	// lands, then all race the conditional write.
	snapshots := make([]*settlement.DriverTransaction, contenders)
	for i := range snapshots {
		snapshot, err := suite.repository.GetDriverTransaction(ctx, driverTx.ID())
		suite.Require().NoError(err)
		suite.Require().NoError(snapshot.MarkRemitted(
			fmt.Sprintf("receipts/c%d", i), settlement.ActorDriver, time.Now(),
		))
		snapshots[i] = snapshot
	}

	var start, done sync.WaitGroup
	start.Add(1)
	wins := make(chan bool, contenders)
	settleErrs := make(chan error, contenders)

	for _, snapshot := range snapshots {
		done.Add(1)
		go func(tx *settlement.DriverTransaction) {
			defer done.Done()
			start.Wait()

			won, err := suite.repository.SettleDriverTransaction(ctx, tx)
			if err != nil {
				settleErrs <- err
				return
			}
			wins <- won
		}(snapshot)
	}

	start.Done()
	done.Wait()
	close(wins)
	close(settleErrs)

	for err := range settleErrs {
		suite.Require().NoError(err)
	}

	winners := 0
	for won := range wins {
		if won {
			winners++
		}
	}
	suite.Equal(1, winners)

	got, err := suite.repository.GetDriverTransaction(ctx, driverTx.ID())
	suite.Require().NoError(err)
	suite.Equal(settlement.Remitted, got.Status())
}

type pair struct {
	driver *settlement.DriverTransaction
	vendor *settlement.VendorTransaction
}

// createLinkedPair builds a mutually linked transaction pair for the order.
func (suite *SettlementRepositoryIntegrationTestSuite) createLinkedPair(
	orderID kernel.UUID, code string,
) (*settlement.DriverTransaction, *settlement.VendorTransaction) {
	p := suite.createLinkedPairForDriver(orderID, code, kernel.NewUUID(), time.Now().UTC())
	return p.driver, p.vendor
}

func (suite *SettlementRepositoryIntegrationTestSuite) createLinkedPairForDriver(
	orderID kernel.UUID, code string, driverID kernel.UUID, createdAt time.Time,
) pair {
	driverTx := suite.createDriverTransaction(orderID, code, driverID, createdAt)
	vendorTx := suite.createVendorTransaction(orderID, code, driverID, createdAt)

	suite.Require().NoError(driverTx.LinkVendorTransaction(vendorTx.ID()))
	suite.Require().NoError(vendorTx.LinkDriverTransaction(driverTx.ID()))
	return pair{driver: driverTx, vendor: vendorTx}
}

func (suite *SettlementRepositoryIntegrationTestSuite) createDriverTransaction(
	orderID kernel.UUID, code string, driverID kernel.UUID, createdAt time.Time,
) *settlement.DriverTransaction {
	tx, err := settlement.NewDriverTransaction(
		kernel.NewUUID(), orderID, code, driverID, kernel.NewUUID(),
		kernel.MustMoney(5000), kernel.MustMoney(500), kernel.MustMoney(4500),
		createdAt,
	)
	suite.Require().NoError(err)
	return tx
}

func (suite *SettlementRepositoryIntegrationTestSuite) createVendorTransaction(
	orderID kernel.UUID, code string, driverID kernel.UUID, createdAt time.Time,
) *settlement.VendorTransaction {
	tx, err := settlement.NewVendorTransaction(
		kernel.NewUUID(), orderID, code, driverID, kernel.NewUUID(),
		kernel.MustMoney(5000), kernel.MustMoney(500), kernel.MustMoney(4500),
		createdAt,
	)
	suite.Require().NoError(err)
	return tx
}

func (suite *SettlementRepositoryIntegrationTestSuite) expectTracking(
	driverTx *settlement.DriverTransaction, vendorTx *settlement.VendorTransaction,
) {
	suite.tracker.On("TrackAggregate", driverTx.ID(), driverTx).Once()
	suite.tracker.On("TrackAggregate", vendorTx.ID(), vendorTx).Once()
}

func (suite *SettlementRepositoryIntegrationTestSuite) assertCount(model interface{}, expected int) {
	var count int64
	err := suite.db.Model(model).Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

func TestSettlementRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(SettlementRepositoryIntegrationTestSuite))
}
