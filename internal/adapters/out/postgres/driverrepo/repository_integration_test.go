package driverrepo_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/driverrepo"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"

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

// DriverRepositoryIntegrationTestSuite provides integration tests for
// DriverRepository using PostgreSQL containers, focused on the cash balance
// guard that keeps debits from overdrawing the stored balance.
type DriverRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *driverrepo.GormDriverRepository
	tracker    *MockAggregateTracker
}

func (suite *DriverRepositoryIntegrationTestSuite) SetupSuite() {
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

	suite.Require().NoError(db.AutoMigrate(&driverrepo.DriverDTO{}))
}

func (suite *DriverRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *DriverRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE drivers").Error)
	suite.tracker = &MockAggregateTracker{}
	suite.repository = driverrepo.NewGormDriverRepository(suite.db, suite.tracker)
}

func (suite *DriverRepositoryIntegrationTestSuite) createDriverWithCash(name string, cash kernel.Money) *driver.Driver {
	d, err := driver.NewDriver(kernel.NewUUID(), name)
	suite.Require().NoError(err)
	d.Credit(cash)

	suite.tracker.On("TrackAggregate", d.ID(), mock.Anything).Once()
	suite.Require().NoError(suite.repository.Add(context.Background(), d))

	return d
}

func (suite *DriverRepositoryIntegrationTestSuite) storedCash(id kernel.UUID) kernel.Money {
	got, err := suite.repository.Get(context.Background(), id)
	suite.Require().NoError(err)
	return got.CashOnHand()
}

func (suite *DriverRepositoryIntegrationTestSuite) TestDebitCash_ReducesBalance() {
	ctx := context.Background()
	d := suite.createDriverWithCash("Iris Calloway", kernel.MustMoney(9000))

	debited, err := suite.repository.DebitCash(ctx, d.ID(), kernel.MustMoney(4500))
	suite.Require().NoError(err)
	suite.True(debited)

	suite.Equal(int64(4500), suite.storedCash(d.ID()).Cents())
}

func (suite *DriverRepositoryIntegrationTestSuite) TestDebitCash_RejectsOverdraft() {
	ctx := context.Background()
	d := suite.createDriverWithCash("Iris Calloway", kernel.MustMoney(3000))

	debited, err := suite.repository.DebitCash(ctx, d.ID(), kernel.MustMoney(4500))
	suite.Require().NoError(err)
	suite.False(debited)

	// A rejected debit leaves the balance untouched.
	suite.Equal(int64(3000), suite.storedCash(d.ID()).Cents())
}

func (suite *DriverRepositoryIntegrationTestSuite) TestDebitCash_UnknownDriver() {
	debited, err := suite.repository.DebitCash(context.Background(), kernel.NewUUID(), kernel.MustMoney(100))
	suite.Require().NoError(err)
	suite.False(debited)
}

func (suite *DriverRepositoryIntegrationTestSuite) TestDebitCash_ConcurrentDebits_NeverOverdraw() {
	ctx := context.Background()

	// The balance covers exactly one of the racing debits.
	d := suite.createDriverWithCash("Iris Calloway", kernel.MustMoney(4500))

	const contenders = 8

	var start, done sync.WaitGroup
	start.Add(1)
	wins := make(chan bool, contenders)
	debitErrs := make(chan error, contenders)

	for i := 0; i < contenders; i++ {
		done.Add(1)
		go func() {
			defer done.Done()
			start.Wait()

			debited, err := suite.repository.DebitCash(ctx, d.ID(), kernel.MustMoney(4500))
			if err != nil {
				debitErrs <- err
				return
			}
			wins <- debited
		}()
	}

	start.Done()
	done.Wait()
	close(wins)
	close(debitErrs)

	for err := range debitErrs {
		suite.Require().NoError(err)
	}

	winners := 0
	for debited := range wins {
		if debited {
			winners++
		}
	}
	suite.Equal(1, winners)

	suite.Equal(int64(0), suite.storedCash(d.ID()).Cents())
}

func (suite *DriverRepositoryIntegrationTestSuite) TestDebitCash_ConcurrentDebits_LoseNoUpdates() {
	ctx := context.Background()

	// Plenty of balance so every debit lands, each decrement must survive.
	d := suite.createDriverWithCash("Iris Calloway", kernel.MustMoney(8000))

	const contenders = 8

	var start, done sync.WaitGroup
	start.Add(1)
	wins := make(chan bool, contenders)
	debitErrs := make(chan error, contenders)

	for i := 0; i < contenders; i++ {
		done.Add(1)
		go func() {
			defer done.Done()
			start.Wait()

			debited, err := suite.repository.DebitCash(ctx, d.ID(), kernel.MustMoney(1000))
			if err != nil {
				debitErrs <- err
				return
			}
			wins <- debited
		}()
	}

	start.Done()
	done.Wait()
	close(wins)
	close(debitErrs)

	for err := range debitErrs {
		suite.Require().NoError(err)
	}

	winners := 0
	for debited := range wins {
		if debited {
			winners++
		}
	}
	suite.Equal(contenders, winners)

	suite.Equal(int64(0), suite.storedCash(d.ID()).Cents())
}

func TestDriverRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(DriverRepositoryIntegrationTestSuite))
}
