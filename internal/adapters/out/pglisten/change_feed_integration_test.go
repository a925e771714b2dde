package pglisten_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"dispatch/internal/adapters/out/pglisten"
	pgmigrations "dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"

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

// OrderChangeFeedIntegrationTestSuite runs the feed against a real Postgres
// with the notification trigger installed, covering the whole path from an
// order row write to an event on the subscriber channel.
type OrderChangeFeedIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	connStr    string
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderChangeFeedIntegrationTestSuite) SetupSuite() {
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
	suite.connStr = connStr

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))
	suite.Require().NoError(pgmigrations.InstallOrderChangeNotifications(db))
}

func (suite *OrderChangeFeedIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderChangeFeedIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderChangeFeedIntegrationTestSuite) subscribe(ctx context.Context) <-chan ports.OrderChange {
	feed, err := pglisten.NewPqOrderChangeFeed(suite.connStr, slog.New(slog.NewTextHandler(io.Discard, nil)))
	suite.Require().NoError(err)

	changes, err := feed.Subscribe(ctx)
	suite.Require().NoError(err)
	return changes
}

func (suite *OrderChangeFeedIntegrationTestSuite) awaitChange(changes <-chan ports.OrderChange) ports.OrderChange {
	select {
	case change, ok := <-changes:
		suite.Require().True(ok, "feed channel closed before the event arrived")
		return change
	case <-time.After(10 * time.Second):
		suite.Require().FailNow("timed out waiting for a change event")
		return ports.OrderChange{}
	}
}

func (suite *OrderChangeFeedIntegrationTestSuite) createTestOrder(code string) *order.Order {
	testOrder, err := order.NewOrder(
		kernel.NewUUID(),
		code,
		kernel.NewUUID(),
		kernel.NewUUID(),
		order.CashOnDelivery,
		kernel.MustMoney(5000),
		kernel.MustMoney(500),
		kernel.MustMoney(300),
		false,
		"12 Vendor Way",
		"7 Customer St",
		time.Now().UTC(),
	)
	suite.Require().NoError(err)
	return testOrder
}

func (suite *OrderChangeFeedIntegrationTestSuite) TestSubscribe_InsertEmitsChange() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := suite.subscribe(ctx)

	testOrder := suite.createTestOrder("ORD-7001")
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	change := suite.awaitChange(changes)
	suite.Equal(testOrder.ID(), change.OrderID)
}

func (suite *OrderChangeFeedIntegrationTestSuite) TestSubscribe_UpdateEmitsChange() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	testOrder := suite.createTestOrder("ORD-7002")
	suite.Require().NoError(suite.repository.Add(context.Background(), testOrder))

	changes := suite.subscribe(ctx)

	suite.Require().NoError(testOrder.Assign(kernel.NewUUID(), "Dana Reyes", time.Now().UTC()))
	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	change := suite.awaitChange(changes)
	suite.Equal(testOrder.ID(), change.OrderID)
}

func (suite *OrderChangeFeedIntegrationTestSuite) TestSubscribe_CancelClosesChannel() {
	ctx, cancel := context.WithCancel(context.Background())

	changes := suite.subscribe(ctx)
	cancel()

	select {
	case _, ok := <-changes:
		suite.False(ok)
	case <-time.After(10 * time.Second):
		suite.FailNow("channel was not closed after cancellation")
	}
}

func TestOrderChangeFeedIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderChangeFeedIntegrationTestSuite))
}
