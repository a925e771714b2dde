package commands_test

import (
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReleaseOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	testDriver := newAvailableDriver(t)
	testOrder := newAvailableOrder(t, order.CashOnDelivery)
	require.NoError(t, testOrder.Assign(testDriver.ID(), testDriver.Name(), time.Now()))
	testDriver.Reconcile(1)

	cmd, err := commands.NewReleaseOrderCommand(testOrder.ID(), testDriver.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("ReleaseAssigned", ctx, testOrder.ID(), testDriver.ID()).Return(true, nil).Once(),
		driverRepo.On("Get", ctx, testDriver.ID()).Return(testDriver, nil).Once(),
		orderRepo.On("CountActiveByDriver", ctx, testDriver.ID()).Return(0, nil).Once(),
		driverRepo.On("Update", ctx, mock.AnythingOfType("*driver.Driver")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockAssignmentUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewReleaseOrderCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, driver.Available, testDriver.Status())
	orderRepo.AssertExpectations(t)
	driverRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestReleaseOrderCommandHandler_Handle_NotOwner(t *testing.T) {
	ctx := t.Context()

	holder := newAvailableDriver(t)
	intruder := newAvailableDriver(t)
	testOrder := newAvailableOrder(t, order.CashOnDelivery)
	require.NoError(t, testOrder.Assign(holder.ID(), holder.Name(), time.Now()))

	cmd, err := commands.NewReleaseOrderCommand(testOrder.ID(), intruder.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("ReleaseAssigned", ctx, testOrder.ID(), intruder.ID()).Return(false, nil).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockAssignmentUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewReleaseOrderCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	assert.ErrorIs(t, err, order.ErrNotOwner)
	uow.AssertExpectations(t)
}

func TestReleaseOrderCommandHandler_Handle_PreparationStarted(t *testing.T) {
	ctx := t.Context()

	holder := newAvailableDriver(t)
	testOrder := newAvailableOrder(t, order.CashOnDelivery)
	require.NoError(t, testOrder.Assign(holder.ID(), holder.Name(), time.Now()))
	require.NoError(t, testOrder.AdvanceTo(order.Preparing, time.Now()))

	cmd, err := commands.NewReleaseOrderCommand(testOrder.ID(), holder.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("ReleaseAssigned", ctx, testOrder.ID(), holder.ID()).Return(false, nil).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockAssignmentUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewReleaseOrderCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	assert.ErrorIs(t, err, order.ErrInvalidTransition)
	uow.AssertExpectations(t)
}
