package commands_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand_ValidInput(t *testing.T) {
	vendorID := kernel.NewUUID()
	customerID := kernel.NewUUID()

	cmd, err := commands.NewCreateOrderCommand(
		"ORD-1001", vendorID, customerID, order.CashOnDelivery,
		kernel.MustMoney(5000), kernel.MustMoney(500), kernel.MustMoney(300),
		false, "12 Vendor Road", "7 Customer Street",
	)

	require.NoError(t, err)
	assert.NoError(t, cmd.Validate())
	assert.Equal(t, "ORD-1001", cmd.OrderCode())
	assert.Equal(t, vendorID, cmd.VendorID())
	assert.Equal(t, customerID, cmd.CustomerID())
	assert.Equal(t, order.CashOnDelivery, cmd.PaymentMethod())
	assert.NoError(t, cmd.OrderID().Validate())
}

func TestNewCreateOrderCommand_InvalidInput(t *testing.T) {
	t.Run("empty order code", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(
			"", kernel.NewUUID(), kernel.NewUUID(), order.CashOnDelivery,
			kernel.MustMoney(5000), kernel.ZeroMoney(), kernel.ZeroMoney(),
			false, "a", "b",
		)
		assert.ErrorIs(t, err, commands.ErrOrderCodeIsRequired)
	})

	t.Run("unknown payment method", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(
			"ORD-1", kernel.NewUUID(), kernel.NewUUID(), order.PaymentMethod("barter"),
			kernel.MustMoney(5000), kernel.ZeroMoney(), kernel.ZeroMoney(),
			false, "a", "b",
		)
		require.Error(t, err)
	})

	t.Run("zero vendor id", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(
			"ORD-1", kernel.UUID{}, kernel.NewUUID(), order.CashOnDelivery,
			kernel.MustMoney(5000), kernel.ZeroMoney(), kernel.ZeroMoney(),
			false, "a", "b",
		)
		require.Error(t, err)
	})
}

func TestCreateOrderCommand_ValidateZeroValue(t *testing.T) {
	var cmd commands.CreateOrderCommand

	assert.ErrorIs(t, cmd.Validate(), commands.ErrCreateOrderCommandIsNotConstructed)
}
