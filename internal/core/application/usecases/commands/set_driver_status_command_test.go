package commands_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSetDriverStatusCommand(t *testing.T) {
	t.Run("accepts inactive", func(t *testing.T) {
		cmd, err := commands.NewSetDriverStatusCommand(kernel.NewUUID(), driver.Inactive)
		require.NoError(t, err)
		assert.Equal(t, driver.Inactive, cmd.Status())
	})

	t.Run("accepts available", func(t *testing.T) {
		cmd, err := commands.NewSetDriverStatusCommand(kernel.NewUUID(), driver.Available)
		require.NoError(t, err)
		assert.Equal(t, driver.Available, cmd.Status())
	})

	t.Run("rejects busy", func(t *testing.T) {
		_, err := commands.NewSetDriverStatusCommand(kernel.NewUUID(), driver.Busy)
		assert.ErrorIs(t, err, driver.ErrManualBusy)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := commands.NewSetDriverStatusCommand(kernel.NewUUID(), driver.Unknown)
		require.Error(t, err)
	})
}

func TestSetDriverStatusCommand_ValidateZeroValue(t *testing.T) {
	var cmd commands.SetDriverStatusCommand

	assert.ErrorIs(t, cmd.Validate(), commands.ErrSetDriverStatusCommandIsNotConstructed)
}
