package driver_test

import (
	"testing"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDriver(t *testing.T) *driver.Driver {
	t.Helper()

	d, err := driver.NewDriver(kernel.NewUUID(), "Dana Reyes")
	require.NoError(t, err)
	return d
}

func TestNewDriver(t *testing.T) {
	t.Run("starts available with zero cash", func(t *testing.T) {
		d := newTestDriver(t)

		assert.Equal(t, driver.Available, d.Status())
		assert.True(t, d.CashOnHand().IsZero())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := driver.NewDriver(kernel.NewUUID(), "")
		require.Error(t, err)
	})

	t.Run("rejects zero-value id", func(t *testing.T) {
		_, err := driver.NewDriver(kernel.UUID{}, "Dana Reyes")
		require.Error(t, err)
	})
}

func TestDriver_Validate(t *testing.T) {
	t.Run("struct literal fails validation", func(t *testing.T) {
		var d driver.Driver
		require.ErrorIs(t, d.Validate(), driver.ErrDriverIsNotConstructed)
	})

	t.Run("constructed driver validates", func(t *testing.T) {
		require.NoError(t, newTestDriver(t).Validate())
	})
}

func TestDriver_Reconcile(t *testing.T) {
	t.Run("active orders make the driver busy", func(t *testing.T) {
		d := newTestDriver(t)

		changed := d.Reconcile(1)

		assert.True(t, changed)
		assert.Equal(t, driver.Busy, d.Status())
	})

	t.Run("empty order set returns busy driver to available", func(t *testing.T) {
		d := newTestDriver(t)
		d.Reconcile(2)

		changed := d.Reconcile(0)

		assert.True(t, changed)
		assert.Equal(t, driver.Available, d.Status())
	})

	t.Run("no change is reported as no-op", func(t *testing.T) {
		d := newTestDriver(t)

		assert.False(t, d.Reconcile(0))
		assert.Equal(t, driver.Available, d.Status())

		d.Reconcile(1)
		assert.False(t, d.Reconcile(3))
		assert.Equal(t, driver.Busy, d.Status())
	})

	t.Run("inactive override holds while order set is empty", func(t *testing.T) {
		d := newTestDriver(t)
		require.NoError(t, d.SetManualStatus(driver.Inactive))

		assert.False(t, d.Reconcile(0))
		assert.Equal(t, driver.Inactive, d.Status())
	})

	t.Run("active orders override inactive", func(t *testing.T) {
		d := newTestDriver(t)
		require.NoError(t, d.SetManualStatus(driver.Inactive))

		changed := d.Reconcile(1)

		assert.True(t, changed)
		assert.Equal(t, driver.Busy, d.Status())
	})
}

func TestDriver_SetManualStatus(t *testing.T) {
	t.Run("inactive and available are manual targets", func(t *testing.T) {
		d := newTestDriver(t)

		require.NoError(t, d.SetManualStatus(driver.Inactive))
		assert.Equal(t, driver.Inactive, d.Status())

		require.NoError(t, d.SetManualStatus(driver.Available))
		assert.Equal(t, driver.Available, d.Status())
	})

	t.Run("busy cannot be set manually", func(t *testing.T) {
		d := newTestDriver(t)

		require.ErrorIs(t, d.SetManualStatus(driver.Busy), driver.ErrManualBusy)
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		d := newTestDriver(t)

		require.Error(t, d.SetManualStatus(driver.Unknown))
	})
}

func TestDriver_CreditAndDebit(t *testing.T) {
	t.Run("credit accumulates cash on hand", func(t *testing.T) {
		d := newTestDriver(t)

		d.Credit(kernel.MustMoney(4500))
		d.Credit(kernel.MustMoney(1500))

		assert.Equal(t, int64(6000), d.CashOnHand().Cents())
	})

	t.Run("debit reduces cash on hand", func(t *testing.T) {
		d := newTestDriver(t)
		d.Credit(kernel.MustMoney(4500))

		require.NoError(t, d.Debit(kernel.MustMoney(4500)))
		assert.True(t, d.CashOnHand().IsZero())
	})

	t.Run("debit below zero is rejected and leaves balance untouched", func(t *testing.T) {
		d := newTestDriver(t)
		d.Credit(kernel.MustMoney(100))

		err := d.Debit(kernel.MustMoney(101))

		require.ErrorIs(t, err, driver.ErrInsufficientCash)
		assert.Equal(t, int64(100), d.CashOnHand().Cents())
	})
}

func TestStatusFromString(t *testing.T) {
	t.Run("round-trips valid statuses", func(t *testing.T) {
		for _, s := range []driver.Status{driver.Available, driver.Busy, driver.Inactive} {
			parsed, err := driver.StatusFromString(s.String())
			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		}
	})

	t.Run("rejects unknown strings", func(t *testing.T) {
		_, err := driver.StatusFromString("offline")
		require.Error(t, err)
	})
}
