package settlement_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/settlement"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDriverTx(t *testing.T) *settlement.DriverTransaction {
	t.Helper()

	tx, err := settlement.NewDriverTransaction(
		kernel.NewUUID(), kernel.NewUUID(), "ORD-1001",
		kernel.NewUUID(), kernel.NewUUID(),
		kernel.MustMoney(5000), kernel.MustMoney(500), kernel.MustMoney(4500),
		time.Now(),
	)
	require.NoError(t, err)
	return tx
}

func newVendorTx(t *testing.T) *settlement.VendorTransaction {
	t.Helper()

	tx, err := settlement.NewVendorTransaction(
		kernel.NewUUID(), kernel.NewUUID(), "ORD-1001",
		kernel.NewUUID(), kernel.NewUUID(),
		kernel.MustMoney(5000), kernel.MustMoney(500), kernel.MustMoney(4500),
		time.Now(),
	)
	require.NoError(t, err)
	return tx
}

func TestNewDriverTransaction(t *testing.T) {
	t.Run("starts pending remittance and unlinked", func(t *testing.T) {
		tx := newDriverTx(t)

		assert.Equal(t, settlement.PendingRemittance, tx.Status())
		assert.True(t, tx.IsOrphaned())
		assert.Nil(t, tx.RemittanceProof())
		assert.Nil(t, tx.RemittedBy())
		assert.Nil(t, tx.RemittedAt())
	})

	t.Run("rejects empty order code", func(t *testing.T) {
		_, err := settlement.NewDriverTransaction(
			kernel.NewUUID(), kernel.NewUUID(), "",
			kernel.NewUUID(), kernel.NewUUID(),
			kernel.MustMoney(5000), kernel.MustMoney(500), kernel.MustMoney(4500),
			time.Now(),
		)
		require.Error(t, err)
	})

	t.Run("struct literal fails validation", func(t *testing.T) {
		var tx settlement.DriverTransaction
		require.ErrorIs(t, tx.Validate(), settlement.ErrTransactionIsNotConstructed)
	})
}

func TestDriverTransaction_Link(t *testing.T) {
	t.Run("link is written once", func(t *testing.T) {
		tx := newDriverTx(t)
		counterpart := kernel.NewUUID()

		require.NoError(t, tx.LinkVendorTransaction(counterpart))
		assert.False(t, tx.IsOrphaned())
		assert.True(t, tx.VendorTransactionID().IsEqual(counterpart))

		err := tx.LinkVendorTransaction(kernel.NewUUID())
		require.ErrorIs(t, err, settlement.ErrAlreadyLinked)
		assert.True(t, tx.VendorTransactionID().IsEqual(counterpart))
	})
}

func TestDriverTransaction_MarkRemitted(t *testing.T) {
	t.Run("settles a linked pending transaction", func(t *testing.T) {
		tx := newDriverTx(t)
		require.NoError(t, tx.LinkVendorTransaction(kernel.NewUUID()))
		at := time.Now()

		err := tx.MarkRemitted("signatures/remit1", settlement.ActorDriver, at)

		require.NoError(t, err)
		assert.Equal(t, settlement.Remitted, tx.Status())
		assert.Equal(t, "signatures/remit1", *tx.RemittanceProof())
		assert.Equal(t, settlement.ActorDriver, *tx.RemittedBy())
		assert.Equal(t, at, *tx.RemittedAt())
	})

	t.Run("second remittance is rejected", func(t *testing.T) {
		tx := newDriverTx(t)
		require.NoError(t, tx.LinkVendorTransaction(kernel.NewUUID()))
		require.NoError(t, tx.MarkRemitted("signatures/remit1", settlement.ActorDriver, time.Now()))

		err := tx.MarkRemitted("signatures/remit2", settlement.ActorVendor, time.Now())

		require.ErrorIs(t, err, settlement.ErrAlreadyRemitted)
		assert.Equal(t, "signatures/remit1", *tx.RemittanceProof())
	})

	t.Run("unlinked transaction cannot remit", func(t *testing.T) {
		tx := newDriverTx(t)

		err := tx.MarkRemitted("signatures/remit1", settlement.ActorDriver, time.Now())

		require.ErrorIs(t, err, settlement.ErrNotLinked)
		assert.Equal(t, settlement.PendingRemittance, tx.Status())
	})

	t.Run("rejects empty proof and invalid actor", func(t *testing.T) {
		tx := newDriverTx(t)
		require.NoError(t, tx.LinkVendorTransaction(kernel.NewUUID()))

		require.Error(t, tx.MarkRemitted("", settlement.ActorDriver, time.Now()))
		require.Error(t, tx.MarkRemitted("signatures/remit1", settlement.Actor("admin"), time.Now()))
	})
}

func TestVendorTransaction_MarkReconciled(t *testing.T) {
	t.Run("settles a linked awaiting transaction", func(t *testing.T) {
		tx := newVendorTx(t)
		require.NoError(t, tx.LinkDriverTransaction(kernel.NewUUID()))
		at := time.Now()

		err := tx.MarkReconciled(at)

		require.NoError(t, err)
		assert.Equal(t, settlement.Reconciled, tx.Status())
		assert.Equal(t, at, *tx.ReconciledAt())
	})

	t.Run("second reconciliation is rejected", func(t *testing.T) {
		tx := newVendorTx(t)
		require.NoError(t, tx.LinkDriverTransaction(kernel.NewUUID()))
		require.NoError(t, tx.MarkReconciled(time.Now()))

		require.ErrorIs(t, tx.MarkReconciled(time.Now()), settlement.ErrAlreadyRemitted)
	})

	t.Run("unlinked transaction cannot reconcile", func(t *testing.T) {
		tx := newVendorTx(t)

		require.ErrorIs(t, tx.MarkReconciled(time.Now()), settlement.ErrNotLinked)
	})
}

func TestStatusAndActorParsing(t *testing.T) {
	t.Run("status round-trips", func(t *testing.T) {
		statuses := []settlement.Status{
			settlement.PendingRemittance, settlement.AwaitingRemittance,
			settlement.Remitted, settlement.Reconciled,
		}
		for _, s := range statuses {
			parsed, err := settlement.StatusFromString(s.String())
			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		}
	})

	t.Run("invalid status string rejected", func(t *testing.T) {
		_, err := settlement.StatusFromString("settled")
		require.Error(t, err)
	})

	t.Run("actor round-trips", func(t *testing.T) {
		for _, a := range []settlement.Actor{settlement.ActorDriver, settlement.ActorVendor} {
			parsed, err := settlement.ActorFromString(a.String())
			require.NoError(t, err)
			assert.Equal(t, a, parsed)
		}

		_, err := settlement.ActorFromString("admin")
		require.Error(t, err)
	})
}

func TestWallet_Apply(t *testing.T) {
	newWallet := func(t *testing.T) *settlement.Wallet {
		w, err := settlement.NewWallet(kernel.NewUUID(), kernel.NewUUID())
		require.NoError(t, err)
		return w
	}

	entry := func(t *testing.T, w *settlement.Wallet, amount int64) *settlement.WalletEntry {
		e, err := settlement.NewWalletEntry(
			kernel.NewUUID(), w.ID(), amount, "manual adjustment", "admin:ops", time.Now(),
		)
		require.NoError(t, err)
		return e
	}

	t.Run("positive entry credits the balance", func(t *testing.T) {
		w := newWallet(t)

		require.NoError(t, w.Apply(entry(t, w, 2500)))
		assert.Equal(t, int64(2500), w.Balance().Cents())
	})

	t.Run("negative entry debits the balance", func(t *testing.T) {
		w := newWallet(t)
		require.NoError(t, w.Apply(entry(t, w, 2500)))

		require.NoError(t, w.Apply(entry(t, w, -1000)))
		assert.Equal(t, int64(1500), w.Balance().Cents())
	})

	t.Run("overdraft is rejected and balance unchanged", func(t *testing.T) {
		w := newWallet(t)
		require.NoError(t, w.Apply(entry(t, w, 100)))

		err := w.Apply(entry(t, w, -101))

		require.ErrorIs(t, err, settlement.ErrWalletOverdraft)
		assert.Equal(t, int64(100), w.Balance().Cents())
	})

	t.Run("zero adjustments and empty reasons are rejected", func(t *testing.T) {
		w := newWallet(t)

		_, err := settlement.NewWalletEntry(kernel.NewUUID(), w.ID(), 0, "reason", "admin", time.Now())
		require.Error(t, err)

		_, err = settlement.NewWalletEntry(kernel.NewUUID(), w.ID(), 100, "", "admin", time.Now())
		require.Error(t, err)
	})
}
