package kernel_test

import (
	"testing"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money from non-negative cents", func(t *testing.T) {
		m, err := kernel.NewMoney(5000)

		require.NoError(t, err)
		assert.Equal(t, int64(5000), m.Cents())
	})

	t.Run("zero is valid", func(t *testing.T) {
		m, err := kernel.NewMoney(0)

		require.NoError(t, err)
		assert.True(t, m.IsZero())
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		_, err := kernel.NewMoney(-1)

		require.Error(t, err)
	})
}

func TestMoney_Add(t *testing.T) {
	t.Run("sums amounts", func(t *testing.T) {
		sum := kernel.MustMoney(4500).Add(kernel.MustMoney(500))

		assert.Equal(t, int64(5000), sum.Cents())
	})
}

func TestMoney_Subtract(t *testing.T) {
	t.Run("subtracts smaller amount", func(t *testing.T) {
		result, err := kernel.MustMoney(5000).Subtract(kernel.MustMoney(500))

		require.NoError(t, err)
		assert.Equal(t, int64(4500), result.Cents())
	})

	t.Run("rejects result below zero", func(t *testing.T) {
		_, err := kernel.MustMoney(100).Subtract(kernel.MustMoney(101))

		require.Error(t, err)
	})

	t.Run("subtracting equal amounts yields zero", func(t *testing.T) {
		result, err := kernel.MustMoney(100).Subtract(kernel.MustMoney(100))

		require.NoError(t, err)
		assert.True(t, result.IsZero())
	})
}

func TestMoney_SubtractClamped(t *testing.T) {
	t.Run("clamps at zero when commission exceeds gross", func(t *testing.T) {
		net := kernel.MustMoney(100).SubtractClamped(kernel.MustMoney(500))

		assert.True(t, net.IsZero())
	})

	t.Run("subtracts normally otherwise", func(t *testing.T) {
		net := kernel.MustMoney(5000).SubtractClamped(kernel.MustMoney(500))

		assert.Equal(t, int64(4500), net.Cents())
	})
}

func TestMoney_Comparisons(t *testing.T) {
	t.Run("equality and ordering", func(t *testing.T) {
		a := kernel.MustMoney(100)
		b := kernel.MustMoney(100)
		c := kernel.MustMoney(200)

		assert.True(t, a.IsEqual(b))
		assert.False(t, a.IsEqual(c))
		assert.True(t, a.LessThan(c))
		assert.False(t, c.LessThan(a))
	})
}

func TestMoney_String(t *testing.T) {
	t.Run("formats cents as decimal", func(t *testing.T) {
		assert.Equal(t, "45.00", kernel.MustMoney(4500).String())
		assert.Equal(t, "0.05", kernel.MustMoney(5).String())
	})
}
