package kernel

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Money is a value object representing a non-negative monetary amount in the
// smallest currency unit (cents). All order totals, commission fees, and
// cash-on-hand balances in the system are Money values.
//
// Money is stored as integer cents so that ledger arithmetic is exact; float
// representations are never used in the settlement path. The zero value is a
// valid zero amount.
//
// Example:
//
//	total, _ := kernel.NewMoney(5000)      // 50.00
//	commission, _ := kernel.NewMoney(500)  // 5.00
//	net := total.SubtractClamped(commission)
type Money struct {
	cents int64
}

// NewMoney creates a Money amount from integer cents.
// Negative amounts are rejected: the settlement invariants never require a
// negative Money value, and disallowing them here makes the non-negative
// cash-on-hand rule enforceable by construction.
func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"money amount",
			fmt.Errorf("%d cents is negative", cents),
		)
	}
	return Money{cents: cents}, nil
}

// MustMoney creates a Money amount from integer cents, panicking on a negative
// amount. Intended for constants and tests.
func MustMoney(cents int64) Money {
	m, err := NewMoney(cents)
	if err != nil {
		panic(err)
	}
	return m
}

// ZeroMoney returns the zero amount.
func ZeroMoney() Money {
	return Money{}
}

// Cents returns the amount in integer cents.
func (m Money) Cents() int64 {
	return m.cents
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.cents == 0
}

// IsEqual reports whether two amounts are equal.
func (m Money) IsEqual(other Money) bool {
	return m.cents == other.cents
}

// LessThan reports whether m is strictly smaller than other.
func (m Money) LessThan(other Money) bool {
	return m.cents < other.cents
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// Subtract returns m minus other, failing when the result would be negative.
// This is the primitive behind the over-remittance guard: a debit that would
// drive a balance below zero is rejected, never clamped.
func (m Money) Subtract(other Money) (Money, error) {
	if m.cents < other.cents {
		return Money{}, errs.NewValueIsOutOfRangeError("money subtraction", m.cents-other.cents, 0, m.cents)
	}
	return Money{cents: m.cents - other.cents}, nil
}

// SubtractClamped returns m minus other, clamped at zero. Used for net-amount
// derivation where a commission larger than the gross legally nets to zero.
func (m Money) SubtractClamped(other Money) Money {
	if m.cents < other.cents {
		return Money{}
	}
	return Money{cents: m.cents - other.cents}
}

// String formats the amount as a decimal with two fraction digits.
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.cents/100, m.cents%100)
}
