// Package driver contains the Driver aggregate.
//
// A driver's availability is derived state: busy exactly while the driver owns
// at least one non-terminal order, available otherwise, with a manual inactive
// override for off-shift drivers. The aggregate also guards the cash-on-hand
// balance, which only the settlement path may credit or debit and which can
// never go negative.
package driver
