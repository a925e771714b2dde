// Package order contains the Order aggregate and its lifecycle state machine.
//
// An order is created by a vendor in the available state, claimed by exactly
// one driver, advanced through the fixed preparing/ready/enroute sequence, and
// finished by delivery completion, cancellation, or failure. The package
// enforces the transition rules and the driver/status consistency invariant;
// the at-most-one-winner claim guarantee is completed by the persistence
// layer's conditional writes.
package order
