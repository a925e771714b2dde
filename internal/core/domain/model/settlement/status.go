package settlement

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the remittance state of a ledger transaction.
//
// The driver side of a pair moves pending-remittance -> remitted; the vendor
// side moves awaiting-remittance -> reconciled. Both sides advance together in
// one remittance, so a pair is either fully open or fully settled.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// PendingRemittance marks a driver transaction whose cash has been
	// collected but not yet handed over to the vendor.
	PendingRemittance

	// AwaitingRemittance marks a vendor transaction waiting for the driver's
	// cash hand-over.
	AwaitingRemittance

	// Remitted marks a driver transaction whose cash has been handed over.
	Remitted

	// Reconciled marks a vendor transaction whose receipt has been recorded.
	Reconciled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:      "unknown",
		PendingRemittance:  "pending-remittance",
		AwaitingRemittance: "awaiting-remittance",
		Remitted:           "remitted",
		Reconciled:         "reconciled",
	}
}

// StatusFromString parses the persisted string form of a transaction status.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if status != StatusUnknown && str == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause(
		"transaction status",
		fmt.Errorf("%q is not a valid transaction status", s),
	)
}

// Validate checks whether the Status value belongs to the closed enum.
func (s Status) Validate() error {
	switch s {
	case PendingRemittance, AwaitingRemittance, Remitted, Reconciled:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"transaction status",
			fmt.Errorf("%d is not a valid transaction status", s),
		)
	}
}

// String returns the persisted name of the status. Implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Actor identifies who initiated a remittance. Either side may: the driver
// hands cash over physically, or the vendor confirms receipt. Both paths
// converge on the same linked-transaction state update.
type Actor string

const (
	// ActorDriver marks a remittance initiated by the driver.
	ActorDriver Actor = "driver"

	// ActorVendor marks a remittance initiated by the vendor.
	ActorVendor Actor = "vendor"
)

// ActorFromString parses the persisted string form of a remittance actor.
func ActorFromString(s string) (Actor, error) {
	actor := Actor(s)
	if err := actor.Validate(); err != nil {
		return "", err
	}
	return actor, nil
}

// Validate checks whether the actor belongs to the closed set.
func (a Actor) Validate() error {
	switch a {
	case ActorDriver, ActorVendor:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"remittance actor",
			fmt.Errorf("%q is not a valid remittance actor", string(a)),
		)
	}
}

// String returns the persisted string form.
func (a Actor) String() string {
	return string(a)
}
