package order

import (
	"errors"
	"fmt"

	"dispatch/internal/pkg/errs"
)

// ErrInvalidTransition is returned when a requested status change is not legal
// from the order's current status. Sequencing errors of this kind indicate the
// caller is operating on stale state; they are surfaced, never auto-retried.
var ErrInvalidTransition = errors.New("invalid order status transition")

// Status represents the lifecycle state of an order. It implements a state
// machine with a fixed forward path so that orders always move through the
// delivery workflow in order.
//
// State transitions:
//
//	Available ──> Assigned ──> Preparing ──> Ready ──> Enroute ──> Delivered
//	    ^            │
//	    └────────────┘ (release before pickup)
//
//	Available|Assigned ──> Cancelled
//	any non-terminal   ──> Failed
//
// Delivered, Cancelled, and Failed are terminal. The Enroute -> Delivered
// transition is only reachable through delivery completion, because it carries
// side effects (proof-of-delivery, ledger writes) that must not be skipped.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Available is the initial status of a vendor-created order.
	// Orders in this status have no driver and are open for claiming.
	Available

	// Assigned indicates a driver won the claim for the order.
	Assigned

	// Preparing indicates the vendor is preparing the order.
	Preparing

	// Ready indicates the order is ready for driver pickup.
	Ready

	// Enroute indicates the driver has picked up the order and is delivering it.
	Enroute

	// Delivered indicates the order was delivered with proof recorded. Terminal.
	Delivered

	// Cancelled indicates the order was withdrawn before pickup. Terminal.
	Cancelled

	// Failed indicates the delivery could not be completed. Terminal.
	Failed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Available: "available",
		Assigned:  "assigned",
		Preparing: "preparing",
		Ready:     "ready",
		Enroute:   "enroute",
		Delivered: "delivered",
		Cancelled: "cancelled",
		Failed:    "failed",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Available: "available",
		Assigned:  "assigned",
		Preparing: "preparing",
		Ready:     "ready",
		Enroute:   "enroute",
		Delivered: "delivered",
		Cancelled: "cancelled",
		Failed:    "failed",
	}
}

// StatusFromString parses the persisted string form of a status.
// Returns an error for strings outside the closed enum.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks whether the Status value belongs to the closed enum.
// Unknown (0) and out-of-range values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the persisted, human-readable name of the status.
// Implements fmt.Stringer and is safe on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled || s == Failed
}

// IsDriverActive reports whether an order in this status occupies its driver.
// These are the states that make a driver busy: the order is claimed but not
// yet terminal.
func (s Status) IsDriverActive() bool {
	switch s {
	case Assigned, Preparing, Ready, Enroute:
		return true
	default:
		return false
	}
}

// Assign transitions the status to Assigned.
//
// The only legal source is Available: claiming is what takes an order out of
// the open pool, and at most one driver may ever do it. A claim attempt on
// any other status is a lost race or a stale view.
func (s Status) Assign() (Status, error) {
	if s != Available {
		return 0, fmt.Errorf("%w: cannot assign from %s", ErrInvalidTransition, s)
	}
	return Assigned, nil
}

// Release transitions the status back to Available.
// Only legal from Assigned, before the vendor starts preparing. This is the
// single path by which an order's driver reverts to nobody.
func (s Status) Release() (Status, error) {
	if s != Assigned {
		return 0, fmt.Errorf("%w: cannot release from %s", ErrInvalidTransition, s)
	}
	return Available, nil
}

// Advance validates a manual forward transition to next.
//
// Legal steps, in fixed order:
//   - Assigned  -> Preparing
//   - Preparing -> Ready
//   - Ready     -> Enroute
//
// Anything else, including backward moves, skipped steps, and Delivered
// (reachable only through delivery completion), fails with ErrInvalidTransition.
func (s Status) Advance(next Status) (Status, error) {
	legal := map[Status]Status{
		Assigned:  Preparing,
		Preparing: Ready,
		Ready:     Enroute,
	}
	if to, ok := legal[s]; ok && to == next {
		return next, nil
	}
	return 0, fmt.Errorf("%w: cannot advance from %s to %s", ErrInvalidTransition, s, next)
}

// Deliver transitions the status to Delivered. Only legal from Enroute.
func (s Status) Deliver() (Status, error) {
	if s != Enroute {
		return 0, fmt.Errorf("%w: cannot deliver from %s", ErrInvalidTransition, s)
	}
	return Delivered, nil
}

// Cancel transitions the status to Cancelled.
// Only legal before preparation work begins: Available or Assigned.
func (s Status) Cancel() (Status, error) {
	if s != Available && s != Assigned {
		return 0, fmt.Errorf("%w: cannot cancel from %s", ErrInvalidTransition, s)
	}
	return Cancelled, nil
}

// Fail transitions the status to Failed. Legal from any valid non-terminal status.
func (s Status) Fail() (Status, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	if s.IsTerminal() {
		return 0, fmt.Errorf("%w: cannot fail from %s", ErrInvalidTransition, s)
	}
	return Failed, nil
}

// ValidateCanHaveDriver validates the consistency between order status and
// driver assignment.
//
// Business rules:
//   - Available orders must not have a driver
//   - Assigned through Delivered orders must have a driver
//   - Cancelled and Failed orders may have either (a cancellation from
//     Available never had a driver; a failure after claim keeps the record)
func (s Status) ValidateCanHaveDriver(driver bool) error {
	if s == Available && driver {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s order cannot have a driver", s),
		)
	}

	if !driver && (s.IsDriverActive() || s == Delivered) {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s order must have a driver", s),
		)
	}

	return nil
}
