package driver

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents a driver's availability. Busy is derived from the driver's
// live order set and is never set manually; Inactive is a manual override that
// holds only while the order set stays empty.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Available means the driver has no active orders and can claim new ones.
	Available

	// Busy means the driver owns at least one non-terminal order.
	Busy

	// Inactive is the manual off-shift override.
	Inactive
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Available: "available",
		Busy:      "busy",
		Inactive:  "inactive",
	}
}

// StatusFromString parses the persisted string form of a driver status.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if status != Unknown && str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"driver status",
		fmt.Errorf("%q is not a valid driver status", s),
	)
}

// Validate checks whether the Status value belongs to the closed enum.
func (s Status) Validate() error {
	switch s {
	case Available, Busy, Inactive:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"driver status",
			fmt.Errorf("%d is not a valid driver status", s),
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
