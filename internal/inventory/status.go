// Package inventory reconciles physical counts of a room against the
// equipment registry.
package inventory

import "fmt"

// Status is the outcome of counting one registry row.
type Status string

// Count outcomes.
const (
	StatusMissing Status = "missing"
	StatusMatch   Status = "match"
	StatusDeficit Status = "deficit"
	StatusSurplus Status = "surplus"
)

// Label returns the display name of the status.
func (s Status) Label() string {
	switch s {
	case StatusMissing:
		return "Manjka"
	case StatusMatch:
		return "Ujema se"
	case StatusDeficit:
		return "Primanjkljaj"
	case StatusSurplus:
		return "Presežek"
	default:
		panic(fmt.Sprintf("unhandled count status %q", string(s)))
	}
}

// Discrepancy is a row's status and, for deficit and surplus, the absolute
// difference between the counted and the expected quantity.
type Discrepancy struct {
	Status Status `json:"status"`
	Amount int    `json:"amount"`
}

// ComputeItemStatus compares a counted quantity with the expected one.
// A zero count is always missing. A positive count against zero expected
// is a surplus.
func ComputeItemStatus(expected, actual int) Discrepancy {
	switch {
	case actual == 0:
		return Discrepancy{Status: StatusMissing}
	case actual == expected:
		return Discrepancy{Status: StatusMatch}
	case actual < expected:
		return Discrepancy{Status: StatusDeficit, Amount: expected - actual}
	default:
		return Discrepancy{Status: StatusSurplus, Amount: actual - expected}
	}
}
