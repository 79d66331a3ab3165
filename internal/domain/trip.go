// Package domain contains the core data types for the gas calculator.
// This package has no business logic and is imported by every other
// internal package (calc, snapshot, repo, service, handler).
package domain

import "github.com/google/uuid"

// SnapshotKey is the default name under which the whole Trip is persisted.
const SnapshotKey = "gas-calc"

// Trip is one calculation session: fuel price, vehicle efficiency, the split
// setting and the ordered list of segments.
// Nil pointers mean the field is blank (never entered), which is distinct
// from an entered zero for Efficiency: only a non-blank invalid efficiency
// produces a warning.
type Trip struct {
	UnitPrice  *float64 `json:"unitPrice"`  // currency per liter
	Efficiency *float64 `json:"efficiency"` // km per liter; <= 0 is invalid

	// ParticipantCount is the trip-wide split. When nil, the per-segment
	// participant counts decide the divisor instead.
	ParticipantCount *int `json:"participantCount,omitempty"`

	// Segments is never empty during an active session.
	Segments []Segment `json:"segments"`
}

// NewTrip returns the default Trip: price and efficiency unset and a single
// empty segment.
func NewTrip() Trip {
	return Trip{Segments: []Segment{NewSegment()}}
}

// SegmentIndex returns the position of the segment with the given ID,
// or -1 if the trip has no such segment.
func (t Trip) SegmentIndex(id uuid.UUID) int {
	for i, s := range t.Segments {
		if s.ID == id {
			return i
		}
	}
	return -1
}
