package domain

import (
	"time"

	"github.com/google/uuid"
)

// Segment is one trip leg (one row of the calculator).
// DistanceKm is derived whenever both odometer readings are present;
// otherwise it is user-entered and may be absent.
// Date is a cosmetic "MM/DD" label and never used in aggregation.
type Segment struct {
	ID               uuid.UUID `json:"id"`
	Included         bool      `json:"included"`
	DistanceKm       *float64  `json:"distanceKm"`
	StartOdometer    *float64  `json:"startOdometer"`
	EndOdometer      *float64  `json:"endOdometer"`
	ParticipantCount int       `json:"participantCount"`
	Date             string    `json:"date,omitempty"`
}

// NewSegment returns a segment with the defaults used by "add segment":
// included, one participant, all numbers empty.
func NewSegment() Segment {
	return Segment{
		ID:               uuid.New(),
		Included:         true,
		ParticipantCount: 1,
	}
}

// HasOdometer reports whether both odometer readings are present, in which
// case the distance is derived and not independently editable.
func (s Segment) HasOdometer() bool {
	return s.StartOdometer != nil && s.EndOdometer != nil
}

// SegmentPatch carries raw field edits for one segment, exactly as typed.
// A nil field is left untouched; a pointer to "" clears the field.
type SegmentPatch struct {
	Included         *bool
	DistanceKm       *string
	StartOdometer    *string
	EndOdometer      *string
	ParticipantCount *string
	Date             *string

	// CalendarDate is the value picked in the calendar. When set it
	// rewrites Date and wins over a Date edit in the same patch.
	CalendarDate *time.Time

	// Commit marks the edit as final (the field lost focus). Only committed
	// edits round numbers to one decimal and canonicalize the date.
	Commit bool
}

// NormalizedSegment is a Segment after the normalization rules have run.
type NormalizedSegment struct {
	Segment

	// EffectiveDistanceKm is the distance used for aggregation. It is
	// computed even when the segment is excluded so the row can display it.
	EffectiveDistanceKm float64

	CountsTowardTotals bool

	// DistanceDerived is true when the distance comes from the odometer
	// readings and the distance field is read-only.
	DistanceDerived bool
}
