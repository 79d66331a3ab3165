// Package calc holds the gas calculator's rules: segment normalization,
// aggregation into a Result, display formatting and the date text helpers.
// Everything here is pure; persistence and rendering happen in the callers.
package calc

import (
	"github.com/pkordes/gas-calc/internal/domain"
)

// Normalize derives the effective distance of a segment and whether it counts
// toward the totals.
//
// With both odometer readings the distance is max(0, end-start) and read-only.
// Otherwise the entered distance is used, and a blank distance counts as 0
// without being written back into the segment.
// All distances are taken at one decimal, the precision they are displayed at.
func Normalize(seg domain.Segment) domain.NormalizedSegment {
	n := domain.NormalizedSegment{
		Segment:            seg,
		CountsTowardTotals: seg.Included,
	}
	n.ParticipantCount = ClampParticipants(seg.ParticipantCount)

	switch {
	case seg.HasOdometer():
		d := DerivedDistance(*seg.StartOdometer, *seg.EndOdometer)
		n.EffectiveDistanceKm = d
		n.DistanceKm = &d
		n.DistanceDerived = true
	case seg.DistanceKm != nil:
		n.EffectiveDistanceKm = Round1(*seg.DistanceKm)
	}
	return n
}

// NormalizeAll normalizes every segment, preserving order.
func NormalizeAll(segs []domain.Segment) []domain.NormalizedSegment {
	out := make([]domain.NormalizedSegment, len(segs))
	for i, s := range segs {
		out[i] = Normalize(s)
	}
	return out
}

// DerivedDistance returns the distance between two odometer readings,
// clamped at zero when the end reading is below the start.
func DerivedDistance(start, end float64) float64 {
	start, end = Round1(start), Round1(end)
	if end < start {
		return 0
	}
	return finite(Round1(end - start))
}

// DeriveDistance enforces the odometer invariant on a stored segment: when
// both readings are present the distance field holds the derived value.
func DeriveDistance(seg domain.Segment) domain.Segment {
	if seg.HasOdometer() {
		d := DerivedDistance(*seg.StartOdometer, *seg.EndOdometer)
		seg.DistanceKm = &d
	}
	seg.ParticipantCount = ClampParticipants(seg.ParticipantCount)
	return seg
}

// CommitSegment applies the focus-loss formatting: every entered number is
// rounded to one decimal and the derived distance is refreshed.
// Blank fields stay blank.
func CommitSegment(seg domain.Segment) domain.Segment {
	seg.DistanceKm = round1Ptr(seg.DistanceKm)
	seg.StartOdometer = round1Ptr(seg.StartOdometer)
	seg.EndOdometer = round1Ptr(seg.EndOdometer)
	return DeriveDistance(seg)
}
