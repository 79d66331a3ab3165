package calc

import (
	"github.com/pkordes/gas-calc/internal/domain"
)

// Aggregate turns normalized segments into a Result.
//
// efficiency is nil when the field is blank. A blank or non-positive
// efficiency zeroes every fuel and cost figure; the distance total is still
// reported, and the warning is only set when the field was actually filled in.
//
// tripParticipants, when non-nil, is the trip-wide split and replaces the
// per-segment counts as the divisor.
func Aggregate(unitPrice float64, efficiency *float64, rows []domain.NormalizedSegment, tripParticipants *int) domain.Result {
	var (
		r         domain.Result
		maxPeople int
		cost      float64
	)
	eff := deref(efficiency)

	for _, row := range rows {
		if !row.CountsTowardTotals {
			continue
		}
		r.CountedSegments++
		r.TotalDistanceKm += row.EffectiveDistanceKm
		maxPeople = max(maxPeople, ClampParticipants(row.ParticipantCount))

		// Cost accrues per segment so each leg could carry its own
		// efficiency later; with one efficiency it equals liters*price.
		if eff > 0 {
			cost += SegmentCost(row.EffectiveDistanceKm, eff, unitPrice)
		}
	}

	if tripParticipants != nil && r.CountedSegments > 0 {
		maxPeople = ClampParticipants(*tripParticipants)
	}
	r.EffectiveParticipants = maxPeople

	if eff <= 0 {
		if efficiency != nil {
			r.Warning = domain.WarningInvalidEfficiency
		}
		return r
	}

	// A tiny efficiency can still overflow; such figures read as 0.
	r.TotalLiters = finite(r.TotalDistanceKm / eff)
	r.TotalCost = finite(cost)
	r.CostPerKm = finite(unitPrice / eff)
	if maxPeople > 0 {
		r.CostPerPerson = finite(r.TotalCost / float64(maxPeople))
	}
	return r
}

// SegmentLiters is the fuel one segment needs. Zero for a non-positive efficiency.
func SegmentLiters(distanceKm, efficiency float64) float64 {
	if efficiency <= 0 {
		return 0
	}
	return finite(distanceKm / efficiency)
}

// SegmentCost is the fuel cost of one segment.
func SegmentCost(distanceKm, efficiency, unitPrice float64) float64 {
	return finite(SegmentLiters(distanceKm, efficiency) * unitPrice)
}

// Compute normalizes every segment of the trip and aggregates the result.
func Compute(trip domain.Trip) ([]domain.NormalizedSegment, domain.Result) {
	rows := NormalizeAll(trip.Segments)
	return rows, Aggregate(deref(trip.UnitPrice), trip.Efficiency, rows, trip.ParticipantCount)
}

// Calculate is Compute plus the display view, bundled with the trip.
func Calculate(trip domain.Trip) domain.Calculation {
	rows, res := Compute(trip)
	return domain.Calculation{
		Trip:   trip,
		Rows:   rows,
		Result: res,
		View:   Render(res),
	}
}
