package calc_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/gas-calc/internal/calc"
	"github.com/pkordes/gas-calc/internal/domain"
)

// ---- helpers ---------------------------------------------------------------

func num(v float64) *float64 { return &v }

func count(n int) *int { return &n }

// seg builds an included segment with the given distance and participants.
func seg(km float64, people int) domain.Segment {
	s := domain.NewSegment()
	s.DistanceKm = num(km)
	s.ParticipantCount = people
	return s
}

func tripOf(price, eff float64, segs ...domain.Segment) domain.Trip {
	return domain.Trip{UnitPrice: num(price), Efficiency: num(eff), Segments: segs}
}

// ---- end-to-end scenarios --------------------------------------------------

func TestCalculate_SingleSegmentTwoPeople(t *testing.T) {
	calcn := calc.Calculate(tripOf(160, 16, seg(80, 2)))

	assert.InDelta(t, 5.0, calcn.Result.TotalLiters, 1e-9)
	assert.InDelta(t, 800.0, calcn.Result.TotalCost, 1e-9)
	assert.InDelta(t, 10.0, calcn.Result.CostPerKm, 1e-9)
	assert.InDelta(t, 400.0, calcn.Result.CostPerPerson, 1e-9)
	assert.Empty(t, calcn.Result.Warning)

	assert.Equal(t, domain.ResultView{
		SumKm:     "80.0",
		Liters:    "5.00",
		Total:     "¥800",
		PerKm:     "¥10.00",
		PerPerson: "¥400",
	}, calcn.View)
}

func TestCalculate_ZeroEfficiencyWarns(t *testing.T) {
	calcn := calc.Calculate(tripOf(150, 0, seg(120, 3)))

	assert.Equal(t, "0.00", calcn.View.Liters)
	assert.Equal(t, "¥0", calcn.View.Total)
	assert.Equal(t, "¥0.00", calcn.View.PerKm)
	assert.Equal(t, "¥0", calcn.View.PerPerson)
	assert.Equal(t, domain.WarningInvalidEfficiency, calcn.View.Warning)

	// Distance is still summed when efficiency is invalid.
	assert.Equal(t, "120.0", calcn.View.SumKm)
}

// ---- Aggregate -------------------------------------------------------------

func TestAggregate_LitersEqualDistanceOverEfficiency(t *testing.T) {
	for _, eff := range []float64{0.5, 1, 7.3, 12, 16, 33.3} {
		for _, kms := range [][]float64{{0}, {80}, {12.3, 45.6}, {1, 2, 3, 4.4}} {
			var segs []domain.Segment
			var d float64
			for _, km := range kms {
				segs = append(segs, seg(km, 1))
				d += km
			}

			_, res := calc.Compute(tripOf(150, eff, segs...))

			assert.InDelta(t, d/eff, res.TotalLiters, 0.005, "eff=%v kms=%v", eff, kms)
			assert.InDelta(t, d, res.TotalDistanceKm, 1e-9)
		}
	}
}

func TestAggregate_NonPositiveEfficiencyIsAllZero(t *testing.T) {
	tests := []struct {
		name        string
		efficiency  *float64
		wantWarning bool
	}{
		{"blank", nil, false},
		{"zero", num(0), true},
		{"negative", num(-4.5), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trip := domain.Trip{
				UnitPrice:  num(170),
				Efficiency: tt.efficiency,
				Segments:   []domain.Segment{seg(50, 2), seg(30, 4)},
			}

			_, res := calc.Compute(trip)

			assert.Zero(t, res.TotalLiters)
			assert.Zero(t, res.TotalCost)
			assert.Zero(t, res.CostPerKm)
			assert.Zero(t, res.CostPerPerson)
			assert.InDelta(t, 80.0, res.TotalDistanceKm, 1e-9)
			if tt.wantWarning {
				assert.Equal(t, domain.WarningInvalidEfficiency, res.Warning)
			} else {
				assert.Empty(t, res.Warning)
			}
		})
	}
}

func TestAggregate_DivisorIsMaxParticipants(t *testing.T) {
	excluded := seg(10, 10)
	excluded.Included = false

	_, res := calc.Compute(tripOf(160, 16, seg(40, 2), seg(40, 4), excluded))

	assert.Equal(t, 4, res.EffectiveParticipants)
	assert.InDelta(t, 800.0/4, res.CostPerPerson, 1e-9)
}

func TestAggregate_TripLevelParticipantsOverrideRows(t *testing.T) {
	trip := tripOf(160, 16, seg(40, 2), seg(40, 4))
	trip.ParticipantCount = count(5)

	_, res := calc.Compute(trip)

	assert.Equal(t, 5, res.EffectiveParticipants)
	assert.InDelta(t, 160.0, res.CostPerPerson, 1e-9)
}

func TestAggregate_TripLevelParticipantsClamped(t *testing.T) {
	trip := tripOf(160, 16, seg(80, 3))
	trip.ParticipantCount = count(0)

	_, res := calc.Compute(trip)

	assert.Equal(t, 1, res.EffectiveParticipants)
	assert.InDelta(t, 800.0, res.CostPerPerson, 1e-9)
}

func TestAggregate_NoCountedSegments(t *testing.T) {
	only := seg(100, 3)
	only.Included = false

	_, res := calc.Compute(tripOf(160, 16, only))

	assert.Zero(t, res.CountedSegments)
	assert.Zero(t, res.EffectiveParticipants)
	assert.Zero(t, res.TotalCost)
	assert.Zero(t, res.CostPerPerson)
	// Per-km cost depends only on price and efficiency.
	assert.InDelta(t, 10.0, res.CostPerKm, 1e-9)
}

func TestAggregate_ExcludedSegmentStillRendersDistance(t *testing.T) {
	excluded := seg(100, 1)
	excluded.Included = false

	rows, res := calc.Compute(tripOf(160, 16, seg(20, 1), excluded))

	require.Len(t, rows, 2)
	assert.False(t, rows[1].CountsTowardTotals)
	assert.InDelta(t, 100.0, rows[1].EffectiveDistanceKm, 1e-9)
	assert.Equal(t, "100.0", calc.FormatInput(rows[1].DistanceKm))
	assert.InDelta(t, 20.0, res.TotalDistanceKm, 1e-9)
	assert.Equal(t, 1, res.CountedSegments)
}

func TestAggregate_PerSegmentAccrualMatchesShortcut(t *testing.T) {
	_, res := calc.Compute(tripOf(163.4, 14.2, seg(33.3, 1), seg(71.9, 2), seg(8.8, 1)))

	assert.InDelta(t, res.TotalLiters*163.4, res.TotalCost, 1e-9)
}

func TestAggregate_BlankPriceCostsNothing(t *testing.T) {
	trip := tripOf(0, 16, seg(80, 2))
	trip.UnitPrice = nil

	_, res := calc.Compute(trip)

	assert.InDelta(t, 5.0, res.TotalLiters, 1e-9)
	assert.Zero(t, res.TotalCost)
	assert.Empty(t, res.Warning)
}

func TestSegmentLiters_NonPositiveEfficiency(t *testing.T) {
	assert.Zero(t, calc.SegmentLiters(100, 0))
	assert.Zero(t, calc.SegmentCost(100, -1, 150))
	assert.InDelta(t, 750.0, calc.SegmentCost(100, 20, 150), 1e-9)
}

// ---- formatting ------------------------------------------------------------

func TestFormatYen(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "¥0"},
		{800, "¥800"},
		{799.5, "¥800"},
		{399.49, "¥399"},
		{12800, "¥12,800"},
		{-50, "-¥50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, calc.FormatYen(tt.in), "FormatYen(%v)", tt.in)
	}
}

func TestFormatFractions(t *testing.T) {
	assert.Equal(t, "¥10.00", calc.FormatYenFraction(10))
	assert.Equal(t, "¥9.38", calc.FormatYenFraction(150.0/16))
	assert.Equal(t, "5.00", calc.FormatLiters(5))
	assert.Equal(t, "5.5", calc.FormatKm(5.5))
	assert.Equal(t, "", calc.FormatInput(nil))
}

// ---- extreme input ---------------------------------------------------------

func TestCalculate_HugePriceTinyEfficiencyStaysFinite(t *testing.T) {
	trip := domain.Trip{
		UnitPrice:  calc.ParseNumber("1e308"),
		Efficiency: calc.ParseNumber("1e-10"),
		Segments:   []domain.Segment{seg(80, 1)},
	}

	c := calc.Calculate(trip)

	for name, v := range map[string]float64{
		"liters": c.Result.TotalLiters, "cost": c.Result.TotalCost,
		"perKm": c.Result.CostPerKm, "perPerson": c.Result.CostPerPerson,
	} {
		assert.False(t, math.IsInf(v, 0) || math.IsNaN(v), "%s = %v", name, v)
	}
	assert.NotContains(t, c.View.PerKm, "Inf")
	assert.NotContains(t, c.View.Total, "Inf")
	assert.InEpsilon(t, calc.MaxMagnitude/1e-10, c.Result.CostPerKm, 1e-9, "price is clamped, not dropped")
}

func TestAggregate_OverflowingEfficiencyReadsAsZero(t *testing.T) {
	c := calc.Calculate(tripOf(calc.MaxMagnitude, 1e-300, seg(calc.MaxMagnitude, 1)))

	assert.Zero(t, c.Result.TotalLiters)
	assert.Zero(t, c.Result.TotalCost)
	assert.Zero(t, c.Result.CostPerKm)
	assert.Zero(t, c.Result.CostPerPerson)
	assert.Equal(t, "¥0", c.View.Total)
}

func TestFormatYen_BeyondInt64(t *testing.T) {
	assert.Equal(t, "¥100000000000000000000", calc.FormatYen(1e20))
	assert.Equal(t, "-¥100000000000000000000", calc.FormatYen(-1e20))
}
