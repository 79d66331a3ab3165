package domain

// WarningInvalidEfficiency is set on a Result when a non-blank efficiency is
// not a positive number.
const WarningInvalidEfficiency = "efficiency must be a positive number"

// Result holds the quantities derived from a Trip. It is recomputed from
// scratch on every mutation and never stored.
type Result struct {
	TotalDistanceKm float64
	TotalLiters     float64
	TotalCost       float64
	CostPerKm       float64
	CostPerPerson   float64
	Warning         string // empty when there is nothing to warn about

	// CountedSegments is the number of included segments.
	CountedSegments int
	// EffectiveParticipants is the divisor used for CostPerPerson:
	// 0 when no segment is counted.
	EffectiveParticipants int
}

// ResultView is a Result formatted for display.
type ResultView struct {
	SumKm     string `json:"sumKm"`     // 1 decimal
	Liters    string `json:"liters"`    // 2 decimals
	Total     string `json:"total"`     // currency, 0 decimals
	PerKm     string `json:"perKm"`     // currency, 2 decimals
	PerPerson string `json:"perPerson"` // currency, 0 decimals
	Warning   string `json:"warning,omitempty"`
}

// Calculation bundles a Trip with everything derived from it.
// Every mutating operation returns one.
type Calculation struct {
	Trip   Trip
	Rows   []NormalizedSegment
	Result Result
	View   ResultView
}
