package domain

// ExportRow is a single row in the segment export: one row per segment in
// entry order, with the per-segment fuel and cost figures alongside the raw
// inputs. Optional numbers are nil when the field was blank.
type ExportRow struct {
	Index            int // 1-based entry order
	Included         bool
	Date             string
	StartOdometer    *float64
	EndOdometer      *float64
	DistanceKm       float64 // effective distance
	ParticipantCount int
	Liters           float64 // 0 when efficiency is invalid
	Cost             float64 // 0 when efficiency is invalid or the row is excluded
}
