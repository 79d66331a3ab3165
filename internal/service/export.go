package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pkordes/gas-calc/internal/calc"
	"github.com/pkordes/gas-calc/internal/domain"
	"github.com/pkordes/gas-calc/internal/export"
)

// Calculator is the slice of TripService the export side reads from.
type Calculator interface {
	Current(ctx context.Context) (domain.Calculation, error)
}

// ExportService turns the current calculation into share text and flat rows.
type ExportService struct {
	trips Calculator
	log   *slog.Logger
}

// NewExportService constructs an ExportService reading from trips.
// A nil logger means slog.Default().
func NewExportService(trips Calculator, log *slog.Logger) *ExportService {
	if log == nil {
		log = slog.Default()
	}
	return &ExportService{trips: trips, log: log}
}

// Summary returns the plain-text share summary of the current calculation.
func (s *ExportService) Summary(ctx context.Context) (string, error) {
	c, err := s.trips.Current(ctx)
	if err != nil {
		return "", fmt.Errorf("service.ExportService.Summary: %w", err)
	}
	return SummaryText(c), nil
}

// Share hands the summary to sharer. Failures are logged at debug level and
// otherwise ignored; the return value reports whether the share went through.
func (s *ExportService) Share(ctx context.Context, sharer export.Sharer) bool {
	text, err := s.Summary(ctx)
	if err != nil {
		s.log.DebugContext(ctx, "share skipped", "error", err)
		return false
	}
	if err := sharer.Share(ctx, export.ShareTitle, text); err != nil {
		s.log.DebugContext(ctx, "share failed", "error", err)
		return false
	}
	return true
}

// Rows returns one ExportRow per segment in entry order.
func (s *ExportService) Rows(ctx context.Context) ([]domain.ExportRow, error) {
	c, err := s.trips.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Rows: %w", err)
	}
	return ExportRows(c), nil
}

// ExportRows flattens a calculation into export rows.
func ExportRows(c domain.Calculation) []domain.ExportRow {
	price := 0.0
	if c.Trip.UnitPrice != nil {
		price = *c.Trip.UnitPrice
	}
	eff := 0.0
	if c.Trip.Efficiency != nil {
		eff = *c.Trip.Efficiency
	}

	rows := make([]domain.ExportRow, 0, len(c.Rows))
	for i, r := range c.Rows {
		row := domain.ExportRow{
			Index:            i + 1,
			Included:         r.Included,
			Date:             r.Date,
			StartOdometer:    r.StartOdometer,
			EndOdometer:      r.EndOdometer,
			DistanceKm:       r.EffectiveDistanceKm,
			ParticipantCount: r.ParticipantCount,
			Liters:           calc.SegmentLiters(r.EffectiveDistanceKm, eff),
		}
		if r.CountsTowardTotals {
			row.Cost = calc.SegmentCost(r.EffectiveDistanceKm, eff, price)
		}
		rows = append(rows, row)
	}
	return rows
}

// SummaryText renders the share text for c.
func SummaryText(c domain.Calculation) string {
	var b strings.Builder
	b.WriteString("Gas cost:\n")
	fmt.Fprintf(&b, "Unit price: %s yen/L\n", plainNumber(c.Trip.UnitPrice))
	fmt.Fprintf(&b, "Efficiency: %s km/L\n", plainNumber(c.Trip.Efficiency))
	fmt.Fprintf(&b, "Segments counted: %d / Split between: %d\n", c.Result.CountedSegments, c.Result.EffectiveParticipants)
	fmt.Fprintf(&b, "Distance: %s km\n", c.View.SumKm)
	fmt.Fprintf(&b, "Fuel needed: %s L\n", c.View.Liters)
	fmt.Fprintf(&b, "Total: %s\n", c.View.Total)
	fmt.Fprintf(&b, "Per km: %s\n", c.View.PerKm)
	fmt.Fprintf(&b, "Per person: %s", c.View.PerPerson)
	if c.View.Warning != "" {
		fmt.Fprintf(&b, "\nWarning: %s", c.View.Warning)
	}
	return b.String()
}

// plainNumber prints a user-entered number without padding; blank is "0".
func plainNumber(v *float64) string {
	if v == nil {
		return "0"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
