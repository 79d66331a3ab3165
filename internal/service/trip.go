// Package service contains the business logic for the gas calculator.
// Services apply edits to the Trip, run the calc rules and persist the
// result. No SQL lives here; services depend on repo interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/gas-calc/internal/calc"
	"github.com/pkordes/gas-calc/internal/domain"
	"github.com/pkordes/gas-calc/internal/repo"
	"github.com/pkordes/gas-calc/internal/snapshot"
)

// RecalcObserver is notified after every recomputation.
// The metrics package provides the production implementation.
type RecalcObserver interface {
	ObserveRecalc(op string, res domain.Result)
}

// TripServiceOptions configures a TripService. Zero values pick defaults.
type TripServiceOptions struct {
	// Key is the snapshot key. Defaults to domain.SnapshotKey.
	Key string
	// Observer receives every Result; may be nil.
	Observer RecalcObserver
	// Now supplies "today" for date canonicalization. Defaults to time.Now.
	Now func() time.Time
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// TripService owns the calculation session. Every mutation loads the trip,
// applies the edit, recomputes the whole Result and re-persists the whole
// snapshot. Mutations are serialized: there is one logical writer.
type TripService struct {
	mu       sync.Mutex
	repo     repo.SnapshotRepo
	key      string
	observer RecalcObserver
	now      func() time.Time
	log      *slog.Logger
}

// NewTripService constructs a TripService backed by the provided SnapshotRepo.
func NewTripService(r repo.SnapshotRepo, opts TripServiceOptions) *TripService {
	s := &TripService{
		repo:     r,
		key:      opts.Key,
		observer: opts.Observer,
		now:      opts.Now,
		log:      opts.Logger,
	}
	if s.key == "" {
		s.key = domain.SnapshotKey
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// Current returns the calculation for the persisted trip, or for a fresh
// default trip when nothing usable is stored. It does not write.
func (s *TripService) Current(ctx context.Context) (domain.Calculation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calculate("Current", s.load(ctx)), nil
}

// SetUnitPrice sets the fuel price from raw input. Blank or garbage clears
// the price (it counts as 0); a negative price is raised to 0.
func (s *TripService) SetUnitPrice(ctx context.Context, raw string) (domain.Calculation, error) {
	return s.mutate(ctx, "SetUnitPrice", func(t *domain.Trip) error {
		p := calc.ParseNumber(raw)
		if p != nil && *p < 0 {
			*p = 0
		}
		t.UnitPrice = p
		return nil
	})
}

// SetEfficiency sets km per liter from raw input. Blank or garbage leaves the
// field blank (no warning); an entered value <= 0 produces the warning.
func (s *TripService) SetEfficiency(ctx context.Context, raw string) (domain.Calculation, error) {
	return s.mutate(ctx, "SetEfficiency", func(t *domain.Trip) error {
		t.Efficiency = calc.ParseNumber(raw)
		return nil
	})
}

// SetParticipants sets the trip-wide split. Blank input clears it so the
// per-segment counts apply again; any other input is clamped to >= 1.
func (s *TripService) SetParticipants(ctx context.Context, raw string) (domain.Calculation, error) {
	return s.mutate(ctx, "SetParticipants", func(t *domain.Trip) error {
		if strings.TrimSpace(raw) == "" {
			t.ParticipantCount = nil
			return nil
		}
		n := calc.ParseParticipants(raw)
		t.ParticipantCount = &n
		return nil
	})
}

// AddSegment appends a new segment with default values, then applies the
// optional initial field values in patch.
func (s *TripService) AddSegment(ctx context.Context, patch domain.SegmentPatch) (domain.Calculation, error) {
	return s.mutate(ctx, "AddSegment", func(t *domain.Trip) error {
		t.Segments = append(t.Segments, applyPatch(domain.NewSegment(), patch, s.now()))
		return nil
	})
}

// UpdateSegment applies field edits to one segment.
// Returns domain.ErrNotFound if the trip has no segment with that ID.
func (s *TripService) UpdateSegment(ctx context.Context, id uuid.UUID, patch domain.SegmentPatch) (domain.Calculation, error) {
	return s.mutate(ctx, "UpdateSegment", func(t *domain.Trip) error {
		i := t.SegmentIndex(id)
		if i < 0 {
			return domain.ErrNotFound
		}
		t.Segments[i] = applyPatch(t.Segments[i], patch, s.now())
		return nil
	})
}

// DeleteSegment removes one segment. Removing the last segment leaves a
// single empty one. Returns domain.ErrNotFound for an unknown ID.
func (s *TripService) DeleteSegment(ctx context.Context, id uuid.UUID) (domain.Calculation, error) {
	return s.mutate(ctx, "DeleteSegment", func(t *domain.Trip) error {
		i := t.SegmentIndex(id)
		if i < 0 {
			return domain.ErrNotFound
		}
		t.Segments = slices.Delete(t.Segments, i, i+1)
		return nil
	})
}

// ClearSegments removes every segment and starts over with one empty segment.
// Price, efficiency and the trip-wide split are kept.
func (s *TripService) ClearSegments(ctx context.Context) (domain.Calculation, error) {
	return s.mutate(ctx, "ClearSegments", func(t *domain.Trip) error {
		t.Segments = nil
		return nil
	})
}

// Reset discards the stored snapshot and returns the default trip.
func (s *TripService) Reset(ctx context.Context) (domain.Calculation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, s.key); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return domain.Calculation{}, fmt.Errorf("service.TripService.Reset: %w", err)
	}
	return s.calculate("Reset", domain.NewTrip()), nil
}

// mutate runs one load, edit, recompute and persist cycle under the lock.
func (s *TripService) mutate(ctx context.Context, op string, edit func(*domain.Trip) error) (domain.Calculation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trip := s.load(ctx)
	if err := edit(&trip); err != nil {
		return domain.Calculation{}, fmt.Errorf("service.TripService.%s: %w", op, err)
	}
	if len(trip.Segments) == 0 {
		trip.Segments = []domain.Segment{domain.NewSegment()}
	}

	result := s.calculate(op, trip)

	blob, err := snapshot.Encode(trip)
	if err != nil {
		return domain.Calculation{}, fmt.Errorf("service.TripService.%s: %w", op, err)
	}
	if err := s.repo.Save(ctx, s.key, blob); err != nil {
		return domain.Calculation{}, fmt.Errorf("service.TripService.%s: %w", op, err)
	}
	return result, nil
}

// load reads the stored trip. A missing, unreadable or corrupt snapshot
// silently yields the default trip.
func (s *TripService) load(ctx context.Context) domain.Trip {
	blob, err := s.repo.Load(ctx, s.key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.WarnContext(ctx, "snapshot load failed, using defaults", "key", s.key, "error", err)
		}
		return domain.NewTrip()
	}
	trip, err := snapshot.Decode(blob)
	if err != nil {
		s.log.WarnContext(ctx, "snapshot corrupt, using defaults", "key", s.key, "error", err)
		return domain.NewTrip()
	}
	return trip
}

func (s *TripService) calculate(op string, trip domain.Trip) domain.Calculation {
	c := calc.Calculate(trip)
	if s.observer != nil {
		s.observer.ObserveRecalc(op, c.Result)
	}
	return c
}

// applyPatch applies raw field edits to seg.
//
// Odometer edits go first so a distance edit on a row whose distance is
// derived is ignored. Numbers are only rounded, and the date only
// canonicalized, when the patch is a commit.
func applyPatch(seg domain.Segment, p domain.SegmentPatch, today time.Time) domain.Segment {
	if p.Included != nil {
		seg.Included = *p.Included
	}
	if p.StartOdometer != nil {
		seg.StartOdometer = calc.ParseNumber(*p.StartOdometer)
	}
	if p.EndOdometer != nil {
		seg.EndOdometer = calc.ParseNumber(*p.EndOdometer)
	}
	if p.DistanceKm != nil && !seg.HasOdometer() {
		seg.DistanceKm = calc.ParseNumber(*p.DistanceKm)
	}
	if p.ParticipantCount != nil {
		seg.ParticipantCount = calc.ParseParticipants(*p.ParticipantCount)
	}
	if p.Date != nil {
		seg.Date = calc.SanitizeDateInput(*p.Date)
		if p.Commit {
			seg.Date = calc.CanonicalizeDate(seg.Date, today)
		}
	}
	if p.CalendarDate != nil {
		seg.Date = calc.DateFromCalendar(*p.CalendarDate)
	}

	if p.Commit {
		return calc.CommitSegment(seg)
	}
	return calc.DeriveDistance(seg)
}
