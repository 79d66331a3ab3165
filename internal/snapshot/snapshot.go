// Package snapshot converts a Trip to and from the single JSON blob that is
// persisted under the snapshot key.
//
// Decode is lenient: numbers may be JSON numbers, numeric strings or "" (the
// way the browser version stored blank fields), and the older browser shape
// {price, eff, kms:[{checked, km, start, end, people}]} is still understood.
package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/gas-calc/internal/calc"
	"github.com/pkordes/gas-calc/internal/domain"
)

// Encode serializes the whole trip.
func Encode(trip domain.Trip) ([]byte, error) {
	b, err := json.Marshal(trip)
	if err != nil {
		return nil, fmt.Errorf("snapshot.Encode: %w", err)
	}
	return b, nil
}

// Decode parses a stored blob into a Trip that satisfies the session
// invariants: at least one segment, every segment with an ID, participant
// counts >= 1 and derived distances in place.
// Malformed JSON is returned as an error; callers fall back to domain.NewTrip.
func Decode(blob []byte) (domain.Trip, error) {
	var w wireTrip
	if err := json.Unmarshal(blob, &w); err != nil {
		return domain.Trip{}, fmt.Errorf("snapshot.Decode: %w", err)
	}

	trip := domain.Trip{
		UnitPrice:  firstOf(w.UnitPrice, w.Price),
		Efficiency: firstOf(w.Efficiency, w.Eff),
	}
	if p := firstOf(w.ParticipantCount, w.People); p != nil {
		n := calc.ParticipantsFromFloat(*p)
		trip.ParticipantCount = &n
	}

	rows := w.Segments
	if rows == nil {
		rows = w.Kms
	}
	for _, r := range rows {
		trip.Segments = append(trip.Segments, r.segment())
	}
	if len(trip.Segments) == 0 {
		trip.Segments = []domain.Segment{domain.NewSegment()}
	}
	return trip, nil
}

type wireTrip struct {
	UnitPrice        looseNumber   `json:"unitPrice"`
	Efficiency       looseNumber   `json:"efficiency"`
	ParticipantCount looseNumber   `json:"participantCount"`
	Segments         []wireSegment `json:"segments"`

	// Browser-era field names.
	Price  looseNumber   `json:"price"`
	Eff    looseNumber   `json:"eff"`
	People looseNumber   `json:"people"`
	Kms    []wireSegment `json:"kms"`
}

type wireSegment struct {
	ID               string      `json:"id"`
	Included         *bool       `json:"included"`
	DistanceKm       looseNumber `json:"distanceKm"`
	StartOdometer    looseNumber `json:"startOdometer"`
	EndOdometer      looseNumber `json:"endOdometer"`
	ParticipantCount looseNumber `json:"participantCount"`
	Date             string      `json:"date"`

	// Browser-era field names.
	Checked *bool       `json:"checked"`
	Km      looseNumber `json:"km"`
	Start   looseNumber `json:"start"`
	End     looseNumber `json:"end"`
	People  looseNumber `json:"people"`
}

func (w wireSegment) segment() domain.Segment {
	s := domain.NewSegment()
	if id, err := uuid.Parse(w.ID); err == nil {
		s.ID = id
	}
	switch {
	case w.Included != nil:
		s.Included = *w.Included
	case w.Checked != nil:
		s.Included = *w.Checked
	}
	s.DistanceKm = firstOf(w.DistanceKm, w.Km)
	s.StartOdometer = firstOf(w.StartOdometer, w.Start)
	s.EndOdometer = firstOf(w.EndOdometer, w.End)
	if p := firstOf(w.ParticipantCount, w.People); p != nil {
		s.ParticipantCount = calc.ParticipantsFromFloat(*p)
	}
	if w.Date != "" {
		s.Date = calc.SanitizeDateInput(w.Date)
	}
	return calc.DeriveDistance(s)
}

// looseNumber accepts a JSON number, a numeric string, "" or null.
// Anything unparseable is treated as blank rather than failing the decode.
type looseNumber struct {
	v *float64
}

func (n *looseNumber) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		n.v = calc.BoundNumber(v)
	case string:
		n.v = calc.ParseNumber(v)
	default:
		n.v = nil
	}
	return nil
}

func firstOf(ns ...looseNumber) *float64 {
	for _, n := range ns {
		if n.v != nil {
			return n.v
		}
	}
	return nil
}
