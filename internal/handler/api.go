package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/gas-calc/internal/calc"
	"github.com/pkordes/gas-calc/internal/domain"
)

// These types mirror the schemas in spec/openapi.yaml.

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorDetail is the payload of every error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps ErrorDetail as {"error":{...}}.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// RawInput is a field value exactly as typed. It accepts a JSON string or a
// JSON number; null decodes to "" (a cleared field).
type RawInput string

// UnmarshalJSON implements json.Unmarshaler.
func (v *RawInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*v = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = RawInput(s)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("expected a string or a number, got %s", b)
		}
		*v = RawInput(n.String())
	}
	return nil
}

// ValueRequest is the body of the PUT /trip/{field} endpoints.
type ValueRequest struct {
	Value RawInput `json:"value"`
}

// SegmentRequest is the body of POST /trip/segments and
// PATCH /trip/segments/{id}. Absent fields are left untouched.
type SegmentRequest struct {
	Included         *bool               `json:"included,omitempty"`
	DistanceKm       *RawInput           `json:"distanceKm,omitempty"`
	StartOdometer    *RawInput           `json:"startOdometer,omitempty"`
	EndOdometer      *RawInput           `json:"endOdometer,omitempty"`
	ParticipantCount *RawInput           `json:"participantCount,omitempty"`
	Date             *RawInput           `json:"date,omitempty"`
	CalendarDate     *openapi_types.Date `json:"calendarDate,omitempty"`
	Commit           bool                `json:"commit,omitempty"`
}

// Segment is one row of a CalculationResponse.
type Segment struct {
	ID                  uuid.UUID           `json:"id"`
	Included            bool                `json:"included"`
	DistanceKm          *float64            `json:"distanceKm"`
	StartOdometer       *float64            `json:"startOdometer"`
	EndOdometer         *float64            `json:"endOdometer"`
	ParticipantCount    int                 `json:"participantCount"`
	Date                string              `json:"date"`
	CalendarDate        *openapi_types.Date `json:"calendarDate,omitempty"`
	EffectiveDistanceKm float64             `json:"effectiveDistanceKm"`
	DistanceDerived     bool                `json:"distanceDerived"`
	CountsTowardTotals  bool                `json:"countsTowardTotals"`
	Display             SegmentDisplay      `json:"display"`
}

// SegmentDisplay holds the input fields formatted the way they are shown
// after a commit: one decimal, blank stays blank.
type SegmentDisplay struct {
	DistanceKm    string `json:"distanceKm"`
	StartOdometer string `json:"startOdometer"`
	EndOdometer   string `json:"endOdometer"`
}

// Result is the numeric part of a CalculationResponse plus its display view.
type Result struct {
	TotalDistanceKm       float64           `json:"totalDistanceKm"`
	TotalLiters           float64           `json:"totalLiters"`
	TotalCost             float64           `json:"totalCost"`
	CostPerKm             float64           `json:"costPerKm"`
	CostPerPerson         float64           `json:"costPerPerson"`
	CountedSegments       int               `json:"countedSegments"`
	EffectiveParticipants int               `json:"effectiveParticipants"`
	Warning               string            `json:"warning,omitempty"`
	View                  domain.ResultView `json:"view"`
}

// CalculationResponse is returned by GET /trip and every mutation.
type CalculationResponse struct {
	UnitPrice        *float64  `json:"unitPrice"`
	Efficiency       *float64  `json:"efficiency"`
	ParticipantCount *int      `json:"participantCount"`
	Segments         []Segment `json:"segments"`
	Result           Result    `json:"result"`
}

// ExportRow is one element of the JSON export.
type ExportRow struct {
	Index            int      `json:"index"`
	Included         bool     `json:"included"`
	Date             string   `json:"date,omitempty"`
	StartOdometer    *float64 `json:"startOdometer,omitempty"`
	EndOdometer      *float64 `json:"endOdometer,omitempty"`
	DistanceKm       float64  `json:"distanceKm"`
	ParticipantCount int      `json:"participantCount"`
	Liters           float64  `json:"liters"`
	Cost             float64  `json:"cost"`
}

// --- decoding ---------------------------------------------------------------

// errEmptyBody is returned by decodeJSON when the request has no body.
var errEmptyBody = errors.New("request body is required")

// decodeJSON decodes the request body into v. Unknown fields are rejected.
// Malformed JSON is wrapped in domain.ErrValidation; a body cut off by
// http.MaxBytesReader surfaces as *http.MaxBytesError.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return err
		case errors.Is(err, io.EOF):
			return fmt.Errorf("%w: %w", domain.ErrValidation, errEmptyBody)
		default:
			return fmt.Errorf("%w: malformed JSON body: %v", domain.ErrValidation, err)
		}
	}
	return nil
}

// toPatch converts a SegmentRequest into a domain.SegmentPatch.
func (b SegmentRequest) toPatch() domain.SegmentPatch {
	p := domain.SegmentPatch{
		Included:         b.Included,
		DistanceKm:       rawPtr(b.DistanceKm),
		StartOdometer:    rawPtr(b.StartOdometer),
		EndOdometer:      rawPtr(b.EndOdometer),
		ParticipantCount: rawPtr(b.ParticipantCount),
		Date:             rawPtr(b.Date),
		Commit:           b.Commit,
	}
	if b.CalendarDate != nil {
		t := b.CalendarDate.Time
		p.CalendarDate = &t
	}
	return p
}

func rawPtr(v *RawInput) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

// --- encoding ---------------------------------------------------------------

// calculationToResponse converts a domain.Calculation into its wire shape.
// today anchors the calendar value of each "MM/DD" label.
func calculationToResponse(c domain.Calculation, today time.Time) CalculationResponse {
	segs := make([]Segment, len(c.Rows))
	for i, row := range c.Rows {
		segs[i] = Segment{
			ID:                  row.ID,
			Included:            row.Included,
			DistanceKm:          row.DistanceKm,
			StartOdometer:       row.StartOdometer,
			EndOdometer:         row.EndOdometer,
			ParticipantCount:    row.ParticipantCount,
			Date:                row.Date,
			EffectiveDistanceKm: row.EffectiveDistanceKm,
			DistanceDerived:     row.DistanceDerived,
			CountsTowardTotals:  row.CountsTowardTotals,
			Display: SegmentDisplay{
				DistanceKm:    calc.FormatInput(row.DistanceKm),
				StartOdometer: calc.FormatInput(row.StartOdometer),
				EndOdometer:   calc.FormatInput(row.EndOdometer),
			},
		}
		if d, ok := calc.CalendarFromDate(row.Date, today); ok {
			segs[i].CalendarDate = &openapi_types.Date{Time: d}
		}
	}

	return CalculationResponse{
		UnitPrice:        c.Trip.UnitPrice,
		Efficiency:       c.Trip.Efficiency,
		ParticipantCount: c.Trip.ParticipantCount,
		Segments:         segs,
		Result: Result{
			TotalDistanceKm:       c.Result.TotalDistanceKm,
			TotalLiters:           c.Result.TotalLiters,
			TotalCost:             c.Result.TotalCost,
			CostPerKm:             c.Result.CostPerKm,
			CostPerPerson:         c.Result.CostPerPerson,
			CountedSegments:       c.Result.CountedSegments,
			EffectiveParticipants: c.Result.EffectiveParticipants,
			Warning:               c.Result.Warning,
			View:                  c.View,
		},
	}
}

// formatOptionalNumber returns v in its shortest form, or "" if v is nil.
func formatOptionalNumber(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
