// Package handler implements the HTTP handlers for the gas calculator API.
// All handlers are methods on Server. They are split into domain-specific
// files (health.go, trip.go, segment.go, export.go) but share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/gas-calc/internal/domain"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the store or service layer.
type TripServicer interface {
	Current(ctx context.Context) (domain.Calculation, error)
	SetUnitPrice(ctx context.Context, raw string) (domain.Calculation, error)
	SetEfficiency(ctx context.Context, raw string) (domain.Calculation, error)
	SetParticipants(ctx context.Context, raw string) (domain.Calculation, error)
	AddSegment(ctx context.Context, patch domain.SegmentPatch) (domain.Calculation, error)
	UpdateSegment(ctx context.Context, id uuid.UUID, patch domain.SegmentPatch) (domain.Calculation, error)
	DeleteSegment(ctx context.Context, id uuid.UUID) (domain.Calculation, error)
	ClearSegments(ctx context.Context) (domain.Calculation, error)
	Reset(ctx context.Context) (domain.Calculation, error)
}

// ExportServicer defines the export operations.
type ExportServicer interface {
	Summary(ctx context.Context) (string, error)
	Rows(ctx context.Context) ([]domain.ExportRow, error)
}

// Server holds the handler dependencies.
// Methods are in domain-specific files but all operate on this struct.
type Server struct {
	trips  TripServicer
	export ExportServicer
	now    func() time.Time
}

// NewServer constructs the Server with all its dependencies.
// Either service may be nil in tests that only exercise the other one.
func NewServer(trips TripServicer, export ExportServicer) *Server {
	return &Server{trips: trips, export: export, now: time.Now}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil)
}

// Register adds every API route to r.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", s.GetHealth)

	r.Route("/trip", func(r chi.Router) {
		r.Get("/", s.GetTrip)
		r.Delete("/", s.ResetTrip)
		r.Put("/price", s.SetUnitPrice)
		r.Put("/efficiency", s.SetEfficiency)
		r.Put("/participants", s.SetParticipants)
		r.Get("/summary", s.GetSummary)

		r.Post("/segments", s.AddSegment)
		r.Delete("/segments", s.ClearSegments)
		r.Patch("/segments/{id}", s.UpdateSegment)
		r.Delete("/segments/{id}", s.DeleteSegment)
	})

	r.Get("/export", s.GetExport)
}

// Handler returns the routes mounted on a fresh chi router, without any
// middleware. main.go wraps it; tests use it directly.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.Register(r)
	return r
}
