package handler

import (
	"context"
	"net/http"

	"github.com/pkordes/gas-calc/internal/domain"
)

// GetTrip handles GET /trip.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	c, err := s.trips.Current(r.Context())
	s.respond(w, r, c, err)
}

// ResetTrip handles DELETE /trip. The stored snapshot is discarded and the
// default trip is returned.
func (s *Server) ResetTrip(w http.ResponseWriter, r *http.Request) {
	c, err := s.trips.Reset(r.Context())
	s.respond(w, r, c, err)
}

// SetUnitPrice handles PUT /trip/price.
func (s *Server) SetUnitPrice(w http.ResponseWriter, r *http.Request) {
	s.setValue(w, r, s.trips.SetUnitPrice)
}

// SetEfficiency handles PUT /trip/efficiency.
func (s *Server) SetEfficiency(w http.ResponseWriter, r *http.Request) {
	s.setValue(w, r, s.trips.SetEfficiency)
}

// SetParticipants handles PUT /trip/participants.
// An empty value switches back to the per-segment participant counts.
func (s *Server) SetParticipants(w http.ResponseWriter, r *http.Request) {
	s.setValue(w, r, s.trips.SetParticipants)
}

// setValue decodes a ValueRequest and hands the raw text to set.
func (s *Server) setValue(w http.ResponseWriter, r *http.Request, set func(context.Context, string) (domain.Calculation, error)) {
	var body ValueRequest
	if err := decodeJSON(r, &body); err != nil {
		writeDecodeError(w, r, err)
		return
	}
	c, err := set(r.Context(), string(body.Value))
	s.respond(w, r, c, err)
}

// respond writes c as a 200 CalculationResponse, or maps err.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, c domain.Calculation, err error) {
	if err != nil {
		writeServiceError(w, r, err, "segment")
		return
	}
	writeJSON(w, r, http.StatusOK, calculationToResponse(c, s.now()))
}
