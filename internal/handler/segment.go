package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// AddSegment handles POST /trip/segments.
// The body is optional; without one the new segment has default values.
func (s *Server) AddSegment(w http.ResponseWriter, r *http.Request) {
	var body SegmentRequest
	if err := decodeJSON(r, &body); err != nil && !errors.Is(err, errEmptyBody) {
		writeDecodeError(w, r, err)
		return
	}
	c, err := s.trips.AddSegment(r.Context(), body.toPatch())
	if err != nil {
		writeServiceError(w, r, err, "segment")
		return
	}
	writeJSON(w, r, http.StatusCreated, calculationToResponse(c, s.now()))
}

// UpdateSegment handles PATCH /trip/segments/{id}.
func (s *Server) UpdateSegment(w http.ResponseWriter, r *http.Request) {
	id, ok := segmentID(w, r)
	if !ok {
		return
	}
	var body SegmentRequest
	if err := decodeJSON(r, &body); err != nil {
		writeDecodeError(w, r, err)
		return
	}
	c, err := s.trips.UpdateSegment(r.Context(), id, body.toPatch())
	s.respond(w, r, c, err)
}

// DeleteSegment handles DELETE /trip/segments/{id}.
// Deleting the last segment leaves one empty segment behind.
func (s *Server) DeleteSegment(w http.ResponseWriter, r *http.Request) {
	id, ok := segmentID(w, r)
	if !ok {
		return
	}
	c, err := s.trips.DeleteSegment(r.Context(), id)
	s.respond(w, r, c, err)
}

// ClearSegments handles DELETE /trip/segments.
func (s *Server) ClearSegments(w http.ResponseWriter, r *http.Request) {
	c, err := s.trips.ClearSegments(r.Context())
	s.respond(w, r, c, err)
}

// segmentID parses the {id} path parameter, writing a 422 when it is not a UUID.
func segmentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, r, http.StatusUnprocessableEntity, requestBody("segment id must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}
