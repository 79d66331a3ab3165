// Package handler: export.go implements GET /export and GET /trip/summary.
// /export returns every segment as a flat table and supports content
// negotiation via ?format=csv (CSV) or default (JSON).
package handler

import (
	"bytes"
	"encoding/csv"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/pkordes/gas-calc/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"index", "included", "date", "start_odometer", "end_odometer",
	"distance_km", "participants", "liters", "cost",
}

// GetExport handles GET /export.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	rows, err := s.export.Rows(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "trip")
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		writeCSV(w, r, rows)
		return
	}
	writeJSON(w, r, http.StatusOK, buildJSONRows(rows))
}

// GetSummary handles GET /trip/summary: the share text as text/plain.
func (s *Server) GetSummary(w http.ResponseWriter, r *http.Request) {
	text, err := s.export.Summary(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "trip")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(text)); err != nil {
		slog.DebugContext(r.Context(), "response write failed", "error", err)
	}
}

// buildJSONRows converts domain rows to the JSON response rows.
func buildJSONRows(rows []domain.ExportRow) []ExportRow {
	out := make([]ExportRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, ExportRow(r))
	}
	return out
}

// writeCSV encodes domain rows as CSV with a download filename.
func writeCSV(w http.ResponseWriter, r *http.Request, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, row := range rows {
		//nolint:errcheck
		cw.Write(domainRowToCSVRecord(row))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="gas-calc.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.DebugContext(r.Context(), "response write failed", "error", err)
	}
}

// domainRowToCSVRecord encodes a domain.ExportRow as a flat string slice.
// Blank odometer readings are encoded as empty strings.
func domainRowToCSVRecord(r domain.ExportRow) []string {
	return []string{
		strconv.Itoa(r.Index),
		strconv.FormatBool(r.Included),
		r.Date,
		formatOptionalNumber(r.StartOdometer),
		formatOptionalNumber(r.EndOdometer),
		strconv.FormatFloat(r.DistanceKm, 'f', 1, 64),
		strconv.Itoa(r.ParticipantCount),
		strconv.FormatFloat(r.Liters, 'f', 2, 64),
		strconv.FormatFloat(r.Cost, 'f', 0, 64),
	}
}
