package handler_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/gas-calc/internal/domain"
	"github.com/pkordes/gas-calc/internal/handler"
)

// ---- mock ExportServicer ---------------------------------------------------

type mockExportServicer struct {
	summary func(ctx context.Context) (string, error)
	rows    func(ctx context.Context) ([]domain.ExportRow, error)
}

func (m *mockExportServicer) Summary(ctx context.Context) (string, error) {
	return m.summary(ctx)
}
func (m *mockExportServicer) Rows(ctx context.Context) ([]domain.ExportRow, error) {
	return m.rows(ctx)
}

// compile-time check: mockExportServicer must satisfy handler.ExportServicer.
var _ handler.ExportServicer = (*mockExportServicer)(nil)

// ---- helpers ---------------------------------------------------------------

// newExportHTTPHandler wires a Server with only the export service mock.
func newExportHTTPHandler(exportSvc handler.ExportServicer) http.Handler {
	return handler.NewServer(nil, exportSvc).Handler()
}

// exportRowsFixture returns one counted odometer row and one excluded row.
func exportRowsFixture() []domain.ExportRow {
	return []domain.ExportRow{
		{
			Index:            1,
			Included:         true,
			Date:             "05/12",
			StartOdometer:    num(1000),
			EndOdometer:      num(1080),
			DistanceKm:       80,
			ParticipantCount: 2,
			Liters:           5,
			Cost:             800,
		},
		{
			Index:            2,
			Included:         false,
			DistanceKm:       12.5,
			ParticipantCount: 1,
			Liters:           0.78125,
		},
	}
}

func rowsService() *mockExportServicer {
	return &mockExportServicer{
		rows: func(_ context.Context) ([]domain.ExportRow, error) { return exportRowsFixture(), nil },
	}
}

// ---- GET /export -----------------------------------------------------------

func TestGetExport_JSON_Default(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/export", nil)
	rec := httptest.NewRecorder()
	newExportHTTPHandler(rowsService()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var rows []handler.ExportRow
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&rows))
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Index)
	assert.Equal(t, num(1000), rows[0].StartOdometer)
	assert.Equal(t, 800.0, rows[0].Cost)
	assert.False(t, rows[1].Included)
	assert.Nil(t, rows[1].StartOdometer)
}

func TestGetExport_CSV(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/export?format=csv", nil)
	rec := httptest.NewRecorder()
	newExportHTTPHandler(rowsService()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "gas-calc.csv")

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "header plus one row per segment")
	assert.Equal(t, []string{
		"index", "included", "date", "start_odometer", "end_odometer",
		"distance_km", "participants", "liters", "cost",
	}, records[0])
	assert.Equal(t, []string{"1", "true", "05/12", "1000", "1080", "80.0", "2", "5.00", "800"}, records[1])
	assert.Equal(t, []string{"2", "false", "", "", "", "12.5", "1", "0.78", "0"}, records[2])
}

func TestGetExport_500(t *testing.T) {
	svc := &mockExportServicer{
		rows: func(_ context.Context) ([]domain.ExportRow, error) { return nil, errors.New("boom") },
	}

	req := httptest.NewRequest(http.MethodGet, "/export", nil)
	rec := httptest.NewRecorder()
	newExportHTTPHandler(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// ---- GET /trip/summary -----------------------------------------------------

func TestGetSummary_PlainText(t *testing.T) {
	svc := &mockExportServicer{
		summary: func(_ context.Context) (string, error) {
			return "Gas cost:\nTotal: ¥800", nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/trip/summary", nil)
	rec := httptest.NewRecorder()
	newExportHTTPHandler(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
	assert.Equal(t, "Gas cost:\nTotal: ¥800", rec.Body.String())
}
