package handler_test

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/gas-calc/internal/calc"
	"github.com/pkordes/gas-calc/internal/domain"
	"github.com/pkordes/gas-calc/internal/handler"
	"github.com/pkordes/gas-calc/internal/repo"
	"github.com/pkordes/gas-calc/internal/service"
)

// newServiceHandler wires the real TripService over an in-memory store.
func newServiceHandler() http.Handler {
	trips := service.NewTripService(repo.NewMemorySnapshotRepo(), service.TripServiceOptions{})
	return handler.NewServer(trips, nil).Handler()
}

func send(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestExtremePriceAndEfficiency_ResponsesStayReadable(t *testing.T) {
	h := newServiceHandler()

	require.Equal(t, http.StatusOK, send(t, h, http.MethodPut, "/trip/price", `{"value":"1e308"}`).Code)
	require.Equal(t, http.StatusOK, send(t, h, http.MethodPut, "/trip/efficiency", `{"value":"1e-10"}`).Code)
	require.Equal(t, http.StatusCreated, send(t, h, http.MethodPost, "/trip/segments", `{"distanceKm":"80"}`).Code)

	rec := send(t, h, http.MethodGet, "/trip", "")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeCalculation(t, rec)
	require.NotNil(t, resp.UnitPrice)
	assert.Equal(t, calc.MaxMagnitude, *resp.UnitPrice)
	assert.NotContains(t, resp.Result.View.PerKm, "Inf")
	assert.NotContains(t, resp.Result.View.Total, "Inf")
	assert.False(t, math.IsInf(resp.Result.CostPerKm, 0))
}

func TestExtremeOdometers_SegmentIsSaved(t *testing.T) {
	h := newServiceHandler()

	rec := send(t, h, http.MethodPost, "/trip/segments",
		`{"startOdometer":"-1e308","endOdometer":"1e308","commit":true}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decodeCalculation(t, rec)
	assert.Equal(t, 2*calc.MaxMagnitude, resp.Result.TotalDistanceKm)

	rec = send(t, h, http.MethodGet, "/trip", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2*calc.MaxMagnitude, decodeCalculation(t, rec).Result.TotalDistanceKm)
}

func TestWriteJSON_UnencodableBodyIs500(t *testing.T) {
	svc := &mockTripServicer{
		current: func(_ context.Context) (domain.Calculation, error) {
			c := calculationFixture()
			c.Result.CostPerKm = math.Inf(1)
			return c, nil
		},
	}

	rec := send(t, newHTTPHandler(svc), http.MethodGet, "/trip", "")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal_error", decodeError(t, rec).Error.Code)
}
