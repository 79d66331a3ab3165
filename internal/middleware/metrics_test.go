package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/gas-calc/internal/middleware"
)

type observed struct {
	method, route string
	status        int
}

// recordingObserver is a test double for middleware.RequestObserver.
type recordingObserver struct {
	got []observed
}

func (o *recordingObserver) ObserveRequest(method, route string, status int, _ time.Duration) {
	o.got = append(o.got, observed{method, route, status})
}

// TestMetricsHandler_usesRoutePattern verifies that requests are labelled with
// the chi pattern, not the concrete path.
func TestMetricsHandler_usesRoutePattern(t *testing.T) {
	obs := &recordingObserver{}
	r := chi.NewRouter()
	r.Use(middleware.NewMetricsHandler(obs))
	r.Patch("/trip/segments/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/trip", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{}"))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPatch, "/trip/segments/abc", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/trip", nil))

	require.Len(t, obs.got, 2)
	assert.Equal(t, observed{http.MethodPatch, "/trip/segments/{id}", http.StatusNotFound}, obs.got[0])
	assert.Equal(t, observed{http.MethodGet, "/trip", http.StatusOK}, obs.got[1])
}

// TestMetricsHandler_unmatched verifies that unknown paths share one label.
func TestMetricsHandler_unmatched(t *testing.T) {
	obs := &recordingObserver{}
	r := chi.NewRouter()
	r.Use(middleware.NewMetricsHandler(obs))
	r.Get("/trip", func(w http.ResponseWriter, _ *http.Request) {})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope/123", nil))

	require.Len(t, obs.got, 1)
	assert.Equal(t, "unmatched", obs.got[0].route)
	assert.Equal(t, http.StatusNotFound, obs.got[0].status)
}
