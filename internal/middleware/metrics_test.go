package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prime-studio/studio-backend/internal/metrics"
	"github.com/prime-studio/studio-backend/internal/middleware"
)

func TestMetricsLabelsRouteTemplate(t *testing.T) {
	router := mux.NewRouter()
	router.Use(middleware.Metrics)
	router.HandleFunc("/api/v1/profiles/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	ids := []string{
		"11111111-1111-4111-8111-111111111111",
		"22222222-2222-4222-9222-222222222222",
		"33333333-3333-4333-a333-333333333333",
	}
	for _, id := range ids {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/profiles/"+id, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	// All three requests land on the template series, not one series per id.
	template := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/profiles/{id}", "200")
	assert.Equal(t, float64(len(ids)), testutil.ToFloat64(template))

	for _, id := range ids {
		raw := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/profiles/"+id, "200")
		assert.Zero(t, testutil.ToFloat64(raw))
	}
}
