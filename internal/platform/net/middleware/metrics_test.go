package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"lorebook/internal/platform/metrics"
	"lorebook/internal/platform/net/middleware"
)

func TestMetrics_LabelsByRoutePattern(t *testing.T) {
	m := chi.NewRouter()
	m.Use(middleware.Metrics())
	m.Get("/metrics-test/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, id := range []string{"a", "b"} {
		rr := httptest.NewRecorder()
		m.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics-test/"+id, nil))
	}

	got := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/metrics-test/{id}", "418"))
	if got != 2 {
		t.Fatalf("requests = %v want 2", got)
	}
}
