package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordResolution(t *testing.T) {
	before := testutil.ToFloat64(CatalogResolutions.WithLabelValues("actors", "get", "ok"))
	RecordResolution("actors", "get", "ok")
	RecordResolution("actors", "get", "ok")
	after := testutil.ToFloat64(CatalogResolutions.WithLabelValues("actors", "get", "ok"))
	if after-before != 2 {
		t.Fatalf("delta = %v, want 2", after-before)
	}
}

func TestRecordListExcluded_IgnoresZero(t *testing.T) {
	before := testutil.ToFloat64(CatalogListExcluded.WithLabelValues("seasons"))
	RecordListExcluded("seasons", 0)
	RecordListExcluded("seasons", 3)
	after := testutil.ToFloat64(CatalogListExcluded.WithLabelValues("seasons"))
	if after-before != 3 {
		t.Fatalf("delta = %v, want 3", after-before)
	}
}

func TestRecordHTTPRequest_UnmatchedRoute(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404"))
	RecordHTTPRequest("GET", "", 404, time.Millisecond)
	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404"))
	if after-before != 1 {
		t.Fatalf("delta = %v, want 1", after-before)
	}
}

func TestHandler_ServesCollectors(t *testing.T) {
	RecordMiss("episodes", "unknown_translation")
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "lorebook_catalog_misses_total") {
		t.Fatalf("expected catalog misses in exposition")
	}
}
