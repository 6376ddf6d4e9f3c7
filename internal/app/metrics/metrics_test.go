package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCanonicalPath(t *testing.T) {
	tests := map[string]string{
		"":                        "/",
		"/":                       "/",
		"/api/questions/42":       "/api/questions/:id",
		"/api/session-questions/": "/api/session-questions",
		"/api/users/17/quota":     "/api/users/:id/quota",
		"/api/plans/free":         "/api/plans/free",
	}
	for in, want := range tests {
		if got := canonicalPath(in); got != want {
			t.Errorf("canonicalPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRecordLookup(t *testing.T) {
	before := testutil.ToFloat64(lookups.WithLabelValues(OutcomeNotFound))
	RecordLookup(OutcomeNotFound, time.Millisecond)
	after := testutil.ToFloat64(lookups.WithLabelValues(OutcomeNotFound))
	if after != before+1 {
		t.Fatalf("expected counter to increase by one, got %v -> %v", before, after)
	}
}

func TestInstrumentHandlerAndExposition(t *testing.T) {
	h := InstrumentHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/questions/5", nil))

	resp := httptest.NewRecorder()
	Handler().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `neetprep_http_requests_total{method="GET",path="/api/questions/:id",status="418"}`) {
		t.Fatalf("expected request counter in exposition")
	}
}
