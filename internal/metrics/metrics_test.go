package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHandlerExposesVendorCounters(t *testing.T) {
	m := New()
	m.ObserveVendor("search/multi", 200, 20*time.Millisecond)
	m.ObserveVendor("search/multi", 0, time.Second)
	m.ObserveHTTP("/", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	text := string(body)
	for _, want := range []string{
		`katch_vendor_requests_total{endpoint="search/multi",status="200"} 1`,
		`katch_vendor_requests_total{endpoint="search/multi",status="error"} 1`,
		`katch_http_requests_total{code="200",route="/"} 1`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveVendor("trending/all/week", 200, time.Millisecond)
	m.ObserveHTTP("/", 200, time.Millisecond)
}
