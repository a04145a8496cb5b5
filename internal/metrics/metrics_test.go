package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestCollector_RecordRequest_ExposesCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequest(http.MethodGet, http.StatusOK)
	c.RecordRequest(http.MethodPost, http.StatusForbidden)
	c.RecordRequestLatency(120 * time.Millisecond)
	c.RecordTransportFailure()
	c.RecordCSRFRotation()
	c.RecordNotification("error")
	c.RecordAuthTransition("authenticated")

	handler := Handler(reg)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, _ := io.ReadAll(resp.Body)
	bodyStr := string(body)

	wantMetrics := []string{
		"projectmatch_client_requests_total",
		"projectmatch_client_request_latency_seconds",
		"projectmatch_client_transport_failures_total",
		"projectmatch_client_csrf_rotations_total",
		"projectmatch_client_notifications_total",
		"projectmatch_client_auth_transitions_total",
	}
	for _, name := range wantMetrics {
		if !strings.Contains(bodyStr, name) {
			t.Errorf("response should contain %s metric", name)
		}
	}
}

func TestStatusClass_GroupsByHundreds(t *testing.T) {
	cases := []struct {
		status int
		want   string
	}{
		{http.StatusOK, "2xx"},
		{http.StatusNoContent, "2xx"},
		{http.StatusMovedPermanently, "3xx"},
		{http.StatusUnauthorized, "4xx"},
		{http.StatusInternalServerError, "5xx"},
	}

	for _, tc := range cases {
		if got := statusClass(tc.status); got != tc.want {
			t.Errorf("statusClass(%d) = %q, want %q", tc.status, got, tc.want)
		}
	}
}
