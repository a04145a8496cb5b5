package transport

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestRequestIDTransport_SetsUUIDHeader(t *testing.T) {
	next := &captureTransport{}
	rt := NewRequestIDTransport(next)

	req := httptest.NewRequest(http.MethodGet, "https://api.example.com/api/test", nil)
	if _, err := rt.RoundTrip(req); err != nil {
		t.Fatalf("RoundTrip() error = %v", err)
	}

	got := next.lastReq.Header.Get(requestIDHeader)
	if got == "" {
		t.Fatal("expected request ID header to be set")
	}
	if _, err := uuid.Parse(got); err != nil {
		t.Errorf("request ID %q is not a valid UUID: %v", got, err)
	}
}

func TestRequestIDTransport_ExistingID_IsPreserved(t *testing.T) {
	next := &captureTransport{}
	rt := NewRequestIDTransport(next)

	req := httptest.NewRequest(http.MethodGet, "https://api.example.com/api/test", nil)
	req.Header.Set(requestIDHeader, "preset-id")
	if _, err := rt.RoundTrip(req); err != nil {
		t.Fatalf("RoundTrip() error = %v", err)
	}

	if got := next.lastReq.Header.Get(requestIDHeader); got != "preset-id" {
		t.Errorf("%s = %q, want %q", requestIDHeader, got, "preset-id")
	}
}
