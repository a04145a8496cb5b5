package transport

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"
)

// baseTransport は末端で受信したリクエストを記録するRoundTripper。
type baseTransport struct {
	lastReq *http.Request
}

func (t *baseTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.lastReq = req
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader("")),
		Request:    req,
	}, nil
}

func TestNew_MutatingRequest_PassesThroughAllLayers(t *testing.T) {
	cache := NewTokenCache()
	cache.Set("chained-token")
	base := &baseTransport{}
	var logBuf bytes.Buffer

	rt := New(Options{
		Cache:         cache,
		Logger:        slog.New(slog.NewJSONHandler(&logBuf, nil)),
		RatePerMinute: 600,
		Base:          base,
	})

	req, err := http.NewRequest(http.MethodPost, "https://api.example.com/api/projects/1/status", nil)
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}
	resp, err := rt.RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip failed: %v", err)
	}
	defer resp.Body.Close()

	if got := base.lastReq.Header.Get(csrfHeaderName); got != "chained-token" {
		t.Errorf("CSRF header = %q, want chained-token", got)
	}
	if base.lastReq.Header.Get(requestIDHeader) == "" {
		t.Error("request ID header not set by chain")
	}
	if !bytes.Contains(logBuf.Bytes(), []byte("http_request")) {
		t.Errorf("logging layer did not emit http_request, log: %q", logBuf.String())
	}
}

func TestNew_ZeroRate_SkipsRateLimiting(t *testing.T) {
	cache := NewTokenCache()
	base := &baseTransport{}
	rt := New(Options{Cache: cache, Base: base})

	// レート制限層がない場合は連続送信してもブロックしない。
	for i := 0; i < 50; i++ {
		req, err := http.NewRequest(http.MethodGet, "https://api.example.com/api/auth/user", nil)
		if err != nil {
			t.Fatalf("NewRequest failed: %v", err)
		}
		resp, err := rt.RoundTrip(req)
		if err != nil {
			t.Fatalf("RoundTrip %d failed: %v", i, err)
		}
		resp.Body.Close()
	}
}

func TestRateLimitTransport_CancelledContext_AbortsWait(t *testing.T) {
	base := &baseTransport{}
	// バースト1の制限を使い切ってから、キャンセル済みコンテキストで待機させる。
	rt := NewRateLimitTransport(1, base)
	rt.limiter.SetBurst(1)

	first, err := http.NewRequest(http.MethodGet, "https://api.example.com/api/auth/user", nil)
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}
	resp, err := rt.RoundTrip(first)
	if err != nil {
		t.Fatalf("first RoundTrip failed: %v", err)
	}
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	second, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://api.example.com/api/auth/user", nil)
	if err != nil {
		t.Fatalf("NewRequestWithContext failed: %v", err)
	}
	if _, err := rt.RoundTrip(second); err == nil {
		t.Error("expected error when context expires while waiting for rate limiter")
	}
}

func TestLoggingTransport_ServerError_LogsAtErrorLevel(t *testing.T) {
	var logBuf bytes.Buffer
	base := &statusTransport{status: http.StatusInternalServerError}
	rt := NewLoggingTransport(slog.New(slog.NewJSONHandler(&logBuf, nil)), base)

	req, err := http.NewRequest(http.MethodGet, "https://api.example.com/api/projects/global", nil)
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}
	resp, err := rt.RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip failed: %v", err)
	}
	resp.Body.Close()

	if !bytes.Contains(logBuf.Bytes(), []byte(`"level":"ERROR"`)) {
		t.Errorf("expected ERROR level log for 500 response, got %q", logBuf.String())
	}
}

// statusTransport は固定ステータスのレスポンスを返すRoundTripper。
type statusTransport struct {
	status int
}

func (t *statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return &http.Response{
		StatusCode: t.status,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader("")),
		Request:    req,
	}, nil
}
