package transport

import (
	"log/slog"
	"net/http"
	"time"
)

// LoggingTransport はリクエストのJSON構造化ログを出力するRoundTripper。
// ログにはmethod、path、status、duration_msを含む。
type LoggingTransport struct {
	logger *slog.Logger
	next   http.RoundTripper
}

// NewLoggingTransport はLoggingTransportの新しいインスタンスを生成する。
// nextがnilの場合はhttp.DefaultTransportを使用する。
func NewLoggingTransport(logger *slog.Logger, next http.RoundTripper) *LoggingTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &LoggingTransport{logger: logger, next: next}
}

// RoundTrip はリクエストを送信し、結果を構造化ログに記録する。
func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := t.next.RoundTrip(req)

	duration := time.Since(start)
	durationMs := float64(duration.Nanoseconds()) / float64(time.Millisecond)

	if err != nil {
		t.logger.Error("http_request",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.Float64("duration_ms", durationMs),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	// slogのログレベルをステータスコードに応じて変更
	level := slog.LevelInfo
	if resp.StatusCode >= 500 {
		level = slog.LevelError
	} else if resp.StatusCode >= 400 {
		level = slog.LevelWarn
	}

	t.logger.Log(req.Context(), level, "http_request",
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.Int("status", resp.StatusCode),
		slog.Float64("duration_ms", durationMs),
	)

	return resp, nil
}
