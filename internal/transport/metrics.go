package transport

import (
	"net/http"
	"time"
)

// RequestRecorder はリクエストメトリクスの記録に必要なインターフェース。
// metrics.Collectorの部分集合として定義する。
type RequestRecorder interface {
	RecordRequest(method string, statusCode int)
	RecordRequestLatency(d time.Duration)
	RecordTransportFailure()
}

// MetricsTransport は送信リクエストの件数とレイテンシを記録するRoundTripper。
type MetricsTransport struct {
	recorder RequestRecorder
	next     http.RoundTripper
}

// NewMetricsTransport はMetricsTransportの新しいインスタンスを生成する。
// nextがnilの場合はhttp.DefaultTransportを使用する。
func NewMetricsTransport(recorder RequestRecorder, next http.RoundTripper) *MetricsTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &MetricsTransport{recorder: recorder, next: next}
}

// RoundTrip はリクエストを送信し、結果をメトリクスに記録する。
func (t *MetricsTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := t.next.RoundTrip(req)

	t.recorder.RecordRequestLatency(time.Since(start))
	if err != nil {
		t.recorder.RecordTransportFailure()
		return nil, err
	}
	t.recorder.RecordRequest(req.Method, resp.StatusCode)

	return resp, nil
}
