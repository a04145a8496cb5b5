package transport

import (
	"net/http"

	"github.com/google/uuid"
)

// requestIDHeader はリクエスト相関IDを運ぶヘッダーの名前。
const requestIDHeader = "X-Request-ID"

// RequestIDTransport は各リクエストにUUIDの相関IDヘッダーを付与するRoundTripper。
// サーバー側ログとの突き合わせに使う。既にIDが設定されている場合は付与しない。
type RequestIDTransport struct {
	next http.RoundTripper
}

// NewRequestIDTransport はRequestIDTransportの新しいインスタンスを生成する。
// nextがnilの場合はhttp.DefaultTransportを使用する。
func NewRequestIDTransport(next http.RoundTripper) *RequestIDTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &RequestIDTransport{next: next}
}

// RoundTrip は相関IDを付与してリクエストを送信する。
func (t *RequestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(requestIDHeader) == "" {
		req = req.Clone(req.Context())
		req.Header.Set(requestIDHeader, uuid.NewString())
	}
	return t.next.RoundTrip(req)
}
