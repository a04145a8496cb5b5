package transport

import (
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimitTransport は送信リクエストのレートを制限するRoundTripper。
// バックエンドのユーザー単位レート制限を超えないよう、クライアント側で
// 送信を平滑化する。上限に達した場合は送信前にブロックし、コンテキストの
// キャンセルで待機を中断できる。
type RateLimitTransport struct {
	limiter *rate.Limiter
	next    http.RoundTripper
}

// NewRateLimitTransport は毎分perMinuteリクエストを上限とする
// RateLimitTransportを生成する。バーストはperMinuteまで許容する。
// nextがnilの場合はhttp.DefaultTransportを使用する。
func NewRateLimitTransport(perMinute int, next http.RoundTripper) *RateLimitTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &RateLimitTransport{
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute),
		next:    next,
	}
}

// RoundTrip はレート制限の許可を待ってからリクエストを送信する。
func (t *RateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.next.RoundTrip(req)
}
