package transport

import (
	"log/slog"
	"net/http"
	"net/http/cookiejar"

	"golang.org/x/net/publicsuffix"
)

// Options はトランスポートチェーンの構成要素。
// nilまたはゼロ値のフィールドに対応する層は省略される（Cacheを除く）。
type Options struct {
	Cache         *TokenCache       // CSRFトークンキャッシュ（必須）
	Jar           http.CookieJar    // CSRFブートストラップ読み取り元
	Logger        *slog.Logger      // リクエストログの出力先
	Metrics       RequestRecorder   // リクエストメトリクス。RotationRecorderを併せて実装していればローテーションも記録する
	RatePerMinute int               // 0以下の場合はレート制限を行わない
	Base          http.RoundTripper // 実送信。nilの場合はhttp.DefaultTransport
}

// New はトランスポートチェーンを構成したRoundTripperを返す。
//
// 層の適用順序（外側から内側へ）:
//
//	CSRF付与 → リクエストID付与 → レート制限 → メトリクス → ログ → 実送信
//
// CSRF層を最外周に置くことで、全レスポンスのローテーション取り込みが
// 他の層の結果に依存しない。
func New(opts Options) http.RoundTripper {
	rt := opts.Base
	if rt == nil {
		rt = http.DefaultTransport
	}

	if opts.Logger != nil {
		rt = NewLoggingTransport(opts.Logger, rt)
	}
	if opts.Metrics != nil {
		rt = NewMetricsTransport(opts.Metrics, rt)
	}
	if opts.RatePerMinute > 0 {
		rt = NewRateLimitTransport(opts.RatePerMinute, rt)
	}
	rt = NewRequestIDTransport(rt)

	var rotations RotationRecorder
	if r, ok := opts.Metrics.(RotationRecorder); ok {
		rotations = r
	}
	return NewCSRFTransport(opts.Cache, opts.Jar, rotations, rt)
}

// NewCookieJar はセッションCookie保持用のCookieJarを生成する。
// publicsuffixリストによりドメインを越えたCookie設定を防ぐ。
func NewCookieJar() (http.CookieJar, error) {
	return cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
}
