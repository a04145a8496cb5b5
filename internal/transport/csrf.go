// Package transport はAPIクライアントの送信パイプラインを提供する。
//
// サーバー側のミドルウェアチェーンに相当するものをhttp.RoundTripperの
// 合成として実装する。CSRFトークン付与、リクエストID付与、レート制限、
// メトリクス記録、構造化ログの各層からなる。
package transport

import (
	"net/http"
	"net/url"
	"sync"
)

const (
	// csrfCookieName はバックエンドが設定するCSRFトークンCookieの名前。
	csrfCookieName = "XSRF-TOKEN"

	// csrfHeaderName は状態変更リクエストに付与するCSRFトークンヘッダーの名前。
	// バックエンドはローテーションしたトークンを同名のレスポンスヘッダーで配布する。
	csrfHeaderName = "X-XSRF-TOKEN"
)

// TokenCache はプロセス内で共有するCSRFトークンのキャッシュ。
// モジュールレベルのグローバル変数ではなく、クライアントごとに注入して使う。
// 保持するトークンは常に最大1つで、有効期限は管理しない。
// 陳腐化はリクエストの拒否（403）によってのみ発覚する。
type TokenCache struct {
	mu    sync.Mutex
	token string
}

// NewTokenCache は空のTokenCacheを生成する。
func NewTokenCache() *TokenCache {
	return &TokenCache{}
}

// Get はキャッシュ中のトークンを返す。未保持の場合は空文字を返す。
func (c *TokenCache) Get() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Set はトークンを置き換える。
func (c *TokenCache) Set(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Clear はトークンを破棄する。ログアウト時に呼ぶ。
func (c *TokenCache) Clear() {
	c.Set("")
}

// RotationRecorder はトークンローテーションの記録に必要なインターフェース。
// metrics.Collectorの部分集合として定義する。
type RotationRecorder interface {
	RecordCSRFRotation()
}

// CSRFTransport は状態変更リクエスト（POST, PUT, PATCH, DELETE）に
// CSRFトークンヘッダーを付与し、全レスポンスからローテーションされた
// トークンを取り込むRoundTripper。
//
// トークンの取得元は2系統あるが優先順位を固定している:
// レスポンスヘッダー経由の配布が正で、Cookie読み取りはキャッシュが
// 空の場合のブートストラップに限る。クロスオリジン構成のバックエンドを
// 前提とした選択であり、ローテーション後にどちらの値が正か曖昧になる
// 二重管理を避ける。
type CSRFTransport struct {
	cache    *TokenCache
	jar      http.CookieJar // ブートストラップ読み取り元。nil可
	recorder RotationRecorder
	next     http.RoundTripper
}

// NewCSRFTransport はCSRFTransportの新しいインスタンスを生成する。
// nextがnilの場合はhttp.DefaultTransportを使用する。recorderはnilでもよい。
func NewCSRFTransport(cache *TokenCache, jar http.CookieJar, recorder RotationRecorder, next http.RoundTripper) *CSRFTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &CSRFTransport{cache: cache, jar: jar, recorder: recorder, next: next}
}

// RoundTrip は状態変更リクエストにトークンを付与して送信する。
// トークンが見つからない場合もそのまま送信する。拒否の判断は
// バックエンドに委ね、403としてエラーインターセプターが処理する。
func (t *CSRFTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if isMutating(req.Method) {
		token := t.cache.Get()
		if token == "" {
			if token = t.tokenFromCookie(req.URL); token != "" {
				t.cache.Set(token)
			}
		}
		if token != "" {
			// RoundTripperは受け取ったリクエストを変更してはならない
			req = req.Clone(req.Context())
			req.Header.Set(csrfHeaderName, token)
		}
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	// ヘッダー経由の配布がローテーション伝搬の唯一の経路
	if rotated := resp.Header.Get(csrfHeaderName); rotated != "" && rotated != t.cache.Get() {
		t.cache.Set(rotated)
		if t.recorder != nil {
			t.recorder.RecordCSRFRotation()
		}
	}

	return resp, nil
}

// tokenFromCookie はCookieJarからCSRFトークンCookieを読み取る。
func (t *CSRFTransport) tokenFromCookie(u *url.URL) string {
	if t.jar == nil {
		return ""
	}
	for _, c := range t.jar.Cookies(u) {
		if c.Name == csrfCookieName {
			return c.Value
		}
	}
	return ""
}

// isMutating はHTTPメソッドが状態変更（CSRFトークン必須）かどうかを判定する。
func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}
