package stub

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
)

const (
	// sessionCookieName はセッションIDを保持するHTTP Only Cookieの名前。
	sessionCookieName = "SESSION"

	// csrfCookieName はCSRFトークンを保持するCookieの名前。
	// フロントエンドから読み取れるよう、HttpOnlyではない。
	csrfCookieName = "XSRF-TOKEN"

	// csrfHeaderName はCSRFトークンをやり取りするヘッダー名。
	// リクエストではトークン検証に、レスポンスではローテーション通知に使う。
	csrfHeaderName = "X-XSRF-TOKEN"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userIDContextKey はリクエストコンテキストにユーザーIDを格納するためのキー。
var userIDContextKey = contextKey("user_id")

// newSessionMiddleware はセッションCookieを検証し、認証済みユーザーIDを
// リクエストコンテキストに注入するミドルウェアを返す。
// 未認証リクエストには401を返す。
func (s *Server) newSessionMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err != nil || cookie.Value == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			s.mu.Lock()
			userID, ok := s.sessions[cookie.Value]
			s.mu.Unlock()
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), userIDContextKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// newCSRFMiddleware はCSRFトークンの生成・検証ミドルウェアを返す。
// 安全なメソッド（GET, HEAD, OPTIONS）は検証をスキップし、トークンCookieが
// 未設定であれば設定する。状態変更メソッドはCookie値とヘッダー値の一致を
// 必須とする。
func newCSRFMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSafeMethod(r.Method) {
				ensureCSRFCookie(w, r)
				next.ServeHTTP(w, r)
				return
			}

			cookieToken, err := r.Cookie(csrfCookieName)
			if err != nil || cookieToken.Value == "" {
				slog.Warn("CSRF validation failed: missing cookie token",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				writeError(w, http.StatusForbidden, "CSRF token validation failed")
				return
			}

			headerToken := r.Header.Get(csrfHeaderName)
			if headerToken == "" {
				slog.Warn("CSRF validation failed: missing header token",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				writeError(w, http.StatusForbidden, "CSRF token validation failed")
				return
			}

			if cookieToken.Value != headerToken {
				slog.Warn("CSRF validation failed: token mismatch",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				writeError(w, http.StatusForbidden, "CSRF token validation failed")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isSafeMethod はHTTPメソッドが安全（読み取り専用）かどうかを判定する。
func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}

// ensureCSRFCookie はCSRFトークンCookieが未設定の場合に設定する。
func ensureCSRFCookie(w http.ResponseWriter, r *http.Request) {
	if _, err := r.Cookie(csrfCookieName); err == nil {
		return
	}
	issueCSRFToken(w)
}

// issueCSRFToken は新しいCSRFトークンを生成し、Cookieとレスポンス
// ヘッダーの両方に設定する。ログイン成功時のローテーションにも使う。
func issueCSRFToken(w http.ResponseWriter) string {
	token, err := generateToken()
	if err != nil {
		slog.Error("failed to generate CSRF token", slog.String("error", err.Error()))
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   86400, // 24時間
		HttpOnly: false, // フロントエンドから読み取り可能
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set(csrfHeaderName, token)
	return token
}

// generateToken は暗号的に安全なランダムトークンを生成する。
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// userIDFromContext はリクエストコンテキストからユーザーIDを取得する。
// セッションミドルウェアを通過したリクエストでのみ有効。
func userIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDContextKey).(int64)
	return userID, ok
}
