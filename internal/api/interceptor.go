package api

import (
	"net/http"
	"strings"

	"github.com/hitoshi/projectmatch/internal/model"
	"github.com/hitoshi/projectmatch/internal/notify"
)

// SessionInvalidator はセッション失効時の強制ログアウトに必要なインターフェース。
// auth.Storeの部分集合として定義する。
type SessionInvalidator interface {
	ForceLogout()
}

// Navigator は現在のパス取得の能力を表す。nav.Trackerの部分集合。
type Navigator interface {
	CurrentPath() string
}

// publicPathPrefixes は401を受けてもセッション失効処理を行わないパスの接頭辞。
// ログイン画面等の公開ページでのリダイレクトループを避ける。
var publicPathPrefixes = []string{"/login", "/register", "/guest", "/verify"}

// 通知メッセージ
const (
	msgSessionExpired = "セッションの有効期限が切れました。再度ログインしてください。"
	msgNotFound       = "リソースが見つかりません。"
	msgClientError    = "リクエストを処理できませんでした。"
	msgServerError    = "問題が発生しました。しばらく待ってから再度お試しください。"
)

// ErrorInterceptor はトランスポート層の失敗をユーザー通知と
// セッション状態遷移に変換する。全レスポンスの失敗がここを通過する。
//
// エラーは必ず呼び出し元へそのまま再送出し、ここで握りつぶすことはない。
// リトライも行わない。リトライ方針は呼び出し元の責務とする。
type ErrorInterceptor struct {
	notifier notify.Notifier
	nav      Navigator
	sessions SessionInvalidator
}

// NewErrorInterceptor はErrorInterceptorの新しいインスタンスを生成する。
// セッション失効の送り先はBindSessionsで後から設定する。
func NewErrorInterceptor(notifier notify.Notifier, nav Navigator) *ErrorInterceptor {
	return &ErrorInterceptor{notifier: notifier, nav: nav}
}

// BindSessions はセッション失効の送り先を設定する。
// 認証ストアはAPIクライアントに依存して生成されるため、生成後にバインドする。
func (i *ErrorInterceptor) BindSessions(sessions SessionInvalidator) {
	i.sessions = sessions
}

// Handle は失敗を分類して通知とセッション失効を行い、受け取ったエラーを
// そのまま返す。
func (i *ErrorInterceptor) Handle(apiErr *model.APIError) error {
	switch {
	case apiErr.Category == model.CategoryTransport:
		i.notifier.Show(notify.SeverityError, msgServerError)

	case apiErr.StatusCode == http.StatusUnauthorized:
		// 公開ページでの401は通知もセッション失効も行わない
		if !isPublicPath(i.nav.CurrentPath()) {
			i.notifier.Show(notify.SeverityError, msgSessionExpired)
			if i.sessions != nil {
				i.sessions.ForceLogout()
			}
		}

	case apiErr.StatusCode == http.StatusNotFound:
		i.notifier.Show(notify.SeverityError, msgNotFound)

	case apiErr.StatusCode >= 400 && apiErr.StatusCode < 500:
		msg := apiErr.Detail
		if msg == "" {
			msg = msgClientError
		}
		i.notifier.Show(notify.SeverityError, msg)

	default:
		i.notifier.Show(notify.SeverityError, msgServerError)
	}

	return apiErr
}

// isPublicPath はパスが公開ページの接頭辞に一致するかを判定する。
func isPublicPath(path string) bool {
	for _, prefix := range publicPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
