// Package model はドメインモデルを定義する。
package model

import (
	"fmt"
	"net/http"
)

// ErrorCategory はAPI呼び出しの失敗の分類を表す。
type ErrorCategory string

const (
	// CategoryTransport はレスポンスが得られなかったネットワーク障害。
	CategoryTransport ErrorCategory = "transport"
	// CategoryAuth は認証失敗（401）。セッションが無効とみなされる。
	CategoryAuth ErrorCategory = "auth"
	// CategoryNotFound はリソース未検出（404）。
	CategoryNotFound ErrorCategory = "not_found"
	// CategoryClient はその他のクライアントエラー（400〜499）。
	CategoryClient ErrorCategory = "client"
	// CategoryServer はサーバー内部エラー（500以上）。
	CategoryServer ErrorCategory = "server"
)

// APIError はバックエンドAPI呼び出しの失敗を表す統一エラー。
// エラーインターセプターはこの分類に従って通知とセッション失効を行う。
type APIError struct {
	StatusCode int           // HTTPステータスコード。ネットワーク障害の場合は0
	Detail     string        // サーバーが返した人間可読の詳細メッセージ（存在する場合）
	Category   ErrorCategory // 障害の分類
	Err        error         // ネットワーク障害時の元エラー
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	if e.Category == CategoryTransport {
		return fmt.Sprintf("[transport] %v", e.Err)
	}
	if e.Detail != "" {
		return fmt.Sprintf("[%d] %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("[%d] %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Unwrap はネットワーク障害時の元エラーを返す。
func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError はHTTPステータスコードと詳細メッセージからAPIErrorを生成する。
func NewAPIError(statusCode int, detail string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Detail:     detail,
		Category:   categoryForStatus(statusCode),
	}
}

// NewTransportError はレスポンスが得られなかった障害のAPIErrorを生成する。
func NewTransportError(err error) *APIError {
	return &APIError{
		Category: CategoryTransport,
		Err:      err,
	}
}

// categoryForStatus はHTTPステータスコードをエラー分類に対応付ける。
func categoryForStatus(code int) ErrorCategory {
	switch {
	case code == http.StatusUnauthorized:
		return CategoryAuth
	case code == http.StatusNotFound:
		return CategoryNotFound
	case code >= 400 && code < 500:
		return CategoryClient
	default:
		return CategoryServer
	}
}
