// Package nav は現在の画面位置の追跡を提供する。
//
// ブラウザ環境のルーターに相当する最小限の機能で、エラーインターセプターの
// パス判定と認証ストアの画面遷移副作用が依存する。
package nav

import (
	"log/slog"
	"sync"
)

// Tracker は現在のパスを保持し、遷移を構造化ログに記録する。
type Tracker struct {
	mu     sync.RWMutex
	path   string
	logger *slog.Logger
}

// NewTracker はルートパス("/")を現在位置とするTrackerを生成する。
func NewTracker(logger *slog.Logger) *Tracker {
	return &Tracker{path: "/", logger: logger}
}

// CurrentPath は現在のパスを返す。
func (t *Tracker) CurrentPath() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.path
}

// NavigateTo は現在のパスを置き換える。
func (t *Tracker) NavigateTo(path string) {
	t.mu.Lock()
	t.path = path
	t.mu.Unlock()
	t.logger.Info("navigate", slog.String("path", path))
}
