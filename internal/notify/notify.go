// Package notify はユーザー向けの一過性通知（トースト相当）の抽象を提供する。
//
// 各コンポーネントは具体的な表示機構ではなくNotifierという能力に依存する。
// 通知はファイアアンドフォーゲットであり、確認応答も配送保証もない。
package notify

import (
	"context"
	"log/slog"
)

// Severity は通知の重要度を表す。
type Severity string

const (
	// SeveritySuccess は操作成功の通知。
	SeveritySuccess Severity = "success"
	// SeverityInfo は補足情報の通知。
	SeverityInfo Severity = "info"
	// SeverityError は失敗の通知。
	SeverityError Severity = "error"
)

// Notifier はユーザー向け通知のシンク。
type Notifier interface {
	// Show は通知を表示する。副作用のみで戻り値を持たない。
	Show(severity Severity, message string)
}

// Recorder は通知メトリクスの記録に必要なインターフェース。
// metrics.Collectorの部分集合として定義する。
type Recorder interface {
	RecordNotification(severity string)
}

// LogNotifier は通知をslogに書き出すNotifier実装。
// CLIでは標準エラーへの構造化ログが通知の表示先となる。
type LogNotifier struct {
	logger   *slog.Logger
	recorder Recorder // nil可
}

// NewLogNotifier はLogNotifierの新しいインスタンスを生成する。
// recorderはnilでもよい。
func NewLogNotifier(logger *slog.Logger, recorder Recorder) *LogNotifier {
	return &LogNotifier{logger: logger, recorder: recorder}
}

// Show は通知を構造化ログとして出力し、メトリクスを記録する。
func (n *LogNotifier) Show(severity Severity, message string) {
	level := slog.LevelInfo
	if severity == SeverityError {
		level = slog.LevelWarn
	}
	n.logger.Log(context.Background(), level, "notification",
		slog.String("severity", string(severity)),
		slog.String("message", message),
	)
	if n.recorder != nil {
		n.recorder.RecordNotification(string(severity))
	}
}
