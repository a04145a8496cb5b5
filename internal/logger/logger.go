// Package logger はJSON構造化ログ出力の初期化を提供する。
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Setup は指定レベルのJSON構造化ログ出力のslog.Loggerを生成して返す。
func Setup(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}

// SetupDefault はJSON構造化ログ出力をグローバルロガーとして設定する。
// writerが指定された場合はそのwriterに出力する。
// CLIのコマンド出力（標準出力）と混ざらないよう、既定ではos.Stderrに出力する。
func SetupDefault(w io.Writer, level slog.Level) {
	if w == nil {
		w = os.Stderr
	}
	logger := Setup(w, level)
	slog.SetDefault(logger)
}
