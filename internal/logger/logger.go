// Package logger はJSON構造化ログの初期化を提供する。
package logger

import (
	"io"
	"log/slog"
	"os"
)

// New は指定レベル以上を出力するJSON構造化ログのslog.Loggerを生成して返す。
func New(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}

// SetupDefault はINFOレベルのJSON構造化ログをグローバルロガーとして設定し、
// そのロガーを返す。wがnilの場合はos.Stdoutに出力する。
func SetupDefault(w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	logger := New(w, slog.LevelInfo)
	slog.SetDefault(logger)
	return logger
}
