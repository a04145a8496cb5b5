// Package config は環境変数からのアプリケーション設定の読み込みを提供する。
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// API
	APIBaseURL      string
	FrontendBaseURL string
	HTTPTimeout     time.Duration

	// Rate Limit
	RateLimitGeneral int // 送信リクエストの上限（req/min）。バックエンドのユーザー単位制限に合わせる

	// Metrics
	MetricsPort string // 空文字の場合はメトリクスを公開しない

	// Logging
	LogLevel slog.Level
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.APIBaseURL = os.Getenv("API_BASE_URL")
	if cfg.APIBaseURL == "" {
		missing = append(missing, "API_BASE_URL")
	}

	cfg.FrontendBaseURL = os.Getenv("FRONTEND_BASE_URL")
	if cfg.FrontendBaseURL == "" {
		missing = append(missing, "FRONTEND_BASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	if _, err := url.Parse(cfg.APIBaseURL); err != nil {
		return nil, fmt.Errorf("invalid API_BASE_URL: %w", err)
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	// Optional fields with defaults
	cfg.HTTPTimeout = getEnvDuration("HTTP_TIMEOUT", 15*time.Second)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.MetricsPort = getEnvString("METRICS_PORT", "")
	cfg.LogLevel = parseLogLevel(getEnvString("LOG_LEVEL", "info"))

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

// parseLogLevel はログレベル文字列をslog.Levelに変換する。
// 不明な値はinfoとして扱う。
func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
