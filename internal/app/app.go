// Package app はCLIのエントリーポイントと依存関係のワイヤリングを提供する。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/projectmatch/internal/api"
	"github.com/hitoshi/projectmatch/internal/auth"
	"github.com/hitoshi/projectmatch/internal/config"
	"github.com/hitoshi/projectmatch/internal/logger"
	"github.com/hitoshi/projectmatch/internal/metrics"
	"github.com/hitoshi/projectmatch/internal/nav"
	"github.com/hitoshi/projectmatch/internal/notify"
	"github.com/hitoshi/projectmatch/internal/stub"
	"github.com/hitoshi/projectmatch/internal/transport"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// ログはstderrへ出力し、stdoutはコマンドの結果出力専用とする。
func Init() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.SetupDefault(os.Stderr, cfg.LogLevel)
	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するコマンドを実行する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// help は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHelp {
		printUsage(w)
		return nil
	}

	cfg, err := Init()
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("api_base_url", cfg.APIBaseURL),
	)

	if cmd == CommandServeStub {
		return runServeStub(cfg, args[1:])
	}

	env, err := buildEnv(cfg)
	if err != nil {
		return fmt.Errorf("wiring failed: %w", err)
	}
	defer env.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout*4)
	defer cancel()

	switch cmd {
	case CommandLogin:
		return env.runLogin(ctx, w, args[1:])
	case CommandLogout:
		return env.runLogout(ctx, w)
	case CommandWhoami:
		return env.runWhoami(ctx, w)
	case CommandRegister:
		return env.runRegister(ctx, w, args[1:])
	case CommandProjects:
		return env.runProjects(ctx, w, args[1:])
	case CommandProject:
		return env.runProject(ctx, w, args[1:])
	case CommandEvents:
		return env.runEvents(ctx, w, args[1:])
	case CommandSetStatus:
		return env.runSetStatus(ctx, w, args[1:])
	case CommandPublishAll:
		return env.runPublishAll(ctx, w, args[1:])
	default:
		printUsage(w)
		return nil
	}
}

// env はコマンド実行に必要な依存関係一式。
type env struct {
	cfg      *config.Config
	cache    *transport.TokenCache
	jar      http.CookieJar
	tracker  *nav.Tracker
	notifier notify.Notifier
	client   *api.Client
	store    *auth.Store
}

// buildEnv は全依存関係をワイヤリングする。
//
// 構成順序:
//
//	TokenCache/CookieJar → メトリクス → 通知 → インターセプター →
//	トランスポートチェーン → APIクライアント → 認証ストア
//
// 認証ストアはAPIクライアントに依存するため、インターセプターへの
// バインドは最後に行う。起動時に保存済みセッションを復元する。
func buildEnv(cfg *config.Config) (*env, error) {
	cache := transport.NewTokenCache()
	jar, err := transport.NewCookieJar()
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	if err := restoreSession(jar, cache, cfg.APIBaseURL); err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)
	if cfg.MetricsPort != "" {
		go func() {
			addr := ":" + cfg.MetricsPort
			slog.Info("metrics server starting", slog.String("addr", addr))
			if err := http.ListenAndServe(addr, metrics.Handler(reg)); err != nil {
				slog.Error("metrics server error", slog.String("error", err.Error()))
			}
		}()
	}

	notifier := notify.NewLogNotifier(slog.Default(), collector)
	tracker := nav.NewTracker(slog.Default())
	interceptor := api.NewErrorInterceptor(notifier, tracker)

	httpClient := &http.Client{
		Jar:     jar,
		Timeout: cfg.HTTPTimeout,
		Transport: transport.New(transport.Options{
			Cache:         cache,
			Jar:           jar,
			Logger:        slog.Default(),
			Metrics:       collector,
			RatePerMinute: cfg.RateLimitGeneral,
		}),
	}

	client := api.New(api.Config{
		BaseURL:     cfg.APIBaseURL,
		HTTPClient:  httpClient,
		Interceptor: interceptor,
	})

	store := auth.NewStore(client, tracker, cache, collector, slog.Default())
	interceptor.BindSessions(store)

	return &env{
		cfg:      cfg,
		cache:    cache,
		jar:      jar,
		tracker:  tracker,
		notifier: notifier,
		client:   client,
		store:    store,
	}, nil
}

// Close は依存関係を解放する。
func (e *env) Close() {
	e.store.Close()
}

// runServeStub は開発用スタブバックエンドを起動する。
// デモデータを投入し、SIGINTまたはSIGTERMでグレースフルシャットダウンする。
func runServeStub(cfg *config.Config, args []string) error {
	port := "8080"
	if len(args) > 0 {
		port = args[0]
	}

	server := stub.NewServer()
	server.SeedDemo()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      server.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("stub backend starting", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down stub backend...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("stub backend stopped gracefully")
	return nil
}

// printUsage は使い方を表示する。
func printUsage(w io.Writer) {
	fmt.Fprintln(w, `Usage: projectmatch <command> [options]

Commands:
  login -email <email> -password <password>   ログインしてセッションを保存する
  logout                                      セッションを破棄する
  whoami                                      現在のユーザーを表示する
  register -email <email> -password <pw> ...  新規ユーザーを登録する
  projects [options]                          プロジェクト一覧を表示する
  project <id>                                プロジェクトの詳細を表示する
  events <id>                                 プロジェクトの履歴を表示する
  set-status <id> <status> [-yes]             ステータスを変更する
  publish-all -assignment <id>                承認済みプロジェクトを一括公開する
  serve-stub [port]                           開発用スタブバックエンドを起動する`)
}
