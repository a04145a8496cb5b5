package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/hitoshi/projectmatch/internal/transport"
)

// storedCookie はセッション保存ファイルに書き出すCookieの1件。
type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// sessionState はCLI起動をまたいでセッションを維持するための状態。
// ブラウザのCookieストアとメモリ上のCSRFキャッシュに相当する。
type sessionState struct {
	CSRFToken string         `json:"csrfToken"`
	Cookies   []storedCookie `json:"cookies"`
}

// sessionFilePath はセッション保存ファイルのパスを返す。
func sessionFilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("設定ディレクトリの取得に失敗しました: %w", err)
	}
	return filepath.Join(dir, "projectmatch", "session.json"), nil
}

// restoreSession は保存済みセッションをCookieジャーとCSRFキャッシュへ
// 復元する。保存ファイルが無い場合は何もしない。
func restoreSession(jar http.CookieJar, cache *transport.TokenCache, apiBaseURL string) error {
	path, err := sessionFilePath()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("セッションファイルの読み込みに失敗しました: %w", err)
	}

	var state sessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("セッションファイルの解析に失敗しました: %w", err)
	}

	u, err := url.Parse(apiBaseURL)
	if err != nil {
		return fmt.Errorf("invalid API base URL: %w", err)
	}

	cookies := make([]*http.Cookie, 0, len(state.Cookies))
	for _, c := range state.Cookies {
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/"})
	}
	jar.SetCookies(u, cookies)

	if state.CSRFToken != "" {
		cache.Set(state.CSRFToken)
	}
	return nil
}

// persistSession は現在のCookieジャーとCSRFキャッシュの内容を
// セッションファイルへ書き出す。ファイルは所有者のみ読み書き可能にする。
func persistSession(jar http.CookieJar, cache *transport.TokenCache, apiBaseURL string) error {
	path, err := sessionFilePath()
	if err != nil {
		return err
	}

	u, err := url.Parse(apiBaseURL)
	if err != nil {
		return fmt.Errorf("invalid API base URL: %w", err)
	}

	state := sessionState{CSRFToken: cache.Get()}
	for _, c := range jar.Cookies(u) {
		state.Cookies = append(state.Cookies, storedCookie{Name: c.Name, Value: c.Value})
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("セッションのエンコードに失敗しました: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("設定ディレクトリの作成に失敗しました: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("セッションファイルの書き込みに失敗しました: %w", err)
	}
	return nil
}

// clearSession はセッションファイルを削除する。存在しない場合は何もしない。
func clearSession() error {
	path, err := sessionFilePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("セッションファイルの削除に失敗しました: %w", err)
	}
	return nil
}
