// Package stub は開発・テスト用のインメモリバックエンドを提供する。
// 本物のバックエンドと同じCookieセッション・CSRF規約・エラー形式で応答する。
package stub

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/hitoshi/projectmatch/internal/model"
)

// account は認証情報つきのユーザーレコード。
type account struct {
	user     model.User
	password string
}

// Server はインメモリのバックエンド状態。
type Server struct {
	mu       sync.Mutex
	accounts map[string]*account // メールアドレス → アカウント
	sessions map[string]int64    // セッションID → ユーザーID
	projects map[int64]*model.Project
	events   map[int64][]model.ProjectEvent
	nextID   int64
}

// NewServer は空のServerを生成する。
func NewServer() *Server {
	return &Server{
		accounts: make(map[string]*account),
		sessions: make(map[string]int64),
		projects: make(map[int64]*model.Project),
		events:   make(map[int64][]model.ProjectEvent),
		nextID:   1,
	}
}

// AddUser はユーザーを登録し、採番済みのユーザーを返す。
func (s *Server) AddUser(user model.User, password string) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = s.nextID
	s.nextID++
	s.accounts[user.Email] = &account{user: user, password: password}
	return user
}

// AddProject はプロジェクトを登録し、採番済みのプロジェクトを返す。
func (s *Server) AddProject(project model.Project) model.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	project.ID = s.nextID
	s.nextID++
	s.projects[project.ID] = &project
	s.appendEventLocked(project.ID, model.EventCreated, "project created", nil)
	return project
}

// appendEventLocked は履歴イベントを追記する。s.muを保持して呼ぶこと。
func (s *Server) appendEventLocked(projectID int64, eventType model.ProjectEventType, message string, username *string) {
	s.events[projectID] = append(s.events[projectID], model.ProjectEvent{
		Type:     eventType,
		Message:  message,
		Username: username,
		Date:     time.Now(),
	})
}

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// writeError はバックエンドのエラー形式（detailフィールド）で応答する。
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
