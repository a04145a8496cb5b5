package stub

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler は全エンドポイントのルーティングとミドルウェアチェーンを
// 構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CSRFMiddleware → (認証ルートのみ) SessionMiddleware
//
// ログイン・登録・ログアウトはセッションミドルウェアの外に配置する。
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// CSRFミドルウェアを最上位に適用（全ルートに効く）
	r.Use(newCSRFMiddleware())

	// --- 認証不要のルート ---
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/register", s.handleRegister)
		r.Post("/logout", s.handleLogout)
	})

	// --- 認証が必要なルート ---
	r.Group(func(r chi.Router) {
		r.Use(s.newSessionMiddleware())

		r.Get("/api/auth/user", s.handleCurrentUser)

		r.Route("/api/projects", func(r chi.Router) {
			r.Get("/global", s.handleGlobalProjects)
			r.Get("/global/imported", s.handleImportedProjects)
			r.Get("/assignment/{id}", s.handleProjectsByAssignment)
			r.Get("/my-projects/{id}", s.handleMyProjects)

			// {id}は課題IDまたはプロジェクトIDのどちらかを指す。
			// 本物のバックエンドのパス設計をそのまま踏襲している。
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetProject)
				r.Get("/published", s.handlePublishedProjects)
				r.Post("/publish", s.handlePublishAll)
				r.Post("/status", s.handleUpdateStatus)
				r.Get("/events", s.handleProjectEvents)
			})
		})
	})

	return r
}
