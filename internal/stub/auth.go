package stub

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/hitoshi/projectmatch/internal/model"
)

// handleLogin はメールアドレスとパスワードを検証し、セッションCookieを
// 発行する。成功時はCSRFトークンをローテーションし、新しいトークンを
// レスポンスヘッダーで通知する。
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	acct, ok := s.accounts[creds.Email]
	s.mu.Unlock()
	if !ok || acct.password != creds.Password {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	sessionID := uuid.NewString()
	s.mu.Lock()
	s.sessions[sessionID] = acct.user.ID
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	// セッション確立に伴いCSRFトークンをローテーションする
	issueCSRFToken(w)
	w.WriteHeader(http.StatusOK)
}

// handleLogout はセッションを破棄し、セッションCookieを失効させる。
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		s.mu.Lock()
		delete(s.sessions, cookie.Value)
		s.mu.Unlock()
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusOK)
}

// handleRegister は新規ユーザーを登録する。登録済みメールアドレスには409を返す。
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req model.RegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	s.mu.Lock()
	if _, exists := s.accounts[req.Email]; exists {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, "email already registered")
		return
	}
	user := model.User{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      model.RoleStudent,
	}
	user.ID = s.nextID
	s.nextID++
	s.accounts[req.Email] = &account{user: user, password: req.Password}
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, user)
}

// handleCurrentUser は認証済みユーザーのプロフィールを返す。
func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acct := range s.accounts {
		if acct.user.ID == userID {
			writeJSON(w, http.StatusOK, acct.user)
			return
		}
	}
	writeError(w, http.StatusUnauthorized, "unauthorized")
}
