package stub

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/projectmatch/internal/model"
)

// pathID はURLパラメータをint64として読み取る。
func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// handleProjectsByAssignment は課題内の全プロジェクトを返す。
func (s *Server) handleProjectsByAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid assignment id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	projects := s.collectLocked(func(p *model.Project) bool {
		return p.AssignmentID != nil && *p.AssignmentID == assignmentID
	})
	writeJSON(w, http.StatusOK, projects)
}

// handlePublishedProjects は課題内の公開済み以降のプロジェクトを返す。
func (s *Server) handlePublishedProjects(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid assignment id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	projects := s.collectLocked(func(p *model.Project) bool {
		if p.AssignmentID == nil || *p.AssignmentID != assignmentID {
			return false
		}
		switch p.Status {
		case model.StatusPublished, model.StatusClaimed, model.StatusCompleted:
			return true
		default:
			return false
		}
	})
	writeJSON(w, http.StatusOK, projects)
}

// handleGlobalProjects は課題に属さないグローバルプロジェクトを返す。
func (s *Server) handleGlobalProjects(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	projects := s.collectLocked(func(p *model.Project) bool {
		return p.AssignmentID == nil
	})
	writeJSON(w, http.StatusOK, projects)
}

// handleImportedProjects は課題へ取り込まれたグローバルプロジェクトを返す。
func (s *Server) handleImportedProjects(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	projects := s.collectLocked(func(p *model.Project) bool {
		return p.AssignmentID != nil && p.GID != ""
	})
	writeJSON(w, http.StatusOK, projects)
}

// handleMyProjects は認証済みユーザーがメンバーである課題内プロジェクトを返す。
func (s *Server) handleMyProjects(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid assignment id")
		return
	}
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	projects := s.collectLocked(func(p *model.Project) bool {
		if p.AssignmentID == nil || *p.AssignmentID != assignmentID {
			return false
		}
		if p.CreatedBy != nil && p.CreatedBy.ID == userID {
			return true
		}
		return slices.ContainsFunc(p.Members, func(m model.User) bool {
			return m.ID == userID
		})
	})
	writeJSON(w, http.StatusOK, projects)
}

// handleGetProject はプロジェクトを1件返す。
func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	project, ok := s.projects[projectID]
	if !ok {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// handleUpdateStatus はプロジェクトのステータスを変更する。
// 変更先ステータスはstatusリクエストヘッダーで受け取る。
func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	status := model.ProjectStatus(r.Header.Get("status"))
	if !slices.Contains(model.AllProjectStatuses, status) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown status: %s", status))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	project, ok := s.projects[projectID]
	if !ok {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}

	previous := project.Status
	project.Status = status
	s.appendEventLocked(projectID, model.EventStatusChanged,
		fmt.Sprintf("status changed from %s to %s", previous, status), s.usernameLocked(r))
	writeJSON(w, http.StatusOK, project)
}

// handlePublishAll は課題内の承認済みプロジェクトを一括で公開する。
func (s *Server) handlePublishAll(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid assignment id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	published := make([]model.Project, 0)
	for _, p := range s.projects {
		if p.AssignmentID == nil || *p.AssignmentID != assignmentID {
			continue
		}
		if p.Status != model.StatusApproved {
			continue
		}
		p.Status = model.StatusPublished
		s.appendEventLocked(p.ID, model.EventPublished, "project published", s.usernameLocked(r))
		published = append(published, *p)
	}
	writeJSON(w, http.StatusOK, published)
}

// handleProjectEvents はプロジェクトの履歴イベントを時系列順で返す。
func (s *Server) handleProjectEvents(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[projectID]; !ok {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	events := s.events[projectID]
	if events == nil {
		events = []model.ProjectEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

// collectLocked は条件を満たすプロジェクトをID昇順で集める。
// s.muを保持して呼ぶこと。
func (s *Server) collectLocked(keep func(*model.Project) bool) []model.Project {
	projects := make([]model.Project, 0)
	for _, p := range s.projects {
		if keep(p) {
			projects = append(projects, *p)
		}
	}
	slices.SortFunc(projects, func(a, b model.Project) int {
		return int(a.ID - b.ID)
	})
	return projects
}

// usernameLocked はリクエストの認証済みユーザーのフルネームを返す。
// 特定できない場合はnilを返す。s.muを保持して呼ぶこと。
func (s *Server) usernameLocked(r *http.Request) *string {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		return nil
	}
	for _, acct := range s.accounts {
		if acct.user.ID == userID {
			name := acct.user.FullName()
			return &name
		}
	}
	return nil
}
