package projectlist

import (
	"context"
	"fmt"

	"github.com/hitoshi/projectmatch/internal/model"
)

// Backend はAPISourceが使うAPIクライアントの部分集合。
type Backend interface {
	ProjectsByAssignment(ctx context.Context, assignmentID int64) ([]model.Project, error)
	PublishedProjects(ctx context.Context, assignmentID int64) ([]model.Project, error)
	GlobalProjects(ctx context.Context) ([]model.Project, error)
	MyProjects(ctx context.Context, assignmentID int64) ([]model.Project, error)
	ImportedProjects(ctx context.Context) ([]model.Project, error)
	UpdateProjectStatus(ctx context.Context, projectID int64, status model.ProjectStatus) (*model.Project, error)
	PublishAllProjects(ctx context.Context, assignmentID int64) ([]model.Project, error)
}

// APISource は課題と閲覧者ロールに応じてタブごとの取得先を選ぶSource。
// 教員ロールのallタブは全ステータスの一覧を、それ以外は公開済みのみを返す。
type APISource struct {
	backend      Backend
	assignmentID int64
	role         model.Role
}

// NewAPISource はAPISourceを生成する。
func NewAPISource(backend Backend, assignmentID int64, role model.Role) *APISource {
	return &APISource{backend: backend, assignmentID: assignmentID, role: role}
}

// Load はSourceを実装する。
func (s *APISource) Load(ctx context.Context, tab Tab) ([]model.Project, error) {
	switch tab {
	case TabAll:
		if s.role == model.RoleTeacher {
			return s.backend.ProjectsByAssignment(ctx, s.assignmentID)
		}
		return s.backend.PublishedProjects(ctx, s.assignmentID)
	case TabGlobal:
		return s.backend.GlobalProjects(ctx)
	case TabMyProjects:
		return s.backend.MyProjects(ctx, s.assignmentID)
	case TabImported:
		return s.backend.ImportedProjects(ctx)
	default:
		return nil, fmt.Errorf("不明なタブです: %s", tab)
	}
}

// UpdateStatus はUpdaterを実装する。
func (s *APISource) UpdateStatus(ctx context.Context, projectID int64, status model.ProjectStatus) error {
	_, err := s.backend.UpdateProjectStatus(ctx, projectID, status)
	return err
}

// PublishAll はUpdaterを実装する。
func (s *APISource) PublishAll(ctx context.Context) error {
	_, err := s.backend.PublishAllProjects(ctx, s.assignmentID)
	return err
}
