package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hitoshi/projectmatch/internal/model"
)

// ProjectsByAssignment は課題内の全プロジェクトを取得する（教員向け）。
func (c *Client) ProjectsByAssignment(ctx context.Context, assignmentID int64) ([]model.Project, error) {
	var projects []model.Project
	if err := c.get(ctx, fmt.Sprintf("/api/projects/assignment/%d", assignmentID), &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// PublishedProjects は課題内の公開済みプロジェクトを取得する（学生向け）。
func (c *Client) PublishedProjects(ctx context.Context, assignmentID int64) ([]model.Project, error) {
	var projects []model.Project
	if err := c.get(ctx, fmt.Sprintf("/api/projects/%d/published", assignmentID), &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GlobalProjects は課題に属さないグローバルプロジェクトを取得する。
func (c *Client) GlobalProjects(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	if err := c.get(ctx, "/api/projects/global", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// MyProjects は自分が所属する課題内のプロジェクトを取得する。
func (c *Client) MyProjects(ctx context.Context, assignmentID int64) ([]model.Project, error) {
	var projects []model.Project
	if err := c.get(ctx, fmt.Sprintf("/api/projects/my-projects/%d", assignmentID), &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// ImportedProjects は課題へ取り込まれたグローバルプロジェクトを取得する。
func (c *Client) ImportedProjects(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	if err := c.get(ctx, "/api/projects/global/imported", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// ImportProject はグローバルプロジェクトを課題へ取り込む。
func (c *Client) ImportProject(ctx context.Context, projectID, assignmentID int64) (*model.Project, error) {
	var project model.Project
	if err := c.post(ctx, fmt.Sprintf("/api/projects/%d/import/%d", projectID, assignmentID), nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// Project はプロジェクトを1件取得する。
func (c *Client) Project(ctx context.Context, projectID int64) (*model.Project, error) {
	var project model.Project
	if err := c.get(ctx, fmt.Sprintf("/api/projects/%d", projectID), &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// ProjectByAssignmentMembership は課題内で自分がメンバーである
// プロジェクトを取得する。
func (c *Client) ProjectByAssignmentMembership(ctx context.Context, assignmentID int64) (*model.Project, error) {
	var project model.Project
	if err := c.get(ctx, fmt.Sprintf("/api/projects/member/assignment/%d", assignmentID), &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// CreateProject は課題内にプロジェクトを作成する。
func (c *Client) CreateProject(ctx context.Context, assignmentID int64, project model.Project) (*model.Project, error) {
	var created model.Project
	if err := c.post(ctx, fmt.Sprintf("/api/projects/%d", assignmentID), project, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// CreateGlobalProject はグローバルプロジェクトを作成する（研究者向け）。
func (c *Client) CreateGlobalProject(ctx context.Context, project model.Project) (*model.Project, error) {
	var created model.Project
	if err := c.post(ctx, "/api/projects/global", project, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProject はプロジェクトのメタデータを更新する。
func (c *Client) UpdateProject(ctx context.Context, projectID int64, project model.Project) (*model.Project, error) {
	var updated model.Project
	if err := c.patch(ctx, fmt.Sprintf("/api/projects/%d", projectID), project, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// UpdateProjectStatus はプロジェクトのステータスを変更する。
// 変更先ステータスはリクエストヘッダーで渡す。
func (c *Client) UpdateProjectStatus(ctx context.Context, projectID int64, status model.ProjectStatus) (*model.Project, error) {
	headers := http.Header{}
	headers.Set("status", string(status))

	var updated model.Project
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/projects/%d/status", projectID), headers, nil, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// PublishAllProjects は課題内の承認済みプロジェクトを一括公開する。
func (c *Client) PublishAllProjects(ctx context.Context, assignmentID int64) ([]model.Project, error) {
	headers := http.Header{}
	headers.Set("assignmentId", fmt.Sprintf("%d", assignmentID))

	var projects []model.Project
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/projects/%d/publish", assignmentID), headers, nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// ClaimProject は公開済みプロジェクトのチームを確定する。
func (c *Client) ClaimProject(ctx context.Context, projectID int64) (*model.Project, error) {
	var project model.Project
	if err := c.post(ctx, fmt.Sprintf("/api/projects/%d/claim", projectID), nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// ApplyForProject はプロジェクトへの参加応募を作成する。
func (c *Client) ApplyForProject(ctx context.Context, projectID int64, application model.ApplicationCreate) (*model.Application, error) {
	var created model.Application
	if err := c.post(ctx, fmt.Sprintf("/api/projects/%d/apply", projectID), application, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ProjectApplications はプロジェクトへの応募一覧を取得する。
func (c *Client) ProjectApplications(ctx context.Context, projectID int64) ([]model.Application, error) {
	var applications []model.Application
	if err := c.get(ctx, fmt.Sprintf("/api/projects/%d/applications", projectID), &applications); err != nil {
		return nil, err
	}
	return applications, nil
}

// RemoveMember はプロジェクトからメンバーを除名する。
func (c *Client) RemoveMember(ctx context.Context, projectID, memberID int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/projects/%d/members/%d", projectID, memberID))
}

// LeaveProject はプロジェクトから離脱する。
func (c *Client) LeaveProject(ctx context.Context, projectID int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/projects/%d/leave", projectID))
}

// ProjectEvents はプロジェクトの履歴イベントを時系列順で取得する。
func (c *Client) ProjectEvents(ctx context.Context, projectID int64) ([]model.ProjectEvent, error) {
	var events []model.ProjectEvent
	if err := c.get(ctx, fmt.Sprintf("/api/projects/%d/events", projectID), &events); err != nil {
		return nil, err
	}
	return events, nil
}
