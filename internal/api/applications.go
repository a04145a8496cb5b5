package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hitoshi/projectmatch/internal/model"
)

// ReviewApplication は応募を審査する（プロダクトオーナー向け）。
// 審査結果はリクエストヘッダーで渡す。
func (c *Client) ReviewApplication(ctx context.Context, applicationID int64, status model.ApplicationStatus) (*model.Application, error) {
	headers := http.Header{}
	headers.Set("status", string(status))

	var reviewed model.Application
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/applications/%d/review", applicationID), headers, nil, &reviewed); err != nil {
		return nil, err
	}
	return &reviewed, nil
}

// JoinProject は承認済みの応募に基づいてプロジェクトへ参加する。
func (c *Client) JoinProject(ctx context.Context, applicationID int64) (*model.Application, error) {
	var application model.Application
	if err := c.post(ctx, fmt.Sprintf("/api/applications/%d/join", applicationID), nil, &application); err != nil {
		return nil, err
	}
	return &application, nil
}
