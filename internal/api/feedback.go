package api

import (
	"context"
	"fmt"

	"github.com/hitoshi/projectmatch/internal/model"
)

// ProjectFeedback はプロジェクトへのフィードバック一覧を取得する。
func (c *Client) ProjectFeedback(ctx context.Context, projectID int64) ([]model.Feedback, error) {
	var feedback []model.Feedback
	if err := c.get(ctx, fmt.Sprintf("/api/projects/%d/feedback", projectID), &feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

// SubmitFeedback はプロジェクトへフィードバックを投稿する（教員向け）。
func (c *Client) SubmitFeedback(ctx context.Context, projectID int64, feedback model.FeedbackCreate) error {
	return c.post(ctx, fmt.Sprintf("/api/projects/%d/feedback", projectID), feedback, nil)
}

// UpdateFeedback はフィードバックを更新する（教員向け）。
func (c *Client) UpdateFeedback(ctx context.Context, feedbackID int64, feedback model.Feedback) (*model.Feedback, error) {
	var updated model.Feedback
	if err := c.put(ctx, fmt.Sprintf("/api/feedback/%d", feedbackID), feedback, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteFeedback はフィードバックを削除する（教員向け）。
func (c *Client) DeleteFeedback(ctx context.Context, feedbackID int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/feedback/%d", feedbackID))
}
