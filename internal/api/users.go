package api

import (
	"context"
	"fmt"

	"github.com/hitoshi/projectmatch/internal/model"
)

// UserProfile はユーザーの公開プロフィールを取得する。
func (c *Client) UserProfile(ctx context.Context, userID int64) (*model.User, error) {
	var user model.User
	if err := c.get(ctx, fmt.Sprintf("/api/users/%d", userID), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ProfileUpdate は自分のプロフィールの部分更新リクエストを表す。
// nilのフィールドは変更しない。
type ProfileUpdate struct {
	FirstName   *string     `json:"firstName,omitempty"`
	LastName    *string     `json:"lastName,omitempty"`
	Description *string     `json:"description,omitempty"`
	Links       []string    `json:"links,omitempty"`
	Topics      []model.Tag `json:"topics,omitempty"`
}

// UpdateProfile は自分のプロフィールを部分更新する。
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*model.User, error) {
	var updated model.User
	if err := c.patch(ctx, "/api/users/me", update, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
