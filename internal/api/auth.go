package api

import (
	"context"

	"github.com/hitoshi/projectmatch/internal/model"
)

// CurrentUser は現在のセッションのユーザーを取得する。
// 有効なセッションがない場合は401が返る。
func (c *Client) CurrentUser(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.get(ctx, "/api/auth/user", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login は資格情報でログインする。
// 成功時にバックエンドがセッションCookieを設定する。
func (c *Client) Login(ctx context.Context, creds model.Credentials) error {
	return c.post(ctx, "/api/auth/login", creds, nil)
}

// Register は新規ユーザーを登録する。セッションは開始されない。
func (c *Client) Register(ctx context.Context, req model.RegistrationRequest) error {
	return c.post(ctx, "/api/auth/register", req, nil)
}

// Logout は現在のセッションを終了する。
func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "/api/auth/logout", nil, nil)
}
