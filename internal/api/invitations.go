package api

import (
	"context"
	"fmt"

	"github.com/hitoshi/projectmatch/internal/model"
)

// MyInvitations は自分宛ての招待一覧を取得する。
func (c *Client) MyInvitations(ctx context.Context) ([]model.Invitation, error) {
	var invitations []model.Invitation
	if err := c.get(ctx, "/api/invitations", &invitations); err != nil {
		return nil, err
	}
	return invitations, nil
}

// AcceptInvitation は招待を受諾してプロジェクトへ参加する。
func (c *Client) AcceptInvitation(ctx context.Context, invitationID int64) (*model.Invitation, error) {
	var invitation model.Invitation
	if err := c.post(ctx, fmt.Sprintf("/api/invitations/%d/accept", invitationID), nil, &invitation); err != nil {
		return nil, err
	}
	return &invitation, nil
}

// DeclineInvitation は招待を辞退する。
func (c *Client) DeclineInvitation(ctx context.Context, invitationID int64) (*model.Invitation, error) {
	var invitation model.Invitation
	if err := c.post(ctx, fmt.Sprintf("/api/invitations/%d/decline", invitationID), nil, &invitation); err != nil {
		return nil, err
	}
	return &invitation, nil
}
