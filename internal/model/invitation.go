// Package model はドメインモデルを定義する。
package model

import "time"

// InvitationStatus は招待の状態を表す。
type InvitationStatus string

const (
	// InvitationPending は回答待ちの状態。
	InvitationPending InvitationStatus = "PENDING"
	// InvitationAccepted は受諾された状態。
	InvitationAccepted InvitationStatus = "ACCEPTED"
	// InvitationDeclined は辞退された状態。
	InvitationDeclined InvitationStatus = "DECLINED"
)

// Invitation はプロジェクトメンバーからの参加招待を表す。
type Invitation struct {
	ID        int64            `json:"id"`
	ProjectID int64            `json:"projectId"`
	Invitee   *User            `json:"invitee,omitempty"`
	InvitedBy *User            `json:"invitedBy,omitempty"`
	Status    InvitationStatus `json:"status"`
	CreatedAt time.Time        `json:"createdAt"`
}
