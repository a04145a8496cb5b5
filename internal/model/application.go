// Package model はドメインモデルを定義する。
package model

import "time"

// ApplicationStatus は応募の審査状態を表す。
type ApplicationStatus string

const (
	// ApplicationPending は審査待ちの状態。
	ApplicationPending ApplicationStatus = "PENDING"
	// ApplicationApproved は承認された状態。承認後に応募者が参加を確定する。
	ApplicationApproved ApplicationStatus = "APPROVED"
	// ApplicationRejected は却下された状態。
	ApplicationRejected ApplicationStatus = "REJECTED"
)

// Application はプロジェクトへの参加応募を表す。
type Application struct {
	ID         int64             `json:"id"`
	ProjectID  int64             `json:"projectId"`
	Applicant  *User             `json:"applicant,omitempty"`
	Motivation string            `json:"motivation,omitempty"`
	Status     ApplicationStatus `json:"status"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// ApplicationCreate は応募作成リクエストを表す。
type ApplicationCreate struct {
	Motivation string `json:"motivation"`
}
