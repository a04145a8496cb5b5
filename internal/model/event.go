// Package model はドメインモデルを定義する。
package model

import "time"

// ProjectEventType はプロジェクトのライフサイクルイベント種別を表す。
type ProjectEventType string

const (
	// EventCreated はプロジェクト作成イベント。
	EventCreated ProjectEventType = "CREATED"
	// EventStatusChanged はステータス変更イベント。
	EventStatusChanged ProjectEventType = "STATUS_CHANGED"
	// EventMemberJoined はメンバー参加イベント。
	EventMemberJoined ProjectEventType = "MEMBER_JOINED"
	// EventMemberLeft はメンバー離脱イベント。
	EventMemberLeft ProjectEventType = "MEMBER_LEFT"
	// EventPublished は公開イベント。
	EventPublished ProjectEventType = "PUBLISHED"
	// EventClaimed はチーム確定イベント。
	EventClaimed ProjectEventType = "CLAIMED"
	// EventFeedbackAdded はフィードバック追加イベント。
	EventFeedbackAdded ProjectEventType = "FEEDBACK_ADDED"
)

// ProjectEvent はプロジェクトの履歴イベント1件を表す。
// Usernameはシステム起因のイベントではnullになる。
type ProjectEvent struct {
	Type     ProjectEventType `json:"type"`
	Message  string           `json:"message"`
	Username *string          `json:"username"`
	Date     time.Time        `json:"date"`
}
