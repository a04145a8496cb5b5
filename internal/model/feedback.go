// Package model はドメインモデルを定義する。
package model

import "time"

// Feedback は教員がプロジェクトに与えるフィードバックを表す。
type Feedback struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"projectId"`
	Author    *User     `json:"author,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FeedbackCreate はフィードバック作成リクエストを表す。
type FeedbackCreate struct {
	Content string `json:"content"`
}
