// Package model はドメインモデルを定義する。
package model

import "strings"

// Role はユーザーの役割を表す。
type Role string

const (
	// RoleStudent は学生。プロジェクトの閲覧・応募・参加を行う。
	RoleStudent Role = "student"
	// RoleTeacher は教員。プロジェクトの審査・公開・フィードバックを行う。
	RoleTeacher Role = "teacher"
	// RoleResearcher は研究者。グローバルプロジェクトを所有する。
	RoleResearcher Role = "researcher"
)

// User は認証済みユーザーを表す。
// 認証ストアが所有し、他コンポーネントは読み取り専用のビューとして扱う。
type User struct {
	ID          int64    `json:"id"`
	Email       string   `json:"email"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Role        Role     `json:"role"`
	Description string   `json:"description,omitempty"`
	Links       []string `json:"links,omitempty"`
	Topics      []Tag    `json:"topics,omitempty"`
}

// FullName は表示・検索用のフルネームを返す。
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Credentials はログイン資格情報を表す。
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegistrationRequest は新規登録リクエストを表す。
type RegistrationRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      Role   `json:"role,omitempty"`
}
