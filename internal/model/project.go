// Package model はドメインモデルを定義する。
package model

// ProjectStatus はプロジェクトのライフサイクル状態を表す。
type ProjectStatus string

const (
	// StatusDraft は下書き状態。作成者のみ参照できる。
	StatusDraft ProjectStatus = "DRAFT"
	// StatusSubmitted は提出済みで審査待ちの状態。
	StatusSubmitted ProjectStatus = "SUBMITTED"
	// StatusApproved は承認済みで公開待ちの状態。
	StatusApproved ProjectStatus = "APPROVED"
	// StatusRejected は却下された終端状態。
	StatusRejected ProjectStatus = "REJECTED"
	// StatusPublished は学生へ公開された状態。
	StatusPublished ProjectStatus = "PUBLISHED"
	// StatusClaimed はチームが確定した状態。
	StatusClaimed ProjectStatus = "CLAIMED"
	// StatusCompleted は完了した状態。
	StatusCompleted ProjectStatus = "COMPLETED"
)

// AllProjectStatuses は定義済みの全ステータス。フィルタUIの選択肢に使う。
var AllProjectStatuses = []ProjectStatus{
	StatusDraft,
	StatusSubmitted,
	StatusApproved,
	StatusRejected,
	StatusPublished,
	StatusClaimed,
	StatusCompleted,
}

// Tag はプロジェクトやユーザープロフィールに付与されるトピックタグを表す。
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Project は課題の下に組織される研究・開発プロジェクトを表す。
// クライアントがローカルで変更することはなく、常にサーバーのレスポンスで丸ごと置き換える。
type Project struct {
	ID               int64         `json:"id"`
	GID              string        `json:"gid,omitempty"`
	Title            string        `json:"title"`
	Description      string        `json:"description"` // リッチテキスト（HTML）
	ShortDescription string        `json:"shortDescription"`
	Status           ProjectStatus `json:"status"`
	RepositoryURL    string        `json:"repositoryUrl,omitempty"`
	BoardURL         string        `json:"boardUrl,omitempty"`
	BackgroundImage  string        `json:"backgroundImage,omitempty"`
	TeamSize         int           `json:"teamSize"`
	AssignmentID     *int64        `json:"assignmentId"`
	Tags             []Tag         `json:"tags,omitempty"`
	CreatedBy        *User         `json:"createdBy,omitempty"`
	ProductOwner     *User         `json:"productOwner,omitempty"`
	Members          []User        `json:"members,omitempty"`
	CourseName       string        `json:"courseName,omitempty"`
	AssignmentName   string        `json:"assignmentName,omitempty"`
}

// Vacancy は空き枠数（チームサイズ − メンバー数、下限0）を返す。
func (p *Project) Vacancy() int {
	v := p.TeamSize - len(p.Members)
	if v < 0 {
		return 0
	}
	return v
}

// FillRatio はチーム充足率（メンバー数 ÷ チームサイズ）を返す。
// チームサイズが0以下の場合は、メンバーが1人でもいれば満員(1)、
// いなければ0として扱う。
func (p *Project) FillRatio() float64 {
	if p.TeamSize <= 0 {
		if len(p.Members) > 0 {
			return 1
		}
		return 0
	}
	return float64(len(p.Members)) / float64(p.TeamSize)
}
