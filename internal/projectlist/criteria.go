// Package projectlist はプロジェクト一覧の導出パイプラインを提供する。
//
// 表示される一覧は「生のプロジェクト集合 × 5つの条件（タブ、ソート、
// 最小空き枠、ステータス集合、検索語）」の純関数であり、いずれかの入力が
// 変わるたびに全体を同期的に再計算する。部分更新や古い値との混在はない。
package projectlist

import "github.com/hitoshi/projectmatch/internal/model"

// Tab は一覧の生データ源を選択するタブを表す。
type Tab string

const (
	// TabAll は課題内の全プロジェクト（学生には公開済みのみ）。
	TabAll Tab = "all"
	// TabGlobal はグローバルプロジェクト。
	TabGlobal Tab = "global"
	// TabMyProjects は自分が所属するプロジェクト。
	TabMyProjects Tab = "my-projects"
	// TabImported は課題へ取り込まれたプロジェクト。
	TabImported Tab = "imported"
)

// SortKey はソート指定を表す。フィールド×方向の8通りのリテラルのみ有効。
type SortKey string

const (
	SortTitleAsc     SortKey = "title-asc"
	SortTitleDesc    SortKey = "title-desc"
	SortStatusAsc    SortKey = "status-asc"
	SortStatusDesc   SortKey = "status-desc"
	SortTeamSizeAsc  SortKey = "teamSize-asc"
	SortTeamSizeDesc SortKey = "teamSize-desc"
	SortTeamFillAsc  SortKey = "teamFill-asc"
	SortTeamFillDesc SortKey = "teamFill-desc"
)

// Criteria は一覧の導出に使う条件の組。各フィールドは互いに独立に変更される。
type Criteria struct {
	Tab          Tab
	Sort         SortKey
	MinFreeSpots int
	Statuses     []model.ProjectStatus // 空の場合はステータスで絞り込まない
	SearchTerm   string
}

// DefaultCriteria は一覧の初期条件を返す。
func DefaultCriteria() Criteria {
	return Criteria{Tab: TabAll, Sort: SortTitleAsc}
}
