package projectlist

import (
	"context"
	"slices"
	"sync"

	"github.com/hitoshi/projectmatch/internal/model"
	"github.com/hitoshi/projectmatch/internal/notify"
)

// Source は各タブの生データ取得に必要なインターフェース。
type Source interface {
	// Load は指定タブの生のプロジェクト集合を取得する。
	Load(ctx context.Context, tab Tab) ([]model.Project, error)
}

// Updater はステータス変更と一括公開に必要なインターフェース。
type Updater interface {
	// UpdateStatus はプロジェクトのステータス変更リクエストを1回送る。
	UpdateStatus(ctx context.Context, projectID int64, status model.ProjectStatus) error
	// PublishAll は承認済みプロジェクトの一括公開リクエストを1回送る。
	PublishAll(ctx context.Context) error
}

// View はプロジェクト一覧画面の状態。
// 生データと条件のいずれかが変わるたびに表示列を全体再計算する。
type View struct {
	source   Source
	updater  Updater
	notifier notify.Notifier

	mu       sync.Mutex
	raw      []model.Project
	criteria Criteria
	visible  []model.Project
}

// NewView は初期条件（allタブ、title-asc）のViewを生成する。
// 生データは空であり、最初のReloadまたはSelectTabで読み込む。
func NewView(source Source, updater Updater, notifier notify.Notifier) *View {
	return &View{
		source:   source,
		updater:  updater,
		notifier: notifier,
		criteria: DefaultCriteria(),
	}
}

// Projects は現在の表示列のコピーを返す。
func (v *View) Projects() []model.Project {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.visible)
}

// Criteria は現在の条件のコピーを返す。
func (v *View) Criteria() Criteria {
	v.mu.Lock()
	defer v.mu.Unlock()
	c := v.criteria
	c.Statuses = slices.Clone(c.Statuses)
	return c
}

// SelectTab はタブを切り替え、生データ全体を新しいタブの源で置き換える。
func (v *View) SelectTab(ctx context.Context, tab Tab) error {
	v.mu.Lock()
	v.criteria.Tab = tab
	v.mu.Unlock()
	return v.Reload(ctx)
}

// Reload は現在のタブの生データを読み直す。
// 読み込み失敗時は一覧を空にリセットする。ユーザーへの失敗通知は
// エラーインターセプターが行うため、ここでは通知を重ねない。
func (v *View) Reload(ctx context.Context) error {
	v.mu.Lock()
	tab := v.criteria.Tab
	v.mu.Unlock()

	projects, err := v.source.Load(ctx, tab)

	v.mu.Lock()
	if err != nil {
		v.raw = nil
	} else {
		v.raw = projects
	}
	v.recompute()
	v.mu.Unlock()

	return err
}

// SetSort はソートキーを変更して再計算する。
func (v *View) SetSort(key SortKey) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.criteria.Sort = key
	v.recompute()
}

// SetMinFreeSpots は最小空き枠を変更して再計算する。負値は0として扱う。
func (v *View) SetMinFreeSpots(n int) {
	if n < 0 {
		n = 0
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.criteria.MinFreeSpots = n
	v.recompute()
}

// SetStatuses はステータス集合を丸ごと置き換えて再計算する。
func (v *View) SetStatuses(statuses []model.ProjectStatus) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.criteria.Statuses = slices.Clone(statuses)
	v.recompute()
}

// ToggleStatus はステータスの選択状態を反転して再計算する。
func (v *View) ToggleStatus(status model.ProjectStatus) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if i := slices.Index(v.criteria.Statuses, status); i >= 0 {
		v.criteria.Statuses = slices.Delete(v.criteria.Statuses, i, i+1)
	} else {
		v.criteria.Statuses = append(v.criteria.Statuses, status)
	}
	v.recompute()
}

// SetSearchTerm は検索語を変更して再計算する。
func (v *View) SetSearchTerm(term string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.criteria.SearchTerm = term
	v.recompute()
}

// ClearSearch は検索語を消去して再計算する。
func (v *View) ClearSearch() {
	v.SetSearchTerm("")
}

// recompute は呼び出し時点の各入力の最新値で表示列を全体再計算する。
// v.muを保持して呼ぶこと。
func (v *View) recompute() {
	v.visible = Recompute(v.raw, v.criteria)
}

// PublishAll は承認済みプロジェクトを一括公開し、成功を通知して
// 現在のタブを再読込する。
func (v *View) PublishAll(ctx context.Context) error {
	if err := v.updater.PublishAll(ctx); err != nil {
		return err
	}
	v.notifier.Show(notify.SeveritySuccess, "承認済みのプロジェクトを公開しました。")
	return v.Reload(ctx)
}
