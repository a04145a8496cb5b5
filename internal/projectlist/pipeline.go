package projectlist

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/hitoshi/projectmatch/internal/model"
)

// Recompute は生のプロジェクト集合と条件から表示用の一覧を導出する純関数。
// フィルタを適用してからソートする。入力スライスは変更しない。
// 同一入力に対して常に同一の順序を返す。
func Recompute(source []model.Project, c Criteria) []model.Project {
	filtered := filterProjects(source, c)
	sortProjects(filtered, c.Sort)
	return filtered
}

// filterProjects は3条件すべてを満たすプロジェクトのみを残す:
// 空き枠が最小空き枠以上、ステータス集合に含まれる（空集合は無条件）、
// 検索語に一致する（空文字は無条件）。
func filterProjects(source []model.Project, c Criteria) []model.Project {
	term := strings.ToLower(strings.TrimSpace(c.SearchTerm))

	out := make([]model.Project, 0, len(source))
	for _, p := range source {
		if p.Vacancy() < c.MinFreeSpots {
			continue
		}
		if len(c.Statuses) > 0 && !slices.Contains(c.Statuses, p.Status) {
			continue
		}
		if !matchesSearch(&p, term) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// sortProjects は指定キーで一覧を破壊的にソートする。
func sortProjects(projects []model.Project, key SortKey) {
	// collate.Collatorは並行利用できないため呼び出しごとに生成する
	col := collate.New(language.Und, collate.Loose, collate.Numeric)
	slices.SortStableFunc(projects, comparatorFor(col, key))
}

// comparatorFor はソートキーに対応するコンパレータを返す。
// 降順は昇順コンパレータの出力の正負反転であり、別個の定義を持たない。
func comparatorFor(col *collate.Collator, key SortKey) func(a, b model.Project) int {
	base, desc := baseComparator(col, key)
	if !desc {
		return base
	}
	return func(a, b model.Project) int {
		return -base(a, b)
	}
}

// baseComparator はキーのフィールドに対応する昇順コンパレータと、
// 降順指定かどうかを返す。未知のキーはtitle-ascとして扱う。
func baseComparator(col *collate.Collator, key SortKey) (func(a, b model.Project) int, bool) {
	titleCmp := func(a, b model.Project) int {
		return col.CompareString(a.Title, b.Title)
	}
	statusCmp := func(a, b model.Project) int {
		return col.CompareString(string(a.Status), string(b.Status))
	}
	teamSizeCmp := func(a, b model.Project) int {
		return cmp.Compare(a.TeamSize, b.TeamSize)
	}
	teamFillCmp := func(a, b model.Project) int {
		if c := cmp.Compare(a.FillRatio(), b.FillRatio()); c != 0 {
			return c
		}
		// 充足率が同じ場合は空き枠の少ない方を「より埋まっている」とみなす
		if c := cmp.Compare(a.Vacancy(), b.Vacancy()); c != 0 {
			return c
		}
		return titleCmp(a, b)
	}

	switch key {
	case SortTitleDesc:
		return titleCmp, true
	case SortStatusAsc:
		return statusCmp, false
	case SortStatusDesc:
		return statusCmp, true
	case SortTeamSizeAsc:
		return teamSizeCmp, false
	case SortTeamSizeDesc:
		return teamSizeCmp, true
	case SortTeamFillAsc:
		return teamFillCmp, false
	case SortTeamFillDesc:
		return teamFillCmp, true
	default:
		return titleCmp, false
	}
}
