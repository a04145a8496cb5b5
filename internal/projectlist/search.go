package projectlist

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/hitoshi/projectmatch/internal/model"
)

// stripPolicy はリッチテキスト説明文からHTMLタグをすべて除去するポリシー。
// ポリシーは初期化後スレッドセーフに利用できる。
var stripPolicy = bluemonday.StrictPolicy()

// PlainDescription は説明文（HTML）をプレーンテキストに変換する。
// 検索一致判定とCLI表示で使用する。
func PlainDescription(p *model.Project) string {
	return strings.TrimSpace(stripPolicy.Sanitize(p.Description))
}

// matchesSearch は検索語に対する大文字小文字を区別しない部分一致判定。
// 対象フィールド: タイトル、概要、説明（HTML除去後）、コース名、課題名、
// プロダクトオーナー名、作成者名、各メンバー名、各タグ名。
// termは小文字化済みであること。空文字は常に一致とみなす。
func matchesSearch(p *model.Project, term string) bool {
	if term == "" {
		return true
	}

	fields := []string{
		p.Title,
		p.ShortDescription,
		PlainDescription(p),
		p.CourseName,
		p.AssignmentName,
	}
	if p.ProductOwner != nil {
		fields = append(fields, p.ProductOwner.FullName())
	}
	if p.CreatedBy != nil {
		fields = append(fields, p.CreatedBy.FullName())
	}
	for i := range p.Members {
		fields = append(fields, p.Members[i].FullName())
	}
	for _, tag := range p.Tags {
		fields = append(fields, tag.Name)
	}

	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
