package projectlist

import (
	"context"

	"github.com/hitoshi/projectmatch/internal/model"
	"github.com/hitoshi/projectmatch/internal/notify"
)

// PendingStatusChange は確認待ちのステータス変更。
// ConfirmかCancelをちょうど1回呼ぶこと。Confirmは更新1回と再読込1回を、
// Cancelは更新0回と再読込1回を行う。
type PendingStatusChange struct {
	view      *View
	projectID int64
	status    model.ProjectStatus
	done      bool
}

// ProjectID は対象プロジェクトIDを返す。
func (p *PendingStatusChange) ProjectID() int64 { return p.projectID }

// Status は変更先のステータスを返す。
func (p *PendingStatusChange) Status() model.ProjectStatus { return p.status }

// Confirm は保留中の変更を実行する。更新リクエストを1回送り、成功時は
// 通知を出してから一覧を再読込する。更新に失敗した場合は再読込しない。
func (p *PendingStatusChange) Confirm(ctx context.Context) error {
	if p.done {
		return nil
	}
	p.done = true
	if err := p.view.updater.UpdateStatus(ctx, p.projectID, p.status); err != nil {
		return err
	}
	p.view.notifier.Show(notify.SeveritySuccess, "プロジェクトのステータスを更新しました。")
	return p.view.Reload(ctx)
}

// Cancel は保留中の変更を破棄する。更新リクエストは送らず、画面の
// 選択状態をサーバー側の実状態に戻すため一覧を再読込する。
func (p *PendingStatusChange) Cancel(ctx context.Context) error {
	if p.done {
		return nil
	}
	p.done = true
	return p.view.Reload(ctx)
}

// RequestStatusUpdate はステータス変更を要求する。
// REJECTEDへの変更は確認待ちとしてPendingStatusChangeを返し、この時点では
// リクエストを送らない。それ以外のステータスは即時に更新・通知・再読込する。
func (v *View) RequestStatusUpdate(ctx context.Context, projectID int64, status model.ProjectStatus) (*PendingStatusChange, error) {
	if status == model.StatusRejected {
		return &PendingStatusChange{view: v, projectID: projectID, status: status}, nil
	}
	if err := v.updater.UpdateStatus(ctx, projectID, status); err != nil {
		return nil, err
	}
	v.notifier.Show(notify.SeveritySuccess, "プロジェクトのステータスを更新しました。")
	return nil, v.Reload(ctx)
}
