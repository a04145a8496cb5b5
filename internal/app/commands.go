package app

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/hitoshi/projectmatch/internal/auth"
	"github.com/hitoshi/projectmatch/internal/model"
	"github.com/hitoshi/projectmatch/internal/projectlist"
)

// runLogin はログインしてセッションを保存する。
func (e *env) runLogin(ctx context.Context, w io.Writer, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "メールアドレス")
	password := fs.String("password", "", "パスワード")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return fmt.Errorf("emailとpasswordは必須です")
	}

	// ログインPOSTの前にセッション確認を行う。401は想定内だが、
	// この往復でCSRFトークンCookieがジャーに入る。
	e.store.LoadSession(ctx)

	if err := e.store.Login(ctx, model.Credentials{Email: *email, Password: *password}); err != nil {
		return err
	}
	if err := persistSession(e.jar, e.cache, e.cfg.APIBaseURL); err != nil {
		return err
	}

	snap := e.store.Snapshot()
	if snap.User != nil {
		fmt.Fprintf(w, "ログインしました: %s (%s)\n", snap.User.FullName(), snap.User.Role)
	}
	return nil
}

// runLogout はサーバー側のセッションを破棄し、保存済みセッションを削除する。
func (e *env) runLogout(ctx context.Context, w io.Writer) error {
	if err := e.store.Logout(ctx); err != nil {
		// サーバー側の破棄に失敗してもローカルのセッションは消す
		if clearErr := clearSession(); clearErr != nil {
			return clearErr
		}
		return err
	}
	if err := clearSession(); err != nil {
		return err
	}
	fmt.Fprintln(w, "ログアウトしました。")
	return nil
}

// runWhoami は現在のセッションのユーザーを表示する。
func (e *env) runWhoami(ctx context.Context, w io.Writer) error {
	e.store.LoadSession(ctx)

	snap := e.store.Snapshot()
	if snap.State != auth.StateAuthenticated {
		fmt.Fprintln(w, "未ログインです。")
		return nil
	}
	fmt.Fprintf(w, "%s <%s> (%s)\n", snap.User.FullName(), snap.User.Email, snap.User.Role)
	return nil
}

// runRegister は新規ユーザーを登録する。
func (e *env) runRegister(ctx context.Context, w io.Writer, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	email := fs.String("email", "", "メールアドレス")
	password := fs.String("password", "", "パスワード")
	firstName := fs.String("first", "", "名")
	lastName := fs.String("last", "", "姓")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return fmt.Errorf("emailとpasswordは必須です")
	}

	// CSRFトークンのブートストラップ（runLoginと同様）
	e.store.LoadSession(ctx)

	req := model.RegistrationRequest{
		Email:     *email,
		Password:  *password,
		FirstName: *firstName,
		LastName:  *lastName,
	}
	if err := e.store.Register(ctx, req); err != nil {
		return err
	}
	fmt.Fprintln(w, "登録しました。確認メールを確認してください。")
	return nil
}

// requireUser はセッションを確認し、認証済みユーザーを返す。
func (e *env) requireUser(ctx context.Context) (*model.User, error) {
	e.store.LoadSession(ctx)

	snap := e.store.Snapshot()
	if snap.User == nil {
		return nil, fmt.Errorf("ログインしていません。先にloginを実行してください")
	}
	return snap.User, nil
}

// buildView は一覧コマンド共通のViewを構築する。
func (e *env) buildView(user *model.User, assignmentID int64) *projectlist.View {
	source := projectlist.NewAPISource(e.client, assignmentID, user.Role)
	return projectlist.NewView(source, source, e.notifier)
}

// runProjects は条件を適用したプロジェクト一覧を表示する。
func (e *env) runProjects(ctx context.Context, w io.Writer, args []string) error {
	fs := flag.NewFlagSet("projects", flag.ContinueOnError)
	assignmentID := fs.Int64("assignment", 1, "課題ID")
	tab := fs.String("tab", string(projectlist.TabAll), "タブ (all|global|my-projects|imported)")
	sortKey := fs.String("sort", string(projectlist.SortTitleAsc), "ソートキー")
	minFree := fs.Int("min-free", 0, "最小空き枠")
	statuses := fs.String("status", "", "ステータスの絞り込み（カンマ区切り）")
	search := fs.String("search", "", "検索語")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := e.requireUser(ctx)
	if err != nil {
		return err
	}

	statusSet, err := parseStatuses(*statuses)
	if err != nil {
		return err
	}

	view := e.buildView(user, *assignmentID)
	view.SetSort(projectlist.SortKey(*sortKey))
	view.SetMinFreeSpots(*minFree)
	view.SetStatuses(statusSet)
	view.SetSearchTerm(*search)
	if err := view.SelectTab(ctx, projectlist.Tab(*tab)); err != nil {
		return err
	}

	renderProjects(w, view.Projects())
	return nil
}

// runProject はプロジェクト1件の詳細を表示する。
func (e *env) runProject(ctx context.Context, w io.Writer, args []string) error {
	projectID, err := parseIDArg(args)
	if err != nil {
		return err
	}
	if _, err := e.requireUser(ctx); err != nil {
		return err
	}

	project, err := e.client.Project(ctx, projectID)
	if err != nil {
		return err
	}
	renderProjectDetail(w, project)
	return nil
}

// runEvents はプロジェクトの履歴イベントを時系列順で表示する。
func (e *env) runEvents(ctx context.Context, w io.Writer, args []string) error {
	projectID, err := parseIDArg(args)
	if err != nil {
		return err
	}
	if _, err := e.requireUser(ctx); err != nil {
		return err
	}

	events, err := e.client.ProjectEvents(ctx, projectID)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTYPE\tUSER\tMESSAGE")
	for _, ev := range events {
		username := "-"
		if ev.Username != nil {
			username = *ev.Username
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			ev.Date.Format("2006-01-02 15:04"), ev.Type, username, ev.Message)
	}
	return tw.Flush()
}

// runSetStatus はプロジェクトのステータスを変更する。
// REJECTEDへの変更は破壊的な操作のため、-yes指定が無ければ標準入力で
// 確認する。確認で拒否した場合はリクエストを送らず一覧を読み直すだけにする。
func (e *env) runSetStatus(ctx context.Context, w io.Writer, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("使い方: set-status <id> <status> [-yes]")
	}
	projectID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("不正なプロジェクトIDです: %s", args[0])
	}
	status := model.ProjectStatus(strings.ToUpper(args[1]))

	fs := flag.NewFlagSet("set-status", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "確認をスキップする")
	assignmentID := fs.Int64("assignment", 1, "課題ID")
	if err := fs.Parse(args[2:]); err != nil {
		return err
	}

	user, err := e.requireUser(ctx)
	if err != nil {
		return err
	}

	view := e.buildView(user, *assignmentID)
	pending, err := view.RequestStatusUpdate(ctx, projectID, status)
	if err != nil {
		return err
	}
	if pending == nil {
		fmt.Fprintln(w, "ステータスを更新しました。")
		return nil
	}

	if !*yes && !confirm(w, os.Stdin, fmt.Sprintf("プロジェクト%dを却下します。よろしいですか?", projectID)) {
		if err := pending.Cancel(ctx); err != nil {
			return err
		}
		fmt.Fprintln(w, "キャンセルしました。")
		return nil
	}
	if err := pending.Confirm(ctx); err != nil {
		return err
	}
	fmt.Fprintln(w, "ステータスを更新しました。")
	return nil
}

// runPublishAll は課題内の承認済みプロジェクトを一括公開する。
func (e *env) runPublishAll(ctx context.Context, w io.Writer, args []string) error {
	fs := flag.NewFlagSet("publish-all", flag.ContinueOnError)
	assignmentID := fs.Int64("assignment", 1, "課題ID")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := e.requireUser(ctx)
	if err != nil {
		return err
	}

	view := e.buildView(user, *assignmentID)
	if err := view.PublishAll(ctx); err != nil {
		return err
	}
	fmt.Fprintln(w, "承認済みのプロジェクトを公開しました。")
	return nil
}

// confirm はy/yesの入力で確認を取る。それ以外の入力は拒否とみなす。
func confirm(w io.Writer, r io.Reader, prompt string) bool {
	fmt.Fprintf(w, "%s [y/N]: ", prompt)
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

// parseIDArg は先頭の位置引数をIDとして解析する。
func parseIDArg(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("プロジェクトIDを指定してください")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("不正なプロジェクトIDです: %s", args[0])
	}
	return id, nil
}

// parseStatuses はカンマ区切りのステータス指定を解析する。
func parseStatuses(s string) ([]model.ProjectStatus, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var statuses []model.ProjectStatus
	for _, part := range strings.Split(s, ",") {
		status := model.ProjectStatus(strings.ToUpper(strings.TrimSpace(part)))
		if !containsStatus(model.AllProjectStatuses, status) {
			return nil, fmt.Errorf("不明なステータスです: %s", part)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// containsStatus はステータス集合に指定のステータスが含まれるかを返す。
func containsStatus(statuses []model.ProjectStatus, status model.ProjectStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

// renderProjects はプロジェクト一覧を表形式で出力する。
func renderProjects(w io.Writer, projects []model.Project) {
	if len(projects) == 0 {
		fmt.Fprintln(w, "プロジェクトはありません。")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tTEAM\tFREE")
	for _, p := range projects {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d/%d\t%d\n",
			p.ID, p.Title, p.Status, len(p.Members), p.TeamSize, p.Vacancy())
	}
	tw.Flush()
}

// renderProjectDetail はプロジェクトの詳細を出力する。
// リッチテキストの説明はHTMLタグを除去して表示する。
func renderProjectDetail(w io.Writer, p *model.Project) {
	fmt.Fprintf(w, "ID:          %d\n", p.ID)
	fmt.Fprintf(w, "Title:       %s\n", p.Title)
	fmt.Fprintf(w, "Status:      %s\n", p.Status)
	fmt.Fprintf(w, "Team:        %d/%d (空き%d)\n", len(p.Members), p.TeamSize, p.Vacancy())
	if p.CourseName != "" {
		fmt.Fprintf(w, "Course:      %s\n", p.CourseName)
	}
	if p.AssignmentName != "" {
		fmt.Fprintf(w, "Assignment:  %s\n", p.AssignmentName)
	}
	if p.ProductOwner != nil {
		fmt.Fprintf(w, "Owner:       %s\n", p.ProductOwner.FullName())
	}
	if p.RepositoryURL != "" {
		fmt.Fprintf(w, "Repository:  %s\n", p.RepositoryURL)
	}
	if desc := projectlist.PlainDescription(p); desc != "" {
		fmt.Fprintf(w, "\n%s\n", desc)
	}
	if len(p.Members) > 0 {
		fmt.Fprintln(w, "\nMembers:")
		for _, m := range p.Members {
			fmt.Fprintf(w, "  - %s\n", m.FullName())
		}
	}
}
