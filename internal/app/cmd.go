package app

// Command はアプリケーションの起動モードを表す。
type Command string

const (
	// CommandLogin はログインしてセッションを保存することを示す。
	CommandLogin Command = "login"
	// CommandLogout はセッションを破棄することを示す。
	CommandLogout Command = "logout"
	// CommandWhoami は現在のセッションのユーザーを表示することを示す。
	CommandWhoami Command = "whoami"
	// CommandRegister は新規ユーザー登録を行うことを示す。
	CommandRegister Command = "register"
	// CommandProjects はプロジェクト一覧を表示することを示す。
	CommandProjects Command = "projects"
	// CommandProject はプロジェクト1件の詳細を表示することを示す。
	CommandProject Command = "project"
	// CommandEvents はプロジェクトの履歴イベントを表示することを示す。
	CommandEvents Command = "events"
	// CommandSetStatus はプロジェクトのステータスを変更することを示す。
	CommandSetStatus Command = "set-status"
	// CommandPublishAll は承認済みプロジェクトを一括公開することを示す。
	CommandPublishAll Command = "publish-all"
	// CommandServeStub は開発用スタブバックエンドを起動することを示す。
	CommandServeStub Command = "serve-stub"
	// CommandHelp は使い方を表示することを示す。
	CommandHelp Command = "help"
)

// ParseCommand はコマンドライン引数からサブコマンドを解析する。
// 引数が空またはサポート外のコマンドの場合はCommandHelpを返す。
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandHelp
	}

	switch args[0] {
	case "login":
		return CommandLogin
	case "logout":
		return CommandLogout
	case "whoami":
		return CommandWhoami
	case "register":
		return CommandRegister
	case "projects":
		return CommandProjects
	case "project":
		return CommandProject
	case "events":
		return CommandEvents
	case "set-status":
		return CommandSetStatus
	case "publish-all":
		return CommandPublishAll
	case "serve-stub":
		return CommandServeStub
	default:
		return CommandHelp
	}
}
