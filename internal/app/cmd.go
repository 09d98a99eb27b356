package app

// Command はアプリケーションの起動モードを表す。
type Command string

const (
	// CommandCollect は単一カテゴリの収集バッチを実行することを示す。
	// 引数: collect <category> [count]
	CommandCollect Command = "collect"
	// CommandDaily は当日のローテーショングループ分の収集を実行することを示す。
	CommandDaily Command = "daily"
	// CommandWorker は定期実行ワーカーモードで起動することを示す。
	CommandWorker Command = "worker"
	// CommandMigrate はデータベースマイグレーションを実行することを示す。
	CommandMigrate Command = "migrate"
	// CommandReport は失敗ログ・リカバリログの集計を出力することを示す。
	CommandReport Command = "report"
	// CommandHealthcheck はヘルスチェックを実行する。
	// distroless環境でのDockerヘルスチェック用。
	CommandHealthcheck Command = "healthcheck"
)

// ParseCommand はコマンドライン引数からサブコマンドを解析する。
// 引数が空またはサポート外のコマンドの場合はCommandDailyを返す。
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandDaily
	}

	switch args[0] {
	case "collect":
		return CommandCollect
	case "daily":
		return CommandDaily
	case "worker":
		return CommandWorker
	case "migrate":
		return CommandMigrate
	case "report":
		return CommandReport
	case "healthcheck":
		return CommandHealthcheck
	default:
		return CommandDaily
	}
}
