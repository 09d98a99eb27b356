// Package app はアプリケーションの初期化と起動を提供する。
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/thirdtwenty/320mag/internal/classify"
	"github.com/thirdtwenty/320mag/internal/config"
	"github.com/thirdtwenty/320mag/internal/database"
	"github.com/thirdtwenty/320mag/internal/feed"
	"github.com/thirdtwenty/320mag/internal/guideline"
	"github.com/thirdtwenty/320mag/internal/image"
	"github.com/thirdtwenty/320mag/internal/llm"
	"github.com/thirdtwenty/320mag/internal/logger"
	"github.com/thirdtwenty/320mag/internal/metrics"
	"github.com/thirdtwenty/320mag/internal/model"
	"github.com/thirdtwenty/320mag/internal/pipeline"
	"github.com/thirdtwenty/320mag/internal/recovery"
	"github.com/thirdtwenty/320mag/internal/repository"
	"github.com/thirdtwenty/320mag/internal/rewrite"
	"github.com/thirdtwenty/320mag/internal/schedule"
	"github.com/thirdtwenty/320mag/internal/security"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
	)

	switch cmd {
	case CommandCollect:
		return runCollect(cfg, args[1:])
	case CommandDaily:
		return runDaily(cfg)
	case CommandWorker:
		return runWorker(cfg)
	case CommandMigrate:
		return runMigrate(cfg)
	case CommandReport:
		return runReport(cfg, w)
	default:
		return runDaily(cfg)
	}
}

// deps はサブコマンド間で共有されるワイヤリング済みの依存関係。
type deps struct {
	db           *sql.DB
	orchestrator *pipeline.Orchestrator
	attemptLog   *recovery.AttemptLog
	registry     *prometheus.Registry
}

// buildDeps はDB接続を開き、パイプライン全体の依存関係をワイヤリングする。
func buildDeps(cfg *config.Config) (*deps, error) {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	slog.Info("database connection established")

	// 2. リポジトリの初期化
	articleRepo := repository.NewPostgresArticleRepo(db)
	categoryRepo := repository.NewPostgresCategoryRepo(db)
	editorRepo := repository.NewPostgresEditorRepo(db)

	// 3. セキュリティサービスの初期化
	ssrfGuard := security.NewSSRFGuard()
	sanitizer := security.NewContentSanitizer()

	// 4. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 5. 収集・リカバリ層の初期化
	fetcher := feed.NewFetcher(ssrfGuard, sanitizer, slog.Default(), cfg.FetchTimeout, cfg.FetchMaxSize)
	apiFetchers := recovery.NewAPIFetchers(recovery.APIKeys{
		NewsAPI:  cfg.NewsAPIKey,
		Currents: cfg.CurrentsAPIKey,
		Guardian: cfg.GuardianAPIKey,
		NYT:      cfg.NYTAPIKey,
	}, cfg.FetchTimeout)
	failureLog := recovery.NewFailureLog(recovery.NewFileStore[model.FailureRecord](cfg.FailureLogPath))
	attemptLog := recovery.NewAttemptLog(recovery.NewFileStore[model.RecoveryAttempt](cfg.RecoveryLogPath))
	subsystem := recovery.NewSubsystem(fetcher, apiFetchers, failureLog, attemptLog, collector, slog.Default())

	// 6. LLM層の初期化
	claude := llm.NewClaudeClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.AnthropicTimeout, slog.Default())
	classifier := classify.NewClassifier(claude, slog.Default())
	engine := rewrite.NewEngine(claude, slog.Default())

	// 7. 画像解決の初期化
	resolver := image.NewResolver(ssrfGuard, slog.Default(), cfg.ScrapeTimeout)

	// 8. オーケストレータの組み立て
	orchestrator := pipeline.NewOrchestrator(pipeline.Config{
		Collector:        subsystem,
		Classifier:       classifier,
		Filter:           guideline.NewFilter(),
		Engine:           engine,
		Resolver:         resolver,
		ArticleRepo:      articleRepo,
		CategoryRepo:     categoryRepo,
		EditorRepo:       editorRepo,
		Limiter:          rate.NewLimiter(rate.Every(cfg.RequestDelay), 1),
		Metrics:          collector,
		Logger:           slog.Default(),
		BufferMultiplier: cfg.BufferMultiplier,
		MaxAttempts:      cfg.MaxAttempts,
	})

	return &deps{
		db:           db,
		orchestrator: orchestrator,
		attemptLog:   attemptLog,
		registry:     registry,
	}, nil
}

// runCollect は単一カテゴリの収集バッチを実行する。
// 引数: collect <category> [count]
func runCollect(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: collect <category> [count] (categories: %v)", model.CategorySlugs())
	}
	category := args[0]

	count := 1
	if len(args) >= 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			return fmt.Errorf("件数の指定が不正です: %s", args[1])
		}
		count = n
	}

	d, err := buildDeps(cfg)
	if err != nil {
		return err
	}
	defer d.db.Close()

	ctx, cancel := signalContext()
	defer cancel()

	result, err := d.orchestrator.CollectCategory(ctx, category, count)
	if err != nil {
		return err
	}
	return checkBatchOutcome(result)
}

// runDaily は当日のローテーショングループ分の収集を実行する。
// グループ内の1カテゴリの失敗は残りのカテゴリの実行を妨げない。
func runDaily(cfg *config.Config) error {
	d, err := buildDeps(cfg)
	if err != nil {
		return err
	}
	defer d.db.Close()

	ctx, cancel := signalContext()
	defer cancel()

	return collectToday(ctx, d.orchestrator)
}

// collectToday は当日のローテーションタスクを順番に実行する。
func collectToday(ctx context.Context, orch *pipeline.Orchestrator) error {
	tasks := schedule.ForDate(time.Now())

	var failed []string
	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := orch.CollectCategory(ctx, task.Category, task.Count)
		if err != nil {
			slog.Error("カテゴリの収集に失敗しました", "category", task.Category, "error", err)
			failed = append(failed, task.Category)
			continue
		}
		if err := checkBatchOutcome(result); err != nil {
			failed = append(failed, task.Category)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("一部カテゴリの収集に失敗しました: %v", failed)
	}
	return nil
}

// checkBatchOutcome はバッチ結果の成否を判定する。
// 失敗件数が成功件数以上の場合はエラーを返す（終了コードを非ゼロにする）。
func checkBatchOutcome(result *pipeline.BatchResult) error {
	if result.Failed > 0 && result.Failed >= result.Success {
		return fmt.Errorf("カテゴリ %s のバッチが失敗しました: success=%d failed=%d",
			result.Category, result.Success, result.Failed)
	}
	return nil
}

// runWorker はワーカーモードで起動する。
// 日次収集を一定間隔で繰り返し実行し、ヘルスチェック・メトリクス用の
// HTTPサーバーを公開する。SIGINTまたはSIGTERMでシャットダウンする。
func runWorker(cfg *config.Config) error {
	d, err := buildDeps(cfg)
	if err != nil {
		return err
	}
	defer d.db.Close()

	ctx, cancel := signalContext()
	defer cancel()

	// HTTPサーバーをバックグラウンドで起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      newWorkerRouter(d.db, d.registry),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		slog.Info("worker HTTP server starting", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	slog.Info("worker starting", slog.Duration("interval", cfg.WorkerInterval))

	// 起動直後に1回実行し、以降は間隔ごとに繰り返す
	if err := collectToday(ctx, d.orchestrator); err != nil {
		slog.Error("daily collection failed", slog.String("error", err.Error()))
	}

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			if err := collectToday(ctx, d.orchestrator); err != nil {
				slog.Error("daily collection failed", slog.String("error", err.Error()))
			}
		}
	}

	slog.Info("shutting down worker...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("worker stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runReport はリカバリログからカテゴリ別の成功率を集計して出力する。
func runReport(cfg *config.Config, w io.Writer) error {
	attemptLog := recovery.NewAttemptLog(recovery.NewFileStore[model.RecoveryAttempt](cfg.RecoveryLogPath))
	attempts, err := attemptLog.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read recovery log: %w", err)
	}
	if len(attempts) == 0 {
		fmt.Fprintln(w, "リカバリ試行の記録はありません")
		return nil
	}

	rates := recovery.SuccessRateByCategory(attempts)

	categories := make([]string, 0, len(rates))
	for category := range rates {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	fmt.Fprintf(w, "リカバリ試行: %d件\n", len(attempts))
	for _, category := range categories {
		fmt.Fprintf(w, "  %-12s 成功率 %.0f%%\n", category, rates[category]*100)
	}
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// signalContext はSIGINT/SIGTERMでキャンセルされるコンテキストを返す。
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		cancel()
	}()

	return ctx, cancel
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
