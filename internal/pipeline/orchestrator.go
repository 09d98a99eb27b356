// Package pipeline は収集からリライト・永続化までの一連の処理を統括する。
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/thirdtwenty/320mag/internal/guideline"
	"github.com/thirdtwenty/320mag/internal/image"
	"github.com/thirdtwenty/320mag/internal/metrics"
	"github.com/thirdtwenty/320mag/internal/model"
	"github.com/thirdtwenty/320mag/internal/recovery"
	"github.com/thirdtwenty/320mag/internal/repository"
	"github.com/thirdtwenty/320mag/internal/rewrite"
)

// Rewriter はリライトエンジンのインターフェース。
type Rewriter interface {
	Rewrite(ctx context.Context, input rewrite.Input) (*model.RewrittenArticle, error)
}

// Categorizer は記事分類のインターフェース。
type Categorizer interface {
	Classify(ctx context.Context, title, body, fallbackCategory string) string
}

// ImageResolver はアイキャッチ画像解決のインターフェース。
type ImageResolver interface {
	Resolve(ctx context.Context, req image.Request) string
}

// Collector は一次・代替ソースからの収集インターフェース。
type Collector interface {
	CollectWithRetry(ctx context.Context, primary model.AlternativeSource, need int) []model.RawItem
}

// ItemError はバッチ内の単一アイテム処理失敗を表す。
type ItemError struct {
	Title string
	Err   error
}

// BatchResult は1カテゴリ分のバッチ処理結果を表す。
// 個別アイテムの失敗はバッチを中断せず、ここへ集約される。
// Failedは公開に至らなかったアイテムの総数（技術的失敗と意図的スキップの両方）。
// Skippedはそのうち意図的スキップの理由別内訳、Errorsは技術的失敗の詳細。
type BatchResult struct {
	Category  string
	Requested int
	Success   int
	Failed    int
	Skipped   map[model.SkipReason]int
	Errors    []ItemError
}

// Fulfilled は要求件数を満たしたかを返す。
func (r *BatchResult) Fulfilled() bool {
	return r.Success >= r.Requested
}

// Orchestrator はパイプライン全体の逐次実行を統括する。
// アイテムは1件ずつ処理され、並行処理は行わない。
type Orchestrator struct {
	collector   Collector
	classifier  Categorizer
	filter      *guideline.Filter
	engine      Rewriter
	resolver    ImageResolver
	articleRepo repository.ArticleRepository
	categories  repository.CategoryRepository
	editors     repository.EditorRepository
	limiter     *rate.Limiter
	metrics     metrics.Recorder
	logger      *slog.Logger

	bufferMultiplier int
	maxAttempts      int
}

// Config はOrchestratorの生成パラメータ。
type Config struct {
	Collector        Collector
	Classifier       Categorizer
	Filter           *guideline.Filter
	Engine           Rewriter
	Resolver         ImageResolver
	ArticleRepo      repository.ArticleRepository
	CategoryRepo     repository.CategoryRepository
	EditorRepo       repository.EditorRepository
	Limiter          *rate.Limiter
	Metrics          metrics.Recorder
	Logger           *slog.Logger
	BufferMultiplier int
	MaxAttempts      int
}

// NewOrchestrator はOrchestratorを生成する。
func NewOrchestrator(cfg Config) *Orchestrator {
	if cfg.BufferMultiplier <= 0 {
		cfg.BufferMultiplier = 3
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 50
	}
	return &Orchestrator{
		collector:        cfg.Collector,
		classifier:       cfg.Classifier,
		filter:           cfg.Filter,
		engine:           cfg.Engine,
		resolver:         cfg.Resolver,
		articleRepo:      cfg.ArticleRepo,
		categories:       cfg.CategoryRepo,
		editors:          cfg.EditorRepo,
		limiter:          cfg.Limiter,
		metrics:          cfg.Metrics,
		logger:           cfg.Logger,
		bufferMultiplier: cfg.BufferMultiplier,
		maxAttempts:      cfg.MaxAttempts,
	}
}

// CollectCategory は指定カテゴリの記事をcount件公開するまでバッチを実行する。
// フィルタ・重複・リライト失敗によるアイテム脱落を見込み、要求件数の
// BufferMultiplier倍（MaxAttempts上限）まで候補を収集する。
// 要求件数に達した時点で残りの候補は処理せず終了する。
func (o *Orchestrator) CollectCategory(ctx context.Context, category string, count int) (*BatchResult, error) {
	if !model.IsValidCategory(category) {
		return nil, fmt.Errorf("未定義のカテゴリです: %s", category)
	}
	if count <= 0 {
		return nil, fmt.Errorf("要求件数は1以上である必要があります: %d", count)
	}

	primary, ok := recovery.PrimarySourceFor(category)
	if !ok {
		return nil, fmt.Errorf("カテゴリ %s の一次ソースが定義されていません", category)
	}

	need := count * o.bufferMultiplier
	if need > o.maxAttempts {
		need = o.maxAttempts
	}

	o.logger.Info("バッチ収集を開始します", "category", category, "requested", count, "buffer", need)
	items := o.collector.CollectWithRetry(ctx, primary, need)

	// バッファはLLM呼び出しの試行上限でもある。フィードが多くの記事を
	// 返しても、バッファを超える候補は処理しない。
	if len(items) > need {
		o.logger.Info("収集件数がバッファを超えたため切り詰めます",
			"category", category, "collected", len(items), "buffer", need)
		items = items[:need]
	}

	result := &BatchResult{
		Category:  category,
		Requested: count,
		Skipped:   make(map[model.SkipReason]int),
	}

	for i := range items {
		if result.Success >= count {
			o.logger.Info("要求件数に達したため残りの候補をスキップします",
				"category", category, "remaining", len(items)-i)
			break
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		o.processItem(ctx, &items[i], category, result)
	}

	o.logger.Info("バッチ収集が完了しました",
		"category", category,
		"requested", count,
		"success", result.Success,
		"failed", result.Failed,
		"filtered", result.Skipped[model.SkipReasonFiltered],
		"duplicate_image", result.Skipped[model.SkipReasonDuplicateImage],
		"duplicate_slug", result.Skipped[model.SkipReasonDuplicateSlug],
	)
	return result, nil
}

// processItem は単一アイテムを処理する。失敗はresultへ集約し、panicさせない。
func (o *Orchestrator) processItem(ctx context.Context, item *model.RawItem, requestedCategory string, result *BatchResult) {
	// LLMプロバイダのレート制限に合わせて処理間隔を空ける
	if err := o.limiter.Wait(ctx); err != nil {
		o.recordFailure(result, item.Title, err)
		return
	}

	// 埋め込み画像候補がある場合はリライト前に重複を検出してLLM呼び出しを節約する
	if candidate := item.FirstImageCandidate(); candidate != "" && image.IsLikelyImageURL(candidate) {
		existing, err := o.articleRepo.FindByFeaturedImage(ctx, candidate)
		if err != nil {
			o.recordFailure(result, item.Title, err)
			return
		}
		if existing != nil {
			o.recordSkip(result, item, model.SkipReasonDuplicateImage,
				"existing_id", existing.ID, "existing_title", existing.Title)
			return
		}
	}

	classifyStart := time.Now()
	category := o.classifier.Classify(ctx, item.Title, item.BodySnippet, requestedCategory)
	o.metrics.RecordLLMLatency(time.Since(classifyStart))

	if fr := o.filter.ShouldFilter(item.Title, item.BodySnippet, category); fr.Reject {
		o.recordSkip(result, item, model.SkipReasonFiltered, "reason", fr.Reason)
		return
	}

	editor, err := o.editors.FindByCategorySlug(ctx, category)
	if err != nil {
		o.recordFailure(result, item.Title, err)
		return
	}
	if editor == nil {
		o.recordFailure(result, item.Title, fmt.Errorf("カテゴリ %s に編集者が設定されていません", category))
		return
	}

	rewriteStart := time.Now()
	rewritten, err := o.engine.Rewrite(ctx, rewrite.Input{
		Content:       item.BodySnippet,
		Category:      category,
		OriginalTitle: item.Title,
		OriginalURL:   item.SourceURL,
		HasImage:      item.HasImageCandidate(),
		Editor:        editor,
	})
	o.metrics.RecordLLMLatency(time.Since(rewriteStart))
	if err != nil {
		o.recordFailure(result, item.Title, err)
		return
	}

	// リライト結果の表現チェック。警告のみで公開は止めない。
	for _, warning := range o.filter.Validate(rewritten.Title, rewritten.Body) {
		o.logger.Warn("リライト結果に避けるべき表現があります",
			"title", rewritten.Title, "warning", warning)
	}

	articleID := uuid.NewString()
	featuredURL := o.resolver.Resolve(ctx, image.Request{
		Candidates: item.EmbeddedImageCandidates,
		Category:   category,
		Title:      rewritten.Title,
		Body:       rewritten.Body,
		SourceURL:  item.SourceURL,
		ArticleID:  articleID,
	})

	// 解決後のURLで再度重複チェックする。スクレイプやストック写真で
	// 既存記事と同一URLに解決される場合があるため、挿入直前にも確認する。
	existing, err := o.articleRepo.FindByFeaturedImage(ctx, featuredURL)
	if err != nil {
		o.recordFailure(result, item.Title, err)
		return
	}
	if existing != nil {
		o.recordSkip(result, item, model.SkipReasonDuplicateImage,
			"existing_id", existing.ID, "existing_title", existing.Title)
		return
	}

	slug := Slugify(rewritten.Title)
	exists, err := o.articleRepo.ExistsBySlug(ctx, slug)
	if err != nil {
		o.recordFailure(result, item.Title, err)
		return
	}
	if exists {
		// 同名タイトルの別記事は決定的なサフィックスで衝突を回避する。
		// サフィックス付きでも存在する場合は同一の元記事の再処理とみなす。
		slug = WithCollisionSuffix(slug, item.SourceURL)
		exists, err = o.articleRepo.ExistsBySlug(ctx, slug)
		if err != nil {
			o.recordFailure(result, item.Title, err)
			return
		}
		if exists {
			o.recordSkip(result, item, model.SkipReasonDuplicateSlug, "slug", slug)
			return
		}
	}

	categoryRow, err := o.categories.FindBySlug(ctx, category)
	if err != nil {
		o.recordFailure(result, item.Title, err)
		return
	}
	if categoryRow == nil {
		o.recordFailure(result, item.Title, fmt.Errorf("カテゴリ %s がデータベースに存在しません", category))
		return
	}
	subcategoryID, err := o.categories.DefaultSubcategoryID(ctx, categoryRow.ID)
	if err != nil {
		o.recordFailure(result, item.Title, err)
		return
	}

	now := time.Now()
	article := &model.Article{
		ID:               articleID,
		Title:            rewritten.Title,
		Slug:             slug,
		Content:          rewritten.Body,
		Excerpt:          rewritten.Excerpt,
		CategoryID:       categoryRow.ID,
		SubcategoryID:    subcategoryID,
		EditorID:         editor.ID,
		FeaturedImageURL: featuredURL,
		AdditionalImages: rewritten.AdditionalImages,
		Status:           model.ArticleStatusPublished,
		PublishedAt:      now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := o.articleRepo.Create(ctx, article); err != nil {
		o.recordFailure(result, item.Title, err)
		return
	}

	result.Success++
	o.metrics.RecordPublished(category)
	o.logger.Info("記事を公開しました",
		"id", article.ID, "category", category, "slug", slug, "title", article.Title)
}

func (o *Orchestrator) recordFailure(result *BatchResult, title string, err error) {
	result.Failed++
	result.Errors = append(result.Errors, ItemError{Title: title, Err: err})
	o.metrics.RecordFailed(result.Category)
	o.logger.Warn("アイテムの処理に失敗しました", "title", title, "error", err)
}

// recordSkip は意図的スキップを記録する。スキップも公開に至らなかった
// アイテムとしてFailedに計上するが、理由はErrorsではなくSkippedで区別する。
func (o *Orchestrator) recordSkip(result *BatchResult, item *model.RawItem, reason model.SkipReason, attrs ...any) {
	result.Failed++
	result.Skipped[reason]++
	o.metrics.RecordSkipped(result.Category, string(reason))
	args := append([]any{"title", item.Title, "skip_reason", string(reason)}, attrs...)
	o.logger.Info("アイテムをスキップしました", args...)
}
