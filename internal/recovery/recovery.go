package recovery

import (
	"context"
	"log/slog"
	"time"

	"github.com/thirdtwenty/320mag/internal/metrics"
	"github.com/thirdtwenty/320mag/internal/model"
)

// FeedFetcher はRSSフィードの取得インターフェース。
type FeedFetcher interface {
	Fetch(ctx context.Context, feedURL string) ([]model.RawItem, error)
}

// Subsystem はソース障害時のフォールバック収集を統括する。
// 一次ソースの失敗・不足時に、カテゴリの代替ソースをPriority順に
// 試行し、必要件数に達するまでアイテムを蓄積する。
type Subsystem struct {
	feed        FeedFetcher
	apiFetchers map[model.SourceType]APIFetcher
	failureLog  *FailureLog
	attemptLog  *AttemptLog
	metrics     metrics.Recorder
	logger      *slog.Logger
}

// NewSubsystem はSubsystemを生成する。
func NewSubsystem(feed FeedFetcher, apiFetchers map[model.SourceType]APIFetcher, failureLog *FailureLog, attemptLog *AttemptLog, recorder metrics.Recorder, logger *slog.Logger) *Subsystem {
	return &Subsystem{
		feed:        feed,
		apiFetchers: apiFetchers,
		failureLog:  failureLog,
		attemptLog:  attemptLog,
		metrics:     recorder,
		logger:      logger,
	}
}

// CollectWithRetry は一次ソースから収集し、失敗または件数不足の場合に
// 代替ソースへフォールバックする。収集できたアイテムを返し、
// 一次・代替すべてが尽きても空のまま返す（エラーにはしない）。
func (s *Subsystem) CollectWithRetry(ctx context.Context, primary model.AlternativeSource, need int) []model.RawItem {
	items, err := s.feed.Fetch(ctx, primary.URL)
	if err != nil {
		s.logger.Warn("一次ソースの取得に失敗しました", "source", primary.Name, "category", primary.Category, "error", err)
		s.recordFailure(primary, err.Error())
	}

	if len(items) >= need {
		return items
	}

	s.logger.Info("一次ソースの件数が不足、代替ソースへフォールバックします",
		"category", primary.Category, "got", len(items), "need", need)
	recovered := s.AttemptRecovery(ctx, primary.Category, need-len(items))
	return append(items, recovered...)
}

// AttemptRecovery はカテゴリの代替ソースをPriority昇順に試行し、
// 必要件数に達するまでアイテムを蓄積する。各試行は成功・失敗とも
// 試行ログへ記録される。全ソースが尽きた場合は集まった分だけ返す。
func (s *Subsystem) AttemptRecovery(ctx context.Context, category string, need int) []model.RawItem {
	var collected []model.RawItem

	for _, src := range AlternativesFor(category) {
		if len(collected) >= need {
			break
		}

		items, reason := s.fetchAlternative(ctx, src)
		success := reason == "" && len(items) > 0
		if reason == "" && len(items) == 0 {
			reason = "アイテムが0件でした"
		}

		s.metrics.RecordRecoveryAttempt(category, success)
		s.appendAttempt(model.RecoveryAttempt{
			SourceID:    src.ID,
			SourceName:  src.Name,
			Category:    category,
			Success:     success,
			ItemCount:   len(items),
			Reason:      reason,
			AttemptedAt: time.Now(),
		})

		if !success {
			s.logger.Warn("代替ソースの試行に失敗しました", "source", src.Name, "category", category, "reason", reason)
			s.recordFailure(src, reason)
			continue
		}

		s.logger.Info("代替ソースから収集しました", "source", src.Name, "category", category, "count", len(items))
		collected = append(collected, items...)
	}

	if len(collected) < need {
		s.logger.Warn("代替ソースを使い切りましたが必要件数に達しませんでした",
			"category", category, "got", len(collected), "need", need)
	}
	return collected
}

// fetchAlternative は単一の代替ソースから取得する。
// 失敗理由が空文字列なら成功。
func (s *Subsystem) fetchAlternative(ctx context.Context, src model.AlternativeSource) ([]model.RawItem, string) {
	if src.Type == model.SourceTypeRSS {
		items, err := s.feed.Fetch(ctx, src.URL)
		if err != nil {
			return nil, err.Error()
		}
		return items, ""
	}

	fetcher, ok := s.apiFetchers[src.Type]
	if !ok {
		// APIキー未設定のソースは失敗ではなくスキップとして記録する
		return nil, "APIキーが未設定のためスキップしました"
	}
	items, err := fetcher.FetchCategory(ctx, src)
	if err != nil {
		return nil, err.Error()
	}
	return items, ""
}

func (s *Subsystem) recordFailure(src model.AlternativeSource, reason string) {
	if err := s.failureLog.RecordFailure(src.ID, src.Name, src.Category, reason); err != nil {
		s.logger.Error("失敗ログの記録に失敗しました", "source", src.Name, "error", err)
	}
}

func (s *Subsystem) appendAttempt(attempt model.RecoveryAttempt) {
	if err := s.attemptLog.Append(attempt); err != nil {
		s.logger.Error("試行ログの記録に失敗しました", "source", attempt.SourceName, "error", err)
	}
}

// SuccessRateByCategory は試行ログからカテゴリごとの成功率を集計する。
// reportサブコマンドで使用する。
func SuccessRateByCategory(attempts []model.RecoveryAttempt) map[string]float64 {
	total := make(map[string]int)
	succeeded := make(map[string]int)
	for _, a := range attempts {
		total[a.Category]++
		if a.Success {
			succeeded[a.Category]++
		}
	}

	rates := make(map[string]float64, len(total))
	for category, n := range total {
		rates[category] = float64(succeeded[category]) / float64(n)
	}
	return rates
}
