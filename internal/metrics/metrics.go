// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder はメトリクス収集のインターフェース。
// パイプラインとリカバリサブシステムから利用する。
type Recorder interface {
	RecordPublished(category string)
	RecordFailed(category string)
	RecordSkipped(category string, reason string)
	RecordRecoveryAttempt(category string, success bool)
	RecordLLMLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	published        *prometheus.CounterVec
	failed           *prometheus.CounterVec
	skipped          *prometheus.CounterVec
	recoveryAttempts *prometheus.CounterVec
	llmLatency       prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mag320_articles_published_total",
			Help: "公開された記事の合計数",
		}, []string{"category"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mag320_items_failed_total",
			Help: "処理に失敗したアイテムの合計数",
		}, []string{"category"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mag320_items_skipped_total",
			Help: "スキップされたアイテムの理由別合計数",
		}, []string{"category", "reason"}),
		recoveryAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mag320_recovery_attempts_total",
			Help: "代替ソース試行の成否別合計数",
		}, []string{"category", "success"}),
		llmLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mag320_llm_latency_seconds",
			Help:    "LLM呼び出しのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.published,
		c.failed,
		c.skipped,
		c.recoveryAttempts,
		c.llmLatency,
	)

	return c
}

// RecordPublished は記事の公開を記録する。
func (c *Collector) RecordPublished(category string) {
	c.published.WithLabelValues(category).Inc()
}

// RecordFailed はアイテム処理の失敗を記録する。
func (c *Collector) RecordFailed(category string) {
	c.failed.WithLabelValues(category).Inc()
}

// RecordSkipped はアイテムのスキップを理由付きで記録する。
func (c *Collector) RecordSkipped(category string, reason string) {
	c.skipped.WithLabelValues(category, reason).Inc()
}

// RecordRecoveryAttempt は代替ソース試行を成否付きで記録する。
func (c *Collector) RecordRecoveryAttempt(category string, success bool) {
	c.recoveryAttempts.WithLabelValues(category, strconv.FormatBool(success)).Inc()
}

// RecordLLMLatency はLLM呼び出しのレイテンシを記録する。
func (c *Collector) RecordLLMLatency(duration time.Duration) {
	c.llmLatency.Observe(duration.Seconds())
}

// NopRecorder は何も記録しないRecorder実装。テスト用。
type NopRecorder struct{}

func (NopRecorder) RecordPublished(string)             {}
func (NopRecorder) RecordFailed(string)                {}
func (NopRecorder) RecordSkipped(string, string)       {}
func (NopRecorder) RecordRecoveryAttempt(string, bool) {}
func (NopRecorder) RecordLLMLatency(time.Duration)     {}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
