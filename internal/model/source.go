// Package model はドメインモデルを定義する。
package model

import "time"

// SourceType は代替ソースの取得方式を表す。
type SourceType string

const (
	// SourceTypeRSS はRSS/Atomフィード。URLが必須。
	SourceTypeRSS SourceType = "rss"
	// SourceTypeNewsAPI はNewsAPI (newsapi.org)。APIキーが必須。
	SourceTypeNewsAPI SourceType = "newsapi"
	// SourceTypeCurrents はCurrents API。APIキーが必須。
	SourceTypeCurrents SourceType = "currents"
	// SourceTypeGuardian はThe Guardian Open Platform。APIキーが必須。
	SourceTypeGuardian SourceType = "guardian"
	// SourceTypeNYT はNew York Times Article Search API。APIキーが必須。
	SourceTypeNYT SourceType = "nyt"
)

// AlternativeSource はカテゴリごとのフォールバック用ソース定義を表す。
// 同一カテゴリ内ではPriority昇順（同値は宣言順）で厳密に試行される。
type AlternativeSource struct {
	ID           string
	Name         string
	Type         SourceType
	URL          string // Type=rssの場合は必須。API系では検索クエリとして使用
	Category     string // CategoryDefinition.Slugを参照
	Priority     int    // 小さいほど先に試行される
	RequiresAuth bool
}

// FailureRecord はソース取得失敗の永続ログレコードを表す。
// 同一ソースの再失敗ではレコードを複製せず、RetryCountを単調増加させる。
type FailureRecord struct {
	SourceID      string    `json:"source_id"`
	SourceName    string    `json:"source_name"`
	Category      string    `json:"category"`
	Reason        string    `json:"reason"`
	RetryCount    int       `json:"retry_count"`
	FirstFailedAt time.Time `json:"first_failed_at"`
	LastFailedAt  time.Time `json:"last_failed_at"`
}

// RecoveryAttempt は代替ソース試行（成功・失敗とも）の永続ログレコードを表す。
// 後段の成功率レポートのために全試行を記録する。
type RecoveryAttempt struct {
	SourceID    string    `json:"source_id"`
	SourceName  string    `json:"source_name"`
	Category    string    `json:"category"`
	Success     bool      `json:"success"`
	ItemCount   int       `json:"item_count"`
	Reason      string    `json:"reason,omitempty"`
	AttemptedAt time.Time `json:"attempted_at"`
}
