// Package model はドメインモデルを定義する。
package model

import "fmt"

// FeedParseError はフィードの取得・解析失敗を表す。
// フェッチャー内部ではリトライせず、そのまま呼び出し元へ伝播する。
// リトライの判断はフォールバック/リカバリサブシステムの責務。
type FeedParseError struct {
	URL string
	Err error
}

// Error はerrorインターフェースを実装する。
func (e *FeedParseError) Error() string {
	return fmt.Sprintf("フィードの取得・解析に失敗しました: %s: %v", e.URL, e.Err)
}

// Unwrap はラップされた元エラーを返す。
func (e *FeedParseError) Unwrap() error {
	return e.Err
}

// RewriteError はリライトエンジンの失敗を表す。
// APIキー欠落・不正、またはプロバイダ呼び出しエラー時に返される。
// エンジン内部ではリトライしない。呼び出し元（オーケストレータ）が
// 当該アイテムをスキップしてバッチを継続する。
type RewriteError struct {
	Reason string
	Err    error
}

// Error はerrorインターフェースを実装する。
func (e *RewriteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("リライトに失敗しました: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("リライトに失敗しました: %s", e.Reason)
}

// Unwrap はラップされた元エラーを返す。
func (e *RewriteError) Unwrap() error {
	return e.Err
}

// SkipReason はエラーではない意図的なスキップの理由を表す。
// バッチ結果のログで技術的失敗と区別して記録される。
type SkipReason string

const (
	// SkipReasonFiltered はガイドラインフィルタによる却下。
	SkipReasonFiltered SkipReason = "filtered"
	// SkipReasonDuplicateImage は既存記事とのアイキャッチ画像重複。
	SkipReasonDuplicateImage SkipReason = "duplicate_image"
	// SkipReasonDuplicateSlug は既存記事とのスラッグ重複（同一タイトル）。
	SkipReasonDuplicateSlug SkipReason = "duplicate_slug"
)
