// Package model はドメインモデルを定義する。
package model

import "time"

// RawItem はフィードパーサーが生成する正規化済みの未加工記事を表す。
// フェッチごとに生成され、オーケストレータで消費された後は破棄される
// （生データは永続化しない）。
type RawItem struct {
	Title       string
	BodySnippet string // HTMLを除去したテキスト断片
	SourceURL   string
	PublishedAt time.Time

	// EmbeddedImageCandidates は発見優先順に並んだ画像URL候補（重複除去済み）。
	// 優先順: media:content > media:thumbnail > enclosure > インラインimg >
	// itunes:image > 汎用imageフィールド。
	EmbeddedImageCandidates []string
}

// HasImageCandidate は埋め込み画像候補を1つ以上持つかを返す。
// オーケストレータの早期重複チェックの可否判定に使用する。
func (r *RawItem) HasImageCandidate() bool {
	return len(r.EmbeddedImageCandidates) > 0
}

// FirstImageCandidate は最優先の画像候補を返す。候補がない場合は空文字列。
func (r *RawItem) FirstImageCandidate() string {
	if len(r.EmbeddedImageCandidates) == 0 {
		return ""
	}
	return r.EmbeddedImageCandidates[0]
}
