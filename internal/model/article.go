// Package model はドメインモデルを定義する。
package model

import "time"

// RewrittenArticle はリライトエンジンの出力を表す。永続化されるまでの一時データ。
// 本文・抜粋の文字数制約はプロンプト指示による努力目標であり、
// ここではハードバリデーションしない。
type RewrittenArticle struct {
	Title            string
	Excerpt          string   // 目標100〜150文字
	Body             string   // 目標1500〜2000文字
	EditorID         string
	EditorName       string
	AdditionalImages []string // 任意。リライト元が複数画像を持つ場合のみ
}

// ArticleStatus は記事の公開状態を表す。
type ArticleStatus string

const (
	// ArticleStatusPublished は公開済み状態。パイプラインは公開状態で挿入する。
	ArticleStatusPublished ArticleStatus = "published"
	// ArticleStatusDraft は下書き状態。
	ArticleStatusDraft ArticleStatus = "draft"
)

// Article はarticlesテーブルの1行を表す。
// featured_image_urlの一意性はDB制約ではなく、挿入前のルックアップで
// オーケストレータが保証する。
type Article struct {
	ID               string
	Title            string
	Slug             string // タイトル由来。小文字化し非英数字の連続を'-'に畳む
	Content          string
	Excerpt          string
	CategoryID       string
	SubcategoryID    string // 未解決の場合は空
	EditorID         string
	FeaturedImageURL string
	AdditionalImages []string // JSON配列として保存
	Status           ArticleStatus
	PublishedAt      time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Editor はカテゴリに1:1で紐づく編集者ペルソナを表す。
// リライトエンジンのプロンプトをパラメータ化する文体プロファイルを持つ。
type Editor struct {
	ID           string
	Name         string
	CategorySlug string
	Profile      string // 文体・視点の指示文
	CreatedAt    time.Time
}

// Subcategory はカテゴリ配下の小分類を表す。
type Subcategory struct {
	ID         string
	CategoryID string
	Name       string
	Slug       string
}
