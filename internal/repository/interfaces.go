// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/thirdtwenty/320mag/internal/model"
)

// ArticleRepository は記事データの永続化インターフェース。
// パイプラインは挿入と重複チェックのみを行い、読み出しはサイト側の責務。
type ArticleRepository interface {
	// FindByFeaturedImage は指定のアイキャッチ画像URLを持つ既存記事を検索する。
	// 重複画像スキップのログで衝突先を特定するためID・タイトルを含めて返す。
	// 見つからない場合はnilを返す。
	FindByFeaturedImage(ctx context.Context, imageURL string) (*model.Article, error)

	// ExistsBySlug は指定スラッグの記事が存在するかを返す。
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	// Create は記事を作成する。
	Create(ctx context.Context, article *model.Article) error
}

// CategoryRow はcategoriesテーブルの参照結果を表す。
type CategoryRow struct {
	ID   string
	Name string
	Slug string
}

// CategoryRepository はカテゴリ参照のインターフェース。
// カテゴリはマイグレーションで投入される静的データであり、書き込みは提供しない。
type CategoryRepository interface {
	// FindBySlug はスラッグでカテゴリを検索する。見つからない場合はnilを返す。
	FindBySlug(ctx context.Context, slug string) (*CategoryRow, error)

	// DefaultSubcategoryID はカテゴリの既定サブカテゴリIDを返す。
	// 存在しない場合は空文字列を返す（サブカテゴリは任意）。
	DefaultSubcategoryID(ctx context.Context, categoryID string) (string, error)
}

// EditorRepository は編集者ペルソナ参照のインターフェース。
type EditorRepository interface {
	// FindByCategorySlug はカテゴリに紐づく編集者を取得する。
	// カテゴリと編集者は1:1で構成される。見つからない場合はnilを返す。
	FindByCategorySlug(ctx context.Context, categorySlug string) (*model.Editor, error)
}
