package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/thirdtwenty/320mag/internal/model"
)

// PostgresArticleRepo はPostgreSQLを使用した記事リポジトリ。
type PostgresArticleRepo struct {
	db *sql.DB
}

// NewPostgresArticleRepo はPostgresArticleRepoを生成する。
func NewPostgresArticleRepo(db *sql.DB) *PostgresArticleRepo {
	return &PostgresArticleRepo{db: db}
}

// FindByFeaturedImage は指定のアイキャッチ画像URLを持つ既存記事を検索する。
// 見つからない場合はnilを返す。
func (r *PostgresArticleRepo) FindByFeaturedImage(ctx context.Context, imageURL string) (*model.Article, error) {
	if imageURL == "" {
		return nil, nil
	}

	article := &model.Article{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, slug, featured_image_url
		 FROM articles WHERE featured_image_url = $1
		 LIMIT 1`,
		imageURL,
	).Scan(&article.ID, &article.Title, &article.Slug, &article.FeaturedImageURL)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("画像URLによる記事の検索に失敗しました: %w", err)
	}

	return article, nil
}

// ExistsBySlug は指定スラッグの記事が存在するかを返す。
func (r *PostgresArticleRepo) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM articles WHERE slug = $1)`,
		slug,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("スラッグによる記事の検索に失敗しました: %w", err)
	}
	return exists, nil
}

// Create は記事を作成する。
func (r *PostgresArticleRepo) Create(ctx context.Context, article *model.Article) error {
	additionalImages, err := json.Marshal(article.AdditionalImages)
	if err != nil {
		return fmt.Errorf("追加画像のJSON変換に失敗しました: %w", err)
	}

	var subcategoryID any
	if article.SubcategoryID != "" {
		subcategoryID = article.SubcategoryID
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO articles (
		    id, title, slug, content, excerpt,
		    category_id, subcategory_id, editor_id,
		    featured_image_url, additional_images, status,
		    published_at, created_at, updated_at
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		article.ID, article.Title, article.Slug, article.Content, article.Excerpt,
		article.CategoryID, subcategoryID, article.EditorID,
		article.FeaturedImageURL, additionalImages, article.Status,
		article.PublishedAt, article.CreatedAt, article.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("記事の挿入に失敗しました: %w", err)
	}

	return nil
}
