package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresCategoryRepo はPostgreSQLを使用したカテゴリリポジトリ。
type PostgresCategoryRepo struct {
	db *sql.DB
}

// NewPostgresCategoryRepo はPostgresCategoryRepoを生成する。
func NewPostgresCategoryRepo(db *sql.DB) *PostgresCategoryRepo {
	return &PostgresCategoryRepo{db: db}
}

// FindBySlug はスラッグでカテゴリを検索する。見つからない場合はnilを返す。
func (r *PostgresCategoryRepo) FindBySlug(ctx context.Context, slug string) (*CategoryRow, error) {
	row := &CategoryRow{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, slug FROM categories WHERE slug = $1`,
		slug,
	).Scan(&row.ID, &row.Name, &row.Slug)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("カテゴリの検索に失敗しました: %w", err)
	}

	return row, nil
}

// DefaultSubcategoryID はカテゴリの既定サブカテゴリIDを返す。
// 存在しない場合は空文字列を返す。
func (r *PostgresCategoryRepo) DefaultSubcategoryID(ctx context.Context, categoryID string) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM subcategories
		 WHERE category_id = $1 AND slug = 'general'
		 LIMIT 1`,
		categoryID,
	).Scan(&id)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("サブカテゴリの検索に失敗しました: %w", err)
	}

	return id, nil
}
