package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/thirdtwenty/320mag/internal/model"
)

// PostgresEditorRepo はPostgreSQLを使用した編集者リポジトリ。
type PostgresEditorRepo struct {
	db *sql.DB
}

// NewPostgresEditorRepo はPostgresEditorRepoを生成する。
func NewPostgresEditorRepo(db *sql.DB) *PostgresEditorRepo {
	return &PostgresEditorRepo{db: db}
}

// FindByCategorySlug はカテゴリに紐づく編集者を取得する。見つからない場合はnilを返す。
func (r *PostgresEditorRepo) FindByCategorySlug(ctx context.Context, categorySlug string) (*model.Editor, error) {
	editor := &model.Editor{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, category_slug, profile, created_at
		 FROM editors WHERE category_slug = $1`,
		categorySlug,
	).Scan(&editor.ID, &editor.Name, &editor.CategorySlug, &editor.Profile, &editor.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("編集者の検索に失敗しました: %w", err)
	}

	return editor, nil
}
