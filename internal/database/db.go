package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Open は記事保存用のPostgreSQL接続プールを開く。
// 収集バッチはcronで起動されるたびに新しい接続を張るので、
// プールは一回の実行で使い切れる小さいサイズに制限する。
// sql.Openは接続を確立しないため、起動時の疎通確認は呼び出し側が
// db.Ping()で行う。
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// パイプラインは逐次処理なので同時接続はほぼ1本で足りる
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
