// Package recovery はソース障害時のフォールバックと失敗記録を提供する。
package recovery

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/thirdtwenty/320mag/internal/model"
)

// Store はログレコード列の永続化インターフェース。
// テストではインメモリ実装を、本番ではJSONファイル実装を注入する。
// パイプラインは単一プロセス・逐次実行なので排他制御は最小限でよい。
type Store[T any] interface {
	// ReadAll は全レコードを読み込む。ファイル未作成の場合は空リストを返す。
	ReadAll() ([]T, error)
	// WriteAll は全レコードを書き直す（追記ではなく全体の書き換え）。
	WriteAll(records []T) error
}

// FileStore はJSONファイルを使用したStore実装。
// 追記のたびに配列全体を読み込み・書き直す（read-modify-write）。
type FileStore[T any] struct {
	path string
	mu   sync.Mutex
}

// NewFileStore はFileStoreを生成する。
func NewFileStore[T any](path string) *FileStore[T] {
	return &FileStore[T]{path: path}
}

// ReadAll は全レコードを読み込む。
func (s *FileStore[T]) ReadAll() ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

func (s *FileStore[T]) readLocked() ([]T, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ログファイルの読み込みに失敗しました: %s: %w", s.path, err)
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("ログファイルの解析に失敗しました: %s: %w", s.path, err)
	}
	return records, nil
}

// WriteAll は全レコードを書き直す。
func (s *FileStore[T]) WriteAll(records []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("ログレコードのJSON変換に失敗しました: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("ログファイルの書き込みに失敗しました: %s: %w", s.path, err)
	}
	return nil
}

// MemoryStore はインメモリのStore実装。テスト用。
type MemoryStore[T any] struct {
	mu      sync.Mutex
	records []T
}

// NewMemoryStore はMemoryStoreを生成する。
func NewMemoryStore[T any]() *MemoryStore[T] {
	return &MemoryStore[T]{}
}

// ReadAll は全レコードを読み込む。
func (s *MemoryStore[T]) ReadAll() ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.records))
	copy(out, s.records)
	return out, nil
}

// WriteAll は全レコードを書き直す。
func (s *MemoryStore[T]) WriteAll(records []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make([]T, len(records))
	copy(s.records, records)
	return nil
}

// FailureLog はソース取得失敗の永続ログ。
// 同一ソースの再失敗ではレコードを複製せず、RetryCountを単調増加させる。
type FailureLog struct {
	store Store[model.FailureRecord]
}

// NewFailureLog はFailureLogを生成する。
func NewFailureLog(store Store[model.FailureRecord]) *FailureLog {
	return &FailureLog{store: store}
}

// RecordFailure は失敗を記録する。既存レコードがあればRetryCountを増やす。
func (l *FailureLog) RecordFailure(sourceID, sourceName, category, reason string) error {
	records, err := l.store.ReadAll()
	if err != nil {
		return err
	}

	now := time.Now()
	for i := range records {
		if records[i].SourceID == sourceID {
			records[i].RetryCount++
			records[i].Reason = reason
			records[i].LastFailedAt = now
			return l.store.WriteAll(records)
		}
	}

	records = append(records, model.FailureRecord{
		SourceID:      sourceID,
		SourceName:    sourceName,
		Category:      category,
		Reason:        reason,
		RetryCount:    0,
		FirstFailedAt: now,
		LastFailedAt:  now,
	})
	return l.store.WriteAll(records)
}

// ReadAll は全失敗レコードを返す。
func (l *FailureLog) ReadAll() ([]model.FailureRecord, error) {
	return l.store.ReadAll()
}

// AttemptLog は代替ソース試行の永続ログ。成功・失敗とも全件を追記する。
type AttemptLog struct {
	store Store[model.RecoveryAttempt]
}

// NewAttemptLog はAttemptLogを生成する。
func NewAttemptLog(store Store[model.RecoveryAttempt]) *AttemptLog {
	return &AttemptLog{store: store}
}

// Append は試行レコードを追記する。
func (l *AttemptLog) Append(attempt model.RecoveryAttempt) error {
	records, err := l.store.ReadAll()
	if err != nil {
		return err
	}
	records = append(records, attempt)
	return l.store.WriteAll(records)
}

// ReadAll は全試行レコードを返す。成功率レポートで使用する。
func (l *AttemptLog) ReadAll() ([]model.RecoveryAttempt, error) {
	return l.store.ReadAll()
}
