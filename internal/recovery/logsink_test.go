package recovery

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/thirdtwenty/320mag/internal/model"
)

func TestFileStore_ReadAllOnMissingFileReturnsEmpty(t *testing.T) {
	store := NewFileStore[model.FailureRecord](filepath.Join(t.TempDir(), "missing.json"))

	records, err := store.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() がエラーを返した: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("未作成ファイルでは空リストを返すべき: %d件", len(records))
	}
}

func TestFileStore_WriteThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failures.json")
	store := NewFileStore[model.FailureRecord](path)

	want := []model.FailureRecord{
		{SourceID: "src-1", SourceName: "VOGUE JAPAN", Category: "fashion", Reason: "timeout"},
	}
	if err := store.WriteAll(want); err != nil {
		t.Fatalf("WriteAll() がエラーを返した: %v", err)
	}

	got, err := store.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() がエラーを返した: %v", err)
	}
	if len(got) != 1 || got[0].SourceID != "src-1" || got[0].Reason != "timeout" {
		t.Errorf("ReadAll() = %+v, want %+v", got, want)
	}
}

func TestFileStore_ReadAllOnBrokenJSONReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewFileStore[model.FailureRecord](path)
	if _, err := store.ReadAll(); err == nil {
		t.Fatal("破損したJSONではエラーを返すべき")
	}
}

func TestFailureLog_RecordFailureAppendsNewRecord(t *testing.T) {
	log := NewFailureLog(NewMemoryStore[model.FailureRecord]())

	if err := log.RecordFailure("src-1", "VOGUE JAPAN", "fashion", "接続エラー"); err != nil {
		t.Fatalf("RecordFailure() がエラーを返した: %v", err)
	}

	records, _ := log.ReadAll()
	if len(records) != 1 {
		t.Fatalf("レコード数 = %d, want 1", len(records))
	}
	if records[0].RetryCount != 0 {
		t.Errorf("初回失敗のRetryCount = %d, want 0", records[0].RetryCount)
	}
	if records[0].FirstFailedAt.IsZero() || records[0].LastFailedAt.IsZero() {
		t.Error("失敗時刻が記録されるべき")
	}
}

// 同一ソースの再失敗ではレコードを複製せず、RetryCountが単調増加すること。
func TestFailureLog_RecordFailureUpsertsBySourceID(t *testing.T) {
	log := NewFailureLog(NewMemoryStore[model.FailureRecord]())

	for i := 0; i < 3; i++ {
		if err := log.RecordFailure("src-1", "VOGUE JAPAN", "fashion", "接続エラー"); err != nil {
			t.Fatalf("RecordFailure() がエラーを返した: %v", err)
		}
	}
	if err := log.RecordFailure("src-2", "FASHIONSNAP", "fashion", "404"); err != nil {
		t.Fatalf("RecordFailure() がエラーを返した: %v", err)
	}

	records, _ := log.ReadAll()
	if len(records) != 2 {
		t.Fatalf("レコード数 = %d, want 2（ソースごとに1件）", len(records))
	}

	var src1 *model.FailureRecord
	for i := range records {
		if records[i].SourceID == "src-1" {
			src1 = &records[i]
		}
	}
	if src1 == nil {
		t.Fatal("src-1のレコードが見つからない")
	}
	if src1.RetryCount != 2 {
		t.Errorf("3回失敗後のRetryCount = %d, want 2", src1.RetryCount)
	}
}

func TestAttemptLog_AppendKeepsAllAttempts(t *testing.T) {
	log := NewAttemptLog(NewMemoryStore[model.RecoveryAttempt]())

	attempts := []model.RecoveryAttempt{
		{SourceID: "alt-1", Category: "food", Success: true, ItemCount: 5, AttemptedAt: time.Now()},
		{SourceID: "alt-1", Category: "food", Success: false, Reason: "timeout", AttemptedAt: time.Now()},
	}
	for _, a := range attempts {
		if err := log.Append(a); err != nil {
			t.Fatalf("Append() がエラーを返した: %v", err)
		}
	}

	got, _ := log.ReadAll()
	if len(got) != 2 {
		t.Errorf("試行レコード数 = %d, want 2（成功・失敗とも全件記録）", len(got))
	}
}
