package schedule

import (
	"testing"
	"time"

	"github.com/thirdtwenty/320mag/internal/model"
)

func TestForDate_Deterministic(t *testing.T) {
	date := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	first := ForDate(date)
	second := ForDate(date)

	if len(first) != 3 {
		t.Fatalf("タスク数 = %d, want 3", len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("同一日付で異なるタスク: %+v != %+v", first[i], second[i])
		}
	}
}

// 時刻・タイムゾーンが違っても同じUTC日付なら同じグループになること。
func TestForDate_TimeOfDayIgnored(t *testing.T) {
	morning := time.Date(2026, 8, 30, 0, 0, 1, 0, time.UTC)
	evening := time.Date(2026, 8, 30, 23, 59, 59, 0, time.UTC)

	a := ForDate(morning)
	b := ForDate(evening)
	if a[0].Category != b[0].Category {
		t.Errorf("同一UTC日付で異なるグループ: %q != %q", a[0].Category, b[0].Category)
	}
}

// 3日周期で全9カテゴリが一巡すること。
func TestForDate_ThreeDayCycleCoversAllCategories(t *testing.T) {
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	seen := make(map[string]bool)
	for day := 0; day < 3; day++ {
		for _, task := range ForDate(start.AddDate(0, 0, day)) {
			if seen[task.Category] {
				t.Errorf("カテゴリ %s が3日周期内で重複", task.Category)
			}
			seen[task.Category] = true
			if task.Count != 1 {
				t.Errorf("Count = %d, want 1", task.Count)
			}
		}
	}

	for _, slug := range model.CategorySlugs() {
		if !seen[slug] {
			t.Errorf("カテゴリ %s が3日周期に含まれていない", slug)
		}
	}
}

// 4日目は1日目と同じグループに戻ること。
func TestForDate_CycleRepeats(t *testing.T) {
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	day1 := ForDate(start)
	day4 := ForDate(start.AddDate(0, 0, 3))

	for i := range day1 {
		if day1[i].Category != day4[i].Category {
			t.Errorf("4日目のグループが1日目と一致しない: %q != %q", day4[i].Category, day1[i].Category)
		}
	}
}
