package pipeline

import (
	"strings"
	"testing"
)

func TestSlugify_LowercasesAndCollapses(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"英語タイトル", "Spring Fashion Trends", "spring-fashion-trends"},
		{"記号の連続は単一ハイフンに畳まれる", "Hello -- World!!", "hello-world"},
		{"前後の記号は取り除かれる", "  (New) Recipes  ", "new-recipes"},
		{"数字は保持される", "Top 10 Hotels 2026", "top-10-hotels-2026"},
		{"大文字小文字の混在", "MiXeD CaSe", "mixed-case"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slugify(tt.title)
			if got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestSlugify_Idempotent(t *testing.T) {
	titles := []string{
		"Spring Fashion Trends",
		"春の新作コスメまとめ",
		"Top 10 Hotels 2026",
	}

	for _, title := range titles {
		first := Slugify(title)
		second := Slugify(title)
		if first != second {
			t.Errorf("Slugify(%q) が決定的でない: %q != %q", title, first, second)
		}
		// スラッグ自体を再入力しても変化しないこと
		if Slugify(first) != first {
			t.Errorf("Slugify(Slugify(%q)) = %q, want %q", title, Slugify(first), first)
		}
	}
}

func TestSlugify_CJKOnlyTitleFallsBackToHash(t *testing.T) {
	title := "春の新作コスメまとめ"

	got := Slugify(title)
	if got == "" {
		t.Fatal("日本語のみのタイトルでも空スラッグを返してはならない")
	}
	if !strings.HasPrefix(got, "article-") {
		t.Errorf("Slugify(%q) = %q, want article- プレフィックス", title, got)
	}

	// 別のタイトルからは別のスラッグが得られること
	other := Slugify("秋の旅行特集")
	if got == other {
		t.Errorf("異なるタイトルが同一のハッシュスラッグに解決された: %q", got)
	}
}

func TestSlugify_TruncatesLongTitles(t *testing.T) {
	title := strings.Repeat("word ", 40)

	got := Slugify(title)
	if len(got) > slugMaxLength {
		t.Errorf("スラッグ長 = %d, want <= %d", len(got), slugMaxLength)
	}
	if strings.HasSuffix(got, "-") {
		t.Errorf("切り捨て後に末尾ハイフンが残っている: %q", got)
	}
}

func TestWithCollisionSuffix_DeterministicPerSource(t *testing.T) {
	slug := "spring-fashion-trends"

	a := WithCollisionSuffix(slug, "https://example.com/a")
	b := WithCollisionSuffix(slug, "https://example.com/b")
	if a == b {
		t.Errorf("異なる元記事URLで同一のサフィックスが生成された: %q", a)
	}

	again := WithCollisionSuffix(slug, "https://example.com/a")
	if a != again {
		t.Errorf("同一の元記事URLのサフィックスが決定的でない: %q != %q", a, again)
	}

	if !strings.HasPrefix(a, slug+"-") {
		t.Errorf("サフィックス形式が不正: %q", a)
	}
}
