package model

import "testing"

func TestCategories_NineUniqueSlugs(t *testing.T) {
	if len(Categories) != 9 {
		t.Fatalf("カテゴリ数 = %d, want 9", len(Categories))
	}

	seen := make(map[string]bool)
	for _, c := range Categories {
		if c.Slug == "" {
			t.Errorf("カテゴリ %q のスラッグが空", c.Name)
		}
		if seen[c.Slug] {
			t.Errorf("スラッグ %q が重複している", c.Slug)
		}
		seen[c.Slug] = true

		if c.Name == "" {
			t.Errorf("スラッグ %q の表示名が空", c.Slug)
		}
		if len(c.Keywords) == 0 {
			t.Errorf("スラッグ %q のキーワードが空", c.Slug)
		}
	}
}

func TestCategorySlugs_OrderIndexOrder(t *testing.T) {
	slugs := CategorySlugs()
	want := []string{
		CategoryFashion, CategoryBeauty, CategoryCulture,
		CategoryFood, CategoryTravel, CategoryHousing,
		CategoryPsychology, CategoryFitness, CategorySexuality,
	}

	if len(slugs) != len(want) {
		t.Fatalf("スラッグ数 = %d, want %d", len(slugs), len(want))
	}
	for i, slug := range want {
		if slugs[i] != slug {
			t.Errorf("slugs[%d] = %q, want %q", i, slugs[i], slug)
		}
	}
}

func TestCategoryBySlug(t *testing.T) {
	got := CategoryBySlug(CategoryFood)
	if got == nil {
		t.Fatal("CategoryBySlug(food) = nil")
	}
	if got.Name != "食" {
		t.Errorf("Name = %q, want 食", got.Name)
	}

	if CategoryBySlug("unknown") != nil {
		t.Error("未定義スラッグでnil以外が返った")
	}
}

func TestIsValidCategory(t *testing.T) {
	for _, slug := range CategorySlugs() {
		if !IsValidCategory(slug) {
			t.Errorf("IsValidCategory(%q) = false", slug)
		}
	}
	for _, slug := range []string{"", "Fashion", "news", "food "} {
		if IsValidCategory(slug) {
			t.Errorf("IsValidCategory(%q) = true", slug)
		}
	}
}

func TestRawItem_ImageCandidates(t *testing.T) {
	item := &RawItem{}
	if item.HasImageCandidate() {
		t.Error("候補なしでHasImageCandidate = true")
	}
	if got := item.FirstImageCandidate(); got != "" {
		t.Errorf("FirstImageCandidate = %q, want 空文字列", got)
	}

	item.EmbeddedImageCandidates = []string{
		"https://cdn.example.com/a.jpg",
		"https://cdn.example.com/b.jpg",
	}
	if !item.HasImageCandidate() {
		t.Error("候補ありでHasImageCandidate = false")
	}
	if got := item.FirstImageCandidate(); got != "https://cdn.example.com/a.jpg" {
		t.Errorf("FirstImageCandidate = %q, want 先頭候補", got)
	}
}
