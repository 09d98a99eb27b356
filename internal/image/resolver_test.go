package image

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// mockSSRFGuard はSSRFValidatorのテスト用モック。
type mockSSRFGuard struct {
	validateErr error
}

func (m *mockSSRFGuard) ValidateURL(_ string) error {
	return m.validateErr
}

func (m *mockSSRFGuard) NewSafeClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

func TestResolve_UsesFirstValidCandidate(t *testing.T) {
	var buf bytes.Buffer
	r := NewResolver(&mockSSRFGuard{}, newTestLogger(&buf), time.Second)

	got := r.Resolve(context.Background(), Request{
		Candidates: []string{
			"not-a-url",
			"https://example.com/photo.jpg",
			"https://example.com/second.png",
		},
		Category: "fashion",
	})

	if got != "https://example.com/photo.jpg" {
		t.Errorf("Resolve = %q, want 最初の有効な候補", got)
	}
}

func TestResolve_ScrapesOGImageWhenNoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><head>
<meta property="og:image" content="https://cdn.example.com/hero.jpg"/>
</head><body></body></html>`)
	}))
	defer server.Close()

	var buf bytes.Buffer
	r := NewResolver(&mockSSRFGuard{}, newTestLogger(&buf), time.Second)

	got := r.Resolve(context.Background(), Request{
		SourceURL: server.URL,
		Category:  "travel",
	})

	if got != "https://cdn.example.com/hero.jpg" {
		t.Errorf("Resolve = %q, want og:imageのURL", got)
	}
}

func TestResolve_TwitterImageFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><head>
<meta name="twitter:image" content="https://cdn.example.com/card.png"/>
</head><body></body></html>`)
	}))
	defer server.Close()

	var buf bytes.Buffer
	r := NewResolver(&mockSSRFGuard{}, newTestLogger(&buf), time.Second)

	got := r.Resolve(context.Background(), Request{
		SourceURL: server.URL,
	})

	if got != "https://cdn.example.com/card.png" {
		t.Errorf("Resolve = %q, want twitter:imageのURL", got)
	}
}

// 候補もスクレイプも失敗した場合でも必ずストック写真URLを返すこと。
func TestResolve_FallsBackToStockPhoto(t *testing.T) {
	var buf bytes.Buffer
	r := NewResolver(&mockSSRFGuard{validateErr: errors.New("blocked")}, newTestLogger(&buf), time.Second)

	got := r.Resolve(context.Background(), Request{
		Candidates: []string{"invalid"},
		SourceURL:  "http://169.254.169.254/latest/meta-data",
		Title:      "秋の温泉旅",
		ArticleID:  "article-42",
	})

	if !strings.HasPrefix(got, "https://images.unsplash.com/photo-") {
		t.Errorf("Resolve = %q, want ストック写真URL", got)
	}

	// 同一記事の再解決で同じ写真が選ばれること
	again := r.Resolve(context.Background(), Request{
		Candidates: []string{"invalid"},
		SourceURL:  "http://169.254.169.254/latest/meta-data",
		Title:      "秋の温泉旅",
		ArticleID:  "article-42",
	})
	if got != again {
		t.Errorf("再解決で異なる写真が選ばれた: %q != %q", got, again)
	}
}

func TestResolve_ScrapeErrorDoesNotFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	var buf bytes.Buffer
	r := NewResolver(&mockSSRFGuard{}, newTestLogger(&buf), time.Second)

	got := r.Resolve(context.Background(), Request{SourceURL: server.URL})
	if got == "" {
		t.Fatal("スクレイプ失敗時でも空URLを返してはならない")
	}
}

func TestIsLikelyImageURL(t *testing.T) {
	tests := []struct {
		rawURL string
		want   bool
	}{
		{"https://example.com/a.jpg", true},
		{"https://example.com/a.JPEG", true},
		{"https://example.com/a.webp", true},
		{"https://images.unsplash.com/photo-123?w=1200", true},
		{"https://pbs.twimg.com/media/abc", true},
		{"https://example.com/page.html", false},
		{"ftp://example.com/a.jpg", false},
		{"not a url", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsLikelyImageURL(tt.rawURL); got != tt.want {
			t.Errorf("IsLikelyImageURL(%q) = %v, want %v", tt.rawURL, got, tt.want)
		}
	}
}
