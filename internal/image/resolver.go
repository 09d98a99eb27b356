// Package image はアイキャッチ画像の解決を提供する。
// 埋め込み候補 → og:imageスクレイプ → ストック写真の順で必ず何らかのURLを返す。
package image

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const userAgent = "320MAG Collector/1.0"

// imageExtensions は有効な画像URLとして認識する拡張子。
var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".avif"}

// imageHosts は拡張子を持たないURLでも画像として信頼するホスト。
var imageHosts = []string{
	"images.unsplash.com",
	"plus.unsplash.com",
	"i.imgur.com",
	"live.staticflickr.com",
	"lh3.googleusercontent.com",
	"pbs.twimg.com",
	"media.guim.co.uk",
	"static01.nyt.com",
}

// SSRFValidator はSSRF検証のインターフェース。
type SSRFValidator interface {
	ValidateURL(rawURL string) error
	NewSafeClient(timeout time.Duration) *http.Client
}

// Request は画像解決の入力を表す。
type Request struct {
	Candidates []string // フィード抽出済みの画像候補（優先順）
	Category   string
	Title      string
	Body       string
	SourceURL  string // og:imageスクレイプ対象の元記事URL
	ArticleID  string // ストック写真の決定的選択に使用。空の場合はランダム
}

// Resolver はアイキャッチ画像の解決を行う。
// Resolveは失敗せず、常に何らかのURLを返す（段階的縮退）。
type Resolver struct {
	ssrfGuard     SSRFValidator
	logger        *slog.Logger
	scrapeTimeout time.Duration
}

// NewResolver はResolverの新しいインスタンスを生成する。
func NewResolver(ssrfGuard SSRFValidator, logger *slog.Logger, scrapeTimeout time.Duration) *Resolver {
	if scrapeTimeout <= 0 {
		scrapeTimeout = 5 * time.Second
	}
	return &Resolver{
		ssrfGuard:     ssrfGuard,
		logger:        logger,
		scrapeTimeout: scrapeTimeout,
	}
}

// Resolve は優先順のフォールバックチェーンで画像URLを決定する。
//  1. フィード抽出済み候補のうち最初の有効なURL
//  2. 元記事HTMLのog:image / twitter:imageメタタグ
//  3. 表示カテゴリ別のストック写真（決定的選択）
func (r *Resolver) Resolve(ctx context.Context, req Request) string {
	for _, candidate := range req.Candidates {
		if IsLikelyImageURL(candidate) {
			return candidate
		}
	}

	if req.SourceURL != "" {
		if scraped := r.scrapeMetaImage(ctx, req.SourceURL); scraped != "" {
			return scraped
		}
	}

	display := InferDisplayCategory(req.Title + " " + req.Body)
	stockURL := StockPhotoURL(display, req.ArticleID)

	r.logger.Info("ストック写真にフォールバックしました",
		slog.String("category", req.Category),
		slog.String("display_category", string(display)),
		slog.String("source_url", req.SourceURL),
	)

	return stockURL
}

// scrapeMetaImage は元記事のHTMLを取得し、og:image → twitter:imageの順で
// メタタグから画像URLを抽出する。取得失敗時は空文字列を返す（エラーにしない）。
func (r *Resolver) scrapeMetaImage(ctx context.Context, pageURL string) string {
	if err := r.ssrfGuard.ValidateURL(pageURL); err != nil {
		r.logger.Warn("og:imageスクレイプ: SSRFブロック",
			slog.String("url", pageURL),
			slog.String("error", err.Error()),
		)
		return ""
	}

	scrapeCtx, cancel := context.WithTimeout(ctx, r.scrapeTimeout)
	defer cancel()

	client := r.ssrfGuard.NewSafeClient(r.scrapeTimeout)
	req, err := http.NewRequestWithContext(scrapeCtx, http.MethodGet, pageURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		r.logger.Warn("og:imageスクレイプ: HTTPリクエスト失敗",
			slog.String("url", pageURL),
			slog.String("error", err.Error()),
		)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}

	for _, selector := range []string{
		`meta[property="og:image"]`,
		`meta[name="twitter:image"]`,
	} {
		if content, ok := doc.Find(selector).First().Attr("content"); ok {
			content = strings.TrimSpace(content)
			if IsLikelyImageURL(content) {
				return content
			}
		}
	}

	return ""
}

// IsLikelyImageURL はURLとして解析でき、かつ既知の画像拡張子または
// 既知の画像ホスティングドメインに一致するかを検証する。
func IsLikelyImageURL(rawURL string) bool {
	if rawURL == "" {
		return false
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}

	lowerPath := strings.ToLower(parsed.Path)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lowerPath, ext) {
			return true
		}
	}

	host := strings.ToLower(parsed.Hostname())
	for _, known := range imageHosts {
		if host == known {
			return true
		}
	}

	return false
}
