// Package feed はRSS/Atomフィードの取得と正規化を提供する。
package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/thirdtwenty/320mag/internal/model"
)

// userAgent は収集時のUser-Agent。発行者側のアクセスログで識別可能にする。
const userAgent = "320MAG Collector/1.0"

// snippetMaxChars はBodySnippetの最大文字数（rune単位）。
// LLM入力の上限を考慮し、本文全体ではなく断片のみを保持する。
const snippetMaxChars = 2000

// SSRFValidator はSSRF検証のインターフェース。
// security.SSRFGuardServiceを抽象化してテスタビリティを向上させる。
type SSRFValidator interface {
	ValidateURL(rawURL string) error
	NewSafeClient(timeout time.Duration) *http.Client
}

// TextStripper はHTML断片のテキスト化インターフェース。
type TextStripper interface {
	StripText(rawHTML string) string
}

// Fetcher は単一フィードのHTTPフェッチとパースを行う。
// 失敗時はFeedParseErrorをそのまま返し、内部ではリトライしない。
// リトライと代替ソースへの切り替えはリカバリサブシステムの責務。
type Fetcher struct {
	ssrfGuard   SSRFValidator
	stripper    TextStripper
	logger      *slog.Logger
	timeout     time.Duration
	maxBodySize int64
}

// NewFetcher はFetcherの新しいインスタンスを生成する。
func NewFetcher(
	ssrfGuard SSRFValidator,
	stripper TextStripper,
	logger *slog.Logger,
	timeout time.Duration,
	maxBodySize int64,
) *Fetcher {
	return &Fetcher{
		ssrfGuard:   ssrfGuard,
		stripper:    stripper,
		logger:      logger,
		timeout:     timeout,
		maxBodySize: maxBodySize,
	}
}

// Fetch はフィードを取得し、正規化済みのRawItemリストを返す。
// 到達不能・不正XMLの場合はFeedParseErrorを返す。
// 期待するタグを持たないフィードは画像候補が減るだけで、エラーにはならない。
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) ([]model.RawItem, error) {
	start := time.Now()

	if err := f.ssrfGuard.ValidateURL(feedURL); err != nil {
		return nil, &model.FeedParseError{URL: feedURL, Err: err}
	}

	client := f.ssrfGuard.NewSafeClient(f.timeout)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, &model.FeedParseError{URL: feedURL, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml, */*")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &model.FeedParseError{URL: feedURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.FeedParseError{
			URL: feedURL,
			Err: &httpStatusError{status: resp.StatusCode},
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, &model.FeedParseError{URL: feedURL, Err: err}
	}

	parser := gofeed.NewParser()
	parsedFeed, err := parser.ParseString(string(body))
	if err != nil {
		return nil, &model.FeedParseError{URL: feedURL, Err: err}
	}

	items := f.convertItems(parsedFeed.Items)

	f.logger.Info("フィードフェッチが完了しました",
		slog.String("feed_url", feedURL),
		slog.Int("item_count", len(items)),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)

	return items, nil
}

// convertItems はgofeedのアイテムをRawItemに変換する。
func (f *Fetcher) convertItems(items []*gofeed.Item) []model.RawItem {
	rawItems := make([]model.RawItem, 0, len(items))

	for _, item := range items {
		if item == nil || item.Title == "" {
			continue
		}

		raw := model.RawItem{
			Title:                   f.stripper.StripText(item.Title),
			SourceURL:               item.Link,
			EmbeddedImageCandidates: ExtractAllImages(item),
		}

		// 本文断片: content:encoded > description の順で採用
		content := item.Content
		if content == "" {
			content = item.Description
		}
		raw.BodySnippet = truncateRunes(f.stripper.StripText(content), snippetMaxChars)

		if item.PublishedParsed != nil {
			raw.PublishedAt = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			raw.PublishedAt = *item.UpdatedParsed
		}

		// LinkがなくGUIDがURL形式の場合はGUIDを代用する
		if raw.SourceURL == "" && isHTTPURL(item.GUID) {
			raw.SourceURL = item.GUID
		}

		rawItems = append(rawItems, raw)
	}

	return rawItems
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func isHTTPURL(s string) bool {
	return len(s) > 7 && (s[:7] == "http://" || (len(s) > 8 && s[:8] == "https://"))
}

// httpStatusError は2xx以外のHTTPステータスを表す。
type httpStatusError struct {
	status int
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("HTTPステータス %d", e.status)
}
