package recovery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/thirdtwenty/320mag/internal/model"
)

// APIFetcher はRSS以外のニュースAPIソースの取得インターフェース。
type APIFetcher interface {
	// FetchCategory はソース定義のURLフィールドを検索クエリとして
	// 記事を取得し、RawItemへ正規化する。
	FetchCategory(ctx context.Context, source model.AlternativeSource) ([]model.RawItem, error)
}

// APIKeys は代替ソース用のAPIキーを保持する。未設定のキーは空文字列。
type APIKeys struct {
	NewsAPI  string
	Currents string
	Guardian string
	NYT      string
}

// NewAPIFetchers は設定済みのAPIキーに対応するフェッチャーのマップを返す。
// キーが未設定のタイプはマップに含めない（呼び出し側でスキップ扱いになる）。
func NewAPIFetchers(keys APIKeys, timeout time.Duration) map[model.SourceType]APIFetcher {
	client := &http.Client{Timeout: timeout}
	fetchers := make(map[model.SourceType]APIFetcher)

	if keys.NewsAPI != "" {
		fetchers[model.SourceTypeNewsAPI] = &newsAPIFetcher{client: client, apiKey: keys.NewsAPI, endpoint: "https://newsapi.org/v2/everything"}
	}
	if keys.Currents != "" {
		fetchers[model.SourceTypeCurrents] = &currentsFetcher{client: client, apiKey: keys.Currents, endpoint: "https://api.currentsapi.services/v1/search"}
	}
	if keys.Guardian != "" {
		fetchers[model.SourceTypeGuardian] = &guardianFetcher{client: client, apiKey: keys.Guardian, endpoint: "https://content.guardianapis.com/search"}
	}
	if keys.NYT != "" {
		fetchers[model.SourceTypeNYT] = &nytFetcher{client: client, apiKey: keys.NYT, endpoint: "https://api.nytimes.com/svc/search/v2/articlesearch.json"}
	}

	return fetchers
}

// getJSON はGETリクエストを実行し、レスポンスボディをoutへデコードする。
func getJSON(ctx context.Context, client *http.Client, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("User-Agent", "320MAG Collector/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("APIの呼び出しに失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("APIがステータス %d を返しました", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("レスポンスボディの読み取りに失敗しました: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("レスポンスのJSON解析に失敗しました: %w", err)
	}
	return nil
}

// newsAPIFetcher はNewsAPI (newsapi.org)のフェッチャー。
type newsAPIFetcher struct {
	client   *http.Client
	apiKey   string
	endpoint string
}

func (f *newsAPIFetcher) FetchCategory(ctx context.Context, source model.AlternativeSource) ([]model.RawItem, error) {
	q := url.Values{}
	q.Set("q", source.URL)
	q.Set("pageSize", "20")
	q.Set("apiKey", f.apiKey)

	var parsed struct {
		Articles []struct {
			Title       string    `json:"title"`
			Description string    `json:"description"`
			URL         string    `json:"url"`
			URLToImage  string    `json:"urlToImage"`
			PublishedAt time.Time `json:"publishedAt"`
		} `json:"articles"`
	}
	if err := getJSON(ctx, f.client, f.endpoint+"?"+q.Encode(), &parsed); err != nil {
		return nil, err
	}

	items := make([]model.RawItem, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		if a.Title == "" {
			continue
		}
		item := model.RawItem{
			Title:       a.Title,
			BodySnippet: a.Description,
			SourceURL:   a.URL,
			PublishedAt: a.PublishedAt,
		}
		if a.URLToImage != "" {
			item.EmbeddedImageCandidates = []string{a.URLToImage}
		}
		items = append(items, item)
	}
	return items, nil
}

// currentsFetcher はCurrents APIのフェッチャー。
type currentsFetcher struct {
	client   *http.Client
	apiKey   string
	endpoint string
}

func (f *currentsFetcher) FetchCategory(ctx context.Context, source model.AlternativeSource) ([]model.RawItem, error) {
	q := url.Values{}
	q.Set("keywords", source.URL)
	q.Set("apiKey", f.apiKey)

	var parsed struct {
		News []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			URL         string `json:"url"`
			Image       string `json:"image"`
			Published   string `json:"published"`
		} `json:"news"`
	}
	if err := getJSON(ctx, f.client, f.endpoint+"?"+q.Encode(), &parsed); err != nil {
		return nil, err
	}

	items := make([]model.RawItem, 0, len(parsed.News))
	for _, n := range parsed.News {
		if n.Title == "" {
			continue
		}
		item := model.RawItem{
			Title:       n.Title,
			BodySnippet: n.Description,
			SourceURL:   n.URL,
		}
		if t, err := time.Parse("2006-01-02 15:04:05 -0700", n.Published); err == nil {
			item.PublishedAt = t
		}
		// Currentsは画像なしを文字列"None"で表現する
		if n.Image != "" && n.Image != "None" {
			item.EmbeddedImageCandidates = []string{n.Image}
		}
		items = append(items, item)
	}
	return items, nil
}

// guardianFetcher はThe Guardian Open Platformのフェッチャー。
type guardianFetcher struct {
	client   *http.Client
	apiKey   string
	endpoint string
}

func (f *guardianFetcher) FetchCategory(ctx context.Context, source model.AlternativeSource) ([]model.RawItem, error) {
	q := url.Values{}
	q.Set("q", source.URL)
	q.Set("show-fields", "trailText,thumbnail")
	q.Set("api-key", f.apiKey)

	var parsed struct {
		Response struct {
			Results []struct {
				WebTitle           string    `json:"webTitle"`
				WebURL             string    `json:"webUrl"`
				WebPublicationDate time.Time `json:"webPublicationDate"`
				Fields             struct {
					TrailText string `json:"trailText"`
					Thumbnail string `json:"thumbnail"`
				} `json:"fields"`
			} `json:"results"`
		} `json:"response"`
	}
	if err := getJSON(ctx, f.client, f.endpoint+"?"+q.Encode(), &parsed); err != nil {
		return nil, err
	}

	items := make([]model.RawItem, 0, len(parsed.Response.Results))
	for _, r := range parsed.Response.Results {
		if r.WebTitle == "" {
			continue
		}
		item := model.RawItem{
			Title:       r.WebTitle,
			BodySnippet: r.Fields.TrailText,
			SourceURL:   r.WebURL,
			PublishedAt: r.WebPublicationDate,
		}
		if r.Fields.Thumbnail != "" {
			item.EmbeddedImageCandidates = []string{r.Fields.Thumbnail}
		}
		items = append(items, item)
	}
	return items, nil
}

// nytFetcher はNew York Times Article Search APIのフェッチャー。
type nytFetcher struct {
	client   *http.Client
	apiKey   string
	endpoint string
}

func (f *nytFetcher) FetchCategory(ctx context.Context, source model.AlternativeSource) ([]model.RawItem, error) {
	q := url.Values{}
	q.Set("q", source.URL)
	q.Set("api-key", f.apiKey)

	var parsed struct {
		Response struct {
			Docs []struct {
				Headline struct {
					Main string `json:"main"`
				} `json:"headline"`
				Abstract   string    `json:"abstract"`
				WebURL     string    `json:"web_url"`
				PubDate    time.Time `json:"pub_date"`
				Multimedia []struct {
					URL string `json:"url"`
				} `json:"multimedia"`
			} `json:"docs"`
		} `json:"response"`
	}
	if err := getJSON(ctx, f.client, f.endpoint+"?"+q.Encode(), &parsed); err != nil {
		return nil, err
	}

	items := make([]model.RawItem, 0, len(parsed.Response.Docs))
	for _, d := range parsed.Response.Docs {
		if d.Headline.Main == "" {
			continue
		}
		item := model.RawItem{
			Title:       d.Headline.Main,
			BodySnippet: d.Abstract,
			SourceURL:   d.WebURL,
			PublishedAt: d.PubDate,
		}
		if len(d.Multimedia) > 0 && d.Multimedia[0].URL != "" {
			// NYTのmultimedia.urlはドメインなしの相対パス
			item.EmbeddedImageCandidates = []string{"https://static01.nyt.com/" + d.Multimedia[0].URL}
		}
		items = append(items, item)
	}
	return items, nil
}
