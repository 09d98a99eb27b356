package feed

import (
	"html"
	"strings"

	"github.com/mmcdole/gofeed"
	xhtml "golang.org/x/net/html"
)

// 画像抽出の優先順位（先に一致したものを採用）:
//  1. media:content（文字列・urlを持つオブジェクト・配列の先頭）
//  2. media:thumbnail
//  3. enclosure（MIMEタイプにimageを含む、またはURLが画像拡張子の場合のみ）
//  4. content:encoded > content > summary > description 内の最初の<img src>
//  5. itunes:image
//  6. 汎用imageフィールド
//  7. 生コンテンツ文字列中のog:imageメタタグ（最終手段）
//
// 抽出したURLはすべてHTMLエンティティをデコードしてから使用する。

// imageExtensions は画像として認識する拡張子。
var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".avif"}

// ExtractFirstImage はフィードアイテムから優先順で最初に見つかった画像URLを返す。
// 見つからない場合は空文字列を返す。
func ExtractFirstImage(item *gofeed.Item) string {
	for _, extract := range extractors {
		if url := firstOf(extract(item)); url != "" {
			return url
		}
	}
	return ""
}

// ExtractAllImages は全抽出元から発見した画像URLを優先順に集め、
// 完全一致の重複を除去して返す。複数画像記事の素材収集に使用する。
func ExtractAllImages(item *gofeed.Item) []string {
	var all []string
	seen := make(map[string]bool)

	for _, extract := range extractors {
		for _, url := range extract(item) {
			if url == "" || seen[url] {
				continue
			}
			seen[url] = true
			all = append(all, url)
		}
	}

	return all
}

// extractors は優先順に並んだ抽出関数のリスト。
var extractors = []func(*gofeed.Item) []string{
	extractMediaContent,
	extractMediaThumbnail,
	extractEnclosure,
	extractInlineImages,
	extractITunesImage,
	extractGenericImage,
	extractOGImageFromContent,
}

func firstOf(urls []string) string {
	if len(urls) == 0 {
		return ""
	}
	return urls[0]
}

// extractMediaContent はmedia:content拡張からURLを抽出する。
// 配列の場合は宣言順にすべて返す（先頭が最優先）。
func extractMediaContent(item *gofeed.Item) []string {
	return mediaExtensionURLs(item, "content")
}

// extractMediaThumbnail はmedia:thumbnail拡張からURLを抽出する。
func extractMediaThumbnail(item *gofeed.Item) []string {
	return mediaExtensionURLs(item, "thumbnail")
}

func mediaExtensionURLs(item *gofeed.Item, name string) []string {
	media, ok := item.Extensions["media"]
	if !ok {
		return nil
	}

	var urls []string
	for _, ext := range media[name] {
		if url := decodeURL(ext.Attrs["url"]); url != "" {
			urls = append(urls, url)
			continue
		}
		// 属性を持たない文字列形式のmedia:content
		if url := decodeURL(strings.TrimSpace(ext.Value)); url != "" {
			urls = append(urls, url)
		}
	}
	return urls
}

// extractEnclosure はenclosureからURLを抽出する。
// MIMEタイプにimageを含む、またはURLが画像拡張子の場合のみ採用する。
func extractEnclosure(item *gofeed.Item) []string {
	var urls []string
	for _, enc := range item.Enclosures {
		if enc == nil || enc.URL == "" {
			continue
		}
		if strings.Contains(strings.ToLower(enc.Type), "image") || hasImageExtension(enc.URL) {
			urls = append(urls, decodeURL(enc.URL))
		}
	}
	return urls
}

// extractInlineImages はHTMLコンテンツ内の<img src>を抽出する。
// 探索順: content:encoded（gofeedではContent）> summary/description。
func extractInlineImages(item *gofeed.Item) []string {
	var urls []string
	for _, htmlContent := range []string{item.Content, item.Description} {
		if htmlContent == "" {
			continue
		}
		urls = append(urls, imgTagSources(htmlContent)...)
	}
	return urls
}

// extractITunesImage はitunes:imageからURLを抽出する。
func extractITunesImage(item *gofeed.Item) []string {
	if item.ITunesExt != nil && item.ITunesExt.Image != "" {
		return []string{decodeURL(item.ITunesExt.Image)}
	}
	return nil
}

// extractGenericImage は汎用imageフィールドからURLを抽出する。
func extractGenericImage(item *gofeed.Item) []string {
	if item.Image != nil && item.Image.URL != "" {
		return []string{decodeURL(item.Image.URL)}
	}
	return nil
}

// extractOGImageFromContent は生コンテンツ文字列に埋め込まれた
// og:imageメタタグを抽出する。最終手段。
func extractOGImageFromContent(item *gofeed.Item) []string {
	var urls []string
	for _, htmlContent := range []string{item.Content, item.Description} {
		if htmlContent == "" || !strings.Contains(htmlContent, "og:image") {
			continue
		}
		urls = append(urls, metaTagContents(htmlContent, "og:image")...)
	}
	return urls
}

// imgTagSources はHTML断片からimgタグのsrc属性を出現順に抽出する。
func imgTagSources(fragment string) []string {
	var urls []string
	tokenizer := xhtml.NewTokenizer(strings.NewReader(fragment))

	for {
		tokenType := tokenizer.Next()
		if tokenType == xhtml.ErrorToken {
			return urls
		}
		if tokenType != xhtml.StartTagToken && tokenType != xhtml.SelfClosingTagToken {
			continue
		}
		token := tokenizer.Token()
		if token.Data != "img" {
			continue
		}
		for _, attr := range token.Attr {
			if attr.Key == "src" && attr.Val != "" {
				urls = append(urls, decodeURL(attr.Val))
				break
			}
		}
	}
}

// metaTagContents はHTML断片から指定プロパティのmetaタグのcontent属性を抽出する。
func metaTagContents(fragment, property string) []string {
	var urls []string
	tokenizer := xhtml.NewTokenizer(strings.NewReader(fragment))

	for {
		tokenType := tokenizer.Next()
		if tokenType == xhtml.ErrorToken {
			return urls
		}
		if tokenType != xhtml.StartTagToken && tokenType != xhtml.SelfClosingTagToken {
			continue
		}
		token := tokenizer.Token()
		if token.Data != "meta" {
			continue
		}

		var prop, content string
		for _, attr := range token.Attr {
			switch attr.Key {
			case "property", "name":
				prop = attr.Val
			case "content":
				content = attr.Val
			}
		}
		if prop == property && content != "" {
			urls = append(urls, decodeURL(content))
		}
	}
}

// decodeURL はHTMLエンティティ（&amp;等）をデコードし、前後の空白を除去する。
func decodeURL(rawURL string) string {
	return strings.TrimSpace(html.UnescapeString(rawURL))
}

// hasImageExtension はURLのパスが既知の画像拡張子で終わるかを返す。
func hasImageExtension(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	// クエリパラメータを除いて判定する
	if idx := strings.IndexAny(lower, "?#"); idx >= 0 {
		lower = lower[:idx]
	}
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
