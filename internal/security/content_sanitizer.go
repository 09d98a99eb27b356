// Package security は外部HTTPアクセスの安全化機能を提供する。
//
// ContentSanitizerService はフィード由来のHTMLを2通りに処理する。
// StripText は分類・リライトのLLM入力用にタグを完全除去したテキストを返し、
// Sanitize は保存用コンテンツを許可リストベースのポリシーで安全化する。
// いずれもbluemondayを使用し、同一入力に対して常に同一出力を返す（冪等）。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizerService はHTMLコンテンツのサニタイズ機能のインターフェースを定義する。
type ContentSanitizerService interface {
	// Sanitize は保存前のHTMLをサニタイズして安全なHTMLを返す。
	// 許可タグ（p, br, a, ul, ol, li, blockquote, strong, em）のみを通過させ、
	// script/iframe/styleタグおよびon*イベント属性を除去する。
	Sanitize(rawHTML string) string

	// StripText はHTMLタグを全て除去し、エンティティをデコードした
	// プレーンテキストを返す。フィード断片のLLM入力整形に使用する。
	StripText(rawHTML string) string
}

type contentSanitizer struct {
	storePolicy *bluemonday.Policy
	textPolicy  *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerServiceの新しいインスタンスを生成する。
func NewContentSanitizer() *contentSanitizer {
	store := bluemonday.NewPolicy()
	store.AllowElements(
		"p", "br", "ul", "ol", "li",
		"blockquote", "strong", "em",
	)
	store.AllowAttrs("href").OnElements("a")
	store.AllowRelativeURLs(false)
	store.AddTargetBlankToFullyQualifiedLinks(true)
	store.RequireNoReferrerOnLinks(true)

	return &contentSanitizer{
		storePolicy: store,
		textPolicy:  bluemonday.StrictPolicy(),
	}
}

// Sanitize は保存前のHTMLをサニタイズして安全なHTMLを返す。
func (s *contentSanitizer) Sanitize(rawHTML string) string {
	return s.storePolicy.Sanitize(rawHTML)
}

// StripText はHTMLタグを全て除去したプレーンテキストを返す。
// StrictPolicyはエンティティをエスケープしたまま残すため、
// 除去後にデコードして生テキストへ戻す。
func (s *contentSanitizer) StripText(rawHTML string) string {
	stripped := s.textPolicy.Sanitize(rawHTML)
	decoded := html.UnescapeString(stripped)
	return strings.TrimSpace(collapseWhitespace(decoded))
}

// collapseWhitespace は連続する空白・改行を1つの空白に畳む。
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
