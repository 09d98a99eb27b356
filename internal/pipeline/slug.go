package pipeline

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"
)

// slugMaxLength はスラッグの最大文字数。超過分は切り捨てる。
const slugMaxLength = 80

// Slugify はタイトルからURLスラッグを生成する。
// 小文字化し、英数字以外の連続を単一の'-'へ畳む。冪等であり、
// 同一タイトルからは常に同一のスラッグが得られる。
// 英数字を含まないタイトル（日本語のみ等）はタイトルのハッシュから
// 決定的なスラッグを合成する。
func Slugify(title string) string {
	var b strings.Builder
	prevHyphen := true // 先頭のハイフンを抑止する
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) && r < 128 || unicode.IsDigit(r) && r < 128 {
			b.WriteRune(r)
			prevHyphen = false
			continue
		}
		if !prevHyphen {
			b.WriteByte('-')
			prevHyphen = true
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = hashSlug(title)
	}
	if len(slug) > slugMaxLength {
		slug = strings.Trim(slug[:slugMaxLength], "-")
	}
	return slug
}

// hashSlug はタイトルのFNV-32aハッシュから決定的なスラッグを合成する。
func hashSlug(title string) string {
	h := fnv.New32a()
	h.Write([]byte(title))
	return fmt.Sprintf("article-%08x", h.Sum32())
}

// WithCollisionSuffix はスラッグ衝突時の決定的なサフィックスを付与する。
// サフィックスは元記事URLのハッシュから導出されるため、同一の元記事を
// 再処理した場合は同じスラッグが得られる（重複挿入はスラッグ重複として
// 検出できる）。
func WithCollisionSuffix(slug, sourceURL string) string {
	h := fnv.New32a()
	h.Write([]byte(sourceURL))
	return fmt.Sprintf("%s-%06x", slug, h.Sum32()&0xffffff)
}
