package rewrite

import (
	"strings"
	"unicode"
)

// subjectStoplist は固有名詞抽出から除外する汎用語。
// タイトル先頭の大文字化や見出し特有のキャピタライズを誤検出しないためのもの。
var subjectStoplist = map[string]bool{
	"the": true, "a": true, "an": true, "this": true, "that": true,
	"new": true, "best": true, "top": true, "how": true, "why": true,
	"what": true, "when": true, "where": true, "guide": true, "review": true,
	"inside": true, "exclusive": true, "breaking": true, "update": true,
	"spring": true, "summer": true, "autumn": true, "fall": true, "winter": true,
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

// ExtractKeySubject は元タイトルから固有名詞的な主題（人物・ブランド名）を抽出する。
// 連続する2語以上の大文字始まり英単語をヒューリスティックとして用い、
// 汎用語のみで構成される並びは除外する。所有格の's は除去する。
// 見つからない場合は空文字列を返す。
//
// 抽出結果はリライトプロンプトの主題固定制約に使用される:
// 元記事の写真を保持したまま、リライトで別人・別ブランドの記事に
// すり替わるのを防ぐ。
func ExtractKeySubject(title string) string {
	words := strings.Fields(title)

	var run []string
	flush := func() string {
		if len(run) < 2 {
			run = nil
			return ""
		}
		if allStopwords(run) {
			run = nil
			return ""
		}
		subject := strings.Join(run, " ")
		run = nil
		return subject
	}

	for _, word := range words {
		cleaned := cleanWord(word)
		if isCapitalizedWord(cleaned) {
			run = append(run, cleaned)
			continue
		}
		if subject := flush(); subject != "" {
			return subject
		}
	}
	return flush()
}

// cleanWord は約物と所有格を除去する。
func cleanWord(word string) string {
	word = strings.TrimFunc(word, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, suffix := range []string{"'s", "’s"} {
		word = strings.TrimSuffix(word, suffix)
	}
	return word
}

// isCapitalizedWord は大文字始まりの英単語かを返す。
func isCapitalizedWord(word string) bool {
	if word == "" {
		return false
	}
	runes := []rune(word)
	if !unicode.IsUpper(runes[0]) || runes[0] > unicode.MaxLatin1 {
		return false
	}
	for _, r := range runes[1:] {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func allStopwords(words []string) bool {
	for _, word := range words {
		if !subjectStoplist[strings.ToLower(word)] {
			return false
		}
	}
	return true
}
