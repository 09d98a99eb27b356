package rewrite

import (
	"strings"
)

// 応答の区切りマーカー。プロンプトでこの形式の出力を指示する。
const (
	markerTitle   = "---TITLE---"
	markerExcerpt = "---EXCERPT---"
	markerContent = "---CONTENT---"
	markerImages  = "---IMAGES---"
)

// excerptDefaultChars は抜粋が省略された場合に本文から切り出す文字数。
const excerptDefaultChars = 150

// parsedResponse はLLM応答の解析結果を表す。
type parsedResponse struct {
	Title   string
	Excerpt string
	Body    string
	Images  []string
}

// parseResponse はLLM応答をマーカー区切りで解析する。
// プロバイダはスキーマを保証しないため、マーカーが欠落している場合は
// ヒューリスティックな行分割にフォールバックする。
func parseResponse(raw string) parsedResponse {
	raw = strings.TrimSpace(raw)

	if strings.Contains(raw, markerTitle) && strings.Contains(raw, markerContent) {
		return parseWithMarkers(raw)
	}
	return parseHeuristic(raw)
}

// parseWithMarkers はマーカー付き応答を解析する。
func parseWithMarkers(raw string) parsedResponse {
	parsed := parsedResponse{
		Title:   sectionBetween(raw, markerTitle, markerExcerpt, markerContent, markerImages),
		Excerpt: sectionBetween(raw, markerExcerpt, markerContent, markerImages),
		Body:    sectionBetween(raw, markerContent, markerImages),
	}

	if imagesSection := sectionBetween(raw, markerImages); imagesSection != "" {
		for _, line := range strings.Split(imagesSection, "\n") {
			line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "-"))
			if strings.HasPrefix(line, "http://") || strings.HasPrefix(line, "https://") {
				parsed.Images = append(parsed.Images, line)
			}
		}
	}

	parsed.fillExcerpt()
	return parsed
}

// sectionBetween はstartマーカーの直後から、terminatorsのうち最初に現れる
// マーカーの手前まで（なければ末尾まで）を切り出す。
func sectionBetween(raw, start string, terminators ...string) string {
	idx := strings.Index(raw, start)
	if idx < 0 {
		return ""
	}
	section := raw[idx+len(start):]

	end := len(section)
	for _, terminator := range terminators {
		if tIdx := strings.Index(section, terminator); tIdx >= 0 && tIdx < end {
			end = tIdx
		}
	}

	return strings.TrimSpace(section[:end])
}

// parseHeuristic はマーカーなし応答を行分割で解析する。
// 最初の非空行をタイトル、残りを本文とみなす。
func parseHeuristic(raw string) parsedResponse {
	lines := strings.Split(raw, "\n")

	parsed := parsedResponse{}
	bodyStart := 0
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		parsed.Title = strings.Trim(trimmed, "「」\"#* ")
		bodyStart = i + 1
		break
	}

	parsed.Body = strings.TrimSpace(strings.Join(lines[bodyStart:], "\n"))
	parsed.fillExcerpt()
	return parsed
}

// fillExcerpt は抜粋が空の場合に本文の先頭から既定文字数を切り出して補完する。
func (p *parsedResponse) fillExcerpt() {
	if p.Excerpt != "" || p.Body == "" {
		return
	}

	flat := strings.Join(strings.Fields(p.Body), " ")
	runes := []rune(flat)
	if len(runes) > excerptDefaultChars {
		runes = runes[:excerptDefaultChars]
	}
	p.Excerpt = string(runes)
}
