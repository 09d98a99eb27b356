// Package guideline は320MAGの編集ガイドラインに基づくコンテンツ検査を提供する。
// 対象読者は40〜60代。若年層向けの枠組みで書かれた記事を却下し、
// リライト後の本文から避けるべき年齢ラベリング表現を検出する。
package guideline

import (
	"fmt"
	"strings"
)

// youthMarkers は若年層向けコンテンツを示すマーカー。
// いずれかを含む記事は却下対象となる（例外フレーズがある場合を除く）。
var youthMarkers = []string{
	"婚活パーティー",
	"初婚",
	"初めての結婚",
	"就活",
	"新卒",
	"就職活動",
	"20代向け",
	"10代",
	"学生向け",
	"キャンパスライフ",
	"first marriage",
	"college student",
	"entry-level career",
}

// matureExceptions は却下を免除する成熟層向けの文脈フレーズ。
// 若年マーカーと共起する場合、記事は対象読者向けとみなす
// （例: 再婚特集の中で「初婚」に言及するケース）。
var matureExceptions = []string{
	"再婚",
	"熟年",
	"セカンドライフ",
	"大人世代",
	"40代",
	"50代",
	"60代",
	"second marriage",
	"remarriage",
}

// bannedTerm は使用を避けるべき年齢ラベリング表現と推奨される言い換え。
type bannedTerm struct {
	term        string
	replacement string
}

// bannedTerms はリライト後の検証で警告対象となる表現。
// 自動置換はせず、警告として報告するのみ（助言的チェック）。
var bannedTerms = []bannedTerm{
	{"シニア", "大人世代"},
	{"シルバー世代", "大人世代"},
	{"高齢者", "40代・50代・60代"},
	{"お年寄り", "大人世代"},
	{"老後", "これからの人生"},
	{"余生", "これからの時間"},
	{"おばさん", "大人の女性"},
	{"おじさん", "大人の男性"},
	{"中高年", "40代・50代・60代"},
}

// FilterResult はガイドラインフィルタの判定結果を表す。
type FilterResult struct {
	Reject bool
	Reason string
}

// Filter はガイドライン検査を提供する。状態を持たない。
type Filter struct{}

// NewFilter はFilterの新しいインスタンスを生成する。
func NewFilter() *Filter {
	return &Filter{}
}

// ShouldFilter は記事が対象読者に不適合かを判定する。
// 若年マーカーを含み、かつ成熟層向けの例外フレーズを含まない場合に却下する。
// 却下はエラーではなく意図的なスキップとして扱われる。
func (f *Filter) ShouldFilter(title, body, category string) FilterResult {
	text := title + " " + body
	lower := strings.ToLower(text)

	marker := ""
	for _, m := range youthMarkers {
		if strings.Contains(lower, strings.ToLower(m)) {
			marker = m
			break
		}
	}
	if marker == "" {
		return FilterResult{}
	}

	for _, exception := range matureExceptions {
		if strings.Contains(lower, strings.ToLower(exception)) {
			return FilterResult{}
		}
	}

	return FilterResult{
		Reject: true,
		Reason: fmt.Sprintf("若年層向けマーカー「%s」を含み、成熟層向けの文脈がありません", marker),
	}
}

// Validate はリライト後の記事を検査し、警告文字列のリストを返す。
// 避けるべき年齢ラベリング表現ごとに推奨の言い換えを提示する。
// 置換は行わない（報告のみ）。問題がない場合は空のリストを返す。
func (f *Filter) Validate(title, body string) []string {
	var warnings []string
	text := title + " " + body

	for _, banned := range bannedTerms {
		count := strings.Count(text, banned.term)
		for i := 0; i < count; i++ {
			warnings = append(warnings, fmt.Sprintf(
				"避けるべき表現「%s」が使われています。「%s」への言い換えを推奨します",
				banned.term, banned.replacement,
			))
		}
	}

	return warnings
}
