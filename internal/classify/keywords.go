// Package classify は記事カテゴリの2段階分類を提供する。
// ステージ1は高速なキーワード照合、ステージ2はLLMによる全文意味解析。
package classify

import (
	"strings"

	"github.com/thirdtwenty/320mag/internal/model"
)

// stage1Order はステージ1キーワード照合の判定順。
// 意図的に不均一な優先度を持たせている: 限定的な話題
// （性の健康・レシピ／調理動詞・フィットネス固有語）を先に判定し、
// 広い話題（住まい・心理）が特定的な一致を先取りしてしまうのを防ぐ。
// 例えば「レシピ」と「インテリア」を両方含むタイトルは食カテゴリになる。
// キーワード自体はmodel.Categoriesの定義を唯一の情報源として参照する。
var stage1Order = []string{
	model.CategorySexuality,
	model.CategoryFood,
	model.CategoryFitness,
	model.CategoryBeauty,
	model.CategoryFashion,
	model.CategoryCulture,
	model.CategoryTravel,
	model.CategoryPsychology,
	model.CategoryHousing,
}

// KeywordCandidate はタイトル・本文をキーワード照合し、候補カテゴリの
// スラッグを返す。タイトルを先に全グループと照合し、一致がなければ本文を照合する。
// どちらにも一致がない場合は空文字列を返す。
func KeywordCandidate(title, body string) string {
	for _, text := range []string{title, body} {
		if text == "" {
			continue
		}
		lower := strings.ToLower(text)
		for _, slug := range stage1Order {
			if matchesCategory(lower, slug) {
				return slug
			}
		}
	}
	return ""
}

// matchesCategory はテキストがカテゴリのキーワードのいずれかを含むかを返す。
func matchesCategory(lowerText, slug string) bool {
	def := model.CategoryBySlug(slug)
	if def == nil {
		return false
	}
	for _, keyword := range def.Keywords {
		if strings.Contains(lowerText, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
