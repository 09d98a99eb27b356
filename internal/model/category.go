// Package model はドメインモデルを定義する。
package model

// CategoryDefinition は320MAGの固定カテゴリを表す。
// 分類キーワードはこのテーブルが唯一の情報源であり、
// 分類器・画像リゾルバ・ローテーションはすべてここを参照する。
type CategoryDefinition struct {
	Name        string   // 表示名（日本語）
	Slug        string   // URLセーフな一意識別子。永続化層との結合キー
	Description string
	OrderIndex  int
	Keywords    []string // ステージ1分類で使用するキーワード群
}

// カテゴリスラッグの定数。パイプライン全体でこの9種のみを使用する。
const (
	CategoryFashion    = "fashion"
	CategoryBeauty     = "beauty"
	CategoryCulture    = "culture"
	CategoryFood       = "food"
	CategoryTravel     = "travel"
	CategoryHousing    = "housing"
	CategoryPsychology = "psychology"
	CategoryFitness    = "fitness"
	CategorySexuality  = "sexuality"
)

// Categories は320MAGの全カテゴリ定義。
// OrderIndexは表示順、Keywordsはステージ1キーワード分類の判定語。
var Categories = []CategoryDefinition{
	{
		Name:        "ファッション",
		Slug:        CategoryFashion,
		Description: "大人世代のためのファッション・スタイリング",
		OrderIndex:  1,
		Keywords: []string{
			"ファッション", "コーデ", "着こなし", "スタイリング", "ワードローブ",
			"ドレス", "ブランド", "トレンド", "コレクション",
			"fashion", "outfit", "style", "wardrobe", "dress", "gown", "runway",
		},
	},
	{
		Name:        "美容",
		Slug:        CategoryBeauty,
		Description: "スキンケア・ヘアケア・エイジングケア",
		OrderIndex:  2,
		Keywords: []string{
			"美容", "スキンケア", "化粧", "コスメ", "ヘアケア", "エイジングケア",
			"保湿", "美肌", "シワ", "白髪",
			"beauty", "skincare", "makeup", "cosmetic", "anti-aging",
		},
	},
	{
		Name:        "カルチャー",
		Slug:        CategoryCulture,
		Description: "アート・映画・音楽・読書",
		OrderIndex:  3,
		Keywords: []string{
			"アート", "美術", "展覧会", "映画", "音楽", "読書", "舞台", "工芸",
			"art", "exhibition", "museum", "gallery", "cinema", "concert",
		},
	},
	{
		Name:        "食",
		Slug:        CategoryFood,
		Description: "レシピ・食材・食文化",
		OrderIndex:  4,
		Keywords: []string{
			"レシピ", "料理", "食材", "調理", "グルメ", "食事", "献立", "発酵",
			"ワイン", "和食",
			"recipe", "cooking", "cuisine", "ingredient", "baking", "dish",
		},
	},
	{
		Name:        "旅",
		Slug:        CategoryTravel,
		Description: "国内外の旅・温泉・滞在",
		OrderIndex:  5,
		Keywords: []string{
			"旅行", "旅", "温泉", "ホテル", "観光", "絶景", "海外", "巡り",
			"travel", "trip", "journey", "hotel", "destination", "resort",
		},
	},
	{
		Name:        "住まい",
		Slug:        CategoryHousing,
		Description: "住み替え・リフォーム・インテリア",
		OrderIndex:  6,
		Keywords: []string{
			"住まい", "リフォーム", "リノベーション", "インテリア", "住宅",
			"間取り", "住み替え", "収納", "庭",
			"interior", "renovation", "housing", "furniture", "home design",
		},
	},
	{
		Name:        "心理",
		Slug:        CategoryPsychology,
		Description: "心の健康・人間関係・生き方",
		OrderIndex:  7,
		Keywords: []string{
			"心理", "メンタル", "ストレス", "人間関係", "孤独", "幸福",
			"マインドフルネス", "カウンセリング",
			"psychology", "mental health", "mindfulness", "wellbeing", "stress",
		},
	},
	{
		Name:        "フィットネス",
		Slug:        CategoryFitness,
		Description: "運動・筋トレ・健康維持",
		OrderIndex:  8,
		Keywords: []string{
			"筋トレ", "フィットネス", "ストレッチ", "ヨガ", "ウォーキング",
			"トレーニング", "運動習慣", "体幹",
			"fitness", "workout", "exercise", "yoga", "pilates", "training",
		},
	},
	{
		Name:        "セクシュアリティ",
		Slug:        CategorySexuality,
		Description: "性の健康・パートナーシップ",
		OrderIndex:  9,
		Keywords: []string{
			"性生活", "セックスレス", "更年期", "ホルモン", "パートナーシップ",
			"夫婦関係", "性の健康",
			"sexual health", "intimacy", "menopause", "libido",
		},
	},
}

// CategoryBySlug はスラッグからカテゴリ定義を検索する。見つからない場合はnilを返す。
func CategoryBySlug(slug string) *CategoryDefinition {
	for i := range Categories {
		if Categories[i].Slug == slug {
			return &Categories[i]
		}
	}
	return nil
}

// IsValidCategory はスラッグが定義済みカテゴリかを検証する。
func IsValidCategory(slug string) bool {
	return CategoryBySlug(slug) != nil
}

// CategorySlugs は全カテゴリのスラッグをOrderIndex順に返す。
func CategorySlugs() []string {
	slugs := make([]string, 0, len(Categories))
	for _, c := range Categories {
		slugs = append(slugs, c.Slug)
	}
	return slugs
}
