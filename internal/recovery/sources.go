package recovery

import (
	"sort"

	"github.com/thirdtwenty/320mag/internal/model"
)

// alternativeSources はカテゴリごとのフォールバック用ソース定義。
// 同一カテゴリ内ではPriority昇順で試行され、同値は宣言順を維持する。
// RSS以外のタイプはAPIキーが設定されている場合のみ使用される。
var alternativeSources = []model.AlternativeSource{
	// fashion
	{ID: "alt-fashion-vogue", Name: "VOGUE JAPAN", Type: model.SourceTypeRSS, URL: "https://www.vogue.co.jp/rss/index.xml", Category: model.CategoryFashion, Priority: 1},
	{ID: "alt-fashion-fashionsnap", Name: "FASHIONSNAP", Type: model.SourceTypeRSS, URL: "https://www.fashionsnap.com/rss.xml", Category: model.CategoryFashion, Priority: 2},
	{ID: "alt-fashion-guardian", Name: "Guardian Fashion", Type: model.SourceTypeGuardian, URL: "fashion", Category: model.CategoryFashion, Priority: 3, RequiresAuth: true},

	// beauty
	{ID: "alt-beauty-voce", Name: "VOCE", Type: model.SourceTypeRSS, URL: "https://i-voce.jp/feed/", Category: model.CategoryBeauty, Priority: 1},
	{ID: "alt-beauty-biteki", Name: "美的.com", Type: model.SourceTypeRSS, URL: "https://www.biteki.com/feed", Category: model.CategoryBeauty, Priority: 2},
	{ID: "alt-beauty-newsapi", Name: "NewsAPI Beauty", Type: model.SourceTypeNewsAPI, URL: "beauty skincare", Category: model.CategoryBeauty, Priority: 3, RequiresAuth: true},

	// culture
	{ID: "alt-culture-bijutsutecho", Name: "美術手帖", Type: model.SourceTypeRSS, URL: "https://bijutsutecho.com/rss", Category: model.CategoryCulture, Priority: 1},
	{ID: "alt-culture-cinra", Name: "CINRA", Type: model.SourceTypeRSS, URL: "https://www.cinra.net/rss", Category: model.CategoryCulture, Priority: 2},
	{ID: "alt-culture-nyt", Name: "NYT Arts", Type: model.SourceTypeNYT, URL: "arts culture", Category: model.CategoryCulture, Priority: 3, RequiresAuth: true},

	// food
	{ID: "alt-food-macaroni", Name: "macaroni", Type: model.SourceTypeRSS, URL: "https://macaro-ni.jp/feed", Category: model.CategoryFood, Priority: 1},
	{ID: "alt-food-kyounoryouri", Name: "みんなのきょうの料理", Type: model.SourceTypeRSS, URL: "https://www.kyounoryouri.jp/feed", Category: model.CategoryFood, Priority: 2},
	{ID: "alt-food-guardian", Name: "Guardian Food", Type: model.SourceTypeGuardian, URL: "food", Category: model.CategoryFood, Priority: 3, RequiresAuth: true},

	// travel
	{ID: "alt-travel-jalan", Name: "じゃらんニュース", Type: model.SourceTypeRSS, URL: "https://www.jalan.net/news/feed/", Category: model.CategoryTravel, Priority: 1},
	{ID: "alt-travel-tabizine", Name: "TABIZINE", Type: model.SourceTypeRSS, URL: "https://tabizine.jp/feed/", Category: model.CategoryTravel, Priority: 2},
	{ID: "alt-travel-currents", Name: "Currents Travel", Type: model.SourceTypeCurrents, URL: "travel", Category: model.CategoryTravel, Priority: 3, RequiresAuth: true},

	// housing
	{ID: "alt-housing-suumo", Name: "SUUMOジャーナル", Type: model.SourceTypeRSS, URL: "https://suumo.jp/journal/feed/", Category: model.CategoryHousing, Priority: 1},
	{ID: "alt-housing-roomie", Name: "ROOMIE", Type: model.SourceTypeRSS, URL: "https://www.roomie.jp/feed/", Category: model.CategoryHousing, Priority: 2},

	// psychology
	{ID: "alt-psychology-mylohas", Name: "MYLOHAS", Type: model.SourceTypeRSS, URL: "https://www.mylohas.net/feed/index.xml", Category: model.CategoryPsychology, Priority: 1},
	{ID: "alt-psychology-newsapi", Name: "NewsAPI Psychology", Type: model.SourceTypeNewsAPI, URL: "psychology wellbeing", Category: model.CategoryPsychology, Priority: 2, RequiresAuth: true},

	// fitness
	{ID: "alt-fitness-tarzan", Name: "Tarzan Web", Type: model.SourceTypeRSS, URL: "https://tarzanweb.jp/feed", Category: model.CategoryFitness, Priority: 1},
	{ID: "alt-fitness-melos", Name: "MELOS", Type: model.SourceTypeRSS, URL: "https://melos.media/feed/", Category: model.CategoryFitness, Priority: 2},

	// sexuality
	{ID: "alt-sexuality-otonasalone", Name: "OTONA SALONE", Type: model.SourceTypeRSS, URL: "https://otonasalone.jp/feed/", Category: model.CategorySexuality, Priority: 1},
	{ID: "alt-sexuality-newsapi", Name: "NewsAPI Intimacy", Type: model.SourceTypeNewsAPI, URL: "intimacy menopause health", Category: model.CategorySexuality, Priority: 2, RequiresAuth: true},
}

// primarySources はカテゴリごとの一次収集ソース定義。
// 日次収集はまずここから取得し、失敗・不足時に代替ソースへ移る。
var primarySources = map[string]model.AlternativeSource{
	model.CategoryFashion:    {ID: "primary-fashion", Name: "WWD JAPAN", Type: model.SourceTypeRSS, URL: "https://www.wwdjapan.com/feed", Category: model.CategoryFashion},
	model.CategoryBeauty:     {ID: "primary-beauty", Name: "MAQUIA ONLINE", Type: model.SourceTypeRSS, URL: "https://maquia.hpplus.jp/feed/", Category: model.CategoryBeauty},
	model.CategoryCulture:    {ID: "primary-culture", Name: "Casa BRUTUS", Type: model.SourceTypeRSS, URL: "https://casabrutus.com/feed", Category: model.CategoryCulture},
	model.CategoryFood:       {ID: "primary-food", Name: "dancyu", Type: model.SourceTypeRSS, URL: "https://dancyu.jp/feed/", Category: model.CategoryFood},
	model.CategoryTravel:     {ID: "primary-travel", Name: "CREA Traveller", Type: model.SourceTypeRSS, URL: "https://crea.bunshun.jp/list/feed/rss", Category: model.CategoryTravel},
	model.CategoryHousing:    {ID: "primary-housing", Name: "LIFULL HOME'S PRESS", Type: model.SourceTypeRSS, URL: "https://www.homes.co.jp/cont/feed/", Category: model.CategoryHousing},
	model.CategoryPsychology: {ID: "primary-psychology", Name: "DIAMOND online ライフ", Type: model.SourceTypeRSS, URL: "https://diamond.jp/list/feed/rss/dol", Category: model.CategoryPsychology},
	model.CategoryFitness:    {ID: "primary-fitness", Name: "ヨガジャーナルオンライン", Type: model.SourceTypeRSS, URL: "https://yogajournal.jp/feed", Category: model.CategoryFitness},
	model.CategorySexuality:  {ID: "primary-sexuality", Name: "ESSE online", Type: model.SourceTypeRSS, URL: "https://esse-online.jp/feed", Category: model.CategorySexuality},
}

// PrimarySourceFor はカテゴリの一次ソースを返す。
// 未定義カテゴリの場合はokがfalse。
func PrimarySourceFor(category string) (model.AlternativeSource, bool) {
	src, ok := primarySources[category]
	return src, ok
}

// AlternativesFor はカテゴリの代替ソースをPriority昇順で返す。
// Priorityが同値の場合は宣言順を維持する（安定ソート）。
func AlternativesFor(category string) []model.AlternativeSource {
	var sources []model.AlternativeSource
	for _, src := range alternativeSources {
		if src.Category == category {
			sources = append(sources, src)
		}
	}

	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].Priority < sources[j].Priority
	})

	return sources
}
