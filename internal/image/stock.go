package image

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"regexp"
)

// DisplayCategory はストック写真選定用の表示カテゴリ。
// 記事カテゴリとは独立で、タイトル・本文のキーワードから推定する。
type DisplayCategory string

const (
	displayFashion DisplayCategory = "fashion"
	displayBeauty  DisplayCategory = "beauty"
	displayCulture DisplayCategory = "culture"
	displayFood    DisplayCategory = "food"
	displayTravel  DisplayCategory = "travel"
	displayHousing DisplayCategory = "housing"
	displayDefault DisplayCategory = "default"
)

// displayRule は表示カテゴリの推定ルール。
// カテゴリ同士のキーワードは重複するため、判定順が意味を持つ:
// fashion > beauty > culture/art > food > travel > housing の優先順で照合する。
type displayRule struct {
	category DisplayCategory
	pattern  *regexp.Regexp
}

var displayRules = []displayRule{
	{displayFashion, regexp.MustCompile(`(?i)ファッション|コーデ|着こなし|ドレス|ワードローブ|fashion|outfit|dress|gown|style`)},
	{displayBeauty, regexp.MustCompile(`(?i)美容|スキンケア|コスメ|化粧|美肌|beauty|skincare|makeup|cosmetic`)},
	{displayCulture, regexp.MustCompile(`(?i)アート|美術|展覧会|映画|音楽|舞台|art|museum|gallery|cinema|exhibition`)},
	{displayFood, regexp.MustCompile(`(?i)レシピ|料理|食材|グルメ|献立|recipe|cooking|cuisine|dish|restaurant`)},
	{displayTravel, regexp.MustCompile(`(?i)旅行|旅|温泉|観光|ホテル|絶景|travel|trip|journey|hotel|resort`)},
	{displayHousing, regexp.MustCompile(`(?i)住まい|リフォーム|インテリア|住宅|間取り|interior|renovation|housing|furniture`)},
}

// InferDisplayCategory はタイトル・本文のテキストから表示カテゴリを推定する。
// どのルールにも一致しない場合はdefaultを返す。
func InferDisplayCategory(text string) DisplayCategory {
	for _, rule := range displayRules {
		if rule.pattern.MatchString(text) {
			return rule.category
		}
	}
	return displayDefault
}

// stockPools は表示カテゴリごとの事前選定済みUnsplash写真IDプール。
// 実画像が解決できなかった記事の最終フォールバックとして使用する。
var stockPools = map[DisplayCategory][]string{
	displayFashion: {
		"1490481651871-ab68de25d43d",
		"1445205170230-053b83016050",
		"1483985988355-763728e1935b",
		"1469334031218-e382a71b716b",
		"1487222477894-8943e31ef7b2",
	},
	displayBeauty: {
		"1596462502278-27bfdc403348",
		"1522335789203-aabd1fc54bc9",
		"1571781926291-c477ebfd024b",
		"1512496015851-a90fb38ba796",
		"1487412947147-5cebf100ffc2",
	},
	displayCulture: {
		"1518998053901-5348d3961a04",
		"1499426600726-a950358acf16",
		"1507003211169-0a1dd7228f2d",
		"1460661419201-fd4cecdf8a8b",
		"1513364776144-60967b0f800f",
	},
	displayFood: {
		"1504674900247-0877df9cc836",
		"1476224203421-9ac39bcb3327",
		"1414235077428-338989a2e8c0",
		"1467003909585-2f8a72700288",
		"1540189549336-e6e99c3679fe",
	},
	displayTravel: {
		"1507525428034-b723cf961d3e",
		"1476514525535-07fb3b4ae5f1",
		"1530521954074-e64f6810b32d",
		"1469854523086-cc02fe5d8800",
		"1528164344705-47542687000d",
	},
	displayHousing: {
		"1484154218962-a197022b5858",
		"1493809842364-78817add7ffb",
		"1513694203232-719a280e022f",
		"1502005229762-cf1b2da7c5d6",
		"1556911220-bff31c812dba",
	},
	displayDefault: {
		"1506784365847-bbad939e9335",
		"1488190211105-8b0e65b80b4e",
		"1499750310107-5fef28a66643",
		"1497032628192-86f99bcd76bc",
		"1517842645767-c639042777db",
	},
}

// StockPhotoURL は表示カテゴリのプールから1枚選んでURLを返す。
// articleIDが与えられた場合はIDのハッシュでプール内の位置を決定し、
// 同一記事の再解決で常に同じ写真を返す（かつ記事ごとにプール全体へ分散する）。
// articleIDが空の場合はランダムに選択する。
func StockPhotoURL(category DisplayCategory, articleID string) string {
	pool, ok := stockPools[category]
	if !ok || len(pool) == 0 {
		pool = stockPools[displayDefault]
	}

	var idx int
	if articleID != "" {
		h := fnv.New32a()
		h.Write([]byte(articleID))
		// uint32のまま剰余を取る。int幅が32ビットの環境で
		// 符号付き変換すると負のインデックスになり得るため。
		idx = int(h.Sum32() % uint32(len(pool)))
	} else {
		idx = rand.Intn(len(pool))
	}

	return fmt.Sprintf("https://images.unsplash.com/photo-%s?w=1200&q=80", pool[idx])
}
