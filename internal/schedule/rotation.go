// Package schedule は日次収集のカテゴリローテーションを提供する。
package schedule

import (
	"time"

	"github.com/thirdtwenty/320mag/internal/model"
)

// Task は1カテゴリ分の収集タスクを表す。
type Task struct {
	Category string
	Count    int
}

// rotationGroups は9カテゴリを3グループに分けたローテーション定義。
// 3日周期で全カテゴリが一巡し、各カテゴリは3日に1回収集される。
var rotationGroups = [3][3]string{
	{model.CategoryFashion, model.CategoryFood, model.CategoryPsychology},
	{model.CategoryBeauty, model.CategoryTravel, model.CategoryFitness},
	{model.CategoryCulture, model.CategoryHousing, model.CategorySexuality},
}

// dailyCountPerCategory は1カテゴリあたりの日次公開件数。
const dailyCountPerCategory = 1

// ForDate は指定日の収集タスクを返す。日付のみで決まる純粋関数であり、
// 同じ日付に対しては常に同じタスク列を返す。周期インデックスは
// Unixエポックからの経過日数を3で割った剰余で求める（タイムゾーンはUTC）。
func ForDate(date time.Time) []Task {
	days := date.UTC().Unix() / (24 * 60 * 60)
	group := rotationGroups[days%3]

	tasks := make([]Task, 0, len(group))
	for _, category := range group {
		tasks = append(tasks, Task{Category: category, Count: dailyCountPerCategory})
	}
	return tasks
}
