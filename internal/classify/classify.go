// Package classify maps free-text fix feedback to a modification category
// and the pipeline phases that category requires to re-run.
package classify

import "strings"

// Category identifies the kind of modification a piece of feedback asks for.
type Category string

const (
	CategoryUI       Category = "ui"
	CategoryLogic    Category = "logic"
	CategoryDocs     Category = "docs"
	CategorySecurity Category = "security"
	CategoryFull     Category = "full"

	// CategoryCustom is used when the caller supplies an explicit phase list
	// instead of letting the classifier decide.
	CategoryCustom Category = "custom"
)

// Rule associates a category with its trigger keywords, the phases to
// re-run, and the issue labels to apply.
type Rule struct {
	Category    Category
	Keywords    []string
	Phases      []int
	Labels      []string
	Description string
}

// rules is the fixed classification table. Order matters: when two matched
// categories have phase lists of equal length, the earlier entry wins.
var rules = []Rule{
	{
		Category:    CategoryUI,
		Keywords:    []string{"デザイン", "色", "レイアウト", "スタイル", "CSS", "見た目", "UI", "ボタン", "フォント"},
		Phases:      []int{3, 6},
		Labels:      []string{"type:ui"},
		Description: "UI/デザイン変更",
	},
	{
		Category:    CategoryLogic,
		Keywords:    []string{"ロジック", "機能", "動作", "バグ", "エラー", "修正", "追加", "削除"},
		Phases:      []int{3, 4, 6},
		Labels:      []string{"type:fix"},
		Description: "ロジック/機能変更",
	},
	{
		Category:    CategoryDocs,
		Keywords:    []string{"ドキュメント", "README", "説明", "コメント", "ヘルプ"},
		Phases:      []int{5, 6},
		Labels:      []string{"type:docs"},
		Description: "ドキュメント変更",
	},
	{
		Category:    CategorySecurity,
		Keywords:    []string{"セキュリティ", "認証", "パスワード", "API", "キー", "トークン"},
		Phases:      []int{3, 4, 6},
		Labels:      []string{"type:security"},
		Description: "セキュリティ関連変更",
	},
	{
		Category:    CategoryFull,
		Keywords:    []string{"全体", "大幅", "リファクタ", "作り直し"},
		Phases:      []int{3, 4, 5, 6},
		Labels:      []string{"type:refactor"},
		Description: "大規模変更",
	},
}

// Classify determines the modification category for the given feedback text
// and returns the category together with the phases to re-run and the issue
// labels to apply.
//
// A category matches when any of its keywords occurs as a case-insensitive
// substring of the feedback. When several categories match, the one with the
// longest phase list wins; this deliberately picks the most thorough re-run
// plan. Feedback matching nothing is treated as a UI change.
func Classify(feedback string) (Category, []int, []string) {
	lower := strings.ToLower(feedback)

	var best *Rule
	for i := range rules {
		rule := &rules[i]
		for _, keyword := range rule.Keywords {
			if strings.Contains(lower, strings.ToLower(keyword)) {
				if best == nil || len(rule.Phases) > len(best.Phases) {
					best = rule
				}
				break
			}
		}
	}

	if best == nil {
		best = &rules[0] // default: ui
	}

	phases := make([]int, len(best.Phases))
	copy(phases, best.Phases)
	labels := make([]string, len(best.Labels))
	copy(labels, best.Labels)
	return best.Category, phases, labels
}

// Describe returns the human-readable description for a category, or the
// category name itself when it has no table entry (e.g. custom).
func Describe(c Category) string {
	for i := range rules {
		if rules[i].Category == c {
			return rules[i].Description
		}
	}
	return string(c)
}
