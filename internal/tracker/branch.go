package tracker

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	slugMaxLen   = 30
	branchMaxLen = 60
)

// slugDisallowedRe matches runs of characters outside the slug allow-set:
// ASCII alphanumerics plus Hiragana, Katakana and the CJK unified block, so
// Japanese feedback still yields a readable branch name.
var slugDisallowedRe = regexp.MustCompile(`[^a-z0-9\x{3040}-\x{309f}\x{30a0}-\x{30ff}\x{4e00}-\x{9fff}]+`)

// Slugify converts free text into a branch-name-safe slug. The result is
// lowercase, at most 30 runes, and never empty ("fix" stands in for text
// that slugifies away entirely). Slugifying a slug returns it unchanged.
func Slugify(text string) string {
	slug := strings.ToLower(text)
	slug = slugDisallowedRe.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	runes := []rune(slug)
	if len(runes) > slugMaxLen {
		slug = strings.TrimRight(string(runes[:slugMaxLen]), "-")
	}
	if slug == "" {
		return "fix"
	}
	return slug
}

// BranchName derives the fix branch name for an issue. When the composed
// name would exceed the git-friendly 60-rune bound, the slug is dropped.
func BranchName(appName string, issueNumber int, description string) string {
	branch := fmt.Sprintf("fix/%s-%d-%s", appName, issueNumber, Slugify(description))
	if len([]rune(branch)) > branchMaxLen {
		branch = fmt.Sprintf("fix/%s-%d", appName, issueNumber)
	}
	return branch
}
