package schema

import "strings"

// FailureCategory tags a merged pull request that signals a production
// failure. Classification checks categories in the fixed order below and the
// first match wins, so a PR is never counted twice.
type FailureCategory string

// Failure categories, highest classification priority first.
const (
	FailureRevert FailureCategory = "revert"
	FailureHotfix FailureCategory = "hotfix"
	FailureBugfix FailureCategory = "bugfix"
	FailurePatch  FailureCategory = "patch"
)

// FailureCategoryOrder is the classification priority. The ordering is load
// bearing: a PR matching both hotfix and bugfix keywords counts as hotfix.
var FailureCategoryOrder = []FailureCategory{
	FailureRevert,
	FailureHotfix,
	FailureBugfix,
	FailurePatch,
}

// failureKeywords maps each category to its case-insensitive indicators.
var failureKeywords = map[FailureCategory][]string{
	FailureRevert: {"revert", "rollback", "undo"},
	FailureHotfix: {"hotfix", "emergency", "urgent", "critical"},
	FailureBugfix: {"fix", "bug", "issue", "broken", "error"},
	FailurePatch:  {"patch", "quick fix", "band-aid"},
}

// Keywords returns the indicator list for a category.
func (c FailureCategory) Keywords() []string {
	return failureKeywords[c]
}

// Matches reports whether the lowercased text contains any of the
// category's keywords. Callers must lowercase the input once up front.
func (c FailureCategory) Matches(lowered string) bool {
	for _, kw := range failureKeywords[c] {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// ClassifyFailure returns the first matching category for a PR title+body,
// or "" when none match.
func ClassifyFailure(title, body string) FailureCategory {
	loweredTitle := strings.ToLower(title)
	loweredBody := strings.ToLower(body)
	for _, cat := range FailureCategoryOrder {
		if cat.Matches(loweredTitle) || cat.Matches(loweredBody) {
			return cat
		}
	}
	return ""
}

// RecoveryKeywords flag a merged PR as a recovery for the MTTR heuristic.
var RecoveryKeywords = []string{"bug", "fix", "issue", "broken", "error", "hotfix"}

// IsRecoveryTitle reports whether a PR title looks like a recovery change.
func IsRecoveryTitle(title string) bool {
	lowered := strings.ToLower(title)
	for _, kw := range RecoveryKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}
