// Package memory holds the pure rules for the two memory documents: default
// shapes, normalization and the field-override merge that keeps automated
// regeneration away from fields the user has curated.
package memory

import (
	"strings"

	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
	"github.com/samber/lo"
)

const (
	// LongTextBudget caps the narrative fields.
	LongTextBudget = 220
	// ShortTextBudget caps stressBaseline.
	ShortTextBudget = 160
	// ListLimit caps every string list.
	ListLimit = 8
	// ModelItemBudget caps each list item produced by the summarizer.
	ModelItemBudget = 60
	// ManualTagLimit caps manualTags.
	ManualTagLimit = 30
)

// CompactText collapses whitespace and shortens s to max runes, marking the
// cut with "...".
func CompactText(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// NormalizeList trims items, drops empties and duplicates and keeps the first
// limit entries.
func NormalizeList(items []string, limit int) []string {
	out := lo.Uniq(lo.Compact(lo.Map(items, func(s string, _ int) string {
		return strings.TrimSpace(s)
	})))
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// NormalizeModelList is NormalizeList for summarizer output, where each item
// is also compacted.
func NormalizeModelList(items []string) []string {
	return NormalizeList(lo.Map(items, func(s string, _ int) string {
		return CompactText(s, ModelItemBudget)
	}), ListLimit)
}

// NormalizeManualTags trims tags, drops those missing a label or a name and
// keeps at most ManualTagLimit.
func NormalizeManualTags(tags []models.ManualTag) []models.ManualTag {
	out := lo.FilterMap(tags, func(t models.ManualTag, _ int) (models.ManualTag, bool) {
		t.Label = strings.TrimSpace(t.Label)
		t.Name = strings.TrimSpace(t.Name)
		return t, t.Label != "" && t.Name != ""
	})
	if len(out) > ManualTagLimit {
		out = out[:ManualTagLimit]
	}
	return out
}

// DefaultLongTermSummary is the empty summary of a new account.
func DefaultLongTermSummary() models.LongTermSummary {
	return NormalizeLongTermSummary(models.LongTermSummary{})
}

// DefaultRollingContext is the empty rolling context of a new account.
func DefaultRollingContext() models.RollingContext {
	return models.RollingContext{}
}

// NormalizeLongTermSummary enforces the document invariants: budgets, list
// limits, an override flag for every editable field and non-negative
// counters. Lists are never nil so they serialize as [].
func NormalizeLongTermSummary(s models.LongTermSummary) models.LongTermSummary {
	s.ProfileSummary = CompactText(s.ProfileSummary, LongTextBudget)
	s.EmotionalBaselineSummary = CompactText(s.EmotionalBaselineSummary, LongTextBudget)
	s.PersonalityPattern = CompactText(s.PersonalityPattern, LongTextBudget)
	s.StressBaseline = CompactText(s.StressBaseline, ShortTextBudget)

	s.EmotionalTriggers = NormalizeList(s.EmotionalTriggers, ListLimit)
	s.SupportPatterns = NormalizeList(s.SupportPatterns, ListLimit)
	s.RecurringThemes = NormalizeList(s.RecurringThemes, ListLimit)
	s.RelationshipPatterns = NormalizeList(s.RelationshipPatterns, ListLimit)
	s.ManualTags = NormalizeManualTags(s.ManualTags)

	overrides := make(map[models.Field]bool, len(models.EditableFields))
	for _, f := range models.EditableFields {
		overrides[f] = s.UserOverrides[f]
	}
	s.UserOverrides = overrides

	s.LastProcessedJournalEntryCount = max(0, s.LastProcessedJournalEntryCount)
	s.LastProcessedMoodEntryCount = max(0, s.LastProcessedMoodEntryCount)

	return s
}

// NormalizeRollingContext trims every field.
func NormalizeRollingContext(c models.RollingContext) models.RollingContext {
	c.RecentMoodTrend7d = strings.TrimSpace(c.RecentMoodTrend7d)
	c.RecentEntriesSummary = strings.TrimSpace(c.RecentEntriesSummary)
	c.SessionSummary = strings.TrimSpace(c.SessionSummary)
	c.ActiveFocus = strings.TrimSpace(c.ActiveFocus)
	return c
}
