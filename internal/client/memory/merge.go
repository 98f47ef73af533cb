package memory

import (
	"time"

	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
)

// MergeUpdate applies patch to current on behalf of source.
//
// A manual patch marks every field it carries as user-owned. An ai patch
// loses every field the user owns; those keep the current value. Bookkeeping
// fields (lastCompressedAt and the processed counters) are never guarded.
// The result is normalized and stamped with now.
func MergeUpdate(current models.LongTermSummary, patch models.LongTermPatch, source models.Source, now time.Time) models.LongTermSummary {
	next := NormalizeLongTermSummary(current)

	overrides := make(map[models.Field]bool, len(next.UserOverrides))
	for f, v := range next.UserOverrides {
		overrides[f] = v
	}

	switch source {
	case models.SourceAI:
		for _, f := range models.EditableFields {
			if overrides[f] {
				patch.Drop(f)
			}
		}
	default:
		for _, f := range models.EditableFields {
			if patch.Has(f) {
				overrides[f] = true
			}
		}
	}

	applyPatch(&next, patch)
	next.UserOverrides = overrides
	stamp := now
	next.UpdatedAt = &stamp

	return NormalizeLongTermSummary(next)
}

// ClearOverride hands f back to automated regeneration.
func ClearOverride(current models.LongTermSummary, f models.Field, now time.Time) models.LongTermSummary {
	next := NormalizeLongTermSummary(current)
	next.UserOverrides[f] = false
	stamp := now
	next.UpdatedAt = &stamp
	return next
}

func applyPatch(s *models.LongTermSummary, p models.LongTermPatch) {
	if p.ProfileSummary != nil {
		s.ProfileSummary = *p.ProfileSummary
	}
	if p.EmotionalBaselineSummary != nil {
		s.EmotionalBaselineSummary = *p.EmotionalBaselineSummary
	}
	if p.PersonalityPattern != nil {
		s.PersonalityPattern = *p.PersonalityPattern
	}
	if p.StressBaseline != nil {
		s.StressBaseline = *p.StressBaseline
	}
	if p.EmotionalTriggers != nil {
		s.EmotionalTriggers = *p.EmotionalTriggers
	}
	if p.SupportPatterns != nil {
		s.SupportPatterns = *p.SupportPatterns
	}
	if p.RecurringThemes != nil {
		s.RecurringThemes = *p.RecurringThemes
	}
	if p.RelationshipPatterns != nil {
		s.RelationshipPatterns = *p.RelationshipPatterns
	}
	if p.ManualTags != nil {
		s.ManualTags = *p.ManualTags
	}
	if p.LastCompressedAt != nil {
		at := *p.LastCompressedAt
		s.LastCompressedAt = &at
	}
	if p.LastProcessedJournalEntryCount != nil {
		s.LastProcessedJournalEntryCount = *p.LastProcessedJournalEntryCount
	}
	if p.LastProcessedMoodEntryCount != nil {
		s.LastProcessedMoodEntryCount = *p.LastProcessedMoodEntryCount
	}
}

// MergeRolling overlays patch on current. Every field is last-write-wins.
func MergeRolling(current models.RollingContext, patch models.RollingPatch, now time.Time) models.RollingContext {
	next := current
	if patch.RecentMoodTrend7d != nil {
		next.RecentMoodTrend7d = *patch.RecentMoodTrend7d
	}
	if patch.RecentEntriesSummary != nil {
		next.RecentEntriesSummary = *patch.RecentEntriesSummary
	}
	if patch.SessionSummary != nil {
		next.SessionSummary = *patch.SessionSummary
	}
	if patch.ActiveFocus != nil {
		next.ActiveFocus = *patch.ActiveFocus
	}
	stamp := now
	next.UpdatedAt = &stamp
	return NormalizeRollingContext(next)
}
