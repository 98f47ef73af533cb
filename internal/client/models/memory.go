package models

import "time"

// Field names a user-editable long-term summary field.
type Field string

const (
	FieldProfileSummary           Field = "profileSummary"
	FieldEmotionalBaselineSummary Field = "emotionalBaselineSummary"
	FieldPersonalityPattern       Field = "personalityPattern"
	FieldStressBaseline           Field = "stressBaseline"
	FieldEmotionalTriggers        Field = "emotionalTriggers"
	FieldSupportPatterns          Field = "supportPatterns"
	FieldRecurringThemes          Field = "recurringThemes"
	FieldRelationshipPatterns     Field = "relationshipPatterns"
	FieldManualTags               Field = "manualTags"
)

// EditableFields lists every field guarded by an override flag.
var EditableFields = []Field{
	FieldProfileSummary,
	FieldEmotionalBaselineSummary,
	FieldPersonalityPattern,
	FieldStressBaseline,
	FieldEmotionalTriggers,
	FieldSupportPatterns,
	FieldRecurringThemes,
	FieldRelationshipPatterns,
	FieldManualTags,
}

// Source tells the merge who produced an update.
type Source string

const (
	SourceManual Source = "manual"
	SourceAI     Source = "ai"
)

// ManualTag maps a user-chosen label to a name, e.g. "sister" -> "Ana".
type ManualTag struct {
	Label string `json:"label"`
	Name  string `json:"name"`
}

// LongTermSummary is the slowly-changing compressed memory of the user.
type LongTermSummary struct {
	ProfileSummary           string   `json:"profileSummary"`
	EmotionalBaselineSummary string   `json:"emotionalBaselineSummary"`
	PersonalityPattern       string   `json:"personalityPattern"`
	StressBaseline           string   `json:"stressBaseline"`
	EmotionalTriggers        []string `json:"emotionalTriggers"`
	SupportPatterns          []string `json:"supportPatterns"`
	RecurringThemes          []string `json:"recurringThemes"`
	RelationshipPatterns     []string `json:"relationshipPatterns"`

	ManualTags    []ManualTag    `json:"manualTags"`
	UserOverrides map[Field]bool `json:"userOverrides"`

	LastCompressedAt               *time.Time `json:"lastCompressedAt"`
	LastProcessedJournalEntryCount int        `json:"lastProcessedJournalEntryCount"`
	LastProcessedMoodEntryCount    int        `json:"lastProcessedMoodEntryCount"`
	UpdatedAt                      *time.Time `json:"updatedAt"`
}

// Overridden reports whether the user has taken ownership of f.
func (s LongTermSummary) Overridden(f Field) bool {
	return s.UserOverrides[f]
}

// LongTermPatch is a partial update. Nil fields are left untouched.
type LongTermPatch struct {
	ProfileSummary           *string      `json:"profileSummary,omitempty"`
	EmotionalBaselineSummary *string      `json:"emotionalBaselineSummary,omitempty"`
	PersonalityPattern       *string      `json:"personalityPattern,omitempty"`
	StressBaseline           *string      `json:"stressBaseline,omitempty"`
	EmotionalTriggers        *[]string    `json:"emotionalTriggers,omitempty"`
	SupportPatterns          *[]string    `json:"supportPatterns,omitempty"`
	RecurringThemes          *[]string    `json:"recurringThemes,omitempty"`
	RelationshipPatterns     *[]string    `json:"relationshipPatterns,omitempty"`
	ManualTags               *[]ManualTag `json:"manualTags,omitempty"`

	LastCompressedAt               *time.Time `json:"lastCompressedAt,omitempty"`
	LastProcessedJournalEntryCount *int       `json:"lastProcessedJournalEntryCount,omitempty"`
	LastProcessedMoodEntryCount    *int       `json:"lastProcessedMoodEntryCount,omitempty"`
}

// Has reports whether the patch carries a value for f.
func (p LongTermPatch) Has(f Field) bool {
	switch f {
	case FieldProfileSummary:
		return p.ProfileSummary != nil
	case FieldEmotionalBaselineSummary:
		return p.EmotionalBaselineSummary != nil
	case FieldPersonalityPattern:
		return p.PersonalityPattern != nil
	case FieldStressBaseline:
		return p.StressBaseline != nil
	case FieldEmotionalTriggers:
		return p.EmotionalTriggers != nil
	case FieldSupportPatterns:
		return p.SupportPatterns != nil
	case FieldRecurringThemes:
		return p.RecurringThemes != nil
	case FieldRelationshipPatterns:
		return p.RelationshipPatterns != nil
	case FieldManualTags:
		return p.ManualTags != nil
	}
	return false
}

// Drop clears f from the patch.
func (p *LongTermPatch) Drop(f Field) {
	switch f {
	case FieldProfileSummary:
		p.ProfileSummary = nil
	case FieldEmotionalBaselineSummary:
		p.EmotionalBaselineSummary = nil
	case FieldPersonalityPattern:
		p.PersonalityPattern = nil
	case FieldStressBaseline:
		p.StressBaseline = nil
	case FieldEmotionalTriggers:
		p.EmotionalTriggers = nil
	case FieldSupportPatterns:
		p.SupportPatterns = nil
	case FieldRecurringThemes:
		p.RecurringThemes = nil
	case FieldRelationshipPatterns:
		p.RelationshipPatterns = nil
	case FieldManualTags:
		p.ManualTags = nil
	}
}

// RollingContext is the short-lived window of recent signals. It is fully
// replaced on every journal exchange.
type RollingContext struct {
	RecentMoodTrend7d    string     `json:"recentMoodTrend7d"`
	RecentEntriesSummary string     `json:"recentEntriesSummary"`
	SessionSummary       string     `json:"sessionSummary"`
	ActiveFocus          string     `json:"activeFocus"`
	UpdatedAt            *time.Time `json:"updatedAt"`
}

// RollingPatch is a partial update of the rolling context.
type RollingPatch struct {
	RecentMoodTrend7d    *string `json:"recentMoodTrend7d,omitempty"`
	RecentEntriesSummary *string `json:"recentEntriesSummary,omitempty"`
	SessionSummary       *string `json:"sessionSummary,omitempty"`
	ActiveFocus          *string `json:"activeFocus,omitempty"`
}

// MemoryContext bundles both memory documents.
type MemoryContext struct {
	LongTermSummary LongTermSummary `json:"longTermSummary"`
	RollingContext  RollingContext  `json:"rollingContext"`
}
