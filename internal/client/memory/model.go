package memory

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
)

// ErrMalformedSummary is returned for summarizer output that is not a single
// JSON object of the expected shape.
var ErrMalformedSummary = errors.New("malformed summary payload")

// ModelSummary is the shape the summarization service must return.
type ModelSummary struct {
	ProfileSummary           string   `json:"profileSummary" jsonschema:"required"`
	EmotionalBaselineSummary string   `json:"emotionalBaselineSummary" jsonschema:"required"`
	PersonalityPattern       string   `json:"personalityPattern" jsonschema:"required"`
	StressBaseline           string   `json:"stressBaseline" jsonschema:"required"`
	EmotionalTriggers        []string `json:"emotionalTriggers" jsonschema:"required"`
	SupportPatterns          []string `json:"supportPatterns" jsonschema:"required"`
	RecurringThemes          []string `json:"recurringThemes" jsonschema:"required"`
	RelationshipPatterns     []string `json:"relationshipPatterns" jsonschema:"required"`
}

// StripCodeFence removes a surrounding ```json ... ``` fence.
func StripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
		s = s[4:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

var (
	summaryTextKeys = []string{"profileSummary", "emotionalBaselineSummary", "personalityPattern", "stressBaseline"}
	summaryListKeys = []string{"emotionalTriggers", "supportPatterns", "recurringThemes", "relationshipPatterns"}
)

// ParseModelSummary decodes summarizer output strictly: one JSON object
// carrying every field with the right type, no unknown fields, nothing
// trailing.
func ParseModelSummary(text string) (ModelSummary, error) {
	s := StripCodeFence(text)
	if !strings.HasPrefix(s, "{") {
		return ModelSummary{}, fmt.Errorf("%w: not a JSON object", ErrMalformedSummary)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.DisallowUnknownFields()

	var out ModelSummary
	if err := dec.Decode(&out); err != nil {
		return ModelSummary{}, fmt.Errorf("%w: %v", ErrMalformedSummary, err)
	}
	if dec.More() {
		return ModelSummary{}, fmt.Errorf("%w: trailing data", ErrMalformedSummary)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &fields); err != nil {
		return ModelSummary{}, fmt.Errorf("%w: %v", ErrMalformedSummary, err)
	}
	for _, k := range summaryTextKeys {
		if !hasKind(fields[k], '"') {
			return ModelSummary{}, fmt.Errorf("%w: %s must be a string", ErrMalformedSummary, k)
		}
	}
	for _, k := range summaryListKeys {
		if !hasKind(fields[k], '[') {
			return ModelSummary{}, fmt.Errorf("%w: %s must be an array", ErrMalformedSummary, k)
		}
	}
	return out, nil
}

// hasKind reports whether raw is a JSON value starting with open, which
// rules out a missing key and null.
func hasKind(raw json.RawMessage, open byte) bool {
	v := bytes.TrimSpace(raw)
	return len(v) > 0 && v[0] == open
}

// Patch turns summarizer output into a long-term patch with every editable
// narrative field present, compacted to its budget.
func (m ModelSummary) Patch() models.LongTermPatch {
	profile := CompactText(m.ProfileSummary, LongTextBudget)
	baseline := CompactText(m.EmotionalBaselineSummary, LongTextBudget)
	personality := CompactText(m.PersonalityPattern, LongTextBudget)
	stress := CompactText(m.StressBaseline, ShortTextBudget)
	triggers := NormalizeModelList(m.EmotionalTriggers)
	support := NormalizeModelList(m.SupportPatterns)
	themes := NormalizeModelList(m.RecurringThemes)
	relationships := NormalizeModelList(m.RelationshipPatterns)

	return models.LongTermPatch{
		ProfileSummary:           &profile,
		EmotionalBaselineSummary: &baseline,
		PersonalityPattern:       &personality,
		StressBaseline:           &stress,
		EmotionalTriggers:        &triggers,
		SupportPatterns:          &support,
		RecurringThemes:          &themes,
		RelationshipPatterns:     &relationships,
	}
}
