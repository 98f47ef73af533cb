package insights

import (
	"bytes"
	"encoding/json"
	"math"
	"time"
	"unicode/utf16"

	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
)

const displayNameLimit = 50

// PersonalDetails is the part of the profile describing the person.
type PersonalDetails struct {
	Name       string `json:"name"`
	Age        string `json:"age"`
	Profession string `json:"profession"`
	Weight     string `json:"weight"`
	Height     string `json:"height"`
	Gender     string `json:"gender"`
	About      string `json:"about"`
}

// Preferences is the part of the profile that steers the assistant.
type Preferences struct {
	StressLevel                        string `json:"stressLevel"`
	SleepAverage                       string `json:"sleepAverage"`
	EnergyPattern                      string `json:"energyPattern"`
	EmotionalSensitivity               string `json:"emotionalSensitivity"`
	AITone                             string `json:"aiTone"`
	SuggestionDepth                    string `json:"suggestionDepth"`
	DefaultInsightRange                string `json:"defaultInsightRange"`
	AllowLongTermAnalysis              bool   `json:"allowLongTermAnalysis"`
	ShowProfessionalSupportSuggestions bool   `json:"showProfessionalSupportSuggestions"`
}

// PromptProfile is the compact profile embedded in an insight prompt.
type PromptProfile struct {
	DisplayName     string          `json:"displayName"`
	PersonalDetails PersonalDetails `json:"personalDetails"`
	Preferences     Preferences     `json:"preferences"`
}

// CompactProfile keeps the profile fields an insight prompt uses.
func CompactProfile(p models.Profile) PromptProfile {
	name := []rune(p.Name)
	if len(name) > displayNameLimit {
		name = name[:displayNameLimit]
	}
	return PromptProfile{
		DisplayName: string(name),
		PersonalDetails: PersonalDetails{
			Name:       p.Name,
			Age:        p.Age,
			Profession: p.Profession,
			Weight:     p.Weight,
			Height:     p.Height,
			Gender:     p.Gender,
			About:      p.About,
		},
		Preferences: Preferences{
			StressLevel:                        p.StressLevel,
			SleepAverage:                       p.SleepAverage,
			EnergyPattern:                      p.EnergyPattern,
			EmotionalSensitivity:               p.EmotionalSensitivity,
			AITone:                             p.AITone,
			SuggestionDepth:                    p.SuggestionDepth,
			DefaultInsightRange:                p.DefaultInsightRange,
			AllowLongTermAnalysis:              p.AllowLongTermAnalysis,
			ShowProfessionalSupportSuggestions: p.ShowProfessionalSupportSuggestions,
		},
	}
}

// Payload is the document an insight prompt carries.
type Payload struct {
	SelectedRange    models.Range        `json:"selectedRange"`
	EmotionalSummary models.RangeSummary `json:"emotionalSummary"`
	UserProfile      PromptProfile       `json:"userProfile"`
}

// EstimatePayloadTokens approximates the prompt cost of payload as a quarter
// of its serialized length in UTF-16 code units.
func EstimatePayloadTokens(payload any) int {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return 0
	}
	units := len(utf16.Encode(bytes.Runes(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))))
	return int(math.Ceil(float64(units) / 4))
}

// BuildPayload assembles the prompt payload for r. A year summary whose
// payload exceeds TokenBudget is collapsed to quarters.
func BuildPayload(entries []models.MoodEntry, r models.Range, profile models.Profile, now time.Time) Payload {
	return BuildPayloadWithBudget(entries, r, profile, now, TokenBudget)
}

// BuildPayloadWithBudget is BuildPayload with a custom token budget.
func BuildPayloadWithBudget(entries []models.MoodEntry, r models.Range, profile models.Profile, now time.Time, budget int) Payload {
	p := Payload{
		SelectedRange:    r,
		EmotionalSummary: GetMoodDataByRange(entries, r, now),
		UserProfile:      CompactProfile(profile),
	}
	if r == models.RangeYear && EstimatePayloadTokens(p) > budget {
		p.EmotionalSummary = CompressYearToQuarterly(p.EmotionalSummary)
	}
	return p
}
