package models

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/moodkeeper/internal/common"
)

// Profile holds the user's personal details and assistant preferences.
// Numeric details are kept as strings; an empty string means "not given".
type Profile struct {
	Name                               string     `json:"name"`
	Age                                string     `json:"age"`
	Profession                         string     `json:"profession"`
	Weight                             string     `json:"weight"`
	Height                             string     `json:"height"`
	Gender                             string     `json:"gender"`
	About                              string     `json:"about"`
	StressLevel                        string     `json:"stressLevel"`
	SleepAverage                       string     `json:"sleepAverage"`
	EnergyPattern                      string     `json:"energyPattern"`
	EmotionalSensitivity               string     `json:"emotionalSensitivity"`
	AITone                             string     `json:"aiTone"`
	SuggestionDepth                    string     `json:"suggestionDepth"`
	DefaultInsightRange                string     `json:"defaultInsightRange"`
	AllowLongTermAnalysis              bool       `json:"allowLongTermAnalysis"`
	ShowProfessionalSupportSuggestions bool       `json:"showProfessionalSupportSuggestions"`
	UpdatedAt                          *time.Time `json:"updatedAt"`
}

// DefaultProfile is the profile of a fresh install.
func DefaultProfile() Profile {
	return Profile{
		Name:                               "You",
		Gender:                             "Prefer not to say",
		StressLevel:                        "Medium",
		SleepAverage:                       "7",
		EnergyPattern:                      "Mixed",
		EmotionalSensitivity:               "Moderate",
		AITone:                             "Gentle",
		SuggestionDepth:                    "Detailed",
		DefaultInsightRange:                "Week",
		AllowLongTermAnalysis:              true,
		ShowProfessionalSupportSuggestions: true,
	}
}

var profileOptions = map[string][]string{
	"stressLevel":          {"Low", "Medium", "High"},
	"energyPattern":        {"Morning", "Night", "Mixed"},
	"emotionalSensitivity": {"Low", "Moderate", "High"},
	"aiTone":               {"Gentle", "Direct", "Motivational"},
	"suggestionDepth":      {"Quick", "Detailed"},
	"defaultInsightRange":  {"Day", "Week", "Month", "Year"},
	"gender":               {"Female", "Male", "Non-binary", "Prefer not to say"},
}

const maxAboutLength = 240

// ValidationError carries a message meant for the user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return common.ErrValidation }

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ValidateProfile checks p and returns the cleaned copy that should be
// persisted, stamped with now.
func ValidateProfile(p Profile, now time.Time) (Profile, error) {
	if len([]rune(strings.TrimSpace(p.Name))) < 2 {
		return Profile{}, invalid("Name must be at least 2 characters.")
	}

	sleep, ok := normalizeNumber(p.SleepAverage, 0, 24, false)
	if !ok {
		return Profile{}, invalid("Sleep Average must be between 0 and 24 hours.")
	}

	options := []struct {
		key, label, value string
	}{
		{"stressLevel", "Stress Level", p.StressLevel},
		{"energyPattern", "Energy Pattern", p.EnergyPattern},
		{"emotionalSensitivity", "Emotional Sensitivity", p.EmotionalSensitivity},
		{"aiTone", "AI Tone", p.AITone},
		{"suggestionDepth", "Suggestion Depth", p.SuggestionDepth},
		{"defaultInsightRange", "Default Insight Range", p.DefaultInsightRange},
		{"gender", "Gender", p.Gender},
	}
	for _, o := range options {
		if !slices.Contains(profileOptions[o.key], o.value) {
			return Profile{}, invalid("Invalid %s value.", o.label)
		}
	}

	age, ok := normalizeNumber(p.Age, 1, 120, true)
	if !ok {
		return Profile{}, invalid("Age must be between 1 and 120.")
	}
	weight, ok := normalizeNumber(p.Weight, 1, 500, true)
	if !ok {
		return Profile{}, invalid("Weight must be between 1 and 500.")
	}
	height, ok := normalizeNumber(p.Height, 1, 300, true)
	if !ok {
		return Profile{}, invalid("Height must be between 1 and 300.")
	}

	out := p
	out.Name = strings.TrimSpace(p.Name)
	out.Age = age
	out.Weight = weight
	out.Height = height
	out.Profession = strings.TrimSpace(p.Profession)
	out.SleepAverage = sleep
	out.About = truncateRunes(strings.TrimSpace(p.About), maxAboutLength)
	stamp := now
	out.UpdatedAt = &stamp

	return out, nil
}

// normalizeNumber parses s, checks it against [min, max] and renders it with
// at most one decimal. An empty value is accepted only when optional.
func normalizeNumber(s string, min, max float64, optional bool) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		if optional {
			return "", true
		}
		s = "0"
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < min || v > max {
		return "", false
	}
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64), true
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
