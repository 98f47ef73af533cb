package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/moodkeeper/internal/client/insights"
	"github.com/dmitrijs2005/moodkeeper/internal/client/memory"
	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
)

// ErrEmptyInsight is returned when the model answers with no usable text.
var ErrEmptyInsight = errors.New("ai: empty insight")

type insightResponse struct {
	Insight string `json:"insight" jsonschema:"required"`
}

var insightSchema = GenerateSchema[insightResponse]()

// InsightWriter turns a range payload into a short written insight.
type InsightWriter struct {
	responder Responder
}

func NewInsightWriter(r Responder) *InsightWriter {
	return &InsightWriter{responder: r}
}

func (w *InsightWriter) Write(ctx context.Context, p insights.Payload) (string, error) {
	input, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode insight payload: %w", err)
	}

	out, err := w.responder.Respond(ctx, Request{
		Name:            "MoodInsight",
		Description:     "Written mood insight JSON",
		Instructions:    InsightInstructions(p.UserProfile.Preferences, p.SelectedRange),
		Input:           string(input),
		Schema:          insightSchema,
		MaxOutputTokens: 800,
	})
	if err != nil {
		return "", err
	}
	return parseInsight(out)
}

// parseInsight accepts {"insight": "..."} and falls back to the raw text
// when the answer is not JSON.
func parseInsight(out string) (string, error) {
	raw := memory.StripCodeFence(out)

	var resp insightResponse
	if err := json.Unmarshal([]byte(raw), &resp); err == nil {
		raw = resp.Insight
	} else if strings.HasPrefix(strings.TrimSpace(raw), "{") {
		return "", ErrEmptyInsight
	}

	if insight := strings.TrimSpace(raw); insight != "" {
		return insight, nil
	}
	return "", ErrEmptyInsight
}

// InsightInstructions renders the system prompt for an insight in the tone,
// depth and scope the user chose.
func InsightInstructions(prefs insights.Preferences, r models.Range) string {
	tone := "Respond softly and empathetically."
	switch prefs.AITone {
	case "Direct":
		tone = "Be clear and concise, avoid emotional language."
	case "Motivational":
		tone = "Be uplifting and action-oriented with encouraging language."
	}

	depth, words := "Provide slightly more context and explanation while staying concise.", 180
	if prefs.SuggestionDepth == "Quick" {
		depth, words = "Keep it brief and practical.", 120
	}

	scope := "Do not provide long-term analysis, keep recommendations within the selected range only."
	if prefs.AllowLongTermAnalysis {
		scope = "Long-term analysis is allowed if helpful."
	}

	support := "Do not include professional support suggestions."
	if prefs.ShowProfessionalSupportSuggestions {
		support = "If risk appears elevated, you may suggest seeking professional support in a gentle way."
	}

	var focus string
	switch r {
	case models.RangeDay:
		focus = "Focus on short-term support for today."
	case models.RangeWeek:
		focus = "Analyze trend and pattern shifts across the week."
	case models.RangeMonth:
		focus = "Analyze behavioral patterns and emotional stability across the month."
	default:
		focus = "Provide deep reflection and long-term advice based on yearly patterns."
	}

	return fmt.Sprintf(`You are a personal emotional wellness assistant.
%s
%s
Avoid clinical phrasing.
Write as a supportive personal companion.
%s
%s

%s

The input is an emotional summary with the user's profile. Provide:
1. Emotional trend insight
2. Risk signals
3. Habit improvement suggestion
4. One reflective question

Do not diagnose medical conditions.
Write "insight" in short sections with these exact headings:
WHAT IM NOTICING:
WATCH FOR:
TRY THIS TOMORROW:
REFLECTION:
Under TRY THIS TOMORROW provide 2-3 concrete bullet points.
Do not mention token, payload, or technical metrics.
Limit response to %d words.`, tone, depth, scope, support, focus, words)
}
