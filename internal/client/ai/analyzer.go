package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/dmitrijs2005/moodkeeper/internal/client/memory"
	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
	"github.com/dmitrijs2005/moodkeeper/internal/logging"
	"github.com/samber/lo"
)

const analyzerInstructions = `You are a warm, emotionally intelligent journaling companion.
Your tone is human, gentle and natural, never clinical. Keep responses short and supportive.
"reflection": 1-2 short conversational sentences that validate the user.
"moodTag": one of happy, stressed, calm, neutral, sad, anxious, angry, grateful, tired, overwhelmed.
"sentiment": a number between -1 and 1.
"followUpQuestion": exactly one open-ended reflective question.
If the context is unclear, ask one gentle clarifying question.`

const (
	historyPromptLimit    = 8
	suggestedQuestionsMax = 4
	defaultFollowUp       = "What feels most important to explore next?"
)

// AllowedMoodTags is the closed set of journal mood tags.
var AllowedMoodTags = []string{
	"happy", "stressed", "calm", "neutral", "sad",
	"anxious", "angry", "grateful", "tired", "overwhelmed",
}

type analysisResponse struct {
	Reflection       string  `json:"reflection" jsonschema:"required"`
	MoodTag          string  `json:"moodTag" jsonschema:"required"`
	Sentiment        float64 `json:"sentiment" jsonschema:"required"`
	FollowUpQuestion string  `json:"followUpQuestion" jsonschema:"required"`
}

var analysisSchema = GenerateSchema[analysisResponse]()

// Analyzer reads journal messages. It never fails: without a usable model
// answer it falls back to a keyword heuristic.
type Analyzer struct {
	responder Responder
	logger    logging.Logger
}

func NewAnalyzer(r Responder, logger logging.Logger) *Analyzer {
	return &Analyzer{responder: r, logger: logger.With("module", "ai", "component", "analyzer")}
}

func (a *Analyzer) Analyze(ctx context.Context, text string, history []models.JournalMessage, jc JournalContext) models.Analysis {
	input, err := analysisInput(text, history, jc)
	if err != nil {
		return FallbackAnalysis(text)
	}

	out, err := a.responder.Respond(ctx, Request{
		Name:            "JournalAnalysis",
		Description:     "Journal reflection JSON",
		Instructions:    analyzerInstructions,
		Input:           input,
		Schema:          analysisSchema,
		MaxOutputTokens: 600,
	})
	if err != nil {
		a.logger.Warn(ctx, "journal analysis failed, using heuristic", "error", err)
		return FallbackAnalysis(text)
	}

	analysis, ok := parseAnalysis(out)
	if !ok {
		a.logger.Warn(ctx, "journal analysis unusable, using heuristic")
		return FallbackAnalysis(text)
	}
	return analysis
}

func analysisInput(text string, history []models.JournalMessage, jc JournalContext) (string, error) {
	lines := make([]string, 0, historyPromptLimit)
	for _, m := range tail(history, historyPromptLimit) {
		t := strings.Join(strings.Fields(m.Text), " ")
		if t == "" {
			continue
		}
		role := models.RoleUser
		if m.Role == models.RoleAssistant {
			role = models.RoleAssistant
		}
		lines = append(lines, string(role)+": "+t)
	}

	b, err := json.Marshal(struct {
		Context JournalContext `json:"context"`
		History []string       `json:"history"`
		Entry   string         `json:"entry"`
	}{jc, lines, text})
	if err != nil {
		return "", fmt.Errorf("encode analysis input: %w", err)
	}
	return string(b), nil
}

func parseAnalysis(out string) (models.Analysis, bool) {
	var resp struct {
		analysisResponse
		SuggestedQuestions []any `json:"suggestedQuestions"`
	}
	if err := json.Unmarshal([]byte(memory.StripCodeFence(out)), &resp); err != nil {
		return models.Analysis{}, false
	}

	reflection := strings.TrimSpace(resp.Reflection)
	if reflection == "" {
		return models.Analysis{}, false
	}

	suggested := sanitizeQuestions(resp.SuggestedQuestions)
	followUp := strings.Join(strings.Fields(resp.FollowUpQuestion), " ")
	if followUp == "" && len(suggested) > 0 {
		followUp = suggested[0]
	}
	if followUp == "" {
		followUp = defaultFollowUp
	}

	return models.Analysis{
		Reflection:       reflection,
		MoodTag:          NormalizeMoodTag(resp.MoodTag),
		Sentiment:        clampSentiment(resp.Sentiment),
		FollowUpQuestion: followUp,
	}, true
}

func sanitizeQuestions(items []any) []string {
	qs := lo.FilterMap(items, func(v any, _ int) (string, bool) {
		s, ok := v.(string)
		s = strings.TrimSpace(s)
		return s, ok && s != ""
	})
	if len(qs) > suggestedQuestionsMax {
		qs = qs[:suggestedQuestionsMax]
	}
	return lo.Uniq(qs)
}

// NormalizeMoodTag maps free-form model tags onto AllowedMoodTags.
func NormalizeMoodTag(tag string) string {
	t := strings.ToLower(strings.TrimSpace(tag))
	switch {
	case t == "":
		return "neutral"
	case lo.Contains(AllowedMoodTags, t):
		return t
	case strings.Contains(t, "stress"), strings.Contains(t, "anxious"):
		return "stressed"
	case strings.Contains(t, "calm"), strings.Contains(t, "peace"):
		return "calm"
	case strings.Contains(t, "happy"), strings.Contains(t, "joy"):
		return "happy"
	}
	return "neutral"
}

func clampSentiment(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-1, math.Min(1, v))
}

var (
	positiveWords = []string{"happy", "calm", "grateful", "relaxed", "good", "excited"}
	negativeWords = []string{"stressed", "anxious", "sad", "angry", "tired", "overwhelmed"}
)

// FallbackAnalysis scores text by keyword: +0.2 per positive word present,
// -0.2 per negative word present.
func FallbackAnalysis(text string) models.Analysis {
	lower := strings.ToLower(text)

	score := 0.0
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			score += 0.2
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			score -= 0.2
		}
	}
	sentiment := clampSentiment(models.Round2(score))

	tag := "neutral"
	switch {
	case sentiment >= 0.35:
		tag = "happy"
	case sentiment <= -0.35:
		tag = "stressed"
	case sentiment > 0.1:
		tag = "calm"
	}

	return models.Analysis{
		Reflection:       "Thanks for sharing. I can see meaningful emotional signals in what you wrote.",
		MoodTag:          tag,
		Sentiment:        sentiment,
		FollowUpQuestion: "What part of this moment feels most important to you right now?",
	}
}
