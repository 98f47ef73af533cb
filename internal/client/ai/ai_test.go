package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
	"github.com/dmitrijs2005/moodkeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)

type fakeResponder struct {
	out  string
	err  error
	reqs []Request
}

func (f *fakeResponder) Respond(_ context.Context, req Request) (string, error) {
	f.reqs = append(f.reqs, req)
	return f.out, f.err
}

func TestCallWithRetry_RetriesRateLimitThenSucceeds(t *testing.T) {
	calls := 0
	policy := RetryPolicy{RateLimitWaits: []time.Duration{0, 0}}

	got, err := CallWithRetry(context.Background(), policy, func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("429 Too Many Requests")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
}

func TestCallWithRetry_GivesUpWhenWaitsRunOut(t *testing.T) {
	calls := 0
	policy := RetryPolicy{ServerErrorWaits: []time.Duration{0}}

	_, err := CallWithRetry(context.Background(), policy, func(context.Context) (int, error) {
		calls++
		return 0, errors.New("500 internal server error")
	})

	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Contains(t, err.Error(), "failed after 2 attempts")
}

func TestCallWithRetry_OtherErrorsReturnImmediately(t *testing.T) {
	calls := 0
	boom := errors.New("400 bad request")

	_, err := CallWithRetry(context.Background(), DefaultRetryPolicy, func(context.Context) (int, error) {
		calls++
		return 0, boom
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestCallWithRetry_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CallWithRetry(ctx, RetryPolicy{RateLimitWaits: []time.Duration{time.Hour}}, func(context.Context) (int, error) {
		return 0, errors.New("rate limit")
	})

	require.ErrorIs(t, err, context.Canceled)
}

func TestGenerateSchema_Strict(t *testing.T) {
	schema := GenerateSchema[namesResponse]()

	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, false, schema["additionalProperties"])
	assert.ElementsMatch(t, []string{"names"}, schema["required"])
}

func TestOpenAIResponder_NotConfigured(t *testing.T) {
	_, err := NewOpenAIResponder("", "gpt-4o-mini").Respond(context.Background(), Request{})
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewCompressionRequest_BoundsInput(t *testing.T) {
	var journal []models.JournalEntry
	for i := 0; i < 40; i++ {
		journal = append(journal, models.JournalEntry{
			Text:    strings.Repeat("x", 200),
			MoodTag: "calm",
			Date:    testNow.Add(time.Duration(i) * time.Hour),
		})
	}
	var moods []models.MoodEntry
	for i := 0; i < 35; i++ {
		moods = append(moods, models.MoodEntry{
			Date: testNow.AddDate(0, 0, -i).Format("2006-01-02"),
			Slot: models.SlotEvening,
			Mood: 4,
			Note: strings.Repeat("n", 150),
		})
	}
	profile := models.DefaultProfile()
	profile.About = strings.Repeat("a", 300)

	req := NewCompressionRequest(profile, models.LongTermSummary{}, journal, moods)

	require.Len(t, req.JournalEntries, RecentItemLimit)
	assert.Equal(t, testNow.Add(10*time.Hour).Format(time.RFC3339), req.JournalEntries[0].Date)
	assert.Equal(t, testNow.Add(39*time.Hour).Format(time.RFC3339), req.JournalEntries[29].Date)
	assert.Len(t, []rune(req.JournalEntries[0].Text), 140)

	require.Len(t, req.MoodEntries, RecentItemLimit)
	assert.Equal(t, "2024-02-10", req.MoodEntries[0].Date)
	assert.Equal(t, "2024-03-10", req.MoodEntries[29].Date)
	assert.Len(t, []rune(req.MoodEntries[0].Note), 100)

	assert.Len(t, []rune(req.Profile.About), 180)
	assert.NotNil(t, req.LongTerm.EmotionalTriggers)
}

func TestSummarizer_ParsesOutput(t *testing.T) {
	r := &fakeResponder{out: "```json\n" + `{"profileSummary":"p","emotionalBaselineSummary":"b","personalityPattern":"","stressBaseline":"","emotionalTriggers":["work"],"supportPatterns":[],"recurringThemes":[],"relationshipPatterns":[]}` + "\n```"}

	got, err := NewSummarizer(r).Summarize(context.Background(), CompressionRequest{})

	require.NoError(t, err)
	assert.Equal(t, "p", got.ProfileSummary)
	assert.Equal(t, []string{"work"}, got.EmotionalTriggers)
	require.Len(t, r.reqs, 1)
	assert.Equal(t, "LongTermSummary", r.reqs[0].Name)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(r.reqs[0].Input), &payload))
	assert.Contains(t, payload, "profile")
	assert.Contains(t, payload, "moodEntries")
}

func TestSummarizer_Failures(t *testing.T) {
	_, err := NewSummarizer(&fakeResponder{err: errors.New("down")}).Summarize(context.Background(), CompressionRequest{})
	require.Error(t, err)

	_, err = NewSummarizer(&fakeResponder{out: "sorry, I cannot"}).Summarize(context.Background(), CompressionRequest{})
	require.Error(t, err)
}

func TestAnalyzer_UsesModelAnswer(t *testing.T) {
	r := &fakeResponder{out: `{"reflection":" That sounds heavy. ","moodTag":"Very Stressful","sentiment":-3,"followUpQuestion":"What  would help   tonight?"}`}
	a := NewAnalyzer(r, logging.Nop())

	got := a.Analyze(context.Background(), "long day", nil, JournalContext{})

	assert.Equal(t, "That sounds heavy.", got.Reflection)
	assert.Equal(t, "stressed", got.MoodTag)
	assert.Equal(t, -1.0, got.Sentiment)
	assert.Equal(t, "What would help tonight?", got.FollowUpQuestion)
}

func TestAnalyzer_FallsBack(t *testing.T) {
	tests := []struct {
		name string
		r    *fakeResponder
	}{
		{name: "error", r: &fakeResponder{err: ErrNotConfigured}},
		{name: "not json", r: &fakeResponder{out: "hello"}},
		{name: "empty reflection", r: &fakeResponder{out: `{"reflection":"  ","moodTag":"calm","sentiment":0.2,"followUpQuestion":"?"}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewAnalyzer(tt.r, logging.Nop()).Analyze(context.Background(), "I feel happy and grateful", nil, JournalContext{})
			assert.Equal(t, FallbackAnalysis("I feel happy and grateful"), got)
		})
	}
}

func TestAnalyzer_FollowUpFromSuggestions(t *testing.T) {
	r := &fakeResponder{out: `{"reflection":"ok","moodTag":"calm","sentiment":0.1,"followUpQuestion":"","suggestedQuestions":[" First? ",3,"Second?"]}`}

	got := NewAnalyzer(r, logging.Nop()).Analyze(context.Background(), "x", nil, JournalContext{})

	assert.Equal(t, "First?", got.FollowUpQuestion)
}

func TestAnalyzer_SendsHistoryAndContext(t *testing.T) {
	r := &fakeResponder{err: errors.New("down")}
	var history []models.JournalMessage
	for i := 0; i < 10; i++ {
		history = append(history, models.JournalMessage{Role: models.RoleUser, Text: fmt.Sprintf("m%d", i)})
	}

	NewAnalyzer(r, logging.Nop()).Analyze(context.Background(), "entry", history, JournalContext{ProfileSummary: "Name: Ana"})

	require.Len(t, r.reqs, 1)
	var payload struct {
		Context JournalContext `json:"context"`
		History []string       `json:"history"`
		Entry   string         `json:"entry"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.reqs[0].Input), &payload))
	assert.Equal(t, "Name: Ana", payload.Context.ProfileSummary)
	assert.Len(t, payload.History, 8)
	assert.Equal(t, "user: m2", payload.History[0])
	assert.Equal(t, "entry", payload.Entry)
}

func TestNormalizeMoodTag(t *testing.T) {
	tests := map[string]string{
		"":             "neutral",
		"Grateful":     "grateful",
		"anxiousness":  "stressed",
		"peaceful":     "calm",
		"joyful":       "happy",
		"bewildered":   "neutral",
		" overwhelmed": "overwhelmed",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeMoodTag(in), in)
	}
}

func TestFallbackAnalysis(t *testing.T) {
	tests := []struct {
		text      string
		sentiment float64
		tag       string
	}{
		{text: "nothing much", sentiment: 0, tag: "neutral"},
		{text: "I feel calm", sentiment: 0.2, tag: "calm"},
		{text: "happy, grateful and excited", sentiment: 0.6, tag: "happy"},
		{text: "stressed and anxious", sentiment: -0.4, tag: "stressed"},
		{text: "tired", sentiment: -0.2, tag: "neutral"},
	}
	for _, tt := range tests {
		got := FallbackAnalysis(tt.text)
		assert.InDelta(t, tt.sentiment, got.Sentiment, 1e-9, tt.text)
		assert.Equal(t, tt.tag, got.MoodTag, tt.text)
		assert.NotEmpty(t, got.Reflection)
		assert.NotEmpty(t, got.FollowUpQuestion)
	}
}

func TestNameExtractor(t *testing.T) {
	ctx := context.Background()

	got := NewNameExtractor(&fakeResponder{out: `{"names":["Ana"," Ana ","", "Marco"]}`}, logging.Nop()).Extract(ctx, "x")
	assert.Equal(t, []string{"Ana", "Marco"}, got)

	got = NewNameExtractor(&fakeResponder{out: `["Lea"]`}, logging.Nop()).Extract(ctx, "x")
	assert.Equal(t, []string{"Lea"}, got)

	got = NewNameExtractor(&fakeResponder{err: errors.New("down")}, logging.Nop()).Extract(ctx, "Today I met Ana and Ana met Marco on Monday")
	assert.Equal(t, []string{"Ana", "Marco"}, got)

	r := &fakeResponder{}
	got = NewNameExtractor(r, logging.Nop()).Extract(ctx, "   ")
	assert.Empty(t, got)
	assert.Empty(t, r.reqs)
}

func TestBuildJournalContext(t *testing.T) {
	moods := []models.MoodEntry{
		{Date: "2024-03-08", Slot: models.SlotMorning, Mood: 2, Score: -0.5, DateISO: time.Date(2024, 3, 8, 9, 0, 0, 0, time.UTC)},
		{Date: "2024-03-09", Slot: models.SlotMorning, Mood: 5, Score: 1, Note: "great walk", DateISO: time.Date(2024, 3, 9, 9, 0, 0, 0, time.UTC)},
		{Date: "2024-01-01", Slot: models.SlotMorning, Mood: 1, Score: -1, DateISO: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)},
	}
	mem := models.MemoryContext{
		LongTermSummary: models.LongTermSummary{
			ProfileSummary: "Calm engineer",
			ManualTags:     []models.ManualTag{{Label: "sister", Name: "Ana"}, {Label: "", Name: "x"}},
		},
		RollingContext: models.RollingContext{ActiveFocus: "sleep"},
	}
	history := []models.JournalMessage{{Role: models.RoleAssistant, Text: "How was it?"}}

	jc := BuildJournalContext(models.DefaultProfile(), moods, mem, history, testNow)

	assert.Equal(t, "7d average mood score: 0.25. Trend: improving.", jc.RecentMoodTrend)
	assert.Equal(t, `2024-03-08 morning mood:2 no note | 2024-03-09 morning mood:5 "great walk"`, jc.RecentEntriesSummary)
	assert.Equal(t, "Calm engineer", jc.LongTermSummary)
	assert.Equal(t, "sleep", jc.RollingSummary)
	assert.Equal(t, "assistant: How was it?", jc.RecentChatHistorySummary)
	assert.Equal(t, "sister: Ana", jc.ManualTagsSummary)
	assert.True(t, strings.HasPrefix(jc.ProfileSummary, "Name: You | Gender: Prefer not to say"))
}

func TestMoodTrend_NoRecentEntries(t *testing.T) {
	trend, highlights := MoodTrend(nil, testNow)
	assert.Equal(t, "No recent mood entries in the last 7 days.", trend)
	assert.Empty(t, highlights)
}
