package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/dmitrijs2005/moodkeeper/internal/client/memory"
	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
)

// RecentItemLimit bounds how many journal and mood entries a compression
// request carries.
const RecentItemLimit = 30

const summarizerInstructions = `You are updating a long-term emotional memory profile for a personal mood companion app.
Summarize patterns safely and supportively. Do not diagnose medical conditions.
Keep each string concise (1-2 sentences). Arrays hold short bullet-like phrases.
Prefer stable patterns over one-off events and preserve prior memory while it is still valid.`

var summarySchema = GenerateSchema[memory.ModelSummary]()

type CompactProfile struct {
	Name                 string `json:"name"`
	Age                  string `json:"age"`
	Profession           string `json:"profession"`
	Gender               string `json:"gender"`
	About                string `json:"about"`
	StressLevel          string `json:"stressLevel"`
	SleepAverage         string `json:"sleepAverage"`
	EnergyPattern        string `json:"energyPattern"`
	EmotionalSensitivity string `json:"emotionalSensitivity"`
	AITone               string `json:"aiTone"`
}

type CompactJournalEntry struct {
	Text           string  `json:"text"`
	MoodTag        string  `json:"moodTag"`
	SentimentScore float64 `json:"sentimentScore"`
	Date           string  `json:"date"`
}

type CompactMoodEntry struct {
	Date  string  `json:"date"`
	Slot  string  `json:"slot"`
	Mood  int     `json:"mood"`
	Score float64 `json:"score"`
	Note  string  `json:"note"`
}

// CompressionRequest is the bounded input of one summarization call.
type CompressionRequest struct {
	Profile        CompactProfile        `json:"profile"`
	LongTerm       memory.ModelSummary   `json:"longTerm"`
	JournalEntries []CompactJournalEntry `json:"journalEntries"`
	MoodEntries    []CompactMoodEntry    `json:"moodEntries"`
}

// NewCompressionRequest compacts the inputs to their budgets and keeps the
// most recent RecentItemLimit entries of each list, oldest first.
func NewCompressionRequest(profile models.Profile, longTerm models.LongTermSummary, journal []models.JournalEntry, moods []models.MoodEntry) CompressionRequest {
	ct := memory.CompactText

	req := CompressionRequest{
		Profile: CompactProfile{
			Name:                 ct(profile.Name, 80),
			Age:                  ct(profile.Age, 12),
			Profession:           ct(profile.Profession, 80),
			Gender:               ct(profile.Gender, 24),
			About:                ct(profile.About, 180),
			StressLevel:          ct(profile.StressLevel, 24),
			SleepAverage:         ct(profile.SleepAverage, 12),
			EnergyPattern:        ct(profile.EnergyPattern, 24),
			EmotionalSensitivity: ct(profile.EmotionalSensitivity, 24),
			AITone:               ct(profile.AITone, 24),
		},
		LongTerm: memory.ModelSummary{
			ProfileSummary:           ct(longTerm.ProfileSummary, memory.LongTextBudget),
			EmotionalBaselineSummary: ct(longTerm.EmotionalBaselineSummary, memory.LongTextBudget),
			PersonalityPattern:       ct(longTerm.PersonalityPattern, memory.LongTextBudget),
			StressBaseline:           ct(longTerm.StressBaseline, memory.ShortTextBudget),
			EmotionalTriggers:        memory.NormalizeModelList(longTerm.EmotionalTriggers),
			SupportPatterns:          memory.NormalizeModelList(longTerm.SupportPatterns),
			RecurringThemes:          memory.NormalizeModelList(longTerm.RecurringThemes),
			RelationshipPatterns:     memory.NormalizeModelList(longTerm.RelationshipPatterns),
		},
	}

	recentJournal := append([]models.JournalEntry(nil), journal...)
	sort.SliceStable(recentJournal, func(i, j int) bool {
		return recentJournal[i].Date.Before(recentJournal[j].Date)
	})
	recentJournal = tail(recentJournal, RecentItemLimit)
	req.JournalEntries = make([]CompactJournalEntry, 0, len(recentJournal))
	for _, e := range recentJournal {
		req.JournalEntries = append(req.JournalEntries, CompactJournalEntry{
			Text:           ct(e.Text, 140),
			MoodTag:        ct(e.MoodTag, 20),
			SentimentScore: e.SentimentScore,
			Date:           e.Date.UTC().Format(time.RFC3339),
		})
	}

	recentMoods := append([]models.MoodEntry(nil), moods...)
	models.SortMoodEntries(recentMoods)
	if len(recentMoods) > RecentItemLimit {
		recentMoods = recentMoods[:RecentItemLimit]
	}
	req.MoodEntries = make([]CompactMoodEntry, 0, len(recentMoods))
	for i := len(recentMoods) - 1; i >= 0; i-- {
		e := recentMoods[i]
		req.MoodEntries = append(req.MoodEntries, CompactMoodEntry{
			Date:  e.Date,
			Slot:  ct(string(e.Slot), 12),
			Mood:  e.Mood,
			Score: e.Score,
			Note:  ct(e.Note, 100),
		})
	}

	return req
}

func tail[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// Summarizer produces a fresh long-term summary from a compression request.
type Summarizer interface {
	Summarize(ctx context.Context, req CompressionRequest) (memory.ModelSummary, error)
}

// ModelSummarizer asks the model for a memory.ModelSummary.
type ModelSummarizer struct {
	responder Responder
}

func NewSummarizer(r Responder) *ModelSummarizer {
	return &ModelSummarizer{responder: r}
}

func (s *ModelSummarizer) Summarize(ctx context.Context, req CompressionRequest) (memory.ModelSummary, error) {
	input, err := json.Marshal(req)
	if err != nil {
		return memory.ModelSummary{}, fmt.Errorf("encode compression request: %w", err)
	}

	out, err := s.responder.Respond(ctx, Request{
		Name:            "LongTermSummary",
		Description:     "Long-term emotional memory JSON",
		Instructions:    summarizerInstructions,
		Input:           string(input),
		Schema:          summarySchema,
		MaxOutputTokens: 1500,
	})
	if err != nil {
		return memory.ModelSummary{}, err
	}

	summary, err := memory.ParseModelSummary(out)
	if err != nil {
		return memory.ModelSummary{}, err
	}
	return summary, nil
}
