package insights

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func journalAt(day int, text string, score float64) models.JournalEntry {
	return models.JournalEntry{
		Text:           text,
		SentimentScore: score,
		Date:           time.Date(2024, 3, day, 20, 0, 0, 0, time.UTC),
	}
}

func TestBuildCircle(t *testing.T) {
	named := map[string][]string{
		"Lunch with Ana and my mom was lovely": {"Ana"},
		"Argued with Ana again":                {" Ana "},
		"Mom called, felt calm":                {"Mom"},
		"Mike fixed the bike":                  {"Mike"},
		"Michael and Tom ignored me":           {"Michael", "Tom"},
	}
	extract := func(_ context.Context, text string) []string { return named[text] }

	entries := []models.JournalEntry{
		journalAt(1, "Lunch with Ana and my mom was lovely", 0.8),
		journalAt(2, "Argued with Ana again", -0.6),
		journalAt(3, "Mom called, felt calm", 0.6),
		journalAt(4, "Mike fixed the bike", 0.5),
		journalAt(5, "Michael and Tom ignored me", -0.9),
		journalAt(6, "   ", 1),
	}

	got := BuildCircle(context.Background(), entries, extract)

	require.Len(t, got.People, 3)

	mother := got.People[0]
	assert.Equal(t, "Mother", mother.Person)
	assert.Equal(t, 2, mother.MentionCount)
	assert.Equal(t, 0.7, mother.AvgMood)
	assert.Equal(t, "positive", mother.MoodCorrelation)
	assert.InDelta(t, 0.725, mother.Confidence, 0.01)
	assert.Equal(t, []string{"Mother", "Mom"}, mother.Aliases)
	assert.Equal(t, entries[2].Date, mother.LastMentionDate)

	ana := got.People[1]
	assert.Equal(t, "Ana", ana.Person)
	assert.Equal(t, 0.1, ana.AvgMood)
	assert.Equal(t, "mixed", ana.MoodCorrelation)
	assert.Equal(t, 0.85, ana.Confidence)
	assert.Equal(t, []string{"Ana"}, ana.Aliases)

	michael := got.People[2]
	assert.Equal(t, "Michael", michael.Person)
	assert.Equal(t, -0.2, michael.AvgMood)
	assert.Equal(t, "negative", michael.MoodCorrelation)
	assert.Equal(t, []string{"Mike", "Michael"}, michael.Aliases)

	require.Len(t, got.PositiveEnergy, 1)
	assert.Equal(t, "Mother", got.PositiveEnergy[0].Person)
	require.Len(t, got.StressCorrelated, 1)
	assert.Equal(t, "Michael", got.StressCorrelated[0].Person)
}

func TestBuildCircle_RelationWordsNeedWordBoundaries(t *testing.T) {
	entries := []models.JournalEntry{
		journalAt(1, "Sonia and the mummy exhibit", 0.2),
		journalAt(2, "Sonia again, no mummy this time", 0.4),
	}

	got := BuildCircle(context.Background(), entries, nil)

	require.Len(t, got.People, 1)
	assert.Equal(t, "Mother", got.People[0].Person)
	assert.Equal(t, 0.6, got.People[0].Confidence)
	assert.Empty(t, got.StressCorrelated)
}

func TestBuildCircle_Empty(t *testing.T) {
	got := BuildCircle(context.Background(), nil, nil)
	assert.Empty(t, got.People)
	assert.NotNil(t, got.PositiveEnergy)
	assert.NotNil(t, got.StressCorrelated)
}

func TestCircleMood(t *testing.T) {
	assert.Equal(t, -0.4, circleMood(-0.4))
	assert.Equal(t, 1.0, circleMood(1))
	assert.Equal(t, 0.5, circleMood(4))
	assert.Equal(t, 1.0, circleMood(5))
	assert.Equal(t, 0.0, circleMood(9))
	assert.Equal(t, 0.0, circleMood(-3))
}
