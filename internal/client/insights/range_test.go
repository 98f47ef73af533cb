package insights

import (
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)

func entryAt(at time.Time, mood int, note string) models.MoodEntry {
	return models.MoodEntry{
		ID:      models.MoodEntryID(at.Format("2006-01-02"), models.SlotForHour(at.Hour())),
		Date:    at.Format("2006-01-02"),
		Slot:    models.SlotForHour(at.Hour()),
		Mood:    mood,
		Score:   models.ScoreForMood(mood),
		Note:    note,
		DateISO: at,
	}
}

func TestGetMoodDataByRange_StabilityExample(t *testing.T) {
	entries := []models.MoodEntry{
		entryAt(testNow.Add(-2*24*time.Hour), 5, ""),
		entryAt(testNow.Add(-1*24*time.Hour), 1, ""),
	}

	got := GetMoodDataByRange(entries, models.RangeWeek, testNow)

	assert.Equal(t, 2, got.EntryCount)
	assert.Equal(t, 2.0, got.InstabilityIndex)
	assert.Equal(t, 0, got.StabilityScore)
	assert.Equal(t, 0.0, got.OverallAverage)
	assert.Equal(t, 1, got.NegativeDays)
	assert.Equal(t, 1, got.PositiveDays)
	require.Len(t, got.Samples, 2)
	assert.Equal(t, 1.0, got.Samples[0].M)
	assert.Equal(t, -1.0, got.Samples[1].M)
}

func TestGetMoodDataByRange_SingleEntryIsStable(t *testing.T) {
	got := GetMoodDataByRange([]models.MoodEntry{entryAt(testNow.Add(-time.Hour), 2, "")}, models.RangeDay, testNow)
	assert.Equal(t, 0.0, got.InstabilityIndex)
	assert.Equal(t, 100, got.StabilityScore)
}

func TestGetMoodDataByRange_Windows(t *testing.T) {
	entries := []models.MoodEntry{
		entryAt(testNow.Add(-time.Hour), 4, "today"),
		entryAt(testNow.Add(-3*24*time.Hour), 4, "this week"),
		entryAt(testNow.Add(-20*24*time.Hour), 4, "this month"),
		entryAt(testNow.Add(-200*24*time.Hour), 4, "this year"),
		entryAt(testNow.Add(-400*24*time.Hour), 4, "too old"),
	}

	tests := []struct {
		r    models.Range
		want int
	}{
		{models.RangeDay, 1},
		{models.RangeWeek, 2},
		{models.RangeMonth, 3},
		{models.RangeYear, 4},
	}
	for _, tt := range tests {
		t.Run(string(tt.r), func(t *testing.T) {
			assert.Equal(t, tt.want, GetMoodDataByRange(entries, tt.r, testNow).EntryCount)
		})
	}
}

func TestGetMoodDataByRange_SamplesSortedAndTrimmed(t *testing.T) {
	long := strings.Repeat("word ", 30)
	entries := []models.MoodEntry{
		entryAt(testNow.Add(-1*24*time.Hour), 2, long),
		entryAt(testNow.Add(-3*24*time.Hour), 4, "  short   note "),
	}

	got := GetMoodDataByRange(entries, models.RangeWeek, testNow)

	require.Len(t, got.Samples, 2)
	assert.Equal(t, "2024-03-07", got.Samples[0].D)
	assert.Equal(t, "short note", got.Samples[0].N)
	assert.Equal(t, 0.5, got.Samples[0].M)
	assert.Len(t, got.Samples[1].N, 83)
	assert.True(t, strings.HasSuffix(got.Samples[1].N, "..."))
}

func TestGetMoodDataByRange_CommonNegativeTime(t *testing.T) {
	base := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)
	entries := []models.MoodEntry{
		entryAt(base.Add(8*time.Hour), 2, ""),
		entryAt(base.Add(20*time.Hour), 1, ""),
		entryAt(base.Add(24*time.Hour+19*time.Hour), 2, ""),
		entryAt(base.Add(24*time.Hour+13*time.Hour), 5, ""),
	}

	got := GetMoodDataByRange(entries, models.RangeWeek, testNow)
	require.NotNil(t, got.CommonNegativeTime)
	assert.Equal(t, models.SlotEvening, *got.CommonNegativeTime)
}

func TestGetMoodDataByRange_NoNegativeEntries(t *testing.T) {
	got := GetMoodDataByRange([]models.MoodEntry{entryAt(testNow.Add(-time.Hour), 5, "")}, models.RangeWeek, testNow)
	assert.Nil(t, got.CommonNegativeTime)

	empty := GetMoodDataByRange(nil, models.RangeMonth, testNow)
	assert.Equal(t, 0, empty.EntryCount)
	assert.Equal(t, 100, empty.StabilityScore)
	assert.Nil(t, empty.CommonNegativeTime)
	assert.Empty(t, empty.Samples)
}

func yearEntries() []models.MoodEntry {
	return []models.MoodEntry{
		entryAt(time.Date(2023, 11, 5, 9, 0, 0, 0, time.UTC), 5, "a"),
		entryAt(time.Date(2023, 12, 5, 9, 0, 0, 0, time.UTC), 1, "b"),
		entryAt(time.Date(2023, 12, 6, 9, 0, 0, 0, time.UTC), 3, "c"),
		entryAt(time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC), 4, "d"),
		entryAt(time.Date(2024, 2, 5, 9, 0, 0, 0, time.UTC), 2, "e"),
	}
}

func TestGetMoodDataByRange_Year(t *testing.T) {
	got := GetMoodDataByRange(yearEntries(), models.RangeYear, testNow)

	assert.Nil(t, got.Samples)
	require.NotNil(t, got.YearlyAverage)
	assert.Equal(t, got.OverallAverage, *got.YearlyAverage)
	assert.Equal(t, []models.MonthlyAverage{
		{Month: "2023-11", Avg: 1, Count: 1},
		{Month: "2023-12", Avg: -0.5, Count: 2},
		{Month: "2024-01", Avg: 0.5, Count: 1},
		{Month: "2024-02", Avg: -0.5, Count: 1},
	}, got.MonthlyAverages)
	assert.Nil(t, got.QuarterlyAverages)
}

func TestCompressYearToQuarterly(t *testing.T) {
	year := GetMoodDataByRange(yearEntries(), models.RangeYear, testNow)

	got := CompressYearToQuarterly(year)

	assert.Nil(t, got.MonthlyAverages)
	assert.Equal(t, []models.QuarterlyAverage{
		{Quarter: "2023-Q4", Avg: 0, Count: 3},
		{Quarter: "2024-Q1", Avg: 0, Count: 2},
	}, got.QuarterlyAverages)
	assert.Equal(t, year.EntryCount, got.EntryCount)
	assert.NotNil(t, year.MonthlyAverages)
}
