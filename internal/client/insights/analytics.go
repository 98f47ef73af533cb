package insights

import (
	"sort"
	"strings"

	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
)

// DailyAverage is the mean score of one calendar day.
type DailyAverage struct {
	Date    string  `json:"date"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// SlotPoint is the mean score of one time-of-day slot.
type SlotPoint struct {
	Label string      `json:"label"`
	Value float64     `json:"value"`
	Slot  models.Slot `json:"slot"`
	Count int         `json:"count"`
}

// CalculateDailyAverage groups entries by day, oldest first.
func CalculateDailyAverage(entries []models.MoodEntry) []DailyAverage {
	byDate := map[string][]float64{}
	for _, e := range entries {
		if e.Date == "" {
			continue
		}
		byDate[e.Date] = append(byDate[e.Date], e.Score)
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	out := make([]DailyAverage, 0, len(dates))
	for _, d := range dates {
		out = append(out, DailyAverage{
			Date:    d,
			Average: models.Round2(models.Mean(byDate[d])),
			Count:   len(byDate[d]),
		})
	}
	return out
}

// CalculateDaySlotSeries averages entries per slot in day order, skipping
// empty slots. Entries with an unknown slot count as evening.
func CalculateDaySlotSeries(entries []models.MoodEntry) []SlotPoint {
	bySlot := map[models.Slot][]float64{}
	for _, e := range entries {
		slot := e.Slot
		if !slot.Valid() {
			slot = models.SlotEvening
		}
		bySlot[slot] = append(bySlot[slot], e.Score)
	}

	var out []SlotPoint
	for _, s := range models.Slots {
		vals := bySlot[s]
		if len(vals) == 0 {
			continue
		}
		out = append(out, SlotPoint{
			Label: strings.ToUpper(string(s)[:1]),
			Value: models.Round2(models.Mean(vals)),
			Slot:  s,
			Count: len(vals),
		})
	}
	return out
}
