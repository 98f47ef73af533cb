// Package insights compacts mood history into range-scoped aggregates small
// enough to embed in a model prompt.
package insights

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
	"github.com/dmitrijs2005/moodkeeper/internal/timex"
)

const (
	// TokenBudget is the estimated token cost of a whole prompt payload
	// above which its year summary is collapsed to quarters.
	TokenBudget = 1200

	noteLimit = 80
	day       = 24 * time.Hour
)

var rangeDays = map[models.Range]int{
	models.RangeWeek:  7,
	models.RangeMonth: 30,
	models.RangeYear:  365,
}

// Sentiment maps mood 1..5 onto -1..1.
func Sentiment(mood int) float64 {
	return float64(mood-3) / 2
}

// GetMoodDataByRange filters entries to r as seen from now and summarizes
// them. Calendar days and time-of-day buckets use now's location.
func GetMoodDataByRange(entries []models.MoodEntry, r models.Range, now time.Time) models.RangeSummary {
	loc := now.Location()

	var in []models.MoodEntry
	switch r {
	case models.RangeDay:
		today := timex.DateKey(now)
		for _, e := range entries {
			if timex.DateKey(e.DateISO.In(loc)) == today {
				in = append(in, e)
			}
		}
	default:
		days, ok := rangeDays[r]
		if !ok {
			r, days = models.RangeYear, rangeDays[models.RangeYear]
		}
		window := time.Duration(days) * day
		for _, e := range entries {
			if now.Sub(e.DateISO) <= window {
				in = append(in, e)
			}
		}
	}

	if r == models.RangeYear {
		return yearSummary(in, loc)
	}
	return compactSummary(in, r, loc)
}

func compactSummary(entries []models.MoodEntry, r models.Range, loc *time.Location) models.RangeSummary {
	sorted := make([]models.MoodEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DateISO.Before(sorted[j].DateISO)
	})

	sentiments := make([]float64, len(sorted))
	for i, e := range sorted {
		sentiments[i] = Sentiment(e.Mood)
	}

	instability := instabilityIndex(sentiments)
	out := models.RangeSummary{
		Range:            r,
		EntryCount:       len(sorted),
		OverallAverage:   models.Round2(models.Mean(sentiments)),
		InstabilityIndex: instability,
		StabilityScore:   stabilityScore(instability),
		Samples:          make([]models.Sample, 0, len(sorted)),
	}

	byDay := map[string][]float64{}
	negative := map[models.Slot]int{}
	for i, e := range sorted {
		at := e.DateISO.In(loc)
		key := timex.DateKey(at)
		byDay[key] = append(byDay[key], sentiments[i])
		if sentiments[i] < 0 {
			negative[models.SlotForHour(at.Hour())]++
		}
		out.Samples = append(out.Samples, models.Sample{
			D: key,
			M: models.Round2(sentiments[i]),
			N: trimNote(e.Note),
		})
	}

	for _, vals := range byDay {
		switch avg := models.Mean(vals); {
		case avg < 0:
			out.NegativeDays++
		case avg > 0:
			out.PositiveDays++
		}
	}

	best := 0
	for _, s := range models.Slots {
		if negative[s] > best {
			slot := s
			out.CommonNegativeTime = &slot
			best = negative[s]
		}
	}

	return out
}

func yearSummary(entries []models.MoodEntry, loc *time.Location) models.RangeSummary {
	out := compactSummary(entries, models.RangeYear, loc)
	out.Samples = nil
	avg := out.OverallAverage
	out.YearlyAverage = &avg

	byMonth := map[string][]float64{}
	for _, e := range entries {
		key := e.DateISO.In(loc).Format("2006-01")
		byMonth[key] = append(byMonth[key], Sentiment(e.Mood))
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	out.MonthlyAverages = make([]models.MonthlyAverage, 0, len(months))
	for _, m := range months {
		vals := byMonth[m]
		out.MonthlyAverages = append(out.MonthlyAverages, models.MonthlyAverage{
			Month: m,
			Avg:   models.Round2(models.Mean(vals)),
			Count: len(vals),
		})
	}
	return out
}

// CompressYearToQuarterly folds monthly averages into count-weighted
// quarterly ones and drops the monthly list.
func CompressYearToQuarterly(s models.RangeSummary) models.RangeSummary {
	type acc struct {
		sum   float64
		count int
	}
	quarters := map[string]*acc{}
	for _, m := range s.MonthlyAverages {
		var year, month int
		if _, err := fmt.Sscanf(m.Month, "%d-%d", &year, &month); err != nil {
			continue
		}
		key := fmt.Sprintf("%d-Q%d", year, (month+2)/3)
		a, ok := quarters[key]
		if !ok {
			a = &acc{}
			quarters[key] = a
		}
		a.sum += m.Avg * float64(m.Count)
		a.count += m.Count
	}

	keys := make([]string, 0, len(quarters))
	for k := range quarters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := s
	out.MonthlyAverages = nil
	out.QuarterlyAverages = make([]models.QuarterlyAverage, 0, len(keys))
	for _, k := range keys {
		a := quarters[k]
		out.QuarterlyAverages = append(out.QuarterlyAverages, models.QuarterlyAverage{
			Quarter: k,
			Avg:     models.Round2(a.sum / float64(max(a.count, 1))),
			Count:   a.count,
		})
	}
	return out
}

func instabilityIndex(values []float64) float64 {
	if len(values) <= 1 {
		return 0
	}
	var sum float64
	for i := 1; i < len(values); i++ {
		sum += math.Abs(values[i] - values[i-1])
	}
	return models.Round2(sum / float64(len(values)-1))
}

func stabilityScore(instability float64) int {
	return int(math.Max(0, math.Min(100, math.Round((1-instability)*100))))
}

func trimNote(note string) string {
	clean := strings.Join(strings.Fields(note), " ")
	r := []rune(clean)
	if len(r) > noteLimit {
		return string(r[:noteLimit]) + "..."
	}
	return clean
}
