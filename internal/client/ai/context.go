package ai

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/moodkeeper/internal/client/memory"
	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
	"github.com/samber/lo"
)

const (
	trendWindow         = 7 * 24 * time.Hour
	trendEntryLimit     = 20
	highlightLimit      = 5
	historyMessageLimit = 6
	manualTagLimit      = 20
)

// JournalContext is the compact background handed to the journal analyzer.
type JournalContext struct {
	ProfileSummary           string `json:"profileSummary"`
	RecentMoodTrend          string `json:"recentMoodTrend"`
	RecentEntriesSummary     string `json:"recentEntriesSummary"`
	LongTermSummary          string `json:"longTermSummary"`
	RollingSummary           string `json:"rollingSummary"`
	RecentChatHistorySummary string `json:"recentChatHistorySummary"`
	ManualTagsSummary        string `json:"manualTagsSummary"`
}

// BuildJournalContext condenses profile, moods, memory and chat history.
func BuildJournalContext(profile models.Profile, moods []models.MoodEntry, mem models.MemoryContext, history []models.JournalMessage, now time.Time) JournalContext {
	trend, highlights := MoodTrend(moods, now)
	lt := mem.LongTermSummary
	rc := mem.RollingContext

	return JournalContext{
		ProfileSummary:       profileSummary(profile),
		RecentMoodTrend:      trend,
		RecentEntriesSummary: highlights,
		LongTermSummary: joinCompact(420,
			memory.CompactText(lt.ProfileSummary, 120),
			memory.CompactText(lt.EmotionalBaselineSummary, 120),
			memory.CompactText(lt.PersonalityPattern, 120),
			memory.CompactText(lt.StressBaseline, 100),
		),
		RollingSummary: joinCompact(420,
			memory.CompactText(rc.RecentMoodTrend7d, 120),
			memory.CompactText(rc.RecentEntriesSummary, 120),
			memory.CompactText(rc.SessionSummary, 120),
			memory.CompactText(rc.ActiveFocus, 90),
		),
		RecentChatHistorySummary: historySummary(history),
		ManualTagsSummary:        manualTagsSummary(lt.ManualTags),
	}
}

// MoodTrend describes the last seven days of mood entries: an average with
// its direction, and highlights of the latest few entries.
func MoodTrend(moods []models.MoodEntry, now time.Time) (string, string) {
	recent := lo.Filter(moods, func(e models.MoodEntry, _ int) bool {
		age := now.Sub(e.DateISO)
		return !e.DateISO.IsZero() && age >= 0 && age <= trendWindow
	})
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].DateISO.After(recent[j].DateISO) })
	if len(recent) > trendEntryLimit {
		recent = recent[:trendEntryLimit]
	}
	if len(recent) == 0 {
		return "No recent mood entries in the last 7 days.", ""
	}

	sort.SliceStable(recent, func(i, j int) bool { return recent[i].DateISO.Before(recent[j].DateISO) })
	scores := lo.Map(recent, func(e models.MoodEntry, _ int) float64 { return e.Score })

	pivot := max(1, len(scores)/2)
	delta := models.Mean(scores[pivot:]) - models.Mean(scores[:pivot])

	trend := fmt.Sprintf("7d average mood score: %.2f.", models.Mean(scores))
	switch {
	case delta >= models.TrendThreshold:
		trend += " Trend: improving."
	case delta <= -models.TrendThreshold:
		trend += " Trend: declining."
	default:
		trend += " Trend: stable."
	}

	highlights := make([]string, 0, highlightLimit)
	for _, e := range tail(recent, highlightLimit) {
		label := "no note"
		if note := memory.CompactText(e.Note, 64); note != "" {
			label = fmt.Sprintf("%q", note)
		}
		highlights = append(highlights, fmt.Sprintf("%s %s mood:%d %s", e.Date, e.Slot, e.Mood, label))
	}

	return memory.CompactText(trend, 180), joinCompact(420, highlights...)
}

func profileSummary(p models.Profile) string {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = "User"
	}
	details := []string{
		labeled("Name", name),
		labeled("Age", p.Age),
		labeled("Gender", p.Gender),
		labeled("Profession", p.Profession),
		labeled("Stress baseline", p.StressLevel),
		labeled("Energy pattern", p.EnergyPattern),
		labeled("Sensitivity", p.EmotionalSensitivity),
		labeled("Preferred tone", p.AITone),
		labeled("Depth", p.SuggestionDepth),
		labeled("About", memory.CompactText(p.About, 180)),
	}
	return joinCompact(420, details...)
}

func labeled(label, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	return label + ": " + value
}

func historySummary(history []models.JournalMessage) string {
	parts := make([]string, 0, historyMessageLimit)
	for _, m := range tail(history, historyMessageLimit) {
		text := memory.CompactText(m.Text, 90)
		if text == "" {
			continue
		}
		role := models.RoleUser
		if m.Role == models.RoleAssistant {
			role = models.RoleAssistant
		}
		parts = append(parts, string(role)+": "+text)
	}
	return joinCompact(520, parts...)
}

func manualTagsSummary(tags []models.ManualTag) string {
	parts := lo.FilterMap(tags, func(t models.ManualTag, _ int) (string, bool) {
		label := memory.CompactText(t.Label, 24)
		name := memory.CompactText(t.Name, 32)
		return label + ": " + name, label != "" && name != ""
	})
	if len(parts) > manualTagLimit {
		parts = parts[:manualTagLimit]
	}
	return joinCompact(520, parts...)
}

func joinCompact(limit int, parts ...string) string {
	return memory.CompactText(strings.Join(lo.Compact(parts), " | "), limit)
}
