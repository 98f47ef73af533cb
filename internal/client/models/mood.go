package models

import (
	"math"
	"sort"
	"time"

	"github.com/dmitrijs2005/moodkeeper/internal/timex"
)

// Slot is the time-of-day bucket a mood entry belongs to.
type Slot string

const (
	SlotMorning   Slot = "morning"
	SlotAfternoon Slot = "afternoon"
	SlotEvening   Slot = "evening"
	SlotNight     Slot = "night"
)

// Slots lists every slot in day order.
var Slots = []Slot{SlotMorning, SlotAfternoon, SlotEvening, SlotNight}

var slotOrder = map[Slot]int{SlotMorning: 1, SlotAfternoon: 2, SlotEvening: 3, SlotNight: 4}

var slotHour = map[Slot]int{SlotMorning: 9, SlotAfternoon: 14, SlotEvening: 19, SlotNight: 23}

// Valid reports whether s is one of the four known slots.
func (s Slot) Valid() bool {
	_, ok := slotOrder[s]
	return ok
}

// Hour is the representative hour of the slot, used to timestamp backfills.
func (s Slot) Hour() int {
	if h, ok := slotHour[s]; ok {
		return h
	}
	return 12
}

// SlotForHour maps a clock hour to its slot.
func SlotForHour(hour int) Slot {
	switch {
	case hour >= 5 && hour < 12:
		return SlotMorning
	case hour >= 12 && hour < 17:
		return SlotAfternoon
	case hour >= 17 && hour < 22:
		return SlotEvening
	default:
		return SlotNight
	}
}

// MoodEntry is one mood check-in. Identity is Date+Slot.
type MoodEntry struct {
	ID           string    `json:"id"`
	Date         string    `json:"date"`
	Slot         Slot      `json:"slot"`
	Mood         int       `json:"mood"`
	Score        float64   `json:"score"`
	Note         string    `json:"note"`
	DateISO      time.Time `json:"dateISO"`
	LoggedAt     time.Time `json:"loggedAtTimestamp"`
	IsBackfilled bool      `json:"isBackfilled"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// MoodInput is a mood entry as read from storage or supplied by a caller.
// Nil fields are absent.
type MoodInput struct {
	ID           *string    `json:"id,omitempty"`
	Date         *string    `json:"date,omitempty"`
	Slot         *Slot      `json:"slot,omitempty"`
	Mood         *float64   `json:"mood,omitempty"`
	Score        *float64   `json:"score,omitempty"`
	Note         *string    `json:"note,omitempty"`
	DateISO      *time.Time `json:"dateISO,omitempty"`
	LoggedAt     *time.Time `json:"loggedAtTimestamp,omitempty"`
	IsBackfilled *bool      `json:"isBackfilled,omitempty"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

// MoodEntryID builds the identity key of a date+slot pair.
func MoodEntryID(date string, slot Slot) string {
	return date + "_" + string(slot)
}

// ClampMood bounds a raw mood value to 1..5. A missing or non-finite value
// reads as neutral.
func ClampMood(v *float64) int {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 3
	}
	return int(math.Round(math.Max(1, math.Min(5, *v))))
}

// ScoreForMood maps mood 1..5 to a sentiment score in [-1, 1].
func ScoreForMood(mood int) float64 {
	return Round2(float64(mood-3) / 2)
}

// Round2 rounds to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SlotInstant returns the representative instant of a date+slot pair in loc.
func SlotInstant(date string, slot Slot, loc *time.Location) time.Time {
	d, err := timex.ParseDateKey(date, loc)
	if err != nil {
		return time.Time{}
	}
	return time.Date(d.Year(), d.Month(), d.Day(), slot.Hour(), 0, 0, 0, loc)
}

// NormalizeMoodEntry fills derived fields and defaults. now supplies both the
// fallback timestamps and the local calendar used for "today".
func NormalizeMoodEntry(in MoodInput, now time.Time) MoodEntry {
	loc := now.Location()

	fallback := now
	switch {
	case in.DateISO != nil && !in.DateISO.IsZero():
		fallback = in.DateISO.In(loc)
	case in.LoggedAt != nil && !in.LoggedAt.IsZero():
		fallback = in.LoggedAt.In(loc)
	}

	e := MoodEntry{
		Date: timex.DateKey(fallback),
		Slot: SlotForHour(fallback.Hour()),
		Mood: ClampMood(in.Mood),
	}
	if in.Date != nil && *in.Date != "" {
		e.Date = *in.Date
	}
	if in.Slot != nil && *in.Slot != "" {
		e.Slot = *in.Slot
	}

	e.ID = MoodEntryID(e.Date, e.Slot)
	if in.ID != nil && *in.ID != "" {
		e.ID = *in.ID
	}

	e.Score = ScoreForMood(e.Mood)
	if in.Score != nil && !math.IsNaN(*in.Score) {
		e.Score = *in.Score
	}

	if in.Note != nil {
		e.Note = *in.Note
	}

	if in.DateISO != nil && !in.DateISO.IsZero() {
		e.DateISO = *in.DateISO
	} else {
		e.DateISO = SlotInstant(e.Date, e.Slot, loc)
	}

	e.LoggedAt = firstTime(now, in.LoggedAt, in.UpdatedAt)
	e.CreatedAt = firstTime(now, in.CreatedAt)
	e.UpdatedAt = firstTime(now, in.UpdatedAt)

	if in.IsBackfilled != nil {
		e.IsBackfilled = *in.IsBackfilled
	} else {
		e.IsBackfilled = e.Date != timex.DateKey(now)
	}

	return e
}

// Input converts a canonical entry back into its input shape.
func (e MoodEntry) Input() MoodInput {
	mood := float64(e.Mood)
	return MoodInput{
		ID:           &e.ID,
		Date:         &e.Date,
		Slot:         &e.Slot,
		Mood:         &mood,
		Score:        &e.Score,
		Note:         &e.Note,
		DateISO:      &e.DateISO,
		LoggedAt:     &e.LoggedAt,
		IsBackfilled: &e.IsBackfilled,
		CreatedAt:    &e.CreatedAt,
		UpdatedAt:    &e.UpdatedAt,
	}
}

// SortMoodEntries orders entries newest day first and, within a day, latest
// slot first.
func SortMoodEntries(entries []MoodEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date > entries[j].Date
		}
		return slotOrder[entries[i].Slot] > slotOrder[entries[j].Slot]
	})
}

func firstTime(fallback time.Time, candidates ...*time.Time) time.Time {
	for _, c := range candidates {
		if c != nil && !c.IsZero() {
			return *c
		}
	}
	return fallback
}
