package synced

import (
	"encoding/json"
	"time"

	"github.com/dmitrijs2005/moodkeeper/internal/client/memory"
	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
	"github.com/dmitrijs2005/moodkeeper/internal/timex"
)

// MoodCodec encodes the mood entry list ({entries, updatedAt} remotely).
func MoodCodec(clock timex.Clock) *ListCodec[models.MoodEntry] {
	return NewListCodec("entries", clock,
		func(raw json.RawMessage, now time.Time) (models.MoodEntry, error) {
			var in models.MoodInput
			if err := json.Unmarshal(raw, &in); err != nil {
				return models.MoodEntry{}, err
			}
			return models.NormalizeMoodEntry(in, now), nil
		},
		func(e models.MoodEntry, now time.Time) models.MoodEntry {
			return models.NormalizeMoodEntry(e.Input(), now)
		},
		models.SortMoodEntries,
	)
}

// JournalCodec encodes the journal session list ({sessions, updatedAt}
// remotely).
func JournalCodec(clock timex.Clock) *ListCodec[models.JournalSession] {
	return NewListCodec("sessions", clock,
		func(raw json.RawMessage, now time.Time) (models.JournalSession, error) {
			var s models.JournalSession
			if err := json.Unmarshal(raw, &s); err != nil {
				return models.JournalSession{}, err
			}
			return models.NormalizeJournalSession(s, now), nil
		},
		models.NormalizeJournalSession,
		models.SortJournalSessions,
	)
}

// ProfileCodec encodes the profile document. Missing fields read as defaults.
func ProfileCodec() *DocCodec[models.Profile] {
	return NewDocCodec(
		models.DefaultProfile,
		func(p models.Profile) models.Profile { return p },
		func(p models.Profile) bool { return p.UpdatedAt != nil },
	)
}

// LongTermCodec encodes the long-term summary document.
func LongTermCodec() *DocCodec[models.LongTermSummary] {
	return NewDocCodec(
		memory.DefaultLongTermSummary,
		memory.NormalizeLongTermSummary,
		func(s models.LongTermSummary) bool { return s.UpdatedAt != nil },
	)
}

// RollingCodec encodes the rolling context document.
func RollingCodec() *DocCodec[models.RollingContext] {
	return NewDocCodec(
		memory.DefaultRollingContext,
		memory.NormalizeRollingContext,
		func(c models.RollingContext) bool { return c.UpdatedAt != nil },
	)
}
