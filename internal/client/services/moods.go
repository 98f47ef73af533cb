package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
	"github.com/dmitrijs2005/moodkeeper/internal/timex"
)

// MoodUpsert is a mood check-in as entered by the user. Zero values take
// defaults: today, the evening slot, a neutral mood.
type MoodUpsert struct {
	Date         string
	Slot         models.Slot
	Mood         *float64
	Note         string
	LoggedAt     *time.Time
	IsBackfilled *bool
}

// MoodKey selects an entry by id, or by date and slot when ID is empty.
type MoodKey struct {
	ID   string
	Date string
	Slot models.Slot
}

// MoodService manages the mood log.
type MoodService interface {
	GetEntries(ctx context.Context) []models.MoodEntry
	UpsertEntry(ctx context.Context, in MoodUpsert) ([]models.MoodEntry, error)
	DeleteEntry(ctx context.Context, key MoodKey) ([]models.MoodEntry, error)
}

type moodService struct {
	cols  *Collections
	clock timex.Clock
}

func NewMoodService(cols *Collections, clock timex.Clock) MoodService {
	return &moodService{cols: cols, clock: clock}
}

func (s *moodService) GetEntries(ctx context.Context) []models.MoodEntry {
	entries, _ := s.cols.Moods.Reconcile(ctx)
	return entries
}

// UpsertEntry replaces the entry with the same date and slot, keeping its
// creation time, or appends a new one.
func (s *moodService) UpsertEntry(ctx context.Context, in MoodUpsert) ([]models.MoodEntry, error) {
	now := s.clock()

	date := in.Date
	if date == "" {
		date = timex.DateKey(now)
	}
	if _, err := timex.ParseDateKey(date, now.Location()); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}
	slot := in.Slot
	if slot == "" {
		slot = models.SlotEvening
	}
	if !slot.Valid() {
		return nil, fmt.Errorf("invalid slot %q", slot)
	}

	mood := models.ClampMood(in.Mood)
	entry := models.MoodEntry{
		ID:           models.MoodEntryID(date, slot),
		Date:         date,
		Slot:         slot,
		Mood:         mood,
		Score:        models.ScoreForMood(mood),
		Note:         in.Note,
		DateISO:      models.SlotInstant(date, slot, now.Location()),
		LoggedAt:     now,
		IsBackfilled: date != timex.DateKey(now),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.LoggedAt != nil && !in.LoggedAt.IsZero() {
		entry.LoggedAt = *in.LoggedAt
	}
	if in.IsBackfilled != nil {
		entry.IsBackfilled = *in.IsBackfilled
	}

	entries := s.GetEntries(ctx)
	replaced := false
	for i, e := range entries {
		if e.Date == date && e.Slot == slot {
			entry.CreatedAt = e.CreatedAt
			entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, entry)
	}

	saved, err := s.cols.Moods.Persist(ctx, entries)
	if err != nil {
		return nil, fmt.Errorf("error saving mood entries: %w", err)
	}
	return saved, nil
}

func (s *moodService) DeleteEntry(ctx context.Context, key MoodKey) ([]models.MoodEntry, error) {
	entries := s.GetEntries(ctx)

	kept := make([]models.MoodEntry, 0, len(entries))
	for _, e := range entries {
		if key.ID != "" {
			if e.ID == key.ID {
				continue
			}
		} else if e.Date == key.Date && e.Slot == key.Slot {
			continue
		}
		kept = append(kept, e)
	}

	saved, err := s.cols.Moods.Persist(ctx, kept)
	if err != nil {
		return nil, fmt.Errorf("error saving mood entries: %w", err)
	}
	return saved, nil
}
