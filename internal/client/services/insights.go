package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/moodkeeper/internal/client/ai"
	"github.com/dmitrijs2005/moodkeeper/internal/client/insights"
	"github.com/dmitrijs2005/moodkeeper/internal/client/localstore"
	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
	"github.com/dmitrijs2005/moodkeeper/internal/client/synced"
	"github.com/dmitrijs2005/moodkeeper/internal/timex"
)

// DailyInsightLimit caps generated insights per UTC day.
const DailyInsightLimit = 50

// ErrDailyLimitReached is returned by Generate once DailyInsightLimit
// insights were written today.
var ErrDailyLimitReached = errors.New("daily AI insight limit reached (50/day)")

// InsightWriter writes an insight for a prompt payload.
type InsightWriter interface {
	Write(ctx context.Context, p insights.Payload) (string, error)
}

// InsightResult is a generated insight with the data it was based on.
type InsightResult struct {
	Insight           string              `json:"insight"`
	SelectedRangeUsed models.Range        `json:"selectedRangeUsed"`
	EmotionalSummary  models.RangeSummary `json:"emotionalSummary"`
	LimitRemaining    int                 `json:"limitRemaining"`
}

// InsightService summarizes the mood log for display and for model prompts.
type InsightService interface {
	GetMoodDataByRange(ctx context.Context, r models.Range) models.RangeSummary
	// Payload is the prompt payload for r with its estimated token cost.
	Payload(ctx context.Context, r models.Range) (insights.Payload, int)
	// Generate writes an insight for r, or for the profile's default range
	// when r is empty.
	Generate(ctx context.Context, r models.Range) (InsightResult, error)
	// Circle lists the people the journal keeps coming back to.
	Circle(ctx context.Context) insights.Circle
	DailyAverages(ctx context.Context) []insights.DailyAverage
	SlotSeries(ctx context.Context) []insights.SlotPoint
}

type insightService struct {
	cols   *Collections
	moods  MoodService
	local  synced.LocalStore
	writer InsightWriter
	names  NameExtractor
	clock  timex.Clock

	mu sync.Mutex
}

// NewInsightService wires the insights. writer and names may be nil:
// Generate then fails with ai.ErrNotConfigured and Circle relies on the
// capitalized-word heuristic.
func NewInsightService(cols *Collections, moods MoodService, local synced.LocalStore, writer InsightWriter, names NameExtractor, clock timex.Clock) InsightService {
	return &insightService{
		cols:   cols,
		moods:  moods,
		local:  local,
		writer: writer,
		names:  names,
		clock:  clock,
	}
}

func (s *insightService) GetMoodDataByRange(ctx context.Context, r models.Range) models.RangeSummary {
	return insights.GetMoodDataByRange(s.moods.GetEntries(ctx), r, s.clock())
}

func (s *insightService) Payload(ctx context.Context, r models.Range) (insights.Payload, int) {
	profile, _ := s.cols.Profile.Reconcile(ctx)
	p := insights.BuildPayload(s.moods.GetEntries(ctx), r, profile, s.clock())
	return p, insights.EstimatePayloadTokens(p)
}

func (s *insightService) Generate(ctx context.Context, r models.Range) (InsightResult, error) {
	if s.writer == nil {
		return InsightResult{}, ai.ErrNotConfigured
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := localstore.AIUsageKey(s.clock().UTC().Format(time.DateOnly))
	used, err := s.usage(ctx, key)
	if err != nil {
		return InsightResult{}, err
	}
	if used >= DailyInsightLimit {
		return InsightResult{}, ErrDailyLimitReached
	}

	profile, _ := s.cols.Profile.Reconcile(ctx)
	if r == "" {
		if r, err = models.ParseRange(strings.ToLower(profile.DefaultInsightRange)); err != nil {
			r = models.RangeWeek
		}
	}

	p := insights.BuildPayload(s.moods.GetEntries(ctx), r, profile, s.clock())
	text, err := s.writer.Write(ctx, p)
	if err != nil {
		return InsightResult{}, fmt.Errorf("error generating insight: %w", err)
	}

	used++
	if err := s.local.Set(ctx, key, []byte(strconv.Itoa(used))); err != nil {
		return InsightResult{}, fmt.Errorf("error saving insight usage: %w", err)
	}

	return InsightResult{
		Insight:           text,
		SelectedRangeUsed: r,
		EmotionalSummary:  p.EmotionalSummary,
		LimitRemaining:    max(0, DailyInsightLimit-used),
	}, nil
}

// usage reads the counter under key. A missing or garbled value counts as
// zero.
func (s *insightService) usage(ctx context.Context, key string) (int, error) {
	raw, err := s.local.Get(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("error reading insight usage: %w", err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil || n < 0 {
		return 0, nil
	}
	return n, nil
}

func (s *insightService) Circle(ctx context.Context) insights.Circle {
	sessions, _ := s.cols.Journal.Reconcile(ctx)

	extract := func(_ context.Context, text string) []string { return ai.FallbackNames(text) }
	if s.names != nil {
		extract = s.names.Extract
	}
	return insights.BuildCircle(ctx, flattenEntries(sessions), extract)
}

func (s *insightService) DailyAverages(ctx context.Context) []insights.DailyAverage {
	return insights.CalculateDailyAverage(s.moods.GetEntries(ctx))
}

func (s *insightService) SlotSeries(ctx context.Context) []insights.SlotPoint {
	return insights.CalculateDaySlotSeries(s.moods.GetEntries(ctx))
}
