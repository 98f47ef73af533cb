package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/moodkeeper/internal/client/ai"
	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
	"github.com/dmitrijs2005/moodkeeper/internal/logging"
	"github.com/dmitrijs2005/moodkeeper/internal/timex"
)

const (
	JournalCompressThreshold = 10
	MoodCompressThreshold    = 10
	RefreshInterval          = 24 * time.Hour
)

// ShouldCompress decides whether the long-term summary needs a refresh:
// always when forced or when a core field is empty, when enough new entries
// have arrived, or when it is stale and anything new has arrived at all.
func ShouldCompress(lt models.LongTermSummary, journalCount, moodCount int, force bool, now time.Time) bool {
	if force {
		return true
	}

	newJournal := max(0, journalCount-lt.LastProcessedJournalEntryCount)
	newMood := max(0, moodCount-lt.LastProcessedMoodEntryCount)

	missingCore := lt.ProfileSummary == "" || lt.EmotionalBaselineSummary == ""
	threshold := newJournal >= JournalCompressThreshold || newMood >= MoodCompressThreshold
	stale := lt.LastCompressedAt == nil || now.Sub(*lt.LastCompressedAt) >= RefreshInterval

	return missingCore || threshold || (stale && newJournal+newMood > 0)
}

// RefreshInput selects the data a refresh works on. A nil list is loaded
// from its collection.
type RefreshInput struct {
	JournalEntries []models.JournalEntry
	MoodEntries    []models.MoodEntry
	Force          bool
}

// Compressor runs long-term memory compression, at most one at a time.
type Compressor struct {
	cols       *Collections
	summarizer ai.Summarizer
	clock      timex.Clock
	timeout    time.Duration
	logger     logging.Logger

	inFlight atomic.Bool
	wg       sync.WaitGroup
}

// NewCompressor returns a compressor. A zero timeout leaves the summarizer
// call bounded only by the caller's context.
func NewCompressor(cols *Collections, summarizer ai.Summarizer, clock timex.Clock, timeout time.Duration, logger logging.Logger) *Compressor {
	return &Compressor{
		cols:       cols,
		summarizer: summarizer,
		clock:      clock,
		timeout:    timeout,
		logger:     logger.With("module", "compression"),
	}
}

// MaybeRefresh compresses when ShouldCompress agrees and reports whether a
// new summary was stored. It returns false at once while another refresh is
// running. Failures leave the stored summary untouched.
func (c *Compressor) MaybeRefresh(ctx context.Context, in RefreshInput) bool {
	if !c.inFlight.CompareAndSwap(false, true) {
		return false
	}
	defer c.inFlight.Store(false)

	lt, _ := c.cols.LongTerm.Reconcile(ctx)

	journal := in.JournalEntries
	if journal == nil {
		sessions, _ := c.cols.Journal.Reconcile(ctx)
		journal = flattenEntries(sessions)
	}
	moods := in.MoodEntries
	if moods == nil {
		moods, _ = c.cols.Moods.Reconcile(ctx)
	}

	if !ShouldCompress(lt, len(journal), len(moods), in.Force, c.clock()) {
		return false
	}

	profile, _ := c.cols.Profile.Reconcile(ctx)
	req := ai.NewCompressionRequest(profile, lt, journal, moods)

	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	summary, err := c.summarizer.Summarize(callCtx, req)
	if err != nil {
		c.logger.Warn(ctx, "compression aborted", "error", err)
		return false
	}

	now := c.clock()
	journalCount, moodCount := len(journal), len(moods)
	patch := summary.Patch()
	patch.LastCompressedAt = &now
	patch.LastProcessedJournalEntryCount = &journalCount
	patch.LastProcessedMoodEntryCount = &moodCount

	if _, err := saveLongTerm(ctx, c.cols, patch, models.SourceAI, now); err != nil {
		c.logger.Warn(ctx, "compression result not stored", "error", err)
		return false
	}

	c.logger.Info(ctx, "long-term summary refreshed", "journal", journalCount, "moods", moodCount)
	return true
}

// AfterExchange starts a background refresh with a fresh context.
func (c *Compressor) AfterExchange(journal []models.JournalEntry) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.MaybeRefresh(context.Background(), RefreshInput{JournalEntries: journal})
	}()
}

// Wait blocks until background refreshes finish.
func (c *Compressor) Wait() {
	c.wg.Wait()
}
