package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/moodkeeper/internal/client/ai"
	"github.com/dmitrijs2005/moodkeeper/internal/client/memory"
	"github.com/dmitrijs2005/moodkeeper/internal/client/remote/remotetest"
	"github.com/dmitrijs2005/moodkeeper/internal/logging"
)

var testNow = time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock { return &testClock{now: testNow} }

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type env struct {
	clock *testClock
	local *remotetest.LocalStore
	rs    *remotetest.Store
	cols  *Collections
}

func newEnv(t *testing.T, userID string) *env {
	t.Helper()
	e := &env{
		clock: newTestClock(),
		local: remotetest.NewLocal(),
		rs:    remotetest.New(userID),
	}
	e.cols = NewCollections(e.local, e.rs, e.clock.Now, logging.Nop())
	return e
}

type fakeSummarizer struct {
	mu      sync.Mutex
	summary memory.ModelSummary
	err     error
	calls   int
	reqs    []ai.CompressionRequest
}

func (f *fakeSummarizer) Summarize(_ context.Context, req ai.CompressionRequest) (memory.ModelSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.reqs = append(f.reqs, req)
	return f.summary, f.err
}

func (f *fakeSummarizer) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func modelSummary() memory.ModelSummary {
	return memory.ModelSummary{
		ProfileSummary:           "Thoughtful and busy",
		EmotionalBaselineSummary: "Mostly steady",
		PersonalityPattern:       "Reflective",
		StressBaseline:           "Moderate at work",
		EmotionalTriggers:        []string{"deadlines"},
		SupportPatterns:          []string{"walks"},
		RecurringThemes:          []string{"work"},
		RelationshipPatterns:     []string{"close to sister"},
	}
}

// cannedResponder answers every model call with the same text.
type cannedResponder struct {
	mu   sync.Mutex
	out  string
	err  error
	reqs []ai.Request
}

func (r *cannedResponder) Respond(_ context.Context, req ai.Request) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reqs = append(r.reqs, req)
	return r.out, r.err
}

func (r *cannedResponder) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reqs)
}
